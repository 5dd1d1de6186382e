// Package corpus owns the question corpus: the FP exam category catalogue
// and validated, all-or-nothing import of question files.
package corpus

// Category is one of the six FP exam subject areas.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Color     string `json:"color"`
}

var categories = []Category{
	{ID: "life-planning", Name: "ライフプランニングと資金計画", ShortName: "ライフプランニング", Color: "#3b82f6"},
	{ID: "risk-management", Name: "リスク管理", ShortName: "リスク管理", Color: "#ef4444"},
	{ID: "financial-assets", Name: "金融資産運用", ShortName: "金融資産運用", Color: "#10b981"},
	{ID: "tax-planning", Name: "タックスプランニング", ShortName: "タックス", Color: "#f59e0b"},
	{ID: "real-estate", Name: "不動産", ShortName: "不動産", Color: "#8b5cf6"},
	{ID: "inheritance", Name: "相続・事業承継", ShortName: "相続", Color: "#ec4899"},
}

// Categories returns the catalogue in exam order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryIDs returns the category IDs in exam order.
func CategoryIDs() []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

// LookupCategory returns the category with the given ID.
func LookupCategory(id string) (Category, bool) {
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Accepted enumerations for question fields.
var (
	Grades        = []string{"3", "2"}
	Sessions      = []string{"5月", "9月", "1月"}
	QuestionTypes = []string{"true-false", "multiple-choice", "calculation"}
	Difficulties  = []string{"easy", "medium", "hard"}
)
