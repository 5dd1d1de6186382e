package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fpdrill/fpdrill/internal/app"
	"github.com/fpdrill/fpdrill/internal/selection"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Start a study session directly",
	Example: `  fpdrill study --strategy category --category tax-planning
  fpdrill study --strategy year --year 2024 --count 20
  fpdrill study --strategy weakness`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := requestFromFlags(cmd)
		if err != nil {
			return err
		}
		env, err := setup(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		count := env.count(req.Count)
		req.Count = env.requestCount(req)
		return app.Run(app.Options{
			Engine: env.Engine,
			Count:  count,
			Study:  &req,
		})
	},
}

func init() {
	addSelectionFlags(studyCmd)
}

// addSelectionFlags registers the flags that describe a selection.Request.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", string(selection.StrategyRandom),
		"random, category, year, weakness, bookmarked or incorrect-today")
	cmd.Flags().String("category", "", "Category ID for --strategy category")
	cmd.Flags().Int("year", 0, "Exam year for --strategy year")
	cmd.Flags().String("grade", "", "Exam grade (default: the target grade from settings)")
	cmd.Flags().Int("count", 0, "Number of questions (default FPDRILL_DEFAULT_COUNT)")
	cmd.Flags().StringSlice("exclude", nil, "Question IDs to leave out")
}

func requestFromFlags(cmd *cobra.Command) (selection.Request, error) {
	name, _ := cmd.Flags().GetString("strategy")
	strategy, err := selection.ParseStrategy(name)
	if err != nil {
		return selection.Request{}, err
	}
	req := selection.Request{Strategy: strategy}
	req.Category, _ = cmd.Flags().GetString("category")
	req.Year, _ = cmd.Flags().GetInt("year")
	req.Grade, _ = cmd.Flags().GetString("grade")
	req.Count, _ = cmd.Flags().GetInt("count")
	req.Exclude, _ = cmd.Flags().GetStringSlice("exclude")
	return req, req.Validate()
}
