package mastery

// Bucket groups ladder levels for the distribution view.
type Bucket string

const (
	BucketNew      Bucket = "new"
	BucketLearning Bucket = "learning"
	BucketFamiliar Bucket = "familiar"
	BucketMastered Bucket = "mastered"
)

// BucketFor maps a level into its distribution bucket.
func BucketFor(l Level) Bucket {
	switch {
	case l >= LevelAcquired:
		return BucketMastered
	case l == LevelUnderstood:
		return BucketFamiliar
	case l >= LevelAttempted:
		return BucketLearning
	default:
		return BucketNew
	}
}

// Distribution counts corpus questions per bucket. New is derived from the
// corpus size, so the four buckets always sum to Total.
type Distribution struct {
	Mastered int `json:"mastered"`
	Familiar int `json:"familiar"`
	Learning int `json:"learning"`
	New      int `json:"new"`
	Total    int `json:"total"`
}
