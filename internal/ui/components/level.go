package components

import "github.com/fpdrill/fpdrill/internal/mastery"

// LevelLabel is the display name of a mastery level.
func LevelLabel(l mastery.Level) string {
	switch l {
	case mastery.LevelAttempted:
		return "挑戦"
	case mastery.LevelLearning:
		return "学習中"
	case mastery.LevelUnderstood:
		return "理解"
	case mastery.LevelAcquired:
		return "習得"
	case mastery.LevelComplete:
		return "完璧"
	default:
		return "未学習"
	}
}
