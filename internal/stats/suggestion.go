package stats

import (
	"math"

	"github.com/selene-app/selene-api/internal/template"
)

type Trend string

const (
	TrendUpward   Trend = "upward"
	TrendDownward Trend = "downward"
	TrendNeutral  Trend = "neutral"
)

// TrendStats condenses a recurring task's completion-count history into the
// values the suggestion rules branch on.
type TrendStats struct {
	Trend   Trend
	Average int
	Last    int
}

// NewTrendStats classifies the trend from the two most recent samples and
// takes the rounded mean over all of them. Fewer than two samples is a
// neutral trend.
func NewTrendStats(history []HistorySample) TrendStats {
	s := TrendStats{Trend: TrendNeutral}
	if len(history) == 0 {
		return s
	}

	sum := 0
	for _, h := range history {
		sum += h.CompletionCount
	}
	s.Average = int(math.Round(float64(sum) / float64(len(history))))
	s.Last = history[len(history)-1].CompletionCount

	if len(history) >= 2 {
		prev := history[len(history)-2].CompletionCount
		switch {
		case s.Last > prev:
			s.Trend = TrendUpward
		case s.Last < prev:
			s.Trend = TrendDownward
		}
	}
	return s
}

// SuggestTarget recommends the next cycle's target count for a recurring
// task. Advisory only; it never mutates state.
func SuggestTarget(history []HistorySample, goal *template.Goal, targetCount int) int {
	s := NewTrendStats(history)

	if goal == nil {
		return targetCount
	}

	switch *goal {
	case template.GoalMaximize:
		switch {
		case s.Last == 0:
			// Didn't do it at all last cycle; start small.
			return 1
		case s.Trend == TrendDownward:
			return s.Last + 1
		case s.Last < s.Average:
			return s.Average
		case s.Last < targetCount:
			return targetCount
		default:
			return min(s.Last+1, targetCount+1)
		}
	case template.GoalMinimize:
		switch {
		case s.Last > targetCount:
			return max(s.Average-1, 0)
		case s.Last == targetCount:
			return max(targetCount-1, 0)
		default:
			return max(min(s.Average-1, targetCount-1), 0)
		}
	default:
		return targetCount
	}
}
