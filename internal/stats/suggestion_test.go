package stats_test

import (
	"testing"

	"github.com/selene-app/selene-api/internal/stats"
	"github.com/selene-app/selene-api/internal/template"
)

func history(counts ...int) []stats.HistorySample {
	samples := make([]stats.HistorySample, 0, len(counts))
	for _, c := range counts {
		samples = append(samples, stats.HistorySample{CompletionCount: c})
	}
	return samples
}

func goalPtr(g template.Goal) *template.Goal {
	return &g
}

func TestNewTrendStats(t *testing.T) {
	cases := []struct {
		name    string
		history []stats.HistorySample
		want    stats.TrendStats
	}{
		{"Empty", nil, stats.TrendStats{Trend: stats.TrendNeutral}},
		{"SingleSample", history(7), stats.TrendStats{Trend: stats.TrendNeutral, Average: 7, Last: 7}},
		{"Upward", history(3, 5), stats.TrendStats{Trend: stats.TrendUpward, Average: 4, Last: 5}},
		{"Downward", history(5, 3), stats.TrendStats{Trend: stats.TrendDownward, Average: 4, Last: 3}},
		{"Flat", history(4, 4), stats.TrendStats{Trend: stats.TrendNeutral, Average: 4, Last: 4}},
		{"AverageRoundsHalfUp", history(1, 2), stats.TrendStats{Trend: stats.TrendUpward, Average: 2, Last: 2}},
		{"OnlyLastTwoDecideTrend", history(9, 1, 2), stats.TrendStats{Trend: stats.TrendUpward, Average: 4, Last: 2}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stats.NewTrendStats(tc.history); got != tc.want {
				t.Errorf("NewTrendStats() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestSuggestTargetMaximize(t *testing.T) {
	maximize := goalPtr(template.GoalMaximize)

	cases := []struct {
		name    string
		history []stats.HistorySample
		target  int
		want    int
	}{
		{"SkippedLastCycleStartsAtOne", history(0), 20, 1},
		{"SkippedLastCycleAfterActivity", history(6, 0), 10, 1},
		{"EmptyHistoryStartsAtOne", nil, 5, 1},
		{"DownwardTrendNudgesUp", history(5, 3), 10, 4},
		{"BelowAverageSuggestsAverage", history(9, 2, 3), 10, 5},
		{"BelowTargetSuggestsTarget", history(1, 3), 5, 5},
		{"AtTargetPushesOneBeyond", history(3, 4), 4, 5},
		{"CappedAtTargetPlusOne", history(2, 6), 3, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stats.SuggestTarget(tc.history, maximize, tc.target)
			if got != tc.want {
				t.Errorf("SuggestTarget() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSuggestTargetMinimize(t *testing.T) {
	minimize := goalPtr(template.GoalMinimize)

	cases := []struct {
		name    string
		history []stats.HistorySample
		target  int
		want    int
	}{
		{"AtTargetEasesDown", history(5), 5, 4},
		{"OverTargetSuggestsAverageMinusOne", history(4, 6), 5, 4},
		{"UnderTargetTakesSmallerOfBounds", history(5, 3), 4, 3},
		{"NeverNegative", history(0), 1, 0},
		{"LowHistoryFloorsAtZero", history(1, 1), 3, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := stats.SuggestTarget(tc.history, minimize, tc.target)
			if got != tc.want {
				t.Errorf("SuggestTarget() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestSuggestTargetHoldSteady(t *testing.T) {
	cases := []struct {
		name    string
		history []stats.HistorySample
		target  int
	}{
		{"NoGoalKeepsTarget", history(1, 9, 4), 7},
		{"NoGoalEmptyHistory", nil, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stats.SuggestTarget(tc.history, nil, tc.target); got != tc.target {
				t.Errorf("SuggestTarget() = %d, want unchanged %d", got, tc.target)
			}
		})
	}
}
