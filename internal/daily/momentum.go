package daily

import "github.com/sandeepkv93/lifeo/internal/model"

// ApplyCompletion credits one incomplete-to-complete transition.
func ApplyCompletion(m model.Momentum) model.Momentum {
	m.WeeklyScore = min(model.MaxWeeklyScore, m.WeeklyScore+1)
	m.LifetimeTotal++
	return m
}

// ApplyCompletions credits n transitions, one ApplyCompletion each.
func ApplyCompletions(m model.Momentum, n int) model.Momentum {
	for i := 0; i < n; i++ {
		m = ApplyCompletion(m)
	}
	return m
}

// NewCompletions is the net number of newly completed missions between two
// versions of a working list. Reopens and skips never go negative.
func NewCompletions(before, after []model.Mission) int {
	return max(0, CountCompleted(after)-CountCompleted(before))
}
