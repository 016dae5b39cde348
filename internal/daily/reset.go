// Package daily holds the pure day-lifecycle rules: rollover, reconciliation
// of today's missions into history, momentum, and the projections the views
// read. Nothing here performs I/O.
package daily

import "github.com/sandeepkv93/lifeo/internal/model"

// DecideReset advances LastResetDate to today when it differs. History and
// momentum are never touched; a DayRecord for the new date only appears once
// Reconcile runs for it.
func DecideReset(state model.AppState, today string) model.AppState {
	if state.LastResetDate == today {
		return state
	}
	next := state.Clone()
	next.LastResetDate = today
	return next
}

// ClockMovedBack reports a rollover to a date that sorts before the marker.
// DecideReset still rolls over; callers only log it.
func ClockMovedBack(state model.AppState, today string) bool {
	return state.LastResetDate != "" && today < state.LastResetDate
}

// FindDay returns the first record for date.
func FindDay(history []model.DayRecord, date string) (model.DayRecord, bool) {
	for _, rec := range history {
		if rec.Date == date {
			return rec, true
		}
	}
	return model.DayRecord{}, false
}

// TodayTasks is the working set for today: the stored record's missions, or
// nothing after a rollover.
func TodayTasks(state model.AppState, today string) []model.Mission {
	rec, ok := FindDay(state.History, today)
	if !ok {
		return []model.Mission{}
	}
	return model.CloneMissions(rec.Tasks)
}
