package daily

import "github.com/sandeepkv93/lifeo/internal/model"

// Reconcile folds the working missions into history as today's record. The
// record is rebuilt from scratch: an existing record for today is replaced in
// place, any duplicates for today are dropped, otherwise the record is
// appended. The inputs are not modified.
func Reconcile(state model.AppState, today string, tasks []model.Mission) model.AppState {
	record := model.DayRecord{
		Date:           today,
		Tasks:          model.CloneMissions(tasks),
		CompletedCount: CountCompleted(tasks),
	}
	if record.Tasks == nil {
		record.Tasks = []model.Mission{}
	}

	next := state.Clone()
	history := make([]model.DayRecord, 0, len(next.History)+1)
	placed := false
	for _, rec := range next.History {
		if rec.Date != today {
			history = append(history, rec)
			continue
		}
		if !placed {
			history = append(history, record)
			placed = true
		}
	}
	if !placed {
		history = append(history, record)
	}
	next.History = history
	return next
}

func CountCompleted(tasks []model.Mission) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
