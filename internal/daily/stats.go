package daily

import (
	"math"

	"github.com/sandeepkv93/lifeo/internal/model"
)

// CompletionRate is the rounded percentage of completed missions.
func CompletionRate(tasks []model.Mission) int {
	if len(tasks) == 0 {
		return 0
	}
	return int(math.Round(float64(CountCompleted(tasks)) * 100 / float64(len(tasks))))
}

// BadgeCount recounts today's completed missions from the stored record.
func BadgeCount(state model.AppState, today string) int {
	rec, ok := FindDay(state.History, today)
	if !ok {
		return 0
	}
	return CountCompleted(rec.Tasks)
}

// YesterdayIncomplete lists the missions left open on the previous date.
func YesterdayIncomplete(state model.AppState, today string) []model.Mission {
	yesterday, err := PreviousDate(today)
	if err != nil {
		return nil
	}
	rec, ok := FindDay(state.History, yesterday)
	if !ok {
		return nil
	}
	out := make([]model.Mission, 0, len(rec.Tasks))
	for _, m := range model.CloneMissions(rec.Tasks) {
		if !m.Completed {
			out = append(out, m)
		}
	}
	return out
}

// WeekSummary returns completed counts for Monday through Sunday of the week
// containing today.
func WeekSummary(history []model.DayRecord, today string) [7]int {
	var out [7]int
	start, err := WeekStart(today)
	if err != nil {
		return out
	}
	monday, _ := ParseDate(start)
	for i := range out {
		date := DateString(monday.AddDate(0, 0, i))
		if rec, ok := FindDay(history, date); ok {
			out[i] = CountCompleted(rec.Tasks)
		}
	}
	return out
}

type HeatLevel int

const (
	HeatNone HeatLevel = iota
	HeatSome
	HeatHigh
)

type HeatCell struct {
	Date      string
	Completed int
	Level     HeatLevel
}

// Heatmap returns one row per week, oldest first, Sunday-aligned like a
// contribution graph. Days after today are left out of the last row.
func Heatmap(history []model.DayRecord, today string, weeks int) [][]HeatCell {
	end, err := ParseDate(today)
	if err != nil || weeks <= 0 {
		return nil
	}
	counts := make(map[string]int, len(history))
	for _, rec := range history {
		counts[rec.Date] = CountCompleted(rec.Tasks)
	}
	start := end.AddDate(0, 0, -(weeks-1)*7-int(end.Weekday()))
	rows := make([][]HeatCell, 0, weeks)
	for w := 0; w < weeks; w++ {
		row := make([]HeatCell, 0, 7)
		for d := 0; d < 7; d++ {
			day := start.AddDate(0, 0, w*7+d)
			if day.After(end) {
				break
			}
			date := DateString(day)
			n := counts[date]
			row = append(row, HeatCell{Date: date, Completed: n, Level: heatLevel(n)})
		}
		rows = append(rows, row)
	}
	return rows
}

func heatLevel(completed int) HeatLevel {
	switch {
	case completed >= 4:
		return HeatHigh
	case completed >= 1:
		return HeatSome
	default:
		return HeatNone
	}
}
