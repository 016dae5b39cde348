package daily

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for every persisted date.
const DateLayout = "2006-01-02"

// DateString formats t in its own location, so callers pick the zone.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}

func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("daily: parse date %q: %w", date, err)
	}
	return t, nil
}

func PreviousDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return DateString(t.AddDate(0, 0, -1)), nil
}

// NextMidnight is the first instant of the day after now, in loc.
func NextMidnight(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, loc)
}

// DayIndex maps Monday to 0 and Sunday to 6.
func DayIndex(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 6
	}
	return wd - 1
}

// WeekStart returns the Monday of the week containing date.
func WeekStart(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return DateString(t.AddDate(0, 0, -DayIndex(t))), nil
}
