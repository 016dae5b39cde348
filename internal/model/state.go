package model

// DayRecord is the durable record of one calendar date.
type DayRecord struct {
	Date           string    `json:"date" yaml:"date"`
	Tasks          []Mission `json:"tasks" yaml:"tasks"`
	CompletedCount int       `json:"completedCount" yaml:"completedCount"`
}

type Momentum struct {
	WeeklyScore       int    `json:"weeklyScore" yaml:"weeklyScore"`
	LifetimeTotal     int    `json:"lifetimeTotal" yaml:"lifetimeTotal"`
	TrackingStartDate string `json:"trackingStartDate" yaml:"trackingStartDate"`
}

// AppState is the root object persisted under KeyAppState.
type AppState struct {
	History       []DayRecord `json:"history" yaml:"history"`
	Momentum      Momentum    `json:"momentum" yaml:"momentum"`
	LastResetDate string      `json:"lastResetDate" yaml:"lastResetDate"`
}

const (
	KeyAppState = "appState"
	KeyUIPrefs  = "uiPrefs"
)

const MaxWeeklyScore = 100

// clamped pulls out-of-range stored values back into weeklyScore [0,100]
// and lifetimeTotal >= 0.
func (m Momentum) clamped() Momentum {
	m.WeeklyScore = min(MaxWeeklyScore, max(0, m.WeeklyScore))
	m.LifetimeTotal = max(0, m.LifetimeTotal)
	return m
}

func DefaultAppState(today string) AppState {
	return AppState{
		History: []DayRecord{},
		Momentum: Momentum{
			TrackingStartDate: today,
		},
		LastResetDate: today,
	}
}

// Clone deep-copies the state so callers can hand it out without sharing slices.
func (s AppState) Clone() AppState {
	out := s
	out.History = make([]DayRecord, len(s.History))
	for i, rec := range s.History {
		rec.Tasks = CloneMissions(rec.Tasks)
		out.History[i] = rec
	}
	return out
}
