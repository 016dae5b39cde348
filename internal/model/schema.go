package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidMission   = errors.New("model: invalid mission")
	ErrInvalidDayRecord = errors.New("model: invalid day record")
	ErrInvalidMomentum  = errors.New("model: invalid momentum")
	ErrInvalidAppState  = errors.New("model: invalid app state")
)

// The Validate* functions check untrusted decoded JSON (as produced by
// decodeUntrusted) field by field. Unknown fields are ignored.

func ValidateMission(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: not an object", ErrInvalidMission)
	}
	if err := requireString(obj, "id"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMission, err)
	}
	if err := requireString(obj, "title"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMission, err)
	}
	if err := requireString(obj, "category"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMission, err)
	}
	if c := Category(obj["category"].(string)); !c.IsValid() {
		return fmt.Errorf("%w: category %q", ErrInvalidMission, c)
	}
	if err := requireInt(obj, "durationMinutes"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMission, err)
	}
	if err := optionalString(obj, "rationale"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMission, err)
	}
	if _, ok := obj["completed"].(bool); !ok {
		return fmt.Errorf("%w: field %q must be a boolean", ErrInvalidMission, "completed")
	}
	if err := optionalString(obj, "completedAt"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMission, err)
	}
	return nil
}

func ValidateDayRecord(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: not an object", ErrInvalidDayRecord)
	}
	if err := requireString(obj, "date"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDayRecord, err)
	}
	tasks, ok := obj["tasks"].([]any)
	if !ok {
		return fmt.Errorf("%w: field %q must be an array", ErrInvalidDayRecord, "tasks")
	}
	for i, task := range tasks {
		if err := ValidateMission(task); err != nil {
			return fmt.Errorf("%w: tasks[%d]: %w", ErrInvalidDayRecord, i, err)
		}
	}
	if err := requireInt(obj, "completedCount"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDayRecord, err)
	}
	return nil
}

func ValidateMomentum(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: not an object", ErrInvalidMomentum)
	}
	if err := requireInt(obj, "weeklyScore"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMomentum, err)
	}
	if err := requireInt(obj, "lifetimeTotal"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMomentum, err)
	}
	if err := requireString(obj, "trackingStartDate"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMomentum, err)
	}
	return nil
}

func ValidateAppState(v any) error {
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: not an object", ErrInvalidAppState)
	}
	history, ok := obj["history"].([]any)
	if !ok {
		return fmt.Errorf("%w: field %q must be an array", ErrInvalidAppState, "history")
	}
	for i, rec := range history {
		if err := ValidateDayRecord(rec); err != nil {
			return fmt.Errorf("%w: history[%d]: %w", ErrInvalidAppState, i, err)
		}
	}
	if err := ValidateMomentum(obj["momentum"]); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAppState, err)
	}
	if err := requireString(obj, "lastResetDate"); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAppState, err)
	}
	return nil
}

type missionWire struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Category        string  `json:"category"`
	DurationMinutes int     `json:"durationMinutes"`
	Rationale       *string `json:"rationale"`
	Completed       bool    `json:"completed"`
	CompletedAt     *string `json:"completedAt"`
}

type dayRecordWire struct {
	Date           string        `json:"date"`
	Tasks          []missionWire `json:"tasks"`
	CompletedCount int           `json:"completedCount"`
}

type appStateWire struct {
	History       []dayRecordWire `json:"history"`
	Momentum      Momentum        `json:"momentum"`
	LastResetDate string          `json:"lastResetDate"`
}

// DecodeAppState validates raw bytes and only then builds the typed state.
// completedAt values that do not parse as RFC 3339 are dropped.
func DecodeAppState(data []byte) (AppState, error) {
	raw, err := decodeUntrusted(data)
	if err != nil {
		return AppState{}, fmt.Errorf("%w: %v", ErrInvalidAppState, err)
	}
	if err := ValidateAppState(raw); err != nil {
		return AppState{}, err
	}
	var wire appStateWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return AppState{}, fmt.Errorf("%w: %v", ErrInvalidAppState, err)
	}

	out := AppState{
		History:       make([]DayRecord, 0, len(wire.History)),
		Momentum:      wire.Momentum.clamped(),
		LastResetDate: wire.LastResetDate,
	}
	for _, rec := range wire.History {
		day := DayRecord{
			Date:           rec.Date,
			Tasks:          make([]Mission, 0, len(rec.Tasks)),
			CompletedCount: rec.CompletedCount,
		}
		for _, mw := range rec.Tasks {
			day.Tasks = append(day.Tasks, mw.toMission())
		}
		out.History = append(out.History, day)
	}
	return out, nil
}

func (w missionWire) toMission() Mission {
	m := Mission{
		ID:              w.ID,
		Title:           w.Title,
		Category:        Category(w.Category),
		DurationMinutes: w.DurationMinutes,
		Completed:       w.Completed,
	}
	if w.Rationale != nil {
		m.Rationale = *w.Rationale
	}
	if w.CompletedAt != nil {
		if at, ok := parseTimestamp(*w.CompletedAt); ok {
			m.CompletedAt = &at
		}
	}
	return m
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if at, err := time.Parse(layout, raw); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}

func decodeUntrusted(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func requireString(obj map[string]any, field string) error {
	if _, ok := obj[field].(string); !ok {
		return fmt.Errorf("field %q must be a string", field)
	}
	return nil
}

func optionalString(obj map[string]any, field string) error {
	v, present := obj[field]
	if !present || v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("field %q must be a string when present", field)
	}
	return nil
}

func requireInt(obj map[string]any, field string) error {
	if _, ok := intField(obj, field); !ok {
		return fmt.Errorf("field %q must be an integer", field)
	}
	return nil
}

func intField(obj map[string]any, field string) (int, bool) {
	num, ok := obj[field].(json.Number)
	if !ok {
		return 0, false
	}
	v, err := num.Int64()
	if err != nil {
		return 0, false
	}
	return int(v), true
}
