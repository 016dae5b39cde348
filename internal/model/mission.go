package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidCategory = errors.New("model: invalid mission category")
	ErrInvalidDuration = errors.New("model: invalid mission duration")
)

type Category string

const (
	CategoryFocus         Category = "Focus"
	CategoryHealth        Category = "Health"
	CategoryMoney         Category = "Money"
	CategoryAdmin         Category = "Admin"
	CategoryRelationships Category = "Relationships"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFocus,
	CategoryHealth,
	CategoryMoney,
	CategoryAdmin,
	CategoryRelationships,
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryFocus, CategoryHealth, CategoryMoney, CategoryAdmin, CategoryRelationships:
		return true
	default:
		return false
	}
}

// ParseCategory matches a category name case-insensitively.
func ParseCategory(raw string) (Category, error) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(string(c), trimmed) {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
}

// Mission is one of the day's planned tasks.
type Mission struct {
	ID              string     `json:"id" yaml:"id"`
	Title           string     `json:"title" yaml:"title"`
	Category        Category   `json:"category" yaml:"category"`
	DurationMinutes int        `json:"durationMinutes" yaml:"durationMinutes"`
	Rationale       string     `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Completed       bool       `json:"completed" yaml:"completed"`
	CompletedAt     *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`
}

func (m Mission) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return errors.New("model: mission id is required")
	}
	if strings.TrimSpace(m.Title) == "" {
		return errors.New("model: mission title is required")
	}
	if !m.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, m.Category)
	}
	if m.DurationMinutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidDuration, m.DurationMinutes)
	}
	if !m.Completed && m.CompletedAt != nil {
		return errors.New("model: completed_at must be nil when mission is not completed")
	}
	return nil
}

// MarkCompleted returns a copy completed at the given time.
func (m Mission) MarkCompleted(at time.Time) Mission {
	at = at.UTC()
	m.Completed = true
	m.CompletedAt = &at
	return m
}

// MarkOpen returns a copy with completion cleared.
func (m Mission) MarkOpen() Mission {
	m.Completed = false
	m.CompletedAt = nil
	return m
}

// CloneMissions copies the slice and every CompletedAt pointer.
func CloneMissions(in []Mission) []Mission {
	if in == nil {
		return nil
	}
	out := make([]Mission, len(in))
	for i, m := range in {
		if m.CompletedAt != nil {
			at := *m.CompletedAt
			m.CompletedAt = &at
		}
		out[i] = m
	}
	return out
}
