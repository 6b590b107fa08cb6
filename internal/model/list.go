package model

import (
	"errors"
	"math"
	"strings"
	"time"
)

type ListState struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	CreatedAt   time.Time      `json:"createdAt"`
	LastResetAt time.Time      `json:"lastResetAt"`
	Tasks       []TaskItem     `json:"tasks"`
	Settings    RecurrenceRule `json:"settings"`
}

// NewList returns an empty list with default settings whose current period
// starts at now.
func NewList(id, name string, now time.Time) ListState {
	return ListState{
		ID:          id,
		Name:        name,
		CreatedAt:   now,
		LastResetAt: now,
		Tasks:       []TaskItem{},
		Settings:    DefaultRecurrenceRule(),
	}
}

func (l ListState) Validate() error {
	if strings.TrimSpace(l.ID) == "" {
		return errors.New("model: list id is required")
	}
	if strings.TrimSpace(l.Name) == "" {
		return errors.New("model: list name is required")
	}
	if l.CreatedAt.IsZero() {
		return errors.New("model: list created_at is required")
	}
	if l.LastResetAt.Before(l.CreatedAt) {
		return errors.New("model: list last_reset_at precedes created_at")
	}
	return l.Settings.Validate()
}

func (l ListState) Clone() ListState {
	out := l
	out.Tasks = CloneTasks(l.Tasks)
	return out
}

type Progress struct {
	Total     int
	Completed int
	Percent   int
}

func (l ListState) Progress() Progress {
	return ProgressOf(l.Tasks)
}

func ProgressOf(tasks []TaskItem) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Checked {
			p.Completed++
		}
	}
	p.Percent = Percent(p.Completed, p.Total)
	return p
}

// Percent is completed/total as a whole percentage, rounding halves up.
func Percent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Floor(float64(completed)*100/float64(total) + 0.5))
}
