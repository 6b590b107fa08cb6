package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrInvalidPriority = errors.New("model: invalid task priority")

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "med"
	PriorityHigh   Priority = "high"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type TaskItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Note      string    `json:"note,omitempty"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"createdAt"`
	Priority  Priority  `json:"priority"`
	Tags      []string  `json:"tags"`
}

func (t TaskItem) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	return nil
}

// Clone returns a copy that shares no memory with t.
func (t TaskItem) Clone() TaskItem {
	out := t
	out.Tags = slices.Clone(t.Tags)
	return out
}

func (t TaskItem) HasTag(tag string) bool {
	return slices.Contains(t.Tags, strings.ToLower(tag))
}

func CloneTasks(tasks []TaskItem) []TaskItem {
	out := make([]TaskItem, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Clone())
	}
	return out
}
