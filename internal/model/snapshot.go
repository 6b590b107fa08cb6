package model

import (
	"errors"
	"strings"
	"time"
)

// Snapshot archives a list as it stood when one of its periods ended.
type Snapshot struct {
	ID        string     `json:"id"`
	ListID    string     `json:"listId"`
	ListName  string     `json:"listName"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   time.Time  `json:"endedAt"`
	Total     int        `json:"total"`
	Completed int        `json:"completed"`
	Percent   int        `json:"percent"`
	Tasks     []TaskItem `json:"tasks"`
}

func (s Snapshot) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("model: snapshot id is required")
	}
	if strings.TrimSpace(s.ListID) == "" {
		return errors.New("model: snapshot list_id is required")
	}
	if s.EndedAt.Before(s.StartedAt) {
		return errors.New("model: snapshot ends before it starts")
	}
	if s.Total != len(s.Tasks) || s.Completed < 0 || s.Completed > s.Total {
		return errors.New("model: snapshot counts do not match its tasks")
	}
	if s.Percent < 0 || s.Percent > 100 {
		return errors.New("model: snapshot percent out of range")
	}
	return nil
}

type TemplateTask struct {
	Title    string   `json:"title"`
	Priority Priority `json:"priority"`
	Tags     []string `json:"tags"`
}

type Template struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Tasks     []TemplateTask `json:"tasks"`
	CreatedAt time.Time      `json:"createdAt"`
}
