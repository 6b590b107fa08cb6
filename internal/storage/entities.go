package storage

import "time"

type List struct {
	ID              string
	Name            string
	Position        int
	CreatedAt       time.Time
	LastResetAt     time.Time
	Mode            string
	ResetHour       int
	ResetMinute     int
	ResetWeekday    int
	ResetDayOfMonth int
	CarryOver       bool
	Tasks           []Task
}

type Task struct {
	ID        string
	Title     string
	Note      string
	Checked   bool
	Priority  string
	Tags      []string
	CreatedAt time.Time
}

type Snapshot struct {
	ID        string
	ListID    string
	ListName  string
	StartedAt time.Time
	EndedAt   time.Time
	Total     int
	Completed int
	Percent   int
	Tasks     []Task
}

type TemplateTask struct {
	Title    string   `json:"title"`
	Priority string   `json:"priority"`
	Tags     []string `json:"tags"`
}

type Template struct {
	ID        string
	Name      string
	Tasks     []TemplateTask
	CreatedAt time.Time
}

type SnapshotListFilter struct {
	ListID string
	Limit  int
	Offset int
}

// Dump is the complete persisted state, used by import.
type Dump struct {
	Lists     []List
	Snapshots []Snapshot
	Templates []Template
	Settings  map[string]string
}
