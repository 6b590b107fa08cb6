package model

import "strings"

// TaskFilter narrows a task list for display. Zero fields match everything.
type TaskFilter struct {
	Query    string
	Tag      string
	Priority Priority
	OnlyOpen bool
}

func (f TaskFilter) Active() bool {
	return f != TaskFilter{}
}

func (f TaskFilter) Match(t TaskItem) bool {
	if f.OnlyOpen && t.Checked {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if f.Query != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.Query)) {
		return false
	}
	return true
}

func (f TaskFilter) Apply(tasks []TaskItem) []TaskItem {
	out := make([]TaskItem, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Tags returns the distinct tags used across tasks, in first-seen order.
func Tags(tasks []TaskItem) []string {
	out := make([]string, 0)
	for _, t := range tasks {
		for _, tag := range t.Tags {
			if !containsString(out, tag) {
				out = append(out, tag)
			}
		}
	}
	return out
}
