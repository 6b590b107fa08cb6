package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sandeepkv93/cadence/internal/log"
	"github.com/sandeepkv93/cadence/internal/model"
)

// CreateList appends an empty list whose first period starts at now.
func (s *Store) CreateList(ctx context.Context, name string, now time.Time) (model.ListState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return model.ListState{}, ErrEmptyName
	}
	list := model.NewList(s.newID(), name, now)
	if err := s.appendList(ctx, list); err != nil {
		return model.ListState{}, err
	}
	return list.Clone(), nil
}

func (s *Store) appendList(ctx context.Context, list model.ListState) error {
	if s.repo != nil {
		if err := s.repo.SaveList(ctx, listToEntity(list, len(s.lists))); err != nil {
			return fmt.Errorf("save list: %w", err)
		}
	}
	s.lists = append(s.lists, list)
	log.Info().Str("list_id", list.ID).Str("name", list.Name).Msg("list created")
	return nil
}

func (s *Store) RenameList(ctx context.Context, listID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	return s.mutate(ctx, listID, func(l *model.ListState) error {
		l.Name = name
		return nil
	})
}

// DeleteList removes the list. Its snapshots stay in the archive.
func (s *Store) DeleteList(ctx context.Context, listID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(listID)
	if idx < 0 {
		return ErrListNotFound
	}
	if s.repo != nil {
		if err := s.repo.DeleteList(ctx, listID); err != nil {
			return fmt.Errorf("delete list: %w", err)
		}
	}
	s.lists = append(s.lists[:idx:idx], s.lists[idx+1:]...)
	log.Info().Str("list_id", listID).Msg("list deleted")
	return nil
}

// AddTask parses line for #tags and a priority marker and puts the task at
// the top of the list.
func (s *Store) AddTask(ctx context.Context, listID, line string, now time.Time) (model.TaskItem, error) {
	task, err := s.taskFromLine(line, now)
	if err != nil {
		return model.TaskItem{}, err
	}
	err = s.mutate(ctx, listID, func(l *model.ListState) error {
		l.Tasks = append([]model.TaskItem{task}, l.Tasks...)
		return nil
	})
	if err != nil {
		return model.TaskItem{}, err
	}
	return task.Clone(), nil
}

// BulkAdd adds one task per non-blank line, each prepended in turn, and
// returns how many were added.
func (s *Store) BulkAdd(ctx context.Context, listID, text string, now time.Time) (int, error) {
	var tasks []model.TaskItem
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		task, err := s.taskFromLine(line, now)
		if err != nil {
			continue
		}
		tasks = append(tasks, task)
	}
	if len(tasks) == 0 {
		return 0, ErrEmptyTitle
	}
	err := s.mutate(ctx, listID, func(l *model.ListState) error {
		for _, task := range tasks {
			l.Tasks = append([]model.TaskItem{task}, l.Tasks...)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(tasks), nil
}

// AddToNamedList adds a task to the list called name, matched without regard
// to case, creating the list first when there is none.
func (s *Store) AddToNamedList(ctx context.Context, name, line string, now time.Time) (model.ListState, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.ListState{}, ErrEmptyName
	}
	task, err := s.taskFromLine(line, now)
	if err != nil {
		return model.ListState{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lists {
		if !strings.EqualFold(s.lists[i].Name, name) {
			continue
		}
		updated := s.lists[i].Clone()
		updated.Tasks = append([]model.TaskItem{task}, updated.Tasks...)
		if err := s.save(ctx, i, updated); err != nil {
			return model.ListState{}, err
		}
		return updated.Clone(), nil
	}

	list := model.NewList(s.newID(), name, now)
	list.Tasks = []model.TaskItem{task}
	if err := s.appendList(ctx, list); err != nil {
		return model.ListState{}, err
	}
	return list.Clone(), nil
}

func (s *Store) taskFromLine(line string, now time.Time) (model.TaskItem, error) {
	parsed := model.ParseTaskLine(line)
	if parsed.Title == "" {
		return model.TaskItem{}, ErrEmptyTitle
	}
	return model.TaskItem{
		ID:        s.newID(),
		Title:     parsed.Title,
		CreatedAt: now,
		Priority:  parsed.Priority,
		Tags:      parsed.Tags,
	}, nil
}

func (s *Store) ToggleTask(ctx context.Context, listID, taskID string) (bool, error) {
	var checked bool
	err := s.mutate(ctx, listID, func(l *model.ListState) error {
		for i := range l.Tasks {
			if l.Tasks[i].ID == taskID {
				l.Tasks[i].Checked = !l.Tasks[i].Checked
				checked = l.Tasks[i].Checked
				return nil
			}
		}
		return ErrTaskNotFound
	})
	return checked, err
}

func (s *Store) RemoveTask(ctx context.Context, listID, taskID string) error {
	return s.mutate(ctx, listID, func(l *model.ListState) error {
		for i := range l.Tasks {
			if l.Tasks[i].ID == taskID {
				l.Tasks = append(l.Tasks[:i:i], l.Tasks[i+1:]...)
				return nil
			}
		}
		return ErrTaskNotFound
	})
}

// UpdateSettings replaces the list's recurrence rule. The current period is
// left alone: lastResetAt does not move.
func (s *Store) UpdateSettings(ctx context.Context, listID string, rule model.RecurrenceRule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	return s.mutate(ctx, listID, func(l *model.ListState) error {
		l.Settings = rule
		return nil
	})
}

// mutate applies fn to a copy of the list and swaps it in once persisted.
func (s *Store) mutate(ctx context.Context, listID string, fn func(*model.ListState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(listID)
	if idx < 0 {
		return ErrListNotFound
	}
	updated := s.lists[idx].Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	return s.save(ctx, idx, updated)
}

func (s *Store) save(ctx context.Context, idx int, list model.ListState) error {
	if s.repo != nil {
		if err := s.repo.SaveList(ctx, listToEntity(list, idx)); err != nil {
			log.Error().Err(err).Str("list_id", list.ID).Msg("save list failed")
			return fmt.Errorf("save list: %w", err)
		}
	}
	s.lists[idx] = list
	return nil
}
