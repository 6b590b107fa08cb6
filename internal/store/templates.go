package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
)

// SaveTemplate stores the list's current tasks, without their state, under
// name. Newer templates come first.
func (s *Store) SaveTemplate(ctx context.Context, listID, name string, now time.Time) (model.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Template{}, ErrEmptyName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(listID)
	if idx < 0 {
		return model.Template{}, ErrListNotFound
	}
	tpl := model.Template{ID: s.newID(), Name: name, CreatedAt: now, Tasks: []model.TemplateTask{}}
	for _, t := range s.lists[idx].Tasks {
		tpl.Tasks = append(tpl.Tasks, model.TemplateTask{Title: t.Title, Priority: t.Priority, Tags: slices.Clone(t.Tags)})
	}
	if s.repo != nil {
		if err := s.repo.CreateTemplate(ctx, templateToEntity(tpl)); err != nil {
			return model.Template{}, fmt.Errorf("save template: %w", err)
		}
	}
	s.templates = append([]model.Template{tpl}, s.templates...)
	return tpl, nil
}

func (s *Store) Templates() []model.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Template, len(s.templates))
	copy(out, s.templates)
	return out
}

func (s *Store) DeleteTemplate(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.templateIndex(name)
	if idx < 0 {
		return ErrTemplateNotFound
	}
	if s.repo != nil {
		if err := s.repo.DeleteTemplate(ctx, s.templates[idx].ID); err != nil {
			return fmt.Errorf("delete template: %w", err)
		}
	}
	s.templates = append(s.templates[:idx:idx], s.templates[idx+1:]...)
	return nil
}

// NewFromTemplate creates a list named after the template holding fresh,
// unchecked copies of its tasks.
func (s *Store) NewFromTemplate(ctx context.Context, name string, now time.Time) (model.ListState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.templateIndex(name)
	if idx < 0 {
		return model.ListState{}, ErrTemplateNotFound
	}
	tpl := s.templates[idx]
	list := model.NewList(s.newID(), tpl.Name, now)
	for _, t := range tpl.Tasks {
		tags := slices.Clone(t.Tags)
		if tags == nil {
			tags = []string{}
		}
		list.Tasks = append(list.Tasks, model.TaskItem{
			ID:        s.newID(),
			Title:     t.Title,
			CreatedAt: now,
			Priority:  t.Priority,
			Tags:      tags,
		})
	}
	if err := s.appendList(ctx, list); err != nil {
		return model.ListState{}, err
	}
	return list.Clone(), nil
}

// templateIndex matches by id first, then by name without regard to case.
func (s *Store) templateIndex(key string) int {
	key = strings.TrimSpace(key)
	for i, t := range s.templates {
		if t.ID == key {
			return i
		}
	}
	for i, t := range s.templates {
		if strings.EqualFold(t.Name, key) {
			return i
		}
	}
	return -1
}
