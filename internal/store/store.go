// Package store owns the in-memory collection of lists and snapshots and is
// the only place that writes to it. Each exported method runs as one step
// under a single lock, so a scheduled reset and a user action on the same list
// never interleave. When a repository is configured, a step's changes are
// persisted before they become visible in memory.
package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/cadence/internal/archive"
	"github.com/sandeepkv93/cadence/internal/idgen"
	"github.com/sandeepkv93/cadence/internal/log"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/reset"
	"github.com/sandeepkv93/cadence/internal/storage"
)

var (
	ErrListNotFound     = errors.New("store: list not found")
	ErrTaskNotFound     = errors.New("store: task not found")
	ErrSnapshotNotFound = errors.New("store: snapshot not found")
	ErrTemplateNotFound = errors.New("store: template not found")
	ErrEmptyTitle       = errors.New("store: title is empty")
	ErrEmptyName        = errors.New("store: name is empty")
)

type Options struct {
	// Repo persists every step. Nil keeps the store in memory only.
	Repo storage.Repository
	IDs  idgen.Generator
	// RetentionDays applies when the repository holds no retention setting.
	RetentionDays int
}

type Store struct {
	mu            sync.Mutex
	repo          storage.Repository
	engine        *reset.Engine
	newID         idgen.Generator
	lists         []model.ListState
	snapshots     []model.Snapshot
	templates     []model.Template
	retentionDays int
}

// Open loads the persisted state from opts.Repo.
func Open(ctx context.Context, opts Options) (*Store, error) {
	gen := opts.IDs
	if gen == nil {
		gen = idgen.UUIDv7()
	}
	s := &Store{
		repo:          opts.Repo,
		engine:        reset.NewEngine(gen),
		newID:         gen,
		lists:         []model.ListState{},
		snapshots:     []model.Snapshot{},
		templates:     []model.Template{},
		retentionDays: opts.RetentionDays,
	}
	if s.repo == nil {
		return s, nil
	}

	lists, err := s.repo.ListLists(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lists: %w", err)
	}
	for _, l := range lists {
		s.lists = append(s.lists, listFromEntity(l))
	}
	snaps, err := s.repo.ListSnapshots(ctx, storage.SnapshotListFilter{})
	if err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}
	for _, snap := range snaps {
		s.snapshots = append(s.snapshots, snapshotFromEntity(snap))
	}
	tpls, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	for _, tpl := range tpls {
		s.templates = append(s.templates, templateFromEntity(tpl))
	}
	raw, err := s.repo.GetSetting(ctx, storage.SettingRetentionDays)
	switch {
	case err == nil:
		if days, convErr := strconv.Atoi(raw); convErr == nil {
			s.retentionDays = days
		}
	case !errors.Is(err, storage.ErrNotFound):
		return nil, fmt.Errorf("load retention: %w", err)
	}
	log.Info().
		Int("lists", len(s.lists)).
		Int("snapshots", len(s.snapshots)).
		Int("retention_days", s.retentionDays).
		Msg("store loaded")
	return s, nil
}

// Tick evaluates every list at now and commits all due resets as one batch.
// An empty batch means nothing was written.
func (s *Store) Tick(ctx context.Context, now time.Time) (reset.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.engine.EvaluateAll(s.lists, now)
	if batch.Empty() {
		return batch, nil
	}
	if err := s.commitResets(ctx, batch.Changed(), batch.Snapshots); err != nil {
		return reset.Batch{At: now}, err
	}
	s.lists = batch.Lists
	s.snapshots = archive.Prepend(s.snapshots, batch.Snapshots)
	log.Info().Strs("lists", batch.Reset).Time("at", now).Msg("scheduled reset committed")
	s.prune(ctx, now)
	return batch, nil
}

// ResetNow ends the list's current period regardless of its schedule.
func (s *Store) ResetNow(ctx context.Context, listID string, now time.Time) (model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(listID)
	if idx < 0 {
		return model.Snapshot{}, ErrListNotFound
	}
	outcome := s.engine.ManualReset(s.lists[idx], now)
	updated := outcome.Apply(s.lists[idx])
	if err := s.commitResets(ctx, []model.ListState{updated}, []model.Snapshot{*outcome.Snapshot}); err != nil {
		return model.Snapshot{}, err
	}
	s.lists[idx] = updated
	s.snapshots = archive.Prepend(s.snapshots, []model.Snapshot{*outcome.Snapshot})
	log.Info().Str("list_id", listID).Time("at", now).Msg("manual reset committed")
	s.prune(ctx, now)
	return *outcome.Snapshot, nil
}

func (s *Store) commitResets(ctx context.Context, lists []model.ListState, snaps []model.Snapshot) error {
	if s.repo == nil {
		return nil
	}
	entities := make([]storage.List, 0, len(lists))
	for _, l := range lists {
		entities = append(entities, listToEntity(l, s.indexOf(l.ID)))
	}
	snapEntities := make([]storage.Snapshot, 0, len(snaps))
	for _, snap := range snaps {
		snapEntities = append(snapEntities, snapshotToEntity(snap))
	}
	if err := s.repo.CommitResets(ctx, entities, snapEntities); err != nil {
		log.Error().Err(err).Int("lists", len(lists)).Msg("persist resets failed")
		return fmt.Errorf("persist resets: %w", err)
	}
	return nil
}

// prune drops snapshots outside the retention window. Failures are logged;
// the snapshots stay in memory so memory and storage agree.
func (s *Store) prune(ctx context.Context, now time.Time) int {
	kept, dropped := archive.Split(s.snapshots, s.retentionDays, now)
	if len(dropped) == 0 {
		return 0
	}
	if s.repo != nil {
		ids := make([]string, 0, len(dropped))
		for _, d := range dropped {
			ids = append(ids, d.ID)
		}
		if err := s.repo.DeleteSnapshots(ctx, ids...); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Warn().Err(err).Int("snapshots", len(ids)).Msg("prune snapshots failed")
			return 0
		}
	}
	s.snapshots = kept
	log.Debug().Int("pruned", len(dropped)).Int("retention_days", s.retentionDays).Msg("snapshots pruned")
	return len(dropped)
}

func (s *Store) indexOf(listID string) int {
	for i, l := range s.lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

// Lists returns copies of all lists in display order.
func (s *Store) Lists() []model.ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ListState, 0, len(s.lists))
	for _, l := range s.lists {
		out = append(out, l.Clone())
	}
	return out
}

func (s *Store) List(listID string) (model.ListState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(listID)
	if idx < 0 {
		return model.ListState{}, ErrListNotFound
	}
	return s.lists[idx].Clone(), nil
}

// Snapshots returns the archive of one list, newest first. An empty listID
// returns the whole archive.
func (s *Store) Snapshots(listID string) []model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if listID == "" {
		out := make([]model.Snapshot, len(s.snapshots))
		copy(out, s.snapshots)
		return out
	}
	return archive.ForList(s.snapshots, listID)
}

func (s *Store) DeleteSnapshot(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id = strings.TrimSpace(id)
	remaining, found := archive.Remove(s.snapshots, id)
	if !found {
		return ErrSnapshotNotFound
	}
	if s.repo != nil {
		if err := s.repo.DeleteSnapshots(ctx, id); err != nil {
			return fmt.Errorf("delete snapshot: %w", err)
		}
	}
	s.snapshots = remaining
	return nil
}

func (s *Store) RetentionDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.retentionDays
}

// SetRetention stores the retention window and prunes right away. It returns
// how many snapshots were dropped.
func (s *Store) SetRetention(ctx context.Context, days int, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if days < 0 {
		days = 0
	}
	if s.repo != nil {
		if err := s.repo.PutSetting(ctx, storage.SettingRetentionDays, strconv.Itoa(days)); err != nil {
			return 0, fmt.Errorf("persist retention: %w", err)
		}
	}
	s.retentionDays = days
	return s.prune(ctx, now), nil
}
