package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sandeepkv93/cadence/internal/log"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/storage"
)

const DocumentVersion = 2

// Document is the export format: the whole state in one JSON object.
type Document struct {
	Version       int               `json:"version"`
	ExportedAt    time.Time         `json:"exportedAt"`
	Lists         []model.ListState `json:"lists"`
	Snapshots     []model.Snapshot  `json:"snapshots"`
	Templates     []model.Template  `json:"templates"`
	RetentionDays int               `json:"retentionDays"`
}

func (s *Store) Export(w io.Writer, now time.Time) error {
	s.mu.Lock()
	doc := Document{
		Version:       DocumentVersion,
		ExportedAt:    now,
		Lists:         make([]model.ListState, 0, len(s.lists)),
		Snapshots:     make([]model.Snapshot, len(s.snapshots)),
		Templates:     make([]model.Template, len(s.templates)),
		RetentionDays: s.retentionDays,
	}
	for _, l := range s.lists {
		doc.Lists = append(doc.Lists, l.Clone())
	}
	copy(doc.Snapshots, s.snapshots)
	copy(doc.Templates, s.templates)
	s.mu.Unlock()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// Import replaces the whole state with the document read from r. Nothing
// changes when the document is invalid or cannot be stored. Snapshots past
// the imported retention window are pruned right after.
func (s *Store) Import(ctx context.Context, r io.Reader, now time.Time) error {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("decode import: %w", err)
	}
	if err := doc.validate(); err != nil {
		return fmt.Errorf("invalid import: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo != nil {
		dump := storage.Dump{
			Settings: map[string]string{storage.SettingRetentionDays: strconv.Itoa(doc.RetentionDays)},
		}
		for i, l := range doc.Lists {
			dump.Lists = append(dump.Lists, listToEntity(l, i))
		}
		for _, snap := range doc.Snapshots {
			dump.Snapshots = append(dump.Snapshots, snapshotToEntity(snap))
		}
		for _, tpl := range doc.Templates {
			dump.Templates = append(dump.Templates, templateToEntity(tpl))
		}
		if err := s.repo.ReplaceAll(ctx, dump); err != nil {
			return fmt.Errorf("store import: %w", err)
		}
	}

	s.lists = doc.Lists
	s.snapshots = doc.Snapshots
	s.templates = doc.Templates
	s.retentionDays = doc.RetentionDays
	log.Info().
		Int("lists", len(s.lists)).
		Int("snapshots", len(s.snapshots)).
		Int("templates", len(s.templates)).
		Msg("state imported")
	s.prune(ctx, now)
	return nil
}

func (d *Document) validate() error {
	if d.Version > DocumentVersion {
		return fmt.Errorf("unsupported version %d", d.Version)
	}
	if d.Lists == nil {
		d.Lists = []model.ListState{}
	}
	if d.Snapshots == nil {
		d.Snapshots = []model.Snapshot{}
	}
	if d.Templates == nil {
		d.Templates = []model.Template{}
	}
	if d.RetentionDays < 0 {
		d.RetentionDays = 0
	}
	seen := make(map[string]struct{}, len(d.Lists))
	for i := range d.Lists {
		l := &d.Lists[i]
		if err := l.Validate(); err != nil {
			return fmt.Errorf("list %q: %w", l.ID, err)
		}
		if _, dup := seen[l.ID]; dup {
			return fmt.Errorf("duplicate list id %q", l.ID)
		}
		seen[l.ID] = struct{}{}
		if l.Tasks == nil {
			l.Tasks = []model.TaskItem{}
		}
		for _, t := range l.Tasks {
			if err := t.Validate(); err != nil {
				return fmt.Errorf("list %q: %w", l.ID, err)
			}
		}
	}
	for _, snap := range d.Snapshots {
		if err := snap.Validate(); err != nil {
			return fmt.Errorf("snapshot %q: %w", snap.ID, err)
		}
	}
	return nil
}
