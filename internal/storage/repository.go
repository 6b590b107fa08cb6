package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

const SettingRetentionDays = "retention_days"

type Repository interface {
	ListLists(ctx context.Context) ([]List, error)
	SaveList(ctx context.Context, in List) error
	DeleteList(ctx context.Context, id string) error

	// CommitResets stores reset lists and their new snapshots, given newest
	// first, atomically.
	CommitResets(ctx context.Context, lists []List, snapshots []Snapshot) error
	ListSnapshots(ctx context.Context, filter SnapshotListFilter) ([]Snapshot, error)
	DeleteSnapshots(ctx context.Context, ids ...string) error

	CreateTemplate(ctx context.Context, in Template) error
	ListTemplates(ctx context.Context) ([]Template, error)
	DeleteTemplate(ctx context.Context, id string) error

	GetSetting(ctx context.Context, key string) (string, error)
	PutSetting(ctx context.Context, key, value string) error

	// ReplaceAll discards everything stored and writes dump in its place.
	ReplaceAll(ctx context.Context, dump Dump) error
}
