package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "cadence-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func sampleList(t *testing.T, id string) List {
	t.Helper()
	created := parseRFC3339(t, "2026-02-09T12:00:00Z")
	return List{
		ID:              id,
		Name:            "Morning " + id,
		CreatedAt:       created,
		LastResetAt:     created,
		Mode:            "weekly",
		ResetHour:       9,
		ResetMinute:     30,
		ResetWeekday:    3,
		ResetDayOfMonth: 31,
		CarryOver:       true,
		Tasks: []Task{
			{ID: "t1", Title: "Stretch", Priority: "low", Tags: []string{"health"}, CreatedAt: created},
			{ID: "t2", Title: "Journal", Checked: true, Priority: "high", Tags: []string{}, Note: "3 lines", CreatedAt: created},
		},
	}
}

func TestListSaveAndLoad(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	list := sampleList(t, "list-1")
	if err := repo.SaveList(ctx, list); err != nil {
		t.Fatalf("save list: %v", err)
	}

	lists, err := repo.ListLists(ctx)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 1 {
		t.Fatalf("expected one list, got %d", len(lists))
	}
	got := lists[0]
	if got.Mode != "weekly" || got.ResetWeekday != 3 || got.ResetDayOfMonth != 31 || !got.CarryOver {
		t.Fatalf("rule fields did not round-trip: %#v", got)
	}
	if !got.LastResetAt.Equal(list.LastResetAt) {
		t.Fatalf("last reset did not round-trip: %s", got.LastResetAt)
	}
	if len(got.Tasks) != 2 || got.Tasks[0].ID != "t1" || got.Tasks[1].Note != "3 lines" || !got.Tasks[1].Checked {
		t.Fatalf("tasks did not round-trip: %#v", got.Tasks)
	}
	if len(got.Tasks[0].Tags) != 1 || got.Tasks[0].Tags[0] != "health" {
		t.Fatalf("tags did not round-trip: %#v", got.Tasks[0].Tags)
	}

	list.Name = "Renamed"
	list.Tasks = list.Tasks[:1]
	if err := repo.SaveList(ctx, list); err != nil {
		t.Fatalf("update list: %v", err)
	}
	lists, err = repo.ListLists(ctx)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if lists[0].Name != "Renamed" || len(lists[0].Tasks) != 1 {
		t.Fatalf("update not applied: %#v", lists[0])
	}

	if err := repo.DeleteList(ctx, list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	if err := repo.DeleteList(ctx, list.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestCommitResetsIsAtomic(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	ended := parseRFC3339(t, "2026-02-11T09:31:00Z")

	list := sampleList(t, "list-1")
	if err := repo.SaveList(ctx, list); err != nil {
		t.Fatalf("save list: %v", err)
	}

	snap := Snapshot{
		ID: "snap-1", ListID: list.ID, ListName: list.Name,
		StartedAt: list.LastResetAt, EndedAt: ended,
		Total: 2, Completed: 1, Percent: 50, Tasks: list.Tasks,
	}
	reset := list
	reset.LastResetAt = ended
	reset.Tasks = list.Tasks[:1]

	// A duplicate snapshot id fails the second insert and must roll back the list update too.
	if err := repo.CommitResets(ctx, []List{reset}, []Snapshot{snap, snap}); err == nil {
		t.Fatal("expected duplicate snapshot insert to fail")
	}
	lists, err := repo.ListLists(ctx)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if !lists[0].LastResetAt.Equal(list.LastResetAt) || len(lists[0].Tasks) != 2 {
		t.Fatalf("failed commit leaked a partial update: %#v", lists[0])
	}

	if err := repo.CommitResets(ctx, []List{reset}, []Snapshot{snap}); err != nil {
		t.Fatalf("commit resets: %v", err)
	}
	lists, err = repo.ListLists(ctx)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if !lists[0].LastResetAt.Equal(ended) || len(lists[0].Tasks) != 1 {
		t.Fatalf("commit not applied: %#v", lists[0])
	}
	snaps, err := repo.ListSnapshots(ctx, SnapshotListFilter{ListID: list.ID})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 1 || snaps[0].Percent != 50 || len(snaps[0].Tasks) != 2 || snaps[0].Tasks[1].Title != "Journal" {
		t.Fatalf("unexpected snapshots: %#v", snaps)
	}
}

func TestSnapshotsOutliveListsAndOrderNewestFirst(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	list := sampleList(t, "list-1")
	if err := repo.SaveList(ctx, list); err != nil {
		t.Fatalf("save list: %v", err)
	}

	base := parseRFC3339(t, "2026-02-10T05:00:00Z")
	var snaps []Snapshot
	for i, offset := range []time.Duration{0, 48 * time.Hour, 24*time.Hour + 500*time.Millisecond} {
		snaps = append(snaps, Snapshot{
			ID: []string{"a", "b", "c"}[i], ListID: list.ID, ListName: list.Name,
			StartedAt: base.Add(-time.Hour), EndedAt: base.Add(offset),
		})
	}
	if err := repo.CommitResets(ctx, nil, snaps); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if err := repo.DeleteList(ctx, list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}

	got, err := repo.ListSnapshots(ctx, SnapshotListFilter{})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(got) != 3 || got[0].ID != "b" || got[1].ID != "c" || got[2].ID != "a" {
		t.Fatalf("unexpected order: %v %v %v", got[0].ID, got[1].ID, got[2].ID)
	}

	page, err := repo.ListSnapshots(ctx, SnapshotListFilter{Offset: 1})
	if err != nil {
		t.Fatalf("list snapshots with offset: %v", err)
	}
	if len(page) != 2 || page[0].ID != "c" {
		t.Fatalf("unexpected page: %#v", page)
	}

	if err := repo.DeleteSnapshots(ctx, "a", "c"); err != nil {
		t.Fatalf("delete snapshots: %v", err)
	}
	if err := repo.DeleteSnapshots(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	got, err = repo.ListSnapshots(ctx, SnapshotListFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("unexpected remaining snapshots: %#v", got)
	}
}

func TestTemplatesAndSettings(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	created := parseRFC3339(t, "2026-02-09T12:00:00Z")

	tpl := Template{
		ID: "tpl-1", Name: "Packing", CreatedAt: created,
		Tasks: []TemplateTask{{Title: "Passport", Priority: "high", Tags: []string{"travel"}}},
	}
	if err := repo.CreateTemplate(ctx, tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}
	tpls, err := repo.ListTemplates(ctx)
	if err != nil {
		t.Fatalf("list templates: %v", err)
	}
	if len(tpls) != 1 || tpls[0].Tasks[0].Title != "Passport" || tpls[0].Tasks[0].Tags[0] != "travel" {
		t.Fatalf("unexpected templates: %#v", tpls)
	}
	if err := repo.DeleteTemplate(ctx, "tpl-1"); err != nil {
		t.Fatalf("delete template: %v", err)
	}
	if err := repo.DeleteTemplate(ctx, "tpl-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}

	if _, err := repo.GetSetting(ctx, SettingRetentionDays); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.PutSetting(ctx, SettingRetentionDays, "30"); err != nil {
		t.Fatalf("put setting: %v", err)
	}
	if err := repo.PutSetting(ctx, SettingRetentionDays, "14"); err != nil {
		t.Fatalf("overwrite setting: %v", err)
	}
	v, err := repo.GetSetting(ctx, SettingRetentionDays)
	if err != nil || v != "14" {
		t.Fatalf("unexpected setting: %q %v", v, err)
	}
}

func TestReplaceAll(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if err := repo.SaveList(ctx, sampleList(t, "old")); err != nil {
		t.Fatalf("save list: %v", err)
	}

	dump := Dump{
		Lists:    []List{sampleList(t, "new")},
		Settings: map[string]string{SettingRetentionDays: "7"},
	}
	if err := repo.ReplaceAll(ctx, dump); err != nil {
		t.Fatalf("replace all: %v", err)
	}
	lists, err := repo.ListLists(ctx)
	if err != nil {
		t.Fatalf("list lists: %v", err)
	}
	if len(lists) != 1 || lists[0].ID != "new" || len(lists[0].Tasks) != 2 {
		t.Fatalf("unexpected lists after replace: %#v", lists)
	}
	if v, _ := repo.GetSetting(ctx, SettingRetentionDays); v != "7" {
		t.Fatalf("unexpected retention after replace: %q", v)
	}
}

func TestSnapshotsFromOneCommitKeepTheirOrder(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	ended := parseRFC3339(t, "2026-02-10T05:00:00Z")
	var snaps []Snapshot
	for _, id := range []string{"first", "second", "third"} {
		snaps = append(snaps, Snapshot{ID: id, ListID: "l-" + id, ListName: id, StartedAt: ended.Add(-time.Hour), EndedAt: ended})
	}
	if err := repo.CommitResets(ctx, nil, snaps); err != nil {
		t.Fatalf("commit: %v", err)
	}

	got, err := repo.ListSnapshots(ctx, SnapshotListFilter{})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(got) != 3 || got[0].ID != "first" || got[1].ID != "second" || got[2].ID != "third" {
		t.Fatalf("unexpected order: %#v", got)
	}
}
