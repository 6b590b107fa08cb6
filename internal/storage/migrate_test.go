package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func TestMigrateRoundTripCompatibility(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate-roundtrip.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first migrate up failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Fatalf("repeated migrate up failed: %v", err)
	}

	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down failed: %v", err)
	}
	var tables int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('lists', 'tasks', 'snapshots', 'templates', 'settings')`).Scan(&tables); err != nil {
		t.Fatalf("count tables: %v", err)
	}
	if tables != 0 {
		t.Fatalf("expected schema dropped, %d tables left", tables)
	}

	if err := MigrateUp(db); err != nil {
		t.Fatalf("second migrate up failed: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}

	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	if err := repo.SaveList(t.Context(), List{
		ID:              "list-rt-1",
		Name:            "Roundtrip list",
		CreatedAt:       now,
		LastResetAt:     now,
		Mode:            "daily",
		ResetHour:       5,
		ResetDayOfMonth: 1,
		ResetWeekday:    1,
	}); err != nil {
		t.Fatalf("insert after roundtrip failed: %v", err)
	}

	lists, err := repo.ListLists(t.Context())
	if err != nil {
		t.Fatalf("list after roundtrip failed: %v", err)
	}
	if len(lists) != 1 || lists[0].Name != "Roundtrip list" {
		t.Fatalf("unexpected lists after roundtrip: %#v", lists)
	}
}
