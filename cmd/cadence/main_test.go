package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sandeepkv93/cadence/internal/idgen"
	"github.com/sandeepkv93/cadence/internal/store"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cadence %v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func writeExport(t *testing.T, dir string) string {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)
	s, err := store.Open(ctx, store.Options{IDs: idgen.Sequence("id")})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	list, err := s.CreateList(ctx, "Morning", now)
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := s.AddTask(ctx, list.ID, "stretch #health", now); err != nil {
		t.Fatalf("add task: %v", err)
	}
	path := filepath.Join(dir, "export.json")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create export: %v", err)
	}
	defer f.Close()
	if err := s.Export(f, now); err != nil {
		t.Fatalf("export: %v", err)
	}
	return path
}

func TestImportListsTickAndExport(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CADENCE_CONFIG", "")
	t.Setenv("CADENCE_DB_PATH", "")
	cfgPath := filepath.Join(dir, "config.toml")
	exported := writeExport(t, dir)

	out := execute(t, "--config", cfgPath, "import", exported)
	if !strings.Contains(out, "imported 1 list(s)") {
		t.Fatalf("unexpected import output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "cadence.db")); err != nil {
		t.Fatalf("expected database next to config: %v", err)
	}

	out = execute(t, "--config", cfgPath, "lists")
	if !strings.Contains(out, "Morning\t0/1") || !strings.Contains(out, "next: manual") {
		t.Fatalf("unexpected lists output: %q", out)
	}

	out = execute(t, "--config", cfgPath, "tick")
	if strings.TrimSpace(out) != "nothing due" {
		t.Fatalf("unexpected tick output: %q", out)
	}

	out = execute(t, "--config", cfgPath, "export")
	if !strings.Contains(out, `"name": "Morning"`) || !strings.Contains(out, `"title": "stretch"`) {
		t.Fatalf("unexpected export output: %s", out)
	}
}
