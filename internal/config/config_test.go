package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Poll() != 30*time.Second {
		t.Fatalf("unexpected poll interval: %s", cfg.Poll())
	}
	if cfg.RetentionDays != 0 || cfg.PollerBuffer != 16 || cfg.DBPath != DefaultDBName {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc != time.Local {
		t.Fatalf("expected local timezone, got %v %v", loc, err)
	}
}

func TestLoadOrCreateWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", DefaultConfigFileName)

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load or create: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to be written: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, "nested", DefaultDBName) {
		t.Fatalf("db path not resolved against config dir: %s", cfg.DBPath)
	}
}

func TestLoadOrCreateReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	content := `
db_path = "/var/lib/cadence/lists.db"
poll_interval = "10s"
retention_days = 30
timezone = "UTC"
desktop_notifications = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/var/lib/cadence/lists.db" || cfg.Poll() != 10*time.Second {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.RetentionDays != 30 || !cfg.DesktopNotifications {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.PollerBuffer != 16 {
		t.Fatalf("unset keys should keep defaults: %+v", cfg)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "UTC" {
		t.Fatalf("unexpected location: %v %v", loc, err)
	}
}

func TestLoadOrCreateRejectsBadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileName)
	if err := os.WriteFile(path, []byte("retention_days = \"many\""), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadOrCreate(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("CADENCE_DB_PATH", "state/custom.db")
	t.Setenv("CADENCE_POLL_INTERVAL", "1m")
	t.Setenv("CADENCE_RETENTION_DAYS", "45")
	t.Setenv("CADENCE_TIMEZONE", "Europe/Berlin")
	t.Setenv("CADENCE_DESKTOP_NOTIFICATIONS", "yes")
	t.Setenv("CADENCE_POLLER_BUFFER", "4")
	t.Setenv("CADENCE_LOG_LEVEL", "debug")

	cfg := FromEnv(Default())
	if cfg.DBPath != "state/custom.db" || cfg.Poll() != time.Minute {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.RetentionDays != 45 || cfg.Timezone != "Europe/Berlin" || !cfg.DesktopNotifications {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.PollerBuffer != 4 || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
}

func TestFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("CADENCE_POLL_INTERVAL", "soon")
	t.Setenv("CADENCE_RETENTION_DAYS", "-2")
	t.Setenv("CADENCE_DESKTOP_NOTIFICATIONS", "maybe")

	cfg := FromEnv(Default())
	if cfg.Poll() != DefaultPollInterval || cfg.RetentionDays != 0 || cfg.DesktopNotifications {
		t.Fatalf("invalid env values should be ignored: %+v", cfg)
	}
}
