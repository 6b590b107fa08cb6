package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultConfigFileName = "config.toml"
	DefaultDBName         = "cadence.db"
	DefaultLogName        = "cadence.log"
	DefaultPollInterval   = 30 * time.Second
)

type Config struct {
	DBPath               string `toml:"db_path"`
	PollInterval         string `toml:"poll_interval"`
	RetentionDays        int    `toml:"retention_days"`
	Timezone             string `toml:"timezone"`
	DesktopNotifications bool   `toml:"desktop_notifications"`
	PollerBuffer         int    `toml:"poller_buffer"`
	LogLevel             string `toml:"log_level"`
	LogFile              string `toml:"log_file"`
	LogFormat            string `toml:"log_format"`
}

func Default() Config {
	return Config{
		DBPath:               DefaultDBName,
		PollInterval:         DefaultPollInterval.String(),
		RetentionDays:        0,
		Timezone:             "",
		DesktopNotifications: false,
		PollerBuffer:         16,
		LogLevel:             "info",
		LogFile:              DefaultLogName,
		LogFormat:            "json",
	}
}

// ResolvePath returns CADENCE_CONFIG when set and the per-user config file
// otherwise.
func ResolvePath() string {
	if p := strings.TrimSpace(os.Getenv("CADENCE_CONFIG")); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return DefaultConfigFileName
	}
	return filepath.Join(dir, "cadence", DefaultConfigFileName)
}

// LoadOrCreate reads the TOML file at path. A missing file is created with
// the defaults. Relative db and log paths are resolved against the file's
// directory.
func LoadOrCreate(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		return cfg.resolve(filepath.Dir(path)), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBName
	}
	return cfg.resolve(filepath.Dir(path)), nil
}

func (c Config) resolve(dir string) Config {
	if c.DBPath != "" && !filepath.IsAbs(c.DBPath) {
		c.DBPath = filepath.Join(dir, c.DBPath)
	}
	if c.LogFile != "" && !filepath.IsAbs(c.LogFile) {
		c.LogFile = filepath.Join(dir, c.LogFile)
	}
	return c
}

func write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// FromEnv applies CADENCE_* overrides on top of base.
func FromEnv(base Config) Config {
	cfg := base
	if v := strings.TrimSpace(os.Getenv("CADENCE_DB_PATH")); v != "" {
		cfg.DBPath = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_POLL_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d.String()
		}
	}
	if v, ok := getEnvInt("CADENCE_RETENTION_DAYS"); ok && v >= 0 {
		cfg.RetentionDays = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_TIMEZONE")); v != "" {
		cfg.Timezone = v
	}
	if v, ok := getEnvBool("CADENCE_DESKTOP_NOTIFICATIONS"); ok {
		cfg.DesktopNotifications = v
	}
	if v, ok := getEnvInt("CADENCE_POLLER_BUFFER"); ok && v > 0 {
		cfg.PollerBuffer = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_LOG_LEVEL")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_LOG_FILE")); v != "" {
		cfg.LogFile = v
	}
	if v := strings.TrimSpace(os.Getenv("CADENCE_LOG_FORMAT")); v != "" {
		cfg.LogFormat = v
	}
	return cfg
}

// Poll returns the poll interval, falling back to DefaultPollInterval when
// the configured value is missing or not a positive duration.
func (c Config) Poll() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.PollInterval))
	if err != nil || d <= 0 {
		return DefaultPollInterval
	}
	return d
}

// Location returns the configured timezone, or time.Local when unset.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Timezone)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", name, err)
	}
	return loc, nil
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
