package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/cadence/internal/config"
	"github.com/sandeepkv93/cadence/internal/log"
	"github.com/sandeepkv93/cadence/internal/scheduler"
	"github.com/sandeepkv93/cadence/internal/storage"
	"github.com/sandeepkv93/cadence/internal/store"
	"github.com/sandeepkv93/cadence/internal/update"
	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "cadence failed: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cadence",
		Short:         "Recurring checklists that reset on a schedule",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}
	cmd.PersistentFlags().String("config", "", "config file (default: per-user config dir, or CADENCE_CONFIG)")
	cmd.AddCommand(tickCmd())
	cmd.AddCommand(listsCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(importCmd())
	return cmd
}

// app is the wiring shared by the TUI and the one-shot subcommands.
type app struct {
	cfg   config.Config
	clock func() time.Time
	store *store.Store

	closers []io.Closer
}

func openApp(cmd *cobra.Command) (*app, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ResolvePath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg = config.FromEnv(cfg)

	a := &app{cfg: cfg}
	logCloser, err := log.Init(log.Options{Level: cfg.LogLevel, File: cfg.LogFile, Format: cfg.LogFormat})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, logCloser)

	loc, err := cfg.Location()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.clock = func() time.Time { return time.Now().In(loc) }

	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.closers = append(a.closers, repo)

	a.store, err = store.Open(cmd.Context(), store.Options{Repo: repo, RetentionDays: cfg.RetentionDays})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

func runTUI(cmd *cobra.Command) error {
	return withApp(cmd, func(a *app) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		poller := scheduler.NewPoller(a.cfg.Poll(), a.clock, a.store, a.cfg.PollerBuffer)
		poller.Start()
		defer poller.Stop()
		log.Info().Str("db", a.cfg.DBPath).Dur("poll", a.cfg.Poll()).Msg("cadence started")

		model := update.NewModel(update.Options{
			Context:              ctx,
			Store:                a.store,
			Batches:              poller.C(),
			Clock:                a.clock,
			Notifier:             update.ExecDesktopNotifier{},
			DesktopNotifications: a.cfg.DesktopNotifications,
		})
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return err
		}
		log.Info().Uint64("dropped_batches", poller.Dropped()).Uint64("failed_ticks", poller.Failures()).Msg("cadence stopped")
		return nil
	})
}

func withApp(cmd *cobra.Command, fn func(*app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
