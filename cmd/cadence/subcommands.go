package main

import (
	"fmt"
	"os"

	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/spf13/cobra"
)

// tickCmd runs one scheduler pass without the UI, for cron or systemd timers.
func tickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tick",
		Short: "Reset every list whose boundary has passed, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				batch, err := a.store.Tick(cmd.Context(), a.clock())
				if err != nil {
					return err
				}
				if batch.Empty() {
					fmt.Fprintln(cmd.OutOrStdout(), "nothing due")
					return nil
				}
				for _, snap := range batch.Snapshots {
					fmt.Fprintf(cmd.OutOrStdout(), "reset %s: %d/%d (%d%%)\n", snap.ListName, snap.Completed, snap.Total, snap.Percent)
				}
				return nil
			})
		},
	}
}

func listsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print every list with its progress and next reset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				now := a.clock()
				for _, l := range a.store.Lists() {
					p := l.Progress()
					next := "manual"
					if at, ok := model.NextDue(l.Settings, now); ok {
						next = at.Format("Mon 2006-01-02 15:04")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d/%d\t%s\tnext: %s\n", l.Name, p.Completed, p.Total, l.Settings, next)
				}
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Write lists, archive and templates as JSON (stdout when no path)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				if len(args) == 0 {
					return a.store.Export(cmd.OutOrStdout(), a.clock())
				}
				f, err := os.Create(args[0])
				if err != nil {
					return err
				}
				if err := a.store.Export(f, a.clock()); err != nil {
					_ = f.Close()
					return err
				}
				return f.Close()
			})
		},
	}
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the whole state with a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				if err := a.store.Import(cmd.Context(), f, a.clock()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d list(s)\n", len(a.store.Lists()))
				return nil
			})
		},
	}
}
