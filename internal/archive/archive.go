// Package archive holds the retention rules for snapshots. Like the reset
// engine it never mutates its inputs.
package archive

import (
	"sort"
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
)

const day = 24 * time.Hour

// Prune keeps a snapshot iff retentionDays <= 0 or it ended no more than
// retentionDays days before now.
func Prune(snapshots []model.Snapshot, retentionDays int, now time.Time) []model.Snapshot {
	kept, _ := Split(snapshots, retentionDays, now)
	return kept
}

// Split partitions snapshots into the ones retention keeps and the ones it
// drops, preserving order in both.
func Split(snapshots []model.Snapshot, retentionDays int, now time.Time) (kept, dropped []model.Snapshot) {
	kept = make([]model.Snapshot, 0, len(snapshots))
	if retentionDays <= 0 {
		return append(kept, snapshots...), nil
	}
	window := time.Duration(retentionDays) * day
	for _, s := range snapshots {
		if now.Sub(s.EndedAt) <= window {
			kept = append(kept, s)
		} else {
			dropped = append(dropped, s)
		}
	}
	return kept, dropped
}

// Remove deletes the snapshot with the given id. It reports whether one was
// found.
func Remove(snapshots []model.Snapshot, id string) ([]model.Snapshot, bool) {
	out := make([]model.Snapshot, 0, len(snapshots))
	found := false
	for _, s := range snapshots {
		if s.ID == id {
			found = true
			continue
		}
		out = append(out, s)
	}
	return out, found
}

// Prepend puts fresh ahead of existing so the archive reads newest-first.
func Prepend(existing, fresh []model.Snapshot) []model.Snapshot {
	out := make([]model.Snapshot, 0, len(existing)+len(fresh))
	out = append(out, fresh...)
	return append(out, existing...)
}

// ForList returns the snapshots of one list, newest first.
func ForList(snapshots []model.Snapshot, listID string) []model.Snapshot {
	out := make([]model.Snapshot, 0)
	for _, s := range snapshots {
		if s.ListID == listID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EndedAt.After(out[j].EndedAt)
	})
	return out
}

type Summary struct {
	Periods        int
	AveragePercent int
	BestPercent    int
	PerfectStreak  int
}

// Summarize reports completion statistics over snapshots ordered
// newest-first. PerfectStreak counts consecutive 100% periods from the
// newest one backwards.
func Summarize(snapshots []model.Snapshot) Summary {
	s := Summary{Periods: len(snapshots)}
	if len(snapshots) == 0 {
		return s
	}
	sum := 0
	streakOpen := true
	for _, snap := range snapshots {
		sum += snap.Percent
		if snap.Percent > s.BestPercent {
			s.BestPercent = snap.Percent
		}
		if streakOpen && snap.Total > 0 && snap.Percent == 100 {
			s.PerfectStreak++
		} else {
			streakOpen = false
		}
	}
	s.AveragePercent = model.Percent(sum, len(snapshots)*100)
	return s
}
