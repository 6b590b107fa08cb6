// Package reset decides when a list's period has ended and produces the
// archived snapshot and the task set for the next period. Every function is
// pure: callers pass the current instant and commit the returned values.
package reset

import (
	"time"

	"github.com/sandeepkv93/cadence/internal/idgen"
	"github.com/sandeepkv93/cadence/internal/model"
)

type Engine struct {
	newID idgen.Generator
}

func NewEngine(gen idgen.Generator) *Engine {
	if gen == nil {
		gen = idgen.UUIDv7()
	}
	return &Engine{newID: gen}
}

// Outcome is either "no action needed" (Due reports false) or a reset to
// commit onto the list.
type Outcome struct {
	ListID      string
	Snapshot    *model.Snapshot
	NextTasks   []model.TaskItem
	LastResetAt time.Time
}

func (o Outcome) Due() bool { return o.Snapshot != nil }

// Apply returns list with the outcome committed. Lists other than the one the
// outcome was computed for are returned unchanged.
func (o Outcome) Apply(list model.ListState) model.ListState {
	if !o.Due() || list.ID != o.ListID {
		return list
	}
	out := list
	out.Tasks = model.CloneTasks(o.NextTasks)
	out.LastResetAt = o.LastResetAt
	return out
}

// Evaluate resets list when a boundary of its rule has passed since the last
// reset. The new period starts at now rather than at the boundary, and
// boundaries missed while nothing polled collapse into a single reset.
func (e *Engine) Evaluate(list model.ListState, now time.Time) Outcome {
	due, ok := model.MostRecentDue(list.Settings, now)
	if !ok || !list.LastResetAt.Before(due) {
		return Outcome{ListID: list.ID}
	}
	return e.reset(list, now)
}

// ManualReset ends the current period regardless of the schedule.
func (e *Engine) ManualReset(list model.ListState, now time.Time) Outcome {
	return e.reset(list, now)
}

// reset never moves lastResetAt backwards. A period that would end before
// it started, after the clock went back, ends at its start instead.
func (e *Engine) reset(list model.ListState, now time.Time) Outcome {
	lastReset := now
	if lastReset.Before(list.LastResetAt) {
		lastReset = list.LastResetAt
	}
	snap := e.snapshot(list, lastReset)
	return Outcome{
		ListID:      list.ID,
		Snapshot:    &snap,
		NextTasks:   NextTasks(list.Tasks, list.Settings.CarryOver),
		LastResetAt: lastReset,
	}
}

func (e *Engine) snapshot(list model.ListState, end time.Time) model.Snapshot {
	p := list.Progress()
	return model.Snapshot{
		ID:        e.newID(),
		ListID:    list.ID,
		ListName:  list.Name,
		StartedAt: list.LastResetAt,
		EndedAt:   end,
		Total:     p.Total,
		Completed: p.Completed,
		Percent:   p.Percent,
		Tasks:     model.CloneTasks(list.Tasks),
	}
}

// NextTasks drops checked items when carryOver is set and everything
// otherwise. Carried items keep their identity.
func NextTasks(tasks []model.TaskItem, carryOver bool) []model.TaskItem {
	out := make([]model.TaskItem, 0, len(tasks))
	if !carryOver {
		return out
	}
	for _, t := range tasks {
		if t.Checked {
			continue
		}
		carried := t.Clone()
		carried.Checked = false
		out = append(out, carried)
	}
	return out
}
