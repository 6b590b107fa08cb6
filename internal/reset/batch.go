package reset

import (
	"time"

	"github.com/sandeepkv93/cadence/internal/model"
)

// Batch collects every reset found during one evaluation pass.
type Batch struct {
	At        time.Time
	Lists     []model.ListState
	Snapshots []model.Snapshot
	Reset     []string
}

func (b Batch) Empty() bool { return len(b.Reset) == 0 }

// EvaluateAll evaluates every list independently. Lists holds the full
// collection with due outcomes applied, in the original order; Snapshots
// holds the new snapshots in list order.
func (e *Engine) EvaluateAll(lists []model.ListState, now time.Time) Batch {
	b := Batch{At: now, Lists: make([]model.ListState, 0, len(lists))}
	for _, list := range lists {
		outcome := e.Evaluate(list, now)
		if !outcome.Due() {
			b.Lists = append(b.Lists, list)
			continue
		}
		b.Lists = append(b.Lists, outcome.Apply(list))
		b.Snapshots = append(b.Snapshots, *outcome.Snapshot)
		b.Reset = append(b.Reset, list.ID)
	}
	return b
}

// Changed returns only the lists that were reset.
func (b Batch) Changed() []model.ListState {
	reset := make(map[string]bool, len(b.Reset))
	for _, id := range b.Reset {
		reset[id] = true
	}
	out := make([]model.ListState, 0, len(b.Reset))
	for _, l := range b.Lists {
		if reset[l.ID] {
			out = append(out, l)
		}
	}
	return out
}
