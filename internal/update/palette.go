package update

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/cadence/internal/commands"
	"github.com/sandeepkv93/cadence/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			if len(msg.Runes) == 0 {
				m.Palette.Input += " "
			} else {
				m.Palette.Input += string(msg.Runes)
			}
			m.commandInput.SetValue(m.Palette.Input)
			return m
		}
		m.commandInput.SetValue(m.Palette.Input)
		m.commandInput.CursorEnd()
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")

	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}

	now := m.clock()
	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			list, err := m.requireList()
			if err != nil {
				return commands.Result{}, err
			}
			task, err := m.store.AddTask(m.ctx, list.ID, a.Line, now)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewLists
			return commands.Result{Message: fmt.Sprintf("added to %s: %s", list.Name, task.Title)}, nil
		},
		Bulk: func(b commands.BulkArgs) (commands.Result, error) {
			list, err := m.requireList()
			if err != nil {
				return commands.Result{}, err
			}
			n, err := m.store.BulkAdd(m.ctx, list.ID, strings.Join(b.Lines, "\n"), now)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewLists
			return commands.Result{Message: fmt.Sprintf("added %d task(s) to %s", n, list.Name)}, nil
		},
		To: func(a commands.ToArgs) (commands.Result, error) {
			list, err := m.store.AddToNamedList(m.ctx, a.List, a.Line, now)
			if err != nil {
				return commands.Result{}, err
			}
			m.selectList(list.ID)
			m.CurrentView = ViewLists
			return commands.Result{Message: fmt.Sprintf("added to %s: %s", list.Name, list.Tasks[0].Title)}, nil
		},
		New: func(a commands.NameArgs) (commands.Result, error) {
			list, err := m.store.CreateList(m.ctx, a.Name, now)
			if err != nil {
				return commands.Result{}, err
			}
			m.selectList(list.ID)
			m.CurrentView = ViewLists
			return commands.Result{Message: fmt.Sprintf("created list %s", list.Name)}, nil
		},
		Rename: func(a commands.NameArgs) (commands.Result, error) {
			list, err := m.requireList()
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.RenameList(m.ctx, list.ID, a.Name); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("renamed %s to %s", list.Name, a.Name)}, nil
		},
		Delete: func() (commands.Result, error) {
			list, err := m.requireList()
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.DeleteList(m.ctx, list.ID); err != nil {
				return commands.Result{}, err
			}
			m.ActiveListID = ""
			return commands.Result{Message: fmt.Sprintf("deleted %s, its archive is kept", list.Name)}, nil
		},
		Reset: func() (commands.Result, error) {
			list, err := m.requireList()
			if err != nil {
				return commands.Result{}, err
			}
			snap, err := m.store.ResetNow(m.ctx, list.ID, now)
			if err != nil {
				return commands.Result{}, err
			}
			m.Cursor = 0
			return commands.Result{Message: fmt.Sprintf("reset %s: archived %d/%d (%d%%)", list.Name, snap.Completed, snap.Total, snap.Percent)}, nil
		},
		Mode: func(a commands.ModeArgs) (commands.Result, error) {
			list, err := m.requireList()
			if err != nil {
				return commands.Result{}, err
			}
			rule := list.Settings
			rule.Mode = a.Mode
			switch a.Mode {
			case model.ModeWeekly:
				rule.Weekday = a.Weekday
			case model.ModeMonthly:
				rule.DayOfMonth = a.Day
			}
			if a.Clock != nil {
				rule.Hour = a.Clock.Hour
				rule.Minute = a.Clock.Minute
			}
			if err := m.store.UpdateSettings(m.ctx, list.ID, rule); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s now resets %s", list.Name, rule)}, nil
		},
		Carry: func(a commands.CarryArgs) (commands.Result, error) {
			list, err := m.requireList()
			if err != nil {
				return commands.Result{}, err
			}
			rule := list.Settings
			rule.CarryOver = a.On
			if err := m.store.UpdateSettings(m.ctx, list.ID, rule); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("%s: %s", list.Name, describeRule(rule))}, nil
		},
		Retention: func(a commands.RetentionArgs) (commands.Result, error) {
			dropped, err := m.store.SetRetention(m.ctx, a.Days, now)
			if err != nil {
				return commands.Result{}, err
			}
			if a.Days == 0 {
				return commands.Result{Message: "archive kept forever"}, nil
			}
			return commands.Result{Message: fmt.Sprintf("archive kept for %d days, pruned %d snapshot(s)", a.Days, dropped)}, nil
		},
		Template: func(a commands.TemplateArgs) (commands.Result, error) {
			switch a.Action {
			case commands.TemplateSave:
				list, err := m.requireList()
				if err != nil {
					return commands.Result{}, err
				}
				tpl, err := m.store.SaveTemplate(m.ctx, list.ID, a.Name, now)
				if err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("saved template %s with %d task(s)", tpl.Name, len(tpl.Tasks))}, nil
			case commands.TemplateUse:
				list, err := m.store.NewFromTemplate(m.ctx, a.Name, now)
				if err != nil {
					return commands.Result{}, err
				}
				m.selectList(list.ID)
				m.CurrentView = ViewLists
				return commands.Result{Message: fmt.Sprintf("created list %s from template", list.Name)}, nil
			default:
				if err := m.store.DeleteTemplate(m.ctx, a.Name); err != nil {
					return commands.Result{}, err
				}
				return commands.Result{Message: fmt.Sprintf("deleted template %s", a.Name)}, nil
			}
		},
		Export: func(a commands.PathArgs) (commands.Result, error) {
			f, err := os.Create(a.Path)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.Export(f, now); err != nil {
				_ = f.Close()
				return commands.Result{}, err
			}
			if err := f.Close(); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("exported to %s", a.Path)}, nil
		},
		Import: func(a commands.PathArgs) (commands.Result, error) {
			f, err := os.Open(a.Path)
			if err != nil {
				return commands.Result{}, err
			}
			defer f.Close()
			if err := m.store.Import(m.ctx, f, now); err != nil {
				return commands.Result{}, err
			}
			m.ActiveListID = ""
			return commands.Result{Message: fmt.Sprintf("imported %s", a.Path)}, nil
		},
		Forget: func(a commands.ForgetArgs) (commands.Result, error) {
			id, err := m.resolveSnapshotID(a.SnapshotID)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.store.DeleteSnapshot(m.ctx, id); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("forgot snapshot %s", shortID(id))}, nil
		},
		Filter: func(a commands.FilterArgs) (commands.Result, error) {
			m.Filter = model.TaskFilter{Query: a.Query, Tag: a.Tag, Priority: a.Priority, OnlyOpen: a.OnlyOpen}
			m.Cursor = 0
			m.CurrentView = ViewLists
			if !m.Filter.Active() {
				return commands.Result{Message: "filter cleared"}, nil
			}
			return commands.Result{Message: "filter: " + filterText(m.Filter)}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}
	m.refresh()
	return m
}

// resolveSnapshotID accepts a full id or a prefix that names exactly one
// snapshot.
func (m Model) resolveSnapshotID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	var matches []string
	for _, s := range m.store.Snapshots("") {
		if s.ID == prefix {
			return s.ID, nil
		}
		if strings.HasPrefix(s.ID, prefix) {
			matches = append(matches, s.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no snapshot matches %q", prefix)}
	case 1:
		return matches[0], nil
	default:
		return "", &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("%q matches %d snapshots, give more of the id", prefix, len(matches))}
	}
}

func (m Model) requireList() (model.ListState, error) {
	list, ok := m.activeList()
	if !ok {
		return model.ListState{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no list selected, create one with /new <name>"}
	}
	return list, nil
}
