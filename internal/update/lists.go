package update

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/store"
	"github.com/sandeepkv93/cadence/internal/views"
)

func (m Model) handleCaptureKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Capture = CaptureState{}
		m.Status = StatusBar{Text: "capture closed"}
		return m
	case "enter":
		m.addFromCapture(m.Capture.Input)
		m.Capture.Input = ""
		return m
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.Capture.Input += string(msg.Runes)
		if msg.Type == tea.KeySpace && len(msg.Runes) == 0 {
			m.Capture.Input += " "
		}
		return m
	}
	m.captureInput.SetValue(m.Capture.Input)
	m.captureInput.CursorEnd()
	var cmd tea.Cmd
	m.captureInput, cmd = m.captureInput.Update(msg)
	_ = cmd
	m.Capture.Input = m.captureInput.Value()
	return m
}

func (m *Model) addFromCapture(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	if m.ActiveListID == "" {
		m.setError(errors.New("no list yet, create one with /new <name>"))
		return
	}
	task, err := m.store.AddTask(m.ctx, m.ActiveListID, line, m.clock())
	if err != nil {
		m.setError(err)
		return
	}
	m.Cursor = 0
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Title)}
	m.refresh()
}

func (m Model) handleListsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.visibleTasks())-1 {
			m.Cursor++
		}
	case " ", "enter":
		task, ok := m.selectedTask()
		if !ok {
			return m
		}
		checked, err := m.store.ToggleTask(m.ctx, m.ActiveListID, task.ID)
		if err != nil {
			m.setError(err)
			return m
		}
		state := "open"
		if checked {
			state = "done"
		}
		m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, task.Title)}
		m.refresh()
	case "x":
		task, ok := m.selectedTask()
		if !ok {
			return m
		}
		if err := m.store.RemoveTask(m.ctx, m.ActiveListID, task.ID); err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("removed: %s", task.Title)}
		m.refresh()
	case "a", "i":
		m.Capture.Active = true
		m.Status = StatusBar{Text: "capture mode, enter adds, esc closes"}
	case "R":
		m.resetActive()
	}
	return m
}

func (m *Model) resetActive() {
	list, ok := m.activeList()
	if !ok {
		m.setError(store.ErrListNotFound)
		return
	}
	snap, err := m.store.ResetNow(m.ctx, list.ID, m.clock())
	if err != nil {
		m.setError(err)
		return
	}
	m.Cursor = 0
	m.ArchiveCursor = 0
	m.Status = StatusBar{Text: fmt.Sprintf("reset %s: archived %d/%d (%d%%)", list.Name, snap.Completed, snap.Total, snap.Percent)}
	m.refresh()
}

func (m Model) renderListsView() string {
	data := views.ListsPanelData{ListCount: len(m.lists), Cursor: m.Cursor}
	if m.Capture.Active {
		data.CaptureView = m.captureInput.View()
	}
	list, ok := m.activeList()
	if !ok {
		return views.RenderListsPanel(data)
	}
	idx, _ := m.activeIndex()
	p := list.Progress()
	data.ListName = list.Name
	data.ListIndex = idx
	data.Rule = list.Settings.String()
	data.NextReset = nextResetText(list.Settings, m.clock())
	data.Completed = p.Completed
	data.Total = p.Total
	data.Percent = p.Percent
	data.ProgressView = m.progressBar.ViewAs(float64(p.Percent) / 100)
	data.Filter = filterText(m.Filter)
	data.Tags = model.Tags(list.Tasks)
	for _, t := range m.visibleTasks() {
		data.Tasks = append(data.Tasks, views.TaskRowData{
			ID:       t.ID,
			Title:    t.Title,
			Checked:  t.Checked,
			Priority: string(t.Priority),
			Tags:     t.Tags,
		})
	}
	return views.RenderListsPanel(data)
}

func nextResetText(rule model.RecurrenceRule, now time.Time) string {
	next, ok := model.NextDue(rule, now)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (in %s)", next.Format("Mon 15:04"), formatUntil(next.Sub(now)))
}

func filterText(f model.TaskFilter) string {
	if !f.Active() {
		return ""
	}
	var parts []string
	if f.Query != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Query))
	}
	if f.Tag != "" {
		parts = append(parts, "#"+f.Tag)
	}
	if f.Priority != "" {
		parts = append(parts, "!"+string(f.Priority))
	}
	if f.OnlyOpen {
		parts = append(parts, "open")
	}
	return strings.Join(parts, " ")
}
