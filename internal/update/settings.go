package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/views"
)

const previewCount = 3

var modeCycle = []model.Mode{model.ModeOnce, model.ModeDaily, model.ModeWeekly, model.ModeMonthly}

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	list, ok := m.activeList()
	if !ok {
		return m
	}
	rule := list.Settings
	switch msg.String() {
	case "m":
		rule.Mode = nextMode(rule.Mode)
	case "c":
		rule.CarryOver = !rule.CarryOver
	default:
		return m
	}
	if err := m.store.UpdateSettings(m.ctx, list.ID, rule); err != nil {
		m.setError(err)
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", list.Name, describeRule(rule))}
	m.refresh()
	return m
}

func nextMode(current model.Mode) model.Mode {
	for i, mode := range modeCycle {
		if mode == current {
			return modeCycle[(i+1)%len(modeCycle)]
		}
	}
	return model.ModeOnce
}

func describeRule(rule model.RecurrenceRule) string {
	carry := "carry-over off"
	if rule.CarryOver {
		carry = "carry-over on"
	}
	return fmt.Sprintf("%s, %s", rule, carry)
}

func (m Model) renderSettingsView() string {
	list, ok := m.activeList()
	if !ok {
		return "settings:\n(no list selected)"
	}
	now := m.clock()
	preview := make([]string, 0, previewCount)
	for _, at := range model.Preview(list.Settings, now, previewCount) {
		preview = append(preview, fmt.Sprintf("%s (in %s)", at.Format(snapshotLayout), formatUntil(at.Sub(now))))
	}
	templates := make([]string, 0)
	for _, t := range m.store.Templates() {
		templates = append(templates, t.Name)
	}
	return views.RenderSettingsPanel(views.SettingsPanelData{
		ListName:      list.Name,
		Rule:          list.Settings.String(),
		CarryOver:     list.Settings.CarryOver,
		LastReset:     list.LastResetAt.Local().Format(snapshotLayout),
		RetentionDays: m.store.RetentionDays(),
		Preview:       preview,
		Templates:     templates,
	})
}
