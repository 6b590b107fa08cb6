package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/cadence/internal/reset"
	"github.com/sandeepkv93/cadence/internal/views"
)

func (m Model) Init() tea.Cmd {
	return waitForBatchCmd(m.batches)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		next, cmd := m.handleKey(typed)
		next.syncBubbleData()
		return next, cmd
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case ResetBatchMsg:
		m.applyBatch(typed.Batch)
		return m, waitForBatchCmd(m.batches)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		m.Quitting = true
		return m, tea.Quit
	}
	if m.Palette.Active {
		return m.handlePaletteKey(msg), nil
	}
	if m.Capture.Active {
		return m.handleCaptureKey(msg), nil
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.Status = StatusBar{Text: "command palette active", IsError: false}
		return m, nil
	case m.Keys.Lists:
		m.CurrentView = ViewLists
		return m, nil
	case m.Keys.Archive:
		m.CurrentView = ViewArchive
		return m, nil
	case m.Keys.Settings:
		m.CurrentView = ViewSettings
		return m, nil
	case m.Keys.NextList:
		m.nextList()
		m.refresh()
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown", IsError: false}
		} else {
			m.Status = StatusBar{Text: "help hidden", IsError: false}
		}
		return m, nil
	case "D":
		m.cycleDensity()
		return m, nil
	case m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}

	switch m.CurrentView {
	case ViewLists:
		return m.handleListsKey(msg), nil
	case ViewArchive:
		return m.handleArchiveKey(msg), nil
	case ViewSettings:
		return m.handleSettingsKey(msg), nil
	}
	return m, nil
}

// applyBatch shows a batch the poller already committed to the store.
func (m *Model) applyBatch(b reset.Batch) {
	if b.Empty() {
		return
	}
	m.ResetLog = append(m.ResetLog, b)
	if len(m.ResetLog) > resetLogLimit {
		m.ResetLog = m.ResetLog[len(m.ResetLog)-resetLogLimit:]
	}
	names := batchListNames(b)
	body := fmt.Sprintf("new period for %s", strings.Join(names, ", "))
	m.Status = StatusBar{Text: fmt.Sprintf("reset %d list(s): %s", len(names), strings.Join(names, ", "))}
	m.notifyDesktop("cadence", body)
	for _, id := range b.Reset {
		if id == m.ActiveListID {
			m.Cursor = 0
		}
	}
	m.refresh()
}

func batchListNames(b reset.Batch) []string {
	byID := make(map[string]string, len(b.Lists))
	for _, l := range b.Lists {
		byID[l.ID] = l.Name
	}
	names := make([]string, 0, len(b.Reset))
	for _, id := range b.Reset {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		} else {
			names = append(names, id)
		}
	}
	return names
}

func waitForBatchCmd(ch <-chan reset.Batch) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		b, ok := <-ch
		if !ok {
			return nil
		}
		return ResetBatchMsg{Batch: b}
	}
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	detail := ""
	switch m.CurrentView {
	case ViewLists:
		leftPane = m.renderListsView()
	case ViewArchive:
		leftPane = m.renderArchiveView()
		detail = m.renderSnapshotDetail()
	case ViewSettings:
		leftPane = m.renderSettingsView()
	}
	rightPane := joinNonEmpty(m.renderCommandPalette(), detail, m.renderHelpIfVisible())

	notificationView := ""
	if len(m.ResetLog) > 0 {
		last := m.ResetLog[len(m.ResetLog)-1]
		notificationView = fmt.Sprintf("last-reset: %s @ %s", strings.Join(batchListNames(last), ", "), last.At.Local().Format("Mon 15:04"))
	}
	notificationView = joinNonEmpty(notificationView, m.renderNotificationsView())

	listName := "-"
	if list, ok := m.activeList(); ok {
		listName = list.Name
	}
	return views.RenderApp(views.AppData{
		Header:        fmt.Sprintf("cadence | view: %s | list: %s", m.CurrentView, listName),
		LeftPane:      leftPane,
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notificationView,
		Footer: fmt.Sprintf("keys: %s lists | %s archive | %s settings | %s next | / cmd | %s help | %s quit",
			m.Keys.Lists, m.Keys.Archive, m.Keys.Settings, m.Keys.NextList, m.Keys.Help, m.Keys.Quit),
	})
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, strings.TrimSpace(p))
		}
	}
	return strings.Join(kept, "\n\n")
}

func isKnownView(v View) bool {
	switch v {
	case ViewLists, ViewArchive, ViewSettings:
		return true
	default:
		return false
	}
}
