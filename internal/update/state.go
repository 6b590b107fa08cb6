package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/cadence/internal/archive"
	"github.com/sandeepkv93/cadence/internal/model"
	"github.com/sandeepkv93/cadence/internal/views"
)

const (
	resetLogLimit    = 20
	notificationsCap = 40
	snapshotLayout   = "Mon 2006-01-02 15:04"
)

func (m *Model) initBubbleComponents() {
	m.captureInput = textinput.New()
	m.captureInput.Prompt = "add> "
	m.captureInput.Placeholder = "title #tag !high"
	m.captureInput.CharLimit = 256
	m.captureInput.Width = 46

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.progressBar = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	m.progressBar.Width = 24

	cols := []table.Column{
		{Title: "Ended", Width: 20},
		{Title: "Done", Width: 7},
		{Title: "%", Width: 5},
		{Title: "ID", Width: 14},
	}
	m.archiveTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.detail = viewport.New(54, 14)
	m.helpModel = help.New()
}

// refresh reloads lists and the active list's archive from the store and
// keeps cursors in range.
func (m *Model) refresh() {
	if m.store == nil {
		return
	}
	m.lists = m.store.Lists()
	if _, ok := m.activeIndex(); !ok {
		m.ActiveListID = ""
		if len(m.lists) > 0 {
			m.ActiveListID = m.lists[0].ID
		}
	}
	m.snapshots = m.store.Snapshots(m.ActiveListID)
	if m.ActiveListID == "" {
		m.snapshots = nil
	}
	m.clampCursors()
	m.syncBubbleData()
}

func (m *Model) clampCursors() {
	tasks := m.visibleTasks()
	if m.Cursor >= len(tasks) {
		m.Cursor = len(tasks) - 1
	}
	if m.Cursor < 0 {
		m.Cursor = 0
	}
	if m.ArchiveCursor >= len(m.snapshots) {
		m.ArchiveCursor = len(m.snapshots) - 1
	}
	if m.ArchiveCursor < 0 {
		m.ArchiveCursor = 0
	}
}

func (m *Model) syncBubbleData() {
	tableHeight, detailHeight := densityDimensions(m.uiDensity)
	m.archiveTable.SetHeight(tableHeight)
	m.detail.Height = detailHeight

	rows := make([]table.Row, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		rows = append(rows, table.Row{
			s.EndedAt.Local().Format(snapshotLayout),
			fmt.Sprintf("%d/%d", s.Completed, s.Total),
			fmt.Sprintf("%d", s.Percent),
			shortID(s.ID),
		})
	}
	m.archiveTable.SetRows(rows)
	if len(rows) > 0 {
		m.archiveTable.SetCursor(m.ArchiveCursor)
	}

	if snap, ok := m.selectedSnapshot(); ok {
		m.detail.SetContent(views.RenderMarkdown(views.SnapshotMarkdown(snapshotData(snap))))
	} else {
		m.detail.SetContent("")
	}

	m.captureInput.SetValue(m.Capture.Input)
	m.commandInput.SetValue(m.Palette.Input)
	if m.Capture.Active {
		m.captureInput.Focus()
	} else {
		m.captureInput.Blur()
	}
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}
}

func densityDimensions(level int) (tableHeight int, detailHeight int) {
	switch level {
	case 2:
		return 14, 18
	case 3:
		return 18, 24
	default:
		return 10, 14
	}
}

func (m *Model) cycleDensity() {
	m.uiDensity++
	if m.uiDensity > 3 {
		m.uiDensity = 1
	}
	m.Status = StatusBar{Text: fmt.Sprintf("density level: %d", m.uiDensity)}
}

func (m Model) activeIndex() (int, bool) {
	for i, l := range m.lists {
		if l.ID == m.ActiveListID {
			return i, true
		}
	}
	return -1, false
}

func (m Model) activeList() (model.ListState, bool) {
	idx, ok := m.activeIndex()
	if !ok {
		return model.ListState{}, false
	}
	return m.lists[idx], true
}

func (m Model) visibleTasks() []model.TaskItem {
	list, ok := m.activeList()
	if !ok {
		return nil
	}
	return m.Filter.Apply(list.Tasks)
}

func (m Model) selectedTask() (model.TaskItem, bool) {
	tasks := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(tasks) {
		return model.TaskItem{}, false
	}
	return tasks[m.Cursor], true
}

func (m Model) selectedSnapshot() (model.Snapshot, bool) {
	if m.ArchiveCursor < 0 || m.ArchiveCursor >= len(m.snapshots) {
		return model.Snapshot{}, false
	}
	return m.snapshots[m.ArchiveCursor], true
}

func (m *Model) selectList(id string) {
	if id == m.ActiveListID {
		return
	}
	m.ActiveListID = id
	m.Cursor = 0
	m.ArchiveCursor = 0
	m.Filter = model.TaskFilter{}
}

func (m *Model) nextList() {
	if len(m.lists) == 0 {
		return
	}
	idx, ok := m.activeIndex()
	if !ok {
		idx = -1
	}
	next := m.lists[(idx+1)%len(m.lists)]
	m.selectList(next.ID)
	m.Status = StatusBar{Text: fmt.Sprintf("list: %s", next.Name)}
}

func snapshotData(s model.Snapshot) views.SnapshotData {
	tasks := make([]views.SnapshotTaskData, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, views.SnapshotTaskData{Title: t.Title, Checked: t.Checked, Priority: string(t.Priority), Tags: t.Tags})
	}
	return views.SnapshotData{
		ListName:  s.ListName,
		Started:   s.StartedAt.Local().Format(snapshotLayout),
		Ended:     s.EndedAt.Local().Format(snapshotLayout),
		Completed: s.Completed,
		Total:     s.Total,
		Percent:   s.Percent,
		Tasks:     tasks,
	}
}

func summaryLine(snaps []model.Snapshot) string {
	if len(snaps) == 0 {
		return ""
	}
	s := archive.Summarize(snaps)
	return fmt.Sprintf("periods: %d | average: %d%% | best: %d%% | perfect streak: %d",
		s.Periods, s.AveragePercent, s.BestPercent, s.PerfectStreak)
}
