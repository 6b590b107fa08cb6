package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/cadence/internal/views"
)

func (m Model) handleArchiveKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "up", "k":
		if m.ArchiveCursor > 0 {
			m.ArchiveCursor--
		}
	case "down", "j":
		if m.ArchiveCursor < len(m.snapshots)-1 {
			m.ArchiveCursor++
		}
	case "d":
		snap, ok := m.selectedSnapshot()
		if !ok {
			return m
		}
		if err := m.store.DeleteSnapshot(m.ctx, snap.ID); err != nil {
			m.setError(err)
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("forgot snapshot %s", shortID(snap.ID))}
		m.refresh()
		return m
	}
	m.syncBubbleData()
	return m
}

func (m Model) renderArchiveView() string {
	name := "(no list)"
	if list, ok := m.activeList(); ok {
		name = list.Name
	}
	rows := make([]views.SnapshotRowData, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		rows = append(rows, views.SnapshotRowData{
			ID:        s.ID,
			Ended:     s.EndedAt.Local().Format(snapshotLayout),
			Completed: s.Completed,
			Total:     s.Total,
			Percent:   s.Percent,
		})
	}
	return views.RenderArchivePanel(views.ArchivePanelData{
		ListName:  name,
		TableView: m.archiveTable.View(),
		Rows:      rows,
		Summary:   summaryLine(m.snapshots),
	})
}

func (m Model) renderSnapshotDetail() string {
	if _, ok := m.selectedSnapshot(); !ok {
		return views.RenderSnapshotDetail("")
	}
	return views.RenderSnapshotDetail(m.detail.View())
}
