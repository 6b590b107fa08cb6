package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	ID       string
	Title    string
	Checked  bool
	Priority string
	Tags     []string
}

type ListsPanelData struct {
	ListName     string
	ListIndex    int
	ListCount    int
	Rule         string
	NextReset    string
	ProgressView string
	Completed    int
	Total        int
	Percent      int
	Filter       string
	Tags         []string
	CaptureView  string
	Tasks        []TaskRowData
	Cursor       int
}

type SnapshotRowData struct {
	ID        string
	Ended     string
	Completed int
	Total     int
	Percent   int
}

type ArchivePanelData struct {
	ListName  string
	TableView string
	Rows      []SnapshotRowData
	Summary   string
}

type SettingsPanelData struct {
	ListName      string
	Rule          string
	CarryOver     bool
	LastReset     string
	RetentionDays int
	Preview       []string
	Templates     []string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

func RenderListsPanel(data ListsPanelData) string {
	var b strings.Builder
	if data.ListCount == 0 {
		b.WriteString("lists:\n(no lists yet, create one with /new <name>)\n")
		if data.CaptureView != "" {
			b.WriteString(data.CaptureView)
		}
		return strings.TrimSpace(b.String())
	}
	b.WriteString(fmt.Sprintf("list: %s (%d/%d)\n", data.ListName, data.ListIndex+1, data.ListCount))
	b.WriteString(fmt.Sprintf("reset: %s", data.Rule))
	if data.NextReset != "" {
		b.WriteString(fmt.Sprintf(" | next: %s", data.NextReset))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("progress: %s %d/%d (%d%%)\n", data.ProgressView, data.Completed, data.Total, data.Percent))
	if data.Filter != "" {
		b.WriteString("filter: " + data.Filter + "\n")
	}
	if len(data.Tags) > 0 {
		b.WriteString("tags: #" + strings.Join(data.Tags, " #") + "\n")
	}
	b.WriteString("actions: [a]add [space]toggle [x]remove [R]reset [tab]next list\n")
	if data.CaptureView != "" {
		b.WriteString(data.CaptureView + "\n")
	}
	if len(data.Tasks) == 0 {
		b.WriteString("\n(no tasks)")
		return strings.TrimSpace(b.String())
	}
	b.WriteString("\n")
	for i, task := range data.Tasks {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		box := "[ ]"
		if task.Checked {
			box = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s %s", cursor, box, priorityBadge(task.Priority), task.Title))
		for _, tag := range task.Tags {
			b.WriteString(" #" + tag)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}

func RenderArchivePanel(data ArchivePanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("archive: %s\n", data.ListName))
	b.WriteString("actions: [j/k]select [d]forget snapshot\n")
	if len(data.Rows) == 0 {
		b.WriteString("(no snapshots yet)")
		return b.String()
	}
	if data.Summary != "" {
		b.WriteString(data.Summary + "\n")
	}
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderSnapshotDetail(detail string) string {
	if strings.TrimSpace(detail) == "" {
		return "snapshot:\n(no selection)"
	}
	return "snapshot:\n" + detail
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("settings: %s\n", data.ListName))
	b.WriteString("actions: [m]cycle mode [c]toggle carry-over\n")
	b.WriteString(fmt.Sprintf("cadence: %s\n", data.Rule))
	carry := "off"
	if data.CarryOver {
		carry = "on"
	}
	b.WriteString(fmt.Sprintf("carry-over: %s\n", carry))
	b.WriteString(fmt.Sprintf("period started: %s\n", data.LastReset))
	if data.RetentionDays > 0 {
		b.WriteString(fmt.Sprintf("archive retention: %d days\n", data.RetentionDays))
	} else {
		b.WriteString("archive retention: keep forever\n")
	}
	if len(data.Preview) > 0 {
		b.WriteString("upcoming resets:\n")
		for _, p := range data.Preview {
			b.WriteString("- " + p + "\n")
		}
	} else {
		b.WriteString("upcoming resets: none (manual only)\n")
	}
	if len(data.Templates) > 0 {
		b.WriteString("templates: " + strings.Join(data.Templates, ", ") + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help:\n%s view:\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

func priorityBadge(p string) string {
	switch p {
	case "high":
		return "[!!]"
	case "low":
		return "[  ]"
	default:
		return "[! ]"
	}
}
