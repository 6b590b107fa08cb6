package views

import (
	"fmt"
	"strings"
)

type SnapshotTaskData struct {
	Title    string
	Checked  bool
	Priority string
	Tags     []string
}

type SnapshotData struct {
	ListName  string
	Started   string
	Ended     string
	Completed int
	Total     int
	Percent   int
	Tasks     []SnapshotTaskData
}

// SnapshotMarkdown lays out an archived period as a markdown checklist for
// RenderMarkdown.
func SnapshotMarkdown(data SnapshotData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("## %s\n\n", escapeMarkdown(data.ListName)))
	b.WriteString(fmt.Sprintf("%s to %s\n\n", data.Started, data.Ended))
	b.WriteString(fmt.Sprintf("**%d of %d done (%d%%)**\n\n", data.Completed, data.Total, data.Percent))
	if len(data.Tasks) == 0 {
		b.WriteString("_The list was empty._\n")
		return b.String()
	}
	for _, t := range data.Tasks {
		box := "[ ]"
		if t.Checked {
			box = "[x]"
		}
		b.WriteString(fmt.Sprintf("- %s %s", box, escapeMarkdown(t.Title)))
		if t.Priority == "high" {
			b.WriteString(" **!**")
		}
		for _, tag := range t.Tags {
			b.WriteString(fmt.Sprintf(" `#%s`", tag))
		}
		b.WriteString("\n")
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`, "`", "\\`", `#`, `\#`, `[`, `\[`, `]`, `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
