package views

import (
	"strings"
	"testing"
)

func TestRenderListsPanel(t *testing.T) {
	out := RenderListsPanel(ListsPanelData{
		ListName:  "Morning",
		ListCount: 2,
		Rule:      "daily at 05:00",
		NextReset: "in 3h",
		Completed: 1,
		Total:     2,
		Percent:   50,
		Tasks: []TaskRowData{
			{ID: "a", Title: "Stretch", Checked: true, Priority: "low"},
			{ID: "b", Title: "Journal", Priority: "high", Tags: []string{"mind"}},
		},
		Cursor: 1,
	})
	for _, want := range []string{"list: Morning (1/2)", "next: in 3h", "1/2 (50%)", "[x] [  ] Stretch", "> [ ] [!!] Journal #mind"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderListsPanelWithoutLists(t *testing.T) {
	out := RenderListsPanel(ListsPanelData{})
	if !strings.Contains(out, "no lists yet") {
		t.Fatalf("expected empty hint, got %q", out)
	}
}

func TestSnapshotMarkdown(t *testing.T) {
	md := SnapshotMarkdown(SnapshotData{
		ListName:  "Chores_2",
		Started:   "Mon 05:00",
		Ended:     "Tue 05:00",
		Completed: 1,
		Total:     2,
		Percent:   50,
		Tasks: []SnapshotTaskData{
			{Title: "Dishes", Checked: true, Tags: []string{"home"}},
			{Title: "Laundry", Priority: "high"},
		},
	})
	for _, want := range []string{`## Chores\_2`, "**1 of 2 done (50%)**", "- [x] Dishes `#home`", "- [ ] Laundry **!**"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in markdown:\n%s", want, md)
		}
	}
	if RenderMarkdown(md) == "" {
		t.Fatal("expected rendered markdown")
	}
}

func TestRenderSettingsPanel(t *testing.T) {
	out := RenderSettingsPanel(SettingsPanelData{ListName: "A", Rule: "once", LastReset: "today"})
	if !strings.Contains(out, "none (manual only)") || !strings.Contains(out, "keep forever") {
		t.Fatalf("unexpected settings output:\n%s", out)
	}
}
