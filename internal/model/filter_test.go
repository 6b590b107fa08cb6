package model

import "testing"

func TestTaskFilter(t *testing.T) {
	tasks := []TaskItem{
		{ID: "1", Title: "Water plants", Priority: PriorityHigh, Tags: []string{"home"}},
		{ID: "2", Title: "Pay rent", Priority: PriorityHigh, Tags: []string{"money"}, Checked: true},
		{ID: "3", Title: "Water lawn", Priority: PriorityLow, Tags: []string{"home", "garden"}},
	}

	cases := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{"zero matches all", TaskFilter{}, []string{"1", "2", "3"}},
		{"query ignores case", TaskFilter{Query: "WATER"}, []string{"1", "3"}},
		{"tag", TaskFilter{Tag: "garden"}, []string{"3"}},
		{"priority", TaskFilter{Priority: PriorityHigh}, []string{"1", "2"}},
		{"only open", TaskFilter{OnlyOpen: true, Priority: PriorityHigh}, []string{"1"}},
	}
	for _, tc := range cases {
		got := tc.filter.Apply(tasks)
		if len(got) != len(tc.want) {
			t.Fatalf("%s: got %d tasks, want %d", tc.name, len(got), len(tc.want))
		}
		for i := range got {
			if got[i].ID != tc.want[i] {
				t.Fatalf("%s: got %s at %d, want %s", tc.name, got[i].ID, i, tc.want[i])
			}
		}
	}
	if (TaskFilter{}).Active() || !(TaskFilter{OnlyOpen: true}).Active() {
		t.Fatal("unexpected Active result")
	}
	if tags := Tags(tasks); len(tags) != 3 || tags[2] != "garden" {
		t.Fatalf("unexpected tags: %v", tags)
	}
}
