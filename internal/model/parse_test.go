package model

import (
	"reflect"
	"testing"
)

func TestParseTaskLine(t *testing.T) {
	cases := []struct {
		line     string
		title    string
		tags     []string
		priority Priority
	}{
		{"Buy milk", "Buy milk", []string{}, PriorityMedium},
		{"Buy milk #Shopping #home", "Buy milk", []string{"shopping", "home"}, PriorityMedium},
		{"Call mom !high", "Call mom", []string{}, PriorityHigh},
		{"Stretch !L #health", "Stretch", []string{"health"}, PriorityLow},
		{"#x Review #x notes !m", "Review notes", []string{"x"}, PriorityMedium},
		{"Übung #größe", "Übung", []string{"größe"}, PriorityMedium},
	}
	for _, tc := range cases {
		got := ParseTaskLine(tc.line)
		if got.Title != tc.title {
			t.Fatalf("%q: title got %q want %q", tc.line, got.Title, tc.title)
		}
		if !reflect.DeepEqual(got.Tags, tc.tags) {
			t.Fatalf("%q: tags got %v want %v", tc.line, got.Tags, tc.tags)
		}
		if got.Priority != tc.priority {
			t.Fatalf("%q: priority got %q want %q", tc.line, got.Priority, tc.priority)
		}
	}
}
