package model

import (
	"regexp"
	"strings"
)

var (
	tagPattern      = regexp.MustCompile(`#([\p{L}0-9_-]+)`)
	priorityPattern = regexp.MustCompile(`(?i)!(low|med|high|l|m|h)`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

type ParsedLine struct {
	Title    string
	Tags     []string
	Priority Priority
}

// ParseTaskLine extracts #tags and a !low/!med/!high (or !l/!m/!h) marker
// from a quick-add line. What is left becomes the title.
func ParseTaskLine(line string) ParsedLine {
	out := ParsedLine{Tags: []string{}, Priority: PriorityMedium}
	for _, m := range tagPattern.FindAllStringSubmatch(line, -1) {
		tag := strings.ToLower(m[1])
		if !containsString(out.Tags, tag) {
			out.Tags = append(out.Tags, tag)
		}
	}
	title := tagPattern.ReplaceAllString(line, "")

	if m := priorityPattern.FindStringSubmatch(title); m != nil {
		switch strings.ToLower(m[1]) {
		case "l", "low":
			out.Priority = PriorityLow
		case "h", "high":
			out.Priority = PriorityHigh
		default:
			out.Priority = PriorityMedium
		}
		loc := priorityPattern.FindStringIndex(title)
		title = title[:loc[0]] + title[loc[1]:]
	}
	out.Title = strings.TrimSpace(spacePattern.ReplaceAllString(title, " "))
	return out
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
