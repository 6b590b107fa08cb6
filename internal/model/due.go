package model

import "time"

// MostRecentDue returns the latest reset boundary of rule at or before now.
// The boundary is computed in now's location using civil wall-clock time.
// It reports false for Once, which never resets on its own.
func MostRecentDue(rule RecurrenceRule, now time.Time) (time.Time, bool) {
	return rule.Cadence().mostRecent(now)
}

// NextDue returns the first reset boundary strictly after now.
func NextDue(rule RecurrenceRule, now time.Time) (time.Time, bool) {
	c := rule.Cadence()
	due, ok := c.mostRecent(now)
	if !ok {
		return time.Time{}, false
	}
	next := c.following(due)
	for !next.After(now) {
		next = c.following(next)
	}
	return next, true
}

// Preview lists the next count reset boundaries after from.
func Preview(rule RecurrenceRule, from time.Time, count int) []time.Time {
	if count <= 0 {
		return []time.Time{}
	}
	next, ok := NextDue(rule, from)
	if !ok {
		return []time.Time{}
	}
	c := rule.Cadence()
	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, next)
		next = c.following(next)
	}
	return out
}
