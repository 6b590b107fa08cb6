package model

import (
	"testing"
	"time"
)

func TestMostRecentDueOnceNeverResets(t *testing.T) {
	if due, ok := MostRecentDue(DefaultRecurrenceRule(), at(t, "2024-01-15 04:00")); ok {
		t.Fatalf("once rule should never be due, got %s", due)
	}
	if _, ok := NextDue(DefaultRecurrenceRule(), at(t, "2024-01-15 04:00")); ok {
		t.Fatal("once rule should have no next boundary")
	}
	if got := Preview(DefaultRecurrenceRule(), at(t, "2024-01-15 04:00"), 3); len(got) != 0 {
		t.Fatalf("expected empty preview, got %v", got)
	}
}

func TestMostRecentDueDaily(t *testing.T) {
	rule := RecurrenceRule{Mode: ModeDaily, Hour: 5, Minute: 0, Weekday: time.Monday, DayOfMonth: 1}

	due, ok := MostRecentDue(rule, at(t, "2024-01-15 04:00"))
	if !ok || due.Format(minuteLayout) != "2024-01-14 05:00" {
		t.Fatalf("before boundary: got %s", due.Format(minuteLayout))
	}
	due, _ = MostRecentDue(rule, at(t, "2024-01-15 06:00"))
	if due.Format(minuteLayout) != "2024-01-15 05:00" {
		t.Fatalf("after boundary: got %s", due.Format(minuteLayout))
	}
	due, _ = MostRecentDue(rule, at(t, "2024-01-15 05:00"))
	if due.Format(minuteLayout) != "2024-01-15 05:00" {
		t.Fatalf("at boundary: got %s", due.Format(minuteLayout))
	}
	due, _ = MostRecentDue(rule, at(t, "2024-03-01 01:00"))
	if due.Format(minuteLayout) != "2024-02-29 05:00" {
		t.Fatalf("month rollback: got %s", due.Format(minuteLayout))
	}
}

func TestMostRecentDueWeekly(t *testing.T) {
	rule := RecurrenceRule{Mode: ModeWeekly, Weekday: time.Monday, Hour: 9, Minute: 0, DayOfMonth: 1}

	wednesday := at(t, "2024-01-17 08:00")
	if wednesday.Weekday() != time.Wednesday {
		t.Fatalf("fixture is not a wednesday: %s", wednesday.Weekday())
	}
	due, ok := MostRecentDue(rule, wednesday)
	if !ok || due.Format(minuteLayout) != "2024-01-15 09:00" {
		t.Fatalf("wednesday: got %s", due.Format(minuteLayout))
	}

	due, _ = MostRecentDue(rule, at(t, "2024-01-15 08:59"))
	if due.Format(minuteLayout) != "2024-01-08 09:00" {
		t.Fatalf("same weekday before time: got %s", due.Format(minuteLayout))
	}
	due, _ = MostRecentDue(rule, at(t, "2024-01-15 09:30"))
	if due.Format(minuteLayout) != "2024-01-15 09:00" {
		t.Fatalf("same weekday after time: got %s", due.Format(minuteLayout))
	}
	due, _ = MostRecentDue(rule, at(t, "2024-01-01 00:00"))
	if due.Format(minuteLayout) != "2023-12-25 09:00" {
		t.Fatalf("year rollback: got %s", due.Format(minuteLayout))
	}
}

func TestMostRecentDueMonthlyClamps(t *testing.T) {
	rule := RecurrenceRule{Mode: ModeMonthly, DayOfMonth: 31, Hour: 5, Minute: 30, Weekday: time.Monday}

	due, ok := MostRecentDue(rule, at(t, "2024-03-05 00:00"))
	if !ok || due.Format(minuteLayout) != "2024-02-29 05:30" {
		t.Fatalf("leap february: got %s", due.Format(minuteLayout))
	}
	due, _ = MostRecentDue(rule, at(t, "2023-03-05 00:00"))
	if due.Format(minuteLayout) != "2023-02-28 05:30" {
		t.Fatalf("plain february: got %s", due.Format(minuteLayout))
	}
	due, _ = MostRecentDue(rule, at(t, "2024-04-30 06:00"))
	if due.Format(minuteLayout) != "2024-04-30 05:30" {
		t.Fatalf("clamped in current month: got %s", due.Format(minuteLayout))
	}
}

func TestMostRecentDueMonthlyPreviousYear(t *testing.T) {
	rule := RecurrenceRule{Mode: ModeMonthly, DayOfMonth: 15, Hour: 8, Minute: 0, Weekday: time.Monday}
	due, _ := MostRecentDue(rule, at(t, "2024-01-10 12:00"))
	if due.Format(minuteLayout) != "2023-12-15 08:00" {
		t.Fatalf("got %s", due.Format(minuteLayout))
	}
}

func TestMostRecentDueIgnoresIrrelevantFields(t *testing.T) {
	now := at(t, "2024-06-12 13:45")
	base := RecurrenceRule{Mode: ModeDaily, Hour: 7, Minute: 10, Weekday: time.Monday, DayOfMonth: 1}
	other := base
	other.Weekday = time.Saturday
	other.DayOfMonth = 31
	other.CarryOver = !base.CarryOver

	a, _ := MostRecentDue(base, now)
	b, _ := MostRecentDue(other, now)
	if !a.Equal(b) {
		t.Fatalf("irrelevant fields changed the result: %s vs %s", a, b)
	}
}

func TestMostRecentDueIsLargestBoundaryNotAfterNow(t *testing.T) {
	rules := []RecurrenceRule{
		{Mode: ModeDaily, Hour: 0, Minute: 0, Weekday: time.Monday, DayOfMonth: 1},
		{Mode: ModeDaily, Hour: 23, Minute: 59, Weekday: time.Monday, DayOfMonth: 1},
		{Mode: ModeWeekly, Hour: 9, Minute: 0, Weekday: time.Sunday, DayOfMonth: 1},
		{Mode: ModeWeekly, Hour: 18, Minute: 30, Weekday: time.Saturday, DayOfMonth: 1},
		{Mode: ModeMonthly, Hour: 5, Minute: 0, Weekday: time.Monday, DayOfMonth: 1},
		{Mode: ModeMonthly, Hour: 5, Minute: 0, Weekday: time.Monday, DayOfMonth: 30},
		{Mode: ModeMonthly, Hour: 22, Minute: 0, Weekday: time.Monday, DayOfMonth: 31},
	}
	start := at(t, "2023-12-20 00:00")
	for _, rule := range rules {
		for now := start; now.Before(start.AddDate(1, 2, 0)); now = now.Add(7*time.Hour + 13*time.Minute) {
			due, ok := MostRecentDue(rule, now)
			if !ok {
				t.Fatalf("%s: expected a boundary at %s", rule, now)
			}
			if due.After(now) {
				t.Fatalf("%s: due %s is after now %s", rule, due, now)
			}
			next, ok := NextDue(rule, now)
			if !ok || !next.After(now) {
				t.Fatalf("%s: next %s is not after now %s", rule, next, now)
			}
			if again, _ := MostRecentDue(rule, next); !again.Equal(next) {
				t.Fatalf("%s: next %s is not itself a boundary (got %s)", rule, next, again)
			}
			if before, _ := MostRecentDue(rule, next.Add(-time.Nanosecond)); !before.Equal(due) {
				t.Fatalf("%s: a boundary lies between %s and %s", rule, due, next)
			}
		}
	}
}

func TestNextDueAtBoundaryMovesForward(t *testing.T) {
	rule := RecurrenceRule{Mode: ModeDaily, Hour: 5, Minute: 0, Weekday: time.Monday, DayOfMonth: 1}
	next, ok := NextDue(rule, at(t, "2024-01-15 05:00"))
	if !ok || next.Format(minuteLayout) != "2024-01-16 05:00" {
		t.Fatalf("got %s", next.Format(minuteLayout))
	}
}

func TestPreviewMonthlyReclampsEachMonth(t *testing.T) {
	rule := RecurrenceRule{Mode: ModeMonthly, DayOfMonth: 31, Hour: 5, Minute: 0, Weekday: time.Monday}
	list := Preview(rule, at(t, "2024-01-31 06:00"), 3)
	want := []string{"2024-02-29 05:00", "2024-03-31 05:00", "2024-04-30 05:00"}
	if len(list) != len(want) {
		t.Fatalf("expected %d preview items, got %d", len(want), len(list))
	}
	for i := range list {
		if got := list[i].Format(minuteLayout); got != want[i] {
			t.Fatalf("preview[%d] got %s want %s", i, got, want[i])
		}
	}
}

func TestMostRecentDueAcrossDaylightSavingGap(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	rule := RecurrenceRule{Mode: ModeDaily, Hour: 2, Minute: 30, Weekday: time.Monday, DayOfMonth: 1}
	// 02:30 does not exist on 2024-03-10 in New York.
	for _, now := range []time.Time{
		time.Date(2024, 3, 10, 1, 59, 0, 0, loc),
		time.Date(2024, 3, 10, 3, 1, 0, 0, loc),
		time.Date(2024, 3, 10, 12, 0, 0, 0, loc),
		time.Date(2024, 11, 3, 1, 30, 0, 0, loc),
	} {
		due, ok := MostRecentDue(rule, now)
		if !ok || due.After(now) {
			t.Fatalf("due %s must not be after now %s", due, now)
		}
		if now.Sub(due) > 25*time.Hour {
			t.Fatalf("due %s lags now %s by more than a day", due, now)
		}
	}
}
