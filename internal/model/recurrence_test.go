package model

import (
	"errors"
	"testing"
	"time"
)

const minuteLayout = "2006-01-02 15:04"

func at(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.ParseInLocation(minuteLayout, value, time.UTC)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestDefaultRecurrenceRule(t *testing.T) {
	rule := DefaultRecurrenceRule()
	if rule.Mode != ModeOnce || rule.Hour != 5 || rule.Minute != 0 {
		t.Fatalf("unexpected defaults: %+v", rule)
	}
	if rule.Weekday != time.Monday || rule.DayOfMonth != 1 || !rule.CarryOver {
		t.Fatalf("unexpected defaults: %+v", rule)
	}
	if err := rule.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestRecurrenceRuleValidate(t *testing.T) {
	rule := DefaultRecurrenceRule()
	rule.Mode = Mode("hourly")
	if err := rule.Validate(); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}

	rule = DefaultRecurrenceRule()
	rule.Hour = 24
	if err := rule.Validate(); !errors.Is(err, ErrInvalidClock) {
		t.Fatalf("expected ErrInvalidClock, got %v", err)
	}

	rule = DefaultRecurrenceRule()
	rule.Weekday = time.Weekday(7)
	if err := rule.Validate(); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}

	rule = DefaultRecurrenceRule()
	rule.DayOfMonth = 0
	if err := rule.Validate(); !errors.Is(err, ErrInvalidDayOfMonth) {
		t.Fatalf("expected ErrInvalidDayOfMonth, got %v", err)
	}
}

func TestCadenceVariants(t *testing.T) {
	rule := RecurrenceRule{Mode: ModeWeekly, Hour: 9, Minute: 15, Weekday: time.Friday, DayOfMonth: 20}
	weekly, ok := rule.Cadence().(Weekly)
	if !ok {
		t.Fatalf("expected Weekly cadence, got %T", rule.Cadence())
	}
	if weekly.Weekday != time.Friday || weekly.Hour != 9 || weekly.Minute != 15 {
		t.Fatalf("unexpected weekly cadence: %+v", weekly)
	}
	if _, ok := (RecurrenceRule{Mode: Mode("bogus")}).Cadence().(Once); !ok {
		t.Fatal("unknown mode should behave like once")
	}
	if got := rule.String(); got != "weekly on Friday at 09:15" {
		t.Fatalf("unexpected rule string: %q", got)
	}
}

func TestLastDayOfMonth(t *testing.T) {
	cases := map[string]int{
		"2024-02": 29,
		"2023-02": 28,
		"2024-04": 30,
		"2024-12": 31,
	}
	for key, want := range cases {
		ym, err := time.Parse("2006-01", key)
		if err != nil {
			t.Fatalf("parse %s: %v", key, err)
		}
		if got := LastDayOfMonth(ym.Year(), ym.Month()); got != want {
			t.Fatalf("%s: got %d want %d", key, got, want)
		}
	}
}
