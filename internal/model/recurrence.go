package model

import (
	"errors"
	"fmt"
	"time"
)

type Mode string

const (
	ModeOnce    Mode = "once"
	ModeDaily   Mode = "daily"
	ModeWeekly  Mode = "weekly"
	ModeMonthly Mode = "monthly"
)

func (m Mode) IsValid() bool {
	switch m {
	case ModeOnce, ModeDaily, ModeWeekly, ModeMonthly:
		return true
	default:
		return false
	}
}

var (
	ErrInvalidMode       = errors.New("model: invalid recurrence mode")
	ErrInvalidClock      = errors.New("model: invalid reset time of day")
	ErrInvalidWeekday    = errors.New("model: invalid reset weekday")
	ErrInvalidDayOfMonth = errors.New("model: invalid reset day of month")
)

// RecurrenceRule is the persisted form of a list's reset cadence. Fields that
// do not apply to Mode are kept as-is so the record round-trips unchanged;
// evaluation only ever looks at the Cadence derived from it.
type RecurrenceRule struct {
	Mode       Mode         `json:"mode"`
	Hour       int          `json:"resetHour"`
	Minute     int          `json:"resetMinute"`
	Weekday    time.Weekday `json:"resetWeekday"`
	DayOfMonth int          `json:"resetDayOfMonth"`
	CarryOver  bool         `json:"carryOver"`
}

func DefaultRecurrenceRule() RecurrenceRule {
	return RecurrenceRule{
		Mode:       ModeOnce,
		Hour:       5,
		Minute:     0,
		Weekday:    time.Monday,
		DayOfMonth: 1,
		CarryOver:  true,
	}
}

func (r RecurrenceRule) Validate() error {
	if !r.Mode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidMode, r.Mode)
	}
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("%w: %02d:%02d", ErrInvalidClock, r.Hour, r.Minute)
	}
	if r.Weekday < time.Sunday || r.Weekday > time.Saturday {
		return fmt.Errorf("%w: %d", ErrInvalidWeekday, r.Weekday)
	}
	if r.DayOfMonth < 1 || r.DayOfMonth > 31 {
		return fmt.Errorf("%w: %d", ErrInvalidDayOfMonth, r.DayOfMonth)
	}
	return nil
}

// Cadence returns the variant of the rule that evaluation works on. Unknown
// modes behave like Once.
func (r RecurrenceRule) Cadence() Cadence {
	switch r.Mode {
	case ModeDaily:
		return Daily{Hour: r.Hour, Minute: r.Minute}
	case ModeWeekly:
		return Weekly{Weekday: r.Weekday, Hour: r.Hour, Minute: r.Minute}
	case ModeMonthly:
		return Monthly{Day: r.DayOfMonth, Hour: r.Hour, Minute: r.Minute}
	default:
		return Once{}
	}
}

func (r RecurrenceRule) String() string {
	return r.Cadence().String()
}

// Cadence is one of Once, Daily, Weekly or Monthly.
type Cadence interface {
	// mostRecent returns the largest boundary at or before now.
	mostRecent(now time.Time) (time.Time, bool)
	// following returns the boundary after the given one.
	following(boundary time.Time) time.Time
	String() string
}

type Once struct{}

type Daily struct {
	Hour   int
	Minute int
}

type Weekly struct {
	Weekday time.Weekday
	Hour    int
	Minute  int
}

type Monthly struct {
	Day    int
	Hour   int
	Minute int
}

func (Once) mostRecent(time.Time) (time.Time, bool) { return time.Time{}, false }

func (Once) following(time.Time) time.Time { return time.Time{} }

func (Once) String() string { return "once" }

func (c Daily) mostRecent(now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	candidate := time.Date(y, m, d, c.Hour, c.Minute, 0, 0, now.Location())
	if candidate.After(now) {
		candidate = time.Date(y, m, d-1, c.Hour, c.Minute, 0, 0, now.Location())
	}
	return candidate, true
}

func (c Daily) following(boundary time.Time) time.Time {
	y, m, d := boundary.Date()
	return time.Date(y, m, d+1, c.Hour, c.Minute, 0, 0, boundary.Location())
}

func (c Daily) String() string {
	return fmt.Sprintf("daily at %02d:%02d", c.Hour, c.Minute)
}

func (c Weekly) mostRecent(now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	back := (int(now.Weekday()) - int(c.Weekday) + 7) % 7
	candidate := time.Date(y, m, d-back, c.Hour, c.Minute, 0, 0, now.Location())
	if candidate.After(now) {
		candidate = time.Date(y, m, d-back-7, c.Hour, c.Minute, 0, 0, now.Location())
	}
	return candidate, true
}

func (c Weekly) following(boundary time.Time) time.Time {
	y, m, d := boundary.Date()
	return time.Date(y, m, d+7, c.Hour, c.Minute, 0, 0, boundary.Location())
}

func (c Weekly) String() string {
	return fmt.Sprintf("weekly on %s at %02d:%02d", c.Weekday, c.Hour, c.Minute)
}

func (c Monthly) mostRecent(now time.Time) (time.Time, bool) {
	y, m, _ := now.Date()
	candidate := c.at(y, m, now.Location())
	if candidate.After(now) {
		prev := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
		candidate = c.at(prev.Year(), prev.Month(), now.Location())
	}
	return candidate, true
}

func (c Monthly) following(boundary time.Time) time.Time {
	y, m, _ := boundary.Date()
	next := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return c.at(next.Year(), next.Month(), boundary.Location())
}

func (c Monthly) at(y int, m time.Month, loc *time.Location) time.Time {
	d := c.Day
	if last := LastDayOfMonth(y, m); d > last {
		d = last
	}
	if d < 1 {
		d = 1
	}
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, loc)
}

func (c Monthly) String() string {
	return fmt.Sprintf("monthly on day %d at %02d:%02d", c.Day, c.Hour, c.Minute)
}

// LastDayOfMonth returns the number of days in month m of year y.
func LastDayOfMonth(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
