package query

import (
	"strings"
	"time"
)

// Window is a named date range relative to the current instant.
type Window string

const (
	Today     Window = "today"
	Yesterday Window = "yesterday"
	ThisWeek  Window = "this_week"
	ThisMonth Window = "this_month"
	LastMonth Window = "last_month"
)

// Windows lists every supported window.
var Windows = []Window{Today, Yesterday, ThisWeek, ThisMonth, LastMonth}

// ParseWindow reads a window name. "this-week", "week", and "This Week" all
// name ThisWeek.
func ParseWindow(s string) (Window, bool) {
	norm := strings.NewReplacer("-", "_", " ", "_").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "today":
		return Today, true
	case "yesterday":
		return Yesterday, true
	case "this_week", "week":
		return ThisWeek, true
	case "this_month", "month":
		return ThisMonth, true
	case "last_month":
		return LastMonth, true
	default:
		return "", false
	}
}

// Bounds returns the half-open interval [start, end) the window covers at now,
// in now's location.
func (w Window) Bounds(now time.Time, weekStart time.Weekday) (start, end time.Time, ok bool) {
	today := midnight(now)
	switch w {
	case Today:
		return today, today.AddDate(0, 0, 1), true
	case Yesterday:
		return today.AddDate(0, 0, -1), today, true
	case ThisWeek:
		back := (int(now.Weekday()) - int(weekStart) + 7) % 7
		return today.AddDate(0, 0, -back), now, true
	case ThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first, first.AddDate(0, 1, 0), true
	case LastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return first.AddDate(0, -1, 0), first, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// Contains reports whether t falls inside the window at now.
func (w Window) Contains(t, now time.Time, weekStart time.Weekday) bool {
	start, end, ok := w.Bounds(now, weekStart)
	if !ok {
		return true
	}
	return !t.Before(start) && t.Before(end)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseWeekday reads a weekday name such as "monday" or "sun".
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.HasPrefix(strings.ToLower(d.String()), s) {
			return d, true
		}
	}
	return 0, false
}
