package schedule

import (
	"strconv"
	"strings"
	"time"
)

// Day is one weekday entry of a place's weekly schedule. Open and Close
// hold wall-clock times as "HH:MM"; Closed marks the whole day off.
type Day struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed,omitempty"`
}

// Weekly is a place's full schedule, one entry per weekday. A missing
// entry counts as closed for that day.
type Weekly struct {
	Monday    Day `json:"monday"`
	Tuesday   Day `json:"tuesday"`
	Wednesday Day `json:"wednesday"`
	Thursday  Day `json:"thursday"`
	Friday    Day `json:"friday"`
	Saturday  Day `json:"saturday"`
	Sunday    Day `json:"sunday"`
}

func (w Weekly) day(d time.Weekday) Day {
	switch d {
	case time.Monday:
		return w.Monday
	case time.Tuesday:
		return w.Tuesday
	case time.Wednesday:
		return w.Wednesday
	case time.Thursday:
		return w.Thursday
	case time.Friday:
		return w.Friday
	case time.Saturday:
		return w.Saturday
	default:
		return w.Sunday
	}
}

// IsOpenAt reports whether the place is open at the given moment. The
// entry for now's weekday is evaluated against now's wall-clock time. A
// close time numerically earlier than the open time means the window
// spans midnight (open today through close time the next day).
func (w Weekly) IsOpenAt(now time.Time) bool {
	return w.day(now.Weekday()).isOpenAtMinute(now.Hour()*60 + now.Minute())
}

func (d Day) isOpenAtMinute(m int) bool {
	if d.Closed {
		return false
	}

	open, ok := parseMinutes(d.Open)
	if !ok {
		return false
	}
	close, ok := parseMinutes(d.Close)
	if !ok {
		return false
	}

	if close < open {
		// Spans midnight, e.g. 18:00-02:00.
		return m >= open || m < close
	}
	return m >= open && m < close
}

// parseMinutes converts "HH:MM" to minutes since midnight.
func parseMinutes(s string) (int, bool) {
	hh, mm, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found {
		return 0, false
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}

	return h*60 + m, true
}
