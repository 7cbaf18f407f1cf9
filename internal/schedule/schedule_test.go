package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-06-03 is a Tuesday.
func tuesdayAt(hour, min int) time.Time {
	return time.Date(2025, time.June, 3, hour, min, 0, 0, time.UTC)
}

func TestIsOpenAt_Boundaries(t *testing.T) {
	w := Weekly{
		Tuesday: Day{Open: "08:00", Close: "13:00"},
	}

	assert.False(t, w.IsOpenAt(tuesdayAt(7, 59)))
	assert.True(t, w.IsOpenAt(tuesdayAt(8, 0)))
	assert.True(t, w.IsOpenAt(tuesdayAt(12, 59)))
	assert.False(t, w.IsOpenAt(tuesdayAt(13, 0)))
}

func TestIsOpenAt_SpansMidnight(t *testing.T) {
	w := Weekly{
		Tuesday: Day{Open: "18:00", Close: "02:00"},
	}

	assert.True(t, w.IsOpenAt(tuesdayAt(23, 0)))
	assert.True(t, w.IsOpenAt(tuesdayAt(1, 0)))
	assert.False(t, w.IsOpenAt(tuesdayAt(10, 0)))
}

func TestIsOpenAt_ClosedFlagWins(t *testing.T) {
	w := Weekly{
		Tuesday: Day{Open: "08:00", Close: "20:00", Closed: true},
	}

	assert.False(t, w.IsOpenAt(tuesdayAt(12, 0)))
}

func TestIsOpenAt_MissingEntry(t *testing.T) {
	var w Weekly

	assert.False(t, w.IsOpenAt(tuesdayAt(12, 0)))
}

func TestIsOpenAt_OtherWeekdayEntryIgnored(t *testing.T) {
	w := Weekly{
		Monday: Day{Open: "00:00", Close: "23:59"},
	}

	assert.False(t, w.IsOpenAt(tuesdayAt(12, 0)))
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"08:00", 480, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{" 13:30 ", 810, true},
		{"", 0, false},
		{"8", 0, false},
		{"24:00", 0, false},
		{"12:60", 0, false},
		{"ab:cd", 0, false},
	}

	for _, tc := range tests {
		got, ok := parseMinutes(tc.in)
		assert.Equal(t, tc.ok, ok, "input %q", tc.in)
		if tc.ok {
			assert.Equal(t, tc.want, got, "input %q", tc.in)
		}
	}
}
