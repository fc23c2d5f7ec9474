package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// MinutesPerDay is the number of minutes in a wall-clock day.
const MinutesPerDay = 24 * 60

var hhmmRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// ParseTime converts an "H:MM" or "HH:MM" string to minutes since midnight.
// The second return value is false for anything that is not a valid wall-clock
// time (hours 0-23, minutes 0-59). Invalid input is a normal branch, not an error.
func ParseTime(s string) (int, bool) {
	m := hhmmRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h > 23 || mm > 59 {
		return 0, false
	}
	return h*60 + mm, true
}

// Wrap normalizes any minute count into [0, MinutesPerDay).
func Wrap(minutes int) int {
	return ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
}

// FormatTime renders minutes since midnight as zero-padded HH:MM.
// Values outside a day wrap around midnight in both directions.
func FormatTime(minutes int) string {
	m := Wrap(minutes)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// DurationBetween returns the minutes from start to end, wrapping past midnight
// when end is earlier than start.
func DurationBetween(start, end int) int {
	if end >= start {
		return end - start
	}
	return (MinutesPerDay - start) + end
}

// FormatMinutes renders a duration as HH:MM without wrapping at 24 hours.
// Negative durations render as 00:00.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NowHHMM returns the wall-clock time of t as HH:MM.
func NowHHMM(t time.Time) string {
	return FormatTime(t.Hour()*60 + t.Minute())
}

// SnapUp returns the next multiple of step strictly after m.
// A value already on a boundary moves a full step.
func SnapUp(m, step int) int {
	return (floorDiv(m, step) + 1) * step
}

// SnapDown returns the previous multiple of step strictly before m.
// A value already on a boundary moves a full step.
func SnapDown(m, step int) int {
	if r := m - floorDiv(m, step)*step; r != 0 {
		return m - r
	}
	return m - step
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// QuarterTimes lists the HH:MM values from "from" to "to" inclusive, every
// step minutes. It is used to fill the start-time picker.
func QuarterTimes(from, to, step int) []string {
	if step <= 0 || to < from {
		return nil
	}
	out := make([]string, 0, (to-from)/step+1)
	for m := from; m <= to; m += step {
		out = append(out, FormatTime(m))
	}
	return out
}
