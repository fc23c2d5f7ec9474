package timeutil

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the layout of day keys ("2024-01-15").
const DateLayout = "2006-01-02"

var (
	isoPartialRe    = regexp.MustCompile(`^\d{4}-\d{1,2}$`)
	yearOnlyRe      = regexp.MustCompile(`^\d{4}$`)
	isoPartialDayRe = regexp.MustCompile(`^\d{1,2}-\d{1,2}$`)
	euroPartialRe   = regexp.MustCompile(`^\d{1,2}/\d{1,2}$`)
	tooManyPartsRe  = regexp.MustCompile(`^\d+[-/]\d+[-/]\d+[-/]`)
)

// StartOfDay returns midnight of the given day in the same timezone.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as a day key.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a day in YYYY-MM-DD or DD/MM/YYYY format, or one of the
// words "today", "yesterday" and "tomorrow" relative to now.
// The result is midnight in the local timezone.
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)")
	}

	switch strings.ToLower(input) {
	case "today":
		return StartOfDay(now), nil
	case "yesterday":
		return StartOfDay(now).AddDate(0, 0, -1), nil
	case "tomorrow":
		return StartOfDay(now).AddDate(0, 0, 1), nil
	}

	// ISO first so that ambiguous input prefers it
	if t, err := time.ParseInLocation(DateLayout, input, time.Local); err == nil {
		return StartOfDay(t), nil
	}
	if t, err := time.ParseInLocation("02/01/2006", input, time.Local); err == nil {
		return StartOfDay(t), nil
	}

	return time.Time{}, buildDateParseError(input)
}

// NormalizeDate parses input with ParseDate and returns it as a day key.
func NormalizeDate(input string, now time.Time) (string, error) {
	t, err := ParseDate(input, now)
	if err != nil {
		return "", err
	}
	return FormatDate(t), nil
}

// ShiftDate moves a day key by the given number of days.
func ShiftDate(date string, days int) (string, error) {
	t, err := time.ParseInLocation(DateLayout, date, time.Local)
	if err != nil {
		return "", buildDateParseError(date)
	}
	return FormatDate(t.AddDate(0, 0, days)), nil
}

// IsToday reports whether the day key names the same calendar day as now.
func IsToday(date string, now time.Time) bool {
	return date == FormatDate(now)
}

// buildDateParseError creates a helpful error message based on the input pattern
func buildDateParseError(input string) error {
	switch {
	case yearOnlyRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing month and day (use format YYYY-MM-DD, e.g., %s-01-15)", input, input)
	case isoPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing day (use format YYYY-MM-DD, e.g., %s-15)", input, input)
	case isoPartialDayRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-%s)", input, input)
	case euroPartialRe.MatchString(input):
		return fmt.Errorf("incomplete date '%s': missing year (use format DD/MM/YYYY, e.g., %s/2024)", input, input)
	case tooManyPartsRe.MatchString(input):
		return fmt.Errorf("invalid date '%s': too many date parts (use format YYYY-MM-DD or DD/MM/YYYY)", input)
	default:
		return fmt.Errorf("invalid date format '%s' (use YYYY-MM-DD or DD/MM/YYYY, e.g., 2024-01-15 or 15/01/2024)", input)
	}
}
