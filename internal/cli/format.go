// Package cli provides the CLI presentation layer for the tsheet application.
// It renders days, summaries and storage reports as terminal tables.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/truncate"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/storage"
	"github.com/xolan/tsheet/internal/timeutil"
)

// CommentWidth is the widest comment shown in a day table.
const CommentWidth = 48

// FormatDuration formats minutes as a human-readable string
// Examples: "30m", "2h", "1h 30m"
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// FormatStart returns the start column of an entry, "--:--" when unscheduled.
func FormatStart(e entry.Entry) string {
	if !e.HasValidStart() {
		return "--:--"
	}
	return e.Start
}

// FormatEntry formats an entry for one-line messages.
// Returns format like: "09:30 Acme: fix login" or "--:-- No project"
func FormatEntry(e entry.Entry) string {
	s := FormatStart(e) + " " + sheet.ProjectLabel(e.Project)
	if c := strings.TrimSpace(e.Comment); c != "" && !e.IsPause() {
		s += ": " + c
	}
	return s
}

// DayHeading formats a day key for titles, e.g. "Tuesday, March 5th 2024 (today)".
// Keys that do not parse are returned unchanged.
func DayHeading(date string, now time.Time) string {
	t, err := time.ParseInLocation(timeutil.DateLayout, date, time.Local)
	if err != nil {
		return date
	}
	heading := fmt.Sprintf("%s, %s %s %d", t.Weekday(), t.Month(), humanize.Ordinal(t.Day()), t.Year())

	today := timeutil.FormatDate(now)
	switch date {
	case today:
		heading += " (today)"
	case shift(today, -1):
		heading += " (yesterday)"
	case shift(today, 1):
		heading += " (tomorrow)"
	}
	return heading
}

func shift(date string, days int) string {
	s, _ := timeutil.ShiftDate(date, days)
	return s
}

// Pluralize returns the singular or plural form of a word based on count
func Pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	if n := len(word); n > 1 && word[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(word[n-2])) {
		return word[:n-1] + "ies"
	}
	return word + "s"
}

// FormatCorruptionWarning formats a ParseWarning into a human-readable string
func FormatCorruptionWarning(warning storage.ParseWarning) string {
	return fmt.Sprintf("  %s (error: %s)", warning.Key, truncate.StringWithTail(warning.Error, 80, "..."))
}

// Printer writes styled CLI output. Colours follow fatih/color, which turns
// them off when the output is not a terminal or NO_COLOR is set.
type Printer struct {
	Out io.Writer
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{Out: out}
}

// Title prints a bold, underlined heading.
func (p *Printer) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(p.Out, title)
}

// None prints a faint placeholder line for an empty listing.
func (p *Printer) None(msg string) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintln(p.Out, "  "+msg)
}

// Day prints the rows of a snapshot as a numbered table. Pause rows are faint.
func (p *Printer) Day(snap sheet.Snapshot) {
	p.DayMatching(snap, nil)
}

// DayMatching is Day restricted to the rows whose entry satisfies keep.
// Rows keep their position in the full day as their number. It returns the
// number of rows printed.
func (p *Printer) DayMatching(snap sheet.Snapshot, keep func(entry.Entry) bool) int {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("#", "START", "TIME", "PROJECT", "COMMENT")

	faint := color.New(color.Faint)
	n := 0
	for i, r := range snap.Rows {
		if keep != nil && !keep(r.Entry) {
			continue
		}
		n++
		cells := []string{
			strconv.Itoa(i + 1),
			FormatStart(r.Entry),
			timeutil.FormatMinutes(r.Minutes),
			sheet.ProjectLabel(r.Entry.Project),
			truncate.StringWithTail(r.Entry.Comment, CommentWidth, "…"),
		}
		if r.Pause {
			for j := range cells {
				cells[j] = faint.Sprint(cells[j])
			}
		}
		tbl.AddRow(toAny(cells)...)
	}
	_, _ = fmt.Fprintln(p.Out, tbl)
	return n
}

// Totals prints per-project totals followed by the overall total.
func (p *Printer) Totals(totals []sheet.ProjectTotal, total int) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("PROJECT", "TIME", "")
	for _, t := range totals {
		tbl.AddRow(t.Project, timeutil.FormatMinutes(t.Minutes), FormatDuration(t.Minutes))
	}
	_, _ = fmt.Fprintln(p.Out, tbl)

	b := color.New(color.Bold)
	_, _ = b.Fprintf(p.Out, "Total: %s (%s)\n", timeutil.FormatMinutes(total), FormatDuration(total))
}

func toAny(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
