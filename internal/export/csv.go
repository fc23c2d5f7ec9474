// Package export writes timesheets as semicolon-separated CSV.
//
// Each export has one row per non-pause entry, a blank line, then one total
// per project. Pause entries are kept while computing end times so that a
// pause closes the entry before it.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/timeutil"
)

// Separator is the CSV field delimiter.
const Separator = ';'

var (
	entryHeader   = []string{"Date", "Project", "Comment", "Start", "End"}
	summaryHeader = []string{"Project", "Total minutes", "Total HH:MM"}
)

// Row is one exported entry.
type Row struct {
	Date    string
	Project string
	Comment string
	Start   string
	End     string
}

// Day is the content of one stored day.
type Day struct {
	Date    string
	Entries []entry.Entry
}

// DayFileName returns the default file name of a day export.
func DayFileName(date string) string {
	return fmt.Sprintf("timesheet_%s.csv", date)
}

// YearFileName returns the default file name of a year export.
func YearFileName(year int) string {
	return fmt.Sprintf("timesheet_%d.csv", year)
}

// Rows returns the export rows of one day. Entries are taken in ascending
// start order with unscheduled entries last; the end of a row is the start
// of the entry right after it in that order, pauses included, when valid.
func Rows(date string, entries []entry.Entry) []Row {
	sorted := sheet.SortByStartAscending(entries)

	rows := make([]Row, 0, len(sorted))
	for i, e := range sorted {
		if e.IsPause() {
			continue
		}
		rows = append(rows, Row{
			Date:    date,
			Project: e.Project,
			Comment: e.Comment,
			Start:   e.Start,
			End:     sheet.NextStart(sorted, i),
		})
	}
	return rows
}

// WriteDay writes the export of a single day. Project totals use the same
// durations as the day view.
func WriteDay(w io.Writer, date string, entries []entry.Entry, cmp sheet.CompareFunc) error {
	return write(w, Rows(date, entries), sheet.GroupByProject(entries, cmp))
}

// WriteYear writes the export of several days in date order.
func WriteYear(w io.Writer, days []Day, cmp sheet.CompareFunc) error {
	var rows []Row
	for _, d := range sortDays(days) {
		rows = append(rows, Rows(d.Date, d.Entries)...)
	}
	return write(w, rows, YearTotals(days, cmp))
}

// YearTotals sums, per project and entry, the gap to the next valid start
// of the same day. Pauses are skipped.
func YearTotals(days []Day, cmp sheet.CompareFunc) []sheet.ProjectTotal {
	acc := make(map[string]int)
	for _, d := range days {
		sorted := sheet.SortByStartAscending(d.Entries)
		for i, e := range sorted {
			if e.IsPause() {
				continue
			}
			acc[sheet.ProjectLabel(e.Project)] += sheet.MinutesToNextValid(sorted, i)
		}
	}
	return sheet.SumByProject(acc, cmp)
}

func write(w io.Writer, rows []Row, totals []sheet.ProjectTotal) error {
	cw := csv.NewWriter(w)
	cw.Comma = Separator

	records := [][]string{entryHeader}
	for _, r := range rows {
		records = append(records, []string{r.Date, r.Project, r.Comment, r.Start, r.End})
	}
	records = append(records, []string{}, summaryHeader)
	for _, t := range totals {
		records = append(records, []string{t.Project, strconv.Itoa(t.Minutes), timeutil.FormatMinutes(t.Minutes)})
	}

	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func sortDays(days []Day) []Day {
	out := slices.Clone(days)
	slices.SortStableFunc(out, func(a, b Day) int { return strings.Compare(a.Date, b.Date) })
	return out
}
