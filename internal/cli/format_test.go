package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/storage"
)

func init() {
	color.NoColor = true
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{1, "1m"},
		{30, "30m"},
		{59, "59m"},
		{60, "1h"},
		{90, "1h 30m"},
		{120, "2h"},
		{150, "2h 30m"},
		{600, "10h"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			result := FormatDuration(tt.minutes)
			if result != tt.want {
				t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, result, tt.want)
			}
		})
	}
}

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry entry.Entry
		want  string
	}{
		{"project and comment", entry.Entry{Project: "Acme", Comment: "fix login", Start: "09:30"}, "09:30 Acme: fix login"},
		{"no comment", entry.Entry{Project: "Acme", Start: "09:30"}, "09:30 Acme"},
		{"no project", entry.Entry{Comment: "call"}, "--:-- No project: call"},
		{"pause hides its comment", entry.Entry{Project: "Pause", Comment: "Pause", Start: "12:00"}, "12:00 Pause"},
		{"invalid start", entry.Entry{Project: "Acme", Start: "25:00"}, "--:-- Acme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatEntry(tt.entry); got != tt.want {
				t.Errorf("FormatEntry() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDayHeading(t *testing.T) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.Local)

	tests := []struct {
		date string
		want string
	}{
		{"2024-03-05", "Tuesday, March 5th 2024 (today)"},
		{"2024-03-04", "Monday, March 4th 2024 (yesterday)"},
		{"2024-03-06", "Wednesday, March 6th 2024 (tomorrow)"},
		{"2024-03-01", "Friday, March 1st 2024"},
		{"not-a-date", "not-a-date"},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := DayHeading(tt.date, now); got != tt.want {
				t.Errorf("DayHeading(%q) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestPluralize(t *testing.T) {
	tests := []struct {
		word  string
		count int
		want  string
	}{
		{"entry", 1, "entry"},
		{"entry", 2, "entries"},
		{"day", 0, "days"},
		{"comment", 3, "comments"},
	}

	for _, tt := range tests {
		if got := Pluralize(tt.word, tt.count); got != tt.want {
			t.Errorf("Pluralize(%q, %d) = %q, want %q", tt.word, tt.count, got, tt.want)
		}
	}
}

func TestFormatCorruptionWarning(t *testing.T) {
	got := FormatCorruptionWarning(storage.ParseWarning{Key: "tsheet/2024-03-05", Error: "unexpected end of JSON input"})
	want := "  tsheet/2024-03-05 (error: unexpected end of JSON input)"
	if got != want {
		t.Errorf("FormatCorruptionWarning() = %q, want %q", got, want)
	}

	long := FormatCorruptionWarning(storage.ParseWarning{Key: "k", Error: strings.Repeat("x", 200)})
	if !strings.HasSuffix(long, "...)") {
		t.Errorf("long error should be truncated, got %q", long)
	}
}

func TestPrinterDay(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	snap := sheet.Snapshot{Rows: []sheet.Row{
		{Entry: entry.Entry{Project: "Acme", Comment: strings.Repeat("long ", 20), Start: "13:00"}},
		{Entry: entry.Entry{Project: "Pause", Comment: "Pause", Start: "12:00"}, Minutes: 60, Pause: true},
		{Entry: entry.Entry{Comment: "standup", Start: "09:00"}, Minutes: 180},
	}}
	p.Day(snap)

	out := buf.String()
	for _, want := range []string{"START", "13:00", "12:00", "01:00", "03:00", "No project", "standup", "…"} {
		if !strings.Contains(out, want) {
			t.Errorf("Day() output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 4 {
		t.Errorf("Day() printed %d lines, want 4", lines)
	}
}

func TestPrinterDayMatching(t *testing.T) {
	var buf bytes.Buffer
	snap := sheet.Snapshot{Rows: []sheet.Row{
		{Entry: entry.Entry{Project: "Beta", Comment: "deploy", Start: "13:00"}},
		{Entry: entry.Entry{Project: "Acme", Comment: "review", Start: "09:00"}, Minutes: 240},
	}}

	n := NewPrinter(&buf).DayMatching(snap, func(e entry.Entry) bool { return e.Project == "Acme" })
	if n != 1 {
		t.Errorf("DayMatching() = %d, expected 1", n)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[1], "2") || strings.Contains(buf.String(), "Beta") {
		t.Errorf("matching row should keep its day position, got %q", lines[1])
	}
}

func TestPrinterTotals(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).Totals([]sheet.ProjectTotal{
		{Project: "Acme", Minutes: 90},
		{Project: "Beta", Minutes: 30},
	}, 120)

	out := buf.String()
	for _, want := range []string{"Acme", "01:30", "1h 30m", "Beta", "Total: 02:00 (2h)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Totals() output missing %q:\n%s", want, out)
		}
	}
}

func TestPrinterTitleAndNone(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.Title("Summary")
	p.None("no entries")

	if got := buf.String(); got != "Summary\n  no entries\n" {
		t.Errorf("output = %q", got)
	}
}
