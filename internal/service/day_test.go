package service

import (
	"errors"
	"testing"
	"time"

	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/storage"
)

func TestOpenDay_AddAndReload(t *testing.T) {
	for _, backend := range storage.Backends() {
		t.Run(backend, func(t *testing.T) {
			svc, _ := newTestServices(t, backend)

			ed := svc.OpenDay("", OpenOptions{})
			if ed.Date() != "2024-03-05" {
				t.Fatalf("Date() = %q, expected today", ed.Date())
			}
			acme := ed.AddEntry(sheet.Prefill{Start: "09:00"})
			if err := ed.CommitProject(acme, " Acme "); err != nil {
				t.Fatal(err)
			}
			ed.AddEntry(sheet.Prefill{Project: "Beta", Start: "10:30"})
			ed.Flush()

			got := svc.Entries("2024-03-05")
			if len(got) != 2 {
				t.Fatalf("stored %d entries, expected 2", len(got))
			}
			if got[0].Start != "10:30" || got[1].Start != "09:00" {
				t.Errorf("order = [%s %s], expected [10:30 09:00]", got[0].Start, got[1].Start)
			}
			if !svc.Projects.Contains("Acme") {
				t.Errorf("projects = %v, expected Acme registered", svc.Projects.List())
			}
		})
	}
}

func TestOpenDay_FlushOnly(t *testing.T) {
	svc, clk := newTestServices(t, storage.BackendDiskv)

	var renders int
	ed := svc.OpenDay("2024-03-05", OpenOptions{
		Renderer:  sheet.RenderFunc(func(sheet.Snapshot) { renders++ }),
		FlushOnly: true,
	})
	id := ed.AddEntry(sheet.Prefill{Start: "09:00"})
	if err := ed.AdjustStart(id, 1); err != nil {
		t.Fatal(err)
	}

	before := renders
	clk.Advance(time.Minute)
	if !ed.Pending() {
		t.Fatal("the timer must not run the resort when FlushOnly is set")
	}
	if renders != before {
		t.Errorf("renders = %d, expected %d before Flush", renders, before)
	}

	if !ed.Flush() {
		t.Error("Flush() = false, expected the held resort to run")
	}
	if ed.Pending() {
		t.Error("resort still pending after Flush")
	}
}

func TestOpenDay_UsesConfiguredDelay(t *testing.T) {
	svc, clk := newTestServices(t, storage.BackendDiskv)
	cfg := svc.Config.Get()
	cfg.DebounceMS = 100
	svc.Config = NewConfigService("", cfg)

	var renders int
	ed := svc.OpenDay("2024-03-05", OpenOptions{
		Renderer: sheet.RenderFunc(func(sheet.Snapshot) { renders++ }),
	})
	id := ed.AddEntry(sheet.Prefill{Start: "09:00"})
	if err := ed.AdjustStart(id, 1); err != nil {
		t.Fatal(err)
	}
	if !ed.Pending() {
		t.Fatal("expected a pending resort after a nudge")
	}

	before := renders
	clk.Advance(100 * time.Millisecond)
	if ed.Pending() {
		t.Error("resort should have run after the configured delay")
	}
	if renders != before+1 {
		t.Errorf("renders = %d, expected %d", renders, before+1)
	}
}

func TestOpenDay_Placeholder(t *testing.T) {
	svc, _ := newTestServices(t, storage.BackendDiskv)

	ed := svc.OpenDay("2024-03-04", OpenOptions{Placeholder: true})
	if n := len(ed.Entries()); n != 1 {
		t.Errorf("entries = %d, expected a placeholder row", n)
	}

	ro := svc.OpenDay("2024-03-03", OpenOptions{})
	if n := len(ro.Entries()); n != 0 {
		t.Errorf("entries = %d, expected none without placeholder", n)
	}
}

func TestResolveDate(t *testing.T) {
	svc, _ := newTestServices(t, storage.BackendDiskv)

	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"", "2024-03-05", false},
		{"today", "2024-03-05", false},
		{"yesterday", "2024-03-04", false},
		{"2024-01-15", "2024-01-15", false},
		{"15/01/2024", "2024-01-15", false},
		{"2024-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := svc.ResolveDate(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ResolveDate(%q) = %q, expected %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestEntryAt(t *testing.T) {
	svc, _ := newTestServices(t, storage.BackendDiskv)
	if err := svc.Repo.SaveDay("2024-03-05", entry.DayRecord{Entries: []entry.Entry{
		{ID: "a", Start: "09:00"},
		{ID: "b", Start: "11:00"},
	}}); err != nil {
		t.Fatal(err)
	}
	ed := svc.OpenDay("2024-03-05", OpenOptions{})

	tests := []struct {
		n        int
		expected string
		err      error
	}{
		{1, "b", nil},
		{2, "a", nil},
		{0, "", ErrInvalidIndex},
		{3, "", ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		got, err := EntryAt(ed, tt.n)
		if !errors.Is(err, tt.err) {
			t.Errorf("EntryAt(%d) error = %v, expected %v", tt.n, err, tt.err)
		}
		if got != tt.expected {
			t.Errorf("EntryAt(%d) = %q, expected %q", tt.n, got, tt.expected)
		}
	}

	empty := svc.OpenDay("2024-03-01", OpenOptions{})
	if _, err := EntryAt(empty, 1); !errors.Is(err, ErrNoEntries) {
		t.Errorf("EntryAt on empty day error = %v, expected ErrNoEntries", err)
	}
}
