package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tsheet/internal/clock"
	"github.com/xolan/tsheet/internal/config"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/logging"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/tui/ui"
)

func setupTestServices(t *testing.T) *service.Services {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(tmpDir, "data")
	cfg.ExportDir = filepath.Join(tmpDir, "exports")

	services, err := service.NewServicesWithConfig(cfg, filepath.Join(tmpDir, "config.toml"), service.Options{
		Clock:  clock.NewFake(time.Date(2024, 3, 5, 9, 2, 0, 0, time.Local)),
		Logger: logging.Discard(),
	})
	if err != nil {
		t.Fatalf("NewServicesWithConfig() error = %v", err)
	}
	t.Cleanup(func() { _ = services.Close() })
	return services
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out, cmd
}

func TestNew(t *testing.T) {
	services := setupTestServices(t)
	model := New(services, Options{})

	if model.activeTab != TabDay {
		t.Errorf("expected initial tab to be Day, got %d", model.activeTab)
	}
	if model.services == nil {
		t.Error("expected services to be set")
	}
	if model.showHelp {
		t.Error("expected showHelp to be false initially")
	}
	if got := model.dayView.Date(); got != "2024-03-05" {
		t.Errorf("day view date = %q, expected today", got)
	}
}

func TestNew_Date(t *testing.T) {
	services := setupTestServices(t)
	model := New(services, Options{Date: "2024-01-02"})

	if got := model.dayView.Date(); got != "2024-01-02" {
		t.Errorf("day view date = %q, expected %q", got, "2024-01-02")
	}
}

func TestInit(t *testing.T) {
	services := setupTestServices(t)
	model := New(services, Options{})

	if cmd := model.Init(); cmd == nil {
		t.Error("expected Init to return a command")
	}
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	services := setupTestServices(t)
	m, _ := update(t, New(services, Options{}), tea.WindowSizeMsg{Width: 100, Height: 50})

	if m.width != 100 {
		t.Errorf("expected width 100, got %d", m.width)
	}
	if m.height != 50 {
		t.Errorf("expected height 50, got %d", m.height)
	}
}

func TestUpdate_QuitFlushesPendingResort(t *testing.T) {
	services := setupTestServices(t)
	m := New(services, Options{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if !m.dayView.Editor().Pending() {
		t.Fatal("expected a pending resort")
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.dayView.Editor().Pending() {
		t.Error("quit should flush the pending resort")
	}
}

func TestUpdate_QuitIgnoredWhileTyping(t *testing.T) {
	services := setupTestServices(t)
	m := New(services, Options{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !m.isCapturingKeys() {
		t.Error("comment input should still be open")
	}
	e, _ := m.dayView.Editor().Get(m.dayView.Editor().Focused().EntryID)
	if e.Comment != "q" {
		t.Errorf("Comment = %q, expected the typed key", e.Comment)
	}
}

func TestUpdate_HelpKey(t *testing.T) {
	services := setupTestServices(t)
	m := New(services, Options{})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if !m.showHelp {
		t.Error("expected showHelp to be true after pressing ?")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	if m.showHelp {
		t.Error("expected showHelp to be false after pressing ? again")
	}
}

func TestUpdate_TabNavigation(t *testing.T) {
	services := setupTestServices(t)
	m := New(services, Options{})

	expected := []Tab{TabSummary, TabProjects, TabSettings, TabDay}
	for _, tab := range expected {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
		if m.activeTab != tab {
			t.Errorf("expected tab %d, got %d", tab, m.activeTab)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeTab != TabSettings {
		t.Errorf("expected wraparound to Settings, got %d", m.activeTab)
	}
}

func TestUpdate_DirectTabKeys(t *testing.T) {
	services := setupTestServices(t)
	m := New(services, Options{})

	tests := []struct {
		key      tea.KeyType
		expected Tab
	}{
		{tea.KeyF2, TabSummary},
		{tea.KeyF3, TabProjects},
		{tea.KeyF4, TabSettings},
		{tea.KeyF1, TabDay},
	}

	for _, tt := range tests {
		m, _ = update(t, m, tea.KeyMsg{Type: tt.key})
		if m.activeTab != tt.expected {
			t.Errorf("key %v: expected tab %d, got %d", tt.key, tt.expected, m.activeTab)
		}
	}
}

func TestUpdate_DeferredMsgRunsOnLoop(t *testing.T) {
	services := setupTestServices(t)
	m := New(services, Options{})

	ran := false
	m, _ = update(t, m, ui.DeferredMsg{Fn: func() { ran = true }})
	if !ran {
		t.Error("DeferredMsg should run its function")
	}
}

func TestUpdate_DispatcherDeliversResort(t *testing.T) {
	services := setupTestServices(t)
	fake := services.Clock.(*clock.Fake)

	var sent []tea.Msg
	d := &ui.Dispatcher{}
	d.Bind(func(msg tea.Msg) { sent = append(sent, msg) })

	m := New(services, Options{Dispatcher: d})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})

	fake.Advance(services.Config.Get().DebounceDelay())
	if len(sent) != 1 {
		t.Fatalf("expected 1 deferred message, got %d", len(sent))
	}
	if !m.dayView.Editor().Pending() {
		t.Error("resort should wait for the event loop")
	}

	m, _ = update(t, m, sent[0])
	if m.dayView.Editor().Pending() {
		t.Error("resort should have run on the event loop")
	}
}

func TestUpdate_DayChangedRewaits(t *testing.T) {
	services := setupTestServices(t)
	changes := make(chan string, 1)
	m := New(services, Options{Changes: changes})

	rec := entry.DayRecord{Entries: []entry.Entry{entry.New("Remote", "", "08:00")}}
	if err := services.Repo.SaveDay("2024-03-05", rec); err != nil {
		t.Fatal(err)
	}

	m, cmd := update(t, m, ui.DayChangedMsg{Date: "2024-03-05"})
	if cmd == nil {
		t.Fatal("expected a command waiting for the next change")
	}
	if entries := m.dayView.Editor().Entries(); len(entries) != 1 || entries[0].Project != "Remote" {
		t.Errorf("entries = %+v, expected reloaded record", entries)
	}

	changes <- "2024-03-06"
	if got := m.waitForChange()(); got != (ui.DayChangedMsg{Date: "2024-03-06"}) {
		t.Errorf("waitForChange() = %#v", got)
	}

	close(changes)
	if got := m.waitForChange()(); got != nil {
		t.Errorf("closed channel should yield nil, got %#v", got)
	}
}

func TestWaitForChange_NoChannel(t *testing.T) {
	services := setupTestServices(t)
	if cmd := New(services, Options{}).waitForChange(); cmd != nil {
		t.Error("expected nil command without a change channel")
	}
}

func TestUpdate_StatusMsg(t *testing.T) {
	services := setupTestServices(t)
	m, _ := update(t, New(services, Options{}), tea.WindowSizeMsg{Width: 100, Height: 40})

	m, _ = update(t, m, ui.StatusMsg{Err: errors.New("disk full")})
	if !strings.Contains(m.View(), "disk full") {
		t.Error("view should show the status error")
	}
}

func TestUpdate_ThemeChangeSavesConfig(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	services := setupTestServices(t)
	m := New(services, Options{})

	theme := m.themeProvider.Themes()[0]
	m, cmd := update(t, m, ui.ThemeChangeRequestMsg{ThemeName: theme})
	if cmd == nil {
		t.Fatal("expected a save command")
	}
	if msg := cmd(); msg != nil {
		t.Fatalf("save returned %#v", msg)
	}
	if got := services.Config.Get().Theme; got != m.themeProvider.CurrentName() {
		t.Errorf("saved theme = %q, expected %q", got, m.themeProvider.CurrentName())
	}
	if !services.Config.Exists() {
		t.Error("config file should be written")
	}
}

func TestView_Loading(t *testing.T) {
	services := setupTestServices(t)
	if view := New(services, Options{}).View(); view != "Loading..." {
		t.Errorf("expected Loading..., got %q", view)
	}
}

func TestView_AllTabs(t *testing.T) {
	services := setupTestServices(t)
	m, _ := update(t, New(services, Options{}), tea.WindowSizeMsg{Width: 120, Height: 40})

	for i, name := range tabNames {
		m.activeTab = Tab(i)
		view := m.View()
		if !strings.Contains(view, name) {
			t.Errorf("tab %s: tab bar missing", name)
		}
		if !strings.Contains(view, "quit") {
			t.Errorf("tab %s: status bar missing", name)
		}
	}
}

func TestView_Help(t *testing.T) {
	services := setupTestServices(t)
	m, _ := update(t, New(services, Options{}), tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

	view := m.View()
	for _, want := range []string{"Keyboard Shortcuts", "Quick project", "Nudge"} {
		if !strings.Contains(view, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestRenderKeyHelp(t *testing.T) {
	services := setupTestServices(t)
	result := New(services, Options{}).renderKeyHelp("q", "quit")

	if !strings.Contains(result, "q") || !strings.Contains(result, "quit") {
		t.Errorf("renderKeyHelp() = %q", result)
	}
}

func TestTabNames(t *testing.T) {
	expected := []string{"Day", "Summary", "Projects", "Settings"}
	if len(tabNames) != len(expected) {
		t.Fatalf("expected %d tab names, got %d", len(expected), len(tabNames))
	}
	for i, name := range expected {
		if tabNames[i] != name {
			t.Errorf("tabNames[%d] = %q, expected %q", i, tabNames[i], name)
		}
	}
}
