// Package tui provides the Terminal User Interface for the tsheet application.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xolan/tsheet/internal/config"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/storage"
	"github.com/xolan/tsheet/internal/tui/ui"
	"github.com/xolan/tsheet/internal/tui/views"
)

// Tab represents a view tab
type Tab int

const (
	TabDay Tab = iota
	TabSummary
	TabProjects
	TabSettings
)

var tabNames = []string{"Day", "Summary", "Projects", "Settings"}

// Options configures a Model.
type Options struct {
	// Date is the day opened first. Empty means today.
	Date string
	// Dispatcher delivers deferred editor work to the event loop. Nil runs
	// it on the timer goroutine.
	Dispatcher *ui.Dispatcher
	// Changes streams dates written by other processes.
	Changes <-chan string
}

// Model is the root TUI model
type Model struct {
	// Services
	services *service.Services
	changes  <-chan string

	// UI state
	activeTab Tab
	width     int
	height    int
	showHelp  bool
	status    ui.StatusMsg

	// View models
	dayView      views.DayModel
	summaryView  views.SummaryModel
	projectsView views.ProjectsModel
	settingsView views.SettingsModel

	// Theme and styles
	themeProvider *ui.ThemeProvider
	styles        ui.Styles
	keys          ui.KeyMap
}

// New creates a new TUI model
func New(services *service.Services, opts Options) Model {
	themeProvider := ui.NewThemeProvider(services.Config.Get().Theme)
	styles := themeProvider.Styles()
	keys := ui.DefaultKeyMap()

	var dispatch func(func())
	if opts.Dispatcher != nil {
		dispatch = opts.Dispatcher.Dispatch
	}

	day := views.NewDayModel(services, opts.Date, dispatch, styles, keys)
	return Model{
		services:      services,
		changes:       opts.Changes,
		activeTab:     TabDay,
		themeProvider: themeProvider,
		styles:        styles,
		keys:          keys,
		dayView:       day,
		summaryView:   views.NewSummaryModel(services, day.Date(), styles, keys),
		projectsView:  views.NewProjectsModel(services, styles, keys),
		settingsView:  views.NewSettingsModel(services, themeProvider, styles, keys),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dayView.Init(),
		m.settingsView.Init(),
		m.waitForChange(),
	)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		capturingKeys := m.isCapturingKeys()

		switch {
		case msg.Type == tea.KeyCtrlC:
			return m.quit()

		case key.Matches(msg, m.keys.Quit) && !capturingKeys:
			return m.quit()

		case key.Matches(msg, m.keys.Help) && !capturingKeys:
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, m.keys.NextTab) && !capturingKeys:
			return m.switchTab(Tab((int(m.activeTab) + 1) % len(tabNames)))

		case key.Matches(msg, m.keys.PrevTab) && !capturingKeys:
			return m.switchTab(Tab((int(m.activeTab) - 1 + len(tabNames)) % len(tabNames)))

		case key.Matches(msg, m.keys.TabDay) && !capturingKeys:
			return m.switchTab(TabDay)
		case key.Matches(msg, m.keys.TabSummary) && !capturingKeys:
			return m.switchTab(TabSummary)
		case key.Matches(msg, m.keys.TabProjects) && !capturingKeys:
			return m.switchTab(TabProjects)
		case key.Matches(msg, m.keys.TabSettings) && !capturingKeys:
			return m.switchTab(TabSettings)
		}
		m.status = ui.StatusMsg{}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := m.height - 4 // Account for tabs and status bar
		m.dayView.SetSize(m.width, contentHeight)
		m.summaryView.SetSize(m.width, contentHeight)
		m.projectsView.SetSize(m.width, contentHeight)
		m.settingsView.SetSize(m.width, contentHeight)
		return m, nil

	case ui.DeferredMsg:
		if msg.Fn != nil {
			msg.Fn()
		}
		return m, nil

	case ui.DayChangedMsg:
		var dayCmd, summaryCmd tea.Cmd
		m.dayView, dayCmd = m.dayView.Update(msg)
		m.summaryView, summaryCmd = m.summaryView.Update(msg)
		return m, tea.Batch(dayCmd, summaryCmd, m.waitForChange())

	case ui.DaySelectedMsg:
		m.summaryView, cmd = m.summaryView.Update(msg)
		return m, cmd

	case ui.StatusMsg:
		m.status = msg
		return m, nil

	case ui.ThemeChangeRequestMsg:
		m.styles, _ = m.themeProvider.Use(msg.ThemeName)
		newTheme := m.themeProvider.CurrentName()

		themeMsg := ui.ThemeChangedMsg{
			ThemeName: newTheme,
			Styles:    m.styles,
		}
		m.dayView, _ = m.dayView.Update(themeMsg)
		m.summaryView, _ = m.summaryView.Update(themeMsg)
		m.projectsView, _ = m.projectsView.Update(themeMsg)
		m.settingsView, _ = m.settingsView.Update(themeMsg)

		return m, m.saveThemeConfig(newTheme)
	}

	switch m.activeTab {
	case TabDay:
		m.dayView, cmd = m.dayView.Update(msg)
	case TabSummary:
		m.summaryView, cmd = m.summaryView.Update(msg)
	case TabProjects:
		m.projectsView, cmd = m.projectsView.Update(msg)
	case TabSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return m, cmd
}

// quit runs any pending resort so the stored order is final.
func (m Model) quit() (tea.Model, tea.Cmd) {
	m.dayView.Flush()
	return m, tea.Quit
}

func (m Model) switchTab(tab Tab) (tea.Model, tea.Cmd) {
	m.activeTab = tab
	switch tab {
	case TabSummary:
		return m, m.summaryView.Init()
	case TabProjects:
		m.projectsView.Reload()
	}
	return m, nil
}

// waitForChange delivers the next externally changed date.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		date, ok := <-changes
		if !ok {
			return nil
		}
		return ui.DayChangedMsg{Date: date}
	}
}

// View implements tea.Model
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case TabDay:
		b.WriteString(m.dayView.View())
	case TabSummary:
		b.WriteString(m.summaryView.View())
	case TabProjects:
		b.WriteString(m.projectsView.View())
	case TabSettings:
		b.WriteString(m.settingsView.View())
	}

	if m.status.Err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.status.Err)))
	} else if m.status.Text != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.status.Text))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	return m.styles.App.Render(b.String())
}

// renderTabs renders the tab bar
func (m Model) renderTabs() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, m.styles.TabActive.Render(name))
		} else {
			tabs = append(tabs, m.styles.TabInactive.Render(name))
		}
	}
	return m.styles.TabBar.Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar renders the status bar at the bottom
func (m Model) renderStatusBar() string {
	var parts []string

	if m.isCapturingKeys() {
		if m.activeTab == TabDay {
			parts = append(parts, m.renderKeyHelp("Tab", "accept"))
		}
		parts = append(parts, m.renderKeyHelp("Enter", "save"))
		parts = append(parts, m.renderKeyHelp("Esc", "close"))
	} else {
		switch m.activeTab {
		case TabDay:
			parts = append(parts, m.renderKeyHelp("a", "add"))
			parts = append(parts, m.renderKeyHelp("b", "pause"))
			parts = append(parts, m.renderKeyHelp("p/c/s", "edit"))
			parts = append(parts, m.renderKeyHelp("+/-", "nudge"))
			parts = append(parts, m.renderKeyHelp("h/l", "day"))
			parts = append(parts, m.renderKeyHelp("1-9", "quick"))
		case TabSummary:
			parts = append(parts, m.renderKeyHelp("v", "day/year"))
			parts = append(parts, m.renderKeyHelp("y", "copy"))
		case TabProjects:
			parts = append(parts, m.renderKeyHelp("a", "add"))
			parts = append(parts, m.renderKeyHelp("e", "rename"))
			parts = append(parts, m.renderKeyHelp("d", "remove"))
		case TabSettings:
			parts = append(parts, m.renderKeyHelp("t", "themes"))
		}

		parts = append(parts, m.renderKeyHelp("F1-F4", "views"))
		parts = append(parts, m.renderKeyHelp("?", "help"))
		parts = append(parts, m.renderKeyHelp("q", "quit"))
	}

	content := strings.Join(parts, "  ")

	padding := m.width - lipgloss.Width(content)
	if padding > 0 {
		content += strings.Repeat(" ", padding)
	}

	return m.styles.StatusBar.Render(content)
}

// renderKeyHelp renders a single key help item
func (m Model) renderKeyHelp(key, desc string) string {
	return fmt.Sprintf("%s %s",
		m.styles.StatusKey.Render(key),
		m.styles.StatusHelp.Render(desc))
}

// isCapturingKeys checks if the current view is capturing keyboard input
func (m Model) isCapturingKeys() bool {
	switch m.activeTab {
	case TabDay:
		return m.dayView.IsInputMode()
	case TabProjects:
		return m.projectsView.IsInputMode()
	case TabSettings:
		return m.settingsView.IsInputMode()
	}
	return false
}

// saveThemeConfig saves the theme to the config file
func (m Model) saveThemeConfig(themeName string) tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Config.Modify(func(c *config.Config) { c.Theme = themeName }); err != nil {
			return ui.StatusMsg{Err: fmt.Errorf("save theme: %w", err)}
		}
		return nil
	}
}

// renderHelpOverlay renders the key reference for the active view
func (m Model) renderHelpOverlay() string {
	var help strings.Builder

	help.WriteString(m.styles.ViewTitle.Render("Keyboard Shortcuts"))
	help.WriteString("\n\n")

	help.WriteString(m.styles.StatLabel.Render("Global:"))
	help.WriteString("\n")
	help.WriteString("  Tab/F1-F4  Switch views\n")
	help.WriteString("  ?          Toggle help\n")
	help.WriteString("  q          Quit\n")
	help.WriteString("\n")

	switch m.activeTab {
	case TabDay:
		help.WriteString(m.styles.StatLabel.Render("Day:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Move between entries\n")
		help.WriteString("  h/l/t      Previous/next day, today\n")
		help.WriteString("  a          Add entry\n")
		help.WriteString("  b          Add pause\n")
		help.WriteString("  p/c        Edit project/comment\n")
		help.WriteString("  s          Pick start time\n")
		help.WriteString("  +/-        Nudge start by a quarter\n")
		help.WriteString("  d          Delete entry\n")
		help.WriteString("  1-9        Quick project\n")
		help.WriteString("  alt+1-9    Quick comment tag\n")
		help.WriteString("  e/E        Export day/year as CSV\n")
		help.WriteString("  r          Reload\n")
	case TabSummary:
		help.WriteString(m.styles.StatLabel.Render("Summary:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate projects\n")
		help.WriteString("  v          Toggle day/year\n")
		help.WriteString("  y          Copy comments of project\n")
		help.WriteString("  r          Refresh\n")
	case TabProjects:
		help.WriteString(m.styles.StatLabel.Render("Projects:"))
		help.WriteString("\n")
		help.WriteString("  j/k        Navigate\n")
		help.WriteString("  a          Add project\n")
		help.WriteString("  e          Rename project\n")
		help.WriteString("  d          Remove project\n")
	case TabSettings:
		help.WriteString(m.styles.StatLabel.Render("Settings:"))
		help.WriteString("\n")
		help.WriteString("  t/Enter    Open theme selector\n")
		help.WriteString("  j/k        Navigate themes\n")
		help.WriteString("  r          Reload config file\n")
		help.WriteString("  Esc        Cancel\n")
	}

	help.WriteString("\n")
	help.WriteString(m.styles.StatLabel.Render("Press ? to close"))

	return m.styles.App.Render(m.styles.Dialog.Render(help.String()))
}

// Run starts the TUI application on date. Changes written by other
// processes are picked up when the storage backend can watch for them.
func Run(services *service.Services, date string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := services.Repo.WatchDays(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrWatchUnsupported) {
			services.Logger.Warn("watching for external changes failed", "err", err)
		}
		changes = nil
	}

	dispatcher := &ui.Dispatcher{}
	model := New(services, Options{Date: date, Dispatcher: dispatcher, Changes: changes})
	p := tea.NewProgram(model, tea.WithAltScreen())
	dispatcher.Bind(p.Send)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		m.dayView.Flush()
	}
	return err
}
