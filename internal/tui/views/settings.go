package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tsheet/internal/config"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/tui/ui"
)

// SettingsModel is the model for the settings view
type SettingsModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width     int
	height    int
	config    config.Config
	path      string
	exists    bool
	plain     bool
	themeName string

	// Theme selector state
	selectingTheme bool
	themes         []string
	themeCursor    int
	themeOffset    int // For scrolling
}

// NewSettingsModel creates a new settings view model
func NewSettingsModel(services *service.Services, themeProvider *ui.ThemeProvider, styles ui.Styles, keys ui.KeyMap) SettingsModel {
	m := SettingsModel{
		services:  services,
		styles:    styles,
		keys:      keys,
		themes:    themeProvider.Themes(),
		themeName: themeProvider.CurrentName(),
		plain:     themeProvider.Plain(),
	}
	m.syncCursor()
	return m
}

// Init implements tea.Model
func (m SettingsModel) Init() tea.Cmd {
	return m.loadConfig()
}

// configLoadedMsg is sent when config is loaded
type configLoadedMsg struct {
	config config.Config
	path   string
	exists bool
}

// maxVisibleThemes is the maximum number of themes to show at once
const maxVisibleThemes = 10

// Update implements tea.Model
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.selectingTheme {
			return m.handleThemeSelection(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Select), msg.String() == "t":
			if m.plain {
				return m, nil
			}
			m.selectingTheme = true
			m.updateThemeOffset()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			return m, m.reloadConfig()
		}

	case configLoadedMsg:
		m.config = msg.config
		m.path = msg.path
		m.exists = msg.exists

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		m.themeName = msg.ThemeName
		m.syncCursor()
		return m, nil
	}

	return m, nil
}

// handleThemeSelection handles keys when theme selector is open
func (m SettingsModel) handleThemeSelection(msg tea.KeyMsg) (SettingsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.themeCursor > 0 {
			m.themeCursor--
			m.updateThemeOffset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.themeCursor < len(m.themes)-1 {
			m.themeCursor++
			m.updateThemeOffset()
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		selected := m.themes[m.themeCursor]
		m.selectingTheme = false
		return m, func() tea.Msg {
			return ui.ThemeChangeRequestMsg{ThemeName: selected}
		}

	case key.Matches(msg, m.keys.Back):
		m.selectingTheme = false
		m.syncCursor()
		return m, nil
	}

	return m, nil
}

func (m *SettingsModel) syncCursor() {
	for i, t := range m.themes {
		if t == m.themeName {
			m.themeCursor = i
			return
		}
	}
}

// updateThemeOffset adjusts scroll offset to keep cursor visible
func (m *SettingsModel) updateThemeOffset() {
	if m.themeCursor < m.themeOffset {
		m.themeOffset = m.themeCursor
	} else if m.themeCursor >= m.themeOffset+maxVisibleThemes {
		m.themeOffset = m.themeCursor - maxVisibleThemes + 1
	}
}

// View implements tea.Model
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Settings"))
	b.WriteString("\n\n")

	b.WriteString(m.styles.StatLabel.Render("Config file:"))
	b.WriteString(" ")
	b.WriteString(m.styles.StatValue.Render(m.path))
	b.WriteString("\n")

	b.WriteString(m.styles.StatLabel.Render("Status:"))
	b.WriteString(" ")
	if m.exists {
		b.WriteString(m.styles.Success.Render("File exists"))
	} else {
		b.WriteString(m.styles.Warning.Render("Using defaults (no config file)"))
	}
	b.WriteString("\n\n")

	b.WriteString(strings.Repeat("─", min(50, max(m.width, 10))))
	b.WriteString("\n\n")

	cfg := m.config
	b.WriteString(m.renderConfigLine("backend", cfg.Backend))
	b.WriteString(m.renderConfigLine("data_dir", orDefault(cfg.DataDir)))
	b.WriteString(m.renderConfigLine("export_dir", orDefault(cfg.ExportDir)))
	b.WriteString(m.renderConfigLine("debounce_ms", fmt.Sprintf("%d", cfg.DebounceMS)))
	b.WriteString(m.renderConfigLine("picker", fmt.Sprintf("%s to %s every %dm", cfg.PickerStart, cfg.PickerEnd, cfg.PickerStep)))
	b.WriteString(m.renderConfigLine("quick_projects", m.renderSlots(cfg.QuickProjects, "")))
	b.WriteString(m.renderConfigLine("quick_comments", m.renderSlots(cfg.QuickComments, "alt+")))
	b.WriteString(m.renderConfigLine("locale", cfg.Locale))
	b.WriteString(m.renderConfigLine("log_file", orDefault(cfg.LogFile)))

	switch {
	case m.plain:
		b.WriteString(m.renderConfigLine("theme", "disabled by NO_COLOR"))
	case m.selectingTheme:
		b.WriteString(m.renderThemeSelector())
	default:
		b.WriteString(m.renderConfigLine("theme", m.themeName))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Press Enter or 't' to change theme"))
	}

	return b.String()
}

func (m SettingsModel) renderSlots(values []string, prefix string) string {
	if len(values) == 0 {
		return "(none)"
	}
	parts := make([]string, 0, len(values))
	for i, v := range values {
		if i >= ui.QuickSlots {
			break
		}
		parts = append(parts, fmt.Sprintf("%s%d=%s", prefix, i+1, v))
	}
	return strings.Join(parts, "  ")
}

// renderThemeSelector renders the theme selection list
func (m SettingsModel) renderThemeSelector() string {
	var b strings.Builder

	b.WriteString(m.styles.StatLabel.Render("theme:"))
	b.WriteString(" ")
	b.WriteString(m.styles.StatValue.Render("Select a theme"))
	b.WriteString("\n\n")

	endIdx := min(m.themeOffset+maxVisibleThemes, len(m.themes))

	if m.themeOffset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more themes above"))
		b.WriteString("\n")
	}

	for i := m.themeOffset; i < endIdx; i++ {
		theme := m.themes[i]
		if i == m.themeCursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + theme))
			if theme == m.themeName {
				b.WriteString(m.styles.Success.Render(" (current)"))
			}
		} else {
			b.WriteString("  ")
			if theme == m.themeName {
				b.WriteString(m.styles.Success.Render(theme + " (current)"))
			} else {
				b.WriteString(m.styles.StatValue.Render(theme))
			}
		}
		b.WriteString("\n")
	}

	if endIdx < len(m.themes) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more themes below"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.StatLabel.Render("↑/↓ navigate  Enter select  Esc cancel"))

	return b.String()
}

// SetSize sets the view dimensions
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true while the theme selector is open
func (m SettingsModel) IsInputMode() bool {
	return m.selectingTheme
}

// loadConfig creates a command to load config
func (m SettingsModel) loadConfig() tea.Cmd {
	return func() tea.Msg {
		return configLoadedMsg{
			config: m.services.Config.Get(),
			path:   m.services.Config.GetPath(),
			exists: m.services.Config.Exists(),
		}
	}
}

// reloadConfig rereads the config file before loading it.
func (m SettingsModel) reloadConfig() tea.Cmd {
	return func() tea.Msg {
		if err := m.services.Config.Reload(); err != nil {
			return ui.StatusMsg{Err: err}
		}
		return m.loadConfig()()
	}
}

func (m SettingsModel) renderConfigLine(key, value string) string {
	return m.styles.StatLabel.Render(key+":") + " " + m.styles.StatValue.Render(value) + "\n"
}

func orDefault(v string) string {
	if v == "" {
		return "(default)"
	}
	return v
}
