package views

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/timeutil"
	"github.com/xolan/tsheet/internal/tui/ui"
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

// SummaryModel shows per-project totals of the selected day or its year.
type SummaryModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	// UI state
	width  int
	height int
	date   string
	yearly bool
	cursor int
	status string
	err    error

	day  service.DaySummary
	year *service.YearSummary
}

// NewSummaryModel creates a new summary view model
func NewSummaryModel(services *service.Services, date string, styles ui.Styles, keys ui.KeyMap) SummaryModel {
	if date == "" {
		date = services.Today()
	}
	return SummaryModel{
		services: services,
		styles:   styles,
		keys:     keys,
		date:     date,
	}
}

// summaryLoadedMsg is sent when totals are loaded
type summaryLoadedMsg struct {
	date string
	day  service.DaySummary
	year *service.YearSummary
	err  error
}

// Init implements tea.Model
func (m SummaryModel) Init() tea.Cmd {
	return m.load()
}

// Update implements tea.Model
func (m SummaryModel) Update(msg tea.Msg) (SummaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.totals())-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Scope):
			m.yearly = !m.yearly
			m.cursor = 0
			return m, m.load()
		case key.Matches(msg, m.keys.Refresh):
			return m, m.load()
		case key.Matches(msg, m.keys.Copy):
			m.copyComments()
		}

	case ui.DaySelectedMsg:
		m.date = msg.Date
		return m, m.load()

	case ui.DayChangedMsg:
		if msg.Date == m.date || (m.yearly && strings.HasPrefix(msg.Date, m.date[:4])) {
			return m, m.load()
		}

	case summaryLoadedMsg:
		if msg.date != m.date {
			return m, nil
		}
		m.err = msg.err
		m.day = msg.day
		if msg.year != nil {
			m.year = msg.year
		}
		if m.cursor >= len(m.totals()) {
			m.cursor = max(0, len(m.totals())-1)
		}

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	return m, nil
}

func (m SummaryModel) load() tea.Cmd {
	date, yearly := m.date, m.yearly
	return func() tea.Msg {
		msg := summaryLoadedMsg{date: date, day: m.services.Summary(date)}
		if yearly {
			t, err := time.Parse(timeutil.DateLayout, date)
			if err != nil {
				msg.err = err
				return msg
			}
			y, err := m.services.Year(context.Background(), t.Year())
			msg.year, msg.err = &y, err
		}
		return msg
	}
}

func (m SummaryModel) totals() []sheet.ProjectTotal {
	if m.yearly {
		if m.year == nil {
			return nil
		}
		return m.year.Totals
	}
	return m.day.Totals
}

// copyComments puts the comments of the selected project on the clipboard,
// one per line.
func (m *SummaryModel) copyComments() {
	totals := m.totals()
	if m.yearly || m.cursor >= len(totals) {
		return
	}
	project := totals[m.cursor].Project
	comments := m.services.ProjectComments(m.date, project)
	if len(comments) == 0 {
		m.status = "No comments for " + project
		return
	}
	if err := writeClipboard(strings.Join(comments, "\n")); err != nil {
		m.err = fmt.Errorf("copy to clipboard: %w", err)
		return
	}
	m.status = fmt.Sprintf("Copied %d %s for %s", len(comments), pluralize("comment", len(comments)), project)
}

// View implements tea.Model
func (m SummaryModel) View() string {
	var b strings.Builder

	title := "Summary for " + m.date
	if m.yearly && len(m.date) >= 4 {
		title = "Summary for " + m.date[:4]
	}
	b.WriteString(m.styles.ViewTitle.Render(title))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	totals := m.totals()
	if len(totals) == 0 {
		b.WriteString("No data")
		return b.String()
	}

	if m.yearly {
		b.WriteString(m.renderStatLine("Total time:", formatDuration(m.year.Total)))
		b.WriteString(m.renderStatLine("Days with work:", fmt.Sprintf("%d %s", m.year.Days, pluralize("day", m.year.Days))))
	} else {
		b.WriteString(m.renderStatLine("Total time:", formatDuration(m.day.Total)))
		b.WriteString(m.renderStatLine("Entries:", fmt.Sprintf("%d (%d %s)", m.day.Entries, m.day.Pauses, pluralize("pause", m.day.Pauses))))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.ViewTitle.Render("By Project"))
	b.WriteString("\n")
	for i, t := range totals {
		line := fmt.Sprintf("%-24s %10s", fit(t.Project, 24), formatDuration(t.Minutes))
		if i == m.cursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + line))
		} else {
			b.WriteString(m.styles.RowNormal.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.status))
	}
	return b.String()
}

func (m SummaryModel) renderStatLine(label, value string) string {
	return m.styles.StatLabel.Render(fmt.Sprintf("%-16s", label)) + " " + m.styles.StatValue.Render(value) + "\n"
}

// SetSize sets the view dimensions
func (m *SummaryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}
