package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xolan/tsheet/internal/registry"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/tui/ui"
)

type projectsMode int

const (
	projectsModeNormal projectsMode = iota
	projectsModeAdd
	projectsModeRename
	projectsModeDelete
)

// ProjectsModel manages the project registry.
type ProjectsModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	width    int
	height   int
	projects []string
	cursor   int
	offset   int
	mode     projectsMode
	input    textinput.Model
	status   string
	err      error
}

// NewProjectsModel creates a new projects view model
func NewProjectsModel(services *service.Services, styles ui.Styles, keys ui.KeyMap) ProjectsModel {
	input := textinput.New()
	input.Placeholder = "Project name"
	input.CharLimit = 100
	input.Width = 40

	return ProjectsModel{
		services: services,
		styles:   styles,
		keys:     keys,
		input:    input,
		projects: services.Projects.List(),
	}
}

// Init implements tea.Model
func (m ProjectsModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m ProjectsModel) Update(msg tea.Msg) (ProjectsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch m.mode {
		case projectsModeAdd, projectsModeRename:
			return m.handleInput(msg)
		case projectsModeDelete:
			return m.handleDelete(msg)
		}
		return m.handleNormal(msg)

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.mode == projectsModeAdd || m.mode == projectsModeRename {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m ProjectsModel) handleNormal(msg tea.KeyMsg) (ProjectsModel, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.projects)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Refresh):
		m.services.Projects.Reload()
		m.reload()
	case key.Matches(msg, m.keys.Add):
		m.mode = projectsModeAdd
		m.input.SetValue("")
		cmd := m.input.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Rename):
		if name, ok := m.selected(); ok {
			m.mode = projectsModeRename
			m.input.SetValue(name)
			m.input.CursorEnd()
			cmd := m.input.Focus()
			return m, cmd
		}
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selected(); ok {
			m.mode = projectsModeDelete
		}
	}
	m.clampOffset()
	return m, nil
}

func (m ProjectsModel) handleInput(msg tea.KeyMsg) (ProjectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		name := strings.TrimSpace(m.input.Value())
		var err error
		if m.mode == projectsModeAdd {
			if name == "" {
				err = registry.ErrEmptyName
			} else {
				err = m.services.Projects.EnsureProject(name)
				m.status = "Added " + name
			}
		} else {
			old, _ := m.selected()
			err = m.services.Projects.Rename(old, name)
			m.status = fmt.Sprintf("Renamed %s to %s", old, name)
		}
		if err != nil {
			m.err = err
			m.status = ""
			return m, nil
		}
		m.mode = projectsModeNormal
		m.input.Blur()
		m.reload()
		m.selectName(name)
		return m, nil

	case key.Matches(msg, m.keys.Back):
		m.mode = projectsModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m ProjectsModel) handleDelete(msg tea.KeyMsg) (ProjectsModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		name, _ := m.selected()
		if err := m.services.Projects.Remove(name); err != nil {
			m.err = err
		} else {
			m.status = "Removed " + name
		}
		m.mode = projectsModeNormal
		m.reload()
	case "n", "N", "esc":
		m.mode = projectsModeNormal
	}
	return m, nil
}

func (m ProjectsModel) selected() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.projects) {
		return "", false
	}
	return m.projects[m.cursor], true
}

func (m *ProjectsModel) reload() {
	m.projects = m.services.Projects.List()
	if m.cursor >= len(m.projects) {
		m.cursor = max(0, len(m.projects)-1)
	}
	m.clampOffset()
}

func (m *ProjectsModel) selectName(name string) {
	for i, p := range m.projects {
		if p == name {
			m.cursor = i
			break
		}
	}
	m.clampOffset()
}

func (m *ProjectsModel) visibleRows() int {
	if m.height <= 8 {
		return 10
	}
	return m.height - 8
}

func (m *ProjectsModel) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// View implements tea.Model
func (m ProjectsModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.ViewTitle.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No projects yet"))
		b.WriteString("\n")
	}

	end := min(len(m.projects), m.offset+m.visibleRows())
	if m.offset > 0 {
		b.WriteString(m.styles.StatLabel.Render("  ↑ more"))
		b.WriteString("\n")
	}
	for i := m.offset; i < end; i++ {
		if i == m.cursor {
			b.WriteString(m.styles.RowSelected.Render("▸ " + m.projects[i]))
		} else {
			b.WriteString(m.styles.RowNormal.Render("  " + m.projects[i]))
		}
		b.WriteString("\n")
	}
	if end < len(m.projects) {
		b.WriteString(m.styles.StatLabel.Render("  ↓ more"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch m.mode {
	case projectsModeAdd, projectsModeRename:
		label := "New project:"
		if m.mode == projectsModeRename {
			label = "Rename to:"
		}
		b.WriteString(m.styles.StatLabel.Render(label))
		b.WriteString("\n")
		b.WriteString(m.styles.InputFocused.Render(m.input.View()))
		b.WriteString("\n")
	case projectsModeDelete:
		name, _ := m.selected()
		b.WriteString(m.styles.Warning.Render(fmt.Sprintf("Remove %q from the suggestions?", name)))
		b.WriteString("\n")
		b.WriteString(m.styles.StatLabel.Render("Entries keep their project. Press Y to confirm, N or Esc to cancel"))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		b.WriteString(m.styles.Success.Render(m.status))
	}
	return b.String()
}

// SetSize sets the view dimensions
func (m *ProjectsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m ProjectsModel) IsInputMode() bool {
	return m.mode != projectsModeNormal
}

// Reload refreshes the list from the registry.
func (m *ProjectsModel) Reload() {
	m.reload()
}
