package views

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/service"
	"github.com/xolan/tsheet/internal/sheet"
	"github.com/xolan/tsheet/internal/timeutil"
	"github.com/xolan/tsheet/internal/tui/ui"
)

// dayMode represents the current mode of the day view
type dayMode int

const (
	dayModeNormal dayMode = iota
	dayModeProject
	dayModeComment
	dayModePicker
	dayModeDelete
)

// renderState receives the editor's snapshots. It is shared by every copy
// of the model.
type renderState struct {
	snap    sheet.Snapshot
	renders int
}

func (r *renderState) Render(s sheet.Snapshot) {
	r.snap = s
	r.renders++
}

// DayModel edits the entries of one day.
type DayModel struct {
	services *service.Services
	styles   ui.Styles
	keys     ui.KeyMap

	editor *sheet.Editor
	state  *renderState

	// UI state
	width  int
	height int
	mode   dayMode
	status string
	err    error

	// Project, comment and start inputs
	input       textinput.Model
	editID      string
	suggestions []fuzzy.Match
	suggestIdx  int

	// Start picker
	picker    []string
	pickerIdx int
}

// NewDayModel opens date (today when empty). Deferred resorts are handed to
// dispatch so they run on the event loop.
func NewDayModel(services *service.Services, date string, dispatch func(func()), styles ui.Styles, keys ui.KeyMap) DayModel {
	input := textinput.New()
	input.CharLimit = 200
	input.Width = 40

	state := &renderState{}
	ed := services.OpenDay(date, service.OpenOptions{
		Renderer:    state,
		Dispatch:    dispatch,
		Placeholder: true,
	})

	m := DayModel{
		services: services,
		styles:   styles,
		keys:     keys,
		editor:   ed,
		state:    state,
		input:    input,
		picker:   services.Config.Get().PickerTimes(),
	}
	m.ensureFocus()
	return m
}

// exportDoneMsg is sent when a CSV export finishes
type exportDoneMsg struct {
	path string
	err  error
}

// Init implements tea.Model
func (m DayModel) Init() tea.Cmd {
	return m.selected()
}

// Update implements tea.Model
func (m DayModel) Update(msg tea.Msg) (DayModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.err = nil
		switch m.mode {
		case dayModeProject, dayModeComment:
			return m.handleTextMode(msg)
		case dayModePicker:
			return m.handlePickerMode(msg)
		case dayModeDelete:
			return m.handleDeleteMode(msg)
		}
		return m.handleNormalMode(msg)

	case ui.DayChangedMsg:
		m.reloadIfChanged(msg.Date)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.status = "Exported " + msg.path
		}
		return m, nil

	case ui.ThemeChangedMsg:
		m.styles = msg.Styles
		return m, nil
	}

	if m.mode == dayModeProject || m.mode == dayModeComment || m.mode == dayModePicker {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m DayModel) handleNormalMode(msg tea.KeyMsg) (DayModel, tea.Cmd) {
	id := m.editor.Focused().EntryID

	switch {
	case key.Matches(msg, m.keys.Up):
		m.editor.MoveFocus(-1)
	case key.Matches(msg, m.keys.Down):
		m.editor.MoveFocus(1)

	case key.Matches(msg, m.keys.PrevDay), key.Matches(msg, m.keys.NextDay):
		delta := 1
		if key.Matches(msg, m.keys.PrevDay) {
			delta = -1
		}
		if err := m.editor.ShiftDay(delta); err != nil {
			m.err = err
			return m, nil
		}
		m.ensureFocus()
		return m, m.selected()
	case key.Matches(msg, m.keys.Today):
		m.editor.SelectDay(m.services.Today())
		m.ensureFocus()
		return m, m.selected()
	case key.Matches(msg, m.keys.Refresh):
		m.editor.SelectDay(m.editor.Date())
		m.ensureFocus()

	case key.Matches(msg, m.keys.Add):
		newID := m.editor.AddEntry(sheet.Prefill{})
		return m.openText(dayModeProject, newID)
	case key.Matches(msg, m.keys.Pause):
		m.editor.AddPause()
	case key.Matches(msg, m.keys.Project):
		if id != "" {
			return m.openText(dayModeProject, id)
		}
	case key.Matches(msg, m.keys.Comment):
		if id != "" {
			return m.openText(dayModeComment, id)
		}
	case key.Matches(msg, m.keys.Start):
		if id != "" {
			return m.openPicker(id)
		}
	case key.Matches(msg, m.keys.Increment), key.Matches(msg, m.keys.Decrement):
		if id == "" {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, m.keys.Decrement) {
			delta = -1
		}
		m.err = m.editor.AdjustStart(id, delta)
	case key.Matches(msg, m.keys.Delete):
		if id != "" {
			m.mode = dayModeDelete
		}

	case key.Matches(msg, m.keys.ExportDay):
		return m, m.exportDay()
	case key.Matches(msg, m.keys.ExportYear):
		return m, m.exportYear()

	default:
		if slot, ok := m.quickProjectSlot(msg); ok {
			projects := m.services.Config.Get().QuickProjects
			if slot >= len(projects) {
				m.status = fmt.Sprintf("No quick project on %d", slot+1)
				return m, nil
			}
			newID := m.editor.QuickProject(projects[slot])
			return m.openText(dayModeComment, newID)
		}
		if slot, ok := m.quickCommentSlot(msg); ok {
			m.applyQuickComment(slot)
		}
	}
	return m, nil
}

// handleTextMode handles key events while the project or comment input is open
func (m DayModel) handleTextMode(msg tea.KeyMsg) (DayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if m.mode == dayModeProject {
			if err := m.editor.CommitProject(m.editID, m.input.Value()); err != nil {
				m.err = err
				return m.closeInput(), nil
			}
			return m.openText(dayModeComment, m.editID)
		}
		return m.closeInput(), nil

	case key.Matches(msg, m.keys.Back):
		if m.mode == dayModeProject {
			m.err = m.editor.CommitProject(m.editID, m.input.Value())
		}
		return m.closeInput(), nil

	case key.Matches(msg, m.keys.Accept):
		if m.suggestIdx < len(m.suggestions) {
			m.input.SetValue(m.suggestions[m.suggestIdx].Str)
			m.input.CursorEnd()
			m.typed()
		}
		return m, nil

	case msg.Type == tea.KeyUp:
		if m.suggestIdx > 0 {
			m.suggestIdx--
		}
		return m, nil
	case msg.Type == tea.KeyDown:
		if m.suggestIdx < len(m.suggestions)-1 {
			m.suggestIdx++
		}
		return m, nil
	}

	if m.mode == dayModeComment {
		if slot, ok := m.quickCommentSlot(msg); ok {
			m.applyQuickComment(slot)
			if e, ok := m.editor.Get(m.editID); ok {
				m.input.SetValue(e.Comment)
				m.input.CursorEnd()
			}
			m.refreshSuggestions()
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.typed()
	}
	return m, cmd
}

// handlePickerMode handles key events while the start picker is open
func (m DayModel) handlePickerMode(msg tea.KeyMsg) (DayModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		value := strings.TrimSpace(m.input.Value())
		if value == "" && m.pickerIdx < len(m.picker) {
			value = m.picker[m.pickerIdx]
		}
		if err := m.editor.SetStart(m.editID, value); err != nil {
			m.err = err
			return m, nil
		}
		return m.closeInput(), nil

	case key.Matches(msg, m.keys.Back):
		return m.closeInput(), nil

	case key.Matches(msg, m.keys.Up):
		if m.pickerIdx > 0 {
			m.pickerIdx--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.pickerIdx < len(m.picker)-1 {
			m.pickerIdx++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleDeleteMode handles key events when in delete confirmation mode
func (m DayModel) handleDeleteMode(msg tea.KeyMsg) (DayModel, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := m.editor.Focused().EntryID
		idx := m.state.snap.Index(id)
		m.editor.Remove(id)
		m.mode = dayModeNormal
		if n := len(m.editor.Entries()); n > 0 {
			if idx >= n {
				idx = n - 1
			}
			_ = m.editor.Focus(m.editor.Entries()[max(idx, 0)].ID, "")
		}
	case "n", "N", "esc":
		m.mode = dayModeNormal
	}
	return m, nil
}

func (m DayModel) openText(mode dayMode, id string) (DayModel, tea.Cmd) {
	e, ok := m.editor.Get(id)
	if !ok {
		return m, nil
	}

	m.mode = mode
	m.editID = id
	m.suggestIdx = 0
	if mode == dayModeProject {
		m.input.Placeholder = "Project"
		m.input.SetValue(e.Project)
		_ = m.editor.Focus(id, sheet.ControlProject)
	} else {
		m.input.Placeholder = "Comment"
		m.input.SetValue(e.Comment)
		_ = m.editor.Focus(id, sheet.ControlComment)
	}
	m.input.CursorEnd()
	m.refreshSuggestions()
	cmd := m.input.Focus()
	return m, cmd
}

func (m DayModel) openPicker(id string) (DayModel, tea.Cmd) {
	if err := m.editor.FocusStart(id); err != nil {
		m.err = err
		return m, nil
	}
	m.mode = dayModePicker
	m.editID = id
	m.input.Placeholder = "HH:MM"
	m.input.SetValue("")
	m.pickerIdx = m.nearestPickerIndex(id)
	cmd := m.input.Focus()
	return m, cmd
}

func (m DayModel) closeInput() DayModel {
	m.mode = dayModeNormal
	m.input.Blur()
	m.suggestions = nil
	return m
}

// typed forwards the input value to the editor as live typing.
func (m *DayModel) typed() {
	var err error
	if m.mode == dayModeProject {
		err = m.editor.TypeProject(m.editID, m.input.Value())
	} else {
		err = m.editor.TypeComment(m.editID, m.input.Value())
	}
	if err != nil {
		m.err = err
	}
	m.refreshSuggestions()
}

func (m *DayModel) refreshSuggestions() {
	var candidates []string
	if m.mode == dayModeProject {
		candidates = m.services.Projects.List()
	} else {
		project := ""
		if e, ok := m.editor.Get(m.editID); ok {
			project = e.Project
		}
		candidates = sheet.FrequentComments(m.editor.Entries(), project, sheet.MaxSuggestions)
	}
	m.suggestions = suggest(m.input.Value(), candidates, maxShownSuggestions)
	if m.suggestIdx >= len(m.suggestions) {
		m.suggestIdx = 0
	}
}

func (m *DayModel) applyQuickComment(slot int) {
	tags := m.services.Config.Get().QuickComments
	if slot >= len(tags) {
		m.status = fmt.Sprintf("No quick comment on alt+%d", slot+1)
		return
	}
	if err := m.editor.QuickComment(tags[slot]); err != nil {
		if errors.Is(err, sheet.ErrNoFocus) {
			m.status = "Select an entry first"
			return
		}
		m.err = err
	}
}

func (m DayModel) quickProjectSlot(msg tea.KeyMsg) (int, bool) {
	for i, b := range m.keys.QuickProject {
		if key.Matches(msg, b) {
			return i, true
		}
	}
	return 0, false
}

func (m DayModel) quickCommentSlot(msg tea.KeyMsg) (int, bool) {
	for i, b := range m.keys.QuickComment {
		if key.Matches(msg, b) {
			return i, true
		}
	}
	return 0, false
}

// nearestPickerIndex returns the picker slot closest to the entry's start.
func (m DayModel) nearestPickerIndex(id string) int {
	e, _ := m.editor.Get(id)
	start, ok := e.StartMinutes()
	if !ok {
		return 0
	}
	best, bestDiff := 0, -1
	for i, t := range m.picker {
		pm, _ := timeutil.ParseTime(t)
		diff := pm - start
		if diff < 0 {
			diff = -diff
		}
		if bestDiff < 0 || diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

// ensureFocus focuses the first row when nothing has focus.
func (m *DayModel) ensureFocus() {
	if m.editor.Focused().EntryID == "" {
		m.editor.MoveFocus(0)
	}
}

// reloadIfChanged reloads date when its stored record no longer matches the
// editor, which means another process wrote it. Own writes compare equal.
func (m *DayModel) reloadIfChanged(date string) {
	if date != m.editor.Date() || m.editor.Pending() || m.mode != dayModeNormal {
		return
	}
	stored := sheet.SortByStartDescending(m.services.Repo.LoadDay(date).Entries)
	if entriesEqual(stored, m.editor.Entries()) {
		return
	}

	focus := m.editor.Focused()
	m.editor.SelectDay(date)
	if focus.EntryID != "" {
		_ = m.editor.Focus(focus.EntryID, focus.Control)
	}
	m.ensureFocus()
	m.status = "Reloaded changes from disk"
}

func entriesEqual(a, b []entry.Entry) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(a, b)
}

func (m DayModel) selected() tea.Cmd {
	date := m.editor.Date()
	return func() tea.Msg { return ui.DaySelectedMsg{Date: date} }
}

func (m DayModel) exportDay() tea.Cmd {
	date := m.editor.Date()
	return func() tea.Msg {
		path, err := m.services.ExportDay(date, "")
		return exportDoneMsg{path: path, err: err}
	}
}

func (m DayModel) exportYear() tea.Cmd {
	year := time.Now().Year()
	if t, err := time.Parse(timeutil.DateLayout, m.editor.Date()); err == nil {
		year = t.Year()
	}
	return func() tea.Msg {
		path, err := m.services.ExportYear(context.Background(), year, "")
		return exportDoneMsg{path: path, err: err}
	}
}

// View implements tea.Model
func (m DayModel) View() string {
	var b strings.Builder
	snap := m.state.snap

	b.WriteString(m.renderTitle(snap))
	b.WriteString("\n\n")

	if len(snap.Rows) == 0 {
		b.WriteString(m.styles.StatLabel.Render("No entries"))
		b.WriteString("\n\n")
		b.WriteString(m.styles.StatLabel.Render("Press 'a' to add an entry"))
	} else {
		b.WriteString(m.renderRows(snap))
		b.WriteString(strings.Repeat("─", min(60, max(m.width, 10))))
		b.WriteString("\n")
		count := 0
		for _, r := range snap.Rows {
			if !r.Pause {
				count++
			}
		}
		b.WriteString(fmt.Sprintf("Total: %s (%d %s)", formatDuration(snap.Total), count, pluralize("entry", count)))
	}
	b.WriteString("\n")

	switch m.mode {
	case dayModeProject, dayModeComment:
		b.WriteString("\n")
		b.WriteString(m.renderTextInput())
	case dayModePicker:
		b.WriteString("\n")
		b.WriteString(m.renderPicker())
	case dayModeDelete:
		b.WriteString("\n")
		b.WriteString(m.renderDeleteConfirm())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Success.Render(m.status))
	}

	return b.String()
}

func (m DayModel) renderTitle(snap sheet.Snapshot) string {
	title := snap.Date
	if t, err := time.Parse(timeutil.DateLayout, snap.Date); err == nil {
		title = t.Format("Monday, 2 January 2006")
	}
	out := m.styles.DayTitle.Render(title)
	if timeutil.IsToday(snap.Date, m.services.Clock.Now()) {
		out += " " + m.styles.Today.Render("(today)")
	}
	if snap.Pending {
		out += " " + m.styles.Pending.Render("● reordering")
	}
	return out
}

func (m DayModel) renderRows(snap sheet.Snapshot) string {
	commentWidth := m.width - 4 - 7 - 8 - 20 - 6
	if commentWidth < 20 {
		commentWidth = 20
	}

	var b strings.Builder
	for i, row := range snap.Rows {
		e := row.Entry

		start := m.styles.Start.Render(e.Start)
		if !e.HasValidStart() {
			start = m.styles.StartMissing.Render("--:--")
		}
		project := fmt.Sprintf("%-20s", fit(e.Project, 20))
		comment := fit(e.Comment, commentWidth)

		if row.Focused {
			switch snap.Focus.Control {
			case sheet.ControlStart, sheet.ControlStartInc, sheet.ControlStartDec:
				start = m.styles.FieldFocused.Render(start)
			case sheet.ControlProject:
				project = m.styles.FieldFocused.Render(project)
			case sheet.ControlComment:
				comment = m.styles.FieldFocused.Render(comment)
			}
		}

		line := lipgloss.JoinHorizontal(lipgloss.Top,
			m.styles.RowIndex.Render(fmt.Sprintf("%d", i+1)),
			start,
			m.styles.Duration.Render(formatDuration(row.Minutes)),
			"  ",
			m.styles.Project.Render(project),
			" ",
			m.styles.Comment.Render(comment),
		)

		style := m.styles.RowNormal
		switch {
		case row.Focused:
			style = m.styles.RowSelected
		case row.Pause:
			style = m.styles.RowPause
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m DayModel) renderTextInput() string {
	var b strings.Builder
	label := "Project:"
	if m.mode == dayModeComment {
		label = "Comment:"
	}
	b.WriteString(m.styles.StatLabel.Render(label))
	b.WriteString("\n")
	b.WriteString(m.styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n")

	for i, s := range m.suggestions {
		prefix := "  "
		base := m.styles.Suggestion
		if i == m.suggestIdx {
			prefix = "▸ "
			base = m.styles.SuggestionActive
		}
		b.WriteString(prefix)
		b.WriteString(highlight(s, base, m.styles.SuggestionMatch))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.StatLabel.Render("Enter save  Tab accept suggestion  Esc close"))
	return b.String()
}

// pickerWindow is the number of picker times shown at once.
const pickerWindow = 8

func (m DayModel) renderPicker() string {
	var b strings.Builder
	b.WriteString(m.styles.StatLabel.Render("Start:"))
	b.WriteString("\n")
	b.WriteString(m.styles.InputFocused.Render(m.input.View()))
	b.WriteString("\n")

	from := max(0, m.pickerIdx-pickerWindow/2)
	to := min(len(m.picker), from+pickerWindow)
	for i := from; i < to; i++ {
		if i == m.pickerIdx {
			b.WriteString(m.styles.SuggestionActive.Render("▸ " + m.picker[i]))
		} else {
			b.WriteString(m.styles.Suggestion.Render("  " + m.picker[i]))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.styles.StatLabel.Render("↑/↓ choose  type HH:MM  Enter set  Esc close"))
	return b.String()
}

func (m DayModel) renderDeleteConfirm() string {
	var b strings.Builder
	b.WriteString(m.styles.Warning.Render("Delete this entry?"))
	b.WriteString("\n")
	if e, ok := m.editor.Get(m.editor.Focused().EntryID); ok {
		b.WriteString(m.styles.StatLabel.Render("Project: "))
		b.WriteString(m.styles.StatValue.Render(sheet.ProjectLabel(e.Project)))
		b.WriteString("\n")
		if e.Comment != "" {
			b.WriteString(m.styles.StatLabel.Render("Comment: "))
			b.WriteString(m.styles.StatValue.Render(e.Comment))
			b.WriteString("\n")
		}
	}
	b.WriteString(m.styles.StatLabel.Render("Press Y to confirm, N or Esc to cancel"))
	return b.String()
}

// SetSize sets the view dimensions
func (m *DayModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// IsInputMode returns true when the view is capturing keyboard input
func (m DayModel) IsInputMode() bool {
	return m.mode != dayModeNormal
}

// Date returns the selected day.
func (m DayModel) Date() string {
	return m.editor.Date()
}

// Editor exposes the underlying editor.
func (m DayModel) Editor() *sheet.Editor {
	return m.editor
}

// Flush runs a pending resort immediately.
func (m DayModel) Flush() {
	m.editor.Flush()
}
