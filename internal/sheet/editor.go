// Package sheet is the entry scheduling engine of a day's timesheet: it keeps
// entries ordered by start time, resolves start collisions, derives
// durations from the following start, and coalesces bursts of start-time
// nudges into a single deferred resort.
package sheet

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xolan/tsheet/internal/clock"
	"github.com/xolan/tsheet/internal/debounce"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/timeutil"
)

// Controls within a row that can hold focus.
const (
	ControlProject  = "project"
	ControlComment  = "comment"
	ControlStart    = "start"
	ControlStartInc = "start-inc"
	ControlStartDec = "start-dec"
)

var (
	// ErrUnknownEntry is returned when an operation names an entry that is
	// not part of the selected day.
	ErrUnknownEntry = errors.New("unknown entry")
	// ErrInvalidStart is returned when a start time is not a valid HH:MM value.
	ErrInvalidStart = errors.New("invalid start time")
	// ErrNoFocus is returned by operations that act on the focused entry
	// when no entry has focus.
	ErrNoFocus = errors.New("no entry has focus")
)

// Persister loads and saves day records. LoadDay never fails: missing or
// unreadable data yields an empty record.
type Persister interface {
	LoadDay(date string) entry.DayRecord
	SaveDay(date string, rec entry.DayRecord) error
}

// ProjectRegistry records project names as they are committed.
type ProjectRegistry interface {
	EnsureProject(name string) error
}

// Renderer is told about every observable change.
type Renderer interface {
	Render(Snapshot)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(Snapshot)

// Render calls f(s).
func (f RenderFunc) Render(s Snapshot) { f(s) }

// Row is one entry as shown to the user.
type Row struct {
	Entry   entry.Entry
	Minutes int
	Pause   bool
	Focused bool
}

// Snapshot is a read-only copy of the editor state.
type Snapshot struct {
	Date    string
	Rows    []Row
	Focus   debounce.Target
	Pending bool
	Totals  []ProjectTotal
	Total   int
}

// Index returns the row position of the entry with the given ID, or -1.
func (s Snapshot) Index(id string) int {
	for i, r := range s.Rows {
		if r.Entry.ID == id {
			return i
		}
	}
	return -1
}

// Entries returns the entries of the snapshot in display order.
func (s Snapshot) Entries() []entry.Entry {
	out := make([]entry.Entry, len(s.Rows))
	for i, r := range s.Rows {
		out[i] = r.Entry
	}
	return out
}

// Prefill seeds a new entry. An empty Start means "now" on today and
// unscheduled on any other day.
type Prefill struct {
	Project string
	Comment string
	Start   string
	Minutes int
}

// Config wires an Editor to its collaborators.
type Config struct {
	Date      string
	Persister Persister
	Projects  ProjectRegistry
	Renderer  Renderer
	Clock     clock.Clock
	Logger    *log.Logger
	// Delay is the resort debounce window. Zero means debounce.DefaultDelay.
	Delay time.Duration
	// Dispatch hands deferred callbacks to the owner's event loop.
	Dispatch func(func())
	Compare  CompareFunc
	// Placeholder adds an empty entry when a loaded day has none.
	Placeholder bool
}

// Editor owns the entries of the selected day. All mutations go through its
// methods so that ordering and uniqueness hold whenever they are observed.
// An Editor is not safe for concurrent use; deferred work is delivered
// through Config.Dispatch.
type Editor struct {
	persister   Persister
	projects    ProjectRegistry
	renderer    Renderer
	clock       clock.Clock
	log         *log.Logger
	compare     CompareFunc
	placeholder bool

	date    string
	store   *Store
	legacy  []string
	stages  map[string]*Stage
	focus   debounce.Target
	resort  *debounce.Scheduler
	saveErr error
}

// NewEditor returns an editor with cfg.Date loaded. An empty date selects
// today according to cfg.Clock.
func NewEditor(cfg Config) *Editor {
	if cfg.Clock == nil {
		cfg.Clock = clock.Real{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}

	e := &Editor{
		persister:   cfg.Persister,
		projects:    cfg.Projects,
		renderer:    cfg.Renderer,
		clock:       cfg.Clock,
		log:         cfg.Logger,
		compare:     cfg.Compare,
		placeholder: cfg.Placeholder,
	}
	e.resort = debounce.New(cfg.Clock, cfg.Delay, e.runResort, debounce.WithDispatch(cfg.Dispatch))

	date := cfg.Date
	if date == "" {
		date = timeutil.FormatDate(cfg.Clock.Now())
	}
	e.load(date)
	return e
}

// Date returns the selected day as YYYY-MM-DD.
func (e *Editor) Date() string { return e.date }

// Entries returns a copy of the entries in display order.
func (e *Editor) Entries() []entry.Entry { return e.store.Entries() }

// Get returns the entry with the given ID.
func (e *Editor) Get(id string) (entry.Entry, bool) { return e.store.Get(id) }

// Focused returns the current focus target.
func (e *Editor) Focused() debounce.Target { return e.focus }

// Stage returns the increment/decrement state of an entry.
func (e *Editor) Stage(id string) (Stage, bool) {
	st, ok := e.stages[id]
	if !ok {
		return Stage{}, false
	}
	return *st, true
}

// Pending reports whether a deferred resort is waiting.
func (e *Editor) Pending() bool { return e.resort.IsPending() }

// LastSaveError returns the most recent persistence failure, if any.
// Failures are logged and never abort an edit.
func (e *Editor) LastSaveError() error { return e.saveErr }

// Snapshot returns a copy of the current state.
func (e *Editor) Snapshot() Snapshot {
	entries := e.store.Entries()
	rows := make([]Row, len(entries))
	for i, en := range entries {
		rows[i] = Row{
			Entry:   en,
			Minutes: VisibleMinutes(en, entries),
			Pause:   en.IsPause(),
			Focused: en.ID == e.focus.EntryID,
		}
	}
	totals := GroupByProject(entries, e.compare)
	return Snapshot{
		Date:    e.date,
		Rows:    rows,
		Focus:   e.focus,
		Pending: e.resort.IsPending(),
		Totals:  totals,
		Total:   Total(totals),
	}
}

// SelectDay flushes any pending resort and loads date.
func (e *Editor) SelectDay(date string) {
	e.resort.Flush()
	e.load(date)
}

// ShiftDay moves the selection by delta days.
func (e *Editor) ShiftDay(delta int) error {
	date, err := timeutil.ShiftDate(e.date, delta)
	if err != nil {
		return err
	}
	e.SelectDay(date)
	return nil
}

// AddEntry appends a new entry, sorts immediately and focuses its project.
// A prefilled project is registered as if committed.
func (e *Editor) AddEntry(p Prefill) string {
	return e.addEntry(p, ControlProject)
}

// AddPause adds a pause entry starting now on today.
func (e *Editor) AddPause() string {
	return e.AddEntry(Prefill{Project: entry.PauseLabel, Comment: entry.PauseLabel})
}

// AddEmptyEntry adds an unscheduled blank entry.
func (e *Editor) AddEmptyEntry() string {
	en := entry.New("", "", "")
	e.store.Append(en)
	e.resort.Cancel()
	e.store.Sort()
	e.persist()
	e.focus = debounce.Target{EntryID: en.ID, Control: ControlProject}
	e.render()
	return en.ID
}

// Remove deletes an entry and forgets its increment/decrement state.
func (e *Editor) Remove(id string) bool {
	if !e.store.Remove(id) {
		return false
	}
	delete(e.stages, id)
	if e.focus.EntryID == id {
		e.focus = debounce.Target{}
	}
	e.persist()
	e.render()
	return true
}

// TypeProject records live typing in the project field. An unscheduled
// entry starts now; its resort is deferred so the row does not jump while
// the user types.
func (e *Editor) TypeProject(id, value string) error {
	return e.typeField(id, ControlProject, func(en *entry.Entry) { en.Project = value })
}

// TypeComment records live typing in the comment field.
func (e *Editor) TypeComment(id, value string) error {
	return e.typeField(id, ControlComment, func(en *entry.Entry) { en.Comment = value })
}

// CommitProject finalizes the project field: the value is trimmed and added
// to the registry and to the day's legacy project list. Focus moves to the
// comment field.
func (e *Editor) CommitProject(id, value string) error {
	project := strings.TrimSpace(value)
	if !e.store.Update(id, func(en *entry.Entry) { en.Project = project }) {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	e.registerProject(project)
	e.persist()
	e.focus = debounce.Target{EntryID: id, Control: ControlComment}
	e.render()
	return nil
}

// SetMinutes sets the legacy duration used while an entry is unscheduled.
func (e *Editor) SetMinutes(id string, minutes int) error {
	if minutes < 0 {
		minutes = 0
	}
	if !e.store.Update(id, func(en *entry.Entry) { en.Minutes = minutes }) {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}
	e.persist()
	e.render()
	return nil
}

// SetStart applies a typed or picked start time. Invalid text leaves the
// entry untouched. A collision is resolved backward when the new time is
// earlier than the previous one, forward otherwise. Any pending resort is
// replaced by an immediate one.
func (e *Editor) SetStart(id, value string) error {
	v := strings.TrimSpace(value)
	minutes, ok := timeutil.ParseTime(v)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidStart, value)
	}
	cur, found := e.store.Get(id)
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	dir := 1
	if prev, ok := cur.StartMinutes(); ok && minutes < prev {
		dir = -1
	}

	e.store.Update(id, func(en *entry.Entry) { en.Start = timeutil.FormatTime(minutes) })
	e.store.ResolveStart(id, dir)
	delete(e.stages, id)
	e.resort.Cancel()
	e.store.Sort()
	e.persist()
	e.focus = debounce.Target{EntryID: id, Control: ControlStart}
	e.render()
	return nil
}

// FocusStart moves focus to the start field. An unscheduled entry is given
// the current time first, as when the picker opens on it.
func (e *Editor) FocusStart(id string) error {
	cur, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	if cur.Start == "" {
		now := timeutil.NowHHMM(e.clock.Now())
		e.store.Update(id, func(en *entry.Entry) { en.Start = now })
		e.store.ResolveStart(id, 1)
		delete(e.stages, id)
		e.resort.Cancel()
		e.store.Sort()
		e.persist()
	}

	e.focus = debounce.Target{EntryID: id, Control: ControlStart}
	e.render()
	return nil
}

// AdjustStart nudges the start of an entry. The sign of delta gives the
// direction; the step size comes from the entry's press stage. The row is
// saved and redrawn in place and the resort is deferred until the presses
// stop.
func (e *Editor) AdjustStart(id string, delta int) error {
	cur, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	dir := 1
	control := ControlStartInc
	if delta < 0 {
		dir = -1
		control = ControlStartDec
	}

	now := e.clock.Now()
	current, valid := cur.StartMinutes()
	if !valid {
		current = now.Hour()*60 + now.Minute()
	}

	if e.stages == nil {
		e.stages = make(map[string]*Stage)
	}
	st, ok := e.stages[id]
	if !ok {
		st = &Stage{}
		e.stages[id] = st
	}
	next := st.Step(current, dir, now)

	e.store.Update(id, func(en *entry.Entry) { en.Start = timeutil.FormatTime(next) })
	e.store.ResolveStart(id, dir)
	e.persist()

	target := debounce.Target{EntryID: id, Control: control}
	e.focus = target
	e.resort.Schedule(target)
	e.render()
	return nil
}

// QuickProject starts work on a project. A day holding a single entry
// without a project reuses that entry; otherwise a new entry is added.
// The project is registered and focus goes to the comment field.
func (e *Editor) QuickProject(project string) string {
	if e.store.Len() == 1 && strings.TrimSpace(e.store.At(0).Project) == "" {
		id := e.store.At(0).ID
		e.store.Update(id, func(en *entry.Entry) {
			en.Project = project
			if en.Start == "" {
				en.Start = timeutil.NowHHMM(e.clock.Now())
			}
		})
		e.store.ResolveStart(id, 1)
		e.registerProject(project)
		e.persist()
		e.focus = debounce.Target{EntryID: id, Control: ControlComment}
		e.render()
		return id
	}
	return e.addEntry(Prefill{Project: project}, ControlComment)
}

// QuickComment appends "[tag]" to the focused entry's comment.
func (e *Editor) QuickComment(tag string) error {
	id := e.focus.EntryID
	cur, ok := e.store.Get(id)
	if id == "" || !ok {
		return ErrNoFocus
	}
	value := "[" + tag + "]"
	if c := strings.TrimSpace(cur.Comment); c != "" {
		value = c + " " + value
	}
	return e.TypeComment(id, value)
}

// Focus moves focus to a control of an entry.
func (e *Editor) Focus(id, control string) error {
	if _, ok := e.store.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}
	e.focus = debounce.Target{EntryID: id, Control: control}
	e.render()
	return nil
}

// MoveFocus moves the focused row by delta, clamped to the list.
func (e *Editor) MoveFocus(delta int) {
	if e.store.Len() == 0 {
		return
	}
	idx := e.store.IndexOf(e.focus.EntryID)
	if idx < 0 {
		idx = 0
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx > e.store.Len()-1 {
		idx = e.store.Len() - 1
	}
	e.focus = debounce.Target{EntryID: e.store.At(idx).ID}
	e.render()
}

// Flush runs a pending resort now. It reports whether one was pending.
func (e *Editor) Flush() bool { return e.resort.Flush() }

// CancelPending drops a pending resort without running it.
func (e *Editor) CancelPending() { e.resort.Cancel() }

func (e *Editor) addEntry(p Prefill, control string) string {
	start := p.Start
	if start == "" && timeutil.IsToday(e.date, e.clock.Now()) {
		start = timeutil.NowHHMM(e.clock.Now())
	}
	en := entry.New(p.Project, p.Comment, start)
	en.Minutes = p.Minutes

	e.store.Append(en)
	e.store.ResolveStart(en.ID, 1)
	e.registerProject(en.Project)
	e.resort.Cancel()
	e.store.Sort()
	e.persist()
	e.focus = debounce.Target{EntryID: en.ID, Control: control}
	e.render()
	return en.ID
}

// registerProject records a committed project name in the day's legacy
// list and in the registry. Blank names and pauses are skipped.
func (e *Editor) registerProject(project string) {
	project = strings.TrimSpace(project)
	if project == "" || strings.EqualFold(project, entry.PauseLabel) {
		return
	}
	if !slices.Contains(e.legacy, project) {
		e.legacy = append(e.legacy, project)
	}
	if e.projects != nil {
		if err := e.projects.EnsureProject(project); err != nil {
			e.log.Warn("failed to register project", "project", project, "err", err)
		}
	}
}

func (e *Editor) typeField(id, control string, set func(*entry.Entry)) error {
	cur, ok := e.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
	}

	autoStart := cur.Start == ""
	e.store.Update(id, func(en *entry.Entry) {
		set(en)
		if autoStart {
			en.Start = timeutil.NowHHMM(e.clock.Now())
		}
	})
	if autoStart {
		e.store.ResolveStart(id, 1)
		delete(e.stages, id)
	}
	e.persist()

	e.focus = debounce.Target{EntryID: id, Control: control}
	if autoStart {
		e.resort.Schedule(e.focus)
	}
	e.render()
	return nil
}

func (e *Editor) load(date string) {
	rec := e.persister.LoadDay(date)
	e.date = date
	e.store = NewStore(rec.Entries)
	e.store.Sort()
	e.legacy = rec.Projects
	e.stages = make(map[string]*Stage)
	e.focus = debounce.Target{}
	e.saveErr = nil

	if e.store.Len() == 0 && e.placeholder {
		e.AddEmptyEntry()
		return
	}
	e.render()
}

func (e *Editor) runResort(target debounce.Target) {
	e.store.Sort()
	e.persist()
	if target.EntryID != "" {
		if _, ok := e.store.Get(target.EntryID); ok {
			e.focus = target
		}
	}
	e.log.Debug("deferred resort ran", "date", e.date, "focus", target.EntryID, "control", target.Control)
	e.render()
}

func (e *Editor) persist() {
	rec := entry.DayRecord{Entries: e.store.Entries(), Projects: e.legacy}
	if err := e.persister.SaveDay(e.date, rec); err != nil {
		e.saveErr = err
		e.log.Error("failed to save day", "date", e.date, "err", err)
		return
	}
	e.saveErr = nil
}

func (e *Editor) render() {
	if e.renderer != nil {
		e.renderer.Render(e.Snapshot())
	}
}
