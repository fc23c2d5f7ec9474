package entry

import (
	"strings"

	"github.com/google/uuid"
	"github.com/xolan/tsheet/internal/timeutil"
)

// PauseLabel is the project and comment given to pause entries.
const PauseLabel = "Pause"

// Entry represents one line of a day's timesheet.
//
// Start is an "HH:MM" string or empty when the entry is not scheduled yet.
// Minutes is a legacy duration that only counts while Start is not a valid time.
type Entry struct {
	ID      string `json:"id"`
	Project string `json:"project"`
	Comment string `json:"comment"`
	Minutes int    `json:"minutes"`
	Start   string `json:"start"`
}

// DayRecord is the persisted shape of a single day.
type DayRecord struct {
	Entries []Entry `json:"entries"`
	// Projects is the legacy per-day project list. The registry is authoritative.
	Projects []string `json:"projects"`
}

// MetaVersion is the current layout of the persisted Meta record.
const MetaVersion = 1

// Meta is the persisted project registry shared by every day.
type Meta struct {
	Version  int      `json:"version"`
	Projects []string `json:"projects"`
}

// NewID returns a fresh opaque entry identifier.
func NewID() string {
	return uuid.NewString()
}

// New returns an entry with a fresh ID.
func New(project, comment, start string) Entry {
	return Entry{ID: NewID(), Project: project, Comment: comment, Start: start}
}

// NewPause returns a pause entry starting at start.
func NewPause(start string) Entry {
	return New(PauseLabel, PauseLabel, start)
}

// IsPause reports whether the entry marks a break rather than billable work.
func (e Entry) IsPause() bool {
	return strings.EqualFold(strings.TrimSpace(e.Project), PauseLabel)
}

// StartMinutes returns the parsed start time and whether it is valid.
func (e Entry) StartMinutes() (int, bool) {
	return timeutil.ParseTime(e.Start)
}

// HasValidStart reports whether Start holds a valid HH:MM value.
func (e Entry) HasValidStart() bool {
	_, ok := e.StartMinutes()
	return ok
}

// IsBlank reports whether nothing has been typed into the entry yet.
func (e Entry) IsBlank() bool {
	return strings.TrimSpace(e.Project) == "" && strings.TrimSpace(e.Comment) == ""
}

// Clone returns a copy of the record that shares no slices with r.
func (r DayRecord) Clone() DayRecord {
	out := DayRecord{}
	if r.Entries != nil {
		out.Entries = append([]Entry(nil), r.Entries...)
	}
	if r.Projects != nil {
		out.Projects = append([]string(nil), r.Projects...)
	}
	return out
}
