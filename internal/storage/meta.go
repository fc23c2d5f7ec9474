package storage

import (
	"fmt"
	"slices"

	"github.com/xolan/tsheet/internal/entry"
)

// storedMeta accepts every layout the meta record has had.
type storedMeta struct {
	Version  int      `json:"version"`
	Projects []string `json:"projects"`
	// v0 grouped projects under clients
	ProjectsByClient map[string][]any `json:"projectsByClient,omitempty"`
}

func (m storedMeta) meta() entry.Meta {
	out := entry.Meta{Version: m.Version, Projects: m.Projects}
	if out.Projects == nil {
		out.Projects = []string{}
	}
	return out
}

// metaMigrations[n] upgrades a record of version n to version n+1.
var metaMigrations = [...]func(*storedMeta){
	migrateMeta0to1,
}

// migrateMeta runs every pending upgrade and reports whether any ran.
func migrateMeta(m *storedMeta) bool {
	if m.Version < 0 {
		m.Version = 0
	}
	changed := false
	for m.Version < entry.MetaVersion {
		metaMigrations[m.Version](m)
		changed = true
	}
	return changed
}

// migrateMeta0to1 flattens the per-client project lists into one sorted list.
// A v0 record that already carries a flat list keeps it.
func migrateMeta0to1(m *storedMeta) {
	if m.Projects == nil {
		var union []string
		for _, projects := range m.ProjectsByClient {
			for _, p := range projects {
				name := fmt.Sprint(p)
				if !slices.Contains(union, name) {
					union = append(union, name)
				}
			}
		}
		slices.Sort(union)
		m.Projects = union
	}
	m.ProjectsByClient = nil
	m.Version = 1
}
