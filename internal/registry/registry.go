// Package registry keeps the global, alphabetically sorted list of project
// names offered as suggestions across every day.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/xolan/tsheet/internal/entry"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var (
	// ErrEmptyName is returned when a project name is blank after trimming.
	ErrEmptyName = errors.New("project name cannot be empty")
	// ErrDuplicate is returned when a rename targets an existing project.
	ErrDuplicate = errors.New("project already exists")
	// ErrNotFound is returned for a project that is not registered.
	ErrNotFound = errors.New("project not found")
)

// MetaStore loads and saves the persisted registry.
type MetaStore interface {
	LoadMeta() entry.Meta
	SaveMeta(entry.Meta) error
}

// Registry is the set of known project names. Names are case-sensitive and
// kept in locale collation order.
type Registry struct {
	mu       sync.Mutex
	store    MetaStore
	compare  func(a, b string) int
	projects []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLocale orders names with the collation rules of tag.
func WithLocale(tag language.Tag) Option {
	return func(r *Registry) {
		r.compare = Collator(tag)
	}
}

// New loads the registry from store.
func New(store MetaStore, opts ...Option) *Registry {
	r := &Registry{store: store, compare: Collator(language.Und)}
	for _, opt := range opts {
		opt(r)
	}
	r.Reload()
	return r
}

// Collator returns a comparison function using the collation rules of tag.
// The returned function is safe for concurrent use.
func Collator(tag language.Tag) func(a, b string) int {
	var mu sync.Mutex
	c := collate.New(tag)
	return func(a, b string) int {
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(a, b)
	}
}

// Compare orders two names the way the registry does.
func (r *Registry) Compare(a, b string) int {
	return r.compare(a, b)
}

// Reload replaces the in-memory list with the stored one.
func (r *Registry) Reload() {
	m := r.store.LoadMeta()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.projects = r.projects[:0]
	for _, p := range m.Projects {
		p = strings.TrimSpace(p)
		if p != "" && !slices.Contains(r.projects, p) {
			r.projects = append(r.projects, p)
		}
	}
	slices.SortFunc(r.projects, r.compare)
}

// List returns the registered names in order.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.projects)
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.projects, strings.TrimSpace(name))
}

// EnsureProject registers name if it is new. Blank names are ignored.
func (r *Registry) EnsureProject(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.projects, name) {
		return nil
	}
	return r.saveLocked(append(slices.Clone(r.projects), name))
}

// Rename changes a registered name. Day records are not touched.
func (r *Registry) Rename(oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ErrEmptyName
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.projects, oldName)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}
	if newName == oldName {
		return nil
	}
	if slices.Contains(r.projects, newName) {
		return fmt.Errorf("%w: %s", ErrDuplicate, newName)
	}

	next := slices.Clone(r.projects)
	next[i] = newName
	return r.saveLocked(next)
}

// Remove drops a registered name. Day records are not touched.
func (r *Registry) Remove(name string) error {
	name = strings.TrimSpace(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.projects, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return r.saveLocked(slices.Delete(slices.Clone(r.projects), i, i+1))
}

func (r *Registry) saveLocked(projects []string) error {
	slices.SortFunc(projects, r.compare)
	if err := r.store.SaveMeta(entry.Meta{Version: entry.MetaVersion, Projects: projects}); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	r.projects = projects
	return nil
}
