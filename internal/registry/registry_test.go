package registry

import (
	"errors"
	"slices"
	"testing"

	"github.com/xolan/tsheet/internal/entry"
	"golang.org/x/text/language"
)

type memMeta struct {
	meta  entry.Meta
	saves int
	err   error
}

func (m *memMeta) LoadMeta() entry.Meta { return m.meta }

func (m *memMeta) SaveMeta(meta entry.Meta) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.meta = meta
	return nil
}

func TestNew_SortsAndDedupes(t *testing.T) {
	store := &memMeta{meta: entry.Meta{Projects: []string{"Zeta", "beta", " Alpha", "Alpha", "", "éclair", "delta"}}}
	r := New(store)

	expected := []string{"Alpha", "beta", "delta", "éclair", "Zeta"}
	if got := r.List(); !slices.Equal(got, expected) {
		t.Errorf("List() = %v, expected %v", got, expected)
	}
	if store.saves != 0 {
		t.Error("loading should not write")
	}
}

func TestEnsureProject(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		expected  []string
		wantSaves int
	}{
		{"new project", "Beta", []string{"Acme", "Beta"}, 1},
		{"trimmed", "  Beta ", []string{"Acme", "Beta"}, 1},
		{"existing", "Acme", []string{"Acme"}, 0},
		{"case sensitive", "acme", []string{"acme", "Acme"}, 1},
		{"blank ignored", "   ", []string{"Acme"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memMeta{meta: entry.Meta{Projects: []string{"Acme"}}}
			r := New(store)

			if err := r.EnsureProject(tt.input); err != nil {
				t.Fatalf("EnsureProject() error = %v", err)
			}
			if got := r.List(); !slices.Equal(got, tt.expected) {
				t.Errorf("List() = %v, expected %v", got, tt.expected)
			}
			if store.saves != tt.wantSaves {
				t.Errorf("saves = %d, expected %d", store.saves, tt.wantSaves)
			}
			if tt.wantSaves > 0 && store.meta.Version != entry.MetaVersion {
				t.Errorf("saved version = %d, expected %d", store.meta.Version, entry.MetaVersion)
			}
		})
	}
}

func TestEnsureProject_SaveError(t *testing.T) {
	store := &memMeta{err: errors.New("disk full")}
	r := New(store)

	if err := r.EnsureProject("Acme"); err == nil {
		t.Fatal("expected error")
	}
	if r.Contains("Acme") {
		t.Error("failed save should not change the list")
	}
}

func TestRename(t *testing.T) {
	tests := []struct {
		name     string
		from     string
		to       string
		wantErr  error
		expected []string
	}{
		{"rename", "Beta", "Gamma", nil, []string{"Acme", "Gamma"}},
		{"resorts", "Acme", "Zulu", nil, []string{"Beta", "Zulu"}},
		{"same name", "Acme", " Acme ", nil, []string{"Acme", "Beta"}},
		{"empty", "Acme", "  ", ErrEmptyName, []string{"Acme", "Beta"}},
		{"duplicate", "Acme", "Beta", ErrDuplicate, []string{"Acme", "Beta"}},
		{"unknown", "Nope", "X", ErrNotFound, []string{"Acme", "Beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&memMeta{meta: entry.Meta{Projects: []string{"Acme", "Beta"}}})

			err := r.Rename(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Rename() error = %v, expected %v", err, tt.wantErr)
			}
			if got := r.List(); !slices.Equal(got, tt.expected) {
				t.Errorf("List() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	store := &memMeta{meta: entry.Meta{Projects: []string{"Acme", "Beta"}}}
	r := New(store)

	if err := r.Remove("Acme"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if got := r.List(); !slices.Equal(got, []string{"Beta"}) {
		t.Errorf("List() = %v", got)
	}
	if !slices.Equal(store.meta.Projects, []string{"Beta"}) {
		t.Errorf("stored = %v", store.meta.Projects)
	}
	if err := r.Remove("Acme"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove() error = %v, expected ErrNotFound", err)
	}
}

func TestReload(t *testing.T) {
	store := &memMeta{}
	r := New(store)
	store.meta.Projects = []string{"Later"}
	r.Reload()
	if !r.Contains("Later") {
		t.Error("Reload() did not pick up stored projects")
	}
}

func TestCollator(t *testing.T) {
	cmp := Collator(language.Und)
	if cmp("apple", "Banana") >= 0 {
		t.Error("collation should ignore case at the primary level")
	}
	if cmp("Acme", "Acme") != 0 {
		t.Error("equal strings should compare equal")
	}

	r := New(&memMeta{}, WithLocale(language.French))
	if r.Compare("b", "a") <= 0 {
		t.Error("Compare(b, a) should be positive")
	}
}
