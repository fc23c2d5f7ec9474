package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xolan/tsheet/internal/entry"
)

func newRepos(t *testing.T) map[string]*Repository {
	t.Helper()
	out := make(map[string]*Repository)
	for name, kv := range openBackends(t) {
		out[name] = NewRepository(kv, nil)
	}
	return out
}

func TestRepository_DayRoundTrip(t *testing.T) {
	for name, repo := range newRepos(t) {
		t.Run(name, func(t *testing.T) {
			rec := entry.DayRecord{
				Entries: []entry.Entry{
					{ID: "b", Project: "Acme", Comment: "review", Start: "10:00"},
					{ID: "a", Project: "Pause", Comment: "Pause", Start: "09:00"},
					{ID: "u", Minutes: 30},
				},
				Projects: []string{"Acme"},
			}
			require.NoError(t, repo.SaveDay("2024-01-02", rec))

			got := repo.LoadDay("2024-01-02")
			assert.Equal(t, rec, got)
		})
	}
}

func TestRepository_MissingDayIsEmpty(t *testing.T) {
	for name, repo := range newRepos(t) {
		t.Run(name, func(t *testing.T) {
			got := repo.LoadDay("2030-01-01")
			assert.NotNil(t, got.Entries)
			assert.NotNil(t, got.Projects)
			assert.Empty(t, got.Entries)
		})
	}
}

func TestRepository_CorruptDayDegrades(t *testing.T) {
	ctx := context.Background()

	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			repo := NewRepository(kv, log.New(&buf))

			require.NoError(t, kv.Put(ctx, DayKey("2024-01-02"), []byte(`{"entries": [`)))

			got := repo.LoadDay("2024-01-02")
			assert.Empty(t, got.Entries)
			assert.Contains(t, buf.String(), "corrupt day record")
		})
	}
}

func TestRepository_PartialRecord(t *testing.T) {
	ctx := context.Background()
	kv := NewDiskv(t.TempDir())
	repo := NewRepository(kv, nil)

	require.NoError(t, kv.Put(ctx, DayKey("2024-01-02"), []byte(`{"entries":[{"id":"x","start":"09:00"}]}`)))

	got := repo.LoadDay("2024-01-02")
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "09:00", got.Entries[0].Start)
	assert.NotNil(t, got.Projects)
}

func TestRepository_MetaMigration(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		stored   string
		expected []string
	}{
		{
			name:     "projects by client",
			stored:   `{"clients":["c1","c2"],"projectsByClient":{"c1":["Zeta","Alpha"],"c2":["Alpha",7]}}`,
			expected: []string{"7", "Alpha", "Zeta"},
		},
		{
			name:     "unversioned flat list",
			stored:   `{"projects":["Acme"]}`,
			expected: []string{"Acme"},
		},
		{
			name:     "empty legacy record",
			stored:   `{}`,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewDiskv(t.TempDir())
			repo := NewRepository(kv, nil)
			require.NoError(t, kv.Put(ctx, MetaKey, []byte(tt.stored)))

			m := repo.LoadMeta()
			assert.Equal(t, entry.MetaVersion, m.Version)
			assert.Equal(t, tt.expected, m.Projects)

			raw, err := kv.Get(ctx, MetaKey)
			require.NoError(t, err)
			var saved map[string]any
			require.NoError(t, json.Unmarshal(raw, &saved))
			assert.EqualValues(t, entry.MetaVersion, saved["version"])
			assert.NotContains(t, saved, "projectsByClient")
		})
	}
}

func TestRepository_MetaRoundTrip(t *testing.T) {
	for name, repo := range newRepos(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []string{}, repo.LoadMeta().Projects)

			require.NoError(t, repo.SaveMeta(entry.Meta{Projects: []string{"Acme", "Beta"}}))
			m := repo.LoadMeta()
			assert.Equal(t, entry.MetaVersion, m.Version)
			assert.Equal(t, []string{"Acme", "Beta"}, m.Projects)
		})
	}
}

func TestRepository_CorruptMeta(t *testing.T) {
	var buf bytes.Buffer
	kv := NewDiskv(t.TempDir())
	repo := NewRepository(kv, log.New(&buf))
	require.NoError(t, kv.Put(context.Background(), MetaKey, []byte(`nope`)))

	m := repo.LoadMeta()
	assert.Empty(t, m.Projects)
	assert.Contains(t, buf.String(), "corrupt meta record")
}

func TestRepository_Days(t *testing.T) {
	ctx := context.Background()

	for name, repo := range newRepos(t) {
		t.Run(name, func(t *testing.T) {
			for _, d := range []string{"2024-03-01", "2023-12-31", "2024-01-15"} {
				require.NoError(t, repo.SaveDay(d, entry.DayRecord{}))
			}
			require.NoError(t, repo.SaveMeta(entry.Meta{}))

			days, err := repo.Days(ctx, 2024)
			require.NoError(t, err)
			assert.Equal(t, []string{"2024-01-15", "2024-03-01"}, days)

			all, err := repo.Days(ctx, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"2023-12-31", "2024-01-15", "2024-03-01"}, all)

			require.NoError(t, repo.DeleteDay("2024-03-01"))
			days, err = repo.Days(ctx, 2024)
			require.NoError(t, err)
			assert.Equal(t, []string{"2024-01-15"}, days)
		})
	}
}

func TestRepository_Health(t *testing.T) {
	ctx := context.Background()

	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			repo := NewRepository(kv, nil)
			require.NoError(t, repo.SaveDay("2024-01-01", entry.DayRecord{}))
			require.NoError(t, repo.SaveMeta(entry.Meta{}))
			require.NoError(t, kv.Put(ctx, DayKey("2024-01-02"), []byte(`garbage`)))

			h, err := repo.Health(ctx)
			require.NoError(t, err)
			assert.Equal(t, 3, h.TotalRecords)
			assert.Equal(t, 2, h.ValidRecords)
			assert.Equal(t, 1, h.CorruptRecords)
			require.Len(t, h.Warnings, 1)
			assert.Equal(t, DayKey("2024-01-02"), h.Warnings[0].Key)
		})
	}
}

func TestRepository_WatchDays(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// a second process writing to the same directory
	other := NewRepository(NewDiskv(dir), nil)
	require.NoError(t, other.SaveDay("2024-01-02", entry.DayRecord{}))

	watcher := NewRepository(NewDiskv(dir), nil)
	days, err := watcher.WatchDays(ctx)
	require.NoError(t, err)

	require.NoError(t, other.SaveMeta(entry.Meta{}))
	require.NoError(t, other.SaveDay("2024-01-02", entry.DayRecord{Projects: []string{"Acme"}}))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case date := <-days:
			if date == "2024-01-02" {
				return
			}
		case <-deadline:
			t.Fatal("no change event for 2024-01-02")
		}
	}
}

func TestRepository_SeesExternalWrites(t *testing.T) {
	dir := t.TempDir()
	mine := NewRepository(NewDiskv(dir), nil)
	other := NewRepository(NewDiskv(dir), nil)

	require.NoError(t, mine.SaveDay("2024-01-02", entry.DayRecord{
		Entries: []entry.Entry{{ID: "a", Project: "mine", Start: "09:00"}},
	}))
	require.Equal(t, "mine", mine.LoadDay("2024-01-02").Entries[0].Project)

	require.NoError(t, other.SaveDay("2024-01-02", entry.DayRecord{
		Entries: []entry.Entry{{ID: "a", Project: "external", Start: "09:00"}},
	}))

	got := mine.LoadDay("2024-01-02")
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "external", got.Entries[0].Project)
}

func TestRepository_WatchUnsupported(t *testing.T) {
	db, err := NewSQLite(filepath.Join(t.TempDir(), DBFile))
	require.NoError(t, err)
	repo := NewRepository(db, nil)
	defer func() { _ = repo.Close() }()

	_, err = repo.WatchDays(context.Background())
	assert.ErrorIs(t, err, ErrWatchUnsupported)
}
