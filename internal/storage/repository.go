package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/xolan/tsheet/internal/entry"
	"github.com/xolan/tsheet/internal/timeutil"
)

const (
	// KeyPrefix namespaces every key written by the repository.
	KeyPrefix = "ts:"
	// MetaKey holds the project registry.
	MetaKey = KeyPrefix + "meta"
)

// DayKey returns the key of a day record.
func DayKey(date string) string {
	return KeyPrefix + date
}

// Repository reads and writes day records and the registry meta record.
//
// Reads never fail: a missing record is empty and a record that cannot be
// read or decoded is logged and treated as empty.
type Repository struct {
	kv  KV
	log *log.Logger
}

// NewRepository wraps kv. A nil logger discards warnings.
func NewRepository(kv KV, logger *log.Logger) *Repository {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Repository{kv: kv, log: logger}
}

// LoadDay returns the record stored for date.
func (r *Repository) LoadDay(date string) entry.DayRecord {
	rec := entry.DayRecord{Entries: []entry.Entry{}, Projects: []string{}}

	raw, err := r.kv.Get(context.Background(), DayKey(date))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn("failed to read day", "date", date, "err", err)
		}
		return rec
	}

	var stored entry.DayRecord
	if err := json.Unmarshal(raw, &stored); err != nil {
		r.log.Warn("corrupt day record", "date", date, "err", err)
		return rec
	}
	if stored.Entries != nil {
		rec.Entries = stored.Entries
	}
	if stored.Projects != nil {
		rec.Projects = stored.Projects
	}
	return rec
}

// SaveDay writes the record for date.
func (r *Repository) SaveDay(date string, rec entry.DayRecord) error {
	if rec.Entries == nil {
		rec.Entries = []entry.Entry{}
	}
	if rec.Projects == nil {
		rec.Projects = []string{}
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := r.kv.Put(context.Background(), DayKey(date), data); err != nil {
		return fmt.Errorf("save day %s: %w", date, err)
	}
	return nil
}

// DeleteDay removes the record for date.
func (r *Repository) DeleteDay(date string) error {
	return r.kv.Delete(context.Background(), DayKey(date))
}

// LoadMeta returns the registry meta record, upgrading older layouts.
// An upgraded record is written back so the upgrade runs once.
func (r *Repository) LoadMeta() entry.Meta {
	empty := entry.Meta{Version: entry.MetaVersion, Projects: []string{}}

	raw, err := r.kv.Get(context.Background(), MetaKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn("failed to read meta", "err", err)
		}
		return empty
	}

	var stored storedMeta
	if err := json.Unmarshal(raw, &stored); err != nil {
		r.log.Warn("corrupt meta record", "err", err)
		return empty
	}

	from := stored.Version
	if migrateMeta(&stored) {
		r.log.Info("upgraded meta record", "from", from, "to", stored.Version)
		if err := r.SaveMeta(stored.meta()); err != nil {
			r.log.Warn("failed to save upgraded meta", "err", err)
		}
	}
	return stored.meta()
}

// SaveMeta writes the registry meta record in the current layout.
func (r *Repository) SaveMeta(m entry.Meta) error {
	m.Version = entry.MetaVersion
	if m.Projects == nil {
		m.Projects = []string{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	if err := r.kv.Put(context.Background(), MetaKey, data); err != nil {
		return fmt.Errorf("save meta: %w", err)
	}
	return nil
}

// Days returns the stored dates in ascending order. A year of 0 lists
// every stored date.
func (r *Repository) Days(ctx context.Context, year int) ([]string, error) {
	prefix := KeyPrefix
	if year > 0 {
		prefix += strconv.Itoa(year) + "-"
	}
	keys, err := r.kv.Keys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var days []string
	for _, key := range keys {
		date := strings.TrimPrefix(key, KeyPrefix)
		if _, err := time.Parse(timeutil.DateLayout, date); err != nil {
			continue
		}
		days = append(days, date)
	}
	return days, nil
}

// WatchDays streams the dates whose records were changed on disk, by this
// process or another one. Backends without change notification return
// ErrWatchUnsupported.
func (r *Repository) WatchDays(ctx context.Context) (<-chan string, error) {
	w, ok := r.kv.(Watcher)
	if !ok {
		return nil, ErrWatchUnsupported
	}
	keys, err := w.Watch(ctx)
	if err != nil {
		return nil, err
	}

	days := make(chan string, cap(keys))
	go func() {
		defer close(days)
		for key := range keys {
			if key == MetaKey || !strings.HasPrefix(key, KeyPrefix) {
				continue
			}
			select {
			case days <- strings.TrimPrefix(key, KeyPrefix):
			case <-ctx.Done():
				return
			}
		}
	}()
	return days, nil
}

// ParseWarning describes a stored record that could not be decoded.
type ParseWarning struct {
	Key   string
	Error string
}

// Health summarizes the state of the stored records.
type Health struct {
	TotalRecords   int
	ValidRecords   int
	CorruptRecords int
	Warnings       []ParseWarning
}

// Health reads every record and reports the ones that fail to decode.
func (r *Repository) Health(ctx context.Context) (Health, error) {
	h := Health{Warnings: []ParseWarning{}}

	keys, err := r.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return h, err
	}

	for _, key := range keys {
		h.TotalRecords++
		raw, err := r.kv.Get(ctx, key)
		if err == nil {
			if key == MetaKey {
				err = json.Unmarshal(raw, &storedMeta{})
			} else {
				err = json.Unmarshal(raw, &entry.DayRecord{})
			}
		}
		if err != nil {
			h.CorruptRecords++
			h.Warnings = append(h.Warnings, ParseWarning{Key: key, Error: err.Error()})
			continue
		}
		h.ValidRecords++
	}
	return h, nil
}

// Close releases the underlying store.
func (r *Repository) Close() error {
	return r.kv.Close()
}
