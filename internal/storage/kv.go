// Package storage persists day records and the project registry in a
// string-keyed store. Two backends are available: a directory tree managed
// by diskv and a single-table SQLite database.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xolan/tsheet/internal/osutil"
)

const (
	// AppName is the application name used for the data directory.
	AppName = "tsheet"

	// BackendDiskv stores one file per key below the data directory.
	BackendDiskv = "diskv"
	// BackendSQLite stores every key in one SQLite database file.
	BackendSQLite = "sqlite"

	// DBFile is the SQLite database file name inside the data directory.
	DBFile = "tsheet.db"
)

var (
	// ErrNotFound is returned by KV.Get for a key that was never written.
	ErrNotFound = errors.New("key not found")
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// KV is a minimal string-keyed byte store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns every key starting with prefix in ascending order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

// Backends lists the accepted backend names.
func Backends() []string {
	return []string{BackendDiskv, BackendSQLite}
}

// Open creates the data directory if needed and opens the named backend in it.
func Open(backend, dataDir string) (KV, error) {
	if err := osutil.Provider.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendDiskv:
		return NewDiskv(dataDir), nil
	case BackendSQLite:
		return NewSQLite(filepath.Join(dataDir, DBFile))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// GetDataDir returns the default data directory below the user config dir.
func GetDataDir() (string, error) {
	return osutil.AppDir(AppName, "data")
}
