package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/peterbourgon/diskv/v3"
)

// ErrWatchUnsupported is returned by Watch for backends that cannot report
// changes made by other processes.
var ErrWatchUnsupported = errors.New("storage backend does not support watching")

// Watcher is implemented by backends that report external writes.
type Watcher interface {
	// Watch streams the keys that changed on disk until ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}

// Watch reports every key written, renamed or removed below the store.
// Events are dropped when the consumer lags; a later event for the same key
// still arrives.
func (s *Diskv) Watch(ctx context.Context) (<-chan string, error) {
	base := s.d.BasePath
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dirs, err := collectDirs(base)
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	keys := make(chan string, 64)
	go func() {
		defer close(keys)
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						_ = watcher.Add(evt.Name)
						continue
					}
				}
				key := keyForPath(base, evt.Name)
				if key == "" {
					continue
				}
				select {
				case keys <- key:
				default:
				}
			}
		}
	}()

	return keys, nil
}

func keyForPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	parts := strings.Split(rel, string(filepath.Separator))
	return pathToKeyTransform(&diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	})
}

func collectDirs(base string) ([]string, error) {
	dirs := []string{base}
	err := filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() && path != base {
			dirs = append(dirs, path)
		}
		return nil
	})
	return dirs, err
}
