package storage

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Diskv is a KV backed by one file per key.
//
// Keys are laid out by namespace and date so that a year or a month can be
// listed by walking a single directory: "ts:2024-01-02" is stored at
// ts/2024/01/02 and "ts:meta" at ts/meta.
type Diskv struct {
	d *diskv.Diskv
}

// NewDiskv returns a Diskv rooted at dataDir. Reads are not cached: other
// processes write the same files and a Get after a watch event must see them.
func NewDiskv(dataDir string) *Diskv {
	return &Diskv{d: diskv.New(diskv.Options{
		BasePath:          filepath.Join(dataDir, "store"),
		TempDir:           filepath.Join(dataDir, "tmp"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      0,
	})}
}

func (s *Diskv) Get(_ context.Context, key string) ([]byte, error) {
	val, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return val, nil
}

func (s *Diskv) Put(_ context.Context, key string, value []byte) error {
	return s.d.Write(key, value)
}

func (s *Diskv) Delete(_ context.Context, key string) error {
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Diskv) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range s.d.KeysPrefix(prefix, ctx.Done()) {
		keys = append(keys, key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op; every write is flushed to disk before Put returns.
func (s *Diskv) Close() error { return nil }

func keyToPathTransform(key string) *diskv.PathKey {
	ns, rest, ok := strings.Cut(key, ":")
	if !ok {
		return &diskv.PathKey{FileName: key}
	}
	parts := strings.Split(rest, "-")
	return &diskv.PathKey{
		Path:     append([]string{ns}, parts[:len(parts)-1]...),
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	rest := append(append([]string{}, pathKey.Path[1:]...), pathKey.FileName)
	return pathKey.Path[0] + ":" + strings.Join(rest, "-")
}
