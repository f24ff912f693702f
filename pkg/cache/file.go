package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores entries as JSON files under a directory, one
// subdirectory per key kind:
//
//	<dir>/image/3f/a9c1....json
//	<dir>/layout/07/e4b2....json
//
// Writes go through a temporary file and a rename, so concurrent image
// loads writing the same key never leave a torn entry behind.
type FileCache struct {
	dir string
}

// NewFileCache creates a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

type fileEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (e fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get implements Cache. Expired and unreadable entries are removed and
// reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	e, err := readEntry(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil || e.Key != key || e.expired(time.Now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set implements Cache.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := fileEntry{Key: key, Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl)
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".entry-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Delete implements Cache.
func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Close implements Cache.
func (c *FileCache) Close() error { return nil }

// Clear removes every entry of the given kind, or every entry when kind is
// empty, and returns how many were removed.
func (c *FileCache) Clear(kind string) (int, error) {
	return c.sweep(kind, func(fileEntry, error) bool { return true })
}

// Prune removes expired and unreadable entries and returns how many were
// removed.
func (c *FileCache) Prune() (int, error) {
	now := time.Now()
	return c.sweep("", func(e fileEntry, err error) bool {
		return err != nil || e.expired(now)
	})
}

// Count returns the number of entries per kind, expired ones included.
func (c *FileCache) Count() (map[string]int, error) {
	counts := make(map[string]int)
	err := c.walk("", func(kind, _ string) error {
		counts[kind]++
		return nil
	})
	return counts, err
}

func (c *FileCache) sweep(kind string, remove func(fileEntry, error) bool) (int, error) {
	n := 0
	err := c.walk(kind, func(_, path string) error {
		if remove(readEntry(path)) {
			if err := os.Remove(path); err == nil {
				n++
			}
		}
		return nil
	})
	c.removeEmptyDirs()
	return n, err
}

// walk calls fn for every entry file under the given kind (all kinds when
// empty). Temporary files are skipped.
func (c *FileCache) walk(kind string, fn func(kind, path string) error) error {
	root := c.dir
	if kind != "" {
		root = filepath.Join(c.dir, kind)
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}
		rel, _ := filepath.Rel(c.dir, path)
		return fn(strings.SplitN(filepath.ToSlash(rel), "/", 2)[0], path)
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) removeEmptyDirs() {
	var dirs []string
	_ = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && d.IsDir() && path != c.dir {
			dirs = append(dirs, path)
		}
		return nil
	})
	// Deepest first; os.Remove fails on non-empty directories.
	for i := len(dirs) - 1; i >= 0; i-- {
		_ = os.Remove(dirs[i])
	}
}

// path maps key to <dir>/<kind>/<hh>/<rest>.json, where hh is the first byte
// of the key's hash.
func (c *FileCache) path(key string) string {
	kind := KindOf(key)
	if kind == "" {
		kind = "other"
	}
	h := Hash([]byte(key))
	return filepath.Join(c.dir, kind, h[:2], h[2:]+".json")
}

func readEntry(path string) (fileEntry, error) {
	var e fileEntry
	raw, err := os.ReadFile(path)
	if err != nil {
		return e, err
	}
	err = json.Unmarshal(raw, &e)
	return e, err
}

var _ Cache = (*FileCache)(nil)
