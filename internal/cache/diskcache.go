package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// fingerprintFile names the version marker written at the cache root.
// version mismatch (schema change, adapter upgrade) triggers a full
// rebuild rather than an attempt to interpret stale entries.
const fingerprintFile = "FINGERPRINT"

// DiskCache persists Cache entries under dir between runs, one file per
// key, keyed by the content hash so a corrupted or missing entry is always
// reconstructible from source.
type DiskCache struct {
	dir string
}

// Open prepares dir as a disk cache for the given version string. If an
// existing FINGERPRINT disagrees with version, every entry under dir is
// discarded before use.
func Open(dir, version string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir %q: %w", dir, err)
	}

	fpPath := filepath.Join(dir, fingerprintFile)
	existing, err := os.ReadFile(fpPath)
	if err != nil || string(existing) != version {
		if rmErr := clearDir(dir); rmErr != nil {
			return nil, fmt.Errorf("cache: clear stale entries in %q: %w", dir, rmErr)
		}
		if werr := writeAtomic(fpPath, []byte(version)); werr != nil {
			return nil, fmt.Errorf("cache: write fingerprint: %w", werr)
		}
	}

	return &DiskCache{dir: dir}, nil
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (d *DiskCache) entryPath(key Key) string {
	return filepath.Join(d.dir, strconv.FormatUint(uint64(key), 16)+".json")
}

// Load reads the entry for key into out. A missing or corrupt entry
// reports false and is never an error — the caller recomputes and calls
// Store to rebuild it.
func (d *DiskCache) Load(key Key, out any) bool {
	data, err := os.ReadFile(d.entryPath(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false
	}
	return true
}

// Store persists value under key using write-temp-then-rename so a reader
// never observes a partially written entry. The first writer for a key
// wins: when a readable JSON entry for key already exists, Store leaves it
// in place and returns nil; a corrupt entry is overwritten.
func (d *DiskCache) Store(key Key, value any) error {
	path := d.entryPath(key)
	if existing, err := os.ReadFile(path); err == nil && json.Valid(existing) {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal entry: %w", err)
	}
	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
