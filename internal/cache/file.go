package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// entryName matches "<scope>_<key>.json": 6 and 10 bytes of SHA-1 in hex.
var entryName = regexp.MustCompile(`^[0-9a-fA-F]{12}_[0-9a-fA-F]{20}\.json$`)

type fileEntry struct {
	Key      string          `json:"key"`
	StoredAt time.Time       `json:"stored_at"`
	Payload  json.RawMessage `json:"payload"`
}

// FileStore is a Backend with one JSON file per key.
type FileStore struct {
	dir   string
	scope string
	ttl   time.Duration
}

var _ Backend = (*FileStore)(nil)

// NewFileStore returns a store in dir for entries of the API at baseURL.
// A zero ttl means DefaultTTL.
func NewFileStore(dir, baseURL string, ttl time.Duration) *FileStore {
	return &FileStore{dir: dir, scope: shortHash(baseURL, 6), ttl: orDefault(ttl)}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, s.scope+"_"+shortHash(key, 10)+".json")
}

// Get returns the payload under key unless it is missing, unreadable or
// older than the TTL.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool) {
	if Disabled() {
		return nil, false
	}
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var e fileEntry
	if json.Unmarshal(raw, &e) != nil || e.Key != key || time.Since(e.StoredAt) > s.ttl {
		return nil, false
	}
	return e.Payload, true
}

// Put writes value under key through a temporary file and a rename, so
// readers never see a partial entry. Invalid JSON is not stored.
func (s *FileStore) Put(_ context.Context, key string, value []byte) {
	if Disabled() || !json.Valid(value) {
		return
	}
	raw, err := json.Marshal(fileEntry{Key: key, StoredAt: time.Now(), Payload: value})
	if err != nil {
		return
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return
	}
	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return
	}
	_, werr := tmp.Write(raw)
	cerr := tmp.Close()
	if werr != nil || cerr != nil || os.Rename(tmp.Name(), s.path(key)) != nil {
		_ = os.Remove(tmp.Name())
	}
}

// Clear removes the entries of this store's base URL.
func (s *FileStore) Clear(context.Context) error {
	return removeEntries(s.dir, s.scope+"_")
}

// ClearAll removes the entries of every base URL from dir. Files that do
// not look like cache entries are kept.
func ClearAll(dir string) error {
	return removeEntries(dir, "")
}

func removeEntries(dir, prefix string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !entryName.MatchString(name) || !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Usage counts the cache entries in dir and their total size. A missing
// directory is empty.
func Usage(dir string) (entries int, size int64, err error) {
	list, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, err
	}
	for _, e := range list {
		if e.IsDir() || !entryName.MatchString(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		entries++
		size += info.Size()
	}
	return entries, size, nil
}
