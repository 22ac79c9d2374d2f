// Package cache stores API data payloads by request key.
//
// A FileStore keeps one file per entry under the user cache directory; a
// RedisStore shares entries between machines. Entries are scoped per API
// base URL. Setting JMF_NO_CACHE disables both.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"
)

// DefaultTTL applies when a store is built with a zero TTL.
const DefaultTTL = 5 * time.Minute

// Backend is a key-value store for raw payloads. Reads and writes never
// fail a request: errors count as a miss or a dropped write.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte)
	// Clear removes every entry of this backend's scope.
	Clear(ctx context.Context) error
}

// DefaultDir returns "$XDG_CACHE_HOME/jmf" or the platform equivalent.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "jmf"), nil
}

// Disabled reports whether JMF_NO_CACHE is set.
func Disabled() bool {
	return os.Getenv("JMF_NO_CACHE") != ""
}

func orDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return DefaultTTL
	}
	return ttl
}

// shortHash is the hex form of the first n bytes of the SHA-1 of s.
func shortHash(s string, n int) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:n])
}
