// Package cache provides a TTL-scoped JSON file cache shared by the
// external data clients. Every entry is keyed per data source and per
// request, and concurrent fetches for the same key inside one forecast
// run are deduplicated so a source is hit at most once per key.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/nightseek/nightseek/pkg/logger"
	"github.com/nightseek/nightseek/pkg/metrics"
)

// Default cache configuration constants.
const (
	defaultTTL     = 3 * time.Hour
	dirPermissions = 0o755
	filePermissions = 0o644
)

// FetchFunc produces the raw payload for a key on a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// envelope is the on-disk entry format. The fetch time travels with the
// payload so TTL checks survive file-time-mangling backup tools. The
// payload is opaque bytes; it does not have to be JSON itself.
type envelope struct {
	FetchedAt time.Time `json:"fetched_at"`
	Payload   []byte    `json:"payload"`
}

// Store is a file-backed TTL cache. Read and write failures are absorbed:
// a broken cache degrades to fetching every time, never to a failed
// forecast.
type Store struct {
	dir   string
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
	log   logger.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, ErrInvalidDir
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, err
	}

	s := &Store{
		dir: dir,
		ttl: defaultTTL,
		now: time.Now,
		log: logger.Named("cache"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GetOrFetch returns the cached payload for key when it is fresher than
// the store TTL, otherwise runs fetch once (deduplicating concurrent
// callers for the same key) and stores the result. A fetch error is
// returned to the caller; a cache write error is not.
func (s *Store) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if data, ok := s.get(key); ok {
		metrics.RecordCacheHit()
		return data, nil
	}
	metrics.RecordCacheMiss()

	v, err, _ := s.group.Do(key, func() (any, error) {
		// Another flight may have filled the entry while we queued.
		if data, ok := s.get(key); ok {
			return data, nil
		}
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.put(ctx, key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// get returns the payload when a fresh entry exists.
func (s *Store) get(key string) ([]byte, bool) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	var e envelope
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false
	}
	if s.now().Sub(e.FetchedAt) > s.ttl {
		return nil, false
	}
	return e.Payload, true
}

// put writes an entry, absorbing any failure.
func (s *Store) put(ctx context.Context, key string, payload []byte) {
	e := envelope{FetchedAt: s.now(), Payload: payload}
	raw, err := json.Marshal(e)
	if err != nil {
		metrics.RecordCacheWriteError()
		s.log.Warn(ctx, "cache entry not serializable", logger.String("key", key), logger.Error(err))
		return
	}
	if err := os.WriteFile(s.path(key), raw, filePermissions); err != nil {
		metrics.RecordCacheWriteError()
		s.log.Warn(ctx, "cache write failed", logger.String("key", key), logger.Error(err))
	}
}

// Invalidate drops the entry for key if present.
func (s *Store) Invalidate(key string) {
	_ = os.Remove(s.path(key))
}

// path maps a logical key to a stable file name. Keys carry URLs and
// coordinates, so the name is a sanitized prefix plus a hash suffix to
// stay collision-free.
func (s *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	prefix := sanitize(key)
	const maxPrefix = 40
	if len(prefix) > maxPrefix {
		prefix = prefix[:maxPrefix]
	}
	return filepath.Join(s.dir, prefix+"_"+hex.EncodeToString(sum[:8])+".json")
}

func sanitize(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
