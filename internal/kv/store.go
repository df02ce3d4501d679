// Package kv is a typed, write-through key/value store over a durable
// medium.
//
// Each key is hydrated from the medium at most once per Store. After that the
// in-memory copy is the source of truth for the rest of the session, even if
// hydration failed or the medium later refuses writes. Medium and encoding
// failures are logged and counted but never returned to the caller.
//
//	s := kv.New(medium)
//	points := kv.Get(s, "points", 0)
//	kv.Update(s, "points", 0, func(p int) int { return p + 10 })
//
// There are no cross-key transactions.
package kv

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/roach88/moodflicks/internal/logging"
	"github.com/roach88/moodflicks/internal/metrics"
	"github.com/roach88/moodflicks/internal/store"
)

// DefaultTimeout bounds a single medium call.
const DefaultTimeout = 5 * time.Second

// Store caches encoded values per key and writes every update through to
// the medium.
type Store struct {
	mu      sync.Mutex
	medium  store.Medium
	entries map[string]*entry
	logger  zerolog.Logger
	timeout time.Duration
}

// entry is the cached state of one key. raw is nil when the key has no value
// in memory (absent, unreadable, or undecodable on the medium).
type entry struct {
	raw     []byte
	version uint64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for absorbed failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTimeout bounds each medium call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// New creates a Store over m. A nil medium gives a memory-only store, which
// is what a caller gets when durable storage is unavailable.
func New(m store.Medium, opts ...Option) *Store {
	s := &Store{
		medium:  m,
		entries: make(map[string]*entry),
		logger:  logging.Component("kv"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the value stored under key, or def when the key is absent or
// cannot be decoded as T. The default is never written back.
func Get[T any](s *Store, key string, def T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.hydrate(key)
	v, _ := decode(s, key, e, def)
	return v
}

// Set stores v under key. When v encodes identically to the cached value the
// cache is left alone; persistence is attempted either way.
func Set[T any](s *Store, key string, v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.hydrate(key)
	write(s, key, e, v)
}

// Update applies fn to the current value (or def) and stores the result,
// returning it. The read-modify-write holds the store lock, so concurrent
// updates of the same key never lose a write.
func Update[T any](s *Store, key string, def T, fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.hydrate(key)
	prev, _ := decode(s, key, e, def)
	next := fn(prev)
	write(s, key, e, next)
	return next
}

// Hydrated reports whether key has been loaded from the medium.
func (s *Store) Hydrated(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// Version returns how many times the cached value of key has changed. An
// update that encodes equal to the previous value does not bump it.
func (s *Store) Version(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[key]; ok {
		return e.version
	}
	return 0
}

// Medium returns the underlying medium, or nil for a memory-only store.
func (s *Store) Medium() store.Medium {
	return s.medium
}

// hydrate returns the cached entry for key, loading it on first access
// (must be called with mu held).
func (s *Store) hydrate(key string) *entry {
	if e, ok := s.entries[key]; ok {
		return e
	}

	e := &entry{}
	s.entries[key] = e
	if s.medium == nil {
		return e
	}

	ctx, cancel := s.context()
	defer cancel()

	raw, err := s.medium.Load(ctx, key)
	switch {
	case err == nil:
		e.raw = raw
	case errors.Is(err, store.ErrNotFound):
	default:
		s.absorb("load", key, err)
	}
	return e
}

// decode returns the cached value as T, or def. An undecodable value is
// dropped from the cache so it is reported once (must be called with mu
// held).
func decode[T any](s *Store, key string, e *entry, def T) (T, bool) {
	if e.raw == nil {
		return def, false
	}
	var v T
	if err := json.Unmarshal(e.raw, &v); err != nil {
		s.absorb("decode", key, err)
		e.raw = nil
		return def, false
	}
	return v, true
}

// write encodes v into the cache and persists it (must be called with mu
// held).
func write[T any](s *Store, key string, e *entry, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		s.absorb("encode", key, err)
		return
	}
	if !equalRaw(e.raw, raw) {
		e.raw = raw
		e.version++
	}
	if s.medium == nil {
		return
	}

	ctx, cancel := s.context()
	defer cancel()

	if err := s.medium.Save(ctx, key, raw); err != nil {
		s.absorb("save", key, err)
	}
}

func (s *Store) context() (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Store) absorb(op, key string, err error) {
	metrics.RecordPersistFailure(op)
	s.logger.Warn().
		Str("op", op).
		Str("key", key).
		Err(err).
		Msg("persistence failure absorbed")
}

// equalRaw reports whether two encodings are the same value. Encodings that
// differ only in whitespace or object key order are equal.
func equalRaw(a, b []byte) bool {
	if a == nil {
		return false
	}
	if bytes.Equal(a, b) {
		return true
	}
	ca, err := canonical(a)
	if err != nil {
		return false
	}
	cb, err := canonical(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ca, cb)
}

// canonical re-encodes raw with sorted object keys and no insignificant
// whitespace. Numbers keep their literal form.
func canonical(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}
