package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when a key has never been saved.
var ErrNotFound = errors.New("store: key not found")

// ErrClosed is returned by operations on a medium after Close.
var ErrClosed = errors.New("store: medium closed")

// Medium is a durable key/value facility.
//
// Implementations must be safe for concurrent use. Values are opaque; a
// medium stores exactly the bytes it was given.
type Medium interface {
	// Load returns the value saved under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the value under key.
	Save(ctx context.Context, key string, value []byte) error

	// Close releases the medium. Further calls return ErrClosed.
	Close() error
}

// Lister is implemented by media that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context) ([]string, error)
}

// Kind names a medium implementation.
type Kind string

const (
	KindSQLite Kind = "sqlite"
	KindBadger Kind = "badger"
	KindMemory Kind = "memory"
)

// Kinds lists the supported medium kinds.
var Kinds = []Kind{KindSQLite, KindBadger, KindMemory}

// Open creates the medium of the given kind at path.
// The memory medium ignores path.
func Open(kind Kind, path string) (Medium, error) {
	switch kind {
	case KindSQLite:
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case KindBadger:
		b, err := OpenBadger(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown medium %q: must be one of %v", kind, Kinds)
	}
}
