package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs hands out predictable notice IDs: "<prefix>-0001",
// "<prefix>-0002", ...
//
// Golden traces stay byte-identical across runs when notices are stamped
// from this generator instead of UUIDv7.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialIDs creates a generator. An empty prefix becomes "notice".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "notice"
	}
	return &SequentialIDs{prefix: prefix}
}

// Generate returns the next ID.
func (g *SequentialIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
