package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/roach88/moodflicks/internal/store"
)

// ErrInjected is returned by FaultyMedium while failing.
var ErrInjected = errors.New("testutil: injected medium failure")

// CountingMedium wraps a medium and counts calls per key.
type CountingMedium struct {
	store.Medium

	mu    sync.Mutex
	loads map[string]int
	saves map[string]int
}

// NewCountingMedium wraps m. A nil m wraps a fresh memory medium.
func NewCountingMedium(m store.Medium) *CountingMedium {
	if m == nil {
		m = store.NewMemory()
	}
	return &CountingMedium{
		Medium: m,
		loads:  make(map[string]int),
		saves:  make(map[string]int),
	}
}

func (c *CountingMedium) Load(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	c.loads[key]++
	c.mu.Unlock()
	return c.Medium.Load(ctx, key)
}

func (c *CountingMedium) Save(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	c.saves[key]++
	c.mu.Unlock()
	return c.Medium.Save(ctx, key, value)
}

// Loads returns how many times key was loaded.
func (c *CountingMedium) Loads(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads[key]
}

// Saves returns how many times key was saved.
func (c *CountingMedium) Saves(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saves[key]
}

// FaultyMedium wraps a medium and fails reads and/or writes on demand,
// standing in for disabled storage or an exhausted quota.
type FaultyMedium struct {
	store.Medium

	mu        sync.Mutex
	failLoad  bool
	failSave  bool
	failCount int
}

// NewFaultyMedium wraps m. A nil m wraps a fresh memory medium.
func NewFaultyMedium(m store.Medium) *FaultyMedium {
	if m == nil {
		m = store.NewMemory()
	}
	return &FaultyMedium{Medium: m}
}

// FailLoads toggles read failures.
func (f *FaultyMedium) FailLoads(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failLoad = on
}

// FailSaves toggles write failures.
func (f *FaultyMedium) FailSaves(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failSave = on
}

// Failures returns the number of injected failures so far.
func (f *FaultyMedium) Failures() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.failCount
}

func (f *FaultyMedium) Load(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	fail := f.failLoad
	if fail {
		f.failCount++
	}
	f.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return f.Medium.Load(ctx, key)
}

func (f *FaultyMedium) Save(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	fail := f.failSave
	if fail {
		f.failCount++
	}
	f.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return f.Medium.Save(ctx, key, value)
}
