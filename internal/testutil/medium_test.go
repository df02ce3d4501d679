package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/moodflicks/internal/store"
)

func TestCountingMedium(t *testing.T) {
	ctx := context.Background()
	m := NewCountingMedium(nil)

	_, err := m.Load(ctx, "points")
	assert.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, m.Save(ctx, "points", []byte(`10`)))
	require.NoError(t, m.Save(ctx, "points", []byte(`20`)))

	assert.Equal(t, 1, m.Loads("points"))
	assert.Equal(t, 2, m.Saves("points"))
	assert.Equal(t, 0, m.Saves("watched"))
}

func TestFaultyMedium(t *testing.T) {
	ctx := context.Background()
	inner := store.NewMemory()
	f := NewFaultyMedium(inner)

	require.NoError(t, f.Save(ctx, "points", []byte(`10`)))

	f.FailSaves(true)
	assert.ErrorIs(t, f.Save(ctx, "points", []byte(`99`)), ErrInjected)

	f.FailLoads(true)
	_, err := f.Load(ctx, "points")
	assert.ErrorIs(t, err, ErrInjected)
	assert.Equal(t, 2, f.Failures())

	f.FailLoads(false)
	f.FailSaves(false)
	got, err := f.Load(ctx, "points")
	require.NoError(t, err)
	assert.Equal(t, "10", string(got), "failed save must not reach the wrapped medium")
}
