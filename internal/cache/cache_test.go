package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	_, ok := m.Get(ctx, "missing")
	assert.False(t, ok)
	assert.False(t, m.Has(ctx, "missing"))

	m.Set(ctx, "k", []byte(`{"a":1}`))
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte(`{"a":1}`), got)
	assert.True(t, m.Has(ctx, "k"))
}

func TestMemoryOverwrite(t *testing.T) {
	m := NewMemory(time.Minute)
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("first"))
	m.Set(ctx, "k", []byte("second"))
	got, ok := m.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("second"), got)
}

func TestMemoryExpiry(t *testing.T) {
	m := NewMemory(10 * time.Millisecond)
	defer m.Close()
	ctx := context.Background()

	m.Set(ctx, "k", []byte("v"))
	_, ok := m.Get(ctx, "k")
	require.True(t, ok)

	time.Sleep(25 * time.Millisecond)
	_, ok = m.Get(ctx, "k")
	assert.False(t, ok)
	assert.False(t, m.Has(ctx, "k"))
}

func TestMemoryCloseIdempotent(t *testing.T) {
	m := NewMemory(time.Minute)
	m.Close()
	m.Close()
}
