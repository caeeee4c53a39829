package kv

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "k", "v"))
	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestMemoryFailures(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	m.FailWrites(true)
	assert.ErrorIs(t, m.Set(ctx, "k", "v"), ErrUnavailable)
	m.FailWrites(false)
	require.NoError(t, m.Set(ctx, "k", "v"))

	m.FailReads(true)
	_, _, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, m.Ping(ctx), ErrUnavailable)
}

func TestNamespace(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := Namespace(m, "alice")
	b := Namespace(m, "bob")

	require.NoError(t, a.Set(ctx, KeyEngines, "[1]"))
	require.NoError(t, b.Set(ctx, KeyEngines, "[2]"))

	v, ok, err := m.Get(ctx, "alice:engines")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[1]", v)

	v, _, _ = b.Get(ctx, KeyEngines)
	assert.Equal(t, "[2]", v)

	assert.Same(t, Storage(m), Namespace(m, ""))
	assert.NoError(t, a.(Pinger).Ping(ctx))

	keys, err := a.(Lister).Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyEngines}, keys)

	all, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice:engines", "bob:engines"}, all)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Set(ctx, "k", "v")
		}()
		go func() {
			defer wg.Done()
			_, _, _ = m.Get(ctx, "k")
		}()
	}
	wg.Wait()

	v, ok, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}
