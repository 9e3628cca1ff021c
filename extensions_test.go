package besi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userKey struct{}
type traceKey struct{}

// TestExtensionsSetGet tests that get always returns the value most
// recently set for a key
func TestExtensionsSetGet(t *testing.T) {
	e := NewExtensions()
	assert.Zero(t, e.Len())

	_, ok := e.Get(userKey{})
	assert.False(t, ok, "empty store should have no values")

	e.Set(userKey{}, "alice")
	v, ok := e.Get(userKey{})
	require.True(t, ok)
	assert.Equal(t, "alice", v)

	// Overwrite: at most one value per key.
	e.Set(userKey{}, "bob")
	v, ok = e.Get(userKey{})
	require.True(t, ok)
	assert.Equal(t, "bob", v)
	assert.Equal(t, 1, e.Len())
}

// TestExtensionsRemove tests remove-then-get semantics
func TestExtensionsRemove(t *testing.T) {
	e := NewExtensions()
	e.Set(userKey{}, 42)

	v, ok := e.Remove(userKey{})
	require.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = e.Get(userKey{})
	assert.False(t, ok, "removed key should be gone")

	_, ok = e.Remove(userKey{})
	assert.False(t, ok, "second remove should find nothing")
}

// TestExtensionsDistinctKeys tests that capability keys do not collide
func TestExtensionsDistinctKeys(t *testing.T) {
	e := NewExtensions()
	e.Set(userKey{}, "alice")
	e.Set(traceKey{}, "abc-123")

	v, _ := e.Get(userKey{})
	assert.Equal(t, "alice", v)
	v, _ = e.Get(traceKey{})
	assert.Equal(t, "abc-123", v)
	assert.Equal(t, 2, e.Len())
}

// TestGetExtension tests the typed accessor's checked downcast
func TestGetExtension(t *testing.T) {
	e := NewExtensions()
	e.Set(userKey{}, "alice")

	s, ok := GetExtension[string](e, userKey{})
	require.True(t, ok)
	assert.Equal(t, "alice", s)

	// Wrong type: absent, zero value.
	n, ok := GetExtension[int](e, userKey{})
	assert.False(t, ok)
	assert.Zero(t, n)

	// Absent key.
	_, ok = GetExtension[string](e, traceKey{})
	assert.False(t, ok)
}
