package lru

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a")
	require.True(t, ok)
	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")
	assert.ElementsMatch(t, []string{"a", "c"}, c.Keys())
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestEvictionTieBreaksOnInsertionOrder(t *testing.T) {
	t.Parallel()

	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("d", 4)

	assert.Equal(t, []string{"d", "c", "b"}, c.Keys())
}

func TestSetUpdatesExistingWithoutEviction(t *testing.T) {
	t.Parallel()

	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(0), c.Stats().Evictions)
}

func TestDeleteFunc(t *testing.T) {
	t.Parallel()

	c := New[string, int](10)
	c.Set("Drifts:X:1", 1)
	c.Set("Drifts:X:11", 2)
	c.Set("Drifts:Y:1", 3)

	removed := c.DeleteFunc(func(k string) bool { return strings.HasSuffix(k, ":1") })
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"Drifts:X:11"}, c.Keys())
}

func TestClearAndDelete(t *testing.T) {
	t.Parallel()

	c := New[int, string](0)
	assert.Equal(t, 1, c.Stats().Capacity)

	c.Set(1, "x")
	assert.True(t, c.Delete(1))
	assert.False(t, c.Delete(1))

	c.Set(2, "y")
	c.Clear()
	assert.Equal(t, 0, c.Len())

	_, ok := c.Get(2)
	assert.False(t, ok)
	assert.Equal(t, int64(1), c.Stats().Misses)
}
