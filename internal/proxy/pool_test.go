package proxy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRoundRobin(t *testing.T) {
	pool := NewPool([]string{"http://p1:8080", "http://p2:8080", "http://p3:8080"}, "user", "pass")
	require.Equal(t, 3, pool.Size())

	first := pool.Next()
	require.NotNil(t, first)
	assert.Equal(t, "http://p1:8080", first.Server)
	assert.Equal(t, "user", first.Username)
	assert.Equal(t, "pass", first.Password)

	assert.Equal(t, "http://p2:8080", pool.Next().Server)
	assert.Equal(t, "http://p3:8080", pool.Next().Server)

	// wraps back to the first entry
	assert.Equal(t, "http://p1:8080", pool.Next().Server)
}

func TestEmptyPool(t *testing.T) {
	pool := NewPool(nil, "", "")
	assert.Equal(t, 0, pool.Size())
	assert.Nil(t, pool.Next())
}

func TestPoolSkipsBlankEntries(t *testing.T) {
	pool := NewPool([]string{" ", "http://p1:8080", ""}, "", "")
	require.Equal(t, 1, pool.Size())
	assert.Equal(t, "http://p1:8080", pool.Next().Server)
}
