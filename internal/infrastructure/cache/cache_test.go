package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemember(t *testing.T) {
	c := CreateNewCache(time.Minute)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return "computed", nil
	}

	value, err := c.Remember("books", "page-1", compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", value)
	assert.Equal(t, 1, calls)

	value, err = c.Remember("books", "page-1", compute)
	require.NoError(t, err)
	assert.Equal(t, "computed", value)
	assert.Equal(t, 1, calls, "second read should come from cache")

	_, err = c.Remember("books", "page-2", compute)
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "different keys compute independently")
}

func TestRememberDoesNotCacheErrors(t *testing.T) {
	c := CreateNewCache(time.Minute)

	boom := errors.New("db down")
	_, err := c.Remember("books", "page-1", func() (interface{}, error) {
		return nil, boom
	})
	assert.Equal(t, boom, err)

	value, err := c.Remember("books", "page-1", func() (interface{}, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", value)
}

func TestForget(t *testing.T) {
	c := CreateNewCache(time.Minute)

	seed := func(namespace, key, value string) {
		_, err := c.Remember(namespace, key, func() (interface{}, error) {
			return value, nil
		})
		require.NoError(t, err)
	}

	seed("books", "page-1", "old-books")
	seed("books", "page-2", "old-books")
	seed("roles", "page-1", "old-roles")

	c.Forget("books")

	value, err := c.Remember("books", "page-1", func() (interface{}, error) {
		return "fresh-books", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-books", value)

	// other namespaces are untouched
	value, err = c.Remember("roles", "page-1", func() (interface{}, error) {
		return "fresh-roles", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "old-roles", value)
}

func TestExpiry(t *testing.T) {
	c := CreateNewCache(20 * time.Millisecond)

	_, err := c.Remember("books", "page-1", func() (interface{}, error) {
		return "stale", nil
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	value, err := c.Remember("books", "page-1", func() (interface{}, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh", value)
}
