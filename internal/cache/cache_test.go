package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu     sync.Mutex
	m      map[string][]byte
	getErr error
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.m[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.m, k)
	}
	return nil
}

func TestFetchCachesOnce(t *testing.T) {
	t.Parallel()
	c := &memCache{m: map[string][]byte{}}
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"Granit"}, nil
	}

	for range 3 {
		v, err := Fetch(context.Background(), c, "materials", time.Minute, load)
		require.NoError(t, err)
		assert.Equal(t, []string{"Granit"}, v)
	}
	assert.Equal(t, 1, calls)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	t.Parallel()
	c := &memCache{m: map[string][]byte{}}
	boom := errors.New("backend down")

	_, err := Fetch(context.Background(), c, "k", time.Minute, func(context.Context) (int, error) { return 0, boom })
	require.ErrorIs(t, err, boom)
	_, ok, _ := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestFetchSurvivesBrokenCache(t *testing.T) {
	t.Parallel()
	c := &memCache{m: map[string][]byte{}, getErr: errors.New("redis: connection refused")}

	v, err := Fetch(context.Background(), c, "k", time.Minute, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestNop(t *testing.T) {
	t.Parallel()
	var c Cache = Nop{}
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), time.Minute))
	_, ok, err := c.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
}
