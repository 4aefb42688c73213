package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTLCache_SetGet_NoTTL(t *testing.T) {
	c := New[int]()
	c.set("a", 1, 0)

	v, ok := c.get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.get("b")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New[string]()
	base := time.Now()
	c.now = func() time.Time { return base }

	c.set("k", "v", time.Second)
	_, ok := c.get("k")
	require.True(t, ok)

	base = base.Add(2 * time.Second)
	_, ok = c.get("k")
	assert.False(t, ok)
	assert.Empty(t, c.items)
}

func TestTTLCache_GetOrLoad_ReloadsAfterExpiry(t *testing.T) {
	c := New[int]()
	base := time.Now()
	c.now = func() time.Time { return base }
	calls := 0
	load := func() (int, error) {
		calls++
		return calls, nil
	}

	v, err := c.GetOrLoad("k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	base = base.Add(2 * time.Minute)
	v, err = c.GetOrLoad("k", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestTTLCache_GetOrLoad_SharesOneCall(t *testing.T) {
	c := New[string]()
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrLoad("prompt", time.Minute, func() (string, error) {
				calls.Add(1)
				<-release
				return "image.png", nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "image.png", r)
	}

	v, err := c.GetOrLoad("prompt", time.Minute, func() (string, error) {
		t.Fatal("loader called for cached key")
		return "", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "image.png", v)
}

func TestTTLCache_GetOrLoad_ErrorsNotCached(t *testing.T) {
	c := New[int]()
	boom := errors.New("boom")

	_, err := c.GetOrLoad("k", time.Minute, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	v, err := c.GetOrLoad("k", time.Minute, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
