package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_GetOrLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	var calls int32
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("v"), nil
	}

	v, err := m.GetOrLoad(ctx, "k", []string{TagRecipes}, load)
	require.NoError(t, err)
	assert.Equal(t, "v", string(v))

	_, err = m.GetOrLoad(ctx, "k", []string{TagRecipes}, load)
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestMemory_ZeroTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)

	var calls int
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}
	_, _ = m.GetOrLoad(ctx, "k", nil, load)
	_, _ = m.GetOrLoad(ctx, "k", nil, load)
	assert.Equal(t, 2, calls)
}

func TestMemory_LoadError(t *testing.T) {
	m := NewMemory(time.Minute)
	_, err := m.GetOrLoad(context.Background(), "k", nil, func(context.Context) ([]byte, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 0, m.Len())
}

func TestMemory_InvalidateTag(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)
	value := func(s string) Loader {
		return func(context.Context) ([]byte, error) { return []byte(s), nil }
	}

	_, _ = m.GetOrLoad(ctx, "recipe:1", []string{TagRecipes}, value("one"))
	_, _ = m.GetOrLoad(ctx, "other", []string{"other"}, value("x"))
	require.Equal(t, 2, m.Len())

	require.NoError(t, m.InvalidateTag(ctx, TagRecipes))
	assert.Equal(t, 1, m.Len())

	v, err := m.GetOrLoad(ctx, "recipe:1", []string{TagRecipes}, value("fresh"))
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(v))

	// Unknown tags are a no-op.
	assert.NoError(t, m.InvalidateTag(ctx, "nothing"))
}

func TestMemory_ConcurrentMissesShareLoad(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	var calls int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.GetOrLoad(ctx, "k", nil, load)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
