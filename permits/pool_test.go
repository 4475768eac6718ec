package permits_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backchunk/permits"
)

func TestPool_StartsFull(t *testing.T) {
	p := permits.NewPool(3)
	assert.Equal(t, 3, p.Capacity())
	assert.Equal(t, 3, p.Available())
	assert.Equal(t, 0, p.Held())
}

func TestPool_NewPoolPanicsOnNonPositive(t *testing.T) {
	assert.Panics(t, func() { permits.NewPool(0) })
	assert.Panics(t, func() { permits.NewPool(-1) })
}

func TestPool_TryAcquireExhausts(t *testing.T) {
	p := permits.NewPool(2)
	require.True(t, p.TryAcquire())
	require.True(t, p.TryAcquire())
	assert.False(t, p.TryAcquire())
	assert.Equal(t, 0, p.Available())

	require.NoError(t, p.Release())
	assert.Equal(t, 1, p.Available())
	assert.True(t, p.TryAcquire())
}

func TestPool_AcquireTimeout(t *testing.T) {
	p := permits.NewPool(1)
	require.NoError(t, p.AcquireTimeout(0))

	t.Run("ZeroDoesNotWait", func(t *testing.T) {
		err := p.AcquireTimeout(0)
		assert.ErrorIs(t, err, permits.ErrTimeout)
		assert.Equal(t, 1, p.Held())
	})

	t.Run("Expires", func(t *testing.T) {
		start := time.Now()
		err := p.AcquireTimeout(20 * time.Millisecond)
		assert.ErrorIs(t, err, permits.ErrTimeout)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
		assert.Equal(t, 1, p.Held())
	})

	t.Run("WokenByRelease", func(t *testing.T) {
		go func() {
			time.Sleep(10 * time.Millisecond)
			_ = p.Release()
		}()
		require.NoError(t, p.AcquireTimeout(time.Second))
		assert.Equal(t, 1, p.Held())
	})
}

func TestPool_AcquireCanceled(t *testing.T) {
	p := permits.NewPool(1)
	require.True(t, p.TryAcquire())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, permits.ErrTimeout))
	assert.Equal(t, 1, p.Held())
}

func TestPool_OverRelease(t *testing.T) {
	p := permits.NewPool(2)
	assert.ErrorIs(t, p.Release(), permits.ErrOverRelease)
	assert.Equal(t, 2, p.Available())

	require.True(t, p.TryAcquire())
	require.NoError(t, p.Release())
	assert.ErrorIs(t, p.Release(), permits.ErrOverRelease)
	assert.Equal(t, 2, p.Available())
}

// TestPool_ConcurrentNeverExceedsCapacity hammers the pool and checks the held count.
func TestPool_ConcurrentNeverExceedsCapacity(t *testing.T) {
	const capacity = 4
	p := permits.NewPool(capacity)

	var (
		mu      sync.Mutex
		current int
		peak    int
		wg      sync.WaitGroup
	)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if !assert.NoError(t, p.Acquire(context.Background())) {
					return
				}
				mu.Lock()
				current++
				peak = max(peak, current)
				mu.Unlock()

				mu.Lock()
				current--
				mu.Unlock()
				assert.NoError(t, p.Release())
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak, capacity)
	assert.Equal(t, 0, p.Held())
	assert.Equal(t, capacity, p.Available())
}
