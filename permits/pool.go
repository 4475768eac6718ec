// Package permits provides a fixed-capacity counting permit pool.
//
// A [Pool] starts full. Acquiring takes one permit and may block; releasing
// gives one back and wakes the oldest waiter. The number of held permits never
// exceeds the capacity: a release without a matching acquire is reported as
// [ErrOverRelease] instead of growing the pool.
package permits

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrTimeout is returned when no permit became free before the wait ended.
	ErrTimeout = errors.New("permits: timed out waiting for a permit")
	// ErrOverRelease is returned by Release when no permit is held.
	ErrOverRelease = errors.New("permits: released more permits than held")
)

// Pool is a counting semaphore with a fixed number of permits.
// All methods are safe for concurrent use.
type Pool struct {
	sem      *semaphore.Weighted
	capacity int64
	held     atomic.Int64
}

// NewPool creates a pool holding capacity free permits.
func NewPool(capacity int) *Pool {
	if capacity < 1 {
		panic("permits.NewPool: capacity must be positive")
	}
	return &Pool{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: int64(capacity),
	}
}

// Acquire blocks until a permit is available or ctx is done.
// If ctx is done first, no permit is held and the context error is returned;
// a passed deadline is additionally reported as ErrTimeout.
func (p *Pool) Acquire(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return err
	}
	p.held.Add(1)
	return nil
}

// TryAcquire takes a permit without blocking and reports whether it succeeded.
func (p *Pool) TryAcquire() bool {
	if !p.sem.TryAcquire(1) {
		return false
	}
	p.held.Add(1)
	return true
}

// AcquireTimeout waits at most d for a permit. A non-positive d never waits.
func (p *Pool) AcquireTimeout(d time.Duration) error {
	if d <= 0 {
		if p.TryAcquire() {
			return nil
		}
		return ErrTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return p.Acquire(ctx)
}

// Release returns one permit to the pool. It is safe to call from any goroutine.
func (p *Pool) Release() error {
	for {
		n := p.held.Load()
		if n <= 0 {
			return ErrOverRelease
		}
		if p.held.CompareAndSwap(n, n-1) {
			break
		}
	}
	p.sem.Release(1)
	return nil
}

// Capacity returns the number of permits the pool was created with.
func (p *Pool) Capacity() int {
	return int(p.capacity)
}

// Held returns the number of permits currently taken.
func (p *Pool) Held() int {
	return int(p.held.Load())
}

// Available returns the number of permits that can be acquired without waiting.
// The value is a snapshot and may be stale by the time it is used.
func (p *Pool) Available() int {
	return int(p.capacity - p.held.Load())
}
