package chunks

import (
	"fmt"
	"iter"
	"time"

	"backchunk/permits"
)

// BoundedChunker is a Chunker that allows at most bound chunks to be
// outstanding, that is produced by Next but not yet acknowledged.
type BoundedChunker[T any] struct {
	*Chunker[T]
	pool *permits.Pool
}

// NewBounded creates a BoundedChunker over seq with bound permits.
func NewBounded[T any](bound int, seq iter.Seq[T], opts ...Option) *BoundedChunker[T] {
	if bound < 1 {
		panic("chunks.NewBounded: bound must be positive")
	}
	pool := permits.NewPool(bound)
	return &BoundedChunker[T]{
		Chunker: newChunker(seq, pool, opts),
		pool:    pool,
	}
}

// NextTimeout is like Next but waits at most d for a permit. A non-positive d
// does not wait at all. On ErrTimeoutExceeded the source has not been touched.
func (b *BoundedChunker[T]) NextTimeout(d time.Duration) (iter.Seq[T], bool, error) {
	return b.next(func() error { return b.pool.AcquireTimeout(d) })
}

// Acknowledge marks one outstanding chunk as done, letting another be
// produced. It may be called from any goroutine.
func (b *BoundedChunker[T]) Acknowledge() error {
	if err := b.pool.Release(); err != nil {
		return fmt.Errorf("%w: %w", ErrExcessAcknowledgment, err)
	}
	b.monitor.OnAcknowledge(b.pool.Held())
	return nil
}

// Outstanding returns the number of chunks produced but not acknowledged.
func (b *BoundedChunker[T]) Outstanding() int {
	return b.pool.Held()
}

// Available returns how many chunks can be produced before Next blocks.
func (b *BoundedChunker[T]) Available() int {
	return b.pool.Available()
}

// Bound returns the maximum number of outstanding chunks.
func (b *BoundedChunker[T]) Bound() int {
	return b.pool.Capacity()
}
