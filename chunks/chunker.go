package chunks

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"
	"sync/atomic"
	"time"

	"backchunk/permits"
)

// Chunker splits a sequence into ordered chunks of up to a fixed size.
//
// Next must be driven by a single goroutine. Chunks it returns may be ranged
// over from any goroutine.
type Chunker[T any] struct {
	// mu guards the source cursor and every chunk's buffer.
	mu      sync.Mutex
	pull    func() (T, bool)
	stop    func()
	done    bool
	current *chunk[T]
	count   int

	busy      atomic.Bool
	exhausted atomic.Bool

	size    int
	gate    Gate
	monitor Monitor
}

// New creates an unbounded Chunker over seq. The chunk size defaults to
// DefaultChunkSize. Call Close if the sequence is abandoned before it ends.
func New[T any](seq iter.Seq[T], opts ...Option) *Chunker[T] {
	return newChunker(seq, openGate{}, opts)
}

// NewGated creates a Chunker that calls gate.Acquire before producing each
// chunk. Releasing permits for produced chunks is up to the caller.
func NewGated[T any](seq iter.Seq[T], gate Gate, opts ...Option) *Chunker[T] {
	if gate == nil {
		panic("chunks.NewGated: gate cannot be nil")
	}
	return newChunker(seq, gate, opts)
}

func newChunker[T any](seq iter.Seq[T], gate Gate, opts []Option) *Chunker[T] {
	if seq == nil {
		panic("chunks: sequence cannot be nil")
	}
	cfg := newConfig(opts)
	pull, stop := iter.Pull(seq)
	return &Chunker[T]{
		pull:    pull,
		stop:    stop,
		size:    cfg.chunkSize,
		gate:    gate,
		monitor: cfg.monitor,
	}
}

// Next returns the next chunk. ok is false once the source is exhausted.
// A gated Chunker blocks until its gate lets the chunk through.
func (c *Chunker[T]) Next() (iter.Seq[T], bool, error) {
	return c.NextContext(context.Background())
}

// NextContext is like Next, but gives up waiting on the gate when ctx is done.
// A passed deadline is reported as ErrTimeoutExceeded.
func (c *Chunker[T]) NextContext(ctx context.Context) (iter.Seq[T], bool, error) {
	return c.next(func() error { return c.gate.Acquire(ctx) })
}

// All returns an iterator over the remaining chunks. It stops at the end of
// the source or at the first error; use Chunks to observe errors.
func (c *Chunker[T]) All() iter.Seq[iter.Seq[T]] {
	return func(yield func(iter.Seq[T]) bool) {
		for {
			chunk, ok, err := c.Next()
			if err != nil || !ok {
				return
			}
			if !yield(chunk) {
				return
			}
		}
	}
}

// Chunks returns an iterator over the remaining chunks. An error is yielded
// with a nil chunk and ends the iteration.
func (c *Chunker[T]) Chunks(ctx context.Context) iter.Seq2[iter.Seq[T], error] {
	return func(yield func(iter.Seq[T], error) bool) {
		for {
			chunk, ok, err := c.NextContext(ctx)
			if err != nil {
				yield(nil, err)
				return
			}
			if !ok || !yield(chunk, nil) {
				return
			}
		}
	}
}

// Close stops reading the source. The most recent chunk keeps its elements;
// later calls to Next report the end of the sequence.
func (c *Chunker[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.detachLocked()
	if !c.done {
		c.done = true
		c.stop()
	}
}

func (c *Chunker[T]) next(acquire func() error) (iter.Seq[T], bool, error) {
	if !c.busy.CompareAndSwap(false, true) {
		return nil, false, ErrConcurrentNext
	}
	defer c.busy.Store(false)

	start := time.Now()
	if err := acquire(); err != nil {
		if errors.Is(err, permits.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			c.monitor.OnTimeout()
			return nil, false, fmt.Errorf("%w: %w", ErrTimeoutExceeded, err)
		}
		return nil, false, err
	}
	c.monitor.OnWait(time.Since(start))

	ch, index := c.advance()
	if ch == nil {
		// The permit taken for an empty pull is handed straight back.
		_ = c.gate.Release()
		if c.exhausted.CompareAndSwap(false, true) {
			c.monitor.OnExhausted(index)
		}
		return nil, false, nil
	}
	c.monitor.OnChunk(index)
	return ch.all, true, nil
}

// advance peeks the first element of the next chunk. It returns a nil chunk
// and the number of chunks produced so far when the source is exhausted.
func (c *Chunker[T]) advance() (*chunk[T], int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detachLocked()
	first, ok := c.pullLocked()
	if !ok {
		return nil, c.count
	}
	ch := &chunk[T]{
		owner:   c,
		pending: []T{first},
		left:    c.size - 1,
	}
	c.current = ch
	c.count++
	return ch, c.count - 1
}

// detachLocked moves the rest of the current chunk out of the source so that
// the cursor points at the first element of the next chunk.
func (c *Chunker[T]) detachLocked() {
	if c.current == nil {
		return
	}
	ch := c.current
	c.current = nil
	for ch.left > 0 {
		v, ok := c.pullLocked()
		if !ok {
			break
		}
		ch.pending = append(ch.pending, v)
		ch.left--
	}
	ch.left = 0
}

func (c *Chunker[T]) pullLocked() (T, bool) {
	if c.done {
		var zero T
		return zero, false
	}
	v, ok := c.pull()
	if !ok {
		c.done = true
		c.stop()
	}
	return v, ok
}

// chunk is a forward-only view of up to size consecutive source elements.
// pending holds elements already taken from the source; left counts the
// elements still to be pulled while the chunk is current.
type chunk[T any] struct {
	owner   *Chunker[T]
	pending []T
	left    int
}

func (ch *chunk[T]) all(yield func(T) bool) {
	for {
		v, ok := ch.take()
		if !ok {
			return
		}
		if !yield(v) {
			return
		}
	}
}

func (ch *chunk[T]) take() (T, bool) {
	c := ch.owner
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	if len(ch.pending) > 0 {
		v := ch.pending[0]
		ch.pending[0] = zero
		ch.pending = ch.pending[1:]
		return v, true
	}
	if ch.left == 0 {
		return zero, false
	}
	v, ok := c.pullLocked()
	if !ok {
		ch.left = 0
		return zero, false
	}
	ch.left--
	return v, true
}
