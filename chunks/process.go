package chunks

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// ChunkHandler does the work for one chunk.
type ChunkHandler[T any] func(ctx context.Context, chunk iter.Seq[T]) error

// ErrHandler receives the error of a failed chunk. index counts from 0.
type ErrHandler func(ctx context.Context, index int, err error)

type ProcessOption func(*processConfig)

type processConfig struct {
	concurrency  int
	errorHandler ErrHandler
}

// WithConcurrency caps the number of handlers running at once. By default
// the cap is the chunker's bound.
func WithConcurrency(workers int) ProcessOption {
	return func(cfg *processConfig) {
		cfg.concurrency = workers
	}
}

// WithErrorHandler makes Process report handler errors to h and keep going
// instead of stopping at the first one.
func WithErrorHandler(h ErrHandler) ProcessOption {
	if h == nil {
		panic("chunks.WithErrorHandler: error handler cannot be nil")
	}
	return func(cfg *processConfig) {
		cfg.errorHandler = h
	}
}

// Process drains bc, running handler for every chunk on its own goroutine and
// acknowledging the chunk when the handler returns. Chunks are produced in
// order; handlers may finish in any order.
//
// Process returns after all started handlers have returned. Without an error
// handler, the first handler error cancels the remaining work and is returned.
// If ctx is done first, its error is returned; a passed deadline comes back
// as ErrTimeoutExceeded wrapping context.DeadlineExceeded.
func Process[T any](ctx context.Context, bc *BoundedChunker[T], handler ChunkHandler[T], opts ...ProcessOption) error {
	if handler == nil {
		panic("chunks.Process: handler cannot be nil")
	}
	cfg := &processConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	// Prevent deadlock if concurrency is set to <= 0
	if cfg.concurrency < 1 {
		cfg.concurrency = bc.Bound()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	var nextErr error
	for index := 0; ; index++ {
		chunk, ok, err := bc.NextContext(gctx)
		if err != nil {
			nextErr = err
			break
		}
		if !ok {
			break
		}
		g.Go(func() error {
			err := executeSafe(gctx, handler, chunk)
			// Fails only if the handler acknowledged its own chunk.
			if ackErr := bc.Acknowledge(); ackErr != nil {
				err = errors.Join(err, ackErr)
			}
			if err == nil {
				return nil
			}
			if cfg.errorHandler != nil {
				cfg.errorHandler(gctx, index, err)
				return nil
			}
			return fmt.Errorf("chunks.Process: chunk %d: %w", index, err)
		})
	}

	// A handler failure cancels gctx, so prefer the handler's error.
	if err := g.Wait(); err != nil {
		return err
	}
	return nextErr
}

// executeSafe runs handler and turns a panic into an error.
func executeSafe[T any](ctx context.Context, handler ChunkHandler[T], chunk iter.Seq[T]) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v\nStack: %s", r, debug.Stack())
		}
	}()
	return handler(ctx, chunk)
}
