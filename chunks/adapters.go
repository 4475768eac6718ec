package chunks

import (
	"context"
	"iter"
)

// -------------------------------------------------------
// Channel Adapter
// -------------------------------------------------------

// FromChannel returns a sequence of the values received from ch.
// It ends when ch is closed or ctx is done.
func FromChannel[T any](ctx context.Context, ch <-chan T) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-ch:
				if !ok || !yield(v) {
					return
				}
			}
		}
	}
}

// -------------------------------------------------------
// Fetcher Adapter
// -------------------------------------------------------

// FetcherFunc pulls a single item, blocking if needed.
// It should return an error to end the sequence (e.g. io.EOF).
type FetcherFunc[T any] func(context.Context) (T, error)

// FromFetcher returns a sequence of the values produced by fetch.
// It ends at the first fetch error or when ctx is done. If errp is not nil,
// the error that ended the sequence is stored there.
func FromFetcher[T any](ctx context.Context, fetch FetcherFunc[T], errp *error) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			if err := ctx.Err(); err != nil {
				setErr(errp, err)
				return
			}
			v, err := fetch(ctx)
			if err != nil {
				setErr(errp, err)
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

func setErr(errp *error, err error) {
	if errp != nil {
		*errp = err
	}
}
