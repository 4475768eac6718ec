/*
Package chunks groups an iter.Seq into fixed-size lazy chunks and, optionally,
limits how many chunks may be outstanding at once.

  - [Chunker] splits a sequence into chunks of up to a configured size. Each
    chunk is itself an iter.Seq that pulls from the source only as it is
    ranged over.
  - [BoundedChunker] adds a permit pool of fixed capacity. Producing a chunk
    takes a permit; [BoundedChunker.Acknowledge] gives it back.
  - [Process] is a ready-made driver: it pulls chunks in order, hands each to
    a handler goroutine and acknowledges when the handler returns.

# Producer and acknowledgers

One goroutine produces by calling Next (or ranging over [Chunker.All]).
Concurrent Next calls are rejected with [ErrConcurrentNext]. Any number of
goroutines may call Acknowledge, concurrently with Next.

	bc := chunks.NewBounded(4, source, chunks.WithChunkSize(100))
	defer bc.Close()
	for {
		chunk, ok, err := bc.NextTimeout(time.Second)
		if errors.Is(err, chunks.ErrTimeoutExceeded) {
			continue // workers are behind, try again
		}
		if err != nil || !ok {
			break
		}
		go func() {
			defer bc.Acknowledge()
			for v := range chunk {
				handle(v)
			}
		}()
	}

# Ordering

Elements are never skipped, duplicated or reordered. Asking for the next
chunk before the previous one has been fully ranged over is allowed: the
unread remainder of the previous chunk is pulled from the source and kept
with that chunk first.
*/
package chunks
