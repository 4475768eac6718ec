package chunks_test

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"testing"

	"backchunk/chunks"
)

// resultSink prevents the compiler from optimizing away benchmark work.
var resultSink int

// BenchmarkChunker compares lazy chunking against eager slicing of the same input.
func BenchmarkChunker(b *testing.B) {
	const size = 100_000
	input := ints(size)

	for _, chunkSize := range []int{1, 16, 256} {
		b.Run(fmt.Sprintf("ChunkSize=%d", chunkSize), func(b *testing.B) {
			b.Run("Slices_Chunk", func(b *testing.B) {
				for b.Loop() {
					sum := 0
					for chunk := range slices.Chunk(input, chunkSize) {
						for _, v := range chunk {
							sum += v
						}
					}
					resultSink = sum
				}
			})

			b.Run("Chunker", func(b *testing.B) {
				for b.Loop() {
					sum := 0
					for chunk := range chunks.New(slices.Values(input), chunks.WithChunkSize(chunkSize)).All() {
						for v := range chunk {
							sum += v
						}
					}
					resultSink = sum
				}
			})

			b.Run("Bounded_Process", func(b *testing.B) {
				handler := func(ctx context.Context, chunk iter.Seq[int]) error {
					sum := 0
					for v := range chunk {
						sum += v
					}
					_ = sum
					return nil
				}
				for b.Loop() {
					bc := chunks.NewBounded(8, slices.Values(input), chunks.WithChunkSize(chunkSize))
					if err := chunks.Process(context.Background(), bc, handler); err != nil {
						b.Fatal(err)
					}
				}
			})
		})
	}
}
