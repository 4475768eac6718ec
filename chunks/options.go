package chunks

import "github.com/go-logr/logr"

// DefaultChunkSize is the chunk size used when WithChunkSize is not given.
const DefaultChunkSize = 1

// Option configures a Chunker.
type Option func(*config)

type config struct {
	chunkSize int
	monitor   Monitor
}

func newConfig(opts []Option) config {
	cfg := config{
		chunkSize: DefaultChunkSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.chunkSize < 1 {
		panic("chunks: chunk size must be positive")
	}
	// Default to silent (Noop) to avoid polluting output in library code
	if cfg.monitor == nil {
		cfg.monitor = NoopMonitor{}
	}
	return cfg
}

// WithChunkSize sets the maximum number of elements per chunk.
func WithChunkSize(size int) Option {
	return func(cfg *config) {
		cfg.chunkSize = size
	}
}

// WithMonitor sets the monitor notified of chunker events. nil means NoopMonitor.
func WithMonitor(m Monitor) Option {
	return func(cfg *config) {
		cfg.monitor = m
	}
}

// WithLogger reports chunker events to log. It replaces any monitor set earlier.
func WithLogger(log logr.Logger) Option {
	return WithMonitor(NewLogMonitor(log))
}
