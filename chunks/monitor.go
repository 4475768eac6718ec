package chunks

import (
	"time"

	"github.com/go-logr/logr"
)

// Monitor observes a chunker. Methods are called synchronously from Next and
// Acknowledge, so implementations must be cheap and safe for concurrent use.
type Monitor interface {
	// OnChunk is called after a chunk is produced. index counts from 0.
	OnChunk(index int)
	// OnWait reports how long Next waited for a permit.
	OnWait(waited time.Duration)
	// OnTimeout is called when Next gives up waiting for a permit.
	OnTimeout()
	// OnAcknowledge is called after a permit is returned.
	OnAcknowledge(outstanding int)
	// OnExhausted is called once, when the source runs out.
	OnExhausted(chunks int)
}

// NoopMonitor ignores every event.
type NoopMonitor struct{}

func (NoopMonitor) OnChunk(index int)             {}
func (NoopMonitor) OnWait(waited time.Duration)   {}
func (NoopMonitor) OnTimeout()                    {}
func (NoopMonitor) OnAcknowledge(outstanding int) {}
func (NoopMonitor) OnExhausted(chunks int)        {}

type logMonitor struct {
	log logr.Logger
}

// NewLogMonitor returns a Monitor writing structured records to log.
// Per-chunk events are logged at V(1), permit waits at V(2).
func NewLogMonitor(log logr.Logger) Monitor {
	return &logMonitor{log: log.WithName("chunks")}
}

func (m *logMonitor) OnChunk(index int) {
	m.log.V(1).Info("chunk produced", "index", index)
}

func (m *logMonitor) OnWait(waited time.Duration) {
	m.log.V(2).Info("permit acquired", "waited", waited)
}

func (m *logMonitor) OnTimeout() {
	m.log.Info("timed out waiting for acknowledgment")
}

func (m *logMonitor) OnAcknowledge(outstanding int) {
	m.log.V(1).Info("chunk acknowledged", "outstanding", outstanding)
}

func (m *logMonitor) OnExhausted(chunks int) {
	m.log.Info("source exhausted", "chunks", chunks)
}
