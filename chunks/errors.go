package chunks

import "errors"

var (
	// ErrTimeoutExceeded is returned by Next variants when no permit became
	// free in time. Nothing was produced and no permit is held.
	ErrTimeoutExceeded = errors.New("chunks: too many chunks unacknowledged")
	// ErrExcessAcknowledgment is returned by Acknowledge when no chunk is outstanding.
	ErrExcessAcknowledgment = errors.New("chunks: acknowledged more chunks than produced")
	// ErrConcurrentNext is returned when Next is called while another Next is in progress.
	ErrConcurrentNext = errors.New("chunks: concurrent call to Next")
)
