package chunks

import "context"

// Gate decides whether the next chunk may be produced.
// Acquire is called before every pull of a new chunk; Release undoes an
// Acquire whose pull found the source exhausted, and is otherwise left to
// the gate's owner.
type Gate interface {
	Acquire(ctx context.Context) error
	Release() error
}

// openGate never blocks.
type openGate struct{}

func (openGate) Acquire(ctx context.Context) error { return nil }
func (openGate) Release() error                    { return nil }
