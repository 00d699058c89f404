package reactor

import (
	"github.com/google/uuid"

	"github.com/tickcast/tickcast/internal/registry"
)

// Exec is the view of the reactor a work callback may use. It is only valid
// inside the callback invocation, on the reactor goroutine.
type Exec interface {
	// Tag reports the connection's classification tag.
	Tag(id uuid.UUID) registry.Tag

	// SendFrame queues one text frame for the connection. Fails fast with
	// protocol.ErrNotConnected or protocol.ErrBackpressure.
	SendFrame(id uuid.UUID, payload []byte) error
}

// WorkFn is a work item's callback. It is invoked once per live connection
// with that connection's id, then once with registry.Sentinel after the
// whole snapshot has been visited.
type WorkFn func(x Exec, id uuid.UUID, payload []byte)

// WorkItem is one unit of cross-task injected work. Payload is shared and
// read-only across invocations; the enqueuing task relinquishes the item on
// enqueue and must not retain it.
type WorkItem struct {
	Fn      WorkFn
	Payload []byte
}
