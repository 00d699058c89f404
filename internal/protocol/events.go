package protocol

import "github.com/google/uuid"

// Event is one typed transport occurrence delivered to the reactor.
// The set of implementations is closed: HandshakeRequested,
// HandshakeCompleted, FrameReceived, Closed.
type Event interface {
	// Conn returns the id of the connection the event belongs to.
	Conn() uuid.UUID
}

// HandshakeRequested is emitted when a client starts the WebSocket upgrade.
type HandshakeRequested struct {
	ID         uuid.UUID
	RemoteAddr string
}

// HandshakeCompleted is emitted once the upgrade succeeds and the
// connection can carry frames.
type HandshakeCompleted struct {
	ID         uuid.UUID
	RemoteAddr string
}

// FrameReceived is emitted for each inbound data frame. Payload is owned by
// the receiver; the adapter does not reuse it.
type FrameReceived struct {
	ID      uuid.UUID
	Payload []byte
}

// Closed is emitted exactly once when the connection ends, whatever the
// cause (client close, read error, failed upgrade, shutdown).
type Closed struct {
	ID uuid.UUID
}

func (e HandshakeRequested) Conn() uuid.UUID { return e.ID }
func (e HandshakeCompleted) Conn() uuid.UUID { return e.ID }
func (e FrameReceived) Conn() uuid.UUID      { return e.ID }
func (e Closed) Conn() uuid.UUID             { return e.ID }
