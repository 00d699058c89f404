package protocol

import "errors"

var (
	// ErrNotConnected reports a SendFrame to an id that is unknown or
	// already closed. Callers skip and continue.
	ErrNotConnected = errors.New("protocol: not connected")

	// ErrBackpressure reports a full outbound buffer. Non-fatal: the
	// caller may retry later or drop the frame for this connection.
	ErrBackpressure = errors.New("protocol: send buffer full")
)
