// Package protocol is the WebSocket transport layer for tickcast-server.
//
// Adapter owns the listening socket and the per-connection gorilla/websocket
// sessions. It translates raw transport activity into a closed set of typed
// events (HandshakeRequested, HandshakeCompleted, FrameReceived, Closed)
// delivered to the reactor in per-connection arrival order, and exposes one
// outbound primitive, SendFrame, backed by a bounded per-connection send
// buffer drained by a dedicated write pump.
//
// The reactor never touches sockets directly; the adapter never interprets
// frame contents. SendFrame fails fast: ErrNotConnected for unknown or
// closed ids, ErrBackpressure when a client's outgoing buffer is full.
package protocol
