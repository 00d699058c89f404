// Package registry tracks the set of live WebSocket connections for the
// reactor. It records each connection's protocol phase and its one-time
// classification tag (application client vs. infrastructure peer).
//
// The registry is confined to the reactor goroutine: only the reactor
// registers, tags, and unregisters connections, so the registry carries no
// internal locking. Other goroutines must never touch it directly — they
// reach connection state through work items drained by the reactor.
package registry
