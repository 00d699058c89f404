// Package reactor implements the single-goroutine event loop at the heart
// of tickcast-server.
//
// The reactor is the exclusive owner of the connection registry: it alone
// handles protocol events, tags connections, and sends frames. Other
// goroutines inject work through the bounded work queue; each loop
// iteration the reactor parks for at most the poll timeout, then processes
// any pending protocol events and drains pending work items, so neither
// side starves and enqueue-to-processing latency is bounded by the poll
// timeout.
//
// Lifecycle: Stopped -> Listening -> Running -> Stopped. A bind failure is
// fatal to the instance; Run returns the error without ever entering
// Running.
//
// Broadcast work items follow the 1+N contract: the callback runs once per
// connection in the snapshot taken at drain time, then once more with
// registry.Sentinel to signal completion. Connections that close between
// snapshot and send are skipped, not errors.
package reactor
