// Package status holds the server's runtime counters for the diagnostics
// API. The reactor is the only writer; the HTTP handlers read point-in-time
// copies, so the store is guarded by a RWMutex rather than being confined
// to the reactor goroutine.
package status
