package status

import (
	"sync"
	"time"
)

// Snapshot is a point-in-time copy of the server's runtime state.
type Snapshot struct {
	State       string
	Connections int
	Broadcasts  uint64
	FramesSent  uint64
	StartedAt   time.Time
}

// Store is the thread-safe holder of runtime counters.
type Store struct {
	mu    sync.RWMutex
	state string
	conns int
	bcast uint64
	sent  uint64
	start time.Time
	now   func() time.Time // injectable for deterministic tests
}

// New creates a Store in the "stopped" state.
func New() *Store {
	s := &Store{state: "stopped", now: time.Now}
	s.start = s.now()
	return s
}

// SetState records the reactor's lifecycle state ("stopped", "listening",
// "running").
func (s *Store) SetState(state string) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// SetConnections records the current live connection count.
func (s *Store) SetConnections(n int) {
	s.mu.Lock()
	s.conns = n
	s.mu.Unlock()
}

// RecordBroadcast counts one fully processed broadcast work item.
func (s *Store) RecordBroadcast() {
	s.mu.Lock()
	s.bcast++
	s.mu.Unlock()
}

// RecordFrameSent counts one outbound text frame.
func (s *Store) RecordFrameSent() {
	s.mu.Lock()
	s.sent++
	s.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		State:       s.state,
		Connections: s.conns,
		Broadcasts:  s.bcast,
		FramesSent:  s.sent,
		StartedAt:   s.start,
	}
}

// Uptime returns how long the process has been up.
func (s *Store) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().Sub(s.start)
}
