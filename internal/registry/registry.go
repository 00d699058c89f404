package registry

import (
	"github.com/google/uuid"
)

// Sentinel is the identifier passed to a broadcast callback's final
// invocation, after every live connection has been visited. It never
// addresses a real connection.
var Sentinel = uuid.Nil

// Phase is a connection's position in the WebSocket lifecycle.
type Phase int

const (
	PhaseAccepted Phase = iota
	PhaseHandshaking
	PhaseEstablished
	PhaseClosed
)

// String returns the phase name used in logs.
func (p Phase) String() string {
	switch p {
	case PhaseAccepted:
		return "accepted"
	case PhaseHandshaking:
		return "handshaking"
	case PhaseEstablished:
		return "established"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Tag classifies a connection once its handshake completes.
type Tag int

const (
	// TagNone is the zero tag: the handshake has not completed yet.
	TagNone Tag = iota

	// TagApplication marks a real application client. Broadcast payloads
	// are sent only to connections carrying this tag.
	TagApplication

	// TagInfra marks an infrastructure or loopback peer. It is visited by
	// broadcast callbacks but never receives a frame.
	TagInfra
)

// String returns the tag name used in logs.
func (t Tag) String() string {
	switch t {
	case TagApplication:
		return "application"
	case TagInfra:
		return "infra"
	default:
		return "none"
	}
}

// entry is the per-connection bookkeeping record.
type entry struct {
	phase Phase
	tag   Tag
}

// Registry is the reactor-owned set of live connections, in registration
// order. Not safe for concurrent use — see the package comment.
type Registry struct {
	conns map[uuid.UUID]*entry
	order []uuid.UUID
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{conns: make(map[uuid.UUID]*entry)}
}

// Register adds a newly accepted connection. Registering an id that is
// already present is a no-op.
func (r *Registry) Register(id uuid.UUID) {
	if _, ok := r.conns[id]; ok {
		return
	}
	r.conns[id] = &entry{phase: PhaseAccepted}
	r.order = append(r.order, id)
}

// SetPhase advances the connection's lifecycle phase. Unknown ids are ignored.
func (r *Registry) SetPhase(id uuid.UUID, p Phase) {
	if e, ok := r.conns[id]; ok {
		e.phase = p
	}
}

// Phase returns the connection's current phase and whether it is registered.
func (r *Registry) Phase(id uuid.UUID) (Phase, bool) {
	e, ok := r.conns[id]
	if !ok {
		return PhaseClosed, false
	}
	return e.phase, true
}

// SetTag sets the one-time classification tag. The tag is write-once per
// connection lifetime: a second call is a silent no-op, as is tagging an
// unknown id.
func (r *Registry) SetTag(id uuid.UUID, t Tag) {
	e, ok := r.conns[id]
	if !ok || e.tag != TagNone {
		return
	}
	e.tag = t
}

// Tag returns the connection's tag. Unknown ids report TagNone.
func (r *Registry) Tag(id uuid.UUID) Tag {
	if e, ok := r.conns[id]; ok {
		return e.tag
	}
	return TagNone
}

// Unregister removes a connection. Lookups by that id afterwards report
// "not found"; the id is never reused for a different connection because
// ids are random UUIDs.
func (r *Registry) Unregister(id uuid.UUID) {
	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Snapshot returns a point-in-time copy of the live ids in registration
// order. Mutating the registry after Snapshot returns does not affect the
// returned slice.
func (r *Registry) Snapshot() []uuid.UUID {
	out := make([]uuid.UUID, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	return len(r.conns)
}
