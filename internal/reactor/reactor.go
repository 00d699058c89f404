package reactor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tickcast/tickcast/internal/metrics"
	"github.com/tickcast/tickcast/internal/protocol"
	"github.com/tickcast/tickcast/internal/registry"
	"github.com/tickcast/tickcast/internal/status"
	"github.com/tickcast/tickcast/internal/workqueue"
)

// frameReply is the echo payload sent for every non-empty inbound frame.
const frameReply = "ws_frame_reply"

const (
	// DefaultPollTimeout bounds how long one iteration may park waiting
	// for activity. Worst-case latency from enqueue to work processing.
	DefaultPollTimeout = 200 * time.Millisecond

	// maxEventBatch caps the protocol events handled per iteration so
	// work items cannot be starved by a busy transport.
	maxEventBatch = 64

	// maxWorkDrain caps the work items processed per iteration.
	maxWorkDrain = 16
)

// Config carries the reactor's tunables.
type Config struct {
	Port        int
	PollTimeout time.Duration
}

// Reactor is the single-goroutine event loop owning all connection state.
type Reactor struct {
	cfg     Config
	adapter *protocol.Adapter
	queue   *workqueue.Queue[WorkItem]
	reg     *registry.Registry
	stats   *status.Store
	met     *metrics.Collector
}

// New creates a Reactor. The adapter must not be bound yet; Run performs
// the bind so a failure surfaces as its error.
func New(cfg Config, adapter *protocol.Adapter, queue *workqueue.Queue[WorkItem], stats *status.Store, met *metrics.Collector) *Reactor {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	return &Reactor{
		cfg:     cfg,
		adapter: adapter,
		queue:   queue,
		reg:     registry.New(),
		stats:   stats,
		met:     met,
	}
}

// Run binds the listener and processes events and work items until ctx is
// cancelled. A bind failure is returned immediately; afterwards Run only
// returns nil, once shutdown completes. Run must be called exactly once.
func (r *Reactor) Run(ctx context.Context) error {
	r.stats.SetState("listening")
	if err := r.adapter.Bind(r.cfg.Port); err != nil {
		r.stats.SetState("stopped")
		return err
	}
	r.adapter.Serve(ctx)

	r.stats.SetState("running")
	slog.Info("reactor: running", "addr", r.adapter.Addr().String(), "poll_timeout", r.cfg.PollTimeout)

	timer := time.NewTimer(r.cfg.PollTimeout)
	defer timer.Stop()

	for {
		// Park until there is activity, but never past the poll timeout.
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(r.cfg.PollTimeout)

		select {
		case <-ctx.Done():
			r.stats.SetState("stopped")
			slog.Info("reactor: stopped", "connections", r.reg.Count())
			return nil

		case ev := <-r.adapter.Events():
			r.handleEvent(ev)

		case item := <-r.queue.C():
			r.process(item)

		case <-timer.C:
			// Idle turn.
		}

		// Handle whatever else is already pending, without blocking, so
		// both event and work processing run every iteration.
	events:
		for i := 0; i < maxEventBatch; i++ {
			select {
			case ev := <-r.adapter.Events():
				r.handleEvent(ev)
			default:
				break events
			}
		}
		for _, item := range r.queue.Drain(maxWorkDrain) {
			r.process(item)
		}

		r.met.ReactorIterations.Inc()
	}
}

// --- event handling ---------------------------------------------------------

func (r *Reactor) handleEvent(ev protocol.Event) {
	switch e := ev.(type) {
	case protocol.HandshakeRequested:
		slog.Info("ws handshake request", "conn", e.ID, "remote", e.RemoteAddr)
		r.reg.Register(e.ID)
		r.reg.SetPhase(e.ID, registry.PhaseHandshaking)
		r.syncGauges()

	case protocol.HandshakeCompleted:
		slog.Info("ws handshake done", "conn", e.ID, "remote", e.RemoteAddr)
		r.reg.Register(e.ID) // no-op when the request event was seen first
		r.reg.SetPhase(e.ID, registry.PhaseEstablished)
		r.reg.SetTag(e.ID, registry.TagApplication)

	case protocol.FrameReceived:
		if len(e.Payload) == 0 {
			return
		}
		slog.Debug("ws frame", "conn", e.ID, "size", len(e.Payload))
		if err := r.SendFrame(e.ID, []byte(frameReply)); err != nil {
			slog.Warn("reactor: echo reply failed", "conn", e.ID, "err", err)
		} else {
			r.met.FramesSentTotal.WithLabelValues("reply").Inc()
		}

	case protocol.Closed:
		slog.Info("connection closed", "conn", e.ID)
		r.reg.SetPhase(e.ID, registry.PhaseClosed)
		r.reg.Unregister(e.ID)
		r.syncGauges()
	}
}

// process applies one work item to the snapshot of connections live right
// now: N per-connection invocations plus one sentinel completion call.
func (r *Reactor) process(item WorkItem) {
	snap := r.reg.Snapshot()
	x := kindExec{r: r, kind: "broadcast"}
	for _, id := range snap {
		item.Fn(x, id, item.Payload)
	}
	item.Fn(x, registry.Sentinel, item.Payload)

	r.stats.RecordBroadcast()
	r.met.BroadcastsTotal.Inc()
	slog.Debug("reactor: work item processed", "visited", len(snap))
}

func (r *Reactor) syncGauges() {
	n := r.reg.Count()
	r.stats.SetConnections(n)
	r.met.ConnectionsActive.Set(float64(n))
}

// --- Exec -------------------------------------------------------------------

// Tag implements Exec.
func (r *Reactor) Tag(id uuid.UUID) registry.Tag {
	return r.reg.Tag(id)
}

// SendFrame implements Exec. Send errors are counted but left to the caller
// to log, since only the caller knows whether a drop matters.
func (r *Reactor) SendFrame(id uuid.UUID, payload []byte) error {
	err := r.adapter.SendFrame(id, payload)
	switch {
	case err == nil:
		r.stats.RecordFrameSent()
		return nil
	case errors.Is(err, protocol.ErrNotConnected):
		r.met.SendErrorsTotal.WithLabelValues("not_connected").Inc()
	case errors.Is(err, protocol.ErrBackpressure):
		r.met.SendErrorsTotal.WithLabelValues("backpressure").Inc()
	}
	return err
}

// kindExec is the Exec handed to work callbacks; it attributes successful
// sends to the item's frame kind.
type kindExec struct {
	r    *Reactor
	kind string
}

func (x kindExec) Tag(id uuid.UUID) registry.Tag { return x.r.Tag(id) }

func (x kindExec) SendFrame(id uuid.UUID, payload []byte) error {
	err := x.r.SendFrame(id, payload)
	if err == nil {
		x.r.met.FramesSentTotal.WithLabelValues(x.kind).Inc()
	}
	return err
}
