package producer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/tickcast/tickcast/internal/metrics"
	"github.com/tickcast/tickcast/internal/reactor"
	"github.com/tickcast/tickcast/internal/registry"
	"github.com/tickcast/tickcast/internal/workqueue"
)

// Payload is the fixed text broadcast on every firing.
const Payload = "timer_task"

// DefaultInterval is the broadcast period.
const DefaultInterval = 10 * time.Second

// Producer periodically enqueues one broadcast work item.
type Producer struct {
	queue *workqueue.Queue[reactor.WorkItem]
	clock clockwork.Clock
	met   *metrics.Collector

	mu       sync.Mutex
	interval time.Duration
}

// New creates a Producer firing every interval. Pass a clockwork fake clock
// in tests; clockwork.NewRealClock() in production.
func New(queue *workqueue.Queue[reactor.WorkItem], interval time.Duration, clock clockwork.Clock, met *metrics.Collector) *Producer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Producer{
		queue:    queue,
		clock:    clock,
		met:      met,
		interval: interval,
	}
}

// SetInterval changes the firing period. Takes effect from the next waiting
// cycle; the current sleep finishes at the old interval.
func (p *Producer) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.interval = d
	p.mu.Unlock()
	slog.Info("producer: interval changed", "interval", d)
}

// Interval returns the current firing period.
func (p *Producer) Interval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

// Run fires every interval until ctx is cancelled. It blocks; run it on its
// own goroutine. The loop never waits on the reactor: a full work queue is
// logged and the firing skipped.
func (p *Producer) Run(ctx context.Context) {
	slog.Info("producer: started", "interval", p.Interval())
	for {
		t := p.clock.NewTimer(p.Interval())
		select {
		case <-ctx.Done():
			t.Stop()
			slog.Info("producer: stopped")
			return
		case <-t.Chan():
			p.Fire()
		}
	}
}

// Fire enqueues one broadcast work item. Exposed so tests and diagnostics
// can trigger a broadcast outside the timer schedule.
func (p *Producer) Fire() {
	item := reactor.WorkItem{
		Fn:      Broadcast,
		Payload: []byte(Payload),
	}
	if err := p.queue.Enqueue(item); err != nil {
		if errors.Is(err, workqueue.ErrFull) {
			p.met.EnqueueRejectedTotal.Inc()
		}
		slog.Warn("producer: enqueue failed, skipping this firing", "err", err)
		return
	}
	slog.Debug("producer: work item enqueued", "payload", Payload)
}

// Broadcast is the work callback applied to each connection in the
// reactor's snapshot, and finally to registry.Sentinel once the snapshot is
// exhausted. Only application-tagged connections receive the payload.
func Broadcast(x reactor.Exec, id uuid.UUID, payload []byte) {
	if id == registry.Sentinel {
		slog.Debug("producer: broadcast complete")
		return
	}
	if x.Tag(id) != registry.TagApplication {
		return
	}
	if err := x.SendFrame(id, payload); err != nil {
		// Closed-in-flight and backpressure are per-connection conditions;
		// the rest of the snapshot still gets the frame.
		slog.Warn("producer: broadcast send failed", "conn", id, "err", err)
	}
}
