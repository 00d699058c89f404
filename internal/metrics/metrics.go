// Package metrics defines the Prometheus collectors for tickcast-server.
// A Collector is registered against an explicit Registerer so tests can use
// a private registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector bundles all server metrics.
type Collector struct {
	// ConnectionsActive is the number of currently registered connections.
	ConnectionsActive prometheus.Gauge

	// BroadcastsTotal counts fully processed broadcast work items.
	BroadcastsTotal prometheus.Counter

	// FramesSentTotal counts outbound text frames by kind
	// (kind="reply" for echo replies, kind="broadcast" for timer payloads).
	FramesSentTotal *prometheus.CounterVec

	// SendErrorsTotal counts failed frame sends by reason
	// (reason="not_connected" or reason="backpressure").
	SendErrorsTotal *prometheus.CounterVec

	// EnqueueRejectedTotal counts work items dropped because the work
	// queue stayed full past the enqueue timeout.
	EnqueueRejectedTotal prometheus.Counter

	// ReactorIterations counts reactor loop turns, including idle ones.
	ReactorIterations prometheus.Counter
}

// New creates and registers a Collector on reg.
func New(reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)
	return &Collector{
		ConnectionsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "tickcast_connections_active",
			Help: "Number of currently registered WebSocket connections",
		}),
		BroadcastsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "tickcast_broadcasts_total",
			Help: "Total number of broadcast work items fully processed",
		}),
		FramesSentTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickcast_frames_sent_total",
			Help: "Total number of outbound text frames by kind",
		}, []string{"kind"}),
		SendErrorsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "tickcast_send_errors_total",
			Help: "Total number of failed frame sends by reason",
		}, []string{"reason"}),
		EnqueueRejectedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "tickcast_work_enqueue_rejected_total",
			Help: "Total number of work items dropped on a full work queue",
		}),
		ReactorIterations: f.NewCounter(prometheus.CounterOpts{
			Name: "tickcast_reactor_iterations_total",
			Help: "Total number of reactor loop iterations",
		}),
	}
}
