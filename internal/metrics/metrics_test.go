package metrics_test

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/tickcast/tickcast/internal/metrics"
)

// gatherText renders the registry in the Prometheus text exposition format
// and parses it back, mirroring what a scraper sees.
func gatherText(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	parsed, err := (&expfmt.TextParser{}).TextToMetricFamilies(&buf)
	if err != nil {
		t.Fatalf("parse exposition: %v", err)
	}
	return parsed
}

func TestCollector_Exposition(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.New(reg)

	c.ConnectionsActive.Set(2)
	c.BroadcastsTotal.Inc()
	c.FramesSentTotal.WithLabelValues("reply").Inc()
	c.FramesSentTotal.WithLabelValues("broadcast").Add(3)
	c.SendErrorsTotal.WithLabelValues("backpressure").Inc()
	c.EnqueueRejectedTotal.Inc()
	c.ReactorIterations.Add(10)

	fams := gatherText(t, reg)

	wantNames := []string{
		"tickcast_connections_active",
		"tickcast_broadcasts_total",
		"tickcast_frames_sent_total",
		"tickcast_send_errors_total",
		"tickcast_work_enqueue_rejected_total",
		"tickcast_reactor_iterations_total",
	}
	for _, name := range wantNames {
		if _, ok := fams[name]; !ok {
			t.Errorf("metric %s: missing from exposition", name)
		}
	}

	if got := fams["tickcast_connections_active"].GetMetric()[0].GetGauge().GetValue(); got != 2 {
		t.Errorf("connections_active: got %v, want 2", got)
	}

	frames := fams["tickcast_frames_sent_total"].GetMetric()
	if len(frames) != 2 {
		t.Fatalf("frames_sent series: got %d, want 2", len(frames))
	}
	byKind := map[string]float64{}
	for _, m := range frames {
		byKind[m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
	}
	if byKind["reply"] != 1 || byKind["broadcast"] != 3 {
		t.Errorf("frames_sent by kind: got %v", byKind)
	}
}

func TestCollector_RegistersCleanlyTwice(t *testing.T) {
	// Separate registries must not collide; a Collector is per-registry.
	metrics.New(prometheus.NewRegistry())
	metrics.New(prometheus.NewRegistry())
}
