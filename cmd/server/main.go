package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tickcast/tickcast/internal/api"
	"github.com/tickcast/tickcast/internal/config"
	"github.com/tickcast/tickcast/internal/metrics"
	"github.com/tickcast/tickcast/internal/netup"
	"github.com/tickcast/tickcast/internal/producer"
	"github.com/tickcast/tickcast/internal/protocol"
	"github.com/tickcast/tickcast/internal/reactor"
	"github.com/tickcast/tickcast/internal/status"
	"github.com/tickcast/tickcast/internal/workqueue"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("tickcast-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"listen_port", cfg.Server.ListenPort,
		"ws_path", cfg.Server.WSPath,
		"broadcast_interval", cfg.Server.BroadcastInterval,
		"poll_timeout", cfg.Server.PollTimeout,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The reactor and producer tasks only start once the host network is up.
	if err := netup.WaitReady(ctx, cfg.Server.NetProbeInterval); err != nil {
		slog.Error("network never became ready", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	met := metrics.New(reg)
	stats := status.New()

	// Bounded cross-task work channel between the producer and the reactor.
	queue := workqueue.New[reactor.WorkItem](
		cfg.Server.WorkQueue.Capacity,
		cfg.Server.WorkQueue.EnqueueTimeout,
	)

	// Diagnostics share the WebSocket listener; non-upgrade paths fall
	// through to this mux.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.New(stats))
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	adapter := protocol.New(cfg.Server.WSPath)
	adapter.Fallback = mux

	prod := producer.New(queue, cfg.Server.BroadcastInterval, clockwork.NewRealClock(), met)
	go prod.Run(ctx)

	// Apply config edits without a restart (broadcast interval only; a port
	// change still needs a restart).
	go func() {
		if err := config.Watch(ctx, *configPath, func(c *config.Config) {
			prod.SetInterval(c.Server.BroadcastInterval)
		}); err != nil {
			slog.Warn("config watch unavailable", "err", err)
		}
	}()

	r := reactor.New(reactor.Config{
		Port:        cfg.Server.ListenPort,
		PollTimeout: cfg.Server.PollTimeout,
	}, adapter, queue, stats, met)

	if err := r.Run(ctx); err != nil {
		slog.Error("reactor failed", "err", err)
		os.Exit(1)
	}

	slog.Info("tickcast-server shut down")
}
