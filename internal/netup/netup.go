// Package netup is the boundary to host network bring-up. The service does
// not manage association or addressing itself; it only needs the single
// "network is ready" signal before starting the reactor and producer tasks.
package netup

import (
	"context"
	"log/slog"
	"net"
	"time"
)

// DefaultProbeInterval is how often readiness is re-checked while waiting.
const DefaultProbeInterval = 2 * time.Second

// WaitReady blocks until the host has a usable network: at least one
// non-loopback interface that is up and carries an address. Returns
// ctx.Err() if cancelled first. Loss of network after readiness is not
// monitored; recovery is outside this service.
func WaitReady(ctx context.Context, probe time.Duration) error {
	if probe <= 0 {
		probe = DefaultProbeInterval
	}
	if Ready() {
		return nil
	}

	slog.Info("netup: waiting for network", "probe_interval", probe)
	t := time.NewTicker(probe)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if Ready() {
				slog.Info("netup: network ready")
				return nil
			}
		}
	}
}

// Ready reports whether a non-loopback interface is up with an address.
func Ready() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err != nil || len(addrs) == 0 {
			continue
		}
		return true
	}
	return false
}
