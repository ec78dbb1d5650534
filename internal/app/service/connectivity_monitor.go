package service

import (
	"context"
	"time"

	"network_registry/internal/app/port"

	"go.uber.org/zap"
)

// Prober checks whether the outside world is reachable.
type Prober interface {
	Probe(ctx context.Context) error
}

// ConnectivityMonitor probes connectivity periodically and broadcasts the network error flag
// to every chain when reachability changes.
type ConnectivityMonitor struct {
	prober      Prober
	broadcaster port.ErrorBroadcaster
	interval    time.Duration
	logger      *zap.Logger

	reachable bool
	known     bool
}

// NewConnectivityMonitor creates a monitor. A non-positive interval defaults to 15s.
func NewConnectivityMonitor(prober Prober, broadcaster port.ErrorBroadcaster, interval time.Duration, logger *zap.Logger) *ConnectivityMonitor {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &ConnectivityMonitor{
		prober:      prober,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logger.Named("ConnectivityMonitor"),
	}
}

// Run probes until ctx is cancelled. Not safe for concurrent use with Check.
func (m *ConnectivityMonitor) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Check(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check probes once and broadcasts on a reachability transition. It reports the current reachability.
func (m *ConnectivityMonitor) Check(ctx context.Context) bool {
	err := m.prober.Probe(ctx)
	reachable := err == nil

	// the first probe only broadcasts when offline: all chains start without the flag
	changed := (m.known && reachable != m.reachable) || (!m.known && !reachable)
	m.known = true
	m.reachable = reachable

	if !changed {
		return reachable
	}
	if reachable {
		m.logger.Info("Connectivity restored")
	} else {
		m.logger.Warn("Connectivity lost", zap.Error(err))
	}
	m.broadcaster.SetAllNetworksError(!reachable)
	return reachable
}
