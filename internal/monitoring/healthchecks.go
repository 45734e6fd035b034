package monitoring

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

const HEALTHCHECK_TIMER = 15

// CheckFunc reports whether a dependency is usable.
type CheckFunc func(ctx context.Context) error

// Monitor re-runs a dependency check on a ticker and caches the outcome so
// readiness probes do not hit the dependency on every request.
type Monitor struct {
	name     string
	check    CheckFunc
	interval time.Duration
	healthy  atomic.Bool
}

func NewMonitor(name string, check CheckFunc, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = time.Second * HEALTHCHECK_TIMER
	}
	return &Monitor{name: name, check: check, interval: interval}
}

func (m *Monitor) Name() string {
	return m.name
}

// Healthy returns the result of the most recent check.
func (m *Monitor) Healthy() bool {
	return m.healthy.Load()
}

// Check runs the dependency check once and records the outcome.
func (m *Monitor) Check(ctx context.Context) error {
	err := m.check(ctx)
	wasHealthy := m.healthy.Swap(err == nil)
	switch {
	case err != nil && wasHealthy:
		slog.Warn("[HealthCheck] dependency is unhealthy", "check", m.name, "error", err)
	case err == nil && !wasHealthy:
		slog.Info("[HealthCheck] dependency is healthy", "check", m.name)
	}
	return err
}

// Run checks immediately, then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Status reports the cached outcome as an error, for readiness probes.
func (m *Monitor) Status(context.Context) error {
	if !m.Healthy() {
		return fmt.Errorf("[HealthCheck] %s is unhealthy", m.name)
	}
	return nil
}
