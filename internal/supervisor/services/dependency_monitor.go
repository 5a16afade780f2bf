// Baselike - Anonymous, Idempotent Like Counting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/baselike

package services

import (
	"context"
	"time"

	"github.com/tomtom215/baselike/internal/logging"
	"github.com/tomtom215/baselike/internal/metrics"
)

// Pinger is satisfied by the like stores and the Redis count cache.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DependencyMonitor pings a dependency on an interval, publishes the
// result as the baselike_dependency_up gauge and logs transitions.
type DependencyMonitor struct {
	name     string
	target   Pinger
	interval time.Duration
	timeout  time.Duration

	// up is nil until the first ping.
	up *bool
}

// NewDependencyMonitor creates a monitor for target. A non-positive
// interval defaults to 30s.
func NewDependencyMonitor(name string, target Pinger, interval time.Duration) *DependencyMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	timeout := 5 * time.Second
	if interval < timeout {
		timeout = interval
	}
	return &DependencyMonitor{
		name:     name,
		target:   target,
		interval: interval,
		timeout:  timeout,
	}
}

// Serve implements suture.Service. It pings once immediately, then on
// every tick, until ctx is canceled.
func (m *DependencyMonitor) Serve(ctx context.Context) error {
	ctx = m.logContext(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// logContext tags every log line of the monitor with its component name.
func (m *DependencyMonitor) logContext(ctx context.Context) context.Context {
	return logging.ContextWithLogger(ctx, logging.WithComponent(m.String()))
}

func (m *DependencyMonitor) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, m.timeout)
	err := m.target.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	up := err == nil
	metrics.SetDependencyUp(m.name, up)

	if m.up != nil && *m.up == up {
		return
	}
	first := m.up == nil
	m.up = &up

	switch {
	case !up:
		logging.Ctx(ctx).Warn().Err(err).Str("dependency", m.name).Msg("Dependency is down")
	case !first:
		logging.Ctx(ctx).Info().Str("dependency", m.name).Msg("Dependency recovered")
	}
}

// String names the service in supervisor logs.
func (m *DependencyMonitor) String() string {
	return m.name + "-monitor"
}
