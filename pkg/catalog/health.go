// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultProbeSchedule is the default cadence for background health probes.
const DefaultProbeSchedule = "@every 1m"

// probeTimeout bounds a single Ping so a hung backend cannot stall probes.
const probeTimeout = 10 * time.Second

// Monitor runs periodic health probes against a backend so long-lived
// servers can report staleness without blocking request paths. Probe results
// are cached; Healthy never touches the backend.
type Monitor struct {
	backend  Backend
	engine   *cron.Cron
	schedule string
	logger   *zap.Logger

	mu          sync.RWMutex
	healthy     bool
	lastErr     error
	lastChecked time.Time
}

// NewMonitor creates a health monitor for the backend. schedule accepts the
// standard 5-field cron format or descriptors like "@every 1m"; empty means
// DefaultProbeSchedule.
func NewMonitor(backend Backend, schedule string, logger *zap.Logger) (*Monitor, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule == "" {
		schedule = DefaultProbeSchedule
	}

	m := &Monitor{
		backend:  backend,
		engine:   cron.New(),
		schedule: schedule,
		logger:   logger,
	}

	if _, err := m.engine.AddFunc(schedule, m.probe); err != nil {
		return nil, fmt.Errorf("invalid probe schedule %q: %w", schedule, err)
	}

	return m, nil
}

// Start probes once immediately, then begins the scheduled probes.
func (m *Monitor) Start() {
	m.probe()
	m.engine.Start()
	m.logger.Info("backend health monitor started",
		zap.String("backend", m.backend.Name()),
		zap.String("schedule", m.schedule))
}

// Stop halts scheduled probes and waits for an in-flight probe to finish.
func (m *Monitor) Stop() {
	ctx := m.engine.Stop()
	<-ctx.Done()
	m.logger.Info("backend health monitor stopped",
		zap.String("backend", m.backend.Name()))
}

// Healthy returns the cached probe outcome and the time it was taken.
func (m *Monitor) Healthy() (bool, time.Time, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy, m.lastChecked, m.lastErr
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	err := m.backend.Ping(ctx)

	m.mu.Lock()
	wasHealthy := m.healthy
	m.healthy = err == nil
	m.lastErr = err
	m.lastChecked = time.Now()
	m.mu.Unlock()

	switch {
	case err != nil && wasHealthy:
		m.logger.Warn("backend became unhealthy",
			zap.String("backend", m.backend.Name()),
			zap.Error(err))
	case err == nil && !wasHealthy:
		m.logger.Info("backend healthy",
			zap.String("backend", m.backend.Name()))
	}
}
