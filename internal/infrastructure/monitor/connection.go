package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/todo/repository"
)

const checkTimeout = 3 * time.Second

// Monitor periodically pings the task store and caches the result for /health.
type Monitor struct {
	driver string
	store  repository.Pinger

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(driver string, store repository.Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		driver:   driver,
		store:    store,
		interval: interval,
		cron:     cron.New(),
		logger:   logger,
		status:   Status{Driver: driver},
	}
}

// Start runs one check immediately and schedules the rest.
func (m *Monitor) Start() error {
	m.Refresh()
	schedule := fmt.Sprintf("@every %s", m.interval)
	if _, err := m.cron.AddFunc(schedule, m.Refresh); err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh pings the store synchronously and records the outcome.
func (m *Monitor) Refresh() {
	status := Status{
		Driver:    m.driver,
		Store:     true,
		LastCheck: time.Now().UTC(),
	}
	if err := m.check(); err != nil {
		status.Store = false
		status.Error = err.Error()
	}

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if previous.Store != status.Store && !previous.LastCheck.IsZero() {
		if status.Store {
			m.logger.Info("task store reachable again", zap.String("driver", m.driver))
		} else {
			m.logger.Warn("task store unreachable", zap.String("driver", m.driver), zap.String("error", status.Error))
		}
	}
}

func (m *Monitor) check() error {
	if m.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()
	return m.store.Ping(ctx)
}
