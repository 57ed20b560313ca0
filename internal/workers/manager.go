package workers

import (
	"fmt"
	"log/slog"

	"github.com/samber/lo"
)

// Manager starts and stops the scheduled passes as one unit
type Manager struct {
	workers []Worker
	started []Worker
	logger  *slog.Logger
}

func NewManager(logger *slog.Logger, workers ...Worker) *Manager {
	return &Manager{
		workers: workers,
		logger:  logger,
	}
}

// Names returns the managed worker names in start order.
func (m *Manager) Names() []string {
	return lo.Map(m.workers, func(w Worker, _ int) string { return w.Name() })
}

// Start starts every worker. If one fails, the ones already running are
// stopped again so the process never runs a partial schedule.
func (m *Manager) Start() error {
	m.logger.Info("Starting worker manager", "workers", m.Names())

	for _, worker := range m.workers {
		if err := worker.Start(); err != nil {
			m.Stop()
			return fmt.Errorf("failed to start worker %s: %w", worker.Name(), err)
		}
		m.started = append(m.started, worker)
		m.logger.Info("Worker started", "name", worker.Name())
	}

	return nil
}

// Stop stops started workers in reverse order, waiting for running passes.
func (m *Manager) Stop() {
	for i := len(m.started) - 1; i >= 0; i-- {
		m.logger.Info("Stopping worker", "name", m.started[i].Name())
		m.started[i].Stop()
	}
	m.started = nil

	m.logger.Info("All workers stopped")
}
