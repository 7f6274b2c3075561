// Package task runs the background jobs: currently the referral aggregate
// refresh.
package task

import (
	"time"

	"gradepay/internal/logger"

	"github.com/go-co-op/gocron/v2"
)

type Manager struct {
	scheduler gocron.Scheduler
}

func NewManager() (*Manager, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	return &Manager{scheduler: s}, nil
}

func (m *Manager) Every(interval time.Duration, name string, job func()) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(job),
		gocron.WithName(name),
	)
	return err
}

func (m *Manager) Start() {
	m.scheduler.Start()
	logger.Info("task manager started, jobs=%d", len(m.scheduler.Jobs()))
}

func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Warn("task manager shutdown: %v", err)
	}
}
