package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KYD-04/Home-Files/config"
	"github.com/KYD-04/Home-Files/pkg/logger"
	"github.com/KYD-04/Home-Files/pkg/share"
)

const (
	// Timeout for a registry refresh pass
	refreshTimeout = 2 * time.Minute
	// Timeout for the archive sweep
	sweepTimeout = 5 * time.Minute
	// Archives older than this are considered leaked
	archiveMaxAge = time.Hour
)

// Refresher re-resolves every registry entry
type Refresher interface {
	List(ctx context.Context) ([]share.Entry, error)
}

// Sweeper removes leaked temporary archives
type Sweeper interface {
	Sweep(ctx context.Context, maxAge time.Duration) ([]string, error)
}

// Manager manages cron jobs
type Manager struct {
	cron      *cron.Cron
	logger    *logger.Logger
	schedules config.CronConfig
	registry  Refresher
	archives  Sweeper
}

// NewManager creates a new cron manager
func NewManager(logger *logger.Logger, schedules config.CronConfig, registry Refresher, archives Sweeper) *Manager {
	return &Manager{
		cron:      cron.New(cron.WithLogger(cron.DefaultLogger)),
		logger:    logger,
		schedules: schedules,
		registry:  registry,
		archives:  archives,
	}
}

// Start schedules the jobs and starts the cron manager. An empty schedule
// disables its job.
func (m *Manager) Start() error {
	if m.schedules.Refresh != "" {
		if _, err := m.cron.AddFunc(m.schedules.Refresh, m.refreshRegistry); err != nil {
			return fmt.Errorf("failed to add registry refresh job: %w", err)
		}
	}

	if m.schedules.Sweep != "" {
		if _, err := m.cron.AddFunc(m.schedules.Sweep, m.sweepArchives); err != nil {
			return fmt.Errorf("failed to add archive sweep job: %w", err)
		}
	}

	m.cron.Start()
	m.logger.Info("Cron manager started with %d jobs", len(m.cron.Entries()))
	return nil
}

// Stop stops the cron manager and waits for running jobs
func (m *Manager) Stop() {
	<-m.cron.Stop().Done()
	m.logger.Info("Cron manager stopped")
}

// refreshRegistry keeps exists flags current without client traffic
func (m *Manager) refreshRegistry() {
	m.logger.Debug("Running scheduled registry refresh")
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	entries, err := m.registry.List(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			m.logger.Error("Registry refresh timed out after %v", refreshTimeout)
		} else {
			m.logger.Error("Failed to refresh registry: %v", err)
		}
		return
	}

	missing := 0
	for _, e := range entries {
		if !e.Exists {
			missing++
		}
	}
	m.logger.Debug("Registry refreshed: %d entries, %d missing", len(entries), missing)
}

// sweepArchives removes archives left behind by interrupted downloads
func (m *Manager) sweepArchives() {
	m.logger.Debug("Running scheduled archive sweep")
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := m.archives.Sweep(ctx, archiveMaxAge)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			m.logger.Error("Archive sweep timed out after %v", sweepTimeout)
		} else {
			m.logger.Error("Failed to sweep archives: %v", err)
		}
	}
	if len(removed) > 0 {
		m.logger.Info("Removed %d leaked archives", len(removed))
	}
}
