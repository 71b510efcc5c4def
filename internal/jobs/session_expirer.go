package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Expirer is the slice of the interview service the sweeper needs.
type Expirer interface {
	ExpireOverdue(ctx context.Context) (int, error)
}

// SessionExpirerJob periodically closes in-progress sessions whose time
// limit has lapsed without the client ever calling back.
type SessionExpirerJob struct {
	service Expirer
	config  *ExpirerConfig
	logger  *zap.Logger
	cron    *cron.Cron
}

// ExpirerConfig contains configuration for the sweeper job.
type ExpirerConfig struct {
	Schedule string // Cron schedule (e.g., "*/5 * * * *" for every 5 minutes)
	Enabled  bool
	Timeout  time.Duration // Per-run deadline
}

func NewSessionExpirerJob(service Expirer, config *ExpirerConfig, logger *zap.Logger) *SessionExpirerJob {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	return &SessionExpirerJob{
		service: service,
		config:  config,
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start begins the scheduled sweep.
func (sej *SessionExpirerJob) Start() error {
	if !sej.config.Enabled {
		sej.logger.Info("session expirer is disabled, skipping scheduler")
		return nil
	}

	_, err := sej.cron.AddFunc(sej.config.Schedule, func() {
		if err := sej.RunSweep(); err != nil {
			sej.logger.Error("session expiry sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}

	sej.cron.Start()
	sej.logger.Info("session expirer started", zap.String("schedule", sej.config.Schedule))
	return nil
}

// Stop stops the scheduled sweep. In-flight runs finish.
func (sej *SessionExpirerJob) Stop() {
	if sej.cron != nil {
		sej.cron.Stop()
		sej.logger.Info("session expirer stopped")
	}
}

// RunSweep performs a single sweep. Also callable on demand.
func (sej *SessionExpirerJob) RunSweep() error {
	ctx, cancel := context.WithTimeout(context.Background(), sej.config.Timeout)
	defer cancel()

	expired, err := sej.service.ExpireOverdue(ctx)
	if err != nil {
		return fmt.Errorf("expire overdue sessions: %w", err)
	}
	if expired > 0 {
		sej.logger.Info("expiry sweep closed sessions", zap.Int("count", expired))
	}
	return nil
}
