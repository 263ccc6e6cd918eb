package archiver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"logvault/pkg/config"
	"logvault/pkg/logger"
)

// StartScheduler starts the cron-driven archive loop if enabled and
// returns a cancel func. When the schedule is disabled runs only happen
// via the HTTP trigger.
func StartScheduler(ctx context.Context, a *Archiver, cfg config.ArchiveConfig) (context.CancelFunc, error) {
	if !cfg.Enabled {
		logger.Info("archive_schedule_disabled")
		return func() {}, nil
	}

	cronExpr := cfg.CronOrDefault()
	if !gronx.IsValid(cronExpr) {
		logger.Error("archive_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid archive cron expression: %s", cronExpr)
	}

	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, a, cronExpr)
	logger.Info("archive_scheduler_started", "cron", cronExpr)
	return cancel, nil
}

// runScheduler computes the next tick for the cron expression with gronx
// and sleeps until then. Full cron syntax is supported.
func runScheduler(ctx context.Context, a *Archiver, cronExpr string) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("archive_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("archive_nexttick_failed", "cron", cronExpr, "error", err)
			// fallback sleep then retry
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				logger.Info("archive_scheduler_stopping")
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			runScheduled(ctx, a)
		case <-ctx.Done():
			logger.Info("archive_scheduler_stopping")
			return
		}
	}
}

func runScheduled(ctx context.Context, a *Archiver) {
	report, err := a.Run(ctx)
	if errors.Is(err, ErrRunInFlight) {
		// a manual trigger is still running; this tick is skipped, not queued
		logger.Warn("archive_scheduled_run_skipped", "reason", "run_in_flight")
		return
	}
	if err != nil {
		logger.Error("archive_scheduled_run_failed", "error", err)
		return
	}
	logger.Info("archive_scheduled_run_done", "run_id", report.ID, "fetched", report.Fetched)
}
