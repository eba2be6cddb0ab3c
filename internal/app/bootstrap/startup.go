// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"github.com/dalemusser/photoshare/internal/app/system/tasks"
	"github.com/dalemusser/photoshare/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs after the store is connected and indexed, before the HTTP
// handler is built. It brings a remote store up to the seed set and starts
// the background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Mode == dataservice.ModeRemote && appCfg.MigrateOnStartup {
		mctx, cancel := timeouts.WithTimeout(ctx, timeouts.Migrate(), logger, "startup migration")
		report, err := deps.Data.Migrate(mctx)
		cancel()
		if err != nil {
			// Serving with a partially migrated store is still useful; the
			// scheduled job retries.
			logger.Warn("startup migration incomplete", zap.Error(err))
		} else {
			logger.Info("startup migration complete", zap.Int("written", report.Total()))
		}
	}

	for _, job := range backgroundJobs(appCfg, deps, logger) {
		if err := deps.Scheduler.Add(job); err != nil {
			return err
		}
	}
	deps.Scheduler.Start()
	return nil
}

// backgroundJobs lists the scheduled jobs for this configuration. Migration
// only runs against a remote store.
func backgroundJobs(appCfg AppConfig, deps DBDeps, logger *zap.Logger) []tasks.Job {
	jobs := []tasks.Job{
		tasks.CaptureSweepJob(deps.Capture, appCfg.CaptureSweepSchedule, appCfg.CaptureIdleTimeout, logger.Named("capture-sweep")),
	}
	if deps.Mode == dataservice.ModeRemote && appCfg.MigrateSchedule != "" {
		jobs = append(jobs, tasks.MigrationJob(deps.Data, appCfg.MigrateSchedule, timeouts.Migrate(), logger.Named("migration")))
	}
	return jobs
}
