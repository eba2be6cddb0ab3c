// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/dalemusser/photoshare/internal/app/store/dataservice"
	"go.uber.org/zap"
)

// Job is a named unit of background work run on a cron schedule.
type Job struct {
	Name     string
	Schedule string        // five-field cron expression
	Timeout  time.Duration // zero means no per-run deadline
	Run      func(ctx context.Context) error
}

// Migrator is the part of the data service the migration job drives.
type Migrator interface {
	Migrate(ctx context.Context) (dataservice.MigrationReport, error)
}

// MigrationJob re-runs seed migration so a remote store that lost records
// converges back to the seed set. Once converged, a run writes nothing.
func MigrationJob(m Migrator, schedule string, timeout time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "seed-migration",
		Schedule: schedule,
		Timeout:  timeout,
		Run: func(ctx context.Context) error {
			report, err := m.Migrate(ctx)
			if err != nil {
				return err
			}
			if n := report.Total(); n > 0 {
				logger.Info("migration restored records",
					zap.Int("written", n),
					zap.Int("events", report[dataservice.KindEvents]),
					zap.Int("groups", report[dataservice.KindGroups]),
					zap.Int("relationships", report[dataservice.KindRelationships]),
					zap.Int("users", report[dataservice.KindUsers]),
					zap.Int("posts", report[dataservice.KindPosts]))
			} else {
				logger.Debug("migration found nothing to write")
			}
			return nil
		},
	}
}

// Sweeper closes capture sessions idle longer than a threshold.
type Sweeper interface {
	CloseIdle(ctx context.Context, idle time.Duration) int
}

// CaptureSweepJob closes idle capture sessions so their cameras are released.
func CaptureSweepJob(s Sweeper, schedule string, idle time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "capture-sweep",
		Schedule: schedule,
		Timeout:  30 * time.Second,
		Run: func(ctx context.Context) error {
			if n := s.CloseIdle(ctx, idle); n > 0 {
				logger.Info("closed idle capture sessions",
					zap.Int("count", n),
					zap.Duration("idle", idle))
			}
			return nil
		},
	}
}
