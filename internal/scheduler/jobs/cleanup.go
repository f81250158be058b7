package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/covercall/pkg/logger"
)

// ExportCleanupJob removes exported CSV files older than the retention window
type ExportCleanupJob struct {
	dir       string
	retention time.Duration
	logger    *logger.Logger
	now       func() time.Time
}

// NewExportCleanupJob creates a new export cleanup job
func NewExportCleanupJob(dir string, retention time.Duration, log *logger.Logger) *ExportCleanupJob {
	return &ExportCleanupJob{
		dir:       dir,
		retention: retention,
		logger:    log,
		now:       time.Now,
	}
}

// Name returns the job name
func (j *ExportCleanupJob) Name() string {
	return "export_cleanup"
}

// Schedule returns the cron schedule (3 AM daily)
func (j *ExportCleanupJob) Schedule() string {
	return "0 0 3 * * *"
}

// Run deletes stale exports
func (j *ExportCleanupJob) Run(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(j.dir, "*_Covered_Calls_*.csv"))
	if err != nil {
		return fmt.Errorf("glob exports: %w", err)
	}

	cutoff := j.now().Add(-j.retention)
	removed := 0

	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(path)
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
	}

	if removed > 0 {
		j.logger.WithField("removed", removed).Info("Export cleanup completed")
	}

	return nil
}
