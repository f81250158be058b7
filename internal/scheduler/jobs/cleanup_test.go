package jobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/covercall/pkg/logger"
)

func TestExportCleanupJob(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	files := map[string]time.Time{
		"AMZN_Covered_Calls_20260101.csv": now.AddDate(0, 0, -60),
		"AMZN_Covered_Calls_20260330.csv": now.AddDate(0, 0, -1),
		"notes.csv":                       now.AddDate(0, 0, -60),
	}
	for name, mtime := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}

	job := NewExportCleanupJob(dir, 30*24*time.Hour, logger.Nop())
	job.now = func() time.Time { return now }

	assert.Equal(t, "export_cleanup", job.Name())
	require.NoError(t, job.Run(context.Background()))

	_, err := os.Stat(filepath.Join(dir, "AMZN_Covered_Calls_20260101.csv"))
	assert.True(t, os.IsNotExist(err))

	for _, kept := range []string{"AMZN_Covered_Calls_20260330.csv", "notes.csv"} {
		_, err := os.Stat(filepath.Join(dir, kept))
		assert.NoError(t, err, kept)
	}
}
