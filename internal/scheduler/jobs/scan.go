package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wonny/covercall/internal/brain"
	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/internal/export"
	"github.com/wonny/covercall/internal/metrics"
	"github.com/wonny/covercall/internal/strategyconfig"
	"github.com/wonny/covercall/pkg/logger"
)

// Runner runs one analysis (brain.Orchestrator)
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// Invalidator drops a cached market snapshot (market.SnapshotService)
type Invalidator interface {
	Invalidate(ctx context.Context, symbol string) error
}

// ScanJob scans every ticker of one watchlist profile and exports the results
// ⭐ SSOT: 스케줄 스캔은 이 Job에서만
type ScanJob struct {
	profile   strategyconfig.Profile
	defaults  strategyconfig.Defaults
	runner    Runner
	exporter  *export.Exporter
	exportDir string
	location  *time.Location
	metrics   *metrics.Registry
	logger    *logger.Logger
	now       func() time.Time

	invalidator Invalidator

	// 직전 Run에서 실패한 티커 (Resume 대상)
	mu       sync.Mutex
	pending  []string
	asOf     time.Time
	analysis contracts.AnalysisConfig
}

// NewScanJob creates a job for profile. exportDir is used when the
// watchlist defaults leave export_dir empty.
func NewScanJob(
	profile strategyconfig.Profile,
	defaults strategyconfig.Defaults,
	runner Runner,
	exportDir string,
	loc *time.Location,
	m *metrics.Registry,
	log *logger.Logger,
) *ScanJob {
	if defaults.ExportDir != "" {
		exportDir = defaults.ExportDir
	}
	return &ScanJob{
		profile:   profile,
		defaults:  defaults,
		runner:    runner,
		exporter:  export.NewExporter(),
		exportDir: exportDir,
		location:  loc,
		metrics:   m,
		logger:    log.WithField("profile", profile.Name),
		now:       time.Now,
	}
}

// Name returns the job name
func (j *ScanJob) Name() string {
	return "scan_" + j.profile.Name
}

// Schedule returns the profile's cron schedule
func (j *ScanJob) Schedule() string {
	return j.profile.Schedule
}

// WithInvalidator makes every scan drop the ticker's cached chain before analyzing it
func (j *ScanJob) WithInvalidator(inv Invalidator) *ScanJob {
	j.invalidator = inv
	return j
}

// Run analyzes each ticker; one ticker failing does not stop the others
func (j *ScanJob) Run(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.asOf = contracts.Day(j.now().In(j.location))
	j.analysis = j.profile.AnalysisConfig(j.defaults, j.asOf)

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(j.profile.Tickers),
		"as_of":   j.asOf.Format(contracts.DateLayout),
	}).Info("Starting scheduled scan")

	return j.scan(ctx, j.profile.Symbols())
}

// Resume re-scans only the tickers that failed in the previous Run,
// keeping that run's as-of date
func (j *ScanJob) Resume(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.pending) == 0 {
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": j.pending,
		"as_of":   j.asOf.Format(contracts.DateLayout),
	}).Info("Resuming scheduled scan")

	return j.scan(ctx, j.pending)
}

// scan runs symbols and records the failed ones in pending
func (j *ScanJob) scan(ctx context.Context, symbols []string) error {
	var errs []error
	var failed []string
	exported := 0

	for i, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			j.pending = append(failed, symbols[i:]...)
			return err
		}

		if err := j.scanSymbol(ctx, symbol); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", symbol, err))
			failed = append(failed, symbol)
			continue
		}
		if j.profile.ExportEnabled() {
			exported++
		}
	}
	j.pending = failed

	j.logger.WithFields(map[string]interface{}{
		"exported": exported,
		"failed":   len(errs),
	}).Info("Scheduled scan completed")

	return errors.Join(errs...)
}

func (j *ScanJob) scanSymbol(ctx context.Context, symbol string) error {
	if j.invalidator != nil {
		if err := j.invalidator.Invalidate(ctx, symbol); err != nil {
			j.logger.WithError(err).WithField("ticker", symbol).Warn("Failed to invalidate cached snapshot")
		}
	}

	result, err := j.runner.Run(ctx, brain.RunConfig{
		Symbol:   symbol,
		Trigger:  brain.TriggerScheduler,
		Analysis: j.analysis,
	})
	if err != nil {
		return err
	}

	if !j.profile.ExportEnabled() {
		return nil
	}

	path, err := j.exporter.WriteFile(j.exportDir, result.Analysis, j.asOf)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	j.metrics.ExportWritten()

	j.logger.WithFields(map[string]interface{}{
		"ticker":     symbol,
		"path":       path,
		"candidates": len(result.Analysis.Candidates),
	}).Debug("Exported scan result")

	return nil
}
