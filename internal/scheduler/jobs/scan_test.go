package jobs

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/covercall/internal/brain"
	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/internal/metrics"
	"github.com/wonny/covercall/internal/strategyconfig"
	"github.com/wonny/covercall/pkg/logger"
)

type fakeRunner struct {
	mu      sync.Mutex
	configs []brain.RunConfig
	fail    map[string]error
}

func (r *fakeRunner) Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error) {
	r.mu.Lock()
	r.configs = append(r.configs, config)
	r.mu.Unlock()

	if err := r.fail[config.Symbol]; err != nil {
		return &brain.RunResult{Symbol: config.Symbol, Error: err}, err
	}

	return &brain.RunResult{
		Symbol:  config.Symbol,
		Success: true,
		Analysis: &contracts.AnalysisResult{
			Symbol: config.Symbol,
			Spot:   100,
			Config: config.Analysis,
			Candidates: []contracts.RankedCandidate{{
				Rank: 1,
				DTE:  7,
				Contract: contracts.OptionContract{
					Symbol:     config.Symbol,
					Expiration: config.Analysis.AsOf.AddDate(0, 0, 7),
					Strike:     105,
					Premium:    1.2,
				},
			}},
		},
	}, nil
}

func newScanJob(t *testing.T, profile strategyconfig.Profile, runner Runner, m *metrics.Registry) (*ScanJob, string) {
	t.Helper()
	dir := t.TempDir()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	job := NewScanJob(profile, strategyconfig.Defaults{Weeks: 4, MaxDelta: 0.3}, runner, dir, loc, m, logger.Nop())
	// 2026-03-03 01:30 UTC = 2026-03-02 20:30 ET
	job.now = func() time.Time { return time.Date(2026, 3, 3, 1, 30, 0, 0, time.UTC) }
	return job, dir
}

func TestScanJobNameAndSchedule(t *testing.T) {
	job, _ := newScanJob(t, strategyconfig.Profile{Name: "megacap", Schedule: "@daily"}, &fakeRunner{}, nil)
	assert.Equal(t, "scan_megacap", job.Name())
	assert.Equal(t, "@daily", job.Schedule())
}

func TestScanJobRun(t *testing.T) {
	runner := &fakeRunner{}
	m := metrics.New()
	job, dir := newScanJob(t, strategyconfig.Profile{
		Name:     "megacap",
		Schedule: "@daily",
		Tickers:  []string{"amzn", "AAPL"},
		Weeks:    2,
	}, runner, m)

	require.NoError(t, job.Run(context.Background()))

	require.Len(t, runner.configs, 2)
	assert.Equal(t, "AMZN", runner.configs[0].Symbol)
	assert.Equal(t, brain.TriggerScheduler, runner.configs[0].Trigger)

	analysis := runner.configs[0].Analysis
	assert.Equal(t, 2, analysis.Weeks)
	assert.Equal(t, 0.3, analysis.MaxDelta)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), analysis.AsOf, "as-of is the New York calendar date")

	for _, name := range []string{"AMZN_Covered_Calls_20260302.csv", "AAPL_Covered_Calls_20260302.csv"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExportsWritten))
}

func TestScanJobPartialFailure(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{"AMZN": contracts.ErrUpstream}}
	job, dir := newScanJob(t, strategyconfig.Profile{
		Name:     "megacap",
		Schedule: "@daily",
		Tickers:  []string{"AMZN", "AAPL"},
	}, runner, nil)

	err := job.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, contracts.ErrUpstream))
	assert.Contains(t, err.Error(), "AMZN")

	// AAPL still ran and exported
	assert.Len(t, runner.configs, 2)
	_, statErr := os.Stat(filepath.Join(dir, "AAPL_Covered_Calls_20260302.csv"))
	assert.NoError(t, statErr)
}

func TestScanJobExportDisabled(t *testing.T) {
	off := false
	job, dir := newScanJob(t, strategyconfig.Profile{
		Name:     "watch_only",
		Schedule: "@daily",
		Tickers:  []string{"AMZN"},
		Export:   &off,
	}, &fakeRunner{}, nil)

	require.NoError(t, job.Run(context.Background()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestScanJobCancelled(t *testing.T) {
	runner := &fakeRunner{}
	job, _ := newScanJob(t, strategyconfig.Profile{Name: "p", Schedule: "@daily", Tickers: []string{"AMZN"}}, runner, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
	assert.Empty(t, runner.configs)
}

func TestScanJobDefaultsExportDir(t *testing.T) {
	custom := t.TempDir()
	job := NewScanJob(
		strategyconfig.Profile{Name: "p"},
		strategyconfig.Defaults{ExportDir: custom},
		&fakeRunner{}, "exports", time.UTC, nil, logger.Nop(),
	)
	assert.Equal(t, custom, job.exportDir)
}

func TestScanJobResumeRetriesFailedTickersOnly(t *testing.T) {
	runner := &fakeRunner{fail: map[string]error{"AMZN": contracts.ErrUpstream}}
	m := metrics.New()
	job, dir := newScanJob(t, strategyconfig.Profile{
		Name:     "megacap",
		Schedule: "@daily",
		Tickers:  []string{"AMZN", "AAPL", "MSFT"},
	}, runner, m)

	require.Error(t, job.Run(context.Background()))
	assert.Equal(t, []string{"AMZN"}, job.pending)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ExportsWritten))

	// upstream recovered
	runner.fail = nil
	job.now = func() time.Time { return time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC) }

	require.NoError(t, job.Resume(context.Background()))

	require.Len(t, runner.configs, 4)
	resumed := runner.configs[3]
	assert.Equal(t, "AMZN", resumed.Symbol)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), resumed.Analysis.AsOf, "resume keeps the original as-of date")

	_, err := os.Stat(filepath.Join(dir, "AMZN_Covered_Calls_20260302.csv"))
	assert.NoError(t, err)
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ExportsWritten), "succeeded tickers are not exported twice")
	assert.Empty(t, job.pending)

	// nothing left to resume
	require.NoError(t, job.Resume(context.Background()))
	assert.Len(t, runner.configs, 4)
}

func TestScanJobCancelledKeepsRemainingPending(t *testing.T) {
	job, _ := newScanJob(t, strategyconfig.Profile{Name: "p", Schedule: "@daily", Tickers: []string{"AMZN", "AAPL"}}, &fakeRunner{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, job.Run(ctx), context.Canceled)
	assert.Equal(t, []string{"AMZN", "AAPL"}, job.pending)
}

type fakeInvalidator struct {
	symbols []string
	err     error
}

func (f *fakeInvalidator) Invalidate(ctx context.Context, symbol string) error {
	f.symbols = append(f.symbols, symbol)
	return f.err
}

func TestScanJobInvalidatesCachedSnapshot(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalidated", nil},
		{"cache error does not fail the scan", errors.New("redis down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &fakeInvalidator{err: tt.err}
			runner := &fakeRunner{}
			job, _ := newScanJob(t, strategyconfig.Profile{
				Name:     "megacap",
				Schedule: "@daily",
				Tickers:  []string{"AMZN", "AAPL"},
			}, runner, nil)
			job.WithInvalidator(inv)

			require.NoError(t, job.Run(context.Background()))
			assert.Equal(t, []string{"AMZN", "AAPL"}, inv.symbols)
			assert.Len(t, runner.configs, 2)
		})
	}
}
