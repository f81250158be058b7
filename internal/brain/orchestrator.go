// Package brain coordinates one analysis run: fetch snapshot, then rank.
package brain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/internal/metrics"
	"github.com/wonny/covercall/pkg/logger"
)

// Run triggers
const (
	TriggerCLI       = "cli"
	TriggerAPI       = "api"
	TriggerScheduler = "scheduler"
)

// Stage names recorded in RunResult.CompletedStages
const (
	StageFetch   = "fetch"
	StageAnalyze = "analyze"
)

// Orchestrator coordinates the fetch → analyze pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	source   contracts.SnapshotSource
	analyzer contracts.CandidateAnalyzer
	metrics  *metrics.Registry
	logger   *logger.Logger
}

// RunConfig holds configuration for one run
type RunConfig struct {
	RunID    string // 비어 있으면 uuid 생성
	Symbol   string
	Trigger  string
	Analysis contracts.AnalysisConfig
}

// RunResult holds the results of a run
type RunResult struct {
	RunID           string
	Symbol          string
	Trigger         string
	Success         bool
	Error           error
	CompletedStages []string
	Snapshot        *contracts.MarketSnapshot
	Analysis        *contracts.AnalysisResult
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	source contracts.SnapshotSource,
	analyzer contracts.CandidateAnalyzer,
	m *metrics.Registry,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:   source,
		analyzer: analyzer,
		metrics:  m,
		logger:   logger,
	}
}

// Run validates the config, fetches the snapshot and ranks candidates.
// The returned RunResult is non-nil even on error.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (*RunResult, error) {
	startTime := time.Now()

	if config.RunID == "" {
		config.RunID = uuid.NewString()
	}
	if config.Trigger == "" {
		config.Trigger = TriggerCLI
	}
	config.Symbol = strings.ToUpper(strings.TrimSpace(config.Symbol))

	result := &RunResult{
		RunID:           config.RunID,
		Symbol:          config.Symbol,
		Trigger:         config.Trigger,
		CompletedStages: make([]string, 0, 2),
	}

	log := o.logger.WithRun(config.RunID, config.Symbol)
	log.WithFields(map[string]interface{}{
		"trigger":    config.Trigger,
		"weeks":      config.Analysis.Weeks,
		"max_delta":  config.Analysis.MaxDelta,
		"as_of":      config.Analysis.AsOf.Format(contracts.DateLayout),
		"delta_mode": config.Analysis.DeltaMode,
	}).Info("Starting analysis run")

	fail := func(err error) (*RunResult, error) {
		result.Error = err
		result.Duration = time.Since(startTime)
		o.metrics.ObserveRun(config.Trigger, statusOf(err), result.Duration)
		log.WithError(err).WithField("stages", result.CompletedStages).Error("Analysis run failed")
		return result, err
	}

	if err := config.Analysis.Validate(); err != nil {
		return fail(err)
	}

	// 1. Fetch
	snapshot, err := o.source.Fetch(ctx, config.Symbol)
	if err != nil {
		return fail(fmt.Errorf("fetch failed: %w", err))
	}
	result.Snapshot = snapshot
	result.CompletedStages = append(result.CompletedStages, StageFetch)

	// 2. Analyze
	analysis, err := o.analyzer.Analyze(ctx, snapshot.Chain, config.Analysis)
	if err != nil {
		return fail(fmt.Errorf("analyze failed: %w", err))
	}
	analysis.RunID = config.RunID
	result.Analysis = analysis
	result.CompletedStages = append(result.CompletedStages, StageAnalyze)

	result.Success = true
	result.Duration = time.Since(startTime)

	status := metrics.StatusOK
	if analysis.Empty() {
		status = metrics.StatusEmpty
	}
	o.metrics.ObserveRun(config.Trigger, status, result.Duration)
	o.metrics.SetRanked(config.Symbol, len(analysis.Candidates))
	for _, e := range analysis.Excluded {
		o.metrics.AddExcluded(string(e.Reason))
	}

	log.WithFields(map[string]interface{}{
		"duration": result.Duration.Seconds(),
		"ranked":   len(analysis.Candidates),
		"cached":   snapshot.Cached,
	}).Info("Analysis run completed successfully")

	return result, nil
}

func statusOf(err error) string {
	if errors.Is(err, contracts.ErrUpstream) {
		return metrics.StatusUpstream
	}
	return metrics.StatusError
}
