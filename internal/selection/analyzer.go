package selection

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/pkg/logger"
)

// Analyzer runs window → filter → reduce → metrics → rank over one snapshot.
// Pure: same snapshot + config → identical ordered output.
// ⭐ SSOT: 선택 파이프라인 조율은 여기서만
type Analyzer struct {
	screener   *Screener
	calculator *MetricsCalculator
	ranker     *Ranker
	logger     *logger.Logger
}

// NewAnalyzer creates an analyzer with its stage components
func NewAnalyzer(logger *logger.Logger) *Analyzer {
	return &Analyzer{
		screener:   NewScreener(logger),
		calculator: NewMetricsCalculator(),
		ranker:     NewRanker(logger),
		logger:     logger,
	}
}

// Analyze ranks covered call candidates. A nil snapshot or non-positive spot
// is ErrInvalidSnapshot; an empty window yields an empty result, not an error.
func (a *Analyzer) Analyze(
	ctx context.Context,
	snapshot *contracts.ChainSnapshot,
	cfg contracts.AnalysisConfig,
) (*contracts.AnalysisResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, fmt.Errorf("%w: snapshot is nil", contracts.ErrInvalidSnapshot)
	}
	spot := snapshot.Spot()
	if spot <= 0 || math.IsNaN(spot) || math.IsInf(spot, 0) {
		return nil, fmt.Errorf("%w: spot price %v for %s", contracts.ErrInvalidSnapshot, spot, snapshot.Symbol)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &contracts.AnalysisResult{
		Symbol:     strings.ToUpper(snapshot.Symbol),
		Spot:       spot,
		Config:     cfg,
		Candidates: []contracts.RankedCandidate{},
		Excluded:   []contracts.ExcludedCandidate{},
	}

	// 1. Window: future expirations only, first N chronologically
	future := upcoming(snapshot.Expirations(), cfg.AsOf)
	window := SelectWindow(future, cfg.Weeks)
	result.Window = window
	result.Stats.Expirations = len(future)
	result.Stats.Windowed = len(window)

	if len(window) == 0 {
		a.logger.WithFields(map[string]interface{}{
			"symbol": result.Symbol,
			"as_of":  cfg.AsOf.Format(contracts.DateLayout),
		}).Warn("No expirations available after analysis date")
		return result, nil
	}

	// 2. Filter
	filtered, reasons := a.screener.Screen(ctx, snapshot.Contracts, window, spot, cfg)
	result.Stats.Contracts = len(snapshot.Contracts) - reasons[FilterOutsideWindow]
	result.Stats.Filtered = len(filtered)

	// 3. Reduce: one contract per expiration
	reduced := ReducePerExpiry(filtered)
	result.Stats.Reduced = len(reduced)

	// 4. Metrics
	scored, excluded := a.calculator.Calculate(reduced, spot, cfg.AsOf)
	result.Excluded = excluded
	result.Stats.Excluded = len(excluded)

	for _, e := range excluded {
		a.logger.WithFields(map[string]interface{}{
			"symbol":     result.Symbol,
			"expiration": e.Contract.ExpirationKey(),
			"strike":     e.Contract.Strike,
			"reason":     e.Reason,
		}).Debug("Candidate excluded from ranking")
	}

	// 5. Rank
	result.Candidates = a.ranker.Rank(ctx, scored)
	result.Stats.Ranked = len(result.Candidates)

	a.logger.WithFields(map[string]interface{}{
		"symbol":    result.Symbol,
		"spot":      spot,
		"weeks":     cfg.Weeks,
		"max_delta": cfg.MaxDelta,
		"windowed":  result.Stats.Windowed,
		"filtered":  result.Stats.Filtered,
		"excluded":  result.Stats.Excluded,
		"ranked":    result.Stats.Ranked,
	}).Info("Analysis completed")

	return result, nil
}
