package selection

import (
	"context"
	"time"

	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/pkg/logger"
)

// Filter reasons reported by Screen
const (
	FilterOutsideWindow = "outside_window"
	FilterDelta         = "delta"
	FilterNotOTM        = "not_otm"
)

// Screener implements the candidate filter: window, delta cap, strictly OTM
// ⭐ SSOT: 후보 필터 로직은 여기서만
type Screener struct {
	logger *logger.Logger
}

// NewScreener creates a new screener
func NewScreener(logger *logger.Logger) *Screener {
	return &Screener{logger: logger}
}

// Screen keeps contracts whose expiration is in window AND delta passes
// cfg.MaxDelta AND strike > spot. Input order is preserved.
func (s *Screener) Screen(
	ctx context.Context,
	input []contracts.OptionContract,
	window []time.Time,
	spot float64,
	cfg contracts.AnalysisConfig,
) ([]contracts.OptionContract, map[string]int) {
	inWindow := make(map[time.Time]struct{}, len(window))
	for _, d := range window {
		inWindow[contracts.Day(d)] = struct{}{}
	}

	passed := make([]contracts.OptionContract, 0)
	filtered := make(map[string]int) // Filter name -> count

	for _, c := range input {
		reason := s.checkConditions(c, inWindow, spot, cfg)
		if reason == "" {
			passed = append(passed, c)
		} else {
			filtered[reason]++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(input),
		"passed":       len(passed),
		"filtered_out": len(input) - len(passed),
		"filters":      filtered,
	}).Debug("Screening completed")

	return passed, filtered
}

// checkConditions returns empty string if passed, otherwise the filter name
func (s *Screener) checkConditions(
	c contracts.OptionContract,
	inWindow map[time.Time]struct{},
	spot float64,
	cfg contracts.AnalysisConfig,
) string {
	if _, ok := inWindow[contracts.Day(c.Expiration)]; !ok {
		return FilterOutsideWindow
	}

	if !cfg.DeltaWithin(c.Delta) {
		return FilterDelta
	}

	if !c.IsOTM(spot) {
		return FilterNotOTM
	}

	return ""
}
