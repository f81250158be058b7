package selection

import (
	"math"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// daysPerYear annualizes ARIF
const daysPerYear = 365

// MetricsCalculator derives DTE, ARIF and Stability Score per reduced contract.
// 정의되지 않는 지표(gamma=0, DTE≤0, spot≤0)는 랭킹에서 제외하고 사유를 남김
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// Calculate returns scored candidates (Rank unset) and the excluded contracts.
// Input order is preserved in both outputs.
func (m *MetricsCalculator) Calculate(
	input []contracts.OptionContract,
	spot float64,
	asOf time.Time,
) ([]contracts.RankedCandidate, []contracts.ExcludedCandidate) {
	scored := make([]contracts.RankedCandidate, 0, len(input))
	excluded := make([]contracts.ExcludedCandidate, 0)

	for _, c := range input {
		candidate, reason := m.score(c, spot, asOf)
		if reason != "" {
			excluded = append(excluded, contracts.ExcludedCandidate{Contract: c, Reason: reason})
			continue
		}
		scored = append(scored, candidate)
	}

	return scored, excluded
}

func (m *MetricsCalculator) score(
	c contracts.OptionContract,
	spot float64,
	asOf time.Time,
) (contracts.RankedCandidate, contracts.ExclusionReason) {
	if spot <= 0 || math.IsNaN(spot) {
		return contracts.RankedCandidate{}, contracts.ReasonSpotNonPositive
	}

	dte := DTE(asOf, c.Expiration)
	if dte <= 0 {
		return contracts.RankedCandidate{}, contracts.ReasonDTENonPositive
	}

	stability, ok := StabilityScore(c.Theta, c.Gamma)
	if !ok {
		return contracts.RankedCandidate{}, contracts.ReasonGammaZero
	}

	arif := ARIF(c.Premium, spot, dte)
	if !isFinite(arif) || !isFinite(stability) {
		return contracts.RankedCandidate{}, contracts.ReasonNotFinite
	}

	return contracts.RankedCandidate{
		Contract:       c,
		DTE:            dte,
		ARIF:           arif,
		StabilityScore: stability,
	}, ""
}

// DTE returns whole calendar days from the analysis date to expiration
func DTE(asOf, expiration time.Time) int {
	return contracts.DaysBetween(asOf, expiration)
}

// ARIF = premium × 365 × 100 / (spot × DTE), percent.
// Callers guarantee spot > 0 and dte > 0.
func ARIF(premium, spot float64, dte int) float64 {
	return (premium * daysPerYear * 100) / (spot * float64(dte))
}

// StabilityScore = |theta| / gamma. ok is false when gamma is not positive.
func StabilityScore(theta, gamma float64) (score float64, ok bool) {
	if gamma <= 0 || math.IsNaN(gamma) {
		return 0, false
	}
	return math.Abs(theta) / gamma, true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
