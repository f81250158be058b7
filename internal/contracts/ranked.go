package contracts

import (
	"math"
	"time"
)

// ExclusionReason explains why a reduced candidate was left out of ranking
type ExclusionReason string

const (
	ReasonGammaZero       ExclusionReason = "gamma_zero"
	ReasonDTENonPositive  ExclusionReason = "dte_non_positive"
	ReasonSpotNonPositive ExclusionReason = "spot_non_positive"
	ReasonNotFinite       ExclusionReason = "metric_not_finite"
)

// RankedCandidate is the per-expiry pick with its derived metrics
// ⭐ SSOT: Ranker → Presenter/Exporter 전달
type RankedCandidate struct {
	Rank           int            `json:"rank"` // 1-based ranking
	Contract       OptionContract `json:"contract"`
	DTE            int            `json:"dte"`
	ARIF           float64        `json:"arif"`            // annualized return if flat, percent
	StabilityScore float64        `json:"stability_score"` // |theta| / gamma
}

// BreakEven returns strike + premium
func (r *RankedCandidate) BreakEven() float64 {
	return r.Contract.Strike + r.Contract.Premium
}

// IntrinsicValue returns max(0, spot - strike); zero for OTM calls
func (r *RankedCandidate) IntrinsicValue(spot float64) float64 {
	return math.Max(0, spot-r.Contract.Strike)
}

// ExcludedCandidate records a reduced contract whose metrics were undefined
type ExcludedCandidate struct {
	Contract OptionContract  `json:"contract"`
	Reason   ExclusionReason `json:"reason"`
}

// PipelineStats counts items surviving each stage
type PipelineStats struct {
	Expirations int `json:"expirations"` // future expirations in the chain
	Windowed    int `json:"windowed"`    // expirations kept by the window
	Contracts   int `json:"contracts"`   // contracts on windowed dates
	Filtered    int `json:"filtered"`    // contracts passing delta + OTM
	Reduced     int `json:"reduced"`     // one per expiration
	Excluded    int `json:"excluded"`    // undefined metrics
	Ranked      int `json:"ranked"`
}

// AnalysisResult is the ordered output of one analysis run.
// Presenter와 Exporter는 Candidates 순서를 그대로 사용 (재정렬/재필터 금지)
type AnalysisResult struct {
	RunID      string              `json:"run_id,omitempty"`
	Symbol     string              `json:"symbol"`
	Spot       float64             `json:"spot"`
	Config     AnalysisConfig      `json:"config"`
	Window     []time.Time         `json:"window"`
	Candidates []RankedCandidate   `json:"candidates"`
	Excluded   []ExcludedCandidate `json:"excluded"`
	Stats      PipelineStats       `json:"stats"`
}

// Empty reports whether no candidate survived
func (r *AnalysisResult) Empty() bool {
	return len(r.Candidates) == 0
}

// Top returns the best-ranked candidate
func (r *AnalysisResult) Top() (RankedCandidate, bool) {
	if r.Empty() {
		return RankedCandidate{}, false
	}
	return r.Candidates[0], true
}
