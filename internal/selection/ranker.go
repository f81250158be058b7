package selection

import (
	"context"
	"sort"

	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/pkg/logger"
)

// Ranker orders candidates by Stability Score desc, then IV desc
// ⭐ SSOT: 랭킹 로직은 여기서만
type Ranker struct {
	logger *logger.Logger
}

// NewRanker creates a new ranker
func NewRanker(logger *logger.Logger) *Ranker {
	return &Ranker{logger: logger}
}

// Rank returns a new slice sorted and numbered from 1.
// Equal score and IV keep input order (stable sort).
func (r *Ranker) Rank(ctx context.Context, scored []contracts.RankedCandidate) []contracts.RankedCandidate {
	ranked := make([]contracts.RankedCandidate, len(scored))
	copy(ranked, scored)

	sort.SliceStable(ranked, func(i, j int) bool {
		return Less(ranked[i], ranked[j])
	})

	// Assign ranks
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if len(ranked) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"total_candidates": len(ranked),
			"top_score":        ranked[0].StabilityScore,
			"top_expiration":   ranked[0].Contract.ExpirationKey(),
			"top_strike":       ranked[0].Contract.Strike,
		}).Debug("Ranking completed")
	}

	return ranked
}

// Less reports whether a ranks ahead of b
func Less(a, b contracts.RankedCandidate) bool {
	if a.StabilityScore != b.StabilityScore {
		return a.StabilityScore > b.StabilityScore
	}
	return a.Contract.ImpliedVolatility > b.Contract.ImpliedVolatility
}
