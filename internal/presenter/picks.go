package presenter

import (
	"fmt"

	"github.com/wonny/covercall/internal/contracts"
)

// Pick is a highlighted candidate card
type Pick struct {
	Candidate         contracts.RankedCandidate `json:"candidate"`
	Title             string                    `json:"title"`
	StrikeDistancePct float64                   `json:"strike_distance_pct"` // (strike - spot) / spot × 100
	PremiumYieldPct   float64                   `json:"premium_yield_pct"`   // premium / spot × 100
}

// Headline returns e.g. "AMZN 2026-03-13 $210.00 Call"
func (p Pick) Headline(symbol string) string {
	return fmt.Sprintf("%s %s %s Call", symbol, p.Candidate.Contract.ExpirationKey(), Money(p.Candidate.Contract.Strike))
}

// BestPick is the top-ranked candidate
func BestPick(result *contracts.AnalysisResult) (Pick, bool) {
	top, ok := result.Top()
	if !ok {
		return Pick{}, false
	}
	return newPick("Best Low-Maintenance Income Trade", top, result.Spot), true
}

// SecondBest is the highest-ranked candidate not expiring on the earliest
// expiration among the results (week 2+)
func SecondBest(result *contracts.AnalysisResult) (Pick, bool) {
	if result.Empty() {
		return Pick{}, false
	}

	earliest := result.Candidates[0].Contract.Expiration
	for _, c := range result.Candidates[1:] {
		if c.Contract.Expiration.Before(earliest) {
			earliest = c.Contract.Expiration
		}
	}

	for _, c := range result.Candidates {
		if !c.Contract.Expiration.Equal(earliest) {
			return newPick("Second Best Low-Maintenance Income Trade (Week 2+)", c, result.Spot), true
		}
	}
	return Pick{}, false
}

func newPick(title string, c contracts.RankedCandidate, spot float64) Pick {
	p := Pick{Candidate: c, Title: title}
	if spot > 0 {
		p.StrikeDistancePct = (c.Contract.Strike - spot) / spot * 100
		p.PremiumYieldPct = c.Contract.Premium / spot * 100
	}
	return p
}
