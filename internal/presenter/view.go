package presenter

import (
	"fmt"

	"github.com/wonny/covercall/internal/contracts"
)

// View is everything a renderer needs for one analysis
type View struct {
	RunID        string
	Symbol       string
	Spot         string
	AsOf         string
	Weeks        int
	MaxDelta     string
	DeltaMode    string
	RSI          string
	Levels       string // support / resistance
	NextEarnings string
	Best         *Pick
	Second       *Pick
	Rows         []Row
	Stats        contracts.PipelineStats
	Empty        bool
}

// NewView builds a view from a result and the snapshot it came from.
// snapshot may be nil (technicals shown as N/A).
func NewView(result *contracts.AnalysisResult, snapshot *contracts.MarketSnapshot) View {
	v := View{
		RunID:        result.RunID,
		Symbol:       result.Symbol,
		Spot:         Money(result.Spot),
		AsOf:         result.Config.AsOf.Format(contracts.DateLayout),
		Weeks:        result.Config.Weeks,
		MaxDelta:     fmt.Sprintf("%.2f", result.Config.MaxDelta),
		DeltaMode:    string(result.Config.DeltaMode),
		RSI:          "N/A",
		Levels:       "N/A",
		NextEarnings: "N/A",
		Rows:         Rows(result),
		Stats:        result.Stats,
		Empty:        result.Empty(),
	}

	if snapshot != nil {
		if t := snapshot.Technicals; t.Available {
			v.RSI = fmt.Sprintf("%.2f", t.RSI)
			v.Levels = fmt.Sprintf("%s / %s", Money(t.Support), Money(t.Resistance))
		}
		if snapshot.Chain != nil && snapshot.Chain.Underlying.NextEarnings != "" {
			v.NextEarnings = snapshot.Chain.Underlying.NextEarnings
		}
	}

	if best, ok := BestPick(result); ok {
		v.Best = &best
	}
	if second, ok := SecondBest(result); ok {
		v.Second = &second
	}

	return v
}
