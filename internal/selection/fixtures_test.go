package selection

import (
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

var testAsOf = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func daysOut(n int) time.Time {
	return testAsOf.AddDate(0, 0, n)
}

func call(dte int, strike, premium, delta, gamma, theta, iv float64) contracts.OptionContract {
	return contracts.OptionContract{
		Symbol:            "AMZN",
		Expiration:        daysOut(dte),
		Strike:            strike,
		Bid:               premium - 0.05,
		Ask:               premium + 0.05,
		Premium:           premium,
		Delta:             delta,
		Gamma:             gamma,
		Theta:             theta,
		ImpliedVolatility: iv,
		Volume:            100,
		OpenInterest:      1000,
	}
}

func snapshotOf(spot float64, cs ...contracts.OptionContract) *contracts.ChainSnapshot {
	return &contracts.ChainSnapshot{
		Symbol:     "AMZN",
		Underlying: contracts.UnderlyingQuote{Symbol: "AMZN", Price: spot},
		Contracts:  cs,
	}
}

func configFor(weeks int) contracts.AnalysisConfig {
	cfg := contracts.DefaultAnalysisConfig(testAsOf)
	cfg.Weeks = weeks
	return cfg
}

// weeklyChain: expirations 7..49 days out, one qualifying OTM call each
func weeklyChain() *contracts.ChainSnapshot {
	return snapshotOf(100,
		call(7, 103, 1.00, 0.30, 0.080, -0.20, 0.30),
		call(14, 104, 1.25, 0.28, 0.050, -0.12, 0.31),
		call(21, 105, 1.50, 0.26, 0.040, -0.09, 0.32),
		call(28, 106, 1.75, 0.24, 0.030, -0.08, 0.33),
		call(35, 107, 2.00, 0.22, 0.025, -0.07, 0.34),
		call(42, 108, 2.25, 0.21, 0.020, -0.06, 0.35),
		call(49, 109, 2.50, 0.20, 0.018, -0.05, 0.36),
	)
}
