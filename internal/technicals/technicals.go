// Package technicals computes display-only indicators for the underlying.
package technicals

import (
	"math"

	"github.com/wonny/covercall/internal/contracts"
)

const (
	// RSIPeriod is the Wilder RSI lookback
	RSIPeriod = 14
	// LevelLookback is the number of recent closes scanned for support/resistance
	LevelLookback = 60
)

// Compute derives RSI and support/resistance from daily bars (oldest first)
// ⭐ SSOT: 기술적 지표 계산은 여기서만
func Compute(bars []contracts.PriceBar, current float64) contracts.Technicals {
	closes := make([]float64, 0, len(bars))
	for _, b := range bars {
		closes = append(closes, b.Close)
	}

	rsi, ok := RSI(closes, RSIPeriod)
	if !ok {
		return contracts.Technicals{}
	}

	support, resistance, ok := SupportResistance(closes, current, LevelLookback)
	if !ok {
		return contracts.Technicals{}
	}

	return contracts.Technicals{
		Available:  true,
		RSI:        rsi,
		Support:    support,
		Resistance: resistance,
	}
}

// RSI calculates the Relative Strength Index with Wilder smoothing
// (EMA with alpha = 1/period seeded by the first change). closes: oldest first.
func RSI(closes []float64, period int) (float64, bool) {
	if period <= 0 || len(closes) < period+1 {
		return 50.0, false // Neutral
	}

	alpha := 1.0 / float64(period)
	var avgGain, avgLoss float64

	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain := math.Max(change, 0)
		loss := math.Max(-change, 0)

		if i == 1 {
			avgGain, avgLoss = gain, loss
			continue
		}
		avgGain = (1-alpha)*avgGain + alpha*gain
		avgLoss = (1-alpha)*avgLoss + alpha*loss
	}

	if avgLoss == 0 {
		if avgGain == 0 {
			return 50.0, true // flat
		}
		return 100.0, true
	}

	rs := avgGain / avgLoss
	return 100.0 - (100.0 / (1.0 + rs)), true
}

// SupportResistance scans the last `lookback` closes: support is the lowest
// close below current, resistance the highest close above it. With nothing
// on one side the window min/max is used.
func SupportResistance(closes []float64, current float64, lookback int) (support, resistance float64, ok bool) {
	if len(closes) == 0 {
		return 0, 0, false
	}
	if lookback > 0 && len(closes) > lookback {
		closes = closes[len(closes)-lookback:]
	}

	windowMin, windowMax := math.Inf(1), math.Inf(-1)
	support, resistance = math.Inf(1), math.Inf(-1)

	for _, c := range closes {
		windowMin = math.Min(windowMin, c)
		windowMax = math.Max(windowMax, c)
		if c < current {
			support = math.Min(support, c)
		}
		if c > current {
			resistance = math.Max(resistance, c)
		}
	}

	if math.IsInf(support, 1) {
		support = windowMin
	}
	if math.IsInf(resistance, -1) {
		resistance = windowMax
	}

	return support, resistance, true
}
