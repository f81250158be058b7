package contracts

import "time"

// PriceBar is one daily candle of the underlying
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Technicals holds context indicators shown next to the ranking.
// 랭킹에는 영향 없음 (표시용)
type Technicals struct {
	Available  bool    `json:"available"`
	RSI        float64 `json:"rsi"`
	Support    float64 `json:"support"`
	Resistance float64 `json:"resistance"`
}

// MarketSnapshot bundles everything fetched for one ticker
type MarketSnapshot struct {
	Chain      *ChainSnapshot `json:"chain"`
	History    []PriceBar     `json:"history,omitempty"`
	Technicals Technicals     `json:"technicals"`
	Cached     bool           `json:"cached"`
}
