package schwab

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// GetPriceHistory gets six months of daily candles, oldest first
func (c *Client) GetPriceHistory(ctx context.Context, symbol string) ([]contracts.PriceBar, error) {
	symbol = strings.ToUpper(symbol)
	params := url.Values{
		"symbol":        {symbol},
		"periodType":    {"month"},
		"period":        {"6"},
		"frequencyType": {"daily"},
		"frequency":     {"1"},
	}

	var resp priceHistoryResponse
	if err := c.getJSON(ctx, "/pricehistory", params, &resp); err != nil {
		return nil, err
	}

	bars := parseCandles(resp.Candles)

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(bars),
	}).Debug("Fetched price history")

	return bars, nil
}

func parseCandles(candles []candle) []contracts.PriceBar {
	bars := make([]contracts.PriceBar, 0, len(candles))
	for _, c := range candles {
		if c.Close <= 0 {
			continue
		}
		bars = append(bars, contracts.PriceBar{
			Date:   time.UnixMilli(c.Datetime).UTC(),
			Open:   c.Open,
			High:   c.High,
			Low:    c.Low,
			Close:  c.Close,
			Volume: c.Volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date)
	})
	return bars
}
