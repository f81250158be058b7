package schwab

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// GetQuote gets the current quote for an underlying.
// Spot is lastPrice, falling back to closePrice.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*contracts.UnderlyingQuote, error) {
	symbol = strings.ToUpper(symbol)
	path := fmt.Sprintf("/%s/quotes", url.PathEscape(symbol))

	var result map[string]quoteEntry
	if err := c.getJSON(ctx, path, nil, &result); err != nil {
		return nil, err
	}

	entry, ok := result[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing from quote response", contracts.ErrNoSpotPrice, symbol)
	}

	quote, err := toUnderlyingQuote(symbol, entry.Quote.LastPrice, entry.Quote.ClosePrice, entry.Quote.QuoteTime)
	if err != nil {
		return nil, err
	}
	if date, _, _ := strings.Cut(entry.Fundamental.NextEarningsDate, "T"); date != "" {
		quote.NextEarnings = date
	}
	return quote, nil
}

func toUnderlyingQuote(symbol string, last, closePrice float64, quoteTime int64) (*contracts.UnderlyingQuote, error) {
	price := last
	if price <= 0 {
		price = closePrice
	}
	if price <= 0 {
		return nil, fmt.Errorf("%w: %s", contracts.ErrNoSpotPrice, symbol)
	}

	q := &contracts.UnderlyingQuote{
		Symbol: symbol,
		Price:  price,
		Close:  closePrice,
	}
	if quoteTime > 0 {
		q.QuoteTime = time.UnixMilli(quoteTime).UTC()
	}
	return q, nil
}
