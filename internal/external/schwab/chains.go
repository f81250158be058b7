package schwab

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// GetOptionChain gets the OTM call chain with the underlying quote
func (c *Client) GetOptionChain(ctx context.Context, symbol string) (*contracts.ChainSnapshot, error) {
	symbol = strings.ToUpper(symbol)
	params := url.Values{
		"symbol":                 {symbol},
		"contractType":           {"CALL"},
		"includeUnderlyingQuote": {"TRUE"},
		"range":                  {"OTM"},
	}

	var resp chainResponse
	if err := c.getJSON(ctx, "/chains", params, &resp); err != nil {
		return nil, err
	}
	if resp.Status != "" && !strings.EqualFold(resp.Status, "SUCCESS") {
		return nil, fmt.Errorf("schwab chain status %s for %s", resp.Status, symbol)
	}

	snapshot, skipped, err := parseChain(symbol, &resp)
	if err != nil {
		return nil, err
	}
	snapshot.FetchedAt = time.Now().UTC()

	c.logger.WithFields(map[string]interface{}{
		"symbol":      symbol,
		"contracts":   len(snapshot.Contracts),
		"expirations": len(resp.CallExpDateMap),
		"skipped":     skipped,
		"spot":        snapshot.Underlying.Price,
	}).Debug("Fetched option chain")

	return snapshot, nil
}

// parseChain converts callExpDateMap into a snapshot sorted by (expiration, strike).
// The first quote of each strike is used.
func parseChain(symbol string, resp *chainResponse) (*contracts.ChainSnapshot, int, error) {
	quote, err := underlyingFromChain(symbol, resp)
	if err != nil {
		return nil, 0, err
	}

	out := make([]contracts.OptionContract, 0)
	skipped := 0

	for expKey, strikes := range resp.CallExpDateMap {
		expiration, err := parseExpirationKey(expKey)
		if err != nil {
			skipped += len(strikes)
			continue
		}

		for _, quotes := range strikes {
			if len(quotes) == 0 {
				continue
			}
			contract, ok := toContract(quotes[0], expiration)
			if !ok {
				skipped++
				continue
			}
			out = append(out, contract)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Expiration.Equal(out[j].Expiration) {
			return out[i].Expiration.Before(out[j].Expiration)
		}
		return out[i].Strike < out[j].Strike
	})

	return &contracts.ChainSnapshot{
		Symbol:     symbol,
		Underlying: *quote,
		Contracts:  out,
	}, skipped, nil
}

func underlyingFromChain(symbol string, resp *chainResponse) (*contracts.UnderlyingQuote, error) {
	if resp.Underlying != nil {
		q, err := toUnderlyingQuote(symbol, resp.Underlying.Last, resp.Underlying.Close, resp.Underlying.QuoteTime)
		if err == nil {
			return q, nil
		}
	}
	return toUnderlyingQuote(symbol, resp.UnderlyingPrice, 0, 0)
}

// parseExpirationKey parses "YYYY-MM-DD:dte"
func parseExpirationKey(key string) (time.Time, error) {
	date, _, _ := strings.Cut(key, ":")
	return contracts.ParseDate(date)
}

// toContract maps a Schwab quote; contracts without a usable delta or premium are skipped
func toContract(q optionQuote, expiration time.Time) (contracts.OptionContract, bool) {
	if !validGreek(q.Delta) || q.StrikePrice <= 0 {
		return contracts.OptionContract{}, false
	}

	premium := Premium(q.Bid, q.Ask, q.Mark, q.Last)
	if premium <= 0 {
		return contracts.OptionContract{}, false
	}

	return contracts.OptionContract{
		Symbol:            strings.TrimSpace(q.Symbol),
		Expiration:        expiration,
		Strike:            q.StrikePrice,
		Bid:               q.Bid,
		Ask:               q.Ask,
		Last:              q.Last,
		Mark:              q.Mark,
		Premium:           premium,
		Delta:             q.Delta,
		Gamma:             greek(q.Gamma),
		Theta:             greek(q.Theta),
		Vega:              greek(q.Vega),
		Rho:               greek(q.Rho),
		ImpliedVolatility: greek(q.Volatility) / 100,
		Volume:            q.TotalVolume,
		OpenInterest:      q.OpenInterest,
	}, true
}

// Premium is the bid/ask mid when both sides are quoted, else mark, else last
func Premium(bid, ask, mark, last float64) float64 {
	switch {
	case bid > 0 && ask > 0:
		return (bid + ask) / 2
	case mark > 0:
		return mark
	default:
		return math.Max(last, 0)
	}
}

func validGreek(v float64) bool {
	return v > invalidGreek && !math.IsNaN(v)
}

// greek maps Schwab's "not computed" sentinel to zero.
// gamma 0 → 랭킹 단계에서 제외됨
func greek(v float64) float64 {
	if !validGreek(v) {
		return 0
	}
	return v
}
