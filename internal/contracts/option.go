package contracts

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used on the wire and in exports
const DateLayout = "2006-01-02"

// OptionContract is one quoted call option at a point in time
// ⭐ SSOT: 체인 어댑터 → 선택 파이프라인 전달 단위
type OptionContract struct {
	Symbol            string    `json:"symbol"`     // OCC symbol
	Expiration        time.Time `json:"expiration"` // calendar date (UTC midnight)
	Strike            float64   `json:"strike"`
	Bid               float64   `json:"bid"`
	Ask               float64   `json:"ask"`
	Last              float64   `json:"last"`
	Mark              float64   `json:"mark"`
	Premium           float64   `json:"premium"` // mid, fallback mark/last
	Delta             float64   `json:"delta"`
	Gamma             float64   `json:"gamma"`
	Theta             float64   `json:"theta"`
	Vega              float64   `json:"vega"`
	Rho               float64   `json:"rho"`
	ImpliedVolatility float64   `json:"implied_volatility"` // fraction (0.35 = 35%)
	Volume            int64     `json:"volume"`
	OpenInterest      int64     `json:"open_interest"`
}

// ExpirationKey returns the expiration as YYYY-MM-DD
func (c *OptionContract) ExpirationKey() string {
	return c.Expiration.Format(DateLayout)
}

// IsOTM checks if the call strike is strictly above spot
func (c *OptionContract) IsOTM(spot float64) bool {
	return c.Strike > spot
}

// UnderlyingQuote is the spot price snapshot for one analysis run
type UnderlyingQuote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Close     float64   `json:"close"`
	QuoteTime time.Time `json:"quote_time"`

	NextEarnings string `json:"next_earnings,omitempty"` // YYYY-MM-DD, 없으면 빈 값
}

// ChainSnapshot is an immutable option chain for a single underlying
type ChainSnapshot struct {
	Symbol     string           `json:"symbol"`
	Underlying UnderlyingQuote  `json:"underlying"`
	Contracts  []OptionContract `json:"contracts"`
	FetchedAt  time.Time        `json:"fetched_at"`
}

// Spot returns the underlying price used by the analysis
func (s *ChainSnapshot) Spot() float64 {
	return s.Underlying.Price
}

// Expirations returns the distinct expiration dates in ascending order
func (s *ChainSnapshot) Expirations() []time.Time {
	seen := make(map[time.Time]struct{})
	dates := make([]time.Time, 0)

	for _, c := range s.Contracts {
		day := Day(c.Expiration)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, day)
	}

	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	return dates
}

// Day truncates t to its calendar date at UTC midnight.
// 타임존이 달라도 같은 달력 날짜는 같은 값이 됨
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses YYYY-MM-DD into a calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// DaysBetween returns whole calendar days from `from` to `to`
func DaysBetween(from, to time.Time) int {
	return int(Day(to).Sub(Day(from)).Hours() / 24)
}
