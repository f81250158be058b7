// Package presenter turns ranked candidates into display rows, pick cards,
// a console table and an HTML report. Order is never changed here.
package presenter

import (
	"fmt"
	"strconv"

	"github.com/wonny/covercall/internal/contracts"
)

// Columns is the display column order
var Columns = []string{
	"#", "Expiration", "DTE", "Strike", "Premium", "Delta", "Gamma",
	"Theta", "IV", "Stability Score", "ARIF", "Volume", "OI",
}

// Row is one formatted candidate
type Row struct {
	Rank           string `json:"rank"`
	Expiration     string `json:"expiration"`
	DTE            string `json:"dte"`
	Strike         string `json:"strike"`
	Premium        string `json:"premium"`
	Delta          string `json:"delta"`
	Gamma          string `json:"gamma"`
	Theta          string `json:"theta"`
	IV             string `json:"iv"`
	StabilityScore string `json:"stability_score"`
	ARIF           string `json:"arif"`
	Volume         string `json:"volume"`
	OpenInterest   string `json:"open_interest"`
}

// Cells returns the row values in Columns order
func (r Row) Cells() []string {
	return []string{
		r.Rank, r.Expiration, r.DTE, r.Strike, r.Premium, r.Delta, r.Gamma,
		r.Theta, r.IV, r.StabilityScore, r.ARIF, r.Volume, r.OpenInterest,
	}
}

// Rows formats every ranked candidate, in ranking order
func Rows(result *contracts.AnalysisResult) []Row {
	rows := make([]Row, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		rows = append(rows, FormatRow(c))
	}
	return rows
}

// FormatRow formats a single candidate
func FormatRow(c contracts.RankedCandidate) Row {
	o := c.Contract
	return Row{
		Rank:           strconv.Itoa(c.Rank),
		Expiration:     o.ExpirationKey(),
		DTE:            strconv.Itoa(c.DTE),
		Strike:         Money(o.Strike),
		Premium:        Money(o.Premium),
		Delta:          fmt.Sprintf("%.3f", o.Delta),
		Gamma:          fmt.Sprintf("%.4f", o.Gamma),
		Theta:          fmt.Sprintf("%.4f", o.Theta),
		IV:             fmt.Sprintf("%.1f%%", o.ImpliedVolatility*100),
		StabilityScore: fmt.Sprintf("%.4f", c.StabilityScore),
		ARIF:           Percent(c.ARIF),
		Volume:         strconv.FormatInt(o.Volume, 10),
		OpenInterest:   strconv.FormatInt(o.OpenInterest, 10),
	}
}

// Money formats $1234.50
func Money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// Percent formats 12.34%
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
