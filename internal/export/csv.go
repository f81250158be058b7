// Package export writes ranked candidates to CSV in ranking order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// Header is the CSV column order
var Header = []string{
	"Rank", "Symbol", "Underlying Price", "Expiry Date", "DTE",
	"Strike Price", "Bid", "Ask", "Premium (Mid)", "Break Even",
	"ARIF", "Stability Score", "Volume", "Open Interest", "IV",
	"Delta", "Gamma", "Theta", "Vega", "Rho", "Intrinsic Value",
}

// Exporter writes the ranked sequence as-is: no re-sort, no re-filter
// ⭐ SSOT: CSV 출력은 여기서만
type Exporter struct{}

// NewExporter creates a new exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// FileName returns {TICKER}_Covered_Calls_{YYYYMMDD}.csv
func FileName(symbol string, date time.Time) string {
	return fmt.Sprintf("%s_Covered_Calls_%s.csv", strings.ToUpper(symbol), date.Format("20060102"))
}

// WriteTo writes the header and one row per ranked candidate
func (e *Exporter) WriteTo(w io.Writer, result *contracts.AnalysisResult) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, candidate := range result.Candidates {
		if err := writer.Write(Record(result, candidate)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the CSV into dir and returns the file path
func (e *Exporter) WriteFile(dir string, result *contracts.AnalysisResult, date time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(result.Symbol, date))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := e.WriteTo(file, result); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close CSV file: %w", err)
	}

	return path, nil
}

// Record formats one candidate in Header order
func Record(result *contracts.AnalysisResult, c contracts.RankedCandidate) []string {
	o := c.Contract
	return []string{
		strconv.Itoa(c.Rank),
		result.Symbol,
		num(result.Spot),
		o.ExpirationKey(),
		strconv.Itoa(c.DTE),
		num(o.Strike),
		num(o.Bid),
		num(o.Ask),
		num(o.Premium),
		num(c.BreakEven()),
		num(c.ARIF),
		num(c.StabilityScore),
		strconv.FormatInt(o.Volume, 10),
		strconv.FormatInt(o.OpenInterest, 10),
		num(o.ImpliedVolatility), // fraction
		num(o.Delta),
		num(o.Gamma),
		num(o.Theta),
		num(o.Vega),
		num(o.Rho),
		num(c.IntrinsicValue(result.Spot)),
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
