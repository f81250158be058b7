package contracts

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Analysis bounds
const (
	MinWeeks        = 1
	MaxWeeks        = 12
	DefaultWeeks    = 6
	DefaultMaxDelta = 0.31
)

// DeltaMode selects how contract delta is compared against MaxDelta
type DeltaMode string

const (
	// DeltaSigned compares the delta as reported by the feed
	DeltaSigned DeltaMode = "signed"
	// DeltaAbsolute compares |delta| (feeds that report calls with negative sign)
	DeltaAbsolute DeltaMode = "absolute"
)

// ParseDeltaMode parses a mode name; empty means signed
func ParseDeltaMode(s string) (DeltaMode, error) {
	switch DeltaMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeltaSigned:
		return DeltaSigned, nil
	case DeltaAbsolute:
		return DeltaAbsolute, nil
	default:
		return "", fmt.Errorf("%w: unknown delta mode %q", ErrInvalidConfig, s)
	}
}

// AnalysisConfig is the explicit parameter object for one analysis run.
// 실행 중에는 변경되지 않음
type AnalysisConfig struct {
	Weeks     int       `json:"weeks"`
	MaxDelta  float64   `json:"max_delta"`
	AsOf      time.Time `json:"as_of"` // analysis date
	DeltaMode DeltaMode `json:"delta_mode"`
}

// DefaultAnalysisConfig returns weeks=6, maxDelta=0.31, signed delta
func DefaultAnalysisConfig(asOf time.Time) AnalysisConfig {
	return AnalysisConfig{
		Weeks:     DefaultWeeks,
		MaxDelta:  DefaultMaxDelta,
		AsOf:      Day(asOf),
		DeltaMode: DeltaSigned,
	}
}

// Validate checks the config bounds
func (c AnalysisConfig) Validate() error {
	if c.Weeks < MinWeeks || c.Weeks > MaxWeeks {
		return fmt.Errorf("%w: weeks must be between %d and %d, got %d", ErrInvalidConfig, MinWeeks, MaxWeeks, c.Weeks)
	}
	if math.IsNaN(c.MaxDelta) || c.MaxDelta <= 0 || c.MaxDelta > 1 {
		return fmt.Errorf("%w: max delta must be in (0, 1], got %v", ErrInvalidConfig, c.MaxDelta)
	}
	if c.AsOf.IsZero() {
		return fmt.Errorf("%w: analysis date is required", ErrInvalidConfig)
	}
	if c.DeltaMode != DeltaSigned && c.DeltaMode != DeltaAbsolute {
		return fmt.Errorf("%w: unknown delta mode %q", ErrInvalidConfig, c.DeltaMode)
	}
	return nil
}

// DeltaWithin checks delta against MaxDelta under the configured mode
func (c AnalysisConfig) DeltaWithin(delta float64) bool {
	if c.DeltaMode == DeltaAbsolute {
		delta = math.Abs(delta)
	}
	return delta <= c.MaxDelta
}
