package contracts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestAnalysisConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *AnalysisConfig)
		wantErr bool
	}{
		{"defaults", func(c *AnalysisConfig) {}, false},
		{"one week", func(c *AnalysisConfig) { c.Weeks = 1 }, false},
		{"twelve weeks", func(c *AnalysisConfig) { c.Weeks = 12 }, false},
		{"zero weeks", func(c *AnalysisConfig) { c.Weeks = 0 }, true},
		{"thirteen weeks", func(c *AnalysisConfig) { c.Weeks = 13 }, true},
		{"delta one", func(c *AnalysisConfig) { c.MaxDelta = 1 }, false},
		{"delta zero", func(c *AnalysisConfig) { c.MaxDelta = 0 }, true},
		{"delta above one", func(c *AnalysisConfig) { c.MaxDelta = 1.2 }, true},
		{"missing date", func(c *AnalysisConfig) { c.AsOf = time.Time{} }, true},
		{"bad mode", func(c *AnalysisConfig) { c.DeltaMode = "fuzzy" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultAnalysisConfig(asOf)
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnalysisConfig_DeltaWithin(t *testing.T) {
	signed := DefaultAnalysisConfig(asOf)
	absolute := signed
	absolute.DeltaMode = DeltaAbsolute

	assert.True(t, signed.DeltaWithin(0.31))
	assert.False(t, signed.DeltaWithin(0.32))
	assert.True(t, signed.DeltaWithin(-0.45), "signed comparison keeps negative values")

	assert.True(t, absolute.DeltaWithin(-0.30))
	assert.False(t, absolute.DeltaWithin(-0.45))
}

func TestParseDeltaMode(t *testing.T) {
	mode, err := ParseDeltaMode("")
	require.NoError(t, err)
	assert.Equal(t, DeltaSigned, mode)

	mode, err = ParseDeltaMode("ABSOLUTE")
	require.NoError(t, err)
	assert.Equal(t, DeltaAbsolute, mode)

	_, err = ParseDeltaMode("abs")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChainSnapshot_Expirations(t *testing.T) {
	d1 := asOf.AddDate(0, 0, 14)
	d2 := asOf.AddDate(0, 0, 7)

	snap := &ChainSnapshot{
		Contracts: []OptionContract{
			{Expiration: d1, Strike: 105},
			{Expiration: d2, Strike: 105},
			{Expiration: d1, Strike: 110},
		},
	}

	assert.Equal(t, []time.Time{d2, d1}, snap.Expirations())
}

func TestDayAndDaysBetween(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	late := time.Date(2026, 3, 2, 23, 30, 0, 0, ny)
	assert.Equal(t, asOf, Day(late))

	assert.Equal(t, 7, DaysBetween(asOf, asOf.AddDate(0, 0, 7)))
	assert.Equal(t, 0, DaysBetween(asOf, late))
	assert.Equal(t, -1, DaysBetween(asOf, asOf.AddDate(0, 0, -1)))

	parsed, err := ParseDate("2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, 7, DaysBetween(asOf, parsed))
}

func TestRankedCandidate_Derived(t *testing.T) {
	c := RankedCandidate{Rank: 2, Contract: OptionContract{Strike: 105, Premium: 1.5}}

	assert.InDelta(t, 106.5, c.BreakEven(), 1e-9)
	assert.Equal(t, 0.0, c.IntrinsicValue(100))
	assert.InDelta(t, 5.0, c.IntrinsicValue(110), 1e-9)
}
