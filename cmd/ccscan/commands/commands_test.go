package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Analysis: config.AnalysisDefaults{Weeks: 6, MaxDelta: 0.31, Timezone: "America/New_York"},
	}
}

// newAnalyzeFlags returns a fresh command bound to the analyze flag variables
func newAnalyzeFlags(t *testing.T) *cobra.Command {
	t.Helper()

	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&analyzeWeeks, "weeks", contracts.DefaultWeeks, "")
	cmd.Flags().Float64Var(&analyzeMaxDelta, "max-delta", contracts.DefaultMaxDelta, "")
	cmd.Flags().StringVar(&analyzeAsOf, "as-of", "", "")
	cmd.Flags().BoolVar(&analyzeAbsDelta, "abs-delta", false, "")
	return cmd
}

func TestAnalysisFromFlagsDefaults(t *testing.T) {
	cmd := newAnalyzeFlags(t)
	cfg := testConfig()
	cfg.Analysis.Weeks = 4

	// 2026-03-03 03:00 UTC = 2026-03-02 22:00 ET
	now := time.Date(2026, 3, 3, 3, 0, 0, 0, time.UTC)

	analysis, err := analysisFromFlags(cmd, cfg, now)
	require.NoError(t, err)
	assert.Equal(t, 4, analysis.Weeks, "env default applies when flag unset")
	assert.Equal(t, 0.31, analysis.MaxDelta)
	assert.Equal(t, contracts.DeltaSigned, analysis.DeltaMode)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), analysis.AsOf)
}

func TestAnalysisFromFlagsOverrides(t *testing.T) {
	cmd := newAnalyzeFlags(t)
	require.NoError(t, cmd.Flags().Set("weeks", "8"))
	require.NoError(t, cmd.Flags().Set("max-delta", "0.2"))
	require.NoError(t, cmd.Flags().Set("as-of", "2026-04-01"))
	require.NoError(t, cmd.Flags().Set("abs-delta", "true"))

	analysis, err := analysisFromFlags(cmd, testConfig(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 8, analysis.Weeks)
	assert.Equal(t, 0.2, analysis.MaxDelta)
	assert.Equal(t, contracts.DeltaAbsolute, analysis.DeltaMode)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), analysis.AsOf)
}

func TestAnalysisFromFlagsInvalid(t *testing.T) {
	tests := []struct {
		flag, value string
	}{
		{"weeks", "13"},
		{"weeks", "0"},
		{"max-delta", "1.2"},
		{"as-of", "2026/04/01"},
	}

	for _, tt := range tests {
		t.Run(tt.flag+"="+tt.value, func(t *testing.T) {
			cmd := newAnalyzeFlags(t)
			require.NoError(t, cmd.Flags().Set(tt.flag, tt.value))

			_, err := analysisFromFlags(cmd, testConfig(), time.Now())
			assert.Error(t, err)
		})
	}
}

func TestWatchlistValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
meta:
  watchlist_id: test
profiles:
  - name: daily
    schedule: "@daily"
    tickers: [AMZN]
`), 0o644))

	assert.NoError(t, runWatchlistValidate(watchlistValidateCmd, []string{path}))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("meta:\n  watchlist_id: test\nprofiles: []\n"), 0o644))
	assert.Error(t, runWatchlistValidate(watchlistValidateCmd, []string{bad}))
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, buf.String(), "ccscan dev")
}
