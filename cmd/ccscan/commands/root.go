package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	logLevel string
	verbose  bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ccscan",
	Short: "Covered call scanner - 주간 만기 커버드콜 후보 선정/랭킹",
	Long: `ccscan Unified CLI

Schwab 옵션 체인에서 향후 N주 만기의 OTM 콜을 골라
만기별 최고 프리미엄 1개씩 추린 뒤 Stability Score로 랭킹합니다.

Usage:
  go run ./cmd/ccscan [command]

Examples:
  go run ./cmd/ccscan analyze --ticker AMZN
  go run ./cmd/ccscan analyze --ticker AMZN --weeks 8 --max-delta 0.25 --export exports
  go run ./cmd/ccscan api --port 8089
  go run ./cmd/ccscan scheduler start
  go run ./cmd/ccscan watchlist validate config/watchlist.yaml`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logs)")
}
