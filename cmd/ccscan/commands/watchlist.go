package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/covercall/internal/strategyconfig"
)

// watchlistCmd represents the watchlist command
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "watchlist 설정 관리",
}

var watchlistValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "watchlist YAML 검증 + 해시 출력",
	Long: `watchlist YAML을 strict 모드(알 수 없는 필드 = 에러)로 읽고
검증 결과와 설정 해시를 출력합니다.

Example:
  go run ./cmd/ccscan watchlist validate config/watchlist.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchlistValidate,
}

func init() {
	rootCmd.AddCommand(watchlistCmd)
	watchlistCmd.AddCommand(watchlistValidateCmd)
}

func runWatchlistValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, _, err := strategyconfig.Load(path)
	if err != nil {
		PrintError(err.Error())
		return err
	}

	hash, err := strategyconfig.Hash(cfg)
	if err != nil {
		return fmt.Errorf("hash watchlist: %w", err)
	}

	PrintHeader("Watchlist: "+cfg.Meta.WatchlistID, [][2]string{
		{"File", path},
		{"Version", cfg.Meta.Version},
		{"Timezone", cfg.Location().String()},
		{"Profiles", fmt.Sprint(len(cfg.Profiles))},
		{"Hash", hash},
	})

	for _, p := range cfg.Profiles {
		fmt.Printf("  %-20s %-22s %s\n", p.Name, p.Schedule, strings.Join(p.Symbols(), ", "))
	}

	warnings := strategyconfig.Warn(cfg)
	for _, w := range warnings {
		PrintWarning(fmt.Sprintf("[%s] %s", w.Code, w.Message))
	}

	fmt.Println()
	PrintSuccess("Watchlist is valid")
	return nil
}
