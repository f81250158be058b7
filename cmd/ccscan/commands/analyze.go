package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/covercall/internal/brain"
	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/internal/export"
	"github.com/wonny/covercall/internal/presenter"
	"github.com/wonny/covercall/pkg/config"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "커버드콜 후보 분석",
	Long: `한 종목의 옵션 체인을 가져와 커버드콜 후보를 랭킹합니다.

파이프라인:
- 향후 N주 만기 선택 (만료된 만기 제외)
- Delta ≤ max-delta, Strike > 현재가 필터
- 만기별 최고 프리미엄 1개
- ARIF / Stability Score 계산 후 Stability ↓, IV ↓ 정렬

Example:
  go run ./cmd/ccscan analyze --ticker AMZN
  go run ./cmd/ccscan analyze --ticker AMZN --weeks 8 --max-delta 0.25
  go run ./cmd/ccscan analyze --ticker AMZN --as-of 2026-03-02 --export exports
  go run ./cmd/ccscan analyze --ticker AMZN --json`,
	RunE: runAnalyze,
}

var (
	analyzeTicker   string
	analyzeWeeks    int
	analyzeMaxDelta float64
	analyzeAsOf     string
	analyzeAbsDelta bool
	analyzeExport   string
	analyzeJSON     bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeTicker, "ticker", "t", "", "종목 티커 (예: AMZN)")
	analyzeCmd.Flags().IntVar(&analyzeWeeks, "weeks", contracts.DefaultWeeks, "분석할 주간 만기 수 (1-12)")
	analyzeCmd.Flags().Float64Var(&analyzeMaxDelta, "max-delta", contracts.DefaultMaxDelta, "최대 Delta (0, 1]")
	analyzeCmd.Flags().StringVar(&analyzeAsOf, "as-of", "", "분석 기준일 YYYY-MM-DD (기본: 오늘, 뉴욕 기준)")
	analyzeCmd.Flags().BoolVar(&analyzeAbsDelta, "abs-delta", false, "|delta| 로 비교")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "CSV 저장 디렉토리")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "JSON 출력")
	analyzeCmd.MarkFlagRequired("ticker")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	d, err := newDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	analysis, err := analysisFromFlags(cmd, d.cfg, time.Now())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := d.orchestrator.Run(ctx, brain.RunConfig{
		Symbol:   analyzeTicker,
		Trigger:  brain.TriggerCLI,
		Analysis: analysis,
	})
	if err != nil {
		PrintError(err.Error())
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result.Analysis); err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	} else {
		if err := presenter.RenderTable(os.Stdout, presenter.NewView(result.Analysis, result.Snapshot)); err != nil {
			return err
		}
	}

	if analyzeExport != "" {
		path, err := export.NewExporter().WriteFile(analyzeExport, result.Analysis, analysis.AsOf)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		d.metrics.ExportWritten()
		if !analyzeJSON {
			PrintSuccess(fmt.Sprintf("Exported %d candidates to %s", len(result.Analysis.Candidates), path))
		}
	}

	return nil
}

// analysisFromFlags builds the run parameters: explicit flags win over env defaults
func analysisFromFlags(cmd *cobra.Command, cfg *config.Config, now time.Time) (contracts.AnalysisConfig, error) {
	analysis := contracts.DefaultAnalysisConfig(now.In(cfg.Location()))
	analysis.Weeks = cfg.Analysis.Weeks
	analysis.MaxDelta = cfg.Analysis.MaxDelta

	flags := cmd.Flags()
	if flags.Changed("weeks") {
		analysis.Weeks = analyzeWeeks
	}
	if flags.Changed("max-delta") {
		analysis.MaxDelta = analyzeMaxDelta
	}
	if analyzeAbsDelta {
		analysis.DeltaMode = contracts.DeltaAbsolute
	}
	if s := strings.TrimSpace(analyzeAsOf); s != "" {
		asOf, err := contracts.ParseDate(s)
		if err != nil {
			return analysis, fmt.Errorf("--as-of must be YYYY-MM-DD: %w", err)
		}
		analysis.AsOf = asOf
	}

	if err := analysis.Validate(); err != nil {
		return analysis, err
	}
	return analysis, nil
}
