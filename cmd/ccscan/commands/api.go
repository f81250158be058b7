package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/covercall/internal/api"
	"github.com/wonny/covercall/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                              - Health check
  GET  /api/analysis/{ticker}               - 랭킹 결과 (JSON)
  GET  /api/analysis/{ticker}/export.csv    - CSV 다운로드
  GET  /api/analysis/{ticker}/report        - HTML 리포트
  GET  /metrics                             - Prometheus metrics

Query: weeks, max_delta, as_of (YYYY-MM-DD), delta_mode (signed|absolute)

Example:
  go run ./cmd/ccscan api
  go run ./cmd/ccscan api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ccscan API Server ===")

	d, err := newDeps()
	if err != nil {
		return err
	}
	defer d.Close()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	analysisHandler := handlers.NewAnalysisHandler(d.orchestrator, d.cfg.Analysis, d.cfg.Location(), d.log)
	router := api.NewRouter(analysisHandler, d.metrics, d.log)
	server := api.New(d.cfg, d.log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost%s\n", server.Addr())
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/analysis/{ticker}")
	fmt.Println("  GET  /api/analysis/{ticker}/export.csv")
	fmt.Println("  GET  /api/analysis/{ticker}/report")
	if d.metrics != nil {
		fmt.Println("  GET  /metrics")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
