package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/covercall/internal/scheduler"
	"github.com/wonny/covercall/internal/scheduler/jobs"
	"github.com/wonny/covercall/internal/strategyconfig"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `watchlist 기반 정기 스캔 스케줄러.

watchlist의 profile마다 cron job 1개를 등록하고,
각 실행 결과를 EXPORT_DIR에 CSV로 저장합니다.

Subcommands:
  start   - 스케줄러 시작
  list    - 등록된 작업 목록
  run     - 특정 작업 즉시 실행

Example:
  go run ./cmd/ccscan scheduler start
  go run ./cmd/ccscan scheduler list
  go run ./cmd/ccscan scheduler run scan_megacap_weekly`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		RunE:  runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "등록된 작업 목록",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "특정 작업 즉시 실행",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}

	watchlistPath string
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)

	schedulerCmd.PersistentFlags().StringVar(&watchlistPath, "watchlist", "", "watchlist YAML (기본: WATCHLIST_FILE)")
}

// initScheduler wires deps and registers one scan job per watchlist profile
func initScheduler() (*scheduler.Scheduler, *deps, error) {
	d, err := newDeps()
	if err != nil {
		return nil, nil, err
	}

	path := watchlistPath
	if path == "" {
		path = d.cfg.Analysis.WatchlistFile
	}

	watchlist, _, err := strategyconfig.Load(path)
	if err != nil {
		d.Close()
		return nil, nil, fmt.Errorf("load watchlist %s: %w", path, err)
	}

	hash, _ := strategyconfig.Hash(watchlist)
	d.log.WithFields(map[string]interface{}{
		"watchlist": watchlist.Meta.WatchlistID,
		"hash":      hash,
		"profiles":  len(watchlist.Profiles),
	}).Info("Watchlist loaded")

	for _, w := range strategyconfig.Warn(watchlist) {
		d.log.WithField("code", w.Code).Warn(w.Message)
	}

	loc := watchlist.Location()
	sched := scheduler.New(d.log,
		scheduler.WithLocation(loc),
		scheduler.WithRetry(d.cfg.Scheduler.MaxRetries, d.cfg.Scheduler.RetryDelay),
		scheduler.WithJobTimeout(d.cfg.Scheduler.JobTimeout),
	)

	for _, profile := range watchlist.Profiles {
		job := jobs.NewScanJob(profile, watchlist.Defaults, d.orchestrator, d.cfg.Analysis.ExportDir, loc, d.metrics, d.log).
			WithInvalidator(d.snapshots)
		if err := sched.AddJob(job); err != nil {
			d.Close()
			return nil, nil, err
		}
	}

	if d.cfg.Analysis.ExportRetention > 0 {
		exportDir := d.cfg.Analysis.ExportDir
		if watchlist.Defaults.ExportDir != "" {
			exportDir = watchlist.Defaults.ExportDir
		}
		if err := sched.AddJob(jobs.NewExportCleanupJob(exportDir, d.cfg.Analysis.ExportRetention, d.log)); err != nil {
			d.Close()
			return nil, nil, err
		}
	}

	return sched, d, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ccscan Scheduler ===")

	sched, d, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.Close()

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	printJobs(sched)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()
	fmt.Println("Scheduler stopped")

	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.Close()

	printJobs(sched)
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	sched, d, err := initScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	defer d.Close()

	jobName := args[0]
	PrintInfo(fmt.Sprintf("Running job: %s", jobName))

	result, err := sched.RunJob(jobName)
	if err != nil {
		return err
	}

	if !result.Success {
		PrintError(fmt.Sprintf("Job %s failed after %d attempts: %s", jobName, result.Attempts, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}

	PrintCompletion(jobName, result.Duration)
	return nil
}

func printJobs(sched *scheduler.Scheduler) {
	stats := sched.GetJobStats()

	fmt.Println("\nRegistered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		next := "-"
		if at, ok := sched.NextRun(jobName); ok && !at.IsZero() {
			next = at.Format("2006-01-02 15:04 MST")
		}
		fmt.Printf("  - %-28s %-22s next: %s\n", jobName, stats[jobName].Schedule, next)
	}
}
