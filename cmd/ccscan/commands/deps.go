package commands

import (
	"fmt"

	"github.com/wonny/covercall/internal/brain"
	"github.com/wonny/covercall/internal/external/schwab"
	"github.com/wonny/covercall/internal/market"
	"github.com/wonny/covercall/internal/metrics"
	"github.com/wonny/covercall/internal/selection"
	"github.com/wonny/covercall/pkg/config"
	"github.com/wonny/covercall/pkg/httputil"
	"github.com/wonny/covercall/pkg/logger"
	"github.com/wonny/covercall/pkg/redis"
)

// deps is the wired object graph shared by every command
type deps struct {
	cfg          *config.Config
	log          *logger.Logger
	redis        *redis.Client
	metrics      *metrics.Registry
	snapshots    *market.SnapshotService
	orchestrator *brain.Orchestrator
}

// loadConfig loads env config and applies global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newDeps wires config → logger → redis → http → schwab → snapshot → orchestrator
func newDeps() (*deps, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireSchwab(); err != nil {
		return nil, err
	}

	log := logger.New(cfg)

	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var m *metrics.Registry
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	httpClient := httputil.New(cfg, log)
	if rdb.Enabled() {
		// 여러 프로세스(api + scheduler)가 같은 분당 한도를 공유
		httpClient.WithRateLimiter(redis.NewRateLimiter(rdb, "ccscan"), redis.SchwabRateLimit)
	}

	schwabClient := schwab.NewClient(cfg.Schwab, httpClient, log)
	snapshots := market.NewSnapshotService(
		schwabClient,
		redis.NewCache(rdb, "ccscan"),
		cfg.Schwab.CacheTTL,
		m,
		log,
	)

	orchestrator := brain.NewOrchestrator(snapshots, selection.NewAnalyzer(log), m, log)

	return &deps{
		cfg:          cfg,
		log:          log,
		redis:        rdb,
		metrics:      m,
		snapshots:    snapshots,
		orchestrator: orchestrator,
	}, nil
}

func (d *deps) Close() {
	if err := d.redis.Close(); err != nil {
		d.log.WithError(err).Warn("Failed to close redis")
	}
}
