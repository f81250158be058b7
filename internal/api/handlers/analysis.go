package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/covercall/internal/brain"
	"github.com/wonny/covercall/internal/contracts"
	"github.com/wonny/covercall/internal/export"
	"github.com/wonny/covercall/internal/presenter"
	"github.com/wonny/covercall/pkg/config"
	"github.com/wonny/covercall/pkg/logger"
)

var tickerRe = regexp.MustCompile(`^[A-Za-z]{1,5}(\.[A-Za-z])?$`)

// Runner runs one analysis (brain.Orchestrator)
type Runner interface {
	Run(ctx context.Context, config brain.RunConfig) (*brain.RunResult, error)
}

// AnalysisHandler handles analysis endpoints
// ⭐ SSOT: 분석 API 핸들러는 이 구조체에서만
type AnalysisHandler struct {
	runner   Runner
	exporter *export.Exporter
	defaults config.AnalysisDefaults
	location *time.Location
	logger   *logger.Logger
	now      func() time.Time
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(runner Runner, defaults config.AnalysisDefaults, loc *time.Location, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		runner:   runner,
		exporter: export.NewExporter(),
		defaults: defaults,
		location: loc,
		logger:   log,
		now:      time.Now,
	}
}

// AnalysisResponse is the JSON body of GET /api/analysis/{ticker}
type AnalysisResponse struct {
	*contracts.AnalysisResult
	Technicals   contracts.Technicals `json:"technicals"`
	NextEarnings string               `json:"next_earnings,omitempty"`
	Cached       bool                 `json:"cached"`
	BestPick     *presenter.Pick      `json:"best_pick,omitempty"`
	SecondBest   *presenter.Pick      `json:"second_best,omitempty"`
	Rows         []presenter.Row      `json:"rows"`
	DurationMs   int64                `json:"duration_ms"`
}

// Get returns ranked candidates as JSON
// GET /api/analysis/{ticker}?weeks=6&max_delta=0.31&as_of=YYYY-MM-DD&delta_mode=signed
func (h *AnalysisHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.run(w, r)
	if !ok {
		return
	}

	resp := AnalysisResponse{
		AnalysisResult: run.Analysis,
		Technicals:     run.Snapshot.Technicals,
		Cached:         run.Snapshot.Cached,
		Rows:           presenter.Rows(run.Analysis),
		DurationMs:     run.Duration.Milliseconds(),
	}
	if run.Snapshot.Chain != nil {
		resp.NextEarnings = run.Snapshot.Chain.Underlying.NextEarnings
	}
	if best, ok := presenter.BestPick(run.Analysis); ok {
		resp.BestPick = &best
	}
	if second, ok := presenter.SecondBest(run.Analysis); ok {
		resp.SecondBest = &second
	}

	respondJSON(w, http.StatusOK, resp)
}

// ExportCSV streams the ranked candidates as a CSV download
// GET /api/analysis/{ticker}/export.csv
func (h *AnalysisHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	run, ok := h.run(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.WriteTo(&buf, run.Analysis); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV")
		respondError(w, http.StatusInternalServerError, "Failed to write CSV")
		return
	}

	name := export.FileName(run.Symbol, run.Analysis.Config.AsOf)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Report renders the HTML report
// GET /api/analysis/{ticker}/report
func (h *AnalysisHandler) Report(w http.ResponseWriter, r *http.Request) {
	run, ok := h.run(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := presenter.RenderHTML(&buf, presenter.NewView(run.Analysis, run.Snapshot)); err != nil {
		h.logger.WithError(err).Error("Failed to render report")
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// run parses the request and executes the analysis; writes the error response itself
func (h *AnalysisHandler) run(w http.ResponseWriter, r *http.Request) (*brain.RunResult, bool) {
	ticker := mux.Vars(r)["ticker"]
	if !tickerRe.MatchString(ticker) {
		respondError(w, http.StatusBadRequest, "Invalid ticker")
		return nil, false
	}

	cfg, err := h.parseConfig(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	result, err := h.runner.Run(r.Context(), brain.RunConfig{
		Symbol:   ticker,
		Trigger:  brain.TriggerAPI,
		Analysis: cfg,
	})
	if err != nil {
		status := statusFor(err)
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker": strings.ToUpper(ticker),
			"status": status,
		}).Warn("Analysis request failed")
		respondError(w, status, err.Error())
		return nil, false
	}

	return result, true
}

// parseConfig applies query overrides to the configured defaults
func (h *AnalysisHandler) parseConfig(r *http.Request) (contracts.AnalysisConfig, error) {
	q := r.URL.Query()

	cfg := contracts.DefaultAnalysisConfig(h.now().In(h.location))
	cfg.Weeks = h.defaults.Weeks
	cfg.MaxDelta = h.defaults.MaxDelta

	if v := q.Get("weeks"); v != "" {
		weeks, err := strconv.Atoi(v)
		if err != nil {
			return cfg, errors.New("weeks must be an integer")
		}
		cfg.Weeks = weeks
	}

	if v := q.Get("max_delta"); v != "" {
		maxDelta, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, errors.New("max_delta must be a number")
		}
		cfg.MaxDelta = maxDelta
	}

	if v := q.Get("as_of"); v != "" {
		asOf, err := contracts.ParseDate(v)
		if err != nil {
			return cfg, errors.New("as_of must be YYYY-MM-DD")
		}
		cfg.AsOf = asOf
	}

	if v := q.Get("delta_mode"); v != "" {
		mode, err := contracts.ParseDeltaMode(v)
		if err != nil {
			return cfg, err
		}
		cfg.DeltaMode = mode
	}

	// 범위 검증은 orchestrator (ErrInvalidConfig → 400)
	return cfg, nil
}
