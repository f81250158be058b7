package strategyconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/covercall/internal/contracts"
)

// ValidationError 검증 실패 (프로그램 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Warning 권장 위반 (경고만)
type Warning struct {
	Code    string
	Message string
}

var (
	profileNameRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	tickerRe      = regexp.MustCompile(`^[A-Za-z]{1,5}(\.[A-Za-z])?$`)

	// scheduler와 동일한 파서 (seconds 필드 포함)
	cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
)

// Validate checks all required constraints
// 실패 시 error 반환 (프로그램 중단)
func Validate(cfg *Config) error {
	// === Meta ===
	if cfg.Meta.WatchlistID == "" {
		return ValidationError{"meta.watchlist_id", "required"}
	}
	if cfg.Meta.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Meta.Timezone); err != nil {
			return ValidationError{"meta.timezone", err.Error()}
		}
	}

	// === Defaults ===
	sample := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := (Profile{}).AnalysisConfig(cfg.Defaults, sample).Validate(); err != nil {
		return ValidationError{"defaults", stripSentinel(err)}
	}

	// === Profiles ===
	if len(cfg.Profiles) == 0 {
		return ValidationError{"profiles", "must not be empty"}
	}

	seen := make(map[string]bool, len(cfg.Profiles))
	for i, p := range cfg.Profiles {
		field := fmt.Sprintf("profiles[%d]", i)

		if !profileNameRe.MatchString(p.Name) {
			return ValidationError{field + ".name", "must match [a-z0-9_]+"}
		}
		if seen[p.Name] {
			return ValidationError{field + ".name", fmt.Sprintf("duplicate profile %q", p.Name)}
		}
		seen[p.Name] = true

		if _, err := cronParser.Parse(p.Schedule); err != nil {
			return ValidationError{field + ".schedule", err.Error()}
		}

		if len(p.Tickers) == 0 {
			return ValidationError{field + ".tickers", "must not be empty"}
		}
		tickers := make(map[string]bool, len(p.Tickers))
		for j, symbol := range p.Symbols() {
			if !tickerRe.MatchString(symbol) {
				return ValidationError{fmt.Sprintf("%s.tickers[%d]", field, j), fmt.Sprintf("invalid ticker %q", p.Tickers[j])}
			}
			if tickers[symbol] {
				return ValidationError{fmt.Sprintf("%s.tickers[%d]", field, j), fmt.Sprintf("duplicate ticker %q", symbol)}
			}
			tickers[symbol] = true
		}

		if err := p.AnalysisConfig(cfg.Defaults, sample).Validate(); err != nil {
			return ValidationError{field, stripSentinel(err)}
		}
	}

	return nil
}

// Warn checks recommended constraints (non-fatal)
func Warn(cfg *Config) []Warning {
	var warnings []Warning

	owner := make(map[string]string)
	for _, p := range cfg.Profiles {
		ac := p.AnalysisConfig(cfg.Defaults, time.Now())

		// 0.5 초과 delta는 사실상 ATM 근처까지 허용
		if ac.MaxDelta > 0.5 {
			warnings = append(warnings, Warning{
				Code:    "HIGH_MAX_DELTA",
				Message: fmt.Sprintf("profile %s: max_delta %.2f admits near-the-money strikes", p.Name, ac.MaxDelta),
			})
		}

		for _, symbol := range p.Symbols() {
			if prev, ok := owner[symbol]; ok {
				warnings = append(warnings, Warning{
					Code:    "DUPLICATE_TICKER",
					Message: fmt.Sprintf("%s scanned by both %s and %s", symbol, prev, p.Name),
				})
				continue
			}
			owner[symbol] = p.Name
		}
	}

	return warnings
}

// stripSentinel drops the "invalid analysis config: " prefix for field messages
func stripSentinel(err error) string {
	if !errors.Is(err, contracts.ErrInvalidConfig) {
		return err.Error()
	}
	return strings.TrimPrefix(err.Error(), contracts.ErrInvalidConfig.Error()+": ")
}
