// Package strategyconfig loads the YAML watchlist that drives scheduled scans.
package strategyconfig

import (
	"strings"
	"time"

	"github.com/wonny/covercall/internal/contracts"
)

// Config는 스케줄 스캔용 watchlist 전체 설정
type Config struct {
	Meta     Meta      `yaml:"meta" json:"meta"`
	Defaults Defaults  `yaml:"defaults" json:"defaults"`
	Profiles []Profile `yaml:"profiles" json:"profiles"`
}

// Meta 메타 정보
type Meta struct {
	WatchlistID string `yaml:"watchlist_id" json:"watchlist_id"`
	Version     string `yaml:"version" json:"version"`
	Timezone    string `yaml:"timezone" json:"timezone"`
}

// Defaults apply to every profile that leaves a field unset
type Defaults struct {
	Weeks     int     `yaml:"weeks" json:"weeks"`
	MaxDelta  float64 `yaml:"max_delta" json:"max_delta"`
	DeltaMode string  `yaml:"delta_mode" json:"delta_mode"`
	ExportDir string  `yaml:"export_dir" json:"export_dir"`
}

// Profile is one cron job: a schedule plus the tickers it scans
type Profile struct {
	Name      string   `yaml:"name" json:"name"`
	Schedule  string   `yaml:"schedule" json:"schedule"` // 6-field cron (seconds first) or descriptor
	Tickers   []string `yaml:"tickers" json:"tickers"`
	Weeks     int      `yaml:"weeks,omitempty" json:"weeks,omitempty"`
	MaxDelta  float64  `yaml:"max_delta,omitempty" json:"max_delta,omitempty"`
	DeltaMode string   `yaml:"delta_mode,omitempty" json:"delta_mode,omitempty"`
	Export    *bool    `yaml:"export,omitempty" json:"export,omitempty"` // nil → true
}

// Location returns the watchlist timezone (UTC when unset or unknown)
func (c *Config) Location() *time.Location {
	if c.Meta.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Meta.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Profile looks up a profile by name
func (c *Config) Profile(name string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// AnalysisConfig merges profile values over defaults for a given analysis date
func (p Profile) AnalysisConfig(d Defaults, asOf time.Time) contracts.AnalysisConfig {
	cfg := contracts.DefaultAnalysisConfig(asOf)

	if d.Weeks != 0 {
		cfg.Weeks = d.Weeks
	}
	if d.MaxDelta != 0 {
		cfg.MaxDelta = d.MaxDelta
	}
	if d.DeltaMode != "" {
		cfg.DeltaMode = contracts.DeltaMode(d.DeltaMode)
	}

	if p.Weeks != 0 {
		cfg.Weeks = p.Weeks
	}
	if p.MaxDelta != 0 {
		cfg.MaxDelta = p.MaxDelta
	}
	if p.DeltaMode != "" {
		cfg.DeltaMode = contracts.DeltaMode(p.DeltaMode)
	}

	return cfg
}

// ExportEnabled reports whether the profile writes CSV files
func (p Profile) ExportEnabled() bool {
	return p.Export == nil || *p.Export
}

// Symbols returns upper-cased tickers
func (p Profile) Symbols() []string {
	out := make([]string, 0, len(p.Tickers))
	for _, t := range p.Tickers {
		out = append(out, strings.ToUpper(strings.TrimSpace(t)))
	}
	return out
}
