package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "8089" {
		t.Errorf("Expected Port to be 8089, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Analysis.MaxDelta != 0.31 {
		t.Errorf("Expected MaxDelta to be 0.31, got %v", cfg.Analysis.MaxDelta)
	}

	if cfg.Analysis.Weeks != 6 {
		t.Errorf("Expected Weeks to be 6, got %d", cfg.Analysis.Weeks)
	}

	if cfg.Schwab.CacheTTL != time.Minute {
		t.Errorf("Expected CacheTTL to be 1m, got %v", cfg.Schwab.CacheTTL)
	}

	if cfg.Scheduler.MaxRetries != 2 || cfg.Scheduler.RetryDelay != time.Minute || cfg.Scheduler.JobTimeout != 10*time.Minute {
		t.Errorf("Unexpected scheduler defaults: %+v", cfg.Scheduler)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("ANALYSIS_MAX_DELTA", "0.25")
	t.Setenv("ANALYSIS_WEEKS", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FILE", "/tmp/ccscan.log")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Analysis.MaxDelta != 0.25 {
		t.Errorf("Expected MaxDelta to be 0.25, got %v", cfg.Analysis.MaxDelta)
	}

	if cfg.Analysis.Weeks != 10 {
		t.Errorf("Expected Weeks to be 10, got %d", cfg.Analysis.Weeks)
	}

	if cfg.LogFile.Path != "/tmp/ccscan.log" {
		t.Errorf("Expected LogFile.Path to be set, got %q", cfg.LogFile.Path)
	}
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ENV is invalid, got nil")
	}
}

func TestValidateWeeksOutOfRange(t *testing.T) {
	t.Setenv("ANALYSIS_WEEKS", "13")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when ANALYSIS_WEEKS is 13, got nil")
	}
}

func TestValidateSchedulerRetries(t *testing.T) {
	t.Setenv("SCHEDULER_MAX_RETRIES", "-1")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when SCHEDULER_MAX_RETRIES is negative, got nil")
	}
}

func TestRequireSchwab(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireSchwab(); err == nil {
		t.Error("Expected error without credentials")
	}

	cfg.Schwab.ClientID = "id"
	cfg.Schwab.ClientSecret = "secret"
	if err := cfg.RequireSchwab(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{Analysis: AnalysisDefaults{Timezone: "Not/AZone"}}
	if cfg.Location() != time.UTC {
		t.Errorf("Expected UTC fallback, got %v", cfg.Location())
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	duration := getEnvAsDuration("TEST_DURATION", "1h")
	if duration != 2*time.Hour {
		t.Errorf("Expected duration to be 2h, got %v", duration)
	}
}

func TestGetEnvAsFloat(t *testing.T) {
	os.Setenv("TEST_FLOAT", "0.42")
	defer os.Unsetenv("TEST_FLOAT")

	if v := getEnvAsFloat("TEST_FLOAT", 0.1); v != 0.42 {
		t.Errorf("Expected 0.42, got %v", v)
	}

	if v := getEnvAsFloat("TEST_FLOAT_MISSING", 0.1); v != 0.1 {
		t.Errorf("Expected default 0.1, got %v", v)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	os.Setenv("TEST_BOOL", "true")
	defer os.Unsetenv("TEST_BOOL")

	if value := getEnvAsBool("TEST_BOOL", false); value != true {
		t.Errorf("Expected value to be true, got %v", value)
	}
}
