package config

import (
	"os"
	"testing"
	"time"
)

// Test environment variable keys.
const (
	testEnvPostgresDSN = "POSTGRES_DSN"
	testEnvRegion      = "REGION_CODE"
	testEnvYouTubeRPM  = "YOUTUBE_RPM"
	testEnvLikeWeight  = "SCORE_LIKE_WEIGHT"
	testEnvChatID      = "TELEGRAM_CHAT_ID"
	testEnvDryRun      = "DRY_RUN"
)

// Test values.
const (
	testPostgresDSN  = "postgres://localhost/test"
	testErrLoad      = "Load() error = %v"
	testDefaultEnv   = "local"
	testDefaultModel = "llama3.1:8b"
)

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, "")
	os.Unsetenv(testEnvPostgresDSN)

	_, err := Load()
	if err == nil {
		t.Error("expected error for missing POSTGRES_DSN")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, testPostgresDSN)

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.Database.PostgresDSN != testPostgresDSN {
		t.Errorf("PostgresDSN = %q, want %q", cfg.Database.PostgresDSN, testPostgresDSN)
	}

	if cfg.AppEnv != testDefaultEnv {
		t.Errorf("AppEnv = %q, want %q", cfg.AppEnv, testDefaultEnv)
	}

	if cfg.YouTube.RegionCode != "US" {
		t.Errorf("RegionCode = %q, want %q", cfg.YouTube.RegionCode, "US")
	}

	if cfg.LLM.Model != testDefaultModel {
		t.Errorf("LLM.Model = %q, want %q", cfg.LLM.Model, testDefaultModel)
	}

	if cfg.QueriesFile != "config/queries.yaml" {
		t.Errorf("QueriesFile = %q", cfg.QueriesFile)
	}

	if cfg.Schedule.TickInterval != 10*time.Minute {
		t.Errorf("TickInterval = %v, want 10m", cfg.Schedule.TickInterval)
	}

	if cfg.Scoring.LikeWeight != 2.0 || cfg.Scoring.CommentWeight != 3.0 || cfg.Scoring.MinAgeHours != 1.0 {
		t.Errorf("Scoring = %+v, want 2/3/1", cfg.Scoring)
	}

	if cfg.DryRun {
		t.Error("DryRun should default to false")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, testPostgresDSN)
	t.Setenv(testEnvRegion, "GB")
	t.Setenv(testEnvYouTubeRPM, "30")
	t.Setenv(testEnvLikeWeight, "4.5")
	t.Setenv(testEnvChatID, "-1001234567890")
	t.Setenv(testEnvDryRun, "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf(testErrLoad, err)
	}

	if cfg.YouTube.RegionCode != "GB" {
		t.Errorf("RegionCode = %q, want GB", cfg.YouTube.RegionCode)
	}

	if cfg.YouTube.RequestsPerMinute != 30 {
		t.Errorf("RequestsPerMinute = %d, want 30", cfg.YouTube.RequestsPerMinute)
	}

	if cfg.Scoring.LikeWeight != 4.5 {
		t.Errorf("LikeWeight = %v, want 4.5", cfg.Scoring.LikeWeight)
	}

	if cfg.Publish.TelegramChatID != -1001234567890 {
		t.Errorf("TelegramChatID = %d", cfg.Publish.TelegramChatID)
	}

	if !cfg.DryRun {
		t.Error("DryRun should be true")
	}
}

func TestLoad_InvalidNumeric(t *testing.T) {
	t.Setenv(testEnvPostgresDSN, testPostgresDSN)
	t.Setenv(testEnvYouTubeRPM, "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("expected error for invalid YOUTUBE_RPM")
	}
}
