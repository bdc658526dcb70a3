package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SOLVER_OPENING_WORD", "SOLVER_MAX_ROUNDS", "WORDS_LENGTH", "FREQ_API_RPS", "DB_PATH", "FREQ_API_URL", "SESSION_TIMEOUT"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "5175" || cfg.OpeningWord != "crane" || cfg.MaxRounds != 6 || cfg.WordLength != 5 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.FreqAPIRPS != 5 {
		t.Errorf("FreqAPIRPS = %v", cfg.FreqAPIRPS)
	}
	if cfg.SessionTimeout != 2*time.Hour {
		t.Errorf("SessionTimeout = %v", cfg.SessionTimeout)
	}
	// An explicitly empty DB_PATH keeps runs in memory.
	if cfg.DBPath != "" {
		t.Errorf("DBPath = %q, want empty", cfg.DBPath)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SOLVER_OPENING_WORD", "  SLATE ")
	t.Setenv("SOLVER_MAX_ROUNDS", "8")
	t.Setenv("FREQ_API_RPS", "2.5")
	t.Setenv("WORDS_LENGTH", "six")
	t.Setenv("SESSION_TIMEOUT", "45m")

	cfg := Load()
	if cfg.OpeningWord != "slate" || cfg.MaxRounds != 8 || cfg.FreqAPIRPS != 2.5 {
		t.Errorf("overrides = %+v", cfg)
	}
	if cfg.WordLength != 5 {
		t.Errorf("invalid WORDS_LENGTH gave %d, want default 5", cfg.WordLength)
	}
	if cfg.SessionTimeout != 45*time.Minute {
		t.Errorf("SessionTimeout = %v, want 45m", cfg.SessionTimeout)
	}

	t.Setenv("SESSION_TIMEOUT", "soon")
	if got := Load().SessionTimeout; got != 2*time.Hour {
		t.Errorf("invalid SESSION_TIMEOUT gave %v, want default", got)
	}
}
