package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.MinModules != 5 {
		t.Errorf("MinModules = %d, want 5", cfg.MinModules)
	}
	if cfg.TargetModules != 6 {
		t.Errorf("TargetModules = %d, want 6", cfg.TargetModules)
	}
	if cfg.StoragePrefix != "assessments" {
		t.Errorf("StoragePrefix = %q", cfg.StoragePrefix)
	}
	if cfg.Deadline != 15*time.Minute {
		t.Errorf("Deadline = %v", cfg.Deadline)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LITASSESS_KB_REF", "/kb/shared")
	t.Setenv("LITASSESS_KB_REF_LEVEL_2", "/kb/level2")
	t.Setenv("LITASSESS_STORAGE_ROOT", "/data/artifacts")
	t.Setenv("LITASSESS_STORAGE_PREFIX", "out")
	t.Setenv("LITASSESS_TARGET_MODULES", "8")
	t.Setenv("LITASSESS_DEADLINE", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.KBRefFor(2) != "/kb/level2" {
		t.Errorf("KBRefFor(2) = %q, want level override", cfg.KBRefFor(2))
	}
	if cfg.KBRefFor(1) != "/kb/shared" {
		t.Errorf("KBRefFor(1) = %q, want shared fallback", cfg.KBRefFor(1))
	}
	if cfg.StorageRoot != "/data/artifacts" || cfg.StoragePrefix != "out" {
		t.Errorf("storage = %q/%q", cfg.StorageRoot, cfg.StoragePrefix)
	}
	if cfg.TargetModules != 8 {
		t.Errorf("TargetModules = %d, want 8", cfg.TargetModules)
	}
	if cfg.Deadline != 5*time.Minute {
		t.Errorf("Deadline = %v, want 5m", cfg.Deadline)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric modules", "LITASSESS_MIN_MODULES", "five"},
		{"zero modules", "LITASSESS_TARGET_MODULES", "0"},
		{"bad duration", "LITASSESS_DEADLINE", "eventually"},
		{"negative duration", "LITASSESS_DEADLINE", "-1m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestValidateTargetBelowMinimum(t *testing.T) {
	cfg := Default()
	cfg.TargetModules = 3
	cfg.LLM.Provider = "mock"

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for target below minimum")
	}
}
