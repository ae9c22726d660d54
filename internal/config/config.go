// Package config loads the application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/mll-dev/litassess/internal/llm"
)

// Levels supported by the assessment system.
const (
	MinLevel = 1
	MaxLevel = 4
)

// Config is the full application configuration.
type Config struct {
	// KBRefs maps each level to its knowledge base reference. A level with
	// no entry falls back to DefaultKBRef.
	KBRefs       map[int]string
	DefaultKBRef string

	// StorageRoot is where the filesystem object store keeps artifacts.
	StorageRoot string
	// StoragePrefix is prepended to every object key.
	StoragePrefix string

	// MinModules is the minimum distinct modules a valid assessment covers.
	MinModules int
	// TargetModules is how many modules retrieval pads out to.
	TargetModules int

	// Deadline bounds one whole generation request, all levels included.
	Deadline time.Duration

	LLM llm.Config
}

// Default returns configuration defaults. Storage lands next to the event
// database under the user's data directory.
func Default() Config {
	return Config{
		KBRefs:        make(map[int]string),
		StorageRoot:   defaultStorageRoot(),
		StoragePrefix: "assessments",
		MinModules:    5,
		TargetModules: 6,
		Deadline:      15 * time.Minute,
		LLM:           llm.DefaultConfig(),
	}
}

// Load reads configuration from LITASSESS_* environment variables. A .env
// file in the working directory is loaded first if present; real environment
// variables win over .env entries.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	cfg.LLM = llm.ConfigFromEnv()

	if ref := os.Getenv("LITASSESS_KB_REF"); ref != "" {
		cfg.DefaultKBRef = ref
	}
	for level := MinLevel; level <= MaxLevel; level++ {
		if ref := os.Getenv(fmt.Sprintf("LITASSESS_KB_REF_LEVEL_%d", level)); ref != "" {
			cfg.KBRefs[level] = ref
		}
	}

	if root := os.Getenv("LITASSESS_STORAGE_ROOT"); root != "" {
		cfg.StorageRoot = root
	}
	if prefix := os.Getenv("LITASSESS_STORAGE_PREFIX"); prefix != "" {
		cfg.StoragePrefix = prefix
	}

	if v := os.Getenv("LITASSESS_MIN_MODULES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid LITASSESS_MIN_MODULES: %q", v)
		}
		cfg.MinModules = n
	}
	if v := os.Getenv("LITASSESS_TARGET_MODULES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Config{}, fmt.Errorf("invalid LITASSESS_TARGET_MODULES: %q", v)
		}
		cfg.TargetModules = n
	}

	if v := os.Getenv("LITASSESS_DEADLINE"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid LITASSESS_DEADLINE: %q", v)
		}
		cfg.Deadline = d
	}

	return cfg, nil
}

// KBRefFor returns the knowledge base reference for a level, falling back to
// the default. Empty means no knowledge base is configured for that level.
func (c Config) KBRefFor(level int) string {
	if ref, ok := c.KBRefs[level]; ok {
		return ref
	}
	return c.DefaultKBRef
}

// Validate checks cross-field consistency.
func (c Config) Validate() error {
	if c.TargetModules < c.MinModules {
		return fmt.Errorf("target modules (%d) below minimum modules (%d)", c.TargetModules, c.MinModules)
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	return nil
}

func defaultStorageRoot() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "litassess", "artifacts")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "artifacts"
	}
	return filepath.Join(home, ".local", "share", "litassess", "artifacts")
}
