package reconcile

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds configuration for candidate reconciliation
type Config struct {
	// CandidateThreshold is the edit-distance similarity (0.0-1.0) above which
	// two AI-proposed rule candidates are merged.
	// Higher values = more conservative (fewer merges, more near-duplicates shown)
	// Lower values = more aggressive (more merges, risk of collapsing distinct rules)
	// Default: DefaultCandidateThreshold (0.70)
	CandidateThreshold float64

	// MaxCandidates caps how many AI-proposed candidates one analysis pass will
	// consider. The fuzzy scan is quadratic, so this bounds worst-case work.
	// Default: 50
	MaxCandidates int
}

// DefaultConfig returns the default reconciliation configuration
func DefaultConfig() Config {
	return Config{
		CandidateThreshold: DefaultCandidateThreshold,
		MaxCandidates:      50,
	}
}

// Validate checks if the configuration has valid values
func (c Config) Validate() error {
	if c.CandidateThreshold <= 0.0 || c.CandidateThreshold > 1.0 {
		return fmt.Errorf("candidate_threshold must be in (0.0, 1.0] (got %.2f)", c.CandidateThreshold)
	}
	if c.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be positive (got %d)", c.MaxCandidates)
	}
	if c.MaxCandidates > 500 {
		return fmt.Errorf("max_candidates too large (got %d, max 500)", c.MaxCandidates)
	}
	return nil
}

// String returns a human-readable representation of the config
func (c Config) String() string {
	return fmt.Sprintf("Config{Threshold: %.2f, MaxCandidates: %d}",
		c.CandidateThreshold, c.MaxCandidates)
}

// ConfigFromEnv creates a Config from environment variables, falling back to defaults
//
// Environment variables:
//   - MLR_DEDUP_THRESHOLD: Similarity (0.0-1.0) above which candidates merge (default: 0.70)
//   - MLR_DEDUP_MAX_CANDIDATES: Maximum candidates per analysis pass (default: 50)
//
// Returns an error if any environment variable has an invalid value.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if err := parseEnvFloat("MLR_DEDUP_THRESHOLD", &cfg.CandidateThreshold); err != nil {
		return cfg, err
	}
	if err := parseEnvInt("MLR_DEDUP_MAX_CANDIDATES", &cfg.MaxCandidates); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration from environment: %w", err)
	}

	return cfg, nil
}

// parseEnvFloat parses a float64 from an environment variable
func parseEnvFloat(key string, dest *float64) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}

// parseEnvInt parses an int from an environment variable
func parseEnvInt(key string, dest *int) error {
	value := os.Getenv(key)
	if value == "" {
		return nil // Use default
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	*dest = parsed
	return nil
}
