// Package config provides configuration management for an AGISystem2
// session.
//
// Configuration can be loaded from multiple sources (in order of
// precedence):
// 1. Environment variables (highest priority)
// 2. Configuration file (JSON)
// 3. Default values (lowest priority)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the complete session configuration, spec.md §6's
// Configuration contract.
type Config struct {
	// Geometry is the HDC dimensionality, strategy-dependent valid set
	// (e.g. a power of two for dense-binary).
	Geometry int `json:"geometry"`

	// StrategyID selects the registered vector.Strategy ("dense-binary"
	// or "sparse-set").
	StrategyID string `json:"strategy_id"`

	// ReasoningPriority selects which engine a query/prove call
	// consults first ("symbolic" or "holographic").
	ReasoningPriority string `json:"reasoning_priority"`

	// RejectContradictions aborts a learn batch outright when any
	// statement in it conflicts with an existing or co-batched fact.
	RejectContradictions bool `json:"reject_contradictions"`

	// MaxProofDepth bounds prove()'s backward-chaining recursion.
	MaxProofDepth int `json:"max_proof_depth"`

	// MaxGroundingDomain caps how many vocabulary entities a rule leaf
	// with an unbound variable may be grounded against.
	MaxGroundingDomain int `json:"max_grounding_domain"`

	// MaxPositionalArity caps a statement's argument count; 0 disables
	// the check.
	MaxPositionalArity int `json:"max_positional_arity"`

	// FallbackToSymbolic lets the holographic engine defer to the
	// symbolic engine's full backward-chaining proof when its own HDC
	// shortcuts fail to establish a goal.
	FallbackToSymbolic bool `json:"fallback_to_symbolic"`

	// AlwaysMergeSymbolic runs the symbolic engine's query alongside
	// the holographic engine's and unions the results, unless every HDC
	// candidate already validated (the hdcFastPathHits shortcut).
	AlwaysMergeSymbolic bool `json:"always_merge_symbolic"`

	// HDCTopK is the number of vocabulary candidates the holographic
	// engine decodes per unbind.
	HDCTopK int `json:"hdc_top_k"`

	// Logging settings, independent of the reasoning configuration
	// above.
	Logging LoggingConfig `json:"logging"`
}

// LoggingConfig contains structured-logging configuration.
type LoggingConfig struct {
	Level            string `json:"level"`
	Format           string `json:"format"`
	EnableTimestamps bool   `json:"enable_timestamps"`
}

// Default returns the spec.md §6 default configuration.
func Default() *Config {
	return &Config{
		Geometry:             1 << 15,
		StrategyID:           "dense-binary",
		ReasoningPriority:    "symbolic",
		RejectContradictions: true,
		MaxProofDepth:        10,
		MaxGroundingDomain:   64,
		MaxPositionalArity:   0,
		FallbackToSymbolic:   true,
		AlwaysMergeSymbolic:  true,
		HDCTopK:              5,
		Logging: LoggingConfig{
			Level:            "info",
			Format:           "text",
			EnableTimestamps: true,
		},
	}
}

// Load builds a Config from defaults overridden by environment
// variables, then validates it.
func Load() (*Config, error) {
	cfg := Default()
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromFile builds a Config from defaults, a JSON file, and then
// environment variables, in that order of increasing precedence.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
// Environment variables follow the pattern AGI_<KEY>, e.g.
// AGI_GEOMETRY, AGI_REASONING_PRIORITY.
func (c *Config) loadFromEnv() error {
	if v := os.Getenv("AGI_GEOMETRY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGI_GEOMETRY: %w", err)
		}
		c.Geometry = n
	}
	if v := os.Getenv("AGI_STRATEGY_ID"); v != "" {
		c.StrategyID = v
	}
	if v := os.Getenv("AGI_REASONING_PRIORITY"); v != "" {
		c.ReasoningPriority = strings.ToLower(v)
	}
	if v := os.Getenv("AGI_REJECT_CONTRADICTIONS"); v != "" {
		c.RejectContradictions = parseBool(v)
	}
	if v := os.Getenv("AGI_MAX_PROOF_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxProofDepth = n
		}
	}
	if v := os.Getenv("AGI_MAX_GROUNDING_DOMAIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxGroundingDomain = n
		}
	}
	if v := os.Getenv("AGI_MAX_POSITIONAL_ARITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPositionalArity = n
		}
	}
	if v := os.Getenv("AGI_FALLBACK_TO_SYMBOLIC"); v != "" {
		c.FallbackToSymbolic = parseBool(v)
	}
	if v := os.Getenv("AGI_ALWAYS_MERGE_SYMBOLIC"); v != "" {
		c.AlwaysMergeSymbolic = parseBool(v)
	}
	if v := os.Getenv("AGI_HDC_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.HDCTopK = n
		}
	}
	if v := os.Getenv("AGI_LOGGING_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("AGI_LOGGING_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("AGI_LOGGING_ENABLE_TIMESTAMPS"); v != "" {
		c.Logging.EnableTimestamps = parseBool(v)
	}
	return nil
}

// Validate rejects a Config spec.md's invariants would not tolerate.
func (c *Config) Validate() error {
	if c.Geometry <= 0 {
		return fmt.Errorf("geometry must be positive")
	}
	if c.StrategyID != "dense-binary" && c.StrategyID != "sparse-set" {
		return fmt.Errorf("strategy_id must be one of: dense-binary, sparse-set")
	}
	if c.ReasoningPriority != "symbolic" && c.ReasoningPriority != "holographic" {
		return fmt.Errorf("reasoning_priority must be one of: symbolic, holographic")
	}
	if c.MaxProofDepth < 1 {
		return fmt.Errorf("max_proof_depth must be >= 1")
	}
	if c.MaxGroundingDomain < 1 {
		return fmt.Errorf("max_grounding_domain must be >= 1")
	}
	if c.MaxPositionalArity < 0 {
		return fmt.Errorf("max_positional_arity cannot be negative")
	}
	if c.HDCTopK < 1 {
		return fmt.Errorf("hdc_top_k must be >= 1")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}
	return nil
}

// parseBool parses a boolean from string (handles various formats).
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on" || s == "enabled"
}

// ToJSON serializes the configuration to JSON.
func (c *Config) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := c.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
