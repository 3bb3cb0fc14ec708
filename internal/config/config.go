// Package config loads and validates the modelpulse CLI configuration.
//
// DESIGN: The monitor core takes a plain monitor.Config value at
// construction; this package is the YAML face of it for the CLI plus the
// surfaces the library keeps out of the core (history sinks, live feed,
// logging). Files support ${VAR:-default} expansion and MODELPULSE_* env
// overrides so deployment scripts can redirect paths without editing files.
package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/modelpulse/modelpulse/monitor"
)

// Config is the root configuration for the modelpulse CLI.
type Config struct {
	Monitor MonitorConfig `yaml:"monitor"` // scoring thresholds and engines
	History HistoryConfig `yaml:"history"` // durable call records
	Feed    FeedConfig    `yaml:"feed"`    // live WebSocket feed
	Logging LoggingConfig `yaml:"logging"` // global logger settings
}

// MonitorConfig mirrors monitor.Config for YAML.
type MonitorConfig struct {
	LearningRate    float64          `yaml:"learning_rate"`
	MinSamples      int              `yaml:"min_samples"`
	Thresholds      ThresholdsConfig `yaml:"thresholds"`
	Engines         EnginesConfig    `yaml:"engines"`
	StructureGating bool             `yaml:"structure_gating"`
}

// ThresholdsConfig holds the engine ratio cutoffs.
type ThresholdsConfig struct {
	LatencyWarnRatio    float64 `yaml:"latency_warn_ratio"`
	LatencyErrorRatio   float64 `yaml:"latency_error_ratio"`
	TokenRateWarnRatio  float64 `yaml:"token_rate_warn_ratio"`
	TokenRateErrorRatio float64 `yaml:"token_rate_error_ratio"`
}

// EnginesConfig toggles individual signal engines.
type EnginesConfig struct {
	Latency     bool `yaml:"latency"`
	TokenRate   bool `yaml:"token_rate"`
	Fingerprint bool `yaml:"fingerprint"`
	Structure   bool `yaml:"structure"`
}

// HistoryConfig configures durable call records.
type HistoryConfig struct {
	Enabled    bool   `yaml:"enabled"`
	JSONLPath  string `yaml:"jsonl_path"`
	SQLitePath string `yaml:"sqlite_path"`
}

// FeedConfig configures the live WebSocket feed server.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console or json; empty auto-detects a TTY
}

// Default returns a runnable configuration: stock monitor tuning, no
// history, no feed, info-level auto-format logging. The CLI works without
// a config file.
func Default() *Config {
	mc := monitor.DefaultConfig()
	return &Config{
		Monitor: MonitorConfig{
			LearningRate: mc.LearningRate,
			MinSamples:   mc.MinSamples,
			Thresholds: ThresholdsConfig{
				LatencyWarnRatio:    mc.Thresholds.LatencyWarnRatio,
				LatencyErrorRatio:   mc.Thresholds.LatencyErrorRatio,
				TokenRateWarnRatio:  mc.Thresholds.TokenRateWarnRatio,
				TokenRateErrorRatio: mc.Thresholds.TokenRateErrorRatio,
			},
			Engines: EnginesConfig{
				Latency:     mc.Engines.Latency,
				TokenRate:   mc.Engines.TokenRate,
				Fingerprint: mc.Engines.Fingerprint,
				Structure:   mc.Engines.Structure,
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// expandEnvWithDefaults expands environment variables with support for
// default values. Supports both ${VAR} and ${VAR:-default} syntax.
func expandEnvWithDefaults(s string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultValue := ""
		if len(parts) > 2 {
			defaultValue = parts[2]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}
		return defaultValue
	})
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config file path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	return LoadFromBytes(data)
}

// LoadFromBytes parses configuration from raw YAML bytes with env var
// expansion, env overrides, and validation.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvWithDefaults(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides lets session managers redirect outputs without touching
// the base config files.
func (c *Config) applyEnvOverrides() {
	if envPath := os.Getenv("MODELPULSE_HISTORY_JSONL"); envPath != "" {
		c.History.JSONLPath = envPath
		c.History.Enabled = true
	}
	if envPath := os.Getenv("MODELPULSE_HISTORY_SQLITE"); envPath != "" {
		c.History.SQLitePath = envPath
		c.History.Enabled = true
	}
	if addr := os.Getenv("MODELPULSE_FEED_ADDR"); addr != "" {
		c.Feed.Addr = addr
		c.Feed.Enabled = true
	}
}

// Validate checks the full configuration, delegating monitor tuning checks
// to the monitor package so the two never drift.
func (c *Config) Validate() error {
	if err := c.Monitor.ToMonitor().Validate(); err != nil {
		return fmt.Errorf("monitor: %w", err)
	}

	if c.History.Enabled && c.History.JSONLPath == "" && c.History.SQLitePath == "" {
		return fmt.Errorf("history.enabled requires history.jsonl_path or history.sqlite_path")
	}

	if c.Feed.Enabled && c.Feed.Addr == "" {
		return fmt.Errorf("feed.enabled requires feed.addr")
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging.level: %q (must be debug, info, warn or error)", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid logging.format: %q (must be console or json)", c.Logging.Format)
	}

	return nil
}

// ToMonitor converts the YAML view into the monitor's construction config.
// Hooks are runtime objects and are wired by the caller.
func (m MonitorConfig) ToMonitor() monitor.Config {
	return monitor.Config{
		Thresholds: monitor.Thresholds{
			LatencyWarnRatio:    m.Thresholds.LatencyWarnRatio,
			LatencyErrorRatio:   m.Thresholds.LatencyErrorRatio,
			TokenRateWarnRatio:  m.Thresholds.TokenRateWarnRatio,
			TokenRateErrorRatio: m.Thresholds.TokenRateErrorRatio,
		},
		LearningRate: m.LearningRate,
		MinSamples:   m.MinSamples,
		Engines: monitor.Engines{
			Latency:     m.Engines.Latency,
			TokenRate:   m.Engines.TokenRate,
			Fingerprint: m.Engines.Fingerprint,
			Structure:   m.Engines.Structure,
		},
		StructureGating: m.StructureGating,
	}
}
