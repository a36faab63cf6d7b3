package utils

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the toolchain configuration loaded from a YAML file
type Config struct {
	Framework FrameworkConfig `yaml:"framework"`
	Atpg      AtpgConfig      `yaml:"atpg"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// FrameworkConfig contains general settings
type FrameworkConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// AtpgConfig contains the test-generation settings
type AtpgConfig struct {
	// FaultType is "stuck-at" (default) or "transition-delay"
	FaultType string `yaml:"fault_type"`
	// DtpgType is "ffr" (default), "mffc" or "node"
	DtpgType string `yaml:"dtpg_type"`
	// JustType is "just2" (default), "just1" or "naive"
	JustType string `yaml:"just_type"`
	// SatTimeoutMs bounds one SAT call; 0 means unbounded
	SatTimeoutMs int `yaml:"sat_timeout_ms"`
	// DropFault enables fault dropping through the simulator
	DropFault bool `yaml:"drop_fault"`
	// RandomPatNum random patterns are graded before deterministic
	// generation; 0 disables the phase
	RandomPatNum int   `yaml:"random_pat_num"`
	RandomSeed   int64 `yaml:"random_seed"`
	// Compact merges compatible vectors after generation
	Compact bool `yaml:"compact"`
}

// MetricsConfig enables the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() Config {
	return Config{
		Framework: FrameworkConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
		Atpg: AtpgConfig{
			FaultType: "stuck-at",
			DtpgType:  "ffr",
			JustType:  "just2",
			DropFault: true,
			Compact:   true,
		},
		Metrics: MetricsConfig{
			Addr: ":9120",
		},
	}
}

// LoadConfig reads a YAML config file over the defaults
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
