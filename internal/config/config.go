// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"procost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// DefaultCurrency is used when a factory omits its currency code
	DefaultCurrency string `json:"default_currency"`

	// FactoryDir is the directory scanned for factory definition files
	FactoryDir string `json:"factory_dir"`

	// Evaluation contains expression evaluation limits
	Evaluation EvaluationConfig `json:"evaluation"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EvaluationConfig contains expression evaluator limits
type EvaluationConfig struct {
	// MaxExpressionLength rejects pathological expressions before parsing
	MaxExpressionLength int `json:"max_expression_length"`

	// MaxNestingDepth bounds parser recursion
	MaxNestingDepth int `json:"max_nesting_depth"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Version:         "1",
		DefaultCurrency: "NOK",
		FactoryDir:      "factories",
		Evaluation: EvaluationConfig{
			MaxExpressionLength: 4096,
			MaxNestingDepth:     32,
		},
		Logging: logging.DefaultConfig(),
	}
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Load reads configuration from a JSON file
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// LoadDefault looks for a config file in standard locations
func LoadDefault() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return Default()
	}

	path := filepath.Join(home, ".procost.json")
	cfg, err := Load(path)
	if err != nil {
		return Default()
	}
	return cfg
}

// Set replaces the active configuration
func Set(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
}

// Get returns the active configuration
func Get() Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}
