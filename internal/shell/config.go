package shell

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// Config holds the shell's configuration options.
type Config struct {
	Prompt       string `json:"prompt,omitempty"`
	HistorySize  int    `json:"history_size,omitempty"` //nolint:tagliatelle // snake_case for config file
	SafeIntegers bool   `json:"safe_integers,omitempty"` //nolint:tagliatelle // snake_case for config file
}

// DefaultConfig returns the default shell configuration.
func DefaultConfig() Config {
	return Config{
		Prompt:      "litedb> ",
		HistorySize: 1000,
	}
}

// globalConfigPath returns the path to the global config file.
// Uses $XDG_CONFIG_HOME/litedb/config.hujson if set, otherwise
// ~/.config/litedb/config.hujson. Returns empty string if the home
// directory cannot be determined.
func globalConfigPath(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok {
			return filepath.Join(after, "litedb", "config.hujson")
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "litedb", "config.hujson")
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", "litedb", "config.hujson")
	}

	return ""
}

// LoadConfig loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/litedb/config.hujson)
// 3. Explicit config file via configPath (if non-empty, must exist).
func LoadConfig(configPath string, env []string) (Config, error) {
	cfg := DefaultConfig()

	globalPath := globalConfigPath(env)
	if globalPath != "" {
		globalCfg, loaded, err := loadConfigFile(globalPath, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg = mergeConfig(cfg, globalCfg)
		}
	}

	if configPath != "" {
		fileCfg, _, err := loadConfigFile(configPath, true)
		if err != nil {
			return Config{}, err
		}

		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// loadConfigFile loads one config file. If mustExist is false, a missing
// file returns a zero config and loaded=false.
func loadConfigFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		if mustExist {
			return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
		}

		return Config{}, false, nil
	}

	cfg, parseErr := parseConfig(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	unmarshalErr := json.Unmarshal(standardized, &cfg)
	if unmarshalErr != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", unmarshalErr)
	}

	return cfg, nil
}

func mergeConfig(base, overlay Config) Config {
	if overlay.Prompt != "" {
		base.Prompt = overlay.Prompt
	}

	if overlay.HistorySize != 0 {
		base.HistorySize = overlay.HistorySize
	}

	if overlay.SafeIntegers {
		base.SafeIntegers = true
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.HistorySize < 0 {
		return errHistorySizeBad
	}

	return nil
}
