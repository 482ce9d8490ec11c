package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const configFile = "gravity.yaml"

// Load reads the game configuration and applies GRAVITY_* environment
// overrides.
// Search order: customPath -> ~/.gravity/configs/gravity.yaml ->
// ./configs/gravity.yaml -> embedded default.
func Load(customPath string) (GravityConfig, error) {
	cfg, err := loadYAML(customPath)
	if err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields tagged with `env` from the environment.
// Unset variables leave the loaded value untouched.
func ApplyEnv(cfg *GravityConfig) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func loadYAML(customPath string) (GravityConfig, error) {
	// Start from the defaults so partial files only override what they set.
	cfg := embeddedDefaults()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(configFile), filepath.Join("configs", configFile)} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		candidate := cfg
		if err := yaml.Unmarshal(data, &candidate); err == nil {
			return candidate, nil
		}
	}
	return cfg, nil
}

func embeddedDefaults() GravityConfig {
	var cfg GravityConfig
	if err := yaml.Unmarshal(defaultGravityYAML, &cfg); err != nil {
		return DefaultGravityConfig()
	}
	return cfg
}

// userConfigPath returns the path to a user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gravity", "configs", filename)
}
