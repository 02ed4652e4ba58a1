package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML or TOML config file, chosen by extension, after expanding
// ${VAR} environment variables.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
	case ".toml":
		if _, err := toml.Decode(expanded, &cfg); err != nil {
			return nil, fmt.Errorf("parse config toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	return &cfg, nil
}

// LoadWithDefaults loads config, applies ACTIBOURSE_* environment overrides
// (reading .env if present) and fills default values. An empty path skips the
// file.
func LoadWithDefaults(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}

	_ = godotenv.Load()

	applyEnvOverrides(cfg)
	cfg.applyDefaults()
	return cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := LoadWithDefaults(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	setInt(&cfg.Game.Teams, "ACTIBOURSE_TEAMS")
	setFloat64(&cfg.Game.InitialCash, "ACTIBOURSE_INITIAL_CASH")
	setBoolPtr(&cfg.Game.TestMode, "ACTIBOURSE_TEST_MODE")
	setFloat64(&cfg.Game.TokenValue, "ACTIBOURSE_TOKEN_VALUE")
	setInt(&cfg.Game.LedgerCapacity, "ACTIBOURSE_LEDGER_CAPACITY")

	setStr(&cfg.Cadence.TestInterval, "ACTIBOURSE_CADENCE_TEST_INTERVAL")
	setStr(&cfg.Cadence.GameMinInterval, "ACTIBOURSE_CADENCE_GAME_MIN_INTERVAL")
	setStr(&cfg.Cadence.GameMaxInterval, "ACTIBOURSE_CADENCE_GAME_MAX_INTERVAL")

	setStr(&cfg.Server.Addr, "ACTIBOURSE_SERVER_ADDR")
	setStr(&cfg.Log.Level, "ACTIBOURSE_LOG_LEVEL")
	setStr(&cfg.Log.File, "ACTIBOURSE_LOG_FILE")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBoolPtr(dst **bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = &b
		}
	}
}
