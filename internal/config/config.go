package config

// Config is the file representation of an ActiBourse deployment.
type Config struct {
	Game    GameConfig    `yaml:"game" toml:"game"`
	Cadence CadenceConfig `yaml:"cadence" toml:"cadence"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// GameConfig describes the teams and securities of a session.
type GameConfig struct {
	Teams          int              `yaml:"teams" toml:"teams"`
	InitialCash    float64          `yaml:"initial_cash" toml:"initial_cash"`
	TestMode       *bool            `yaml:"test_mode" toml:"test_mode"`
	TokenValue     float64          `yaml:"token_value" toml:"token_value"`
	LedgerCapacity int              `yaml:"ledger_capacity" toml:"ledger_capacity"`
	Securities     []SecurityConfig `yaml:"securities" toml:"securities"`
}

// SecurityConfig is one entry of the security catalog.
type SecurityConfig struct {
	ID    string  `yaml:"id" toml:"id"`
	Name  string  `yaml:"name" toml:"name"`
	Price float64 `yaml:"price" toml:"price"`
}

// CadenceConfig holds update intervals as Go duration strings ("10s", "5m").
type CadenceConfig struct {
	TestInterval    string `yaml:"test_interval" toml:"test_interval"`
	GameMinInterval string `yaml:"game_min_interval" toml:"game_min_interval"`
	GameMaxInterval string `yaml:"game_max_interval" toml:"game_max_interval"`
}

// ServerConfig holds HTTP listener parameters.
type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `yaml:"level" toml:"level"`
	// File receives log output; the TUI needs it since stdout is the screen.
	File string `yaml:"file" toml:"file"`
}
