package config

import (
	"github.com/zappabad/actibourse/internal/cadence"
	"github.com/zappabad/actibourse/internal/game"
)

// Default values for optional configuration fields.
const (
	DefaultServerAddr = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFile    = "actibourse.log"
)

// Default returns a Config equivalent to an empty file.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	def := game.DefaultConfig()

	// Game defaults
	if c.Game.Teams == 0 {
		c.Game.Teams = def.Teams
	}
	if c.Game.InitialCash == 0 {
		c.Game.InitialCash = def.InitialCash.InexactFloat64()
	}
	if c.Game.TestMode == nil {
		on := def.TestMode
		c.Game.TestMode = &on
	}
	if c.Game.TokenValue == 0 {
		c.Game.TokenValue = def.TokenValue.InexactFloat64()
	}
	if c.Game.LedgerCapacity == 0 {
		c.Game.LedgerCapacity = def.LedgerCapacity
	}
	if len(c.Game.Securities) == 0 {
		for _, s := range def.Securities {
			c.Game.Securities = append(c.Game.Securities, SecurityConfig{
				ID:    string(s.ID),
				Name:  s.Name,
				Price: s.InitialPrice.InexactFloat64(),
			})
		}
	}
	for i := range c.Game.Securities {
		if c.Game.Securities[i].Name == "" {
			c.Game.Securities[i].Name = c.Game.Securities[i].ID
		}
	}

	// Cadence defaults
	cad := cadence.DefaultConfig()
	if c.Cadence.TestInterval == "" {
		c.Cadence.TestInterval = cad.TestInterval.String()
	}
	if c.Cadence.GameMinInterval == "" {
		c.Cadence.GameMinInterval = cad.GameMinInterval.String()
	}
	if c.Cadence.GameMaxInterval == "" {
		c.Cadence.GameMaxInterval = cad.GameMaxInterval.String()
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.File == "" {
		c.Log.File = DefaultLogFile
	}
}
