package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/cadence"
	"github.com/zappabad/actibourse/internal/game"
	"github.com/zappabad/actibourse/internal/market"
)

// GameConfig converts the file settings into a session configuration.
// Money values are rounded to two decimals.
func (c *Config) GameConfig() (game.Config, error) {
	cad, err := c.CadenceConfig()
	if err != nil {
		return game.Config{}, err
	}

	out := game.Config{
		Teams:          c.Game.Teams,
		InitialCash:    decimal.NewFromFloat(c.Game.InitialCash).Round(2),
		TokenValue:     decimal.NewFromFloat(c.Game.TokenValue).Round(2),
		LedgerCapacity: c.Game.LedgerCapacity,
		Cadence:        cad,
	}
	if c.Game.TestMode != nil {
		out.TestMode = *c.Game.TestMode
	}
	for _, s := range c.Game.Securities {
		out.Securities = append(out.Securities, market.Security{
			ID:           market.SecurityID(s.ID),
			Name:         s.Name,
			InitialPrice: decimal.NewFromFloat(s.Price).Round(2),
		})
	}
	return out, nil
}

// CadenceConfig parses the update intervals.
func (c *Config) CadenceConfig() (cadence.Config, error) {
	out := cadence.DefaultConfig()
	for _, f := range []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"cadence.test_interval", c.Cadence.TestInterval, &out.TestInterval},
		{"cadence.game_min_interval", c.Cadence.GameMinInterval, &out.GameMinInterval},
		{"cadence.game_max_interval", c.Cadence.GameMaxInterval, &out.GameMaxInterval},
	} {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return cadence.Config{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = d
	}
	return out, nil
}
