package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap/zapcore"
)

// minSecurityPrice mirrors market.PriceFloor.
const minSecurityPrice = 10

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Game.Teams < 1 {
		return errors.New("game.teams must be >= 1")
	}
	if c.Game.InitialCash < 0 {
		return errors.New("game.initial_cash must be >= 0")
	}
	if c.Game.TokenValue <= 0 {
		return errors.New("game.token_value must be > 0")
	}
	if c.Game.LedgerCapacity < 1 {
		return errors.New("game.ledger_capacity must be >= 1")
	}
	if len(c.Game.Securities) == 0 {
		return errors.New("game.securities must not be empty")
	}
	seen := make(map[string]struct{}, len(c.Game.Securities))
	for i, s := range c.Game.Securities {
		if s.ID == "" {
			return fmt.Errorf("game.securities[%d].id is required", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("game.securities[%d].id %q is duplicated", i, s.ID)
		}
		seen[s.ID] = struct{}{}
		if s.Price < minSecurityPrice {
			return fmt.Errorf("game.securities[%d].price must be >= %d", i, minSecurityPrice)
		}
	}

	minD, err := parseInterval("cadence.game_min_interval", c.Cadence.GameMinInterval)
	if err != nil {
		return err
	}
	maxD, err := parseInterval("cadence.game_max_interval", c.Cadence.GameMaxInterval)
	if err != nil {
		return err
	}
	if _, err := parseInterval("cadence.test_interval", c.Cadence.TestInterval); err != nil {
		return err
	}
	if minD > maxD {
		return fmt.Errorf("cadence.game_min_interval (%s) cannot exceed game_max_interval (%s)", minD, maxD)
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func parseInterval(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be > 0", field)
	}
	return d, nil
}
