package game

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/cadence"
	ledgerview "github.com/zappabad/actibourse/internal/ledger/view"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/team"
)

// Config holds everything needed to build a session.
type Config struct {
	Teams          int
	InitialCash    decimal.Decimal
	Securities     []market.Security
	TestMode       bool
	TokenValue     decimal.Decimal
	LedgerCapacity int
	Cadence        cadence.Config
}

// DefaultConfig returns the standard classroom setup: five teams with 500
// points each and eight brands priced at 50.
func DefaultConfig() Config {
	fifty := decimal.NewFromInt(50)
	return Config{
		Teams:       5,
		InitialCash: decimal.NewFromInt(500),
		Securities: []market.Security{
			{ID: "montblanc", Name: "Mont Blanc", InitialPrice: fifty},
			{ID: "monster", Name: "Monster", InitialPrice: fifty},
			{ID: "benco", Name: "Benco", InitialPrice: fifty},
			{ID: "opinel", Name: "Opinel", InitialPrice: fifty},
			{ID: "quechua", Name: "Quechua", InitialPrice: fifty},
			{ID: "redbull", Name: "Red Bull", InitialPrice: fifty},
			{ID: "patagonia", Name: "Patagonia", InitialPrice: fifty},
			{ID: "salomon", Name: "Salomon", InitialPrice: fifty},
		},
		TestMode:       true,
		TokenValue:     team.DefaultTokenValue,
		LedgerCapacity: ledgerview.DefaultCapacity,
		Cadence:        cadence.DefaultConfig(),
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.Teams <= 0 {
		return fmt.Errorf("teams must be positive, got %d", c.Teams)
	}
	if c.InitialCash.IsNegative() {
		return errors.New("initial cash must not be negative")
	}
	if len(c.Securities) == 0 {
		return errors.New("at least one security is required")
	}
	for _, sec := range c.Securities {
		if sec.InitialPrice.LessThan(market.PriceFloor) {
			return fmt.Errorf("security %q: initial price %s is below the floor of %s",
				sec.ID, sec.InitialPrice.String(), market.PriceFloor.String())
		}
	}
	if !c.TokenValue.IsPositive() {
		return errors.New("token value must be positive")
	}
	if c.LedgerCapacity <= 0 {
		return fmt.Errorf("ledger capacity must be positive, got %d", c.LedgerCapacity)
	}
	return nil
}
