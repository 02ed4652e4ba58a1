package team

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/market"
)

// ErrUnknownTeam is returned for lookups of teams that do not exist.
var ErrUnknownTeam = fmt.Errorf("%w: team", market.ErrUnknownEntity)

// TeamID uniquely identifies a team.
type TeamID string

// Team is a participant holding cash and share positions.
type Team struct {
	ID       TeamID
	Name     string
	Cash     decimal.Decimal
	Holdings map[market.SecurityID]int64
}

// Holding returns the number of shares of id the team owns.
func (t *Team) Holding(id market.SecurityID) int64 {
	return t.Holdings[id]
}

// Pricer resolves the current price of a security.
type Pricer interface {
	Price(id market.SecurityID) (decimal.Decimal, error)
}

// View is a point-in-time copy of a team with its derived figures.
type View struct {
	ID        TeamID                      `json:"id"`
	Name      string                      `json:"name"`
	Cash      decimal.Decimal             `json:"cash"`
	Holdings  map[market.SecurityID]int64 `json:"holdings"`
	Valuation decimal.Decimal             `json:"valuation"`
	Tokens    int64                       `json:"tokens"`
}

// Standing is a team's place on the leaderboard.
type Standing struct {
	Rank int `json:"rank"`
	View
}
