package trade

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/ledger"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/team"
)

// Side is the direction of a trade from the team's point of view.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// ParseSide accepts "buy"/"sell" in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return 0, ErrInvalidSide
	}
}

// MarshalText renders the side in lower case.
func (s Side) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// Receipt describes an executed trade.
type Receipt struct {
	Team     team.TeamID       `json:"team"`
	Security market.SecurityID `json:"security"`
	Side     Side              `json:"side"`
	Quantity int64             `json:"quantity"`
	Price    decimal.Decimal   `json:"price"`
	// Amount is the cost of a buy or the proceeds of a sell.
	Amount decimal.Decimal `json:"amount"`
	// Cash is the team's balance after the trade.
	Cash  decimal.Decimal `json:"cash"`
	Entry ledger.Entry    `json:"entry"`
}
