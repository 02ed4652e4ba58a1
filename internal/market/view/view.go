package view

import (
	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/market"
)

// SecurityView is a point-in-time copy of one security's price state.
type SecurityView struct {
	ID            market.SecurityID `json:"id"`
	Name          string            `json:"name"`
	InitialPrice  decimal.Decimal   `json:"initialPrice"`
	Price         decimal.Decimal   `json:"price"`
	PreviousPrice decimal.Decimal   `json:"previousPrice"`
	Change        decimal.Decimal   `json:"change"`
	ChangePercent decimal.Decimal   `json:"changePercent"`
	History       []decimal.Decimal `json:"history"`
}

// Trend reports the sign of the last change: 1 up, -1 down, 0 flat.
func (v SecurityView) Trend() int {
	return v.Change.Sign()
}

// MarketSnapshot is a point-in-time snapshot of all securities in registry order.
type MarketSnapshot struct {
	Securities []SecurityView `json:"securities"`
}

// Find returns the view for id, if present.
func (s MarketSnapshot) Find(id market.SecurityID) (SecurityView, bool) {
	for _, v := range s.Securities {
		if v.ID == id {
			return v, true
		}
	}
	return SecurityView{}, false
}
