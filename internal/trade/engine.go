package trade

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/ledger"
	ledgerview "github.com/zappabad/actibourse/internal/ledger/view"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/market/core"
	"github.com/zappabad/actibourse/internal/team"
)

// Engine validates and applies trades against the market and team store.
// Every check runs before the first mutation, so a failed call changes nothing.
type Engine struct {
	market   *core.Market
	teams    *team.Store
	pressure *core.Pressure
	ledger   *ledgerview.Ledger
}

// NewEngine wires an Engine over state owned by the caller.
func NewEngine(m *core.Market, teams *team.Store, pressure *core.Pressure, l *ledgerview.Ledger) *Engine {
	return &Engine{
		market:   m,
		teams:    teams,
		pressure: pressure,
		ledger:   l,
	}
}

// Submit dispatches to Buy or Sell.
func (e *Engine) Submit(side Side, teamID team.TeamID, secID market.SecurityID, qty int64) (Receipt, error) {
	switch side {
	case SideBuy:
		return e.Buy(teamID, secID, qty)
	case SideSell:
		return e.Sell(teamID, secID, qty)
	default:
		return Receipt{}, ErrInvalidSide
	}
}

// Buy spends cash on qty shares at the current price.
func (e *Engine) Buy(teamID team.TeamID, secID market.SecurityID, qty int64) (Receipt, error) {
	t, sec, price, err := e.resolve(teamID, secID, qty)
	if err != nil {
		return Receipt{}, err
	}

	cost := price.Mul(decimal.NewFromInt(qty))
	if t.Cash.LessThan(cost) {
		return Receipt{}, &InsufficientFundsError{Required: cost, Available: t.Cash}
	}

	t.Cash = t.Cash.Sub(cost)
	t.Holdings[secID] += qty
	e.pressure.Add(secID, qty)
	entry := e.ledger.Append(
		fmt.Sprintf("%s buys %d %s for %s points", t.Name, qty, sec.Name, cost.StringFixed(2)),
		ledger.KindBuy,
	)

	return Receipt{
		Team:     t.ID,
		Security: secID,
		Side:     SideBuy,
		Quantity: qty,
		Price:    price,
		Amount:   cost,
		Cash:     t.Cash,
		Entry:    entry,
	}, nil
}

// Sell converts qty owned shares to cash at the current price.
func (e *Engine) Sell(teamID team.TeamID, secID market.SecurityID, qty int64) (Receipt, error) {
	t, sec, price, err := e.resolve(teamID, secID, qty)
	if err != nil {
		return Receipt{}, err
	}

	owned := t.Holding(secID)
	if owned < qty {
		return Receipt{}, &InsufficientHoldingsError{Requested: qty, Available: owned}
	}

	proceeds := price.Mul(decimal.NewFromInt(qty))
	t.Cash = t.Cash.Add(proceeds)
	t.Holdings[secID] = owned - qty
	e.pressure.Release(secID, qty)
	entry := e.ledger.Append(
		fmt.Sprintf("%s sells %d %s for %s points", t.Name, qty, sec.Name, proceeds.StringFixed(2)),
		ledger.KindSell,
	)

	return Receipt{
		Team:     t.ID,
		Security: secID,
		Side:     SideSell,
		Quantity: qty,
		Price:    price,
		Amount:   proceeds,
		Cash:     t.Cash,
		Entry:    entry,
	}, nil
}

// Adjust adds a signed amount to a team's cash, flooring the balance at zero.
// It returns the new balance.
func (e *Engine) Adjust(teamID team.TeamID, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsZero() {
		return decimal.Zero, ErrInvalidAmount
	}
	t, err := e.teams.Get(teamID)
	if err != nil {
		return decimal.Zero, err
	}

	cash := t.Cash.Add(amount)
	if cash.IsNegative() {
		cash = decimal.Zero
	}
	t.Cash = cash

	sign := ""
	if amount.IsPositive() {
		sign = "+"
	}
	e.ledger.Append(fmt.Sprintf("%s: %s%s points", t.Name, sign, amount.StringFixed(2)), ledger.KindSystem)
	return cash, nil
}

func (e *Engine) resolve(teamID team.TeamID, secID market.SecurityID, qty int64) (*team.Team, market.Security, decimal.Decimal, error) {
	if qty <= 0 {
		return nil, market.Security{}, decimal.Zero, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	t, err := e.teams.Get(teamID)
	if err != nil {
		return nil, market.Security{}, decimal.Zero, err
	}
	sec, err := e.market.Security(secID)
	if err != nil {
		return nil, market.Security{}, decimal.Zero, err
	}
	price, err := e.market.Price(secID)
	if err != nil {
		return nil, market.Security{}, decimal.Zero, err
	}
	return t, sec, price, nil
}
