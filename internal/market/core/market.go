package core

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/market/view"
)

// HistoryCapacity is the number of prices kept per security.
const HistoryCapacity = 100

var (
	// PriceFloor is the lowest price any security can reach.
	PriceFloor = market.PriceFloor

	// Investment pressure is divided by this and capped at maxInfluence.
	pressureDamping = decimal.NewFromInt(50)
	maxInfluence    = decimal.NewFromFloat(0.15)

	// Random variation is (r - 0.5) * amplitude, i.e. [-20%, +20%).
	amplitude = decimal.NewFromFloat(0.4)
	half      = decimal.NewFromFloat(0.5)
	hundred   = decimal.NewFromInt(100)
)

// RandSource is the randomness UpdatePrices draws from. *rand.Rand satisfies it.
type RandSource interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
}

type quote struct {
	sec           market.Security
	price         decimal.Decimal
	previousPrice decimal.Decimal
	change        decimal.Decimal
	changePercent decimal.Decimal
	history       *PriceTape
}

func (q *quote) reset() {
	q.price = q.sec.InitialPrice
	q.previousPrice = q.sec.InitialPrice
	q.change = decimal.Zero
	q.changePercent = decimal.Zero
	q.history.Reset(q.sec.InitialPrice)
}

// record moves the quote to next and derives change fields from the old price.
func (q *quote) record(next decimal.Decimal) {
	q.previousPrice = q.price
	q.price = next
	q.change = next.Sub(q.previousPrice)
	// previousPrice >= PriceFloor > 0
	q.changePercent = q.change.Div(q.previousPrice).Mul(hundred)
	q.history.Append(next)
}

func (q *quote) view() view.SecurityView {
	return view.SecurityView{
		ID:            q.sec.ID,
		Name:          q.sec.Name,
		InitialPrice:  q.sec.InitialPrice,
		Price:         q.price,
		PreviousPrice: q.previousPrice,
		Change:        q.change,
		ChangePercent: q.changePercent,
		History:       q.history.Values(),
	}
}

// Market holds live price state for every registered security.
// It is not safe for concurrent use; the owning session serializes access.
type Market struct {
	order  []market.SecurityID
	quotes map[market.SecurityID]*quote
}

// New creates a market with every security at its initial price.
func New(securities []market.Security) *Market {
	m := &Market{}
	m.Reset(securities)
	return m
}

// Reset puts every security back to its initial price with a one-entry history.
func (m *Market) Reset(securities []market.Security) {
	m.order = make([]market.SecurityID, 0, len(securities))
	m.quotes = make(map[market.SecurityID]*quote, len(securities))
	for _, s := range securities {
		q := &quote{sec: s, history: NewPriceTape(HistoryCapacity)}
		q.reset()
		m.order = append(m.order, s.ID)
		m.quotes[s.ID] = q
	}
}

// UpdatePrices moves every security by a random variation in [-20%, +20%),
// biased downward by accumulated buying pressure (at most 15%).
func (m *Market) UpdatePrices(p *Pressure, rnd RandSource) {
	for _, id := range m.order {
		q := m.quotes[id]

		influence := decimal.NewFromInt(p.Get(id)).Div(pressureDamping)
		if influence.GreaterThan(maxInfluence) {
			influence = maxInfluence
		}

		base := decimal.NewFromFloat(rnd.Float64()).Sub(half).Mul(amplitude)
		variation := base.Sub(influence)

		next := q.price.Mul(decimal.NewFromInt(1).Add(variation))
		q.record(clamp(next))
	}
}

// SetPrice forces a security to price, floored and rounded like a regular update.
func (m *Market) SetPrice(id market.SecurityID, price decimal.Decimal) error {
	q, ok := m.quotes[id]
	if !ok {
		return fmt.Errorf("%w %q", market.ErrUnknownSecurity, id)
	}
	q.record(clamp(price))
	return nil
}

// Price returns the current price of id.
func (m *Market) Price(id market.SecurityID) (decimal.Decimal, error) {
	q, ok := m.quotes[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %q", market.ErrUnknownSecurity, id)
	}
	return q.price, nil
}

// Security returns the registered definition of id.
func (m *Market) Security(id market.SecurityID) (market.Security, error) {
	q, ok := m.quotes[id]
	if !ok {
		return market.Security{}, fmt.Errorf("%w %q", market.ErrUnknownSecurity, id)
	}
	return q.sec, nil
}

// View returns a copy of one security's state.
func (m *Market) View(id market.SecurityID) (view.SecurityView, error) {
	q, ok := m.quotes[id]
	if !ok {
		return view.SecurityView{}, fmt.Errorf("%w %q", market.ErrUnknownSecurity, id)
	}
	return q.view(), nil
}

// IDs returns the security ids in registry order.
func (m *Market) IDs() []market.SecurityID {
	out := make([]market.SecurityID, len(m.order))
	copy(out, m.order)
	return out
}

// Snapshot returns a deep copy of the market in registry order.
func (m *Market) Snapshot() view.MarketSnapshot {
	snap := view.MarketSnapshot{
		Securities: make([]view.SecurityView, 0, len(m.order)),
	}
	for _, id := range m.order {
		snap.Securities = append(snap.Securities, m.quotes[id].view())
	}
	return snap
}

// clamp applies the price floor and rounds to cents.
func clamp(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(PriceFloor) {
		p = PriceFloor
	}
	return p.Round(2)
}
