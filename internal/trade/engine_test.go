package trade

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zappabad/actibourse/internal/ledger"
	ledgerview "github.com/zappabad/actibourse/internal/ledger/view"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/market/core"
	"github.com/zappabad/actibourse/internal/team"
)

type fixture struct {
	engine   *Engine
	market   *core.Market
	teams    *team.Store
	pressure *core.Pressure
	ledger   *ledgerview.Ledger
}

func newFixture(t *testing.T, cash int64) fixture {
	t.Helper()
	m := core.New([]market.Security{
		{ID: "montblanc", Name: "Mont Blanc", InitialPrice: decimal.NewFromInt(50)},
		{ID: "benco", Name: "Benco", InitialPrice: decimal.RequireFromString("12.35")},
	})
	teams := team.NewStore(2, decimal.NewFromInt(cash), m.IDs())
	p := core.NewPressure(m.IDs())
	l := ledgerview.NewLedger(ledgerview.DefaultCapacity, nil)
	return fixture{
		engine:   NewEngine(m, teams, p, l),
		market:   m,
		teams:    teams,
		pressure: p,
		ledger:   l,
	}
}

func (f fixture) team(t *testing.T, id team.TeamID) *team.Team {
	t.Helper()
	tm, err := f.teams.Get(id)
	require.NoError(t, err)
	return tm
}

func TestBuyConservation(t *testing.T) {
	f := newFixture(t, 500)

	r, err := f.engine.Buy("team1", "montblanc", 5)
	require.NoError(t, err)

	assert.True(t, r.Amount.Equal(decimal.NewFromInt(250)))
	assert.True(t, r.Price.Equal(decimal.NewFromInt(50)))
	assert.True(t, r.Cash.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, SideBuy, r.Side)

	tm := f.team(t, "team1")
	assert.True(t, tm.Cash.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, int64(5), tm.Holding("montblanc"))
	assert.Equal(t, int64(5), f.pressure.Get("montblanc"))

	entries := f.ledger.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, ledger.KindBuy, entries[0].Kind)
	assert.Equal(t, "Team 1 buys 5 Mont Blanc for 250.00 points", entries[0].Message)
	assert.Equal(t, entries[0].ID, r.Entry.ID)
}

func TestBuyExactCash(t *testing.T) {
	f := newFixture(t, 100)

	_, err := f.engine.Buy("team2", "montblanc", 2)
	require.NoError(t, err)
	assert.True(t, f.team(t, "team2").Cash.IsZero())
}

func TestBuyFractionalPriceIsExact(t *testing.T) {
	f := newFixture(t, 100)

	r, err := f.engine.Buy("team1", "benco", 3)
	require.NoError(t, err)
	assert.Equal(t, "37.05", r.Amount.StringFixed(2))
	assert.True(t, f.team(t, "team1").Cash.Equal(decimal.RequireFromString("62.95")))
}

func TestBuyInsufficientFundsLeavesStateIntact(t *testing.T) {
	f := newFixture(t, 100)

	_, err := f.engine.Buy("team1", "montblanc", 3)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	var fundsErr *InsufficientFundsError
	require.True(t, errors.As(err, &fundsErr))
	assert.True(t, fundsErr.Required.Equal(decimal.NewFromInt(150)))
	assert.True(t, fundsErr.Available.Equal(decimal.NewFromInt(100)))

	tm := f.team(t, "team1")
	assert.True(t, tm.Cash.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, int64(0), tm.Holding("montblanc"))
	assert.Equal(t, int64(0), f.pressure.Get("montblanc"))
	assert.Equal(t, 0, f.ledger.Len())
}

func TestSellConservation(t *testing.T) {
	f := newFixture(t, 500)
	_, err := f.engine.Buy("team1", "montblanc", 4)
	require.NoError(t, err)
	require.NoError(t, f.market.SetPrice("montblanc", decimal.NewFromInt(60)))

	r, err := f.engine.Sell("team1", "montblanc", 3)
	require.NoError(t, err)

	assert.True(t, r.Amount.Equal(decimal.NewFromInt(180)))
	tm := f.team(t, "team1")
	assert.True(t, tm.Cash.Equal(decimal.NewFromInt(480)))
	assert.Equal(t, int64(1), tm.Holding("montblanc"))
	assert.Equal(t, int64(1), f.pressure.Get("montblanc"))

	entries := f.ledger.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, ledger.KindSell, entries[0].Kind)
	assert.Equal(t, "Team 1 sells 3 Mont Blanc for 180.00 points", entries[0].Message)
}

func TestSellPressureFloorsAtZero(t *testing.T) {
	f := newFixture(t, 500)
	_, err := f.engine.Buy("team1", "montblanc", 2)
	require.NoError(t, err)
	_, err = f.engine.Buy("team2", "montblanc", 2)
	require.NoError(t, err)

	// another team's sell drains the shared counter
	f.pressure.Release("montblanc", 3)
	_, err = f.engine.Sell("team2", "montblanc", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.pressure.Get("montblanc"))
}

func TestSellInsufficientHoldingsLeavesStateIntact(t *testing.T) {
	f := newFixture(t, 500)
	_, err := f.engine.Buy("team1", "montblanc", 2)
	require.NoError(t, err)

	_, err = f.engine.Sell("team1", "montblanc", 3)
	require.Error(t, err)
	var holdErr *InsufficientHoldingsError
	require.True(t, errors.As(err, &holdErr))
	assert.Equal(t, int64(3), holdErr.Requested)
	assert.Equal(t, int64(2), holdErr.Available)
	assert.True(t, errors.Is(err, ErrInsufficientHoldings))

	tm := f.team(t, "team1")
	assert.True(t, tm.Cash.Equal(decimal.NewFromInt(400)))
	assert.Equal(t, int64(2), tm.Holding("montblanc"))
	assert.Equal(t, int64(2), f.pressure.Get("montblanc"))
	assert.Equal(t, 1, f.ledger.Len())
}

func TestInvalidRequests(t *testing.T) {
	f := newFixture(t, 500)

	tests := []struct {
		name string
		side Side
		team team.TeamID
		sec  market.SecurityID
		qty  int64
		want error
	}{
		{"zero quantity", SideBuy, "team1", "montblanc", 0, ErrInvalidQuantity},
		{"negative quantity", SideSell, "team1", "montblanc", -2, ErrInvalidQuantity},
		{"unknown team", SideBuy, "team7", "montblanc", 1, team.ErrUnknownTeam},
		{"unknown security", SideSell, "team1", "redbull", 1, market.ErrUnknownSecurity},
		{"bad side", Side(7), "team1", "montblanc", 1, ErrInvalidSide},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.engine.Submit(tt.side, tt.team, tt.sec, tt.qty)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	tm := f.team(t, "team1")
	assert.True(t, tm.Cash.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, 0, f.ledger.Len())
}

func TestUnknownEntityFamily(t *testing.T) {
	f := newFixture(t, 500)

	_, err := f.engine.Buy("nobody", "montblanc", 1)
	assert.True(t, errors.Is(err, market.ErrUnknownEntity))
	_, err = f.engine.Buy("team1", "nothing", 1)
	assert.True(t, errors.Is(err, market.ErrUnknownEntity))
}

func TestAdjust(t *testing.T) {
	f := newFixture(t, 100)

	cash, err := f.engine.Adjust("team1", decimal.NewFromInt(25))
	require.NoError(t, err)
	assert.True(t, cash.Equal(decimal.NewFromInt(125)))
	assert.Equal(t, "Team 1: +25.00 points", f.ledger.Entries()[0].Message)

	cash, err = f.engine.Adjust("team1", decimal.NewFromInt(-500))
	require.NoError(t, err)
	assert.True(t, cash.IsZero())
	assert.Equal(t, "Team 1: -500.00 points", f.ledger.Entries()[0].Message)

	_, err = f.engine.Adjust("team1", decimal.Zero)
	assert.True(t, errors.Is(err, ErrInvalidAmount))
	_, err = f.engine.Adjust("team9", decimal.NewFromInt(1))
	assert.True(t, errors.Is(err, team.ErrUnknownTeam))
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" Buy ")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, s)
	s, err = ParseSide("SELL")
	require.NoError(t, err)
	assert.Equal(t, SideSell, s)
	_, err = ParseSide("hold")
	assert.ErrorIs(t, err, ErrInvalidSide)
}
