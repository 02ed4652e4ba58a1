package game

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zappabad/actibourse/internal/ledger"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/team"
	"github.com/zappabad/actibourse/internal/trade"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func newTestSession(t *testing.T) (*Session, *fakeNow) {
	t.Helper()
	now := newFakeNow()
	s, err := NewSession(DefaultConfig(), WithRand(constRand(0.5)), WithClock(now.Now))
	require.NoError(t, err)
	return s, now
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewSession_Defaults(t *testing.T) {
	s, _ := newTestSession(t)

	snap := s.MarketSnapshot()
	require.Len(t, snap.Securities, 8)
	for _, v := range snap.Securities {
		assert.True(t, v.Price.Equal(dec("50")), "%s price %s", v.ID, v.Price)
	}

	teams, err := s.Teams()
	require.NoError(t, err)
	require.Len(t, teams, 5)
	for _, v := range teams {
		assert.True(t, v.Cash.Equal(dec("500")))
		assert.Equal(t, int64(50), v.Tokens)
		for _, id := range s.Registry().IDs() {
			assert.Zero(t, v.Holdings[id])
		}
	}

	st := s.Status()
	assert.Equal(t, StateStopped, st.State)
	assert.True(t, st.TestMode)
	assert.Empty(t, s.Ledger(0))
}

func TestNewSession_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Teams = 0
	_, err := NewSession(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.Securities = append(cfg.Securities, cfg.Securities[0])
	_, err = NewSession(cfg)
	require.Error(t, err)

	cfg = DefaultConfig()
	cfg.Securities = append(cfg.Securities, market.Security{ID: "cheap", Name: "Cheap", InitialPrice: dec("5")})
	require.Error(t, cfg.Validate())
	_, err = NewSession(cfg)
	require.Error(t, err)
}

func TestSession_BuyThenRevalue(t *testing.T) {
	s, _ := newTestSession(t)

	r, err := s.Buy("team1", "montblanc", 5)
	require.NoError(t, err)
	assert.True(t, r.Amount.Equal(dec("250")))
	assert.True(t, r.Cash.Equal(dec("250")))

	_, err = s.OverridePrice("montblanc", dec("70"))
	require.NoError(t, err)

	v, err := s.Team("team1")
	require.NoError(t, err)
	assert.True(t, v.Cash.Equal(dec("250")))
	assert.Equal(t, int64(5), v.Holdings["montblanc"])
	assert.True(t, v.Valuation.Equal(dec("600")), "valuation %s", v.Valuation)
	assert.Equal(t, int64(60), v.Tokens)

	board, err := s.Leaderboard()
	require.NoError(t, err)
	assert.Equal(t, team.TeamID("team1"), board[0].ID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, 2, board[1].Rank)
	assert.Equal(t, 2, board[4].Rank)

	entries := s.Ledger(0)
	require.Len(t, entries, 2)
	assert.Equal(t, "Mont Blanc price set to 70.00", entries[0].Message)
	assert.Equal(t, "Team 1 buys 5 Mont Blanc for 250.00 points", entries[1].Message)
}

func TestSession_RejectedTradeChangesNothing(t *testing.T) {
	s, _ := newTestSession(t)

	_, err := s.Buy("team1", "opinel", 2)
	require.NoError(t, err)
	before, err := s.Team("team1")
	require.NoError(t, err)

	_, err = s.Sell("team1", "opinel", 3)
	require.ErrorIs(t, err, trade.ErrInsufficientHoldings)
	_, err = s.Buy("team1", "opinel", 100)
	require.ErrorIs(t, err, trade.ErrInsufficientFunds)
	_, err = s.Buy("team9", "opinel", 1)
	require.ErrorIs(t, err, team.ErrUnknownTeam)
	_, err = s.Buy("team1", "nope", 1)
	require.ErrorIs(t, err, market.ErrUnknownSecurity)

	after, err := s.Team("team1")
	require.NoError(t, err)
	assert.True(t, before.Cash.Equal(after.Cash))
	assert.True(t, before.Valuation.Equal(after.Valuation))
	assert.Equal(t, before.Holdings, after.Holdings)
	assert.Len(t, s.Ledger(0), 1)
}

func TestSession_ExactCashBuy(t *testing.T) {
	s, _ := newTestSession(t)

	r, err := s.Buy("team2", "redbull", 10)
	require.NoError(t, err)
	assert.True(t, r.Cash.IsZero())

	_, err = s.Buy("team2", "redbull", 1)
	var funds *trade.InsufficientFundsError
	require.True(t, errors.As(err, &funds))
	assert.True(t, funds.Available.IsZero())
}

func TestSession_UpdatePricesDoesNotLog(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Buy("team1", "quechua", 5)
	require.NoError(t, err)

	snap := s.UpdatePrices()
	v, ok := snap.Find("quechua")
	require.True(t, ok)
	// neutral draw, influence 5/50 = 0.1
	assert.True(t, v.Price.Equal(dec("45")), "price %s", v.Price)
	assert.Len(t, s.Ledger(0), 1)
}

func TestSession_Lifecycle(t *testing.T) {
	s, now := newTestSession(t)

	require.ErrorIs(t, s.Pause(), ErrInvalidTransition)
	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	require.ErrorIs(t, s.Start(), ErrInvalidTransition)

	now.Advance(42 * time.Second)
	assert.Equal(t, 42*time.Second, s.Elapsed())

	require.NoError(t, s.Pause())
	assert.Equal(t, StatePaused, s.Status().State)

	assert.True(t, s.SetTestMode(false))
	assert.False(t, s.SetTestMode(false))
	assert.False(t, s.IsTestMode())

	entries := s.Ledger(0)
	require.Len(t, entries, 3)
	assert.Equal(t, "Switched to game mode", entries[0].Message)
	assert.Equal(t, "Game paused", entries[1].Message)
	assert.Equal(t, "Game started in test mode", entries[2].Message)
	for _, e := range entries {
		assert.Equal(t, ledger.KindSystem, e.Kind)
	}
}

func TestSession_ResetRestoresInitialState(t *testing.T) {
	s, _ := newTestSession(t)

	require.NoError(t, s.Start())
	_, err := s.Buy("team3", "benco", 4)
	require.NoError(t, err)
	_, err = s.AdjustCash("team4", dec("-1000"))
	require.NoError(t, err)
	s.UpdatePrices()
	s.SetTestMode(false)

	s.Reset()

	st := s.Status()
	assert.Equal(t, StateStopped, st.State)
	assert.Nil(t, st.StartedAt)
	assert.False(t, st.TestMode)

	for _, v := range s.MarketSnapshot().Securities {
		assert.True(t, v.Price.Equal(dec("50")))
		assert.Len(t, v.History, 1)
	}
	teams, err := s.Teams()
	require.NoError(t, err)
	for _, v := range teams {
		assert.True(t, v.Cash.Equal(dec("500")))
		assert.Zero(t, v.Holdings["benco"])
	}

	entries := s.Ledger(0)
	require.Len(t, entries, 1)
	assert.Equal(t, "Game reset", entries[0].Message)

	// pressure cleared: a neutral update leaves prices unchanged
	for _, v := range s.UpdatePrices().Securities {
		assert.True(t, v.Price.Equal(dec("50")))
	}
}

func TestSession_AdjustCashFloorsAtZero(t *testing.T) {
	s, _ := newTestSession(t)

	cash, err := s.AdjustCash("team1", dec("-600"))
	require.NoError(t, err)
	assert.True(t, cash.IsZero())

	cash, err = s.AdjustCash("team1", dec("25"))
	require.NoError(t, err)
	assert.True(t, cash.Equal(dec("25")))

	_, err = s.AdjustCash("team1", decimal.Zero)
	require.ErrorIs(t, err, trade.ErrInvalidAmount)
}

func TestSession_ConcurrentTrades(t *testing.T) {
	cfg := DefaultConfig()
	cfg.InitialCash = dec("10000")
	s, err := NewSession(cfg, WithRand(constRand(0.5)))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Buy("team1", "salomon", 1)
			s.UpdatePrices()
		}()
	}
	wg.Wait()

	v, err := s.Team("team1")
	require.NoError(t, err)
	assert.Equal(t, int64(20), v.Holdings["salomon"])
	assert.Len(t, s.Ledger(0), 20)
}
