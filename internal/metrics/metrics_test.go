package metrics

import (
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	marketview "github.com/zappabad/actibourse/internal/market/view"
	"github.com/zappabad/actibourse/internal/team"
	"github.com/zappabad/actibourse/internal/trade"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_Exposition(t *testing.T) {
	m := New()

	m.ObserveTrade(trade.Receipt{Side: trade.SideBuy})
	m.ObserveTrade(trade.Receipt{Side: trade.SideBuy})
	m.ObserveTrade(trade.Receipt{Side: trade.SideSell})
	m.ObserveRejection(&trade.InsufficientFundsError{})
	m.ObservePriceUpdate(marketview.MarketSnapshot{Securities: []marketview.SecurityView{
		{ID: "opinel", Price: decimal.RequireFromString("52.5")},
	}})
	m.ObserveValuations([]team.View{{ID: "team1", Valuation: decimal.NewFromInt(600)}})

	body := scrape(t, m)
	assert.Contains(t, body, `actibourse_trades_total{side="buy"} 2`)
	assert.Contains(t, body, `actibourse_trades_total{side="sell"} 1`)
	assert.Contains(t, body, `actibourse_trade_rejections_total{reason="insufficient_funds"} 1`)
	assert.Contains(t, body, "actibourse_price_updates_total 1")
	assert.Contains(t, body, `actibourse_security_price{security="opinel"} 52.5`)
	assert.Contains(t, body, `actibourse_team_valuation{team="team1"} 600`)
}

type teamList []team.View

func (l teamList) Teams() ([]team.View, error) { return l, nil }

func TestSessionObserver_RefreshesValuations(t *testing.T) {
	m := New()
	teams := teamList{
		{ID: "team1", Valuation: decimal.NewFromInt(500)},
		{ID: "team2", Valuation: decimal.RequireFromString("487.5")},
	}

	obs := m.SessionObserver(teams)
	obs.ObservePriceUpdate(marketview.MarketSnapshot{Securities: []marketview.SecurityView{
		{ID: "benco", Price: decimal.NewFromInt(45)},
	}})

	body := scrape(t, m)
	assert.Contains(t, body, "actibourse_price_updates_total 1")
	assert.Contains(t, body, `actibourse_security_price{security="benco"} 45`)
	assert.Contains(t, body, `actibourse_team_valuation{team="team1"} 500`)
	assert.Contains(t, body, `actibourse_team_valuation{team="team2"} 487.5`)

	teams[0].Valuation = decimal.NewFromInt(620)
	obs.ObservePriceUpdate(marketview.MarketSnapshot{})

	body = scrape(t, m)
	assert.Contains(t, body, "actibourse_price_updates_total 2")
	assert.Contains(t, body, `actibourse_team_valuation{team="team1"} 620`)
}

func TestRejectReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{trade.ErrInvalidQuantity, "invalid_request"},
		{fmt.Errorf("wrapped: %w", trade.ErrInvalidSide), "invalid_request"},
		{&trade.InsufficientHoldingsError{Requested: 2}, "insufficient_holdings"},
		{team.ErrUnknownTeam, "unknown_entity"},
		{io.EOF, "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RejectReason(tt.err), "%v", tt.err)
	}
}
