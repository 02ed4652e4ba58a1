package tui

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/zappabad/actibourse/internal/game"
	"github.com/zappabad/actibourse/internal/metrics"
	"github.com/zappabad/actibourse/internal/trade"
	"github.com/zappabad/actibourse/tui/panels"
)

type constRand float64

func (c constRand) Float64() float64 { return float64(c) }

func newTestModel(t *testing.T) (*Model, *game.Session) {
	t.Helper()
	sess, err := game.NewSession(game.DefaultConfig(), game.WithRand(constRand(0.5)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return NewModel(sess, nil, nil), sess
}

func press(m *Model, t tea.KeyType) {
	m.Update(tea.KeyMsg{Type: t})
}

func TestModel_LifecycleKeys(t *testing.T) {
	m, sess := newTestModel(t)

	press(m, tea.KeyCtrlS)
	if !sess.IsRunning() {
		t.Fatal("ctrl+s should start the game")
	}

	press(m, tea.KeyCtrlS)
	if !strings.Contains(m.statusMsg, "already running") {
		t.Errorf("statusMsg = %q, want an already running error", m.statusMsg)
	}

	press(m, tea.KeyCtrlT)
	if sess.IsTestMode() {
		t.Error("ctrl+t should switch to game mode")
	}

	press(m, tea.KeyCtrlP)
	if sess.Status().State != game.StatePaused {
		t.Errorf("state = %s, want paused", sess.Status().State)
	}

	press(m, tea.KeyCtrlR)
	if sess.Status().State != game.StateStopped {
		t.Errorf("state = %s, want stopped", sess.Status().State)
	}
	if got := len(sess.Ledger(0)); got != 1 {
		t.Errorf("ledger after reset has %d entries, want 1", got)
	}
}

func TestModel_SubmitOrder(t *testing.T) {
	m, sess := newTestModel(t)
	secs := sess.Registry().Securities()

	msg := m.submitOrder(panels.OrderSubmitMsg{Team: "team1", Security: secs[0], Side: trade.SideBuy, Quantity: 2})()
	res, ok := msg.(orderResultMsg)
	if !ok || !strings.HasPrefix(res.message, "✓") {
		t.Fatalf("unexpected result %#v", msg)
	}

	msg = m.submitOrder(panels.OrderSubmitMsg{Team: "team1", Security: secs[0], Side: trade.SideSell, Quantity: 5})()
	res = msg.(orderResultMsg)
	if !strings.Contains(res.message, "insufficient holdings") {
		t.Errorf("message = %q", res.message)
	}

	v, err := sess.Team("team1")
	if err != nil {
		t.Fatal(err)
	}
	if v.Holdings[secs[0].ID] != 2 {
		t.Errorf("holdings = %d, want 2", v.Holdings[secs[0].ID])
	}
}

func TestModel_ManualUpdateRefreshesValuations(t *testing.T) {
	sess, err := game.NewSession(game.DefaultConfig(), game.WithRand(constRand(0.5)))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	mx := metrics.New()
	m := NewModel(sess, nil, mx)
	secs := sess.Registry().Securities()

	// 5 shares of pressure pull the next price from 50 to 45
	m.submitOrder(panels.OrderSubmitMsg{Team: "team1", Security: secs[0], Side: trade.SideBuy, Quantity: 5})()
	press(m, tea.KeyCtrlU)

	rec := httptest.NewRecorder()
	mx.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"actibourse_price_updates_total 1",
		`actibourse_team_valuation{team="team1"} 475`,
		`actibourse_team_valuation{team="team2"} 500`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("View before resize = %q", got)
	}

	m.Update(tea.WindowSizeMsg{Width: 160, Height: 48})
	out := m.View()
	for _, want := range []string{"Market", "Leaderboard", "Ledger", "Trade Entry", "STOPPED"} {
		if !strings.Contains(out, want) {
			t.Errorf("View missing %q", want)
		}
	}
}

func TestFormatElapsed(t *testing.T) {
	if got := formatElapsed(3725e9); got != "01:02:05" {
		t.Errorf("formatElapsed = %q, want 01:02:05", got)
	}
}
