package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/market"
	marketview "github.com/zappabad/actibourse/internal/market/view"
	"github.com/zappabad/actibourse/internal/trade"
)

func TestHistoryCandles(t *testing.T) {
	if got := HistoryCandles(nil); got != nil {
		t.Fatalf("HistoryCandles(nil) = %v, want nil", got)
	}

	flat := HistoryCandles([]decimal.Decimal{decimal.NewFromInt(50)})
	if len(flat) != 1 || flat[0].Open != 50 || flat[0].Close != 50 {
		t.Fatalf("single price candles = %+v", flat)
	}

	hist := []decimal.Decimal{
		decimal.NewFromInt(50),
		decimal.RequireFromString("55.5"),
		decimal.NewFromInt(40),
	}
	candles := HistoryCandles(hist)
	if len(candles) != 2 {
		t.Fatalf("len(candles) = %d, want 2", len(candles))
	}
	if c := candles[0]; c.Open != 50 || c.Close != 55.5 || c.High != 55.5 || c.Low != 50 {
		t.Errorf("candles[0] = %+v", c)
	}
	if c := candles[1]; c.Open != 55.5 || c.Close != 40 || c.High != 55.5 || c.Low != 40 {
		t.Errorf("candles[1] = %+v", c)
	}
}

func TestChartPanel_Label(t *testing.T) {
	p := NewChartPanel()
	p.SetSize(80, 20)
	p.SetSecurity(marketview.SecurityView{
		ID:            "benco",
		Name:          "Benco",
		InitialPrice:  decimal.NewFromInt(50),
		Price:         decimal.NewFromInt(45),
		Change:        decimal.NewFromInt(-5),
		ChangePercent: decimal.NewFromInt(-10),
		History:       []decimal.Decimal{decimal.NewFromInt(50), decimal.NewFromInt(45)},
	})

	out := p.View()
	for _, want := range []string{"Benco", "Last 45.00", "Chg -5.00 (-10.00%)", "Start 50.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart view missing %q", want)
		}
	}
}

func keyMsg(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func typeText(p *OrderInputPanel, s string) *OrderInputPanel {
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return p
}

func TestOrderInput_SubmitsTrade(t *testing.T) {
	teams := []TeamOption{{ID: "team1", Name: "Team 1"}, {ID: "team2", Name: "Team 2"}}
	secs := []market.Security{
		{ID: "montblanc", Name: "Mont Blanc", InitialPrice: decimal.NewFromInt(50)},
		{ID: "opinel", Name: "Opinel", InitialPrice: decimal.NewFromInt(50)},
	}
	p := NewOrderInputPanel(teams, secs)
	p.SetFocus(true)

	p, _ = p.Update(keyMsg(tea.KeyRight)) // Team 2
	p, _ = p.Update(keyMsg(tea.KeyDown))  // security
	p = typeText(p, "opi")
	p, _ = p.Update(keyMsg(tea.KeyDown))  // side
	p, _ = p.Update(keyMsg(tea.KeyRight)) // SELL
	p, _ = p.Update(keyMsg(tea.KeyDown))  // quantity
	p = typeText(p, "3")
	p, _ = p.Update(keyMsg(tea.KeyDown)) // submit

	p, cmd := p.Update(keyMsg(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	msg, ok := cmd().(OrderSubmitMsg)
	if !ok {
		t.Fatalf("unexpected message %T", cmd())
	}
	if msg.Team != "team2" || msg.Security.ID != "opinel" || msg.Side != trade.SideSell || msg.Quantity != 3 {
		t.Errorf("OrderSubmitMsg = %+v", msg)
	}
	_ = p
}

func TestOrderInput_DropdownBox(t *testing.T) {
	secs := []market.Security{
		{ID: "montblanc", Name: "Mont Blanc", InitialPrice: decimal.NewFromInt(50)},
		{ID: "opinel", Name: "Opinel", InitialPrice: decimal.NewFromInt(50)},
	}
	p := NewOrderInputPanel([]TeamOption{{ID: "team1", Name: "Team 1"}}, secs)
	p.SetSize(60, 30)
	p.SetFocus(true)
	p, _ = p.Update(keyMsg(tea.KeyDown)) // security
	boxes := strings.Count(p.View(), "┌")

	p = typeText(p, "opi")
	out := p.View()
	if !strings.Contains(out, "Opinel") {
		t.Errorf("dropdown missing match:\n%s", out)
	}
	if got := strings.Count(out, "┌"); got != boxes+1 {
		t.Errorf("box corners = %d, want %d", got, boxes+1)
	}
}

func TestOrderInput_RejectsIncompleteTrade(t *testing.T) {
	p := NewOrderInputPanel([]TeamOption{{ID: "team1", Name: "Team 1"}}, nil)
	p.SetFocus(true)
	if cmd := p.submitOrder(); cmd != nil {
		t.Error("submit without security should do nothing")
	}

	p.SetSecurity(market.Security{ID: "opinel", Name: "Opinel"})
	p.quantityInput.SetValue("-2")
	if cmd := p.submitOrder(); cmd != nil {
		t.Error("submit with negative quantity should do nothing")
	}
}
