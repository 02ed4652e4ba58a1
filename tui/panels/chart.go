package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	marketview "github.com/zappabad/actibourse/internal/market/view"
	"github.com/zappabad/actibourse/tui/styles"
)

// Candle is one price update drawn as a candlestick: it opens at the price
// before the update and closes at the price after it.
type Candle struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// HistoryCandles turns a price history into one candle per update.
// A history with a single price yields one flat candle.
func HistoryCandles(history []decimal.Decimal) []Candle {
	if len(history) == 0 {
		return nil
	}
	if len(history) == 1 {
		p := history[0].InexactFloat64()
		return []Candle{{Open: p, High: p, Low: p, Close: p}}
	}
	out := make([]Candle, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		o, c := history[i-1].InexactFloat64(), history[i].InexactFloat64()
		out = append(out, Candle{Open: o, High: max(o, c), Low: min(o, c), Close: c})
	}
	return out
}

// ChartPanel draws the price history of the selected security.
type ChartPanel struct {
	security marketview.SecurityView
	candles  []Candle

	focused bool
	width   int
	height  int
}

// NewChartPanel creates a new chart panel.
func NewChartPanel() *ChartPanel {
	return &ChartPanel{}
}

// Init initializes the panel.
func (p *ChartPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *ChartPanel) Update(msg tea.Msg) (*ChartPanel, tea.Cmd) {
	return p, nil
}

// View renders the panel.
func (p *ChartPanel) View() string {
	name := "No security"
	if p.security.Name != "" {
		name = p.security.Name
	}

	var content strings.Builder
	chartHeight := p.height - 6
	if chartHeight < 5 {
		chartHeight = 5
	}

	if len(p.candles) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No price history yet..."))
	} else {
		content.WriteString(p.renderLabel())
		content.WriteString("\n")
		content.WriteString(p.renderChart(p.width-12, chartHeight-1))
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle(fmt.Sprintf("📉 Chart - %s", name), p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *ChartPanel) renderChart(width, height int) string {
	// 9 chars of price axis plus separator; 2 chars per candle
	columns := (width - 10) / 2
	if columns < 1 {
		columns = 1
	}
	candles := p.candles
	if len(candles) > columns {
		candles = candles[len(candles)-columns:]
	}

	lo, hi := candles[0].Low, candles[0].High
	for _, c := range candles {
		lo = min(lo, c.Low)
		hi = max(hi, c.High)
	}
	pad := (hi - lo) * 0.1
	if pad < 0.5 {
		pad = 0.5
	}
	lo -= pad
	hi += pad

	rows := height - 2
	if rows < 3 {
		rows = 3
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		price := yToPrice(row, lo, hi, rows)
		b.WriteString(styles.ChartAxisStyle.Render(fmt.Sprintf("%8.2f │", price)))
		for _, c := range candles {
			style := styles.CandleUpStyle
			if c.Close < c.Open {
				style = styles.CandleDownStyle
			}
			b.WriteString(style.Render(string(candleChar(c, row, lo, hi, rows))))
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	b.WriteString(styles.ChartAxisStyle.Render("─────────┴" + strings.Repeat("──", len(candles))))
	return b.String()
}

func candleChar(c Candle, row int, lo, hi float64, rows int) rune {
	price := yToPrice(row, lo, hi, rows)
	tol := (hi - lo) / float64(rows*2)

	top, bottom := max(c.Open, c.Close), min(c.Open, c.Close)
	switch {
	case price <= top+tol && price >= bottom-tol:
		return '┃'
	case price <= c.High+tol && price > top:
		return '│'
	case price >= c.Low-tol && price < bottom:
		return '│'
	default:
		return ' '
	}
}

func yToPrice(y int, lo, hi float64, rows int) float64 {
	if rows <= 1 {
		return lo
	}
	return hi - float64(y)/float64(rows-1)*(hi-lo)
}

// renderLabel summarizes the selected security above the candles.
func (p *ChartPanel) renderLabel() string {
	v := p.security
	return styles.ChartLabelStyle.Render(fmt.Sprintf("Last %s  Chg %s (%s%%)  Start %s",
		v.Price.StringFixed(2),
		v.Change.StringFixed(2),
		v.ChangePercent.StringFixed(2),
		v.InitialPrice.StringFixed(2),
	))
}

// SetFocus sets the focus state of the panel.
func (p *ChartPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *ChartPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSecurity charts the given quote's history.
func (p *ChartPanel) SetSecurity(v marketview.SecurityView) {
	p.security = v
	p.candles = HistoryCandles(v.History)
}

// Security returns the charted quote.
func (p *ChartPanel) Security() marketview.SecurityView {
	return p.security
}
