package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/actibourse/internal/market"
	marketview "github.com/zappabad/actibourse/internal/market/view"
	"github.com/zappabad/actibourse/tui/styles"
)

// MarketOverviewPanel displays the current quote of every security.
type MarketOverviewPanel struct {
	securities    []market.Security
	snapshot      marketview.MarketSnapshot
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewMarketOverviewPanel creates a new market overview panel.
func NewMarketOverviewPanel(securities []market.Security) *MarketOverviewPanel {
	return &MarketOverviewPanel{securities: securities}
}

// Init initializes the panel.
func (p *MarketOverviewPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *MarketOverviewPanel) Update(msg tea.Msg) (*MarketOverviewPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.securities)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *MarketOverviewPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-12s %9s %9s %8s", "Security", "Price", "Change", "%")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, sec := range p.securities {
		price, change, pct := "-", "-", "-"
		trend := 0
		if v, ok := p.snapshot.Find(sec.ID); ok {
			price = styles.FormatPoints(v.Price)
			change = styles.FormatChange(v.Change)
			pct = styles.FormatChange(v.ChangePercent)
			trend = v.Trend()
		}

		row := fmt.Sprintf("%-12s %9s ", truncate(sec.Name, 12), price) +
			styles.TrendStyle(trend).Render(fmt.Sprintf("%9s %8s", change, pct))

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		if i < len(p.securities)-1 {
			content.WriteString("\n")
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📈 Market", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *MarketOverviewPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *MarketOverviewPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSnapshot replaces the displayed quotes.
func (p *MarketOverviewPanel) SetSnapshot(snap marketview.MarketSnapshot) {
	p.snapshot = snap
}

// SelectedSecurity returns the highlighted security.
func (p *MarketOverviewPanel) SelectedSecurity() market.Security {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.securities) {
		return p.securities[p.selectedIndex]
	}
	return market.Security{}
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
