package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/team"
	"github.com/zappabad/actibourse/tui/styles"
)

// TeamsPanel shows the leaderboard and the holdings of the highlighted team.
type TeamsPanel struct {
	securities    []market.Security
	standings     []team.Standing
	selectedIndex int
	focused       bool
	width         int
	height        int
}

// NewTeamsPanel creates a new teams panel.
func NewTeamsPanel(securities []market.Security) *TeamsPanel {
	return &TeamsPanel{securities: securities}
}

// Init initializes the panel.
func (p *TeamsPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *TeamsPanel) Update(msg tea.Msg) (*TeamsPanel, tea.Cmd) {
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
			if p.selectedIndex < len(p.standings)-1 {
				p.selectedIndex++
			}
		}
	}
	return p, nil
}

// View renders the panel.
func (p *TeamsPanel) View() string {
	var content strings.Builder

	header := fmt.Sprintf("%-3s %-10s %9s %9s %6s", "#", "Team", "Cash", "Value", "Tokens")
	content.WriteString(styles.HeaderStyle.Render(header))
	content.WriteString("\n")

	for i, st := range p.standings {
		rank := fmt.Sprintf("%-3d", st.Rank)
		if st.Rank == 1 {
			rank = styles.RankFirstStyle.Render(rank)
		}
		row := rank + fmt.Sprintf(" %-10s %9s %9s ",
			truncate(st.Name, 10), styles.FormatPoints(st.Cash), styles.FormatPoints(st.Valuation)) +
			styles.TokenStyle.Render(fmt.Sprintf("%6d", st.Tokens))

		style := styles.RowStyle
		if i == p.selectedIndex && p.focused {
			style = styles.SelectedRowStyle
		}
		content.WriteString(style.Render(row))
		content.WriteString("\n")
	}

	if sel, ok := p.selected(); ok {
		content.WriteString("\n")
		content.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("Holdings - %s", sel.Name)))
		for _, sec := range p.securities {
			qty := sel.Holdings[sec.ID]
			if qty == 0 {
				continue
			}
			content.WriteString("\n")
			content.WriteString(styles.SizeStyle.Render(fmt.Sprintf("  %-12s %6d", truncate(sec.Name, 12), qty)))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("🏆 Leaderboard", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *TeamsPanel) selected() (team.Standing, bool) {
	if p.selectedIndex >= 0 && p.selectedIndex < len(p.standings) {
		return p.standings[p.selectedIndex], true
	}
	return team.Standing{}, false
}

// SetFocus sets the focus state of the panel.
func (p *TeamsPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *TeamsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetStandings replaces the leaderboard.
func (p *TeamsPanel) SetStandings(standings []team.Standing) {
	p.standings = standings
	if p.selectedIndex >= len(standings) {
		p.selectedIndex = max(len(standings)-1, 0)
	}
}
