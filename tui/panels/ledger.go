package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/actibourse/internal/ledger"
	"github.com/zappabad/actibourse/tui/styles"
)

// LedgerPanel lists ledger entries, newest first.
type LedgerPanel struct {
	entries       []ledger.Entry
	selectedIndex int
	scrollOffset  int
	focused       bool
	width         int
	height        int
}

// NewLedgerPanel creates a new ledger panel.
func NewLedgerPanel() *LedgerPanel {
	return &LedgerPanel{}
}

// Init initializes the panel.
func (p *LedgerPanel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the panel.
func (p *LedgerPanel) Update(msg tea.Msg) (*LedgerPanel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !p.focused {
			return p, nil
		}
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if p.selectedIndex > 0 {
				p.selectedIndex--
				if p.selectedIndex < p.scrollOffset {
					p.scrollOffset = p.selectedIndex
				}
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if p.selectedIndex < len(p.entries)-1 {
				p.selectedIndex++
				visible := p.visibleItems()
				if p.selectedIndex >= p.scrollOffset+visible {
					p.scrollOffset = p.selectedIndex - visible + 1
				}
			}
		}
	}
	return p, nil
}

func (p *LedgerPanel) visibleItems() int {
	return max(p.height-4, 1)
}

// View renders the panel.
func (p *LedgerPanel) View() string {
	var content strings.Builder

	if len(p.entries) == 0 {
		content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).Render("No activity yet"))
	} else {
		visible := p.visibleItems()
		start := min(p.scrollOffset, len(p.entries)-1)
		end := min(start+visible, len(p.entries))

		for i := start; i < end; i++ {
			e := p.entries[i]

			msg := e.Message
			if limit := p.width - 15; limit > 3 && len(msg) > limit {
				msg = msg[:limit-3] + "..."
			}

			var msgStyle lipgloss.Style
			switch e.Kind {
			case ledger.KindBuy:
				msgStyle = styles.BuyStyle
			case ledger.KindSell:
				msgStyle = styles.SellStyle
			default:
				msgStyle = styles.LedgerSystemStyle
			}

			line := fmt.Sprintf("%s %s", styles.TimeStyle.Render(e.Time.Format("15:04:05")), msgStyle.Render(msg))
			if i == p.selectedIndex && p.focused {
				line = styles.SelectedRowStyle.Render(line)
			}

			content.WriteString(line)
			if i < end-1 {
				content.WriteString("\n")
			}
		}

		if len(p.entries) > visible {
			content.WriteString("\n")
			content.WriteString(lipgloss.NewStyle().Foreground(styles.TextMutedColor).
				Render(fmt.Sprintf(" (%d/%d)", p.selectedIndex+1, len(p.entries))))
		}
	}

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📜 Ledger", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

// SetFocus sets the focus state of the panel.
func (p *LedgerPanel) SetFocus(focused bool) {
	p.focused = focused
}

// SetSize sets the panel dimensions.
func (p *LedgerPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetEntries replaces the entries.
func (p *LedgerPanel) SetEntries(entries []ledger.Entry) {
	p.entries = entries
	if p.selectedIndex >= len(entries) {
		p.selectedIndex = max(len(entries)-1, 0)
	}
	if p.scrollOffset > p.selectedIndex {
		p.scrollOffset = p.selectedIndex
	}
}
