package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/team"
	"github.com/zappabad/actibourse/internal/trade"
	"github.com/zappabad/actibourse/tui/styles"
)

// OrderInputField represents the currently focused input field.
type OrderInputField int

const (
	FieldTeam OrderInputField = iota
	FieldSecurity
	FieldSide
	FieldQuantity
	FieldSubmit
)

// TeamOption is one selectable team.
type TeamOption struct {
	ID   team.TeamID
	Name string
}

// OrderInputPanel handles trade entry with security autocomplete.
type OrderInputPanel struct {
	teams      []TeamOption
	teamIndex  int
	securities []market.Security

	securityInput textinput.Model
	quantityInput textinput.Model

	// Dropdown state
	showDropdown     bool
	dropdownFiltered []market.Security
	dropdownIndex    int

	sideOptions []trade.Side
	sideIndex   int

	currentField     OrderInputField
	selectedSecurity *market.Security

	focused bool
	width   int
	height  int
}

// NewOrderInputPanel creates a new order input panel.
func NewOrderInputPanel(teams []TeamOption, securities []market.Security) *OrderInputPanel {
	securityInput := textinput.New()
	securityInput.Placeholder = "Search security..."
	securityInput.Width = 18
	securityInput.CharLimit = 20

	quantityInput := textinput.New()
	quantityInput.Placeholder = "Quantity"
	quantityInput.Width = 10
	quantityInput.CharLimit = 9

	return &OrderInputPanel{
		teams:            teams,
		securities:       securities,
		securityInput:    securityInput,
		quantityInput:    quantityInput,
		dropdownFiltered: securities,
		sideOptions:      []trade.Side{trade.SideBuy, trade.SideSell},
		currentField:     FieldTeam,
	}
}

// Init initializes the panel.
func (p *OrderInputPanel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the panel.
func (p *OrderInputPanel) Update(msg tea.Msg) (*OrderInputPanel, tea.Cmd) {
	if !p.focused {
		return p, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("down"))):
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("up"))):
			p.prevField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if p.currentField == FieldSubmit {
				return p, p.submitOrder()
			}
			p.nextField()
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			p.showDropdown = false
			return p, nil

		case key.Matches(msg, key.NewBinding(key.WithKeys("left"))):
			if p.step(-1) {
				return p, nil
			}

		case key.Matches(msg, key.NewBinding(key.WithKeys("right"))):
			if p.step(1) {
				return p, nil
			}
		}
	}

	switch p.currentField {
	case FieldSecurity:
		p.securityInput, cmd = p.securityInput.Update(msg)
		p.filterDropdown(p.securityInput.Value())
		p.showDropdown = len(p.securityInput.Value()) > 0

	case FieldQuantity:
		p.quantityInput, cmd = p.quantityInput.Update(msg)
	}

	return p, cmd
}

// step moves the selector of the current field and reports whether the key
// was consumed.
func (p *OrderInputPanel) step(delta int) bool {
	switch {
	case p.showDropdown:
		p.dropdownIndex = clampIndex(p.dropdownIndex+delta, len(p.dropdownFiltered))
	case p.currentField == FieldTeam:
		p.teamIndex = clampIndex(p.teamIndex+delta, len(p.teams))
	case p.currentField == FieldSide:
		p.sideIndex = clampIndex(p.sideIndex+delta, len(p.sideOptions))
	default:
		return false
	}
	return true
}

func clampIndex(i, n int) int {
	if i < 0 || n == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// View renders the panel.
func (p *OrderInputPanel) View() string {
	var content strings.Builder

	content.WriteString(p.renderField("Team", FieldTeam, p.renderTeamField()))
	content.WriteString("\n")
	content.WriteString(p.renderField("Security\n", FieldSecurity, p.renderSecurityField()))
	content.WriteString("\n")
	content.WriteString(p.renderField("Side", FieldSide, p.renderSideField()))
	content.WriteString("\n")
	content.WriteString(p.renderField("Qty", FieldQuantity, p.quantityInput.View()))
	content.WriteString("\n\n")

	submitStyle := styles.InputStyle
	if p.currentField == FieldSubmit && p.focused {
		submitStyle = styles.FocusedInputStyle.Bold(true).Foreground(styles.PrimaryColor)
	}
	content.WriteString(submitStyle.Render("  [Submit Trade]  "))

	content.WriteString("\n\n")
	content.WriteString(p.renderOrderSummary())

	panelStyle := styles.PanelStyle
	if p.focused {
		panelStyle = styles.FocusedPanelStyle
	}

	title := styles.RenderTitle("📝 Trade Entry", p.focused)
	panel := lipgloss.JoinVertical(lipgloss.Left, title, content.String())

	return panelStyle.Width(p.width - 2).Height(p.height - 2).Render(panel)
}

func (p *OrderInputPanel) renderField(label string, field OrderInputField, inputView string) string {
	labelStyle := styles.LabelStyle
	if p.currentField == field && p.focused {
		labelStyle = labelStyle.Foreground(styles.PrimaryColor)
	}
	return labelStyle.Render(fmt.Sprintf("%-9s", label)) + inputView
}

func (p *OrderInputPanel) renderTeamField() string {
	if len(p.teams) == 0 {
		return styles.PlaceholderStyle.Render("no teams")
	}
	style := styles.DropdownItemStyle.Bold(true)
	if p.currentField == FieldTeam && p.focused {
		style = styles.DropdownSelectedStyle
	}
	return "◀ " + style.Render(p.teams[p.teamIndex].Name) + " ▶"
}

func (p *OrderInputPanel) renderSecurityField() string {
	var result strings.Builder

	inputStyle := styles.InputStyle
	if p.currentField == FieldSecurity && p.focused {
		inputStyle = styles.FocusedInputStyle
		p.securityInput.Focus()
	} else {
		p.securityInput.Blur()
	}
	result.WriteString(inputStyle.Render(p.securityInput.View()))

	if p.showDropdown && len(p.dropdownFiltered) > 0 {
		maxShow := min(len(p.dropdownFiltered), 5)
		items := make([]string, 0, maxShow)
		for i := 0; i < maxShow; i++ {
			style := styles.DropdownItemStyle
			if i == p.dropdownIndex {
				style = styles.DropdownSelectedStyle
			}
			items = append(items, style.Render(highlightMatch(p.dropdownFiltered[i].Name, p.securityInput.Value())))
		}
		list := styles.DropdownStyle.Render(lipgloss.JoinVertical(lipgloss.Left, items...))
		result.WriteString("\n")
		result.WriteString(lipgloss.NewStyle().MarginLeft(9).Render(list))
	}

	return result.String()
}

func (p *OrderInputPanel) renderSideField() string {
	var items []string
	for i, side := range p.sideOptions {
		style := styles.DropdownItemStyle
		if i == p.sideIndex {
			if p.currentField == FieldSide && p.focused {
				style = styles.DropdownSelectedStyle
			} else {
				style = styles.DropdownItemStyle.Bold(true)
			}
			if side == trade.SideBuy {
				style = style.Foreground(styles.BuyColor)
			} else {
				style = style.Foreground(styles.SellColor)
			}
		}
		items = append(items, style.Render(side.String()))
	}
	return strings.Join(items, " | ")
}

func (p *OrderInputPanel) renderOrderSummary() string {
	var parts []string

	if len(p.teams) > 0 {
		parts = append(parts, p.teams[p.teamIndex].Name)
	}

	side := p.sideOptions[p.sideIndex]
	sideStyle := styles.BuyStyle
	if side == trade.SideSell {
		sideStyle = styles.SellStyle
	}
	parts = append(parts, sideStyle.Render(side.String()))

	qty := p.quantityInput.Value()
	if qty == "" {
		qty = "0"
	}
	parts = append(parts, qty)

	name := p.securityInput.Value()
	if p.selectedSecurity != nil {
		name = p.selectedSecurity.Name
	}
	if name == "" {
		name = "---"
	}
	parts = append(parts, name)

	return styles.HeaderStyle.Render("Trade: ") + strings.Join(parts, " ")
}

func (p *OrderInputPanel) filterDropdown(query string) {
	query = strings.ToUpper(query)
	p.dropdownFiltered = nil
	p.dropdownIndex = 0

	for _, sec := range p.securities {
		if strings.Contains(strings.ToUpper(sec.Name), query) || strings.Contains(strings.ToUpper(string(sec.ID)), query) {
			p.dropdownFiltered = append(p.dropdownFiltered, sec)
		}
	}
}

func highlightMatch(item, query string) string {
	if query == "" {
		return item
	}
	idx := strings.Index(strings.ToUpper(item), strings.ToUpper(query))
	if idx == -1 {
		return item
	}
	end := idx + len(query)
	return item[:idx] + styles.DropdownMatchStyle.Render(item[idx:end]) + item[end:]
}

func (p *OrderInputPanel) selectDropdownItem() {
	if p.dropdownIndex < len(p.dropdownFiltered) && p.securityInput.Value() != "" {
		sec := p.dropdownFiltered[p.dropdownIndex]
		p.securityInput.SetValue(sec.Name)
		p.selectedSecurity = &sec
	}
}

func (p *OrderInputPanel) nextField() {
	if p.currentField == FieldSecurity {
		p.selectDropdownItem()
	}
	p.showDropdown = false
	p.setField((p.currentField + 1) % (FieldSubmit + 1))
}

func (p *OrderInputPanel) prevField() {
	p.showDropdown = false
	p.setField((p.currentField + FieldSubmit) % (FieldSubmit + 1))
}

func (p *OrderInputPanel) setField(f OrderInputField) {
	p.currentField = f
	p.securityInput.Blur()
	p.quantityInput.Blur()
	switch f {
	case FieldSecurity:
		p.securityInput.Focus()
	case FieldQuantity:
		p.quantityInput.Focus()
	}
}

func (p *OrderInputPanel) submitOrder() tea.Cmd {
	if p.selectedSecurity == nil || len(p.teams) == 0 {
		return nil
	}

	qty, err := strconv.ParseInt(strings.TrimSpace(p.quantityInput.Value()), 10, 64)
	if err != nil || qty <= 0 {
		return nil
	}

	msg := OrderSubmitMsg{
		Team:     p.teams[p.teamIndex].ID,
		Security: *p.selectedSecurity,
		Side:     p.sideOptions[p.sideIndex],
		Quantity: qty,
	}
	return func() tea.Msg { return msg }
}

// SetFocus sets the focus state of the panel.
func (p *OrderInputPanel) SetFocus(focused bool) {
	p.focused = focused
	if focused {
		p.setField(p.currentField)
		return
	}
	p.securityInput.Blur()
	p.quantityInput.Blur()
}

// SetSize sets the panel dimensions.
func (p *OrderInputPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetSecurity pre-fills the security field.
func (p *OrderInputPanel) SetSecurity(sec market.Security) {
	p.securityInput.SetValue(sec.Name)
	p.selectedSecurity = &sec
}

// Reset clears the input fields, keeping the selected team.
func (p *OrderInputPanel) Reset() {
	p.securityInput.SetValue("")
	p.quantityInput.SetValue("")
	p.selectedSecurity = nil
	p.sideIndex = 0
	p.showDropdown = false
	p.setField(FieldTeam)
}

// OrderSubmitMsg is sent when a trade is submitted.
type OrderSubmitMsg struct {
	Team     team.TeamID
	Security market.Security
	Side     trade.Side
	Quantity int64
}
