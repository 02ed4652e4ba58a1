package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/zappabad/actibourse/internal/cadence"
	"github.com/zappabad/actibourse/internal/game"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/metrics"
	"github.com/zappabad/actibourse/tui/panels"
	"github.com/zappabad/actibourse/tui/styles"
)

// PanelFocus represents which panel is currently focused.
type PanelFocus int

const (
	FocusMarket PanelFocus = iota
	FocusTeams
	FocusChart
	FocusLedger
	FocusOrderInput
	focusCount
)

// Scheduler is the part of the cadence runner the TUI drives.
type Scheduler interface {
	Reschedule()
	NextUpdate() time.Time
	Events() <-chan cadence.Event
}

// Model is the main TUI application model.
type Model struct {
	session   *game.Session
	scheduler Scheduler
	metrics   *metrics.Metrics

	securities []market.Security

	marketPanel     *panels.MarketOverviewPanel
	teamsPanel      *panels.TeamsPanel
	ledgerPanel     *panels.LedgerPanel
	orderInputPanel *panels.OrderInputPanel
	chartPanel      *panels.ChartPanel

	focusedPanel PanelFocus

	width  int
	height int

	statusMsg string
	ready     bool
}

// NewModel creates a new TUI model. scheduler and m may be nil.
func NewModel(session *game.Session, scheduler Scheduler, m *metrics.Metrics) *Model {
	securities := session.Registry().Securities()

	var teams []panels.TeamOption
	if views, err := session.Teams(); err == nil {
		for _, v := range views {
			teams = append(teams, panels.TeamOption{ID: v.ID, Name: v.Name})
		}
	}

	model := &Model{
		session:         session,
		scheduler:       scheduler,
		metrics:         m,
		securities:      securities,
		marketPanel:     panels.NewMarketOverviewPanel(securities),
		teamsPanel:      panels.NewTeamsPanel(securities),
		ledgerPanel:     panels.NewLedgerPanel(),
		orderInputPanel: panels.NewOrderInputPanel(teams, securities),
		chartPanel:      panels.NewChartPanel(),
		focusedPanel:    FocusOrderInput,
	}
	model.refresh()
	return model
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.marketPanel.Init(),
		m.teamsPanel.Init(),
		m.ledgerPanel.Init(),
		m.orderInputPanel.Init(),
		m.chartPanel.Init(),
		m.listenCadence(),
		m.tickRefresh(),
	)
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if m.focusedPanel != FocusOrderInput {
				return m, tea.Quit
			}

		case "tab":
			m.focusedPanel = (m.focusedPanel + 1) % focusCount
		case "shift+tab":
			m.focusedPanel = (m.focusedPanel + focusCount - 1) % focusCount

		case "f1":
			m.focusedPanel = FocusMarket
		case "f2":
			m.focusedPanel = FocusTeams
		case "f3":
			m.focusedPanel = FocusLedger
		case "f4":
			m.focusedPanel = FocusOrderInput
		case "f5":
			m.focusedPanel = FocusChart

		case "ctrl+s":
			m.lifecycle("Game started", m.session.Start, true)
		case "ctrl+p":
			m.lifecycle("Game paused", m.session.Pause, false)
		case "ctrl+r":
			m.session.Reset()
			m.orderInputPanel.Reset()
			m.statusMsg = "Game reset"
			m.refresh()
		case "ctrl+t":
			on := !m.session.IsTestMode()
			if m.session.SetTestMode(on) {
				m.reschedule()
			}
			m.statusMsg = "Mode: " + modeLabel(on)
			m.refresh()
		case "ctrl+u":
			snap := m.session.UpdatePrices()
			if m.metrics != nil {
				m.metrics.SessionObserver(m.session).ObservePriceUpdate(snap)
			}
			m.statusMsg = "Prices updated"
			m.refresh()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case cadenceMsg:
		if msg.ok {
			if msg.event.Updated {
				m.statusMsg = "Prices updated at " + msg.event.Time.Format("15:04:05")
			}
			m.refresh()
			cmds = append(cmds, m.listenCadence())
		}

	case panels.OrderSubmitMsg:
		cmds = append(cmds, m.submitOrder(msg))

	case orderResultMsg:
		m.statusMsg = msg.message
		m.refresh()

	case tickMsg:
		m.refresh()
		cmds = append(cmds, m.tickRefresh())
	}

	m.updateFocusedPanel(msg, &cmds)

	return m, tea.Batch(cmds...)
}

func (m *Model) lifecycle(done string, op func() error, reschedule bool) {
	if err := op(); err != nil {
		m.statusMsg = "❌ " + err.Error()
		return
	}
	if reschedule {
		m.reschedule()
	}
	m.statusMsg = done
	m.refresh()
}

func (m *Model) reschedule() {
	if m.scheduler != nil {
		m.scheduler.Reschedule()
	}
}

func (m *Model) updateFocusedPanel(msg tea.Msg, cmds *[]tea.Cmd) {
	var cmd tea.Cmd

	switch m.focusedPanel {
	case FocusMarket:
		m.marketPanel, cmd = m.marketPanel.Update(msg)
		selected := m.marketPanel.SelectedSecurity()
		if selected.ID != "" && selected.ID != m.chartPanel.Security().ID {
			m.orderInputPanel.SetSecurity(selected)
			m.refreshChart()
		}
	case FocusTeams:
		m.teamsPanel, cmd = m.teamsPanel.Update(msg)
	case FocusLedger:
		m.ledgerPanel, cmd = m.ledgerPanel.Update(msg)
	case FocusOrderInput:
		m.orderInputPanel, cmd = m.orderInputPanel.Update(msg)
	case FocusChart:
		m.chartPanel, cmd = m.chartPanel.Update(msg)
	}

	if cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// View renders the UI.
func (m *Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	m.marketPanel.SetFocus(m.focusedPanel == FocusMarket)
	m.teamsPanel.SetFocus(m.focusedPanel == FocusTeams)
	m.ledgerPanel.SetFocus(m.focusedPanel == FocusLedger)
	m.orderInputPanel.SetFocus(m.focusedPanel == FocusOrderInput)
	m.chartPanel.SetFocus(m.focusedPanel == FocusChart)

	// Layout:
	// ┌─────────────────────────────────────────────┐
	// │     Market      │ Leaderboard │   Chart     │
	// ├─────────────────┼─────────────┴─────────────┤
	// │     Ledger      │       Trade Entry         │
	// └─────────────────┴───────────────────────────┘

	leftWidth := m.width / 3
	middleWidth := m.width / 3
	rightWidth := m.width - leftWidth - middleWidth

	topHeight := (m.height - 3) * 3 / 5
	bottomHeight := m.height - topHeight - 3

	m.marketPanel.SetSize(leftWidth, topHeight)
	m.teamsPanel.SetSize(middleWidth, topHeight)
	m.chartPanel.SetSize(rightWidth, topHeight)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.marketPanel.View(),
		m.teamsPanel.View(),
		m.chartPanel.View(),
	)

	m.ledgerPanel.SetSize(leftWidth, bottomHeight)
	m.orderInputPanel.SetSize(m.width-leftWidth, bottomHeight)

	bottomRow := lipgloss.JoinHorizontal(lipgloss.Top,
		m.ledgerPanel.View(),
		m.orderInputPanel.View(),
	)

	return lipgloss.JoinVertical(lipgloss.Left, topRow, bottomRow, m.renderStatusBar())
}

func (m *Model) renderStatusBar() string {
	st := m.session.Status()

	var state string
	switch st.State {
	case game.StateRunning:
		state = styles.StateRunningStyle.Render("● RUNNING")
	case game.StatePaused:
		state = styles.StatePausedStyle.Render("❚❚ PAUSED")
	default:
		state = styles.StateStoppedStyle.Render("■ STOPPED")
	}

	info := fmt.Sprintf(" %s mode │ elapsed %s", modeLabel(st.TestMode), formatElapsed(st.Elapsed))
	if st.Running && m.scheduler != nil {
		wait := time.Until(m.scheduler.NextUpdate()).Round(time.Second)
		info += fmt.Sprintf(" │ next update in %s", max(wait, 0))
	}

	help := []string{
		styles.StatusBarKeyStyle.Render("^S") + styles.StatusBarDescStyle.Render(" start"),
		styles.StatusBarKeyStyle.Render("^P") + styles.StatusBarDescStyle.Render(" pause"),
		styles.StatusBarKeyStyle.Render("^R") + styles.StatusBarDescStyle.Render(" reset"),
		styles.StatusBarKeyStyle.Render("^T") + styles.StatusBarDescStyle.Render(" mode"),
		styles.StatusBarKeyStyle.Render("^U") + styles.StatusBarDescStyle.Render(" update"),
		styles.StatusBarKeyStyle.Render("Tab") + styles.StatusBarDescStyle.Render(" panels"),
	}
	helpStr := lipgloss.JoinHorizontal(lipgloss.Center,
		help[0], " ", help[1], " ", help[2], " ", help[3], " ", help[4], " ", help[5])

	status := ""
	if m.statusMsg != "" {
		status = " │ " + m.statusMsg
	}

	return styles.StatusBarStyle.Width(m.width).Render(state + info + " │ " + helpStr + status)
}

// refresh pulls every panel's data from the session.
func (m *Model) refresh() {
	m.marketPanel.SetSnapshot(m.session.MarketSnapshot())
	if board, err := m.session.Leaderboard(); err == nil {
		m.teamsPanel.SetStandings(board)
	}
	m.ledgerPanel.SetEntries(m.session.Ledger(0))
	m.refreshChart()
}

func (m *Model) refreshChart() {
	sel := m.marketPanel.SelectedSecurity()
	if v, ok := m.session.MarketSnapshot().Find(sel.ID); ok {
		m.chartPanel.SetSecurity(v)
	}
}

func (m *Model) submitOrder(order panels.OrderSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		receipt, err := m.session.Submit(order.Side, order.Team, order.Security.ID, order.Quantity)
		if err != nil {
			if m.metrics != nil {
				m.metrics.ObserveRejection(err)
			}
			return orderResultMsg{message: "❌ Trade failed: " + err.Error()}
		}
		if m.metrics != nil {
			m.metrics.ObserveTrade(receipt)
			_ = m.metrics.RefreshValuations(m.session)
		}
		return orderResultMsg{message: "✓ " + receipt.Entry.Message}
	}
}

func (m *Model) listenCadence() tea.Cmd {
	if m.scheduler == nil {
		return nil
	}
	events := m.scheduler.Events()
	return func() tea.Msg {
		ev, ok := <-events
		return cadenceMsg{event: ev, ok: ok}
	}
}

// tickMsg is sent periodically to refresh the clock and countdown.
type tickMsg struct{}

func (m *Model) tickRefresh() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// cadenceMsg carries a runner event; ok is false once the runner is closed.
type cadenceMsg struct {
	event cadence.Event
	ok    bool
}

// orderResultMsg is sent after a trade is processed.
type orderResultMsg struct {
	message string
}

func modeLabel(test bool) string {
	if test {
		return "test"
	}
	return "game"
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	mins := int(d.Minutes()) % 60
	secs := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, mins, secs)
}
