package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/ledger"
	ledgerview "github.com/zappabad/actibourse/internal/ledger/view"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/market/core"
	marketview "github.com/zappabad/actibourse/internal/market/view"
	"github.com/zappabad/actibourse/internal/team"
	"github.com/zappabad/actibourse/internal/trade"
)

// Session is one running game. Every exported method takes the session lock,
// so a Session is safe for concurrent use by the cadence runner and any number
// of front ends.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	cfg      Config
	registry *market.Registry
	market   *core.Market
	pressure *core.Pressure
	teams    *team.Store
	ledger   *ledgerview.Ledger
	engine   *trade.Engine
	clock    *Clock
	rnd      core.RandSource
	now      func() time.Time
}

// Option customizes a Session.
type Option func(*Session)

// WithRand sets the source used by price updates.
func WithRand(rnd core.RandSource) Option {
	return func(s *Session) { s.rnd = rnd }
}

// WithClock sets the wall clock used for ledger stamps and elapsed time.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Status summarizes the lifecycle for front ends.
type Status struct {
	ID        uuid.UUID     `json:"id"`
	State     State         `json:"state"`
	Running   bool          `json:"running"`
	TestMode  bool          `json:"testMode"`
	StartedAt *time.Time    `json:"startedAt,omitempty"`
	Elapsed   time.Duration `json:"elapsed"`
}

// NewSession validates cfg and builds a fresh, stopped session.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}
	registry, err := market.NewRegistry(cfg.Securities)
	if err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	s := &Session{
		ID:       uuid.New(),
		cfg:      cfg,
		registry: registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.now == nil {
		s.now = time.Now
	}

	ids := registry.IDs()
	s.market = core.New(registry.Securities())
	s.pressure = core.NewPressure(ids)
	s.teams = team.NewStore(cfg.Teams, cfg.InitialCash, ids)
	s.ledger = ledgerview.NewLedger(cfg.LedgerCapacity, s.now)
	s.engine = trade.NewEngine(s.market, s.teams, s.pressure, s.ledger)
	s.clock = NewClock(cfg.TestMode, s.now)

	return s, nil
}

// Config returns the configuration the session was built from.
func (s *Session) Config() Config {
	return s.cfg
}

// Registry returns the static security catalog.
func (s *Session) Registry() *market.Registry {
	return s.registry
}

// MarketSnapshot returns every security's current quote in registry order.
func (s *Session) MarketSnapshot() marketview.MarketSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.market.Snapshot()
}

// Team returns one team with its valuation and tokens.
func (s *Session) Team(id team.TeamID) (team.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.View(id, s.market, s.cfg.TokenValue)
}

// Teams returns every team in creation order.
func (s *Session) Teams() ([]team.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.Views(s.market, s.cfg.TokenValue)
}

// Leaderboard ranks teams by valuation.
func (s *Session) Leaderboard() ([]team.Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teams.Leaderboard(s.market, s.cfg.TokenValue)
}

// Ledger returns up to n entries, newest first. n <= 0 returns all of them.
func (s *Session) Ledger(n int) []ledger.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		return s.ledger.Entries()
	}
	return s.ledger.Latest(n)
}

// UpdatePrices runs one price update round and returns the new quotes.
func (s *Session) UpdatePrices() marketview.MarketSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.market.UpdatePrices(s.pressure, s.rnd)
	return s.market.Snapshot()
}

// OverridePrice forces a security's price, as an operator correction.
func (s *Session) OverridePrice(id market.SecurityID, price decimal.Decimal) (marketview.SecurityView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.market.SetPrice(id, price); err != nil {
		return marketview.SecurityView{}, err
	}
	v, err := s.market.View(id)
	if err != nil {
		return marketview.SecurityView{}, err
	}
	s.ledger.Append(fmt.Sprintf("%s price set to %s", v.Name, v.Price.StringFixed(2)), ledger.KindSystem)
	return v, nil
}

// Buy executes a purchase.
func (s *Session) Buy(teamID team.TeamID, secID market.SecurityID, qty int64) (trade.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Buy(teamID, secID, qty)
}

// Sell executes a sale.
func (s *Session) Sell(teamID team.TeamID, secID market.SecurityID, qty int64) (trade.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Sell(teamID, secID, qty)
}

// Submit executes a trade for either side.
func (s *Session) Submit(side trade.Side, teamID team.TeamID, secID market.SecurityID, qty int64) (trade.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Submit(side, teamID, secID, qty)
}

// AdjustCash grants or withdraws points and returns the new balance.
func (s *Session) AdjustCash(teamID team.TeamID, amount decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Adjust(teamID, amount)
}

// Start starts or resumes the game.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.clock.Start(); err != nil {
		return err
	}
	s.ledger.Append(fmt.Sprintf("Game started in %s mode", modeName(s.clock.TestMode())), ledger.KindSystem)
	return nil
}

// Pause suspends a running game.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.clock.Pause(); err != nil {
		return err
	}
	s.ledger.Append("Game paused", ledger.KindSystem)
	return nil
}

// Reset restores prices, teams and pressure to their initial values and clears
// the ledger. The mode is kept.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.registry.IDs()
	s.clock.Reset()
	s.market.Reset(s.registry.Securities())
	s.pressure.Reset(ids)
	s.teams.Reset(s.cfg.Teams, s.cfg.InitialCash, ids)
	s.ledger.Clear()
	s.ledger.Append("Game reset", ledger.KindSystem)
}

// SetTestMode switches the cadence mode and reports whether it changed.
func (s *Session) SetTestMode(on bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.clock.SetTestMode(on) {
		return false
	}
	s.ledger.Append(fmt.Sprintf("Switched to %s mode", modeName(on)), ledger.KindSystem)
	return true
}

// IsRunning reports whether the game is running.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Running()
}

// IsTestMode reports whether the fast test cadence is selected.
func (s *Session) IsTestMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.TestMode()
}

// Elapsed returns the time since the last start.
func (s *Session) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock.Elapsed()
}

// Status returns the lifecycle summary.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Status{
		ID:        s.ID,
		State:     s.clock.State(),
		Running:   s.clock.Running(),
		TestMode:  s.clock.TestMode(),
		StartedAt: s.clock.StartedAt(),
		Elapsed:   s.clock.Elapsed(),
	}
}

func modeName(test bool) string {
	if test {
		return "test"
	}
	return "game"
}
