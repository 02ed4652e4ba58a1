package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/game"
	"github.com/zappabad/actibourse/internal/ledger"
	"github.com/zappabad/actibourse/internal/market"
	"github.com/zappabad/actibourse/internal/team"
	"github.com/zappabad/actibourse/internal/trade"
	"go.uber.org/zap"
)

type statusResponse struct {
	game.Status
	NextUpdate *time.Time `json:"nextUpdate,omitempty"`
}

type tradeRequest struct {
	Team     team.TeamID       `json:"team"`
	Security market.SecurityID `json:"security"`
	Side     string            `json:"side"`
	Quantity int64             `json:"quantity"`
}

type adjustRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type adjustResponse struct {
	Team team.TeamID     `json:"team"`
	Cash decimal.Decimal `json:"cash"`
}

type priceRequest struct {
	Price decimal.Decimal `json:"price"`
}

type modeRequest struct {
	TestMode bool `json:"testMode"`
}

type ledgerResponse struct {
	Entries []ledger.Entry `json:"entries"`
}

// GET /api/health
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"session":   s.session.ID,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// GET /api/status
func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: s.session.Status()}
	if s.scheduler != nil && resp.Running {
		next := s.scheduler.NextUpdate()
		resp.NextUpdate = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/market
func (s *Server) getMarket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.session.MarketSnapshot())
}

// POST /api/market/update forces one update round regardless of the lifecycle.
func (s *Server) updatePrices(w http.ResponseWriter, r *http.Request) {
	snap := s.session.UpdatePrices()
	if s.metrics != nil {
		s.metrics.ObservePriceUpdate(snap)
		s.observeValuations()
	}
	writeJSON(w, http.StatusOK, snap)
}

// PUT /api/market/{id}/price
func (s *Server) overridePrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	v, err := s.session.OverridePrice(market.SecurityID(r.PathValue("id")), req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ObservePrices(s.session.MarketSnapshot())
		s.observeValuations()
	}
	s.logger.Info("price overridden",
		zap.String("security", string(v.ID)),
		zap.String("price", v.Price.StringFixed(2)),
	)
	writeJSON(w, http.StatusOK, v)
}

// GET /api/teams
func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	views, err := s.session.Teams()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// GET /api/teams/{id}
func (s *Server) getTeam(w http.ResponseWriter, r *http.Request) {
	v, err := s.session.Team(team.TeamID(r.PathValue("id")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// POST /api/teams/{id}/adjust
func (s *Server) adjustCash(w http.ResponseWriter, r *http.Request) {
	var req adjustRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := team.TeamID(r.PathValue("id"))
	cash, err := s.session.AdjustCash(id, req.Amount)
	if err != nil {
		writeError(w, err)
		return
	}
	s.observeValuations()
	writeJSON(w, http.StatusOK, adjustResponse{Team: id, Cash: cash})
}

// GET /api/leaderboard
func (s *Server) leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.session.Leaderboard()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// GET /api/ledger?limit=n
func (s *Server) getLedger(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries := s.session.Ledger(limit)
	if entries == nil {
		entries = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, ledgerResponse{Entries: entries})
}

// POST /api/trades
func (s *Server) submitTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	side, err := trade.ParseSide(req.Side)
	if err != nil {
		s.rejected(w, err)
		return
	}

	receipt, err := s.session.Submit(side, req.Team, req.Security, req.Quantity)
	if err != nil {
		s.rejected(w, err)
		return
	}

	if s.metrics != nil {
		s.metrics.ObserveTrade(receipt)
		s.observeValuations()
	}
	s.logger.Info("trade executed",
		zap.String("team", string(receipt.Team)),
		zap.String("security", string(receipt.Security)),
		zap.Stringer("side", receipt.Side),
		zap.Int64("quantity", receipt.Quantity),
		zap.String("amount", receipt.Amount.StringFixed(2)),
	)
	writeJSON(w, http.StatusCreated, receipt)
}

func (s *Server) rejected(w http.ResponseWriter, err error) {
	if s.metrics != nil {
		s.metrics.ObserveRejection(err)
	}
	s.logger.Debug("trade rejected", zap.Error(err))
	writeError(w, err)
}

// POST /api/game/start
func (s *Server) start(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Start(); err != nil {
		writeError(w, err)
		return
	}
	s.reschedule()
	s.logger.Info("game started", zap.Bool("test_mode", s.session.IsTestMode()))
	s.status(w, r)
}

// POST /api/game/pause
func (s *Server) pause(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Pause(); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("game paused")
	s.status(w, r)
}

// POST /api/game/reset
func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	if s.metrics != nil {
		s.metrics.ObservePrices(s.session.MarketSnapshot())
		s.observeValuations()
	}
	s.logger.Info("game reset")
	s.status(w, r)
}

// PUT /api/game/mode
func (s *Server) setMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if s.session.SetTestMode(req.TestMode) {
		s.reschedule()
		s.logger.Info("mode changed", zap.Bool("test_mode", req.TestMode))
	}
	s.status(w, r)
}

func (s *Server) reschedule() {
	if s.scheduler != nil {
		s.scheduler.Reschedule()
	}
}

func (s *Server) observeValuations() {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.RefreshValuations(s.session); err != nil {
		s.logger.Warn("valuation refresh failed", zap.Error(err))
	}
}
