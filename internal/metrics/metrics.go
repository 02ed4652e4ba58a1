package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zappabad/actibourse/internal/market"
	marketview "github.com/zappabad/actibourse/internal/market/view"
	"github.com/zappabad/actibourse/internal/team"
	"github.com/zappabad/actibourse/internal/trade"
)

const namespace = "actibourse"

// Metrics holds the game's Prometheus instruments on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	trades        *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	priceUpdates  prometheus.Counter
	securityPrice *prometheus.GaugeVec
	teamValuation *prometheus.GaugeVec
}

// New registers every instrument, plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		trades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trades_total",
			Help:      "Executed trades by side.",
		}, []string{"side"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trade_rejections_total",
			Help:      "Rejected trades by reason.",
		}, []string{"reason"}),
		priceUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_updates_total",
			Help:      "Completed price update rounds.",
		}),
		securityPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "security_price",
			Help:      "Current price per security.",
		}, []string{"security"}),
		teamValuation: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "team_valuation",
			Help:      "Current valuation per team.",
		}, []string{"team"}),
	}

	m.registry.MustRegister(
		m.trades,
		m.rejections,
		m.priceUpdates,
		m.securityPrice,
		m.teamValuation,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTrade counts an executed trade.
func (m *Metrics) ObserveTrade(r trade.Receipt) {
	m.trades.WithLabelValues(sideLabel(r.Side)).Inc()
}

// ObserveRejection counts a failed trade by its cause.
func (m *Metrics) ObserveRejection(err error) {
	m.rejections.WithLabelValues(RejectReason(err)).Inc()
}

// ObservePriceUpdate counts an update round and refreshes price gauges.
func (m *Metrics) ObservePriceUpdate(snap marketview.MarketSnapshot) {
	m.priceUpdates.Inc()
	m.ObservePrices(snap)
}

// ObservePrices refreshes price gauges without counting a round.
func (m *Metrics) ObservePrices(snap marketview.MarketSnapshot) {
	for _, v := range snap.Securities {
		m.securityPrice.WithLabelValues(string(v.ID)).Set(v.Price.InexactFloat64())
	}
}

// ObserveValuations refreshes team valuation gauges.
func (m *Metrics) ObserveValuations(views []team.View) {
	for _, v := range views {
		m.teamValuation.WithLabelValues(string(v.ID)).Set(v.Valuation.InexactFloat64())
	}
}

// TeamSource lists every team with its current valuation.
type TeamSource interface {
	Teams() ([]team.View, error)
}

// RefreshValuations reads every team from src and updates valuation gauges.
func (m *Metrics) RefreshValuations(src TeamSource) error {
	views, err := src.Teams()
	if err != nil {
		return err
	}
	m.ObserveValuations(views)
	return nil
}

// SessionObserver counts update rounds and refreshes both price and valuation
// gauges after each one. Valuations are read after the update returns.
type SessionObserver struct {
	m   *Metrics
	src TeamSource
}

// SessionObserver returns an update observer bound to src.
func (m *Metrics) SessionObserver(src TeamSource) *SessionObserver {
	return &SessionObserver{m: m, src: src}
}

// ObservePriceUpdate records the round and revalues every team.
func (o *SessionObserver) ObservePriceUpdate(snap marketview.MarketSnapshot) {
	o.m.ObservePriceUpdate(snap)
	// a failed read leaves the previous valuations in place
	_ = o.m.RefreshValuations(o.src)
}

// RejectReason maps a trade error onto a low-cardinality label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, trade.ErrInvalidQuantity), errors.Is(err, trade.ErrInvalidAmount), errors.Is(err, trade.ErrInvalidSide):
		return "invalid_request"
	case errors.Is(err, trade.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, trade.ErrInsufficientHoldings):
		return "insufficient_holdings"
	case errors.Is(err, market.ErrUnknownEntity):
		return "unknown_entity"
	default:
		return "other"
	}
}

func sideLabel(s trade.Side) string {
	b, _ := s.MarshalText()
	return string(b)
}
