package team

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/zappabad/actibourse/internal/market"
)

// DefaultTokenValue is the valuation worth one reward token.
var DefaultTokenValue = decimal.NewFromInt(10)

// Store owns every team of a session.
// It is not safe for concurrent use; the owning session serializes access.
type Store struct {
	order []TeamID
	teams map[TeamID]*Team
}

// NewStore creates count teams named "Team 1".."Team N", each holding
// initialCash and zero shares of every security in ids.
func NewStore(count int, initialCash decimal.Decimal, ids []market.SecurityID) *Store {
	s := &Store{}
	s.Reset(count, initialCash, ids)
	return s
}

// Reset recreates every team from scratch.
func (s *Store) Reset(count int, initialCash decimal.Decimal, ids []market.SecurityID) {
	s.order = make([]TeamID, 0, count)
	s.teams = make(map[TeamID]*Team, count)
	for i := 1; i <= count; i++ {
		t := &Team{
			ID:       TeamID(fmt.Sprintf("team%d", i)),
			Name:     fmt.Sprintf("Team %d", i),
			Cash:     initialCash,
			Holdings: make(map[market.SecurityID]int64, len(ids)),
		}
		for _, id := range ids {
			t.Holdings[id] = 0
		}
		s.order = append(s.order, t.ID)
		s.teams[t.ID] = t
	}
}

// Get returns the live team record for id.
func (s *Store) Get(id TeamID) (*Team, error) {
	t, ok := s.teams[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownTeam, id)
	}
	return t, nil
}

// IDs returns team ids in creation order.
func (s *Store) IDs() []TeamID {
	out := make([]TeamID, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of teams.
func (s *Store) Len() int {
	return len(s.order)
}

// Valuation returns cash plus the market value of every holding.
func Valuation(t *Team, pricer Pricer) (decimal.Decimal, error) {
	total := t.Cash
	for id, qty := range t.Holdings {
		if qty == 0 {
			continue
		}
		price, err := pricer.Price(id)
		if err != nil {
			return decimal.Zero, fmt.Errorf("value team %s: %w", t.ID, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(qty)))
	}
	return total, nil
}

// Tokens converts a valuation into whole reward tokens.
func Tokens(valuation, tokenValue decimal.Decimal) int64 {
	if !tokenValue.IsPositive() || valuation.IsNegative() {
		return 0
	}
	return valuation.Div(tokenValue).Floor().IntPart()
}

// View returns a copy of team id with valuation and tokens.
func (s *Store) View(id TeamID, pricer Pricer, tokenValue decimal.Decimal) (View, error) {
	t, err := s.Get(id)
	if err != nil {
		return View{}, err
	}
	return buildView(t, pricer, tokenValue)
}

// Views returns every team in creation order.
func (s *Store) Views(pricer Pricer, tokenValue decimal.Decimal) ([]View, error) {
	out := make([]View, 0, len(s.order))
	for _, id := range s.order {
		v, err := buildView(s.teams[id], pricer, tokenValue)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Leaderboard ranks teams by valuation, highest first. Equal valuations share
// a rank and keep creation order.
func (s *Store) Leaderboard(pricer Pricer, tokenValue decimal.Decimal) ([]Standing, error) {
	views, err := s.Views(pricer, tokenValue)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Valuation.GreaterThan(views[j].Valuation)
	})

	out := make([]Standing, len(views))
	for i, v := range views {
		rank := i + 1
		if i > 0 && v.Valuation.Equal(views[i-1].Valuation) {
			rank = out[i-1].Rank
		}
		out[i] = Standing{Rank: rank, View: v}
	}
	return out, nil
}

func buildView(t *Team, pricer Pricer, tokenValue decimal.Decimal) (View, error) {
	val, err := Valuation(t, pricer)
	if err != nil {
		return View{}, err
	}
	holdings := make(map[market.SecurityID]int64, len(t.Holdings))
	for id, qty := range t.Holdings {
		holdings[id] = qty
	}
	return View{
		ID:        t.ID,
		Name:      t.Name,
		Cash:      t.Cash,
		Holdings:  holdings,
		Valuation: val,
		Tokens:    Tokens(val, tokenValue),
	}, nil
}
