package core

import "github.com/zappabad/actibourse/internal/market"

// Pressure accumulates net shares bought per security since the last reset.
// It is the demand input to UpdatePrices and never goes below zero.
type Pressure struct {
	net map[market.SecurityID]int64
}

// NewPressure returns an all-zero accumulator for ids.
func NewPressure(ids []market.SecurityID) *Pressure {
	p := &Pressure{}
	p.Reset(ids)
	return p
}

// Reset zeroes the accumulator for ids, forgetting any other security.
func (p *Pressure) Reset(ids []market.SecurityID) {
	p.net = make(map[market.SecurityID]int64, len(ids))
	for _, id := range ids {
		p.net[id] = 0
	}
}

// Add records qty shares bought.
func (p *Pressure) Add(id market.SecurityID, qty int64) {
	p.net[id] += qty
}

// Release records qty shares sold, flooring the counter at zero.
func (p *Pressure) Release(id market.SecurityID, qty int64) {
	v := p.net[id] - qty
	if v < 0 {
		v = 0
	}
	p.net[id] = v
}

// Get returns the accumulated net shares for id.
func (p *Pressure) Get(id market.SecurityID) int64 {
	return p.net[id]
}

// Snapshot returns a copy of the accumulator.
func (p *Pressure) Snapshot() map[market.SecurityID]int64 {
	out := make(map[market.SecurityID]int64, len(p.net))
	for id, v := range p.net {
		out[id] = v
	}
	return out
}
