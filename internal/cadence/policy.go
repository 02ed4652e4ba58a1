package cadence

import (
	"time"

	"github.com/zappabad/actibourse/internal/market/core"
)

// Policy decides how long to wait before the next price update.
type Policy struct {
	cfg Config
	rnd core.RandSource
}

// NewPolicy returns a Policy drawing game-mode delays from rnd.
func NewPolicy(cfg Config, rnd core.RandSource) *Policy {
	return &Policy{cfg: cfg.withDefaults(), rnd: rnd}
}

// Next returns the fixed test interval, or in game mode a delay drawn
// uniformly from [GameMinInterval, GameMaxInterval].
func (p *Policy) Next(testMode bool) time.Duration {
	if testMode {
		return p.cfg.TestInterval
	}
	span := p.cfg.GameMaxInterval - p.cfg.GameMinInterval
	return p.cfg.GameMinInterval + time.Duration(p.rnd.Float64()*float64(span))
}
