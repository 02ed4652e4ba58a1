package cadence

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zappabad/actibourse/internal/market/core"
	marketview "github.com/zappabad/actibourse/internal/market/view"
	"go.uber.org/zap"
)

// Target is the session the runner drives.
type Target interface {
	IsRunning() bool
	IsTestMode() bool
	UpdatePrices() marketview.MarketSnapshot
}

// Observer is notified after every automatic price update.
type Observer interface {
	ObservePriceUpdate(snap marketview.MarketSnapshot)
}

// Event is emitted each time the runner's timer fires.
type Event struct {
	Time time.Time
	// Updated is false when the timer fired while the game was not running.
	Updated  bool
	Snapshot marketview.MarketSnapshot
	// Next is the delay until the following fire.
	Next time.Duration
}

// Option customizes a Runner.
type Option func(*Runner)

// WithRand sets the source for game-mode delays.
func WithRand(rnd core.RandSource) Option {
	return func(r *Runner) { r.rnd = rnd }
}

// WithObserver registers an observer for automatic updates.
func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

// Runner triggers price updates on the timing policy. It never touches session
// state directly, only through Target.
type Runner struct {
	cfg      Config
	target   Target
	policy   *Policy
	rnd      core.RandSource
	observer Observer
	logger   *zap.Logger

	nextAt        atomic.Int64
	events        chan Event
	droppedEvents atomic.Int64
	kick          chan struct{}

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewRunner creates and starts a Runner.
func NewRunner(cfg Config, target Target, logger *zap.Logger, opts ...Option) *Runner {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{
		cfg:    cfg,
		target: target,
		logger: logger.Named("cadence"),
		events: make(chan Event, cfg.EventBuffer),
		kick:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.rnd == nil {
		r.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	r.policy = NewPolicy(cfg, r.rnd)

	first := r.schedule()
	r.wg.Add(1)
	go r.run(first)

	return r
}

func (r *Runner) run(first time.Duration) {
	defer r.wg.Done()
	defer close(r.events)

	timer := time.NewTimer(first)
	defer timer.Stop()

	for {
		select {
		case <-r.closed:
			return
		case <-r.kick:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(r.schedule())
		case <-timer.C:
			r.fire()
			timer.Reset(time.Until(time.Unix(0, r.nextAt.Load())))
		}
	}
}

// schedule draws the next delay and records when it will fire.
func (r *Runner) schedule() time.Duration {
	d := r.policy.Next(r.target.IsTestMode())
	r.nextAt.Store(time.Now().Add(d).UnixNano())
	return d
}

func (r *Runner) fire() {
	ev := Event{Time: time.Now()}

	if r.target.IsRunning() {
		ev.Snapshot = r.target.UpdatePrices()
		ev.Updated = true
		if r.observer != nil {
			r.observer.ObservePriceUpdate(ev.Snapshot)
		}
	}

	ev.Next = r.schedule()
	if ev.Updated {
		r.logger.Info("prices updated",
			zap.Int("securities", len(ev.Snapshot.Securities)),
			zap.Duration("next", ev.Next),
		)
	} else {
		r.logger.Debug("update skipped, game not running", zap.Duration("next", ev.Next))
	}
	r.emitEvent(ev)
}

func (r *Runner) emitEvent(ev Event) {
	if r.cfg.DropEvents {
		select {
		case r.events <- ev:
		default:
			r.droppedEvents.Add(1)
		}
	} else {
		select {
		case r.events <- ev:
		case <-r.closed:
		}
	}
}

// Reschedule restarts the countdown from now, e.g. after a start or mode switch.
func (r *Runner) Reschedule() {
	select {
	case r.kick <- struct{}{}:
	default:
	}
}

// NextUpdate returns when the timer will next fire.
func (r *Runner) NextUpdate() time.Time {
	return time.Unix(0, r.nextAt.Load())
}

// Events returns the runner events channel.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// DroppedEvents returns the count of dropped events.
func (r *Runner) DroppedEvents() int64 {
	return r.droppedEvents.Load()
}

// Close shuts down the runner.
func (r *Runner) Close() {
	r.closeOnce.Do(func() {
		close(r.closed)
	})
	r.wg.Wait()
}
