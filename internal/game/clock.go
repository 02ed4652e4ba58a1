package game

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTransition is returned when a lifecycle call is not allowed from
// the current state.
var ErrInvalidTransition = errors.New("invalid transition")

// State is the lifecycle state derived from the running flag and start time.
type State uint8

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Clock tracks the two lifecycle bits (running, start time) plus the cadence
// mode. Paused is not stored: it is "not running with a start time".
type Clock struct {
	running   bool
	startedAt time.Time
	testMode  bool
	now       func() time.Time
}

// NewClock returns a stopped clock.
func NewClock(testMode bool, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{testMode: testMode, now: now}
}

// Start moves a stopped or paused clock to running and records the start time.
func (c *Clock) Start() error {
	if c.running {
		return fmt.Errorf("%w: already running", ErrInvalidTransition)
	}
	c.running = true
	c.startedAt = c.now()
	return nil
}

// Pause stops a running clock, keeping its start time.
func (c *Clock) Pause() error {
	if !c.running {
		return fmt.Errorf("%w: not running", ErrInvalidTransition)
	}
	c.running = false
	return nil
}

// Reset clears both lifecycle bits. The mode is kept.
func (c *Clock) Reset() {
	c.running = false
	c.startedAt = time.Time{}
}

// SetTestMode switches the cadence mode and reports whether it changed.
func (c *Clock) SetTestMode(on bool) bool {
	changed := c.testMode != on
	c.testMode = on
	return changed
}

func (c *Clock) Running() bool  { return c.running }
func (c *Clock) TestMode() bool { return c.testMode }

// StartedAt returns the last start time, or nil if never started since reset.
func (c *Clock) StartedAt() *time.Time {
	if c.startedAt.IsZero() {
		return nil
	}
	t := c.startedAt
	return &t
}

// State derives the lifecycle state.
func (c *Clock) State() State {
	switch {
	case c.running:
		return StateRunning
	case !c.startedAt.IsZero():
		return StatePaused
	default:
		return StateStopped
	}
}

// Elapsed is the time since the last start; zero when never started.
func (c *Clock) Elapsed() time.Duration {
	if c.startedAt.IsZero() {
		return 0
	}
	return c.now().Sub(c.startedAt)
}
