package cadence

import "time"

// Config holds the timing policy for automatic price updates.
type Config struct {
	// TestInterval is the fixed delay between updates in test mode.
	TestInterval time.Duration
	// GameMinInterval and GameMaxInterval bound the random delay in game mode.
	GameMinInterval time.Duration
	GameMaxInterval time.Duration
	// EventBuffer is the size of the runner events channel.
	EventBuffer int
	// DropEvents determines whether the events channel drops on overflow.
	DropEvents bool
}

// DefaultConfig returns a Config with reasonable defaults.
func DefaultConfig() Config {
	return Config{
		TestInterval:    10 * time.Second,
		GameMinInterval: 5 * time.Minute,
		GameMaxInterval: 90 * time.Minute,
		EventBuffer:     64,
		DropEvents:      true,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.TestInterval <= 0 {
		c.TestInterval = def.TestInterval
	}
	if c.GameMinInterval <= 0 {
		c.GameMinInterval = def.GameMinInterval
	}
	if c.GameMaxInterval <= 0 {
		c.GameMaxInterval = def.GameMaxInterval
	}
	if c.GameMaxInterval < c.GameMinInterval {
		c.GameMaxInterval = c.GameMinInterval
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = def.EventBuffer
	}
	return c
}
