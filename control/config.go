package control

import "time"

// Config holds every tuning threshold for the feeder. It is set once at
// startup and never mutated; changing a value means reflashing.
type Config struct {
	// Debounce is how long a raw switch reading must hold steady before the
	// committed value changes. Genuine transitions shorter than this are
	// dropped as noise.
	Debounce time.Duration

	// LowDelay is how long buffer-low must persist before feed is demanded
	LowDelay time.Duration

	// SwapCooldown is the minimum time between lane swaps (anti-pingpong)
	SwapCooldown time.Duration

	// AutoloadTimeout bounds an autoload run when the OUT sensor never trips
	AutoloadTimeout time.Duration

	// FeedMin/FeedMax bound the dial-controlled feed cadence in steps/sec
	FeedMin uint32
	FeedMax uint32

	// AutoloadRate is the fixed forward cadence while autoloading
	AutoloadRate uint32

	// ReverseRate is the fixed cadence while a manual reverse button is held
	ReverseRate uint32

	// PulseWidth is the width of one step pulse. This is the only busy-wait
	// in the system, so keep it in single-digit microseconds.
	PulseWidth time.Duration

	// MinStepInterval floors the computed step interval so duty-cycle stays
	// bounded at high cadence
	MinStepInterval time.Duration

	// PotReadPeriod throttles resampling of the noisy analog dial
	PotReadPeriod time.Duration

	// RequireYClear gates swaps on the Y-junction sensor reading clear
	RequireYClear bool

	// TelemetryPeriod throttles the human-readable debug line. Zero disables
	// telemetry entirely.
	TelemetryPeriod time.Duration
}

// DefaultConfig returns the tuning used on the reference hardware
func DefaultConfig() Config {
	return Config{
		Debounce:        10 * time.Millisecond,
		LowDelay:        2 * time.Second,
		SwapCooldown:    800 * time.Millisecond,
		AutoloadTimeout: 15 * time.Second,
		FeedMin:         300,
		FeedMax:         2200,
		AutoloadRate:    1200,
		ReverseRate:     600,
		PulseWidth:      2 * time.Microsecond,
		MinStepInterval: 200 * time.Microsecond,
		PotReadPeriod:   50 * time.Millisecond,
		RequireYClear:   true,
		TelemetryPeriod: 500 * time.Millisecond,
	}
}

// withDefaults fills zero values so a partially-specified Config still has
// sane timing
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Debounce == 0 {
		c.Debounce = def.Debounce
	}
	if c.LowDelay == 0 {
		c.LowDelay = def.LowDelay
	}
	if c.SwapCooldown == 0 {
		c.SwapCooldown = def.SwapCooldown
	}
	if c.AutoloadTimeout == 0 {
		c.AutoloadTimeout = def.AutoloadTimeout
	}
	if c.FeedMax == 0 {
		c.FeedMin = def.FeedMin
		c.FeedMax = def.FeedMax
	}
	if c.AutoloadRate == 0 {
		c.AutoloadRate = def.AutoloadRate
	}
	if c.ReverseRate == 0 {
		c.ReverseRate = def.ReverseRate
	}
	if c.MinStepInterval == 0 {
		c.MinStepInterval = def.MinStepInterval
	}
	if c.PotReadPeriod == 0 {
		c.PotReadPeriod = def.PotReadPeriod
	}
	return c
}
