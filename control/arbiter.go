package control

import (
	"time"

	"github.com/calvinmclean/feedswap"
)

// ArbiterInputs are the aggregate sensor readings the arbiter needs on one
// tick, already debounced and polarity-adjusted.
type ArbiterInputs struct {
	YClear     bool
	BufferLow  bool
	BufferHigh bool

	// Manual is true while any lane's reverse button is held. It suppresses
	// feed commands system-wide for the tick without clearing arbitration
	// state.
	Manual bool

	// Rate is the live dial cadence for the active lane's feed task
	Rate uint32
}

// Arbiter decides which lane is active, when a swap is armed, when it
// executes, and commands the active lane's Feed task. Exactly one lane is
// active at any instant, and only the active lane is ever commanded to feed.
type Arbiter struct {
	cfg Config

	active        feedswap.LaneID
	armed         bool
	cooldownUntil time.Time

	lowSeen  bool
	lowSince time.Time
}

func NewArbiter(cfg Config) *Arbiter {
	return &Arbiter{
		cfg:    cfg,
		active: feedswap.Lane1,
	}
}

func (a *Arbiter) Active() feedswap.LaneID { return a.active }

func (a *Arbiter) Armed() bool { return a.armed }

// ForceActive is a console override that selects the active lane directly.
// It disarms any pending swap and leaves the cooldown untouched.
func (a *Arbiter) ForceActive(id feedswap.LaneID) {
	a.active = id
	a.armed = false
}

// Tick runs one arbitration pass. Lane inputs must already be refreshed for
// this tick; the arbiter is the only component that commands Feed.
func (a *Arbiter) Tick(now time.Time, lanes [2]*Lane, in ArbiterInputs) {
	active, candidate := a.pick(lanes)

	// Arm the moment the active lane runs dry upstream. One-way latch until
	// a swap executes.
	if !active.InPresent() {
		a.armed = true
	}

	demand := a.feedDemand(now, in.BufferLow, in.BufferHigh)

	if a.swapReady(now, candidate, in, demand) {
		a.active = candidate.ID()
		a.armed = false
		a.cooldownUntil = now.Add(a.cfg.SwapCooldown)
		active, candidate = candidate, active
	}

	// The cooldown gates swaps only, never feed itself
	if demand && !in.Manual && active.OutPresent() {
		active.StartFeed(now, in.Rate)
	} else {
		active.StopFeed()
	}

	// The inactive lane is never fed; after a swap this also stops the
	// previously active lane within the same tick.
	candidate.StopFeed()
}

// feedDemand applies the buffer hysteresis: buffer-low must persist for
// LowDelay, and buffer-high vetoes demand without resetting the low timer.
func (a *Arbiter) feedDemand(now time.Time, low, high bool) bool {
	if !low {
		a.lowSeen = false
		return false
	}
	if !a.lowSeen {
		a.lowSeen = true
		a.lowSince = now
	}
	if high {
		return false
	}
	return now.Sub(a.lowSince) >= a.cfg.LowDelay
}

func (a *Arbiter) swapReady(now time.Time, candidate *Lane, in ArbiterInputs, demand bool) bool {
	if !a.armed || !demand {
		return false
	}
	if a.cfg.RequireYClear && !in.YClear {
		return false
	}
	if now.Before(a.cooldownUntil) {
		return false
	}
	// The candidate must actually be loaded to its exit, not merely armed
	return candidate.OutPresent()
}

func (a *Arbiter) pick(lanes [2]*Lane) (active, candidate *Lane) {
	if lanes[0].ID() == a.active {
		return lanes[0], lanes[1]
	}
	return lanes[1], lanes[0]
}
