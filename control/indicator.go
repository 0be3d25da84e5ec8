package control

import (
	"time"

	"github.com/calvinmclean/feedswap"
)

// Status classifies the aggregate system state for the indicator LED
type Status int

const (
	StatusIdle Status = iota
	StatusFeeding
	StatusAutoload
	StatusArmed
	StatusManual
)

func (s Status) String() string {
	switch s {
	case StatusFeeding:
		return "feeding"
	case StatusAutoload:
		return "autoload"
	case StatusArmed:
		return "armed"
	case StatusManual:
		return "manual"
	default:
		fallthrough
	case StatusIdle:
		return "idle"
	}
}

// Pattern is a fixed-period on/off duty cycle keyed by elapsed time
type Pattern struct {
	Period time.Duration
	On     time.Duration
}

// Pattern returns the blink pattern for this status
func (s Status) Pattern() Pattern {
	switch s {
	case StatusManual:
		return Pattern{Period: 200 * time.Millisecond, On: 100 * time.Millisecond}
	case StatusArmed:
		return Pattern{Period: 500 * time.Millisecond, On: 250 * time.Millisecond}
	case StatusAutoload:
		return Pattern{Period: time.Second, On: 500 * time.Millisecond}
	case StatusFeeding:
		// solid on
		return Pattern{Period: time.Second, On: time.Second}
	default:
		// short heartbeat so a powered idle board is distinguishable from a
		// dead one
		return Pattern{Period: 2 * time.Second, On: 50 * time.Millisecond}
	}
}

// Lit reports whether the LED is on at the given elapsed time
func (p Pattern) Lit(elapsed time.Duration) bool {
	if p.On >= p.Period {
		return true
	}
	return elapsed%p.Period < p.On
}

// Classify maps lane and arbitration state to a status, highest priority
// first: manual reverse, armed swap, autoload in progress, feeding, idle.
func Classify(lanes [2]*Lane, armed bool) Status {
	anyMode := func(mode feedswap.TaskMode) bool {
		return lanes[0].Mode() == mode || lanes[1].Mode() == mode
	}

	switch {
	case anyMode(feedswap.ModeReverse):
		return StatusManual
	case armed:
		return StatusArmed
	case anyMode(feedswap.ModeAutoload):
		return StatusAutoload
	case anyMode(feedswap.ModeFeed):
		return StatusFeeding
	default:
		return StatusIdle
	}
}

// Indicator drives the status output. It keeps no state between ticks
// beyond the startup epoch the patterns are keyed against.
type Indicator struct {
	out   OutputPin
	epoch time.Time
}

func NewIndicator(out OutputPin, now time.Time) *Indicator {
	return &Indicator{out: out, epoch: now}
}

func (i *Indicator) Tick(now time.Time, status Status) {
	i.out.Set(status.Pattern().Lit(now.Sub(i.epoch)))
}
