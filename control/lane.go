package control

import (
	"time"

	"github.com/calvinmclean/feedswap"
)

// Lane owns one filament path: its motor, its IN/OUT sensors, and the task
// it is currently running. Tasks are non-blocking background state machines
// advanced once per tick, never run-to-completion loops, so one lane's
// autoload cannot stall the other lane's feed.
type Lane struct {
	id    feedswap.LaneID
	in    *Debounced
	out   *Debounced
	motor *Stepper
	cfg   Config

	mode     feedswap.TaskMode
	cadence  uint32
	nextStep time.Time
	deadline time.Time

	// prevIn supports edge detection for the autoload trigger
	prevIn bool
}

func NewLane(id feedswap.LaneID, in, out *Debounced, motor *Stepper, cfg Config) *Lane {
	return &Lane{
		id:     id,
		in:     in,
		out:    out,
		motor:  motor,
		cfg:    cfg,
		mode:   feedswap.ModeIdle,
		prevIn: in.Asserted(),
	}
}

func (l *Lane) ID() feedswap.LaneID { return l.id }

func (l *Lane) Mode() feedswap.TaskMode { return l.mode }

// InPresent reports the debounced IN sensor (filament present upstream)
func (l *Lane) InPresent() bool { return l.in.Asserted() }

// OutPresent reports the debounced OUT sensor (filament loaded to the lane exit)
func (l *Lane) OutPresent() bool { return l.out.Asserted() }

// UpdateInputs refreshes this lane's debounced sensors. Must run before any
// decision that reads them in the same tick.
func (l *Lane) UpdateInputs(now time.Time) {
	l.in.Update(now)
	l.out.Update(now)
}

// SetManual preempts whatever the lane is doing while the reverse button is
// held and jogs the motor backwards. On release the lane returns to Idle;
// interrupted tasks are not resumed.
func (l *Lane) SetManual(held bool, now time.Time) {
	if held {
		if l.mode != feedswap.ModeReverse {
			l.start(feedswap.ModeReverse, l.cfg.ReverseRate, false, now)
		}
		return
	}
	if l.mode == feedswap.ModeReverse {
		l.idle()
	}
}

// MaybeAutoload starts an unattended forward load on a rising edge of the IN
// sensor while the lane is Idle and OUT reports empty. Call exactly once per
// tick; it also maintains the edge-detection state.
func (l *Lane) MaybeAutoload(now time.Time, manualHeld bool) {
	in := l.InPresent()
	rising := in && !l.prevIn
	l.prevIn = in

	if !rising || manualHeld || l.mode != feedswap.ModeIdle || l.OutPresent() {
		return
	}

	l.start(feedswap.ModeAutoload, l.cfg.AutoloadRate, true, now)
	l.deadline = now.Add(l.cfg.AutoloadTimeout)
}

// StartFeed commands the lane into Feed, or refreshes its cadence if it is
// already feeding. Only the arbiter calls this; a lane never feeds on its
// own initiative.
func (l *Lane) StartFeed(now time.Time, cadence uint32) {
	switch l.mode {
	case feedswap.ModeIdle:
		l.start(feedswap.ModeFeed, cadence, true, now)
	case feedswap.ModeFeed:
		l.cadence = cadence
	}
}

// StopFeed returns a feeding lane to Idle. No-op in any other mode.
func (l *Lane) StopFeed() {
	if l.mode == feedswap.ModeFeed {
		l.idle()
	}
}

// Tick finishes due tasks and emits a step pulse if one is pending
func (l *Lane) Tick(now time.Time) {
	if l.mode == feedswap.ModeAutoload {
		// OUT tripping is success, timeout is abandonment; both are ordinary
		// completion, not faults
		if l.OutPresent() || !now.Before(l.deadline) {
			l.idle()
		}
	}

	if l.mode == feedswap.ModeIdle {
		return
	}

	if !now.Before(l.nextStep) {
		l.motor.Pulse()
		l.nextStep = now.Add(l.stepInterval())
	}
}

func (l *Lane) start(mode feedswap.TaskMode, cadence uint32, forward bool, now time.Time) {
	l.mode = mode
	l.cadence = cadence
	l.motor.SetForward(forward)
	l.motor.SetEnabled(true)
	l.nextStep = now
}

func (l *Lane) idle() {
	l.mode = feedswap.ModeIdle
	l.motor.SetEnabled(false)
}

// stepInterval converts the current cadence into the delay until the next
// pulse. The pulse width is subtracted from the naive period so duty-cycle
// stays bounded, and the result is floored at MinStepInterval.
func (l *Lane) stepInterval() time.Duration {
	if l.cadence == 0 {
		return l.cfg.MinStepInterval
	}
	interval := time.Second/time.Duration(l.cadence) - l.motor.PulseWidth()
	if interval < l.cfg.MinStepInterval {
		interval = l.cfg.MinStepInterval
	}
	return interval
}

// Snapshot reports the lane's sensor and mode state for telemetry
func (l *Lane) Snapshot() feedswap.LaneSnapshot {
	return feedswap.LaneSnapshot{
		In:   l.InPresent(),
		Out:  l.OutPresent(),
		Mode: l.mode,
	}
}
