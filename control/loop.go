package control

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/calvinmclean/feedswap"
)

// LaneHardware binds one lane's sensors, reverse button, and motor driver
type LaneHardware struct {
	In      Switch
	Out     Switch
	Reverse Switch
	Motor   StepperConfig
}

// Hardware binds every input and output the controller touches. The firmware
// fills this with machine pins; tests fill it with fakes.
type Hardware struct {
	Lane1 LaneHardware
	Lane2 LaneHardware

	Junction   Switch
	BufferLow  Switch
	BufferHigh Switch

	Dial   ADC
	Status OutputPin

	// Telemetry receives the periodic debug line; nil disables it
	Telemetry io.Writer
}

// Controller owns both lanes and the arbitration record and advances the
// whole system one tick at a time. All state is touched only from Tick, so
// there is exactly one writer per tick and no locking.
type Controller struct {
	cfg Config

	lanes [2]*Lane
	arb   *Arbiter
	rate  *FeedRate

	junction   *Debounced
	bufferLow  *Debounced
	bufferHigh *Debounced
	reverse    [2]*Debounced

	indicator *Indicator
	telemetry io.Writer
	nextTelem time.Time

	start   time.Time
	verbose bool

	lastStatus Status
}

func New(cfg Config, hw Hardware, now time.Time) (*Controller, error) {
	cfg = cfg.withDefaults()

	if hw.Dial == nil {
		return nil, errors.New("feed-rate dial is required")
	}

	motor1, err := NewStepper(hw.Lane1.Motor)
	if err != nil {
		return nil, errors.New("error creating lane 1 stepper: " + err.Error())
	}
	motor2, err := NewStepper(hw.Lane2.Motor)
	if err != nil {
		return nil, errors.New("error creating lane 2 stepper: " + err.Error())
	}

	c := &Controller{
		cfg: cfg,
		lanes: [2]*Lane{
			NewLane(feedswap.Lane1, debounced(hw.Lane1.In, cfg, now), debounced(hw.Lane1.Out, cfg, now), motor1, cfg),
			NewLane(feedswap.Lane2, debounced(hw.Lane2.In, cfg, now), debounced(hw.Lane2.Out, cfg, now), motor2, cfg),
		},
		arb:        NewArbiter(cfg),
		rate:       NewFeedRate(hw.Dial, cfg, now),
		junction:   debounced(hw.Junction, cfg, now),
		bufferLow:  debounced(hw.BufferLow, cfg, now),
		bufferHigh: debounced(hw.BufferHigh, cfg, now),
		reverse: [2]*Debounced{
			debounced(hw.Lane1.Reverse, cfg, now),
			debounced(hw.Lane2.Reverse, cfg, now),
		},
		telemetry: hw.Telemetry,
		start:     now,
		nextTelem: now.Add(cfg.TelemetryPeriod),
	}

	if hw.Status != nil {
		c.indicator = NewIndicator(hw.Status, now)
	}

	return c, nil
}

func debounced(sw Switch, cfg Config, now time.Time) *Debounced {
	return NewDebounced(sw, cfg.Debounce, now)
}

// Tick runs one full control pass in dependency order: refresh inputs,
// manual overrides, autoload triggers, feed demand and swap arbitration,
// pending step pulses, indicator, throttled telemetry.
func (c *Controller) Tick(now time.Time) {
	for _, l := range c.lanes {
		l.UpdateInputs(now)
	}
	c.junction.Update(now)
	c.bufferLow.Update(now)
	c.bufferHigh.Update(now)
	c.reverse[0].Update(now)
	c.reverse[1].Update(now)

	manual1 := c.reverse[0].Asserted()
	manual2 := c.reverse[1].Asserted()
	c.lanes[0].SetManual(manual1, now)
	c.lanes[1].SetManual(manual2, now)

	c.lanes[0].MaybeAutoload(now, manual1)
	c.lanes[1].MaybeAutoload(now, manual2)

	c.arb.Tick(now, c.lanes, ArbiterInputs{
		YClear:     !c.junction.Asserted(),
		BufferLow:  c.bufferLow.Asserted(),
		BufferHigh: c.bufferHigh.Asserted(),
		Manual:     manual1 || manual2,
		Rate:       c.rate.Sample(now),
	})

	for _, l := range c.lanes {
		l.Tick(now)
	}

	status := Classify(c.lanes, c.arb.Armed())
	if c.indicator != nil {
		c.indicator.Tick(now, status)
	}
	if c.verbose && status != c.lastStatus && c.telemetry != nil {
		fmt.Fprintf(c.telemetry, "[%.1f] status %s -> %s\r\n",
			now.Sub(c.start).Seconds(), c.lastStatus, status)
	}
	c.lastStatus = status

	if c.telemetry != nil && c.cfg.TelemetryPeriod > 0 && !now.Before(c.nextTelem) {
		fmt.Fprintf(c.telemetry, "%s\r\n", c.Snapshot(now))
		c.nextTelem = now.Add(c.cfg.TelemetryPeriod)
	}
}

// Snapshot reports the full system state for telemetry
func (c *Controller) Snapshot(now time.Time) feedswap.Snapshot {
	return feedswap.Snapshot{
		Uptime:     now.Sub(c.start),
		Active:     c.arb.Active(),
		Armed:      c.arb.Armed(),
		Manual:     c.reverse[0].Asserted() || c.reverse[1].Asserted(),
		Rate:       c.rate.Value(),
		Lanes:      [2]feedswap.LaneSnapshot{c.lanes[0].Snapshot(), c.lanes[1].Snapshot()},
		YClear:     !c.junction.Asserted(),
		BufferLow:  c.bufferLow.Asserted(),
		BufferHigh: c.bufferHigh.Asserted(),
	}
}

// Debug writes a snapshot line immediately, regardless of the telemetry
// throttle
func (c *Controller) Debug(now time.Time) {
	if c.telemetry != nil {
		fmt.Fprintf(c.telemetry, "%s\r\n", c.Snapshot(now))
	}
}

// Verbose enables status-transition logging
func (c *Controller) Verbose() {
	c.verbose = true
}

// ForceActive overrides the active lane from the debug console
func (c *Controller) ForceActive(id feedswap.LaneID) {
	c.arb.ForceActive(id)
}

// Active returns the currently active lane
func (c *Controller) Active() feedswap.LaneID {
	return c.arb.Active()
}

// Lane returns the lane with the given ID, for inspection
func (c *Controller) Lane(id feedswap.LaneID) *Lane {
	if c.lanes[0].ID() == id {
		return c.lanes[0]
	}
	return c.lanes[1]
}
