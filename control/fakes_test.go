package control

import (
	"time"

	"github.com/calvinmclean/feedswap"
)

// fakeInput simulates a switch wired C/NO to ground with a pull-up: the raw
// reading idles high and goes low when the switch asserts.
type fakeInput struct {
	raw bool
}

func newFakeSwitch() *fakeInput {
	return &fakeInput{raw: true}
}

func (f *fakeInput) Get() bool { return f.raw }

// assert closes or opens the switch in logical terms
func (f *fakeInput) assert(on bool) { f.raw = !on }

func (f *fakeInput) asSwitch() Switch {
	return Switch{Pin: f, ActiveLow: true}
}

// fakeOutput records edges on an output pin
type fakeOutput struct {
	value bool
	rises int
}

func (f *fakeOutput) Set(v bool) {
	if v && !f.value {
		f.rises++
	}
	f.value = v
}

type fakeADC struct {
	raw uint16
}

func (f *fakeADC) Get() uint16 { return f.raw }

// testConfig removes the debounce window and pulse width so unit tests can
// flip inputs tick-to-tick without modelling settle time
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Debounce = time.Nanosecond
	cfg.PulseWidth = time.Nanosecond
	cfg.TelemetryPeriod = 0
	return cfg
}

type fakeMotor struct {
	enable fakeOutput
	dir    fakeOutput
	step   fakeOutput
}

func (m *fakeMotor) config() StepperConfig {
	return StepperConfig{
		Enable:          &m.enable,
		Dir:             &m.dir,
		Step:            &m.step,
		EnableActiveLow: true,
		PulseWidth:      time.Nanosecond,
	}
}

// testLane builds a lane over fake hardware with the given initial sensor
// state
func testLane(id feedswap.LaneID, inPresent, outPresent bool) (*Lane, *laneFakes) {
	cfg := testConfig()
	now := time.Unix(0, 0)

	f := &laneFakes{
		in:    newFakeSwitch(),
		out:   newFakeSwitch(),
		motor: &fakeMotor{},
	}
	f.in.assert(inPresent)
	f.out.assert(outPresent)

	motor, err := NewStepper(f.motor.config())
	if err != nil {
		panic(err)
	}

	in := NewDebounced(f.in.asSwitch(), cfg.Debounce, now)
	out := NewDebounced(f.out.asSwitch(), cfg.Debounce, now)
	in.Update(now)
	out.Update(now)

	return NewLane(id, in, out, motor, cfg), f
}

type laneFakes struct {
	in    *fakeInput
	out   *fakeInput
	motor *fakeMotor
}
