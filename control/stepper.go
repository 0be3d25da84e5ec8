package control

import (
	"errors"
	"time"
)

// StepperConfig binds one motor driver's enable/direction/step pins.
// TMC-style drivers have an active-low enable.
type StepperConfig struct {
	Enable OutputPin
	Dir    OutputPin
	Step   OutputPin

	InvertDir       bool
	EnableActiveLow bool

	// PulseWidth is the step pulse width; defaults to 2µs
	PulseWidth time.Duration
}

// Stepper drives one step/dir/enable motor axis. It has no timing policy of
// its own beyond the pulse width; cadence lives in Lane.
type Stepper struct {
	cfg     StepperConfig
	enabled bool
}

func NewStepper(cfg StepperConfig) (*Stepper, error) {
	if cfg.Enable == nil || cfg.Dir == nil || cfg.Step == nil {
		return nil, errors.New("stepper requires enable, dir, and step pins")
	}
	if cfg.PulseWidth == 0 {
		cfg.PulseWidth = 2 * time.Microsecond
	}

	s := &Stepper{cfg: cfg}
	s.cfg.Step.Set(false)
	s.cfg.Dir.Set(cfg.InvertDir)
	s.SetEnabled(false)
	return s, nil
}

// SetEnabled energizes or releases the driver
func (s *Stepper) SetEnabled(on bool) {
	s.enabled = on
	s.cfg.Enable.Set(on != s.cfg.EnableActiveLow)
}

func (s *Stepper) Enabled() bool {
	return s.enabled
}

// SetForward sets the travel direction; forward is the feeding direction
func (s *Stepper) SetForward(forward bool) {
	s.cfg.Dir.Set(forward != s.cfg.InvertDir)
}

// Pulse emits one step edge of the configured width. The wait is the only
// true busy-wait in the system, bounded to single-digit microseconds.
func (s *Stepper) Pulse() {
	if !s.enabled {
		return
	}
	s.cfg.Step.Set(true)
	if s.cfg.PulseWidth > 0 {
		time.Sleep(s.cfg.PulseWidth)
	}
	s.cfg.Step.Set(false)
}

// PulseWidth reports the configured step pulse width
func (s *Stepper) PulseWidth() time.Duration {
	return s.cfg.PulseWidth
}
