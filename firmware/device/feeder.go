package device

import (
	"machine"
	"time"

	"github.com/calvinmclean/feedswap"
	"github.com/calvinmclean/feedswap/control"
)

// Feeder adapts the control loop to the debug console and USB serial. The
// console commands run between ticks, so they share the loop's single-writer
// discipline.
type Feeder struct {
	ctrl *control.Controller
}

func NewFeeder(ctrl *control.Controller) *Feeder {
	return &Feeder{ctrl: ctrl}
}

// Debug prints a state snapshot immediately
func (f *Feeder) Debug() {
	f.ctrl.Debug(time.Now())
}

// Verbose increases logging
func (f *Feeder) Verbose() {
	f.ctrl.Verbose()
	println("verbose mode enabled")
}

// ForceActive overrides swap arbitration from the console
func (f *Feeder) ForceActive(id feedswap.LaneID) {
	f.ctrl.ForceActive(id)
	println("active lane forced to", id.String())
}

func (f *Feeder) ReadByte() (byte, error) {
	return machine.Serial.ReadByte()
}

// SerialWriter sends telemetry lines over USB serial
type SerialWriter struct{}

func (SerialWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		err := machine.Serial.WriteByte(b)
		if err != nil {
			return i, err
		}
	}
	return len(p), nil
}
