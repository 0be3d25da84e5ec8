package control

// InputPin is one raw digital input. machine.Pin satisfies this directly
// under TinyGo; tests provide fakes.
type InputPin interface {
	Get() bool
}

// OutputPin is one digital output
type OutputPin interface {
	Set(bool)
}

// ADC samples one analog input as a 16-bit reading, matching machine.ADC
type ADC interface {
	Get() uint16
}

// Switch binds a raw input to its wiring polarity. The feeder's
// microswitches are C/NO to GND with internal pull-ups, so they read LOW
// when asserted.
type Switch struct {
	Pin       InputPin
	ActiveLow bool
}
