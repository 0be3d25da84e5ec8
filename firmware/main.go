package main

import (
	"machine"
	"time"

	"github.com/calvinmclean/feedswap/control"
	"github.com/calvinmclean/feedswap/firmware/commands"
	"github.com/calvinmclean/feedswap/firmware/device"
)

const tickPeriod = time.Millisecond

// All switches wire C/NO to ground with internal pull-ups, so every input
// reads low when asserted. The TMC2209 enable input is also active-low.
func main() {
	// give USB serial a moment to enumerate before the first prints
	time.Sleep(200 * time.Millisecond)

	cfg := control.DefaultConfig()

	hw := control.Hardware{
		Lane1: control.LaneHardware{
			In:      pullupSwitch(machine.GP24),
			Out:     pullupSwitch(machine.GP25),
			Reverse: pullupSwitch(machine.GP2),
			Motor:   stepperPins(machine.GP8, machine.GP9, machine.GP10, cfg),
		},
		Lane2: control.LaneHardware{
			In:      pullupSwitch(machine.GP22),
			Out:     pullupSwitch(machine.GP23),
			Reverse: pullupSwitch(machine.GP3),
			Motor:   stepperPins(machine.GP14, machine.GP15, machine.GP16, cfg),
		},
		Junction:   pullupSwitch(machine.GP21),
		BufferLow:  pullupSwitch(machine.GP6),
		BufferHigh: pullupSwitch(machine.GP7),
		Dial:       dial(machine.GP26),
		Status:     device.NewStatusPixel(machine.GP11),
		Telemetry:  device.SerialWriter{},
	}

	ctrl, err := control.New(cfg, hw, time.Now())
	if err != nil {
		panic(err)
	}

	console := commands.NewConsole(device.NewFeeder(ctrl))

	println("feedswap ready")

	for {
		ctrl.Tick(time.Now())
		console.Poll()
		time.Sleep(tickPeriod)
	}
}

func pullupSwitch(pin machine.Pin) control.Switch {
	pin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return control.Switch{Pin: pin, ActiveLow: true}
}

func stepperPins(enable, dir, step machine.Pin, cfg control.Config) control.StepperConfig {
	enable.Configure(machine.PinConfig{Mode: machine.PinOutput})
	dir.Configure(machine.PinConfig{Mode: machine.PinOutput})
	step.Configure(machine.PinConfig{Mode: machine.PinOutput})

	return control.StepperConfig{
		Enable:          enable,
		Dir:             dir,
		Step:            step,
		EnableActiveLow: true,
		PulseWidth:      cfg.PulseWidth,
	}
}

func dial(pin machine.Pin) control.ADC {
	machine.InitADC()
	adc := machine.ADC{Pin: pin}
	adc.Configure(machine.ADCConfig{})
	return adc
}
