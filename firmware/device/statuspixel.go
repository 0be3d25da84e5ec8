package device

import (
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ws2812"
)

var (
	pixelOn  = color.RGBA{G: 0x20}
	pixelOff = color.RGBA{}
)

// StatusPixel drives a single NeoPixel as an on/off status light. The color
// write is slow relative to the tick period, so it only happens on change.
type StatusPixel struct {
	dev  ws2812.Device
	lit  bool
	init bool
}

func NewStatusPixel(pin machine.Pin) *StatusPixel {
	pin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	return &StatusPixel{dev: ws2812.NewWS2812(pin)}
}

func (p *StatusPixel) Set(on bool) {
	if p.init && on == p.lit {
		return
	}
	p.lit = on
	p.init = true

	c := pixelOff
	if on {
		c = pixelOn
	}
	err := p.dev.WriteColors([]color.RGBA{c})
	if err != nil {
		println("error writing status pixel:", err.Error())
	}
}
