package control

import "time"

// Debounced stabilizes one raw switch reading against contact bounce. The
// committed value only changes after the raw reading has held steady for the
// full debounce window, so transitions shorter than the window never surface.
type Debounced struct {
	sw      Switch
	window  time.Duration
	stable  bool
	last    bool
	changed time.Time
}

// NewDebounced reads the pin once to seed the committed value
func NewDebounced(sw Switch, window time.Duration, now time.Time) *Debounced {
	raw := sw.Pin.Get()
	return &Debounced{
		sw:      sw,
		window:  window,
		stable:  raw,
		last:    raw,
		changed: now,
	}
}

// Update polls the raw pin. Call once per tick.
func (d *Debounced) Update(now time.Time) {
	raw := d.sw.Pin.Get()
	if raw != d.last {
		d.last = raw
		d.changed = now
		return
	}
	if now.Sub(d.changed) >= d.window {
		d.stable = raw
	}
}

// Asserted returns the committed value with wiring polarity applied
func (d *Debounced) Asserted() bool {
	if d.sw.ActiveLow {
		return !d.stable
	}
	return d.stable
}
