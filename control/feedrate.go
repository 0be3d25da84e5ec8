package control

import "time"

const adcMax = 1<<16 - 1

// FeedRate maps the analog speed dial to a bounded steps-per-second value.
// The dial is resampled on a fixed period to avoid over-reading a noisy
// analog line; between samples the previous value is held. There is no
// smoothing beyond the read-period throttle.
type FeedRate struct {
	adc        ADC
	min, max   uint32
	period     time.Duration
	nextSample time.Time
	value      uint32
}

// NewFeedRate samples the dial once so Value is meaningful immediately
func NewFeedRate(adc ADC, cfg Config, now time.Time) *FeedRate {
	f := &FeedRate{
		adc:    adc,
		min:    cfg.FeedMin,
		max:    cfg.FeedMax,
		period: cfg.PotReadPeriod,
	}
	f.value = f.convert(adc.Get())
	f.nextSample = now.Add(f.period)
	return f
}

// Sample resamples the dial if the read period has elapsed and returns the
// current steps-per-second value
func (f *FeedRate) Sample(now time.Time) uint32 {
	if !now.Before(f.nextSample) {
		f.value = f.convert(f.adc.Get())
		f.nextSample = now.Add(f.period)
	}
	return f.value
}

// Value returns the last sampled steps-per-second without resampling
func (f *FeedRate) Value() uint32 {
	return f.value
}

// convert linearly maps the 16-bit reading onto [min, max]
func (f *FeedRate) convert(raw uint16) uint32 {
	span := uint64(f.max - f.min)
	return f.min + uint32(uint64(raw)*span/adcMax)
}
