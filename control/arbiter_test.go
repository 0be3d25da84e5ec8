package control

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinmclean/feedswap"
)

type arbRig struct {
	arb   *Arbiter
	lanes [2]*Lane
	fakes [2]*laneFakes
	in    ArbiterInputs
	now   time.Time
}

// newArbRig starts with lane 1 active and fully loaded, lane 2 loaded to its
// OUT sensor, buffer satisfied, Y clear
func newArbRig() *arbRig {
	r := &arbRig{
		arb: NewArbiter(testConfig()),
		now: time.Unix(0, 0),
		in: ArbiterInputs{
			YClear: true,
			Rate:   1800,
		},
	}
	r.lanes[0], r.fakes[0] = testLane(feedswap.Lane1, true, true)
	r.lanes[1], r.fakes[1] = testLane(feedswap.Lane2, true, true)
	return r
}

func (r *arbRig) tick(step time.Duration) {
	r.now = r.now.Add(step)
	for _, l := range r.lanes {
		l.UpdateInputs(r.now)
	}
	r.arb.Tick(r.now, r.lanes, r.in)
	for _, l := range r.lanes {
		l.Tick(r.now)
	}
}

// demandFeed holds buffer-low until the hysteresis delay is satisfied
func (r *arbRig) demandFeed(t *testing.T) {
	t.Helper()
	r.in.BufferLow = true
	for i := 0; i < 25; i++ {
		r.tick(100 * time.Millisecond)
	}
}

func (r *arbRig) assertOneFeederAtMost(t *testing.T) {
	t.Helper()
	feeding := 0
	for _, l := range r.lanes {
		if l.Mode() == feedswap.ModeFeed {
			feeding++
		}
	}
	require.LessOrEqual(t, feeding, 1, "at most one lane may feed")
}

func TestFeedDemandHysteresis(t *testing.T) {
	cfg := testConfig()
	a := NewArbiter(cfg)
	start := time.Unix(0, 0)

	// low must persist for the full delay
	assert.False(t, a.feedDemand(start, true, false))
	assert.False(t, a.feedDemand(start.Add(cfg.LowDelay-time.Millisecond), true, false))
	assert.True(t, a.feedDemand(start.Add(cfg.LowDelay), true, false))

	// buffer-high vetoes instantly but does not reset the low timer
	assert.False(t, a.feedDemand(start.Add(cfg.LowDelay+time.Second), true, true))
	assert.True(t, a.feedDemand(start.Add(cfg.LowDelay+2*time.Second), true, false))

	// low dropping out restarts the persistence window
	assert.False(t, a.feedDemand(start.Add(10*time.Second), false, false))
	assert.False(t, a.feedDemand(start.Add(11*time.Second), true, false))
	assert.False(t, a.feedDemand(start.Add(11*time.Second+cfg.LowDelay/2), true, false))
	assert.True(t, a.feedDemand(start.Add(11*time.Second+cfg.LowDelay), true, false))
}

func TestArbiterArmIsOneWayLatch(t *testing.T) {
	r := newArbRig()

	r.tick(time.Millisecond)
	require.False(t, r.arb.Armed())

	// active lane runs dry upstream
	r.fakes[0].in.assert(false)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	require.True(t, r.arb.Armed())

	// a flapping IN sensor must not disarm a pending swap
	r.fakes[0].in.assert(true)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	assert.True(t, r.arb.Armed())
}

func TestArbiterSwapExecutes(t *testing.T) {
	r := newArbRig()

	r.fakes[0].in.assert(false)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	require.True(t, r.arb.Armed())

	r.demandFeed(t)

	assert.Equal(t, feedswap.Lane2, r.arb.Active())
	assert.False(t, r.arb.Armed())
	assert.Equal(t, feedswap.ModeFeed, r.lanes[1].Mode(), "the new active lane feeds immediately; cooldown gates swaps, not feed")
	assert.NotEqual(t, feedswap.ModeFeed, r.lanes[0].Mode())
	r.assertOneFeederAtMost(t)
}

func TestArbiterSwapRequiresCandidateReady(t *testing.T) {
	r := newArbRig()
	r.fakes[1].out.assert(false)

	r.fakes[0].in.assert(false)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	require.True(t, r.arb.Armed())

	r.demandFeed(t)

	// candidate not loaded: no swap, lane 1 keeps feeding off its own OUT
	assert.Equal(t, feedswap.Lane1, r.arb.Active())
	assert.True(t, r.arb.Armed())
	assert.Equal(t, feedswap.ModeFeed, r.lanes[0].Mode())

	// the readiness check retries every tick until satisfied
	r.fakes[1].out.assert(true)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	assert.Equal(t, feedswap.Lane2, r.arb.Active())
}

func TestArbiterCooldownBlocksSecondSwap(t *testing.T) {
	cfg := testConfig()
	r := newArbRig()

	// establish demand first, then arm, so the swap lands on a known tick
	r.demandFeed(t)
	r.fakes[0].in.assert(false)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	require.Equal(t, feedswap.Lane2, r.arb.Active())
	swappedAt := r.now

	// lane 2 runs dry right away; everything but the cooldown says swap back
	r.fakes[1].in.assert(false)
	for r.arb.Active() == feedswap.Lane2 {
		r.tick(10 * time.Millisecond)
		require.Less(t, r.now.Sub(swappedAt), 2*cfg.SwapCooldown, "swap back never happened")
	}

	assert.GreaterOrEqual(t, r.now.Sub(swappedAt), cfg.SwapCooldown,
		"second swap must wait out the cooldown")
}

func TestArbiterYJunctionGate(t *testing.T) {
	r := newArbRig()
	r.in.YClear = false

	r.fakes[0].in.assert(false)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	r.demandFeed(t)

	require.Equal(t, feedswap.Lane1, r.arb.Active(), "blocked junction vetoes the swap")
	require.True(t, r.arb.Armed())

	r.in.YClear = true
	r.tick(time.Millisecond)
	assert.Equal(t, feedswap.Lane2, r.arb.Active())
}

func TestArbiterYJunctionGateDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.RequireYClear = false
	r := newArbRig()
	r.arb = NewArbiter(cfg)
	r.in.YClear = false

	r.fakes[0].in.assert(false)
	r.tick(time.Millisecond)
	r.tick(time.Millisecond)
	r.demandFeed(t)

	assert.Equal(t, feedswap.Lane2, r.arb.Active())
}

func TestArbiterManualSuppressesFeed(t *testing.T) {
	r := newArbRig()
	r.demandFeed(t)
	require.Equal(t, feedswap.ModeFeed, r.lanes[0].Mode())

	// any reverse button held suppresses feed commands system-wide, but
	// arbitration state persists invisibly
	r.in.Manual = true
	r.tick(time.Millisecond)
	assert.NotEqual(t, feedswap.ModeFeed, r.lanes[0].Mode())

	r.in.Manual = false
	r.tick(time.Millisecond)
	assert.Equal(t, feedswap.ModeFeed, r.lanes[0].Mode())
}

func TestArbiterFeedRequiresActiveOut(t *testing.T) {
	r := newArbRig()
	r.fakes[0].out.assert(false)
	r.demandFeed(t)

	assert.NotEqual(t, feedswap.ModeFeed, r.lanes[0].Mode())
	assert.NotEqual(t, feedswap.ModeFeed, r.lanes[1].Mode(), "inactive lane is never commanded to feed")
}

func TestArbiterFeedStopsWhenDemandEnds(t *testing.T) {
	r := newArbRig()
	r.demandFeed(t)
	require.Equal(t, feedswap.ModeFeed, r.lanes[0].Mode())

	r.in.BufferLow = false
	r.tick(time.Millisecond)
	assert.Equal(t, feedswap.ModeIdle, r.lanes[0].Mode())
	assert.False(t, r.lanes[0].motor.Enabled())
}

func TestArbiterLiveCadenceUpdate(t *testing.T) {
	r := newArbRig()
	r.demandFeed(t)
	require.Equal(t, feedswap.ModeFeed, r.lanes[0].Mode())

	r.in.Rate = 600
	r.tick(time.Millisecond)
	assert.Equal(t, uint32(600), r.lanes[0].cadence, "dial changes apply mid-feed")
}

func TestArbiterMutualExclusionThroughout(t *testing.T) {
	r := newArbRig()

	script := []func(){
		func() { r.fakes[0].in.assert(false) },
		func() { r.in.BufferLow = true },
		func() {},
		func() { r.fakes[1].in.assert(false) },
		func() { r.in.BufferHigh = true },
		func() { r.in.BufferHigh = false },
		func() { r.fakes[0].out.assert(false) },
		func() { r.fakes[0].in.assert(true) },
	}

	for _, change := range script {
		change()
		for i := 0; i < 50; i++ {
			r.tick(25 * time.Millisecond)
			r.assertOneFeederAtMost(t)
		}
	}
}
