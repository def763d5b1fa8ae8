package performance

import (
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/device"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

type rig struct {
	clock   *common.ManualClock
	ladder  quality.Ladder
	ctrl    Controller
	changes []quality.Change
	elapsed time.Duration
}

func newRig(t *testing.T, profile device.Profile, opts ...ControllerBuilderOption) *rig {
	t.Helper()
	r := &rig{clock: common.NewManualClock(epoch)}
	r.ladder = quality.NewLadder(profile, quality.WithClock(r.clock))
	r.ladder.OnChange(func(c quality.Change) { r.changes = append(r.changes, c) })
	r.ctrl = NewController(r.ladder, append([]ControllerBuilderOption{WithClock(r.clock)}, opts...)...)
	return r
}

// run advances the clock by dt per frame for the given span and returns the elapsed time of each ladder
// change the controller made.
func (r *rig) run(fps float64, span time.Duration) []time.Duration {
	dt := 1 / fps
	step := time.Duration(math.Ceil(dt * float64(time.Second)))
	var at []time.Duration
	for end := r.elapsed + span; r.elapsed < end; {
		r.clock.Advance(step)
		r.elapsed += step
		if r.ctrl.Frame(dt) {
			at = append(at, r.elapsed)
		}
	}
	return at
}

func phone() device.Profile {
	return device.Profile{Category: device.CategoryPhone, BaseCapInitial: 1.35, BaseCapMax: 1.5, NativeRatio: 3}
}

func desktop() device.Profile {
	return device.Profile{Category: device.CategoryDesktop, BaseCapInitial: 1.55, BaseCapMax: 2, NativeRatio: 2}
}

func TestSustainedLowFPSDegradesOnceAfterThreshold(t *testing.T) {
	r := newRig(t, phone())

	at := r.run(30, 5*time.Second)

	require.Len(t, at, 1, "exactly one degrade within 5s")
	assert.GreaterOrEqual(t, at[0], 4*time.Second)
	assert.LessOrEqual(t, at[0], 4200*time.Millisecond)
	assert.Equal(t, 1, r.ladder.State().TierIndex)
	assert.Equal(t, 0, r.ladder.State().BucketIndex)
}

func TestSingleSpikeDoesNotDegrade(t *testing.T) {
	r := newRig(t, desktop())

	r.run(60, time.Second)
	r.clock.Advance(200 * time.Millisecond)
	r.ctrl.Frame(0.2)
	r.run(60, 5*time.Second)

	assert.Empty(t, r.changes)
}

func TestNeutralBandDecaysAccumulators(t *testing.T) {
	r := newRig(t, desktop())

	r.run(40, 2*time.Second)
	low := r.ctrl.Sample().LowAccumMs
	require.Greater(t, low, 1000.0)

	r.run(56.5, 3*time.Second)
	s := r.ctrl.Sample()
	assert.Equal(t, BandNeutral, s.Band)
	assert.Less(t, s.LowAccumMs, low)
	assert.Zero(t, s.HighAccumMs)
}

func TestDebounceSpacesConsecutiveChanges(t *testing.T) {
	r := newRig(t, phone(), WithDegradeAfter(500*time.Millisecond), WithDebounce(2500*time.Millisecond))

	at := r.run(20, 8*time.Second)

	require.GreaterOrEqual(t, len(at), 2)
	for i := 1; i < len(at); i++ {
		assert.GreaterOrEqual(t, at[i]-at[i-1], 2500*time.Millisecond)
	}
}

func TestDebouncedStepFiresWhenDebounceEnds(t *testing.T) {
	r := newRig(t, phone(), WithDegradeAfter(500*time.Millisecond), WithDebounce(2500*time.Millisecond))

	at := r.run(20, 4*time.Second)

	require.Len(t, at, 2)
	// The accumulator was held at its threshold, so the second step lands on the first frame past the debounce.
	assert.Less(t, at[1]-at[0], 2600*time.Millisecond)
}

func TestExternalLadderChangeResetsAccumulators(t *testing.T) {
	r := newRig(t, desktop())
	r.run(30, 3*time.Second)
	require.Greater(t, r.ctrl.Sample().LowAccumMs, 0.0)

	r.ladder.ForceBucket(1)

	assert.Zero(t, r.ctrl.Sample().LowAccumMs)
	assert.Zero(t, r.ctrl.Sample().HighAccumMs)
}

func TestClosedControllerIgnoresLadderChanges(t *testing.T) {
	r := newRig(t, desktop())
	r.run(30, 3*time.Second)
	low := r.ctrl.Sample().LowAccumMs
	require.Greater(t, low, 0.0)

	r.ctrl.Close()
	r.ctrl.Close()
	r.ladder.ForceBucket(1)

	assert.Equal(t, low, r.ctrl.Sample().LowAccumMs)
}

func TestSeededResumeGuardCarriesOver(t *testing.T) {
	r := newRig(t, phone())
	r.ctrl.NotifyResume("visibility")
	guard := r.ctrl.Guard()

	next := NewController(r.ladder, WithClock(r.clock), WithResumeGuardState(guard))
	r.ctrl.Close()
	r.ctrl = next
	assert.Equal(t, guard, r.ctrl.Guard())

	at := r.run(20, 2500*time.Millisecond)
	assert.Empty(t, at)
	assert.Equal(t, BandGuarded, r.ctrl.Sample().Band)
}

func TestUpgradeRetractsBucketFirst(t *testing.T) {
	r := newRig(t, desktop())
	r.ladder.ForceTier(1)
	r.ladder.ForceBucket(1)
	r.changes = nil

	at := r.run(60, 9*time.Second)

	require.Len(t, at, 1)
	assert.GreaterOrEqual(t, at[0], 8*time.Second)
	assert.Equal(t, quality.ChangeUpgradeBucket, r.changes[0].Kind)
	assert.Equal(t, quality.State{TierIndex: 1, BucketIndex: 0, BaseCapCurrent: 1.55}, r.ladder.State())
}

func TestUpgradeAtBestRaisesDesktopBaseCap(t *testing.T) {
	r := newRig(t, desktop())

	r.run(60, 9*time.Second)

	require.Len(t, r.changes, 1)
	assert.Equal(t, quality.ChangeRaiseBaseCap, r.changes[0].Kind)
	assert.InDelta(t, 1.65, r.ladder.State().BaseCapCurrent, 1e-9)
}

func TestResumeGuardBlocksDegrade(t *testing.T) {
	r := newRig(t, desktop())
	r.run(60, time.Second)
	before := r.ctrl.Sample().EMA

	r.ctrl.NotifyResume("visibility")

	// Stutter right after resume: the first samples are discarded outright.
	r.clock.Advance(100 * time.Millisecond)
	r.ctrl.Frame(0.1)
	assert.Equal(t, BandDiscarded, r.ctrl.Sample().Band)
	assert.Equal(t, before, r.ctrl.Sample().EMA, "discarded samples must not reach the EMA")

	at := r.run(20, 2500*time.Millisecond)
	assert.Empty(t, at)
	assert.Zero(t, r.ctrl.Sample().LowAccumMs)
	assert.Equal(t, BandGuarded, r.ctrl.Sample().Band)
}

func TestResumeDiscardNeedsFramesAndDuration(t *testing.T) {
	r := newRig(t, desktop())
	r.ctrl.NotifyResume("focus")

	// Three frames inside 30ms: frame count exhausted but duration not yet.
	for i := 0; i < 3; i++ {
		r.clock.Advance(10 * time.Millisecond)
		r.ctrl.Frame(0.01)
	}
	assert.True(t, r.ctrl.Guard().Discarding(r.clock.Now()))

	r.clock.Advance(500 * time.Millisecond)
	assert.False(t, r.ctrl.Guard().Discarding(r.clock.Now()))
	r.ctrl.Frame(1.0 / 60)
	assert.Equal(t, BandGuarded, r.ctrl.Sample().Band)
}

func TestPostGuardDebounceDelaysFirstChange(t *testing.T) {
	r := newRig(t, phone())
	r.ctrl.NotifyResume("pageshow")
	start := r.elapsed

	at := r.run(30, 12*time.Second)

	require.NotEmpty(t, at)
	// Guard (3s) plus post-guard debounce (4s) must pass before any change.
	assert.GreaterOrEqual(t, at[0]-start, 7*time.Second)
}

func TestFrameClampsLargeDelta(t *testing.T) {
	r := newRig(t, desktop())
	r.clock.Advance(5 * time.Second)
	r.ctrl.Frame(5)

	assert.LessOrEqual(t, r.ctrl.Sample().LowAccumMs, DefaultMaxFrameDelta*1000)
}

func TestFrameIgnoresInvalidDelta(t *testing.T) {
	r := newRig(t, desktop())
	before := r.ctrl.Sample()
	assert.False(t, r.ctrl.Frame(0))
	assert.False(t, r.ctrl.Frame(-1))
	assert.Equal(t, before.EMA, r.ctrl.Sample().EMA)
}

func TestThresholdOptionRejectsInvertedPair(t *testing.T) {
	r := newRig(t, desktop(), WithThresholds(50, 40))
	r.run(52, 6*time.Second)
	assert.Len(t, r.changes, 1, "52 FPS is below the default 55 drop threshold")
}

func TestBandString(t *testing.T) {
	assert.Equal(t, "degrading", BandDegrading.String())
	assert.Equal(t, "guarded", BandGuarded.String())
	assert.Equal(t, "unknown", Band(42).String())
}
