package scroll

import (
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = 1.0 / 60

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func newNav(t *testing.T, opts ...NavigatorBuilderOption) (Navigator, *common.ManualClock) {
	t.Helper()
	clock := common.NewManualClock(epoch)
	nav := NewNavigator(append([]NavigatorBuilderOption{WithClock(clock), WithSectionHeight(1000)}, opts...)...)
	return nav, clock
}

// tick advances one frame of wall-clock and navigator time.
func tick(nav Navigator, clock *common.ManualClock) bool {
	clock.Advance(time.Second / 60)
	return nav.Update(frame)
}

func runFor(nav Navigator, clock *common.ManualClock, d time.Duration) {
	for i := 0; i < int(d/(time.Second/60))+1; i++ {
		tick(nav, clock)
	}
}

func TestWheelBelowThresholdDoesNothing(t *testing.T) {
	nav, _ := newNav(t)
	nav.OnWheel(30)
	nav.OnWheel(20)
	assert.False(t, nav.Animating())
}

func TestWheelAccumulatesToNextSection(t *testing.T) {
	nav, clock := newNav(t)
	nav.OnWheel(40)
	nav.OnWheel(40)
	require.True(t, nav.Animating())
	assert.True(t, nav.Locked())

	runFor(nav, clock, DefaultSnapDuration)
	assert.False(t, nav.Animating())
	assert.Equal(t, 1, nav.State().Section)
	assert.InDelta(t, 1000, nav.State().Offset, 1e-9)
	assert.True(t, nav.Locked(), "settle window after landing")

	clock.Advance(DefaultLockSettle)
	assert.False(t, nav.Locked())
}

func TestWheelAccumulatorResetsAfterIdle(t *testing.T) {
	nav, clock := newNav(t)
	nav.OnWheel(40)
	clock.Advance(DefaultScrollIdle + time.Millisecond)
	nav.OnWheel(40)
	assert.False(t, nav.Animating())
}

func TestWheelIgnoredWhileLocked(t *testing.T) {
	nav, clock := newNav(t)
	nav.OnWheel(100)
	require.True(t, nav.Animating())

	nav.OnWheel(100)
	nav.OnWheel(100)
	runFor(nav, clock, DefaultSnapDuration)
	assert.Equal(t, 1, nav.State().Section, "input during the snap must not queue another step")
}

func TestWheelUpAtTopStaysPut(t *testing.T) {
	nav, _ := newNav(t)
	nav.OnWheel(-100)
	assert.False(t, nav.Animating())
	assert.Zero(t, nav.State().Offset)
}

func TestSnapPushesEveryIntermediateFrame(t *testing.T) {
	nav, clock := newNav(t)
	nav.Update(0)
	require.True(t, nav.GoTo(2))

	var progress []float64
	for nav.Animating() {
		require.True(t, tick(nav, clock), "each animated frame must report a change")
		v := nav.Visual()
		progress = append(progress, v.Progress)
		assert.Equal(t, GlassConfigFor(v.Progress), v.Glass)
		assert.Equal(t, VisualFor(v.Progress).Exposure, v.Exposure)
	}

	require.Greater(t, len(progress), 10)
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.Equal(t, 1.0, progress[len(progress)-1])
}

func TestSnapToCancelsAndRestartsFromAnimatedOffset(t *testing.T) {
	nav, clock := newNav(t)
	nav.SnapTo(2)
	runFor(nav, clock, 450*time.Millisecond)
	mid := nav.State().Offset
	require.Greater(t, mid, 0.0)
	require.Less(t, mid, 2000.0)

	nav.SnapTo(0)
	tick(nav, clock)
	assert.Less(t, nav.State().Offset, mid, "restart heads toward the new target from where the old tween was")

	runFor(nav, clock, DefaultSnapDuration)
	assert.Zero(t, nav.State().Offset)
	assert.Equal(t, 0, nav.State().Section)
}

func TestFreeScrollSettlesOnNearestSection(t *testing.T) {
	nav, clock := newNav(t)
	nav.OnScroll(1400)
	assert.True(t, nav.Update(0))
	assert.False(t, nav.Animating())

	clock.Advance(DefaultScrollIdle)
	nav.Update(0)
	require.True(t, nav.Animating())

	runFor(nav, clock, DefaultSnapDuration)
	assert.Equal(t, 1000.0, nav.State().Offset)
}

func TestScrollIgnoredWhileLocked(t *testing.T) {
	nav, _ := newNav(t)
	nav.SnapTo(1)
	nav.OnScroll(1800)
	assert.NotEqual(t, 1800.0, nav.State().Offset)
}

func TestScrollClampsToRange(t *testing.T) {
	nav, _ := newNav(t)
	nav.OnScroll(99999)
	assert.Equal(t, 2000.0, nav.State().Offset)
	assert.Equal(t, 1.0, nav.State().Progress)
}

func TestSectionHeightChangePreservesProgress(t *testing.T) {
	nav, _ := newNav(t)
	nav.OnScroll(1500)
	nav.Update(0)

	nav.SetSectionHeight(500)
	assert.True(t, nav.Update(0))
	assert.InDelta(t, 0.75, nav.State().Progress, 1e-12)
	assert.InDelta(t, 750, nav.State().Offset, 1e-9)
}

func TestUpdateReportsOnlyChanges(t *testing.T) {
	nav, _ := newNav(t)
	assert.True(t, nav.Update(frame), "first update publishes the initial state")
	assert.False(t, nav.Update(frame))
}

func TestStepUsesNearestSection(t *testing.T) {
	nav, clock := newNav(t, WithSnapDuration(0))
	require.True(t, nav.Step(1))
	tick(nav, clock)
	assert.Equal(t, 1, nav.State().Section)

	clock.Advance(DefaultLockSettle)
	require.True(t, nav.Step(5))
	tick(nav, clock)
	assert.Equal(t, 2, nav.State().Section)
	assert.Equal(t, DefaultSections, nav.Sections())
}

func TestSnapTween(t *testing.T) {
	s := NewSnap(time.Second)
	s.Start(0, 100, 1)

	off, done := s.Step(0.5)
	assert.False(t, done)
	assert.InDelta(t, 50, off, 1e-9)

	s.Rescale(2)
	off, done = s.Step(0.5)
	assert.True(t, done)
	assert.Equal(t, 200.0, off)
	assert.False(t, s.Active())
	assert.Equal(t, 1, s.Target())

	off, done = s.Step(1)
	assert.False(t, done)
	assert.Equal(t, 200.0, off)
}
