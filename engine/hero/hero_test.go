package hero

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/asset"
	"github.com/Carmen-Shannon/oxy-hero/engine/device"
	"github.com/Carmen-Shannon/oxy-hero/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-hero/engine/input"
	"github.com/Carmen-Shannon/oxy-hero/engine/performance"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type qualityPush struct {
	ratio, scale, w, h float64
}

type fakeBinder struct {
	quality []qualityPush
	visuals []scroll.Visual
	depths  []*wgpu.TextureView
	ticks   int
}

func (f *fakeBinder) PushQuality(ratio, scale, w, h float64) {
	f.quality = append(f.quality, qualityPush{ratio, scale, w, h})
}
func (f *fakeBinder) PushVisual(v scroll.Visual) { f.visuals = append(f.visuals, v) }
func (f *fakeBinder) PushDepth(v *wgpu.TextureView, near, far float64) {
	f.depths = append(f.depths, v)
}
func (f *fakeBinder) Tick(float64) { f.ticks++ }

func (f *fakeBinder) lastQuality(t *testing.T) qualityPush {
	t.Helper()
	require.NotEmpty(t, f.quality)
	return f.quality[len(f.quality)-1]
}

func (f *fakeBinder) lastVisual(t *testing.T) scroll.Visual {
	t.Helper()
	require.NotEmpty(t, f.visuals)
	return f.visuals[len(f.visuals)-1]
}

type fakeObserver struct {
	statuses []diagnostics.Status
	changes  []quality.Change
	resumes  []string
}

func (f *fakeObserver) ObserveStatus(s diagnostics.Status) { f.statuses = append(f.statuses, s) }
func (f *fakeObserver) ObserveChange(c quality.Change) { f.changes = append(f.changes, c) }
func (f *fakeObserver) ObserveResume(r string) { f.resumes = append(f.resumes, r) }

type fakeToggler struct{ on bool }

func (f *fakeToggler) Toggle() bool { f.on = !f.on; return f.on }

type fakeFlusher struct{ n int }

func (f *fakeFlusher) Flush() { f.n++ }

type fakeLoader struct{ ready []asset.Decoded }

func (f *fakeLoader) Request(common.EffectTexture) {}
func (f *fakeLoader) Drain() []asset.Decoded {
	out := f.ready
	f.ready = nil
	return out
}
func (f *fakeLoader) Pending() int { return len(f.ready) }
func (f *fakeLoader) Wait() {}

type fakeUploader struct {
	labels []string
	view   *wgpu.TextureView
	err    error
}

func (f *fakeUploader) CreateTexture(label string, _ common.TextureStagingData) (*wgpu.TextureView, error) {
	f.labels = append(f.labels, label)
	return f.view, f.err
}

var (
	phone = device.Profile{Category: device.CategoryPhone, BaseCapInitial: 1.5, BaseCapMax: 2, NativeRatio: 3}
	desk  = device.Profile{Category: device.CategoryDesktop, BaseCapInitial: 1.5, BaseCapMax: 2, NativeRatio: 2}
)

type rig struct {
	clock *common.ManualClock
	port  *input.Dispatcher
	b     *fakeBinder
	obs   *fakeObserver
	h     Hero
}

func newRig(profile device.Profile, options ...HeroBuilderOption) *rig {
	r := &rig{
		clock: common.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		port:  input.NewDispatcher(),
		b:     &fakeBinder{},
		obs:   &fakeObserver{},
	}
	options = append([]HeroBuilderOption{
		WithClock(r.clock),
		WithBinder(r.b),
		WithObservers(r.obs),
		WithSessionID("test-session"),
	}, options...)
	r.h = NewHero(profile, r.port, options...)
	return r
}

// run drives frames at fps for span, advancing the clock by the same step.
func (r *rig) run(fps float64, span time.Duration) {
	dt := 1 / fps
	step := time.Duration(math.Ceil(dt * 1e9))
	for elapsed := time.Duration(0); elapsed < span; elapsed += step {
		r.clock.Advance(step)
		r.h.Frame(dt)
	}
}

func TestFirstFramePushesQualityAndVisual(t *testing.T) {
	r := newRig(desk, WithViewport(1280, 720))
	r.h.Frame(1.0 / 60)

	require.Len(t, r.b.quality, 1)
	q := r.b.quality[0]
	assert.Equal(t, 1.5, q.ratio)
	assert.Equal(t, 1.0, q.scale)
	assert.Equal(t, 1280.0, q.w)
	assert.Equal(t, 720.0, q.h)

	require.Len(t, r.b.visuals, 1)
	assert.Zero(t, r.b.visuals[0].Progress)
	assert.Equal(t, 1, r.b.ticks)

	r.h.Frame(1.0 / 60)
	assert.Len(t, r.b.quality, 1, "nothing changed")
	assert.Len(t, r.b.visuals, 1)
}

func TestNoQualityPushBeforeViewportKnown(t *testing.T) {
	r := newRig(desk)
	r.h.Frame(1.0 / 60)
	assert.Empty(t, r.b.quality)

	r.port.Emit(input.Resize(800, 600))
	r.h.Frame(1.0 / 60)
	assert.Len(t, r.b.quality, 1)
}

func TestResizeIsCoalescedPerFrame(t *testing.T) {
	r := newRig(desk, WithViewport(1280, 720))
	r.h.Frame(1.0 / 60)

	r.port.Emit(input.Resize(100, 100))
	r.port.Emit(input.Resize(0, 300))
	r.port.Emit(input.Resize(1024, 768))
	r.h.Frame(1.0 / 60)

	require.Len(t, r.b.quality, 2)
	q := r.b.lastQuality(t)
	assert.Equal(t, 1024.0, q.w)
	assert.Equal(t, 768.0, q.h)
}

func TestPixelBudgetEnforcedOnResize(t *testing.T) {
	uhd := device.Profile{Category: device.CategoryDesktop, BaseCapInitial: 2, BaseCapMax: 2, NativeRatio: 2}
	r := newRig(uhd, WithViewport(3840, 2160))
	r.h.Frame(1.0 / 60)

	q := r.b.lastQuality(t)
	assert.LessOrEqual(t, q.w*q.h*q.ratio*q.ratio, float64(quality.DefaultPixelBudget))
	assert.Equal(t, 4, r.h.Ladder().State().BucketIndex)

	require.NotEmpty(t, r.obs.changes)
	assert.Equal(t, quality.ChangeBudget, r.obs.changes[0].Kind)
}

func TestUpgradesNeverExceedPixelBudget(t *testing.T) {
	r := newRig(device.Profile{Category: device.CategoryDesktop, BaseCapInitial: 1.55, BaseCapMax: 2, NativeRatio: 2},
		WithViewport(3840, 2160))
	r.run(60, 40*time.Second)

	require.NotEmpty(t, r.b.quality)
	for _, q := range r.b.quality {
		assert.LessOrEqual(t, q.w*q.h*q.ratio*q.ratio, float64(quality.DefaultPixelBudget))
	}
	for _, c := range r.obs.changes {
		assert.Equal(t, quality.ChangeBudget, c.Kind)
	}
	assert.Equal(t, 3, r.h.Ladder().State().BucketIndex)
	assert.InDelta(t, 1.55, r.h.Ladder().State().BaseCapCurrent, 1e-9)
}

func TestPhoneAtThirtyFPSDegradesOnceAndPushes(t *testing.T) {
	r := newRig(phone, WithViewport(390, 844))
	r.run(30, 5*time.Second)

	require.Len(t, r.b.quality, 2)
	q := r.b.lastQuality(t)
	assert.Equal(t, 0.75, q.scale, "tier degrades before bucket")
	assert.Equal(t, 1.5, q.ratio)

	require.Len(t, r.obs.changes, 1)
	assert.Equal(t, quality.ChangeDegradeTier, r.obs.changes[0].Kind)

	s := r.h.Status()
	assert.Equal(t, "medium", s.TierName)
	assert.InDelta(t, 30, s.EmaFPS, 1)
}

func TestResumeEventsGuardTheController(t *testing.T) {
	r := newRig(phone, WithViewport(390, 844))
	r.h.Frame(1.0 / 60)

	r.port.Emit(input.Visibility(false))
	r.port.Emit(input.Focus(false))
	assert.Empty(t, r.obs.resumes)
	assert.False(t, r.h.Controller().Guard().Active(r.clock.Now()))

	r.port.Emit(input.Visibility(true))
	r.port.Emit(input.Focus(true))
	r.port.Emit(input.PageShow())
	assert.Equal(t, []string{ResumeVisibility, ResumeFocus, ResumePageShow}, r.obs.resumes)
	assert.True(t, r.h.Controller().Guard().Active(r.clock.Now()))

	// a slow stretch inside the guard window does not degrade
	r.run(30, 2*time.Second)
	assert.Empty(t, r.obs.changes)
}

func TestWheelNavigatesAndPushesVisuals(t *testing.T) {
	r := newRig(desk, WithViewport(1280, 800))
	r.h.Frame(1.0 / 60)

	r.port.Emit(input.Wheel(120))
	r.run(60, 2*time.Second)

	st := r.h.Navigator().State()
	assert.Equal(t, 1, st.Section)
	assert.InDelta(t, 0.5, st.Progress, 1e-9)
	assert.Greater(t, len(r.b.visuals), 10, "every animation frame is pushed")
	assert.InDelta(t, 0.5, r.b.lastVisual(t).Progress, 1e-9)

	s := r.h.Status()
	assert.Equal(t, 1, s.Section)
	assert.InDelta(t, 0.5, s.Progress, 1e-9)
}

func TestKeysNavigateAndToggleOverlay(t *testing.T) {
	tog := &fakeToggler{}
	r := newRig(desk, WithViewport(1280, 800), WithOverlay(tog))
	r.h.Frame(1.0 / 60)

	r.port.Emit(input.KeyPress(input.KeyDown))
	r.run(60, 2*time.Second)
	assert.Equal(t, 1, r.h.Navigator().State().Section)

	r.port.Emit(input.KeyPress(input.KeyEnd))
	r.run(60, 2*time.Second)
	assert.Equal(t, 2, r.h.Navigator().State().Section)

	r.port.Emit(input.KeyPress(input.KeyHome))
	r.run(60, 2*time.Second)
	assert.Equal(t, 0, r.h.Navigator().State().Section)

	r.port.Emit(input.KeyPress(input.KeyToggleOverlay))
	assert.True(t, tog.on)
	r.port.Emit(input.KeyPress(input.KeyToggleOverlay))
	assert.False(t, tog.on)
}

func TestForceOverridesPushOnNextFrame(t *testing.T) {
	r := newRig(desk, WithViewport(1280, 720))
	r.h.Frame(1.0 / 60)

	assert.True(t, r.h.ForceBucket(2))
	assert.False(t, r.h.ForceBucket(2))
	r.h.Frame(1.0 / 60)
	assert.InDelta(t, 1.05, r.b.lastQuality(t).ratio, 1e-9)

	assert.True(t, r.h.ForceTier(3))
	r.h.Frame(1.0 / 60)
	assert.Equal(t, 0.35, r.b.lastQuality(t).scale)

	assert.False(t, r.h.ForceBaseCap(1.0), "base cap never decreases")
	assert.True(t, r.h.ForceBaseCap(1.8))
	assert.Equal(t, 1.8, r.h.Status().BaseCapCurrent)

	require.Len(t, r.obs.changes, 3)
	for _, c := range r.obs.changes {
		assert.Equal(t, quality.ChangeForced, c.Kind)
	}
}

func TestCursorDrivesRigAndModelMatrix(t *testing.T) {
	var matrices int
	var last [16]float32
	r := newRig(desk, WithViewport(1000, 500), WithModelMatrixSink(func(m [16]float32) {
		matrices++
		last = m
	}))
	r.h.Frame(1.0 / 60)

	r.port.Emit(input.Cursor(1000, 250))
	r.run(60, time.Second)

	assert.Greater(t, r.h.Rig().Yaw(), float32(0))
	assert.Equal(t, 61, matrices)
	assert.Equal(t, float32(1), last[15])
}

func TestDepthPushedOnlyWhenViewChanges(t *testing.T) {
	a, b := &wgpu.TextureView{}, &wgpu.TextureView{}
	current := a
	r := newRig(desk, WithDepthSource(func() (*wgpu.TextureView, float64, float64) {
		return current, 0.1, 100
	}))

	r.h.Frame(1.0 / 60)
	r.h.Frame(1.0 / 60)
	require.Len(t, r.b.depths, 1)

	current = b
	r.h.Frame(1.0 / 60)
	require.Len(t, r.b.depths, 2)
	assert.Same(t, b, r.b.depths[1])
}

func TestDecodedTexturesAreUploadedAndBound(t *testing.T) {
	view := &wgpu.TextureView{}
	loader := &fakeLoader{ready: []asset.Decoded{
		{Name: "flutes", Data: common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}},
		{Name: "broken", Err: errors.New("bad png")},
		{Name: "unbound", Data: common.TextureStagingData{Pixels: make([]byte, 4), Width: 1, Height: 1}},
	}}
	up := &fakeUploader{view: view}
	var bound *wgpu.TextureView
	flush := &fakeFlusher{}

	r := newRig(desk,
		WithTextures(loader, up),
		WithTextureBinding("flutes", func(v *wgpu.TextureView) { bound = v }),
		WithComposer(flush),
	)
	r.h.Frame(1.0 / 60)

	assert.Equal(t, []string{"flutes", "unbound"}, up.labels)
	assert.Same(t, view, bound)
	assert.Equal(t, 1, flush.n)

	r.h.Frame(1.0 / 60)
	assert.Len(t, up.labels, 2)
	assert.Equal(t, 2, flush.n)
}

func TestUploadFailureLeavesBindingUntouched(t *testing.T) {
	loader := &fakeLoader{ready: []asset.Decoded{{Name: "flutes"}}}
	up := &fakeUploader{err: errors.New("device lost")}
	called := false

	r := newRig(desk, WithTextures(loader, up), WithTextureBinding("flutes", func(*wgpu.TextureView) { called = true }))
	r.h.Frame(1.0 / 60)
	assert.False(t, called)
}

func TestStatusPublishedEveryFrame(t *testing.T) {
	pub := diagnostics.NewPublisher()
	r := newRig(desk, WithViewport(1280, 720), WithObservers(pub))
	r.run(60, 500*time.Millisecond)

	assert.Len(t, r.obs.statuses, 30)
	s := pub.Snapshot()
	assert.Equal(t, "test-session", s.SessionID)
	assert.Equal(t, "desktop", s.Category)
	assert.Equal(t, 1.5, s.EffectivePixelRatio)
	assert.Equal(t, 2.0, s.BaseCapMax)
	assert.Equal(t, "high", s.TierName)
}

func TestReconfigureKeepsLadderPosition(t *testing.T) {
	r := newRig(phone, WithViewport(390, 844))
	r.run(30, 5*time.Second)
	require.Equal(t, 1, r.h.Ladder().State().TierIndex)

	before := r.h.Controller()
	r.h.Reconfigure()
	assert.NotSame(t, before, r.h.Controller())
	assert.Equal(t, 1, r.h.Ladder().State().TierIndex)
	assert.Zero(t, r.h.Controller().Sample().LowAccumMs)
}

func TestReconfigureDetachesOldController(t *testing.T) {
	r := newRig(phone, WithViewport(390, 844))
	r.run(30, 2*time.Second)
	old := r.h.Controller()
	low := old.Sample().LowAccumMs
	require.Greater(t, low, 0.0)

	r.h.Reconfigure()
	r.h.ForceTier(1)
	assert.Equal(t, low, old.Sample().LowAccumMs, "replaced controller no longer listens to the ladder")
}

func TestReconfigureKeepsResumeGuard(t *testing.T) {
	r := newRig(phone, WithViewport(390, 844))
	r.h.Frame(1.0 / 60)
	r.port.Emit(input.PageShow())
	guard := r.h.Controller().Guard()
	require.True(t, guard.Active(r.clock.Now()))

	r.h.Reconfigure(performance.WithDegradeAfter(500 * time.Millisecond))
	assert.Equal(t, guard, r.h.Controller().Guard())

	r.run(30, 2500*time.Millisecond)
	assert.Empty(t, r.obs.changes, "a reload inside the guard window must not allow a degrade")
}

func TestCloseDetachesFromPort(t *testing.T) {
	r := newRig(desk, WithViewport(1280, 800))
	r.h.Frame(1.0 / 60)
	r.h.Close()
	r.h.Close()

	r.port.Emit(input.Resize(640, 480))
	r.port.Emit(input.Visibility(true))
	r.h.Frame(1.0 / 60)

	assert.Len(t, r.b.quality, 1)
	assert.Empty(t, r.obs.resumes)
}
