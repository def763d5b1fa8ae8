package binder

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
)

type call struct {
	name string
	args []any
}

type recorder struct {
	calls []call
}

func (r *recorder) add(name string, args ...any) {
	r.calls = append(r.calls, call{name, args})
}

func (r *recorder) last(name string) []any {
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].name == name {
			return r.calls[i].args
		}
	}
	return nil
}

type fakeRenderer struct{ *recorder }

func (f fakeRenderer) SetPixelRatio(ratio float64) { f.add("renderer.ratio", ratio) }
func (f fakeRenderer) SetSize(w, h float64) { f.add("renderer.size", w, h) }
func (f fakeRenderer) SetToneExposure(e float64) { f.add("renderer.exposure", e) }

type fakeComposer struct{ *recorder }

func (f fakeComposer) SetPixelRatio(ratio float64) { f.add("composer.ratio", ratio) }
func (f fakeComposer) SetSize(w, h float64) { f.add("composer.size", w, h) }

type fakeGlass struct{ *recorder }

func (f fakeGlass) SetResolution(w, h float64) { f.add("glass.resolution", w, h) }
func (f fakeGlass) SetScrollProgress(p float64) { f.add("glass.progress", p) }
func (f fakeGlass) SetRefractionMultiplier(m float64) { f.add("glass.refraction", m) }
func (f fakeGlass) SetSplitScreenMode(e bool, b, r float64) {
	f.add("glass.split", e, b, r)
}
func (f fakeGlass) SetDepthSource(v *wgpu.TextureView, n, fa float64) { f.add("glass.depth", v, n, fa) }
func (f fakeGlass) TickTime(dt float64) { f.add("glass.tick", dt) }

type fakeVignette struct{ *recorder }

func (f fakeVignette) SetResolution(w, h float64) { f.add("vignette.resolution", w, h) }

type fakeHueSat struct{ *recorder }

func (f fakeHueSat) SetSaturation(s float64) { f.add("huesat.saturation", s) }

type fakeGradient struct{ *recorder }

func (f fakeGradient) SetColors(top, bottom scroll.Color) { f.add("gradient.colors", top, bottom) }

func fullBinder() (Binder, *recorder) {
	r := &recorder{}
	return NewBinder(
		WithRenderer(fakeRenderer{r}),
		WithComposer(fakeComposer{r}),
		WithReededGlass(fakeGlass{r}),
		WithVignette(fakeVignette{r}),
		WithHueSaturation(fakeHueSat{r}),
		WithGradient(fakeGradient{r}),
	), r
}

func TestPushQualityUsesOneRatioForCoupledPasses(t *testing.T) {
	b, r := fullBinder()

	b.PushQuality(1.5, 0.5, 1280, 720)

	assert.Equal(t, []any{1.5}, r.last("renderer.ratio"))
	assert.Equal(t, []any{1280.0, 720.0}, r.last("renderer.size"))
	assert.Equal(t, []any{1.5}, r.last("composer.ratio"))
	assert.Equal(t, []any{1280.0, 720.0}, r.last("composer.size"))
	assert.Equal(t, []any{1920.0, 1080.0}, r.last("vignette.resolution"))
	assert.Equal(t, []any{960.0, 540.0}, r.last("glass.resolution"))
}

func TestPushQualityIgnoresDegenerateInput(t *testing.T) {
	b, r := fullBinder()
	b.PushQuality(0, 1, 100, 100)
	b.PushQuality(1, 1, 0, 100)
	assert.Empty(t, r.calls)
}

func TestPushVisualWritesEveryHandle(t *testing.T) {
	b, r := fullBinder()
	v := scroll.VisualFor(0.75)

	b.PushVisual(v)

	assert.Equal(t, []any{1.0}, r.last("glass.progress"))
	assert.Equal(t, []any{v.Refraction}, r.last("glass.refraction"))
	assert.Equal(t, []any{true, 0.5, 0.5}, r.last("glass.split"))
	assert.Equal(t, []any{v.Exposure}, r.last("renderer.exposure"))
	assert.Equal(t, []any{v.Saturation}, r.last("huesat.saturation"))
	assert.Equal(t, []any{v.Gradient.Top, v.Gradient.Bottom}, r.last("gradient.colors"))
}

func TestPushVisualWithoutSplitScreenUsesProgress(t *testing.T) {
	b, r := fullBinder()
	b.PushVisual(scroll.Visual{Progress: 0.3})
	assert.Equal(t, []any{0.3}, r.last("glass.progress"))
}

func TestMissingHandlesAreSkipped(t *testing.T) {
	b := NewBinder()
	assert.NotPanics(t, func() {
		b.PushQuality(2, 1, 800, 600)
		b.PushVisual(scroll.VisualFor(1))
		b.PushDepth(nil, 0.1, 100)
		b.Tick(0.016)
	})
}

func TestDepthAndTickForwardToGlass(t *testing.T) {
	b, r := fullBinder()
	b.PushDepth(nil, 0.1, 50)
	b.Tick(0.02)
	b.Tick(0)

	assert.Equal(t, []any{(*wgpu.TextureView)(nil), 0.1, 50.0}, r.last("glass.depth"))
	ticks := 0
	for _, c := range r.calls {
		if c.name == "glass.tick" {
			ticks++
		}
	}
	assert.Equal(t, 1, ticks)
}
