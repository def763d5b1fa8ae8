// Package binder projects quality and scroll state onto the renderer and shader effect handles.
// It holds no state beyond the handles themselves; every push is a pure function of its arguments.
package binder

import (
	"math"

	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// binder is the implementation of the Binder interface.
type binder struct {
	renderer RendererHandle
	composer ComposerHandle
	glass    ReededGlassHandle
	vignette VignetteHandle
	hueSat   HueSaturationHandle
	gradient GradientHandle
	logger   *zap.Logger
}

// Binder writes derived values to the shader target handles. Any handle may be absent, in which case
// writes to it are skipped.
type Binder interface {
	// PushQuality applies a pixel ratio and tier scale for a CSS viewport size.
	//
	// The renderer, composer and vignette all use the same effective ratio so passes that mask in
	// framebuffer space stay aligned. The glass pass is further scaled by the tier.
	//
	// Parameters:
	//   - ratio: effective device pixel ratio
	//   - tierScale: effect tier resolution scale in (0, 1]
	//   - cssWidth: viewport width in CSS pixels
	//   - cssHeight: viewport height in CSS pixels
	PushQuality(ratio, tierScale, cssWidth, cssHeight float64)

	// PushVisual applies a scroll-derived visual state.
	//
	// Parameters:
	//   - v: the visual state to apply
	PushVisual(v scroll.Visual)

	// PushDepth binds the depth texture the glass pass masks against.
	PushDepth(view *wgpu.TextureView, near, far float64)

	// Tick advances the glass pass's animation time.
	Tick(dt float64)
}

var _ Binder = &binder{}

// NewBinder creates a Binder over the given handles.
//
// Parameters:
//   - options: functional options supplying handles and the logger
//
// Returns:
//   - Binder: the new binder
func NewBinder(options ...BinderBuilderOption) Binder {
	b := &binder{logger: zap.NewNop()}
	for _, opt := range options {
		opt(b)
	}
	return b
}

func (b *binder) PushQuality(ratio, tierScale, cssWidth, cssHeight float64) {
	if ratio <= 0 || cssWidth <= 0 || cssHeight <= 0 {
		return
	}
	if tierScale <= 0 {
		tierScale = 1
	}
	fbW, fbH := math.Round(cssWidth*ratio), math.Round(cssHeight*ratio)

	if b.renderer != nil {
		b.renderer.SetPixelRatio(ratio)
		b.renderer.SetSize(cssWidth, cssHeight)
	}
	if b.composer != nil {
		b.composer.SetPixelRatio(ratio)
		b.composer.SetSize(cssWidth, cssHeight)
	}
	if b.glass != nil {
		b.glass.SetResolution(math.Round(fbW*tierScale), math.Round(fbH*tierScale))
	}
	if b.vignette != nil {
		b.vignette.SetResolution(fbW, fbH)
	}
	b.logger.Debug("quality pushed",
		zap.Float64("ratio", ratio),
		zap.Float64("tier_scale", tierScale),
		zap.Float64("fb_width", fbW),
		zap.Float64("fb_height", fbH),
	)
}

func (b *binder) PushVisual(v scroll.Visual) {
	if b.glass != nil {
		progress := v.Progress
		if v.Glass.SplitScreen {
			progress = v.Glass.LeftProgress
		}
		b.glass.SetScrollProgress(progress)
		b.glass.SetRefractionMultiplier(v.Refraction)
		b.glass.SetSplitScreenMode(v.Glass.SplitScreen, v.Glass.Boundary, v.Glass.RightProgress)
	}
	if b.renderer != nil {
		b.renderer.SetToneExposure(v.Exposure)
	}
	if b.hueSat != nil {
		b.hueSat.SetSaturation(v.Saturation)
	}
	if b.gradient != nil {
		b.gradient.SetColors(v.Gradient.Top, v.Gradient.Bottom)
	}
}

func (b *binder) PushDepth(view *wgpu.TextureView, near, far float64) {
	if b.glass != nil {
		b.glass.SetDepthSource(view, near, far)
	}
}

func (b *binder) Tick(dt float64) {
	if b.glass != nil && dt > 0 {
		b.glass.TickTime(dt)
	}
}
