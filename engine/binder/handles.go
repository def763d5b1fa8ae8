package binder

import (
	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererHandle is the slice of the renderer the binder writes to.
type RendererHandle interface {
	SetPixelRatio(ratio float64)
	SetSize(cssWidth, cssHeight float64)
	SetToneExposure(exposure float64)
}

// ComposerHandle is the post-processing chain. Like the renderer it takes a CSS size and a pixel ratio
// and derives its target size in framebuffer pixels.
type ComposerHandle interface {
	SetPixelRatio(ratio float64)
	SetSize(cssWidth, cssHeight float64)
}

// ReededGlassHandle is the fluted-glass refraction pass.
type ReededGlassHandle interface {
	SetResolution(width, height float64)
	SetScrollProgress(p float64)
	SetRefractionMultiplier(m float64)
	SetSplitScreenMode(enabled bool, boundary, rightProgress float64)
	SetDepthSource(view *wgpu.TextureView, near, far float64)
	TickTime(dt float64)
}

// VignetteHandle is the vignette pass. Its resolution must match the main framebuffer.
type VignetteHandle interface {
	SetResolution(width, height float64)
}

// HueSaturationHandle is the colour-grading pass.
type HueSaturationHandle interface {
	SetSaturation(s float64)
}

// GradientHandle is the background gradient.
type GradientHandle interface {
	SetColors(top, bottom scroll.Color)
}
