package binder

import (
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"go.uber.org/zap"
)

// BinderBuilderOption is a functional option for configuring a Binder.
type BinderBuilderOption func(*binder)

// WithRenderer sets the renderer handle.
func WithRenderer(r RendererHandle) BinderBuilderOption {
	return func(b *binder) {
		b.renderer = r
	}
}

// WithComposer sets the post-processing composer handle.
func WithComposer(c ComposerHandle) BinderBuilderOption {
	return func(b *binder) {
		b.composer = c
	}
}

// WithReededGlass sets the reeded glass handle.
func WithReededGlass(g ReededGlassHandle) BinderBuilderOption {
	return func(b *binder) {
		b.glass = g
	}
}

// WithVignette sets the vignette handle.
func WithVignette(v VignetteHandle) BinderBuilderOption {
	return func(b *binder) {
		b.vignette = v
	}
}

// WithHueSaturation sets the colour-grading handle.
func WithHueSaturation(h HueSaturationHandle) BinderBuilderOption {
	return func(b *binder) {
		b.hueSat = h
	}
}

// WithGradient sets the background gradient handle.
func WithGradient(g GradientHandle) BinderBuilderOption {
	return func(b *binder) {
		b.gradient = g
	}
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(log *zap.Logger) BinderBuilderOption {
	return func(b *binder) {
		b.logger = logger.OrNop(log).Named("binder")
	}
}
