package engine

import (
	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/config"
	"github.com/Carmen-Shannon/oxy-hero/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-hero/engine/hero"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"github.com/Carmen-Shannon/oxy-hero/engine/window"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables periodic frame and memory stats.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithWindow sets the window whose message loop drives the engine.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithPresenter sets the renderer whose frame is begun, ended and presented each iteration.
func WithPresenter(p Presenter) EngineBuilderOption {
	return func(e *engine) {
		e.presenter = p
	}
}

// WithHero sets the orchestrator advanced each frame.
func WithHero(h hero.Hero) EngineBuilderOption {
	return func(e *engine) {
		e.hero = h
	}
}

// WithConfigWatcher applies reloaded tuning files to the hero's controller.
func WithConfigWatcher(w *config.Watcher) EngineBuilderOption {
	return func(e *engine) {
		e.watcher = w
	}
}

// WithMetrics serves the exporter's metrics on addr while the engine runs.
//
// Parameters:
//   - exp: the Prometheus exporter
//   - addr: listen address; empty disables the server
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithMetrics(exp *diagnostics.Exporter, addr string) EngineBuilderOption {
	return func(e *engine) {
		e.exporter = exp
		e.exporterAddr = addr
	}
}

// WithRenderFrameLimit sets an optional frame rate cap in frames per second.
// Pass 0 to uncap the loop (default).
//
// Parameters:
//   - fps: maximum frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithClock sets the frame time source.
func WithClock(c common.Clock) EngineBuilderOption {
	return func(e *engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.log = logger.OrNop(log).Named("engine")
	}
}
