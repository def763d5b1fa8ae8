// Package engine runs the hero on a single cooperative frame loop driven by the window's message pump.
// Off-thread producers (config reloads, metrics scrapes) reach the loop only through channels it drains
// or the diagnostics snapshot.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/config"
	"github.com/Carmen-Shannon/oxy-hero/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-hero/engine/hero"
	"github.com/Carmen-Shannon/oxy-hero/engine/profiler"
	"github.com/Carmen-Shannon/oxy-hero/engine/window"
	"go.uber.org/zap"
)

// Presenter is the part of the renderer the loop drives. renderer.Renderer satisfies it.
type Presenter interface {
	BeginFrame() error
	EndFrame()
	Present()
}

// engine implements the Engine interface.
type engine struct {
	log   *zap.Logger
	clock common.Clock

	window    window.Window
	presenter Presenter
	hero      hero.Hero

	profiler         *profiler.Profiler
	profilingEnabled bool

	watcher      *config.Watcher
	exporter     *diagnostics.Exporter
	exporterAddr string

	frameCallback func(dt float64)

	lastFrame        time.Time
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quitChannel chan struct{}
	quitOnce    sync.Once
	wg          sync.WaitGroup
}

// Engine is the main entry point. It owns the frame loop and forwards each frame to the hero and renderer.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Hero returns the orchestrator driven by the loop.
	Hero() hero.Hero

	// EnableProfiler enables periodic frame and memory stats in the log.
	EnableProfiler()

	// DisableProfiler disables periodic frame and memory stats.
	DisableProfiler()

	// SetFrameCallback registers a function called after each presented frame.
	//
	// Parameters:
	//   - callback: receives the frame's delta time in seconds
	SetFrameCallback(callback func(dt float64))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run starts the config watcher and metrics server if configured and runs the frame loop until the
	// window closes, ctx is cancelled or Quit is called.
	//
	// Parameters:
	//   - ctx: cancels the loop and the background services
	Run(ctx context.Context)

	// Quit asks the loop to stop at the next frame. Safe to call more than once and from any goroutine.
	Quit()
}

// NewEngine creates a new Engine.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		log:         zap.NewNop(),
		clock:       common.SystemClock{},
		quitChannel: make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	e.profiler = profiler.NewProfiler(e.log, e.clock, time.Second)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Hero() hero.Hero {
	return e.hero
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(dt float64)) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		e.wg.Wait()
	}()

	e.startServices(ctx)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		select {
		case <-ctx.Done():
			e.Quit()
		case <-e.quitChannel:
		}
	}()

	e.lastFrame = e.clock.Now()
	e.window.SetUpdateCallback(e.frame)
	e.window.ProcessMessages()
	e.Quit()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

// startServices launches the off-thread producers. Failures are logged; the hero runs without them.
func (e *engine) startServices(ctx context.Context) {
	if e.watcher != nil {
		e.watcher.Start(ctx)
	}
	if e.exporter != nil && e.exporterAddr != "" {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			if err := e.exporter.Serve(ctx, e.exporterAddr); err != nil {
				e.log.Error("metrics server stopped", zap.String("addr", e.exporterAddr), zap.Error(err))
			}
		}()
		e.log.Info("metrics server listening", zap.String("addr", e.exporterAddr))
	}
}

// frame runs one iteration of the loop on the window thread.
func (e *engine) frame() {
	select {
	case <-e.quitChannel:
		if err := e.window.Close(); err != nil {
			e.log.Warn("window close failed", zap.Error(err))
		}
		return
	default:
	}

	start := e.clock.Now()
	dt := start.Sub(e.lastFrame).Seconds()
	e.lastFrame = start

	e.applyConfig()

	if e.hero != nil {
		e.hero.Frame(dt)
	}

	if e.presenter != nil {
		if err := e.presenter.BeginFrame(); err == nil {
			e.presenter.EndFrame()
			e.presenter.Present()
		} else {
			e.log.Debug("frame skipped", zap.Error(err))
		}
	}

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	if e.profilingEnabled && e.hero != nil {
		e.profiler.Tick(e.hero.Controller().Sample().FPS)
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.clock.Now().Sub(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// applyConfig picks up at most one reloaded tuning file per frame.
func (e *engine) applyConfig() {
	if e.watcher == nil || e.hero == nil {
		return
	}
	select {
	case cfg := <-e.watcher.Updates():
		e.hero.Reconfigure(cfg.ControllerOptions()...)
	default:
	}
}
