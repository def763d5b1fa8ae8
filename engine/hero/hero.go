// Package hero wires the adaptive quality loop and the scroll state machine to the input port, the shader
// parameter binder and the diagnostics observers. One Hero owns one session; it is driven by calling Frame
// once per rendered frame from the thread that also delivers input events.
package hero

import (
	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/asset"
	"github.com/Carmen-Shannon/oxy-hero/engine/avatar"
	"github.com/Carmen-Shannon/oxy-hero/engine/binder"
	"github.com/Carmen-Shannon/oxy-hero/engine/device"
	"github.com/Carmen-Shannon/oxy-hero/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-hero/engine/input"
	"github.com/Carmen-Shannon/oxy-hero/engine/performance"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// Resume reasons passed to the controller and observers.
const (
	ResumeVisibility = "visibility"
	ResumeFocus      = "focus"
	ResumePageShow   = "pageshow"
)

// TextureUploader turns decoded pixels into a GPU texture view. The renderer satisfies it.
type TextureUploader interface {
	CreateTexture(label string, data common.TextureStagingData) (*wgpu.TextureView, error)
}

// Flusher writes pending uniform state to the GPU. The effect composer satisfies it.
type Flusher interface {
	Flush()
}

// Toggler flips a diagnostic display on or off. The overlay satisfies it.
type Toggler interface {
	Toggle() bool
}

// DepthSource supplies the current depth attachment and the camera planes it was rendered with.
type DepthSource func() (view *wgpu.TextureView, near, far float64)

// Hero is the per-session orchestrator.
type Hero interface {
	// Frame advances everything by dt seconds: pending resize, quality control, scroll animation, head
	// tracking, texture uploads, uniform flushes and status publication, in that order.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous frame
	Frame(dt float64)

	// Status builds the current diagnostics snapshot.
	Status() diagnostics.Status

	// ForceBucket, ForceTier and ForceBaseCap override the ladder for diagnostics. The change is
	// pushed to the handles on the next frame.
	ForceBucket(i int) bool
	ForceTier(i int) bool
	ForceBaseCap(v float64) bool

	// Reconfigure replaces the performance controller with one built from the given options. The
	// ladder position and an armed resume guard are kept; accumulators and the EMA start over.
	//
	// Parameters:
	//   - options: controller options, typically from a reloaded tuning file
	Reconfigure(options ...performance.ControllerBuilderOption)

	Ladder() quality.Ladder
	Controller() performance.Controller
	Navigator() scroll.Navigator
	Rig() avatar.Rig
	SessionID() string

	// Close detaches the hero from its input port.
	Close()
}

type hero struct {
	log       *zap.Logger
	sessionID string
	clock     common.Clock

	profile    device.Profile
	ladder     quality.Ladder
	controller performance.Controller
	navigator  scroll.Navigator
	binder     binder.Binder
	rig        avatar.Rig

	ladderOptions     []quality.LadderBuilderOption
	controllerOptions []performance.ControllerBuilderOption
	navigatorOptions  []scroll.NavigatorBuilderOption

	composer  Flusher
	overlay   Toggler
	observers []diagnostics.Observer

	loader   asset.Loader
	uploader TextureUploader
	bindings map[string]func(*wgpu.TextureView)

	depth     DepthSource
	lastDepth *wgpu.TextureView

	modelSink func([16]float32)

	// viewport in CSS pixels and the coalesced resize waiting for the next frame
	cssWidth      float64
	cssHeight     float64
	resizePending bool
	qualityDirty  bool

	unsubscribe func()
}

var _ Hero = &hero{}

// NewHero builds the quality ladder and controller for profile, the section navigator and the head rig,
// and subscribes to port. The first Frame pushes quality and visual state even if nothing has changed.
//
// Parameters:
//   - profile: the classified device profile
//   - port: the input event source, may be nil for headless use
//   - options: functional options supplying handles, observers and tuning
//
// Returns:
//   - Hero: the new hero
func NewHero(profile device.Profile, port input.Port, options ...HeroBuilderOption) Hero {
	h := &hero{
		log:      zap.NewNop(),
		clock:    common.SystemClock{},
		profile:  profile,
		bindings: make(map[string]func(*wgpu.TextureView)),
	}
	for _, opt := range options {
		opt(h)
	}
	if h.sessionID == "" {
		h.sessionID = "local"
	}

	h.ladder = quality.NewLadder(profile, append([]quality.LadderBuilderOption{
		quality.WithClock(h.clock),
		quality.WithLogger(h.log),
	}, h.ladderOptions...)...)
	h.ladder.OnChange(h.onLadderChange)
	h.controller = h.newController(h.controllerOptions...)

	h.navigator = scroll.NewNavigator(append([]scroll.NavigatorBuilderOption{
		scroll.WithClock(h.clock),
		scroll.WithLogger(h.log),
	}, h.navigatorOptions...)...)

	if h.binder == nil {
		h.binder = binder.NewBinder(binder.WithLogger(h.log))
	}
	if h.rig == nil {
		h.rig = avatar.NewRig()
	}

	h.qualityDirty = true
	if port != nil {
		h.unsubscribe = port.Subscribe(h.handle)
	}

	h.log.Info("hero started",
		zap.String("session", h.sessionID),
		zap.Stringer("category", profile.Category),
		zap.Float64("base_cap", profile.BaseCapInitial),
		zap.Float64("base_cap_max", profile.BaseCapMax),
	)
	return h
}

func (h *hero) newController(options ...performance.ControllerBuilderOption) performance.Controller {
	return performance.NewController(h.ladder, append([]performance.ControllerBuilderOption{
		performance.WithClock(h.clock),
		performance.WithLogger(h.log),
	}, options...)...)
}

// handle applies one input event. Events only record state; the frame does the work.
func (h *hero) handle(e input.Event) {
	switch e.Kind {
	case input.KindResize:
		if e.Width <= 0 || e.Height <= 0 {
			return
		}
		h.cssWidth, h.cssHeight = e.Width, e.Height
		h.resizePending = true
	case input.KindScroll:
		h.navigator.OnScroll(e.Offset)
	case input.KindWheel:
		h.navigator.OnWheel(e.DeltaY)
	case input.KindVisibility:
		if e.Visible {
			h.resume(ResumeVisibility)
		}
	case input.KindFocus:
		if e.Focused {
			h.resume(ResumeFocus)
		}
	case input.KindPageShow:
		h.resume(ResumePageShow)
	case input.KindCursor:
		h.rig.PointAt(e.X, e.Y)
	case input.KindKey:
		h.handleKey(e.Key)
	}
}

func (h *hero) handleKey(k input.Key) {
	switch k {
	case input.KeyUp, input.KeyPageUp:
		h.navigator.Step(-1)
	case input.KeyDown, input.KeyPageDown:
		h.navigator.Step(1)
	case input.KeyHome:
		h.navigator.GoTo(0)
	case input.KeyEnd:
		h.navigator.GoTo(h.navigator.Sections() - 1)
	case input.KeyToggleOverlay:
		if h.overlay != nil {
			h.overlay.Toggle()
		}
	}
}

func (h *hero) resume(reason string) {
	h.controller.NotifyResume(reason)
	for _, o := range h.observers {
		o.ObserveResume(reason)
	}
}

func (h *hero) onLadderChange(c quality.Change) {
	h.qualityDirty = true
	for _, o := range h.observers {
		o.ObserveChange(c)
	}
}

func (h *hero) Frame(dt float64) {
	if h.resizePending {
		h.resizePending = false
		h.applyResize()
	}

	h.controller.Frame(dt)
	if h.qualityDirty {
		h.pushQuality()
	}

	if h.navigator.Update(dt) {
		h.binder.PushVisual(h.navigator.Visual())
	}

	h.rig.Update(dt)
	if h.modelSink != nil {
		h.modelSink(h.rig.ModelMatrix())
	}

	if h.depth != nil {
		if view, near, far := h.depth(); view != h.lastDepth {
			h.lastDepth = view
			h.binder.PushDepth(view, near, far)
		}
	}
	h.binder.Tick(dt)

	h.uploadTextures()

	if h.composer != nil {
		h.composer.Flush()
	}

	if len(h.observers) > 0 {
		s := h.Status()
		for _, o := range h.observers {
			o.ObserveStatus(s)
		}
	}
}

// applyResize runs the pixel budget against the new viewport before anything is sized, so the
// framebuffer is never allocated above budget.
func (h *hero) applyResize() {
	h.ladder.EnforcePixelBudget(h.cssWidth, h.cssHeight)
	h.navigator.SetSectionHeight(h.cssHeight)
	h.rig.SetViewport(h.cssWidth, h.cssHeight)
	h.qualityDirty = true
}

func (h *hero) pushQuality() {
	if h.cssWidth <= 0 || h.cssHeight <= 0 {
		return
	}
	h.qualityDirty = false
	h.binder.PushQuality(h.ladder.EffectivePixelRatio(), h.ladder.Tier().Scale, h.cssWidth, h.cssHeight)
}

func (h *hero) uploadTextures() {
	if h.loader == nil {
		return
	}
	for _, d := range h.loader.Drain() {
		if d.Err != nil {
			h.log.Warn("effect texture unavailable", zap.String("texture", d.Name), zap.Error(d.Err))
			continue
		}
		if h.uploader == nil {
			continue
		}
		view, err := h.uploader.CreateTexture(d.Name, d.Data)
		if err != nil {
			h.log.Warn("effect texture upload failed", zap.String("texture", d.Name), zap.Error(err))
			continue
		}
		if bind, ok := h.bindings[d.Name]; ok {
			bind(view)
		}
		h.log.Debug("effect texture bound", zap.String("texture", d.Name))
	}
}

func (h *hero) Status() diagnostics.Status {
	st := h.ladder.State()
	sc := h.navigator.State()
	return diagnostics.Status{
		SessionID:           h.sessionID,
		EffectivePixelRatio: h.ladder.EffectivePixelRatio(),
		BucketIndex:         st.BucketIndex,
		TierName:            h.ladder.Tier().Name,
		TierIndex:           st.TierIndex,
		BaseCapCurrent:      st.BaseCapCurrent,
		BaseCapMax:          h.profile.BaseCapMax,
		EmaFPS:              h.controller.Sample().FPS,
		Category:            h.profile.Category.String(),
		Progress:            sc.Progress,
		Section:             sc.Section,
	}
}

func (h *hero) ForceBucket(i int) bool {
	return h.ladder.ForceBucket(i)
}

func (h *hero) ForceTier(i int) bool {
	return h.ladder.ForceTier(i)
}

func (h *hero) ForceBaseCap(v float64) bool {
	return h.ladder.ForceBaseCap(v)
}

func (h *hero) Reconfigure(options ...performance.ControllerBuilderOption) {
	old := h.controller
	options = append(options[:len(options):len(options)], performance.WithResumeGuardState(old.Guard()))
	h.controller = h.newController(options...)
	old.Close()
	h.log.Info("performance controller reconfigured")
}

func (h *hero) Ladder() quality.Ladder {
	return h.ladder
}

func (h *hero) Controller() performance.Controller {
	return h.controller
}

func (h *hero) Navigator() scroll.Navigator {
	return h.navigator
}

func (h *hero) Rig() avatar.Rig {
	return h.rig
}

func (h *hero) SessionID() string {
	return h.sessionID
}

func (h *hero) Close() {
	if h.unsubscribe != nil {
		h.unsubscribe()
		h.unsubscribe = nil
	}
}
