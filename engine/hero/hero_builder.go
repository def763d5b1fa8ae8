package hero

import (
	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/asset"
	"github.com/Carmen-Shannon/oxy-hero/engine/avatar"
	"github.com/Carmen-Shannon/oxy-hero/engine/binder"
	"github.com/Carmen-Shannon/oxy-hero/engine/diagnostics"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"github.com/Carmen-Shannon/oxy-hero/engine/performance"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// HeroBuilderOption is a functional option for configuring a Hero.
type HeroBuilderOption func(*hero)

// WithSessionID tags the hero's status and logs.
func WithSessionID(id string) HeroBuilderOption {
	return func(h *hero) {
		h.sessionID = id
	}
}

// WithViewport seeds the initial CSS viewport. The first frame treats it as a resize.
//
// Parameters:
//   - width: viewport width in CSS pixels
//   - height: viewport height in CSS pixels
//
// Returns:
//   - HeroBuilderOption: option function to apply
func WithViewport(width, height float64) HeroBuilderOption {
	return func(h *hero) {
		if width > 0 && height > 0 {
			h.cssWidth, h.cssHeight = width, height
			h.resizePending = true
		}
	}
}

// WithLadderOptions passes options through to the quality ladder.
func WithLadderOptions(options ...quality.LadderBuilderOption) HeroBuilderOption {
	return func(h *hero) {
		h.ladderOptions = append(h.ladderOptions, options...)
	}
}

// WithControllerOptions passes options through to the performance controller.
func WithControllerOptions(options ...performance.ControllerBuilderOption) HeroBuilderOption {
	return func(h *hero) {
		h.controllerOptions = append(h.controllerOptions, options...)
	}
}

// WithNavigatorOptions passes options through to the section navigator.
func WithNavigatorOptions(options ...scroll.NavigatorBuilderOption) HeroBuilderOption {
	return func(h *hero) {
		h.navigatorOptions = append(h.navigatorOptions, options...)
	}
}

// WithBinder sets the shader parameter binder. Without one, pushes go nowhere.
func WithBinder(b binder.Binder) HeroBuilderOption {
	return func(h *hero) {
		h.binder = b
	}
}

// WithRig sets the head rig.
func WithRig(r avatar.Rig) HeroBuilderOption {
	return func(h *hero) {
		h.rig = r
	}
}

// WithModelMatrixSink receives the head model matrix once per frame.
func WithModelMatrixSink(sink func([16]float32)) HeroBuilderOption {
	return func(h *hero) {
		h.modelSink = sink
	}
}

// WithComposer sets the effect chain flushed at the end of each frame.
func WithComposer(c Flusher) HeroBuilderOption {
	return func(h *hero) {
		h.composer = c
	}
}

// WithOverlay sets the display toggled by the overlay key.
func WithOverlay(t Toggler) HeroBuilderOption {
	return func(h *hero) {
		h.overlay = t
	}
}

// WithObservers adds diagnostics observers. They are called on the frame thread and must not block.
func WithObservers(observers ...diagnostics.Observer) HeroBuilderOption {
	return func(h *hero) {
		for _, o := range observers {
			if o != nil {
				h.observers = append(h.observers, o)
			}
		}
	}
}

// WithDepthSource sets where the glass pass's depth mask comes from. The binder is updated only when the
// returned view changes.
func WithDepthSource(src DepthSource) HeroBuilderOption {
	return func(h *hero) {
		h.depth = src
	}
}

// WithTextures sets the asset loader drained each frame and the uploader its results go through.
//
// Parameters:
//   - loader: the asynchronous texture decoder
//   - uploader: creates GPU textures from decoded pixels
//
// Returns:
//   - HeroBuilderOption: option function to apply
func WithTextures(loader asset.Loader, uploader TextureUploader) HeroBuilderOption {
	return func(h *hero) {
		h.loader = loader
		h.uploader = uploader
	}
}

// WithTextureBinding routes the uploaded texture named name to bind.
//
// Parameters:
//   - name: the EffectTexture name
//   - bind: receives the texture view once uploaded
//
// Returns:
//   - HeroBuilderOption: option function to apply
func WithTextureBinding(name string, bind func(*wgpu.TextureView)) HeroBuilderOption {
	return func(h *hero) {
		if bind != nil {
			h.bindings[name] = bind
		}
	}
}

// WithClock sets the time source shared by the ladder, controller and navigator.
func WithClock(c common.Clock) HeroBuilderOption {
	return func(h *hero) {
		if c != nil {
			h.clock = c
		}
	}
}

// WithLogger sets the logger shared by the hero's components.
func WithLogger(log *zap.Logger) HeroBuilderOption {
	return func(h *hero) {
		h.log = logger.OrNop(log)
	}
}
