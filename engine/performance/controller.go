package performance

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/profiler"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"go.uber.org/zap"
)

// controller is the implementation of the Controller interface.
type controller struct {
	ladder quality.Ladder
	ema    *profiler.FrameTimeEMA
	clock  common.Clock
	logger *zap.Logger

	dropFPS       float64
	raiseFPS      float64
	emaWindow     float64
	degradeAfter  time.Duration
	upgradeAfter  time.Duration
	decayRate     float64
	debounce      time.Duration
	maxFrameDelta float64

	guardDuration     time.Duration
	postGuardDebounce time.Duration
	ignoreFrames      int
	ignoreDuration    time.Duration

	lowAccumMs  float64
	highAccumMs float64
	band        Band
	guard       ResumeGuard

	detach func()
}

// Controller is the closed-loop adaptive quality controller.
//
// Each frame it folds the frame duration into a continuous-time EMA and classifies the smoothed FPS into
// one of three bands. Time spent in the degrading or upgrading band accumulates; once an accumulator
// crosses its duration threshold the controller moves the quality ladder exactly one step. Single-frame
// spikes never move the ladder, and consecutive moves are separated by a debounce interval.
type Controller interface {
	// Frame feeds one frame's elapsed time into the controller and may step the ladder.
	// Must be called synchronously from the frame loop.
	//
	// Parameters:
	//   - dt: seconds since the previous frame
	//
	// Returns:
	//   - bool: true if the ladder moved this frame
	Frame(dt float64) bool

	// NotifyResume arms the resume guard. Call on visibility, focus and page-show transitions.
	//
	// Parameters:
	//   - reason: short label for logs (e.g. "visibility")
	NotifyResume(reason string)

	// Sample returns the current performance sample.
	//
	// Returns:
	//   - Sample: the smoothed timing and accumulator state
	Sample() Sample

	// Guard returns the current resume guard.
	Guard() ResumeGuard

	// Ladder returns the controlled ladder.
	Ladder() quality.Ladder

	// Close detaches the controller from its ladder; later ladder changes no longer reset its accumulators.
	Close()
}

var _ Controller = &controller{}

// NewController creates a Controller stepping the given ladder.
//
// Parameters:
//   - ladder: the quality ladder to control
//   - options: functional options overriding thresholds and windows
//
// Returns:
//   - Controller: the new controller
func NewController(ladder quality.Ladder, options ...ControllerBuilderOption) Controller {
	c := &controller{
		ladder:            ladder,
		clock:             common.SystemClock{},
		logger:            zap.NewNop(),
		dropFPS:           DefaultDropFPS,
		raiseFPS:          DefaultRaiseFPS,
		emaWindow:         DefaultEMAWindow,
		degradeAfter:      DefaultDegradeAfter,
		upgradeAfter:      DefaultUpgradeAfter,
		decayRate:         DefaultDecayRate,
		debounce:          DefaultDebounce,
		maxFrameDelta:     DefaultMaxFrameDelta,
		guardDuration:     DefaultGuardDuration,
		postGuardDebounce: DefaultPostGuardDebounce,
		ignoreFrames:      DefaultIgnoreFrames,
		ignoreDuration:    DefaultIgnoreDuration,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.raiseFPS <= c.dropFPS {
		c.raiseFPS = c.dropFPS + 1
	}
	c.ema = profiler.NewFrameTimeEMA(1/c.raiseFPS, c.emaWindow)

	// Any ladder move, including budget enforcement and manual overrides, restarts both accumulators.
	c.detach = ladder.OnChange(func(quality.Change) {
		c.resetAccumulators()
	})
	return c
}

func (c *controller) Frame(dt float64) bool {
	now := c.clock.Now()

	if c.guard.Discarding(now) {
		if c.guard.IgnoreFrames > 0 {
			c.guard.IgnoreFrames--
		}
		c.resetAccumulators()
		c.band = BandDiscarded
		return false
	}

	if dt <= 0 || !common.Finite(dt) {
		return false
	}
	dt = math.Min(dt, c.maxFrameDelta)

	c.ema.Add(dt)
	fps := c.ema.FPS()
	dtMs := dt * 1000

	if c.guard.Active(now) {
		c.resetAccumulators()
		c.band = BandGuarded
		return false
	}

	switch {
	case fps < c.dropFPS:
		c.band = BandDegrading
		c.lowAccumMs += dtMs
		c.highAccumMs = c.decay(c.highAccumMs, dtMs)
	case fps >= c.raiseFPS:
		c.band = BandUpgrading
		c.highAccumMs += dtMs
		c.lowAccumMs = c.decay(c.lowAccumMs, dtMs)
	default:
		c.band = BandNeutral
		c.lowAccumMs = c.decay(c.lowAccumMs, dtMs)
		c.highAccumMs = c.decay(c.highAccumMs, dtMs)
	}

	degradeMs := float64(c.degradeAfter.Milliseconds())
	upgradeMs := float64(c.upgradeAfter.Milliseconds())

	if !c.changeAllowed(now) {
		// Hold at the threshold so the step fires as soon as the debounce ends.
		c.lowAccumMs = math.Min(c.lowAccumMs, degradeMs)
		c.highAccumMs = math.Min(c.highAccumMs, upgradeMs)
		return false
	}

	switch {
	case c.lowAccumMs >= degradeMs:
		c.lowAccumMs = 0
		if c.ladder.DegradeOneStep() {
			c.logger.Info("quality degraded",
				zap.Float64("ema_fps", fps),
				zap.Int("tier", c.ladder.State().TierIndex),
				zap.Int("bucket", c.ladder.State().BucketIndex),
			)
			return true
		}
	case c.highAccumMs >= upgradeMs:
		c.highAccumMs = 0
		if c.ladder.UpgradeOneStep() {
			c.logger.Info("quality upgraded",
				zap.Float64("ema_fps", fps),
				zap.Int("tier", c.ladder.State().TierIndex),
				zap.Int("bucket", c.ladder.State().BucketIndex),
				zap.Float64("base_cap", c.ladder.State().BaseCapCurrent),
			)
			return true
		}
	}
	return false
}

func (c *controller) NotifyResume(reason string) {
	now := c.clock.Now()
	c.guard = ResumeGuard{
		GuardUntil:             now.Add(c.guardDuration),
		IgnoreFrames:           c.ignoreFrames,
		IgnoreUntil:            now.Add(c.ignoreDuration),
		PostGuardDebounceUntil: now.Add(c.guardDuration + c.postGuardDebounce),
	}
	c.resetAccumulators()
	c.logger.Debug("resume guard armed",
		zap.String("reason", reason),
		zap.Time("guard_until", c.guard.GuardUntil),
		zap.Time("debounce_until", c.guard.PostGuardDebounceUntil),
	)
}

func (c *controller) Sample() Sample {
	return Sample{
		EMA:         c.ema.Value(),
		FPS:         c.ema.FPS(),
		LowAccumMs:  c.lowAccumMs,
		HighAccumMs: c.highAccumMs,
		Band:        c.band,
	}
}

func (c *controller) Guard() ResumeGuard {
	return c.guard
}

func (c *controller) Ladder() quality.Ladder {
	return c.ladder
}

func (c *controller) Close() {
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
}

// changeAllowed reports whether the debounce windows permit a ladder move at now.
func (c *controller) changeAllowed(now time.Time) bool {
	if now.Before(c.guard.PostGuardDebounceUntil) {
		return false
	}
	last := c.ladder.LastChange()
	return last.IsZero() || now.Sub(last) >= c.debounce
}

func (c *controller) decay(accum, dtMs float64) float64 {
	return math.Max(0, accum-dtMs*c.decayRate)
}

func (c *controller) resetAccumulators() {
	c.lowAccumMs = 0
	c.highAccumMs = 0
}
