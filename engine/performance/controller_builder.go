package performance

import (
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"go.uber.org/zap"
)

// ControllerBuilderOption is a functional option for configuring a Controller.
type ControllerBuilderOption func(*controller)

// WithThresholds sets the drop and raise FPS thresholds. The raise threshold must be above the drop
// threshold; otherwise the pair is ignored.
//
// Parameters:
//   - drop: smoothed FPS below which the degrade accumulator grows
//   - raise: smoothed FPS at or above which the upgrade accumulator grows
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithThresholds(drop, raise float64) ControllerBuilderOption {
	return func(c *controller) {
		if drop > 0 && raise > drop {
			c.dropFPS = drop
			c.raiseFPS = raise
		}
	}
}

// WithEMAWindow sets the EMA time constant in seconds.
func WithEMAWindow(seconds float64) ControllerBuilderOption {
	return func(c *controller) {
		if seconds > 0 {
			c.emaWindow = seconds
		}
	}
}

// WithDegradeAfter sets how long the smoothed FPS must stay below the drop threshold before a degrade.
func WithDegradeAfter(d time.Duration) ControllerBuilderOption {
	return func(c *controller) {
		if d > 0 {
			c.degradeAfter = d
		}
	}
}

// WithUpgradeAfter sets how long the smoothed FPS must stay at or above the raise threshold before an upgrade.
func WithUpgradeAfter(d time.Duration) ControllerBuilderOption {
	return func(c *controller) {
		if d > 0 {
			c.upgradeAfter = d
		}
	}
}

// WithDecayRate sets how many accumulator milliseconds drain per elapsed millisecond outside the band.
func WithDecayRate(rate float64) ControllerBuilderOption {
	return func(c *controller) {
		if rate >= 0 {
			c.decayRate = rate
		}
	}
}

// WithDebounce sets the minimum interval between two ladder changes.
func WithDebounce(d time.Duration) ControllerBuilderOption {
	return func(c *controller) {
		if d >= 0 {
			c.debounce = d
		}
	}
}

// WithResumeGuard configures the guard armed by NotifyResume.
//
// Parameters:
//   - guard: window after a resume in which no degrade is permitted
//   - postDebounce: extra debounce applied once the guard ends
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithResumeGuard(guard, postDebounce time.Duration) ControllerBuilderOption {
	return func(c *controller) {
		if guard >= 0 {
			c.guardDuration = guard
		}
		if postDebounce >= 0 {
			c.postGuardDebounce = postDebounce
		}
	}
}

// WithResumeDiscard sets how many frames and for how long samples are thrown away after a resume.
// Discarding continues until both are exhausted.
func WithResumeDiscard(frames int, d time.Duration) ControllerBuilderOption {
	return func(c *controller) {
		if frames >= 0 {
			c.ignoreFrames = frames
		}
		if d >= 0 {
			c.ignoreDuration = d
		}
	}
}

// WithResumeGuardState seeds the controller with an already armed guard, so a replacement controller
// keeps honoring a resume that happened before it was built.
//
// Parameters:
//   - guard: the guard carried over, usually the previous controller's Guard()
//
// Returns:
//   - ControllerBuilderOption: option function to apply
func WithResumeGuardState(guard ResumeGuard) ControllerBuilderOption {
	return func(c *controller) {
		c.guard = guard
	}
}

// WithMaxFrameDelta clamps per-frame elapsed time in seconds.
func WithMaxFrameDelta(seconds float64) ControllerBuilderOption {
	return func(c *controller) {
		if seconds > 0 {
			c.maxFrameDelta = seconds
		}
	}
}

// WithClock sets the clock used for debounce and guard comparisons.
func WithClock(clock common.Clock) ControllerBuilderOption {
	return func(c *controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(log *zap.Logger) ControllerBuilderOption {
	return func(c *controller) {
		c.logger = logger.OrNop(log).Named("performance")
	}
}
