package performance

import "time"

// Defaults for the controller. Upgrades need twice the confirmation time of degrades.
const (
	DefaultDropFPS           = 55.0
	DefaultRaiseFPS          = 58.0
	DefaultEMAWindow         = 0.5
	DefaultDegradeAfter      = 4000 * time.Millisecond
	DefaultUpgradeAfter      = 8000 * time.Millisecond
	DefaultDecayRate         = 1.0
	DefaultDebounce          = 2500 * time.Millisecond
	DefaultGuardDuration     = 3000 * time.Millisecond
	DefaultPostGuardDebounce = 4000 * time.Millisecond
	DefaultIgnoreFrames      = 3
	DefaultIgnoreDuration    = 500 * time.Millisecond
	DefaultMaxFrameDelta     = 0.25
)

// Band is the region the smoothed FPS falls in relative to the two thresholds.
type Band int

const (
	// BandNeutral lies between the drop and raise thresholds; both accumulators decay.
	BandNeutral Band = iota
	// BandDegrading is below the drop threshold.
	BandDegrading
	// BandUpgrading is at or above the raise threshold.
	BandUpgrading
	// BandGuarded means a resume guard suppressed the sample's effect on the accumulators.
	BandGuarded
	// BandDiscarded means the sample was dropped entirely after a resume.
	BandDiscarded
)

// String returns the lowercase band name.
func (b Band) String() string {
	switch b {
	case BandNeutral:
		return "neutral"
	case BandDegrading:
		return "degrading"
	case BandUpgrading:
		return "upgrading"
	case BandGuarded:
		return "guarded"
	case BandDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Sample is the controller's view of recent performance.
type Sample struct {
	// EMA is the smoothed frame duration in seconds.
	EMA float64
	// FPS is 1 / EMA.
	FPS float64
	// LowAccumMs is time spent continuously below the drop threshold.
	LowAccumMs float64
	// HighAccumMs is time spent continuously at or above the raise threshold.
	HighAccumMs float64
	// Band is the band of the most recent frame.
	Band Band
}

// ResumeGuard suppresses degradation after the page returns to the foreground.
type ResumeGuard struct {
	// GuardUntil ends the window in which no degrade is permitted.
	GuardUntil time.Time
	// IgnoreFrames counts the frame samples still to be discarded.
	IgnoreFrames int
	// IgnoreUntil ends the window in which frame samples are discarded.
	IgnoreUntil time.Time
	// PostGuardDebounceUntil extends the change debounce past the guard.
	PostGuardDebounceUntil time.Time
}

// Active reports whether the no-degrade window is still open at now.
func (g ResumeGuard) Active(now time.Time) bool {
	return now.Before(g.GuardUntil)
}

// Discarding reports whether samples are still being discarded at now. Discarding lasts until both the
// frame count and the duration are exhausted.
func (g ResumeGuard) Discarding(now time.Time) bool {
	return g.IgnoreFrames > 0 || now.Before(g.IgnoreUntil)
}
