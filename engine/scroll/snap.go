package scroll

import (
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
)

// DefaultSnapDuration is how long a snap-to-section animation runs.
const DefaultSnapDuration = 900 * time.Millisecond

// Snap is an eased offset tween toward a section. Starting a new snap while one is running cancels the
// running tween and restarts from wherever it had reached.
type Snap struct {
	duration float64
	from     float64
	to       float64
	current  float64
	elapsed  float64
	target   int
	active   bool
}

// NewSnap creates an idle Snap with the given duration. Non-positive durations complete on the next step.
func NewSnap(duration time.Duration) *Snap {
	return &Snap{duration: duration.Seconds()}
}

// Start begins a tween from the given offset to the target offset. An in-flight tween is discarded.
//
// Parameters:
//   - from: the offset to animate from
//   - to: the offset to land on
//   - target: the section index being snapped to
func (s *Snap) Start(from, to float64, target int) {
	s.from = from
	s.to = to
	s.current = from
	s.elapsed = 0
	s.target = target
	s.active = true
}

// Step advances the tween by dt seconds.
//
// Parameters:
//   - dt: elapsed seconds
//
// Returns:
//   - float64: the animated offset
//   - bool: true if this step completed the tween
func (s *Snap) Step(dt float64) (float64, bool) {
	if !s.active {
		return s.current, false
	}
	if dt > 0 {
		s.elapsed += dt
	}
	if s.duration <= 0 || s.elapsed >= s.duration {
		s.current = s.to
		s.active = false
		return s.current, true
	}
	t := common.EaseInOutCubic(s.elapsed / s.duration)
	s.current = common.Lerp(s.from, s.to, t)
	return s.current, false
}

// Rescale multiplies the tween's endpoints by factor. Used when the section height changes mid-flight.
func (s *Snap) Rescale(factor float64) {
	s.from *= factor
	s.to *= factor
	s.current *= factor
}

// Cancel stops the tween where it is.
func (s *Snap) Cancel() {
	s.active = false
}

// Active reports whether a tween is in flight.
func (s *Snap) Active() bool {
	return s.active
}

// Current returns the most recent animated offset.
func (s *Snap) Current() float64 {
	return s.current
}

// Target returns the section index of the most recent tween.
func (s *Snap) Target() int {
	return s.target
}
