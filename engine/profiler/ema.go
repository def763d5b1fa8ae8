package profiler

import "github.com/Carmen-Shannon/oxy-hero/common"

// FrameTimeEMA is a continuous-time exponential moving average of frame duration.
//
// Each sample blends with weight 1 - exp(-dt/window), so the smoothing horizon is the same wall-clock span
// regardless of frame rate. A fixed per-sample weight would smooth over fewer seconds at high frame rates
// and more seconds at low ones.
type FrameTimeEMA struct {
	value  float64
	window float64
}

// NewFrameTimeEMA creates an EMA seeded at initial seconds per frame.
//
// Parameters:
//   - initial: starting frame time in seconds (e.g. 1/60)
//   - window: smoothing time constant in seconds
//
// Returns:
//   - *FrameTimeEMA: the new average
func NewFrameTimeEMA(initial, window float64) *FrameTimeEMA {
	if initial <= 0 {
		initial = 1.0 / 60.0
	}
	return &FrameTimeEMA{value: initial, window: window}
}

// Add feeds one frame duration (seconds) into the average and returns the new value.
// Non-positive samples are ignored.
func (e *FrameTimeEMA) Add(frameTime float64) float64 {
	if frameTime <= 0 {
		return e.value
	}
	e.value += common.ExpSmoothingAlpha(frameTime, e.window) * (frameTime - e.value)
	return e.value
}

// Value returns the smoothed frame time in seconds.
func (e *FrameTimeEMA) Value() float64 {
	return e.value
}

// FPS returns 1 / Value.
func (e *FrameTimeEMA) FPS() float64 {
	if e.value <= 0 {
		return 0
	}
	return 1 / e.value
}

// Reset seeds the average at frameTime.
func (e *FrameTimeEMA) Reset(frameTime float64) {
	if frameTime > 0 {
		e.value = frameTime
	}
}
