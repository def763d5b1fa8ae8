package avatar

// RigOption is a functional option for configuring a Rig.
type RigOption func(*rigImpl)

// WithTrackingLimits sets the maximum yaw and pitch the pointer can drive.
//
// Parameters:
//   - maxYaw: yaw limit in radians at the viewport edges
//   - maxPitch: pitch limit in radians at the viewport edges
//
// Returns:
//   - RigOption: functional option to set the limits
func WithTrackingLimits(maxYaw, maxPitch float32) RigOption {
	return func(r *rigImpl) {
		r.maxYaw = maxYaw
		r.maxPitch = maxPitch
	}
}

// WithFollowWindow sets the easing time constant in seconds.
func WithFollowWindow(seconds float64) RigOption {
	return func(r *rigImpl) {
		if seconds >= 0 {
			r.followWindow = seconds
		}
	}
}

// WithRecenterAfter returns the head to centre after this many seconds without pointer input.
// Zero disables recentering.
func WithRecenterAfter(seconds float64) RigOption {
	return func(r *rigImpl) {
		if seconds >= 0 {
			r.recenterAfter = seconds
		}
	}
}

// WithBreathing sets the breathing period in seconds and the vertical amplitude.
func WithBreathing(period float64, amplitude float32) RigOption {
	return func(r *rigImpl) {
		r.breathPeriod = period
		r.breathAmplitude = amplitude
	}
}

// WithPosition sets the head's rest position.
func WithPosition(x, y, z float32) RigOption {
	return func(r *rigImpl) {
		r.position = [3]float32{x, y, z}
	}
}

// WithScale sets a uniform scale.
func WithScale(s float32) RigOption {
	return func(r *rigImpl) {
		if s > 0 {
			r.scale = s
		}
	}
}
