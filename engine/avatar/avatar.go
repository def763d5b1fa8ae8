// Package avatar drives the hero head: pointer-following yaw and pitch with exponential easing, and an
// idle breathing motion, combined into a model matrix.
package avatar

// Rig is the head pose controller.
type Rig interface {
	// SetViewport sets the viewport size used to normalize pointer positions.
	//
	// Parameters:
	//   - width: viewport width in CSS pixels
	//   - height: viewport height in CSS pixels
	SetViewport(width, height float64)

	// PointAt sets the head's look target from a pointer position in CSS pixels.
	// The head eases toward the target on subsequent Updates.
	PointAt(x, y float64)

	// Update advances easing and breathing by dt seconds.
	Update(dt float64)

	// Yaw returns the current head yaw in radians.
	Yaw() float32

	// Pitch returns the current head pitch in radians, excluding breathing.
	Pitch() float32

	// BreathOffset returns the current vertical breathing offset.
	BreathOffset() float32

	// ModelMatrix returns the head's column-major model matrix.
	//
	// Returns:
	//   - [16]float32: the model matrix including breathing
	ModelMatrix() [16]float32
}
