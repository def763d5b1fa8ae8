package avatar

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-hero/common"
)

// rigImpl is the implementation of Rig.
type rigImpl struct {
	mu *sync.Mutex

	// Viewport in CSS pixels, used to normalize the pointer
	viewportW float64
	viewportH float64

	// Head orientation (radians) and its pointer-driven target
	yaw         float32
	pitch       float32
	targetYaw   float32
	targetPitch float32

	// Tracking limits and response
	maxYaw         float32
	maxPitch       float32
	followWindow   float64
	recenterAfter  float64
	sincePointer   float64
	pointerTracked bool

	// Idle breathing
	breathPhase     float64
	breathPeriod    float64
	breathAmplitude float32
	breathPitch     float32

	position [3]float32
	scale    float32
}

// Compile-time interface compliance check
var _ Rig = &rigImpl{}

// NewRig creates a head rig looking straight ahead.
//
// Parameters:
//   - options: functional options to configure the rig
//
// Returns:
//   - Rig: the newly created rig
func NewRig(options ...RigOption) Rig {
	r := &rigImpl{
		mu: &sync.Mutex{},

		maxYaw:        float32(math.Pi / 6),
		maxPitch:      float32(math.Pi / 12),
		followWindow:  0.18,
		recenterAfter: 4.0,

		breathPeriod:    4.2,
		breathAmplitude: 0.012,
		breathPitch:     0.01,

		scale: 1,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

func (r *rigImpl) SetViewport(width, height float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width > 0 && height > 0 {
		r.viewportW, r.viewportH = width, height
	}
}

func (r *rigImpl) PointAt(x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.viewportW <= 0 || r.viewportH <= 0 {
		return
	}
	nx := common.Clamp(x/r.viewportW*2-1, -1, 1)
	ny := common.Clamp(y/r.viewportH*2-1, -1, 1)
	r.targetYaw = float32(nx) * r.maxYaw
	// Screen y grows downward; looking down is a positive pitch about +X.
	r.targetPitch = float32(ny) * r.maxPitch
	r.sincePointer = 0
	r.pointerTracked = true
}

func (r *rigImpl) Update(dt float64) {
	if dt <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sincePointer += dt
	if r.pointerTracked && r.recenterAfter > 0 && r.sincePointer >= r.recenterAfter {
		r.targetYaw, r.targetPitch = 0, 0
		r.pointerTracked = false
	}

	a := float32(common.ExpSmoothingAlpha(dt, r.followWindow))
	r.yaw += (r.targetYaw - r.yaw) * a
	r.pitch += (r.targetPitch - r.pitch) * a

	if r.breathPeriod > 0 {
		r.breathPhase = math.Mod(r.breathPhase+dt*2*math.Pi/r.breathPeriod, 2*math.Pi)
	}
}

func (r *rigImpl) Yaw() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.yaw
}

func (r *rigImpl) Pitch() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pitch
}

func (r *rigImpl) BreathOffset() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.breathOffset()
}

func (r *rigImpl) ModelMatrix() [16]float32 {
	r.mu.Lock()
	defer r.mu.Unlock()

	breath := r.breathOffset()
	pitch := r.pitch + r.breathPitch*float32(math.Sin(r.breathPhase))

	var out [16]float32
	common.BuildModelMatrix(out[:],
		r.position[0], r.position[1]+breath, r.position[2],
		pitch, r.yaw, 0,
		r.scale, r.scale, r.scale,
	)
	return out
}

// breathOffset is the vertical lift for the current breathing phase.
// Caller must hold the mutex.
func (r *rigImpl) breathOffset() float32 {
	return r.breathAmplitude * float32(math.Sin(r.breathPhase))
}
