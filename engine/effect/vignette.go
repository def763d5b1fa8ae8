package effect

import "github.com/cogentcore/webgpu/wgpu"

type vignetteUniforms struct {
	Resolution [2]float32
	Strength   float32
	Softness   float32
}

// Vignette darkens the frame edges. Its resolution tracks the main framebuffer so the falloff is
// computed in the same pixel space as the scene.
type Vignette struct {
	block *uniformBlock[vignetteUniforms]
}

var _ Pass = &Vignette{}

// NewVignette allocates the pass with the given strength and softness.
func NewVignette(w UniformWriter, strength, softness float64) (*Vignette, error) {
	block, err := newUniformBlock(w, "Vignette", vignetteUniforms{
		Strength: float32(strength),
		Softness: float32(softness),
	})
	if err != nil {
		return nil, err
	}
	return &Vignette{block: block}, nil
}

func (v *Vignette) Name() string { return "vignette" }

func (v *Vignette) Buffer() *wgpu.Buffer {
	if v == nil {
		return nil
	}
	return v.block.buf
}

func (v *Vignette) Flush() {
	if v == nil {
		return
	}
	v.block.flush()
}

// SetResolution sets the pass resolution in framebuffer pixels.
func (v *Vignette) SetResolution(width, height float64) {
	if v == nil {
		return
	}
	res := [2]float32{float32(width), float32(height)}
	if v.block.data.Resolution != res {
		v.block.data.Resolution = res
		v.block.dirty = true
	}
}
