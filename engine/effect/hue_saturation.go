package effect

import "github.com/cogentcore/webgpu/wgpu"

type hueSaturationUniforms struct {
	Hue        float32
	Saturation float32
	_          [2]float32
}

// HueSaturation is the colour-grading pass. Saturation is in [-1, 1] where -1 is greyscale.
type HueSaturation struct {
	block *uniformBlock[hueSaturationUniforms]
}

var _ Pass = &HueSaturation{}

func NewHueSaturation(w UniformWriter) (*HueSaturation, error) {
	block, err := newUniformBlock(w, "Hue Saturation", hueSaturationUniforms{})
	if err != nil {
		return nil, err
	}
	return &HueSaturation{block: block}, nil
}

func (h *HueSaturation) Name() string { return "hue_saturation" }

func (h *HueSaturation) Buffer() *wgpu.Buffer {
	if h == nil {
		return nil
	}
	return h.block.buf
}

func (h *HueSaturation) Flush() {
	if h == nil {
		return
	}
	h.block.flush()
}

func (h *HueSaturation) SetSaturation(s float64) {
	if h == nil {
		return
	}
	if v := float32(s); v != h.block.data.Saturation {
		h.block.data.Saturation = v
		h.block.dirty = true
	}
}
