// Package effect holds the post-processing passes the hero drives: reeded glass, vignette,
// hue/saturation and the background gradient. Each pass keeps a CPU copy of its uniform block and
// uploads it through the renderer once per frame when it changed.
package effect

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// UniformWriter allocates and writes GPU uniform buffers. The renderer satisfies it.
type UniformWriter interface {
	CreateUniformBuffer(label string, size uint64) (*wgpu.Buffer, error)
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)
}

// Pass is a post-processing pass in the composer chain.
type Pass interface {
	// Name returns the pass label.
	Name() string

	// Flush uploads the uniform block if it changed since the last flush.
	Flush()

	// Buffer returns the pass's uniform buffer for bind group construction.
	Buffer() *wgpu.Buffer
}

// uniformBlock is a CPU mirror of a GPU uniform struct.
type uniformBlock[T any] struct {
	writer UniformWriter
	buf    *wgpu.Buffer
	data   T
	dirty  bool
}

func newUniformBlock[T any](w UniformWriter, label string, initial T) (*uniformBlock[T], error) {
	u := &uniformBlock[T]{writer: w, data: initial, dirty: true}
	buf, err := w.CreateUniformBuffer(label, uint64(len(common.StructToBytes(&u.data))))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s uniforms: %w", label, err)
	}
	u.buf = buf
	return u, nil
}

func (u *uniformBlock[T]) flush() {
	if !u.dirty {
		return
	}
	u.writer.WriteBuffer(u.buf, 0, common.StructToBytes(&u.data))
	u.dirty = false
}
