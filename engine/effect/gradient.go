package effect

import (
	"github.com/Carmen-Shannon/oxy-hero/engine/scroll"
	"github.com/cogentcore/webgpu/wgpu"
)

type gradientUniforms struct {
	Top    [4]float32
	Bottom [4]float32
}

// clearColorSetter is implemented by renderers whose clear colour can follow the gradient.
type clearColorSetter interface {
	SetClearColor(r, g, b float64)
}

// Gradient is the background gradient behind the avatar. When the writer can set a clear colour the
// bottom stop is mirrored there so uncovered pixels match.
type Gradient struct {
	block *uniformBlock[gradientUniforms]
	clear clearColorSetter
}

var _ Pass = &Gradient{}

func NewGradient(w UniformWriter) (*Gradient, error) {
	block, err := newUniformBlock(w, "Gradient", gradientUniforms{Top: [4]float32{0, 0, 0, 1}, Bottom: [4]float32{0, 0, 0, 1}})
	if err != nil {
		return nil, err
	}
	g := &Gradient{block: block}
	if cs, ok := w.(clearColorSetter); ok {
		g.clear = cs
	}
	return g, nil
}

func (g *Gradient) Name() string { return "gradient" }

func (g *Gradient) Buffer() *wgpu.Buffer {
	if g == nil {
		return nil
	}
	return g.block.buf
}

func (g *Gradient) Flush() {
	if g == nil {
		return
	}
	if g.block.dirty && g.clear != nil {
		b := g.block.data.Bottom
		g.clear.SetClearColor(float64(b[0]), float64(b[1]), float64(b[2]))
	}
	g.block.flush()
}

func (g *Gradient) SetColors(top, bottom scroll.Color) {
	if g == nil {
		return
	}
	t := [4]float32{top[0], top[1], top[2], 1}
	b := [4]float32{bottom[0], bottom[1], bottom[2], 1}
	if t != g.block.data.Top || b != g.block.data.Bottom {
		g.block.data.Top = t
		g.block.data.Bottom = b
		g.block.dirty = true
	}
}
