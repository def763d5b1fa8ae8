package effect

import (
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// timeWrap keeps the animation clock small enough for float32 precision in the shader.
const timeWrap = 3600.0

type reededGlassUniforms struct {
	Resolution           [2]float32
	ScrollProgress       float32
	RefractionMultiplier float32
	SplitBoundary        float32
	RightProgress        float32
	SplitScreen          uint32
	Time                 float32
	Near                 float32
	Far                  float32
	_                    [2]float32
}

// ReededGlass is the fluted-glass refraction pass. Coverage, refraction strength and split-screen
// layout come from scroll; resolution comes from the quality tier.
type ReededGlass struct {
	block     *uniformBlock[reededGlassUniforms]
	time      float64
	depth     *wgpu.TextureView
	normalMap *wgpu.TextureView
}

var _ Pass = &ReededGlass{}

// NewReededGlass allocates the pass's uniforms.
//
// Parameters:
//   - w: the uniform writer, usually the renderer
//
// Returns:
//   - *ReededGlass: the pass
//   - error: an error if the uniform buffer could not be created
func NewReededGlass(w UniformWriter) (*ReededGlass, error) {
	block, err := newUniformBlock(w, "Reeded Glass", reededGlassUniforms{
		RefractionMultiplier: 1,
		SplitBoundary:        0.5,
		Near:                 0.1,
		Far:                  100,
	})
	if err != nil {
		return nil, err
	}
	return &ReededGlass{block: block}, nil
}

func (g *ReededGlass) Name() string { return "reeded_glass" }

func (g *ReededGlass) Buffer() *wgpu.Buffer {
	if g == nil {
		return nil
	}
	return g.block.buf
}

func (g *ReededGlass) Flush() {
	if g == nil {
		return
	}
	g.block.flush()
}

// SetResolution sets the pass resolution in framebuffer pixels.
func (g *ReededGlass) SetResolution(width, height float64) {
	if g == nil {
		return
	}
	g.set(func(u *reededGlassUniforms) {
		u.Resolution = [2]float32{float32(width), float32(height)}
	})
}

// SetScrollProgress sets the left-panel coverage.
func (g *ReededGlass) SetScrollProgress(p float64) {
	if g == nil {
		return
	}
	g.set(func(u *reededGlassUniforms) { u.ScrollProgress = float32(p) })
}

// SetRefractionMultiplier scales refraction strength.
func (g *ReededGlass) SetRefractionMultiplier(m float64) {
	if g == nil {
		return
	}
	g.set(func(u *reededGlassUniforms) { u.RefractionMultiplier = float32(m) })
}

// SetSplitScreenMode configures the split between the left and right panels.
func (g *ReededGlass) SetSplitScreenMode(enabled bool, boundary, rightProgress float64) {
	if g == nil {
		return
	}
	g.set(func(u *reededGlassUniforms) {
		u.SplitScreen = 0
		if enabled {
			u.SplitScreen = 1
		}
		u.SplitBoundary = float32(boundary)
		u.RightProgress = float32(rightProgress)
	})
}

// SetDepthSource binds the scene depth texture and its camera planes.
func (g *ReededGlass) SetDepthSource(view *wgpu.TextureView, near, far float64) {
	if g == nil {
		return
	}
	g.depth = view
	g.set(func(u *reededGlassUniforms) {
		u.Near = float32(near)
		u.Far = float32(far)
	})
}

// SetNormalMap binds the flute normal map. Until one arrives the pass refracts with a flat normal.
func (g *ReededGlass) SetNormalMap(view *wgpu.TextureView) {
	if g == nil {
		return
	}
	g.normalMap = view
}

// TickTime advances the shimmer clock.
func (g *ReededGlass) TickTime(dt float64) {
	if g == nil || dt <= 0 {
		return
	}
	g.time = math.Mod(g.time+dt, timeWrap)
	g.set(func(u *reededGlassUniforms) { u.Time = float32(g.time) })
}

// DepthSource returns the bound depth texture, or nil.
func (g *ReededGlass) DepthSource() *wgpu.TextureView {
	if g == nil {
		return nil
	}
	return g.depth
}

// NormalMap returns the bound normal map, or nil.
func (g *ReededGlass) NormalMap() *wgpu.TextureView {
	if g == nil {
		return nil
	}
	return g.normalMap
}

func (g *ReededGlass) set(fn func(*reededGlassUniforms)) {
	before := g.block.data
	fn(&g.block.data)
	if g.block.data != before {
		g.block.dirty = true
	}
}
