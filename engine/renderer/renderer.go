package renderer

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// toneUniforms mirrors the tone-mapping uniform block read by the composite pass.
type toneUniforms struct {
	Exposure float32
	_        [3]float32
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
	logger      *zap.Logger

	pixelRatio float64
	cssWidth   float64
	cssHeight  float64
	fbWidth    uint32
	fbHeight   uint32

	tone       toneUniforms
	toneBuffer *wgpu.Buffer
	clearColor wgpu.Color

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
}

// Renderer is the frame-level rendering surface the hero drives.
//
// The renderer owns the swapchain, the main depth target and a small set of uniform buffers. It sizes
// the framebuffer as CSS size times pixel ratio and reconfigures the surface only when that product
// changes. Effect passes allocate and write their own uniform buffers through it.
type Renderer interface {
	// SetPixelRatio sets the device-pixel-to-CSS-pixel ratio used to size the framebuffer.
	//
	// Parameters:
	//   - ratio: effective pixel ratio; non-positive values are ignored
	SetPixelRatio(ratio float64)

	// SetSize sets the viewport size in CSS pixels and reconfigures the surface if the framebuffer size
	// changed.
	//
	// Parameters:
	//   - cssWidth: viewport width in CSS pixels
	//   - cssHeight: viewport height in CSS pixels
	SetSize(cssWidth, cssHeight float64)

	// CurrentSize returns the viewport size in CSS pixels.
	//
	// Returns:
	//   - float64: width
	//   - float64: height
	CurrentSize() (float64, float64)

	// PixelRatio returns the current pixel ratio.
	PixelRatio() float64

	// FramebufferSize returns the configured framebuffer size in device pixels.
	FramebufferSize() (uint32, uint32)

	// SetToneExposure writes the tone-mapping exposure uniform.
	SetToneExposure(exposure float64)

	// ToneExposure returns the last exposure written.
	ToneExposure() float64

	// SetClearColor sets the main pass clear colour.
	SetClearColor(r, g, b float64)

	// CreateUniformBuffer allocates a uniform buffer.
	//
	// Parameters:
	//   - label: debug label
	//   - size: buffer size in bytes
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer
	//   - error: an error if allocation fails
	CreateUniformBuffer(label string, size uint64) (*wgpu.Buffer, error)

	// WriteBuffer queues a write into a buffer created by CreateUniformBuffer.
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// CreateTexture uploads decoded pixels as a sampleable texture.
	//
	// Parameters:
	//   - label: debug label
	//   - data: RGBA8 pixels and dimensions
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	//   - error: an error if the upload fails
	CreateTexture(label string, data common.TextureStagingData) (*wgpu.TextureView, error)

	// DepthView returns the main depth target view, recreated on every surface reconfigure.
	DepthView() *wgpu.TextureView

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// SetPresentMode sets the surface present mode. The next surface reconfigure applies it.
	SetPresentMode(mode PresentMode)
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer for the given window.
// The initial framebuffer matches the window size at pixel ratio 1.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - win: the window supplying the surface descriptor and initial size; may be nil when WithBackend is used
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, win window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
		logger:      zap.NewNop(),
		pixelRatio:  1,
		tone:        toneUniforms{Exposure: 1},
		clearColor:  wgpu.Color{R: 0.02, G: 0.02, B: 0.04, A: 1},
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	if r.backend == nil {
		switch backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			r.backend = newWGPURendererBackend(win.SurfaceDescriptor(), r.forceFallbackAdapter)
		}
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.SetClearColor(r.clearColor)

	if win != nil {
		r.cssWidth, r.cssHeight = float64(win.Width()), float64(win.Height())
	}
	r.reconfigure()

	buf, err := r.backend.CreateUniformBuffer("Tone Uniforms", uint64(len(common.StructToBytes(&r.tone))))
	if err != nil {
		panic(fmt.Errorf("failed to create tone uniforms: %w", err))
	}
	r.toneBuffer = buf
	r.backend.WriteBuffer(r.toneBuffer, 0, common.StructToBytes(&r.tone))
	return r
}

func (r *renderer) SetPixelRatio(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pixelRatio = ratio
	r.reconfigure()
}

func (r *renderer) SetSize(cssWidth, cssHeight float64) {
	if cssWidth <= 0 || cssHeight <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cssWidth, r.cssHeight = cssWidth, cssHeight
	r.reconfigure()
}

func (r *renderer) CurrentSize() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cssWidth, r.cssHeight
}

func (r *renderer) PixelRatio() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pixelRatio
}

func (r *renderer) FramebufferSize() (uint32, uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fbWidth, r.fbHeight
}

func (r *renderer) SetToneExposure(exposure float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := float32(exposure)
	if e == r.tone.Exposure {
		return
	}
	r.tone.Exposure = e
	r.backend.WriteBuffer(r.toneBuffer, 0, common.StructToBytes(&r.tone))
}

func (r *renderer) ToneExposure() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return float64(r.tone.Exposure)
}

func (r *renderer) SetClearColor(red, green, blue float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: 1}
	r.backend.SetClearColor(r.clearColor)
}

func (r *renderer) CreateUniformBuffer(label string, size uint64) (*wgpu.Buffer, error) {
	buf, err := r.backend.CreateUniformBuffer(label, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer %q: %w", label, err)
	}
	return buf, nil
}

func (r *renderer) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffer(buf, offset, data)
}

func (r *renderer) CreateTexture(label string, data common.TextureStagingData) (*wgpu.TextureView, error) {
	if data.Width == 0 || data.Height == 0 || len(data.Pixels) < int(data.Width*data.Height*4) {
		return nil, fmt.Errorf("texture %q has invalid staging data (%dx%d, %d bytes)", label, data.Width, data.Height, len(data.Pixels))
	}
	view, err := r.backend.CreateTexture(label, data)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}
	return view, nil
}

func (r *renderer) DepthView() *wgpu.TextureView {
	return r.backend.DepthView()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

// reconfigure resizes the surface when the framebuffer size implied by CSS size and ratio changes.
// Callers hold r.mu, except during construction.
func (r *renderer) reconfigure() {
	if r.cssWidth <= 0 || r.cssHeight <= 0 {
		return
	}
	w := uint32(math.Max(1, math.Round(r.cssWidth*r.pixelRatio)))
	h := uint32(math.Max(1, math.Round(r.cssHeight*r.pixelRatio)))
	if w == r.fbWidth && h == r.fbHeight {
		return
	}
	r.fbWidth, r.fbHeight = w, h
	r.backend.ConfigureSurface(w, h)
	r.logger.Debug("surface configured",
		zap.Uint32("width", w),
		zap.Uint32("height", h),
		zap.Float64("pixel_ratio", r.pixelRatio),
	)
}
