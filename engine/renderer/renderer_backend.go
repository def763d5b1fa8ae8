package renderer

import (
	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. The performance controller's thresholds assume this mode.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	PresentModeUncapped
)

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the swapchain and depth target at the given framebuffer size.
	ConfigureSurface(width, height uint32)

	// SetPresentMode takes effect on the next ConfigureSurface.
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the main pass clear colour.
	SetClearColor(c wgpu.Color)

	// CreateUniformBuffer allocates a uniform buffer writable from the CPU.
	CreateUniformBuffer(label string, size uint64) (*wgpu.Buffer, error)

	// WriteBuffer queues a CPU write into buf at offset.
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte)

	// CreateTexture uploads RGBA8 staging pixels and returns a sampleable view.
	CreateTexture(label string, data common.TextureStagingData) (*wgpu.TextureView, error)

	// DepthView returns the sampleable view of the main depth target.
	DepthView() *wgpu.TextureView

	BeginFrame() error
	EndFrame()
	Present()
}
