package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/oxy-hero/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// DefaultWheelScale converts one wheel notch into scroll units, matching the pixel deltas browsers
// report for a line-based mouse wheel.
const DefaultWheelScale = 100.0

// Window provides platform windowing and publishes host events through an input.Port.
// Sizes are in screen coordinates, the desktop analogue of CSS pixels; ContentScale gives the native
// device pixel ratio.
type Window interface {
	input.Port

	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current window width in screen coordinates.
	Width() int

	// Height returns the current window height in screen coordinates.
	Height() int

	// ContentScale returns the ratio between framebuffer pixels and screen coordinates.
	//
	// Returns:
	//   - float64: the content scale, 1 on standard-density displays
	ContentScale() float64
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the event dispatcher.
type engineWindow struct {
	*input.Dispatcher

	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current window width in screen coordinates.
	width int

	// height is the current window height in screen coordinates.
	height int

	// contentScale is the framebuffer-to-screen ratio.
	contentScale float64

	// wheelScale converts wheel notches to scroll units.
	wheelScale float64

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		Dispatcher:   input.NewDispatcher(),
		title:        "oxy hero",
		maxWidth:     7680,
		maxHeight:    4320,
		minWidth:     320,
		minHeight:    240,
		width:        1280,
		height:       720,
		contentScale: 1,
		wheelScale:   DefaultWheelScale,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) ContentScale() float64 {
	return w.contentScale
}
