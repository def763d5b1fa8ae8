package device

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// InfoFromMonitor builds an Info from the GLFW primary monitor. GLFW must already be initialized
// (the engine window does this). Native hosts always report a fine pointer.
//
// Reference: https://www.glfw.org/docs/latest/monitor_guide.html
//
// Returns:
//   - Info: the device description
//   - error: error if no monitor is connected
func InfoFromMonitor() (Info, error) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return Info{}, fmt.Errorf("no primary monitor")
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return Info{}, fmt.Errorf("primary monitor has no video mode")
	}

	// Content scale is the platform's physical-to-logical ratio. Video mode sizes are physical
	// on most platforms, so divide back down to logical units.
	scaleX, _ := monitor.GetContentScale()
	dpr := float64(scaleX)
	if dpr <= 0 {
		dpr = 1
	}

	return Info{
		UserAgent:           fmt.Sprintf("oxy-hero (%s; %s)", runtime.GOOS, runtime.GOARCH),
		ScreenWidth:         int(float64(mode.Width) / dpr),
		ScreenHeight:        int(float64(mode.Height) / dpr),
		DevicePixelRatio:    dpr,
		HardwareConcurrency: runtime.NumCPU(),
		GOOS:                runtime.GOOS,
		GOARCH:              runtime.GOARCH,
	}, nil
}
