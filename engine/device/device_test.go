package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	iphoneUA  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Mobile/15E148"
	ipadUA    = "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
	macUA     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15"
	windowsUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		info     Info
		category Category
		initial  float64
		max      float64
		highEnd  bool
		large    bool
	}{
		{
			name:     "basic phone",
			info:     Info{UserAgent: iphoneUA, CoarsePointer: true, ScreenWidth: 390, ScreenHeight: 844, DevicePixelRatio: 3, HardwareConcurrency: 4},
			category: CategoryPhone, initial: 1.35, max: 1.5,
		},
		{
			name:     "high-end phone",
			info:     Info{UserAgent: iphoneUA, CoarsePointer: true, ScreenWidth: 430, ScreenHeight: 932, DevicePixelRatio: 3, HardwareConcurrency: 6},
			category: CategoryPhone, initial: 1.6, max: 2.0, highEnd: true,
		},
		{
			name:     "coarse pointer without mobile ua",
			info:     Info{UserAgent: windowsUA, CoarsePointer: true, ScreenWidth: 800, ScreenHeight: 1280, DevicePixelRatio: 2, HardwareConcurrency: 8},
			category: CategoryPhone, initial: 1.6, max: 2.0, highEnd: true,
		},
		{
			name:     "tablet ua",
			info:     Info{UserAgent: ipadUA, ScreenWidth: 1024, ScreenHeight: 1366, DevicePixelRatio: 2, HardwareConcurrency: 8},
			category: CategoryTablet, initial: 1.5, max: 1.75,
		},
		{
			name:     "mid-size high-density screen",
			info:     Info{UserAgent: windowsUA, ScreenWidth: 1280, ScreenHeight: 800, DevicePixelRatio: 2, HardwareConcurrency: 4},
			category: CategoryTablet, initial: 1.5, max: 1.75,
		},
		{
			name:     "apple silicon laptop",
			info:     Info{UserAgent: macUA, ScreenWidth: 1512, ScreenHeight: 982, DevicePixelRatio: 2, HardwareConcurrency: 8},
			category: CategoryFanless, initial: 1.5, max: 1.75,
		},
		{
			name:     "native darwin arm64",
			info:     Info{ScreenWidth: 1470, ScreenHeight: 956, DevicePixelRatio: 2, GOOS: "darwin", GOARCH: "arm64"},
			category: CategoryFanless, initial: 1.5, max: 1.75,
		},
		{
			name:     "native darwin amd64 is desktop",
			info:     Info{ScreenWidth: 1470, ScreenHeight: 956, DevicePixelRatio: 2, GOOS: "darwin", GOARCH: "amd64"},
			category: CategoryDesktop, initial: 1.55, max: 2.0,
		},
		{
			name:     "desktop clamped to native ratio",
			info:     Info{UserAgent: windowsUA, ScreenWidth: 1920, ScreenHeight: 1080, DevicePixelRatio: 1, HardwareConcurrency: 16},
			category: CategoryDesktop, initial: 1.0, max: 1.0,
		},
		{
			name:     "large desktop display",
			info:     Info{UserAgent: windowsUA, ScreenWidth: 3840, ScreenHeight: 2160, DevicePixelRatio: 2, HardwareConcurrency: 16},
			category: CategoryDesktop, initial: 1.25, max: 2.0, large: true,
		},
		{
			name:     "missing dpr treated as 1",
			info:     Info{UserAgent: windowsUA, ScreenWidth: 1920, ScreenHeight: 1080},
			category: CategoryDesktop, initial: 1.0, max: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Classify(tt.info)
			assert.Equal(t, tt.category, p.Category)
			assert.InDelta(t, tt.initial, p.BaseCapInitial, 1e-9)
			assert.InDelta(t, tt.max, p.BaseCapMax, 1e-9)
			assert.Equal(t, tt.highEnd, p.IsHighEndPhone)
			assert.Equal(t, tt.large, p.IsLargeDisplay)

			assert.Greater(t, p.BaseCapInitial, 0.0)
			assert.LessOrEqual(t, p.BaseCapInitial, p.BaseCapMax)
			assert.LessOrEqual(t, p.BaseCapMax, p.NativeRatio)
		})
	}
}

func TestCategoryString(t *testing.T) {
	assert.Equal(t, "phone", CategoryPhone.String())
	assert.Equal(t, "fanless", CategoryFanless.String())
	assert.Equal(t, "unknown", Category(42).String())
}
