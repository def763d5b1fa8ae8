// Package device classifies the runtime display device once at startup and derives the resolution-scale
// ceilings the quality ladder starts from.
package device

import (
	"math"
	"strings"

	"github.com/Carmen-Shannon/oxy-hero/common"
)

// Category is the coarse device class used to pick resolution ceilings.
type Category int

const (
	// CategoryPhone covers handheld touch devices.
	CategoryPhone Category = iota
	// CategoryTablet covers larger touch devices and mid-size high-density screens.
	CategoryTablet
	// CategoryFanless covers passively cooled laptops that throttle under sustained load.
	CategoryFanless
	// CategoryDesktop covers everything else. Only desktops may raise their base cap at runtime.
	CategoryDesktop
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategoryPhone:
		return "phone"
	case CategoryTablet:
		return "tablet"
	case CategoryFanless:
		return "fanless"
	case CategoryDesktop:
		return "desktop"
	default:
		return "unknown"
	}
}

const (
	// LargeDisplayEdge is the long-edge size in CSS pixels at and above which a desktop display is "large".
	LargeDisplayEdge = 2560

	fanlessMaxLongEdge = 1800
	tabletMinShortEdge = 600
	tabletMaxLongEdge  = 1366
)

// ceilings holds the starting and maximum base cap for one device class.
type ceilings struct {
	initial float64
	max     float64
}

var (
	phoneCaps        = ceilings{initial: 1.35, max: 1.5}
	highEndPhoneCaps = ceilings{initial: 1.6, max: 2.0}
	tabletCaps       = ceilings{initial: 1.5, max: 1.75}
	fanlessCaps      = ceilings{initial: 1.5, max: 1.75}
	desktopCaps      = ceilings{initial: 1.55, max: 2.0}
	largeDesktopCaps = ceilings{initial: 1.25, max: 2.0}
)

// Info is the raw device description the classifier reads. In a browser host it is filled from
// navigator/screen/matchMedia; on a native host it comes from InfoFromMonitor.
type Info struct {
	// UserAgent is the user-agent string, or a synthetic one on native hosts.
	UserAgent string
	// CoarsePointer reports whether the primary pointer is coarse (touch).
	CoarsePointer bool
	// ScreenWidth and ScreenHeight are the screen dimensions in CSS pixels.
	ScreenWidth, ScreenHeight int
	// DevicePixelRatio is the native ratio of physical to CSS pixels.
	DevicePixelRatio float64
	// HardwareConcurrency is the logical core count.
	HardwareConcurrency int
	// GOOS and GOARCH identify native hosts. Empty in a browser.
	GOOS, GOARCH string
}

// Profile is the result of classification. BaseCapInitial and BaseCapMax are already clamped to
// NativeRatio, so 0 < BaseCapInitial <= BaseCapMax <= NativeRatio always holds.
type Profile struct {
	Category       Category
	IsHighEndPhone bool
	IsLargeDisplay bool
	BaseCapInitial float64
	BaseCapMax     float64
	NativeRatio    float64
}

// Classify derives a Profile from info. It is a pure function and is meant to be called once
// per session.
//
// Classification order: mobile (coarse pointer or mobile user agent), then tablet (user agent hint or a
// mid-size high-density screen), then fanless (Apple silicon signature at high density on a bounded
// screen), then desktop.
//
// Parameters:
//   - info: the raw device description
//
// Returns:
//   - Profile: the classified device with clamped ceilings
func Classify(info Info) Profile {
	native := info.DevicePixelRatio
	if native <= 0 || !common.Finite(native) {
		native = 1
	}

	longEdge, shortEdge := info.ScreenWidth, info.ScreenHeight
	if shortEdge > longEdge {
		longEdge, shortEdge = shortEdge, longEdge
	}

	p := Profile{NativeRatio: native}
	var caps ceilings

	switch {
	case info.CoarsePointer || isMobileUA(info.UserAgent):
		p.Category = CategoryPhone
		p.IsHighEndPhone = isHighEndPhone(info.HardwareConcurrency, native)
		caps = phoneCaps
		if p.IsHighEndPhone {
			caps = highEndPhoneCaps
		}
	case isTabletUA(info.UserAgent) ||
		(shortEdge >= tabletMinShortEdge && longEdge <= tabletMaxLongEdge && native >= 2):
		p.Category = CategoryTablet
		caps = tabletCaps
	case isAppleSilicon(info) && native >= 2 && longEdge > 0 && longEdge <= fanlessMaxLongEdge:
		p.Category = CategoryFanless
		caps = fanlessCaps
	default:
		p.Category = CategoryDesktop
		caps = desktopCaps
		if longEdge >= LargeDisplayEdge {
			p.IsLargeDisplay = true
			caps = largeDesktopCaps
		}
	}

	p.BaseCapMax = math.Min(caps.max, native)
	p.BaseCapInitial = math.Min(caps.initial, p.BaseCapMax)
	return p
}

func isMobileUA(ua string) bool {
	return strings.Contains(ua, "Mobi") || strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPod")
}

func isTabletUA(ua string) bool {
	if strings.Contains(ua, "iPad") || strings.Contains(ua, "Tablet") {
		return true
	}
	return strings.Contains(ua, "Android") && !strings.Contains(ua, "Mobile")
}

func isAppleSilicon(info Info) bool {
	if info.GOOS != "" {
		return info.GOOS == "darwin" && info.GOARCH == "arm64"
	}
	return strings.Contains(info.UserAgent, "Macintosh")
}

func isHighEndPhone(cores int, dpr float64) bool {
	return cores >= 8 || (cores >= 6 && dpr >= 3)
}
