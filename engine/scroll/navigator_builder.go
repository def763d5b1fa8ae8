package scroll

import (
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"go.uber.org/zap"
)

// NavigatorBuilderOption is a functional option for configuring a Navigator.
type NavigatorBuilderOption func(*navigator)

// WithSections sets the section count. Values below 2 are ignored.
func WithSections(n int) NavigatorBuilderOption {
	return func(nav *navigator) {
		if n >= 2 {
			nav.sections = n
		}
	}
}

// WithSectionHeight sets the initial section height in CSS pixels.
func WithSectionHeight(h float64) NavigatorBuilderOption {
	return func(nav *navigator) {
		if h > 0 {
			nav.sectionHeight = h
		}
	}
}

// WithSnapDuration sets the snap tween duration.
func WithSnapDuration(d time.Duration) NavigatorBuilderOption {
	return func(nav *navigator) {
		if d >= 0 {
			nav.snapDuration = d
		}
	}
}

// WithWheelThreshold sets the accumulated wheel delta that moves one section.
func WithWheelThreshold(units float64) NavigatorBuilderOption {
	return func(nav *navigator) {
		if units > 0 {
			nav.wheelThreshold = units
		}
	}
}

// WithScrollIdle sets how long free scrolling must pause before settling.
func WithScrollIdle(d time.Duration) NavigatorBuilderOption {
	return func(nav *navigator) {
		if d >= 0 {
			nav.scrollIdle = d
		}
	}
}

// WithLockSettle sets how long navigation stays locked after a snap lands.
func WithLockSettle(d time.Duration) NavigatorBuilderOption {
	return func(nav *navigator) {
		if d >= 0 {
			nav.lockSettle = d
		}
	}
}

// WithCurves replaces the progress-to-visual curves.
//
// Parameters:
//   - c: the curves to use
//
// Returns:
//   - NavigatorBuilderOption: option function to apply
func WithCurves(c Curves) NavigatorBuilderOption {
	return func(nav *navigator) {
		nav.curves = c
	}
}

// WithClock sets the clock used for idle and settle windows.
func WithClock(c common.Clock) NavigatorBuilderOption {
	return func(nav *navigator) {
		if c != nil {
			nav.clock = c
		}
	}
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(log *zap.Logger) NavigatorBuilderOption {
	return func(nav *navigator) {
		nav.logger = logger.OrNop(log).Named("scroll")
	}
}
