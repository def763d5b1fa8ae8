package scroll

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"go.uber.org/zap"
)

const (
	// DefaultWheelThreshold is the accumulated wheel delta that moves one section.
	DefaultWheelThreshold = 60.0
	// DefaultScrollIdle is how long free scrolling must pause before the offset settles onto a section.
	DefaultScrollIdle = 150 * time.Millisecond
	// DefaultLockSettle keeps navigation locked briefly after a snap lands.
	DefaultLockSettle = 350 * time.Millisecond

	offsetEpsilon = 0.5
)

// navigator is the implementation of the Navigator interface.
type navigator struct {
	sections      int
	sectionHeight float64
	offset        float64
	curves        Curves

	snap           *Snap
	snapDuration   time.Duration
	wheelThreshold float64
	wheelAccum     float64
	lastWheelAt    time.Time
	lastScrollAt   time.Time
	scrollPending  bool
	scrollIdle     time.Duration
	lockSettle     time.Duration
	lockedUntil    time.Time
	dirty          bool

	clock  common.Clock
	logger *zap.Logger
}

// Navigator owns the scroll offset and moves it between sections.
//
// Wheel input accumulates until it crosses a threshold and then snaps one section up or down. Free
// scrolling (absolute offsets) settles onto the nearest section once it goes idle. While a snap is in
// flight, and for a short settle window after it lands, wheel and scroll input is ignored.
type Navigator interface {
	// OnWheel feeds a wheel delta. Positive values scroll down the page.
	OnWheel(deltaY float64)

	// OnScroll sets the offset from a free scroll. Ignored while locked.
	OnScroll(offset float64)

	// GoTo snaps to a section if navigation is not locked.
	//
	// Parameters:
	//   - section: target section index, clamped
	//
	// Returns:
	//   - bool: true if a snap was started
	GoTo(section int) bool

	// Step snaps delta sections relative to the nearest section if navigation is not locked.
	Step(delta int) bool

	// SnapTo snaps to a section regardless of the lock. A snap already in flight is cancelled and the new
	// one starts from the current animated offset.
	SnapTo(section int)

	// SetSectionHeight updates the section height, preserving progress.
	SetSectionHeight(h float64)

	// Update advances any snap by dt seconds and settles idle free scrolling.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous frame
	//
	// Returns:
	//   - bool: true if the offset changed since the previous Update
	Update(dt float64) bool

	// State returns the scroll state for the current offset.
	State() State

	// Visual returns the visual state for the current offset.
	Visual() Visual

	// Locked reports whether input navigation is currently locked.
	Locked() bool

	// Animating reports whether a snap is in flight.
	Animating() bool

	// Sections returns the section count.
	Sections() int
}

var _ Navigator = &navigator{}

// NewNavigator creates a Navigator at offset 0.
//
// Parameters:
//   - options: functional options for configuring the navigator
//
// Returns:
//   - Navigator: the new navigator
func NewNavigator(options ...NavigatorBuilderOption) Navigator {
	n := &navigator{
		sections:       DefaultSections,
		curves:         DefaultCurves(),
		snapDuration:   DefaultSnapDuration,
		wheelThreshold: DefaultWheelThreshold,
		scrollIdle:     DefaultScrollIdle,
		lockSettle:     DefaultLockSettle,
		clock:          common.SystemClock{},
		logger:         zap.NewNop(),
		dirty:          true,
	}
	for _, opt := range options {
		opt(n)
	}
	n.snap = NewSnap(n.snapDuration)
	return n
}

func (n *navigator) OnWheel(deltaY float64) {
	if deltaY == 0 || !common.Finite(deltaY) {
		return
	}
	now := n.clock.Now()
	if n.Locked() {
		n.wheelAccum = 0
		return
	}
	if now.Sub(n.lastWheelAt) > n.scrollIdle {
		n.wheelAccum = 0
	}
	n.lastWheelAt = now
	n.wheelAccum += deltaY

	switch {
	case n.wheelAccum >= n.wheelThreshold:
		n.wheelAccum = 0
		n.Step(1)
	case n.wheelAccum <= -n.wheelThreshold:
		n.wheelAccum = 0
		n.Step(-1)
	}
}

func (n *navigator) OnScroll(offset float64) {
	if n.Locked() || !common.Finite(offset) {
		return
	}
	offset = common.Clamp(offset, 0, n.maxOffset())
	n.lastScrollAt = n.clock.Now()
	n.scrollPending = true
	if offset != n.offset {
		n.offset = offset
		n.dirty = true
	}
}

func (n *navigator) GoTo(section int) bool {
	if n.Locked() {
		return false
	}
	section = common.ClampInt(section, 0, n.sections-1)
	if math.Abs(OffsetForSection(section, n.sectionHeight, n.sections)-n.offset) <= offsetEpsilon {
		return false
	}
	n.SnapTo(section)
	return true
}

func (n *navigator) Step(delta int) bool {
	return n.GoTo(SectionForOffset(n.offset, n.sectionHeight, n.sections) + delta)
}

func (n *navigator) SnapTo(section int) {
	section = common.ClampInt(section, 0, n.sections-1)
	to := OffsetForSection(section, n.sectionHeight, n.sections)
	n.scrollPending = false
	n.wheelAccum = 0

	if math.Abs(to-n.offset) <= offsetEpsilon {
		n.snap.Cancel()
		if to != n.offset {
			n.offset = to
			n.dirty = true
		}
		return
	}
	if n.snap.Active() {
		n.logger.Debug("snap restarted", zap.Int("from_target", n.snap.Target()), zap.Int("to_target", section))
	}
	n.snap.Start(n.offset, to, section)
	n.logger.Debug("snap started", zap.Int("section", section), zap.Float64("from", n.offset), zap.Float64("to", to))
}

func (n *navigator) SetSectionHeight(h float64) {
	if h <= 0 || h == n.sectionHeight {
		return
	}
	if n.sectionHeight > 0 {
		factor := h / n.sectionHeight
		n.offset *= factor
		n.snap.Rescale(factor)
	}
	n.sectionHeight = h
	n.dirty = true
}

func (n *navigator) Update(dt float64) bool {
	now := n.clock.Now()
	switch {
	case n.snap.Active():
		off, done := n.snap.Step(dt)
		if off != n.offset {
			n.offset = off
			n.dirty = true
		}
		if done {
			n.lockedUntil = now.Add(n.lockSettle)
			n.logger.Debug("snap landed", zap.Int("section", n.snap.Target()))
		}
	case n.scrollPending && now.Sub(n.lastScrollAt) >= n.scrollIdle:
		n.scrollPending = false
		n.SnapTo(SectionForOffset(n.offset, n.sectionHeight, n.sections))
	}
	changed := n.dirty
	n.dirty = false
	return changed
}

func (n *navigator) State() State {
	return StateFor(n.offset, n.sectionHeight, n.sections)
}

func (n *navigator) Visual() Visual {
	return n.curves.VisualFor(ComputeProgress(n.offset, n.sectionHeight, n.sections))
}

func (n *navigator) Locked() bool {
	return n.snap.Active() || n.clock.Now().Before(n.lockedUntil)
}

func (n *navigator) Animating() bool {
	return n.snap.Active()
}

func (n *navigator) Sections() int {
	return n.sections
}

func (n *navigator) maxOffset() float64 {
	return n.sectionHeight * float64(n.sections-1)
}
