// Package scroll maps page scroll position onto the hero's visual state: a normalized progress scalar,
// the active section, the two-phase glass coverage and the eased tone values derived from progress.
package scroll

import (
	"math"

	"github.com/Carmen-Shannon/oxy-hero/common"
)

const (
	// DefaultSections is the number of page sections the hero scrolls through.
	DefaultSections = 3
	// GlassBoundary is the screen-space split between the left and right glass panels.
	GlassBoundary = 0.5
)

// GlassConfig is the split-screen coverage of the reeded glass.
type GlassConfig struct {
	SplitScreen   bool
	Boundary      float64
	LeftProgress  float64
	RightProgress float64
}

// State is the scroll state derived from a single offset.
type State struct {
	Offset   float64
	Progress float64
	Section  int
	Glass    GlassConfig
}

// ComputeProgress normalizes a scroll offset against the scrollable range of sections-1 section heights.
// The result is clamped to [0, 1]. Degenerate heights or section counts yield 0.
func ComputeProgress(offset, sectionHeight float64, sections int) float64 {
	if sectionHeight <= 0 || sections < 2 {
		return 0
	}
	return common.Clamp(offset/(sectionHeight*float64(sections-1)), 0, 1)
}

// SectionForProgress rounds progress to the nearest section index in [0, sections-1].
func SectionForProgress(progress float64, sections int) int {
	if sections < 2 {
		return 0
	}
	p := common.Clamp(progress, 0, 1)
	return common.ClampInt(int(math.Round(p*float64(sections-1))), 0, sections-1)
}

// SectionForOffset rounds an offset to the nearest section index in [0, sections-1].
func SectionForOffset(offset, sectionHeight float64, sections int) int {
	if sectionHeight <= 0 || sections < 2 {
		return 0
	}
	if math.IsNaN(offset) {
		return 0
	}
	return common.ClampInt(int(math.Round(offset/sectionHeight)), 0, sections-1)
}

// OffsetForSection returns the exact scroll offset at which a section is aligned.
func OffsetForSection(section int, sectionHeight float64, sections int) float64 {
	if sectionHeight <= 0 || sections < 1 {
		return 0
	}
	return float64(common.ClampInt(section, 0, sections-1)) * sectionHeight
}

// GlassConfigFor returns the glass coverage for a progress value.
//
// Coverage is sequential: over the first half of the range the left panel ramps from 0 to 1 while the
// right stays clear; over the second half the left is pinned at 1 and the right ramps from 0 to 1.
//
// Parameters:
//   - progress: scroll progress, clamped to [0, 1]
//
// Returns:
//   - GlassConfig: the split-screen coverage
func GlassConfigFor(progress float64) GlassConfig {
	p := common.Clamp(progress, 0, 1)
	g := GlassConfig{SplitScreen: true, Boundary: GlassBoundary}
	if p <= 0.5 {
		g.LeftProgress = p * 2
		return g
	}
	g.LeftProgress = 1
	g.RightProgress = (p - 0.5) * 2
	return g
}

// StateFor derives the full scroll state for an offset.
func StateFor(offset, sectionHeight float64, sections int) State {
	p := ComputeProgress(offset, sectionHeight, sections)
	return State{
		Offset:   offset,
		Progress: p,
		Section:  SectionForProgress(p, sections),
		Glass:    GlassConfigFor(p),
	}
}
