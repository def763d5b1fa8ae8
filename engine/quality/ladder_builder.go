package quality

import (
	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"go.uber.org/zap"
)

// LadderBuilderOption is a functional option for configuring a Ladder.
type LadderBuilderOption func(*ladder)

// WithTiers replaces the effect tier table. Order is best first. An empty table keeps the default.
//
// Parameters:
//   - tiers: the ordered tiers
//
// Returns:
//   - LadderBuilderOption: option function to apply
func WithTiers(tiers []Tier) LadderBuilderOption {
	return func(l *ladder) {
		l.tiers = append([]Tier(nil), tiers...)
	}
}

// WithBuckets replaces the pixel-ratio bucket table. Order is best first. An empty table keeps the default.
//
// Parameters:
//   - buckets: the ordered multipliers
//
// Returns:
//   - LadderBuilderOption: option function to apply
func WithBuckets(buckets []float64) LadderBuilderOption {
	return func(l *ladder) {
		l.buckets = append([]float64(nil), buckets...)
	}
}

// WithPixelBudget sets the maximum physical framebuffer pixel count. Values <= 0 disable the budget.
func WithPixelBudget(pixels float64) LadderBuilderOption {
	return func(l *ladder) {
		l.pixelBudget = pixels
	}
}

// WithAbsoluteCeiling sets the global upper bound on the effective pixel ratio.
func WithAbsoluteCeiling(ratio float64) LadderBuilderOption {
	return func(l *ladder) {
		if ratio > 0 {
			l.absoluteCeiling = ratio
		}
	}
}

// WithMinRatio sets the lower bound on the effective pixel ratio.
func WithMinRatio(ratio float64) LadderBuilderOption {
	return func(l *ladder) {
		if ratio > 0 {
			l.minRatio = ratio
		}
	}
}

// WithBaseCapStep sets the desktop base cap increment.
func WithBaseCapStep(step float64) LadderBuilderOption {
	return func(l *ladder) {
		if step > 0 {
			l.baseCapStep = step
		}
	}
}

// WithClock sets the clock used to timestamp changes.
func WithClock(c common.Clock) LadderBuilderOption {
	return func(l *ladder) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the logger. nil keeps the no-op logger.
func WithLogger(log *zap.Logger) LadderBuilderOption {
	return func(l *ladder) {
		l.logger = logger.OrNop(log).Named("quality")
	}
}
