package quality

import "time"

const (
	// DefaultPixelBudget is the hard cap on physical framebuffer pixels.
	DefaultPixelBudget = 9_000_000
	// DefaultAbsoluteCeiling is the global upper bound on the effective pixel ratio.
	DefaultAbsoluteCeiling = 2.0
	// DefaultMinRatio is the lower bound on the effective pixel ratio.
	DefaultMinRatio = 0.5
	// DefaultBaseCapStep is how far a desktop base cap rises per upgrade once both axes are at best.
	DefaultBaseCapStep = 0.1

	capEpsilon = 1e-9
)

// Tier is one effect-quality level. Scale is the fraction of framebuffer resolution the reeded-glass
// pass renders at.
type Tier struct {
	Name  string
	Scale float64
}

// DefaultTiers returns the effect tier table, best first.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "high", Scale: 1.0},
		{Name: "medium", Scale: 0.75},
		{Name: "low", Scale: 0.5},
		{Name: "minimal", Scale: 0.35},
	}
}

// DefaultBuckets returns the pixel-ratio bucket multipliers, best first.
func DefaultBuckets() []float64 {
	return []float64{1.0, 0.85, 0.7, 0.6, 0.5}
}

// State is a position on the ladder.
type State struct {
	TierIndex      int
	BucketIndex    int
	BaseCapCurrent float64
}

// ChangeKind names what moved on the ladder.
type ChangeKind int

const (
	// ChangeDegradeTier is a degrade that advanced the effect tier.
	ChangeDegradeTier ChangeKind = iota
	// ChangeDegradeBucket is a degrade that advanced the pixel-ratio bucket.
	ChangeDegradeBucket
	// ChangeUpgradeBucket is an upgrade that retracted the pixel-ratio bucket.
	ChangeUpgradeBucket
	// ChangeUpgradeTier is an upgrade that retracted the effect tier.
	ChangeUpgradeTier
	// ChangeRaiseBaseCap is a desktop upgrade that raised the base cap.
	ChangeRaiseBaseCap
	// ChangeBudget is a bucket advance forced by the pixel budget.
	ChangeBudget
	// ChangeForced is a manual override.
	ChangeForced
)

// String returns the snake_case name of the kind, suitable for log fields and metric labels.
func (k ChangeKind) String() string {
	switch k {
	case ChangeDegradeTier:
		return "degrade_tier"
	case ChangeDegradeBucket:
		return "degrade_bucket"
	case ChangeUpgradeBucket:
		return "upgrade_bucket"
	case ChangeUpgradeTier:
		return "upgrade_tier"
	case ChangeRaiseBaseCap:
		return "raise_base_cap"
	case ChangeBudget:
		return "pixel_budget"
	case ChangeForced:
		return "forced"
	default:
		return "unknown"
	}
}

// IsDegrade reports whether the change lowered quality.
func (k ChangeKind) IsDegrade() bool {
	return k == ChangeDegradeTier || k == ChangeDegradeBucket || k == ChangeBudget
}

// Change records one ladder movement.
type Change struct {
	Kind   ChangeKind
	Before State
	After  State
	At     time.Time
	// Ratio is the effective pixel ratio after the change.
	Ratio float64
	// Tier is the effect tier after the change.
	Tier Tier
}
