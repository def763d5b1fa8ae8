package quality

import (
	"math"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/device"
	"go.uber.org/zap"
)

// ladder is the implementation of the Ladder interface.
type ladder struct {
	profile device.Profile

	tiers   []Tier
	buckets []float64

	tierIndex      int
	bucketIndex    int
	baseCapCurrent float64

	pixelBudget     float64
	absoluteCeiling float64
	minRatio        float64
	baseCapStep     float64

	// cssArea is the last canvas area seen by EnforcePixelBudget, 0 until a valid size arrives.
	cssArea float64

	clock      common.Clock
	logger     *zap.Logger
	lastChange time.Time
	listeners  []*listener
}

type listener struct {
	fn func(Change)
}

// Ladder holds the two ordered degradation axes of render quality: effect tiers and pixel-ratio buckets.
//
// Index 0 on each axis is the best quality. Degrading always exhausts the effect tier axis before touching
// the bucket axis, and upgrading always restores buckets before tiers, so visual sharpness is the last
// thing given up and the first thing restored.
type Ladder interface {
	// State returns a copy of the current ladder position.
	//
	// Returns:
	//   - State: the tier index, bucket index and current base cap
	State() State

	// Profile returns the device profile the ladder was seeded from.
	//
	// Returns:
	//   - device.Profile: the seeding profile
	Profile() device.Profile

	// Tier returns the current effect tier.
	//
	// Returns:
	//   - Tier: the active tier
	Tier() Tier

	// Tiers returns the ordered tier table (best first).
	Tiers() []Tier

	// Buckets returns the ordered pixel-ratio bucket multipliers (best first).
	Buckets() []float64

	// BucketMultiplier returns the multiplier of the current bucket.
	BucketMultiplier() float64

	// EffectivePixelRatio returns BaseCapCurrent times the bucket multiplier, clamped to the absolute
	// ceiling and the device's native ratio.
	//
	// Returns:
	//   - float64: the framebuffer pixel ratio to render at
	EffectivePixelRatio() float64

	// DegradeOneStep advances the tier index if it is not at its worst, otherwise the bucket index.
	// It is a no-op at the floor.
	//
	// Returns:
	//   - bool: true if the ladder moved
	DegradeOneStep() bool

	// UpgradeOneStep retracts the bucket index if it is not at its best, otherwise the tier index.
	// When both axes are at their best, desktop devices with headroom raise BaseCapCurrent by one
	// fixed increment, never past BaseCapMax.
	//
	// A bucket retract or base cap raise that would push the last canvas size seen by
	// EnforcePixelBudget over the pixel budget is skipped; the tier axis is tried instead.
	//
	// Returns:
	//   - bool: true if the ladder moved
	UpgradeOneStep() bool

	// EnforcePixelBudget advances the bucket index (never the tier) until the projected framebuffer
	// pixel count for the given CSS size fits the pixel budget or the worst bucket is reached.
	//
	// Parameters:
	//   - cssWidth: canvas width in CSS pixels
	//   - cssHeight: canvas height in CSS pixels
	//
	// Returns:
	//   - bool: true if the bucket index changed
	EnforcePixelBudget(cssWidth, cssHeight float64) bool

	// ForceBucket moves to bucket i, clamped to the table bounds.
	//
	// Parameters:
	//   - i: the bucket index
	//
	// Returns:
	//   - bool: true if the ladder moved
	ForceBucket(i int) bool

	// ForceTier moves to tier i, clamped to the table bounds.
	//
	// Parameters:
	//   - i: the tier index
	//
	// Returns:
	//   - bool: true if the ladder moved
	ForceTier(i int) bool

	// ForceBaseCap sets BaseCapCurrent to v clamped to [BaseCapCurrent, BaseCapMax]. The base cap
	// never decreases within a session, so lower values are ignored.
	//
	// Parameters:
	//   - v: the requested base cap
	//
	// Returns:
	//   - bool: true if the base cap changed
	ForceBaseCap(v float64) bool

	// LastChange returns when the ladder last moved, or the zero time if it never has.
	LastChange() time.Time

	// OnChange registers a listener invoked synchronously after every ladder change.
	//
	// Parameters:
	//   - listener: callback receiving the change record
	//
	// Returns:
	//   - func(): detaches the listener; safe to call more than once
	OnChange(listener func(Change)) func()
}

var _ Ladder = &ladder{}

// NewLadder creates a Ladder seeded from a device profile. The ladder starts at the best tier and
// bucket with BaseCapCurrent equal to the profile's BaseCapInitial.
//
// Parameters:
//   - profile: the classified device profile
//   - options: functional options overriding the default tables and limits
//
// Returns:
//   - Ladder: the new ladder
func NewLadder(profile device.Profile, options ...LadderBuilderOption) Ladder {
	l := &ladder{
		profile:         profile,
		tiers:           DefaultTiers(),
		buckets:         DefaultBuckets(),
		pixelBudget:     DefaultPixelBudget,
		absoluteCeiling: DefaultAbsoluteCeiling,
		minRatio:        DefaultMinRatio,
		baseCapStep:     DefaultBaseCapStep,
		clock:           common.SystemClock{},
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		opt(l)
	}
	if len(l.tiers) == 0 {
		l.tiers = DefaultTiers()
	}
	if len(l.buckets) == 0 {
		l.buckets = DefaultBuckets()
	}
	l.baseCapCurrent = profile.BaseCapInitial
	return l
}

func (l *ladder) State() State {
	return State{
		TierIndex:      l.tierIndex,
		BucketIndex:    l.bucketIndex,
		BaseCapCurrent: l.baseCapCurrent,
	}
}

func (l *ladder) Profile() device.Profile {
	return l.profile
}

func (l *ladder) Tier() Tier {
	return l.tiers[l.tierIndex]
}

func (l *ladder) Tiers() []Tier {
	out := make([]Tier, len(l.tiers))
	copy(out, l.tiers)
	return out
}

func (l *ladder) Buckets() []float64 {
	out := make([]float64, len(l.buckets))
	copy(out, l.buckets)
	return out
}

func (l *ladder) BucketMultiplier() float64 {
	return l.buckets[l.bucketIndex]
}

func (l *ladder) EffectivePixelRatio() float64 {
	return l.ratioFor(l.bucketIndex)
}

// ratioFor computes the effective ratio for a hypothetical bucket index at the current base cap.
func (l *ladder) ratioFor(bucket int) float64 {
	return l.ratioAt(bucket, l.baseCapCurrent)
}

// ratioAt computes the effective ratio for a hypothetical bucket index and base cap.
func (l *ladder) ratioAt(bucket int, baseCap float64) float64 {
	hi := math.Min(l.absoluteCeiling, l.profile.NativeRatio)
	if hi <= 0 {
		hi = 1
	}
	lo := math.Min(l.minRatio, hi)
	return common.Clamp(baseCap*l.buckets[bucket], lo, hi)
}

// fitsBudget reports whether the last known canvas area fits the pixel budget at the given position.
// With no known area or no budget everything fits.
func (l *ladder) fitsBudget(bucket int, baseCap float64) bool {
	if l.cssArea <= 0 || l.pixelBudget <= 0 {
		return true
	}
	r := l.ratioAt(bucket, baseCap)
	return l.cssArea*r*r <= l.pixelBudget
}

func (l *ladder) DegradeOneStep() bool {
	before := l.State()
	switch {
	case l.tierIndex < len(l.tiers)-1:
		l.tierIndex++
		l.commit(ChangeDegradeTier, before)
	case l.bucketIndex < len(l.buckets)-1:
		l.bucketIndex++
		l.commit(ChangeDegradeBucket, before)
	default:
		return false
	}
	return true
}

func (l *ladder) UpgradeOneStep() bool {
	before := l.State()
	switch {
	case l.bucketIndex > 0 && l.fitsBudget(l.bucketIndex-1, l.baseCapCurrent):
		l.bucketIndex--
		l.commit(ChangeUpgradeBucket, before)
	case l.tierIndex > 0:
		l.tierIndex--
		l.commit(ChangeUpgradeTier, before)
	case l.bucketIndex == 0 && l.profile.Category == device.CategoryDesktop && l.profile.BaseCapMax-l.baseCapCurrent > capEpsilon:
		next := math.Min(l.profile.BaseCapMax, l.baseCapCurrent+l.baseCapStep)
		if !l.fitsBudget(0, next) {
			return false
		}
		l.baseCapCurrent = next
		l.commit(ChangeRaiseBaseCap, before)
	default:
		return false
	}
	return true
}

func (l *ladder) EnforcePixelBudget(cssWidth, cssHeight float64) bool {
	if cssWidth <= 0 || cssHeight <= 0 || l.pixelBudget <= 0 {
		return false
	}
	before := l.State()
	l.cssArea = cssWidth * cssHeight
	for l.bucketIndex < len(l.buckets)-1 && !l.fitsBudget(l.bucketIndex, l.baseCapCurrent) {
		l.bucketIndex++
	}
	if l.bucketIndex == before.BucketIndex {
		return false
	}
	l.commit(ChangeBudget, before)
	return true
}

func (l *ladder) ForceBucket(i int) bool {
	i = common.ClampInt(i, 0, len(l.buckets)-1)
	if i == l.bucketIndex {
		return false
	}
	before := l.State()
	l.bucketIndex = i
	l.commit(ChangeForced, before)
	return true
}

func (l *ladder) ForceTier(i int) bool {
	i = common.ClampInt(i, 0, len(l.tiers)-1)
	if i == l.tierIndex {
		return false
	}
	before := l.State()
	l.tierIndex = i
	l.commit(ChangeForced, before)
	return true
}

func (l *ladder) ForceBaseCap(v float64) bool {
	v = common.Clamp(v, l.baseCapCurrent, l.profile.BaseCapMax)
	if math.Abs(v-l.baseCapCurrent) <= capEpsilon {
		return false
	}
	before := l.State()
	l.baseCapCurrent = v
	l.commit(ChangeForced, before)
	return true
}

func (l *ladder) LastChange() time.Time {
	return l.lastChange
}

func (l *ladder) OnChange(fn func(Change)) func() {
	if fn == nil {
		return func() {}
	}
	entry := &listener{fn: fn}
	l.listeners = append(l.listeners, entry)
	return func() {
		for i, e := range l.listeners {
			if e == entry {
				l.listeners = append(l.listeners[:i:i], l.listeners[i+1:]...)
				return
			}
		}
	}
}

// commit timestamps a change and notifies listeners.
func (l *ladder) commit(kind ChangeKind, before State) {
	now := l.clock.Now()
	l.lastChange = now
	c := Change{
		Kind:   kind,
		Before: before,
		After:  l.State(),
		At:     now,
		Ratio:  l.EffectivePixelRatio(),
		Tier:   l.tiers[l.tierIndex],
	}
	l.logger.Debug("quality ladder changed",
		zap.Stringer("kind", kind),
		zap.Int("tier", c.After.TierIndex),
		zap.Int("bucket", c.After.BucketIndex),
		zap.Float64("base_cap", c.After.BaseCapCurrent),
		zap.Float64("ratio", c.Ratio),
	)
	for _, e := range append([]*listener(nil), l.listeners...) {
		e.fn(c)
	}
}
