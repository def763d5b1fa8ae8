// Package diagnostics observes the hero without influencing it: a lock-free status snapshot, a
// toggleable text overlay, Prometheus gauges and structured change logs.
package diagnostics

import (
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"go.uber.org/atomic"
)

// Status is a point-in-time view of quality and scroll state.
type Status struct {
	SessionID           string
	EffectivePixelRatio float64
	BucketIndex         int
	TierName            string
	TierIndex           int
	BaseCapCurrent      float64
	BaseCapMax          float64
	EmaFPS              float64
	Category            string
	Progress            float64
	Section             int
}

// Observer receives status updates and notable events from the frame loop.
// Implementations must not block.
type Observer interface {
	ObserveStatus(s Status)
	ObserveChange(c quality.Change)
	ObserveResume(reason string)
}

// Publisher holds the latest Status for readers on other goroutines, such as a metrics scrape.
type Publisher struct {
	current *atomic.Pointer[Status]
}

var _ Observer = &Publisher{}

// NewPublisher creates a Publisher holding a zero Status.
func NewPublisher() *Publisher {
	return &Publisher{current: atomic.NewPointer(&Status{})}
}

// ObserveStatus stores a copy of s.
func (p *Publisher) ObserveStatus(s Status) {
	p.current.Store(&s)
}

func (p *Publisher) ObserveChange(quality.Change) {}

func (p *Publisher) ObserveResume(string) {}

// Snapshot returns the most recently published Status.
func (p *Publisher) Snapshot() Status {
	return *p.current.Load()
}
