package diagnostics

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/Carmen-Shannon/oxy-hero/common"
	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"github.com/Carmen-Shannon/oxy-hero/engine/quality"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

// DefaultOverlayInterval throttles overlay redraws.
const DefaultOverlayInterval = 500 * time.Millisecond

// Overlay renders the status as a small table to a writer, at most once per interval.
type Overlay struct {
	out        io.Writer
	interval   time.Duration
	clock      common.Clock
	enabled    bool
	lastRender time.Time
	lastChange string

	log *zap.Logger
	// failing is set after a render error has been logged and cleared by the next successful render.
	failing bool

	label *color.Color
	good  *color.Color
	warn  *color.Color
	bad   *color.Color
}

var _ Observer = &Overlay{}

// NewOverlay creates a disabled overlay writing to out.
//
// Parameters:
//   - out: destination for rendered tables
//   - interval: minimum time between renders; non-positive uses DefaultOverlayInterval
//   - clock: time source, nil for the system clock
//
// Returns:
//   - *Overlay: the overlay
func NewOverlay(out io.Writer, interval time.Duration, clock common.Clock) *Overlay {
	if interval <= 0 {
		interval = DefaultOverlayInterval
	}
	if clock == nil {
		clock = common.SystemClock{}
	}
	return &Overlay{
		out:      out,
		interval: interval,
		clock:    clock,
		log:      zap.NewNop(),
		label:    color.New(color.FgHiBlue, color.Bold),
		good:     color.New(color.FgHiGreen),
		warn:     color.New(color.FgHiYellow),
		bad:      color.New(color.FgHiRed, color.Bold),
	}
}

// SetLogger sets the logger render failures are reported to. nil uses a no-op logger.
func (o *Overlay) SetLogger(log *zap.Logger) {
	o.log = logger.OrNop(log).Named("overlay")
}

// Toggle flips the overlay on or off and returns the new state. Turning it on renders on the next status.
func (o *Overlay) Toggle() bool {
	o.enabled = !o.enabled
	o.lastRender = time.Time{}
	return o.enabled
}

// Enabled reports whether the overlay is on.
func (o *Overlay) Enabled() bool {
	return o.enabled
}

func (o *Overlay) ObserveStatus(s Status) {
	if !o.enabled || o.out == nil {
		return
	}
	now := o.clock.Now()
	if !o.lastRender.IsZero() && now.Sub(o.lastRender) < o.interval {
		return
	}
	o.lastRender = now
	if err := o.Render(s); err != nil {
		if !o.failing {
			o.failing = true
			o.log.Debug("overlay render failed", zap.Error(err))
		}
		return
	}
	o.failing = false
}

func (o *Overlay) ObserveChange(c quality.Change) {
	o.lastChange = c.Kind.String()
}

func (o *Overlay) ObserveResume(string) {}

// Render writes s as a table regardless of the interval.
//
// Parameters:
//   - s: the status to render
//
// Returns:
//   - error: an error if the table could not be written
func (o *Overlay) Render(s Status) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)

	rows := [][]string{
		{o.label.Sprint("fps"), o.fpsColor(s.EmaFPS).Sprintf("%.1f", s.EmaFPS)},
		{o.label.Sprint("pixel ratio"), fmt.Sprintf("%.2f", s.EffectivePixelRatio)},
		{o.label.Sprint("bucket"), fmt.Sprintf("%d", s.BucketIndex)},
		{o.label.Sprint("tier"), s.TierName},
		{o.label.Sprint("base cap"), fmt.Sprintf("%.2f / %.2f", s.BaseCapCurrent, s.BaseCapMax)},
		{o.label.Sprint("device"), s.Category},
		{o.label.Sprint("scroll"), fmt.Sprintf("%.3f (section %d)", s.Progress, s.Section)},
	}
	if o.lastChange != "" {
		rows = append(rows, []string{o.label.Sprint("last change"), o.lastChange})
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append overlay row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render overlay: %w", err)
	}
	_, err := o.out.Write(buf.Bytes())
	return err
}

func (o *Overlay) fpsColor(fps float64) *color.Color {
	switch {
	case fps >= 58:
		return o.good
	case fps >= 45:
		return o.warn
	default:
		return o.bad
	}
}
