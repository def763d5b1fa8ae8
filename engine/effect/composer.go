package effect

import (
	"math"

	"github.com/Carmen-Shannon/oxy-hero/engine/logger"
	"go.uber.org/zap"
)

// Composer chains the post-processing passes and owns their intermediate target size.
type Composer struct {
	passes    []Pass
	ratio     float64
	cssWidth  float64
	cssHeight float64
	width     float64
	height    float64
	logger    *zap.Logger
}

// NewComposer creates a composer over passes in draw order. nil passes are skipped.
//
// Parameters:
//   - log: logger, may be nil
//   - passes: the passes in draw order
//
// Returns:
//   - *Composer: the composer
func NewComposer(log *zap.Logger, passes ...Pass) *Composer {
	c := &Composer{ratio: 1, logger: logger.OrNop(log).Named("composer")}
	for _, p := range passes {
		if p != nil {
			c.passes = append(c.passes, p)
		}
	}
	return c
}

// SetPixelRatio sets the ratio applied to the CSS size. Non-positive ratios are ignored.
func (c *Composer) SetPixelRatio(ratio float64) {
	if c == nil || ratio <= 0 {
		return
	}
	c.ratio = ratio
	c.resize()
}

// SetSize sets the viewport size in CSS pixels.
func (c *Composer) SetSize(cssWidth, cssHeight float64) {
	if c == nil || cssWidth <= 0 || cssHeight <= 0 {
		return
	}
	c.cssWidth, c.cssHeight = cssWidth, cssHeight
	c.resize()
}

// resize derives the target size in framebuffer pixels, rounded the same way as the renderer.
func (c *Composer) resize() {
	w, h := math.Round(c.cssWidth*c.ratio), math.Round(c.cssHeight*c.ratio)
	if w == c.width && h == c.height {
		return
	}
	c.width, c.height = w, h
	c.logger.Debug("targets resized", zap.Float64("width", w), zap.Float64("height", h))
}

// Size returns the intermediate target size in framebuffer pixels.
func (c *Composer) Size() (float64, float64) {
	return c.width, c.height
}

// Passes returns the passes in draw order.
func (c *Composer) Passes() []Pass {
	return c.passes
}

// Flush uploads every pass whose uniforms changed. Call once per frame before drawing.
func (c *Composer) Flush() {
	if c == nil {
		return
	}
	for _, p := range c.passes {
		p.Flush()
	}
}
