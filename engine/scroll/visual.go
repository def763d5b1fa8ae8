package scroll

import "github.com/Carmen-Shannon/oxy-hero/common"

// Color is a linear RGB triple.
type Color [3]float32

// Palette is the background gradient shown while a section is in view.
type Palette struct {
	Top    Color
	Bottom Color
}

// Visual is everything the binder pushes for a given progress value.
type Visual struct {
	Progress   float64
	Glass      GlassConfig
	Refraction float64
	Exposure   float64
	Saturation float64
	Gradient   Palette
}

// Curves shapes how progress maps onto tone, refraction and gradient values.
type Curves struct {
	ExposureStart   float64
	ExposureEnd     float64
	SaturationStart float64
	SaturationEnd   float64
	RefractionStart float64
	RefractionEnd   float64
	Palettes        []Palette
}

// DefaultPalettes returns one gradient per default section, top of the page first.
func DefaultPalettes() []Palette {
	return []Palette{
		{Top: Color{0.09, 0.10, 0.14}, Bottom: Color{0.02, 0.02, 0.04}},
		{Top: Color{0.16, 0.12, 0.20}, Bottom: Color{0.04, 0.03, 0.06}},
		{Top: Color{0.05, 0.05, 0.05}, Bottom: Color{0.00, 0.00, 0.00}},
	}
}

// DefaultCurves returns the stock curves.
func DefaultCurves() Curves {
	return Curves{
		ExposureStart:   1.0,
		ExposureEnd:     0.78,
		SaturationStart: 0,
		SaturationEnd:   -0.65,
		RefractionStart: 0.25,
		RefractionEnd:   1.0,
		Palettes:        DefaultPalettes(),
	}
}

// VisualFor derives the visual state for progress using the stock curves.
func VisualFor(progress float64) Visual {
	return DefaultCurves().VisualFor(progress)
}

// VisualFor derives the visual state for progress.
//
// Exposure and saturation only move over the back half of the range, eased with smoothstep, so the
// first section reads exactly as authored. Refraction eases in over the front half.
//
// Parameters:
//   - progress: scroll progress, clamped to [0, 1]
//
// Returns:
//   - Visual: the derived values
func (c Curves) VisualFor(progress float64) Visual {
	p := common.Clamp(progress, 0, 1)
	back := common.Smoothstep(0.5, 1, p)
	front := common.Smoothstep(0, 0.5, p)
	return Visual{
		Progress:   p,
		Glass:      GlassConfigFor(p),
		Refraction: common.Lerp(c.RefractionStart, c.RefractionEnd, front),
		Exposure:   common.Lerp(c.ExposureStart, c.ExposureEnd, back),
		Saturation: common.Lerp(c.SaturationStart, c.SaturationEnd, back),
		Gradient:   c.gradientAt(p),
	}
}

// gradientAt blends between adjacent section palettes.
func (c Curves) gradientAt(p float64) Palette {
	n := len(c.Palettes)
	switch n {
	case 0:
		return Palette{}
	case 1:
		return c.Palettes[0]
	}
	pos := p * float64(n-1)
	if pos >= float64(n-1) {
		return c.Palettes[n-1]
	}
	i := common.ClampInt(int(pos), 0, n-2)
	t := float32(pos - float64(i))
	a, b := c.Palettes[i], c.Palettes[i+1]
	return Palette{Top: mixColor(a.Top, b.Top, t), Bottom: mixColor(a.Bottom, b.Bottom, t)}
}

func mixColor(a, b Color, t float32) Color {
	return Color{
		a[0] + (b[0]-a[0])*t,
		a[1] + (b[1]-a[1])*t,
		a[2] + (b[2]-a[2])*t,
	}
}
