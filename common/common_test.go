package common

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1, 0, 1))
	assert.Equal(t, 1.0, Clamp(2, 0, 1))
	assert.Equal(t, 0.25, Clamp(0.25, 0, 1))
	assert.Equal(t, 0.0, Clamp(math.NaN(), 0, 1))
	assert.Equal(t, 3, ClampInt(9, 0, 3))
	assert.Equal(t, 0, ClampInt(-2, 0, 3))
}

func TestSmoothstep(t *testing.T) {
	assert.Equal(t, 0.0, Smoothstep(0.5, 1, 0.2))
	assert.Equal(t, 1.0, Smoothstep(0.5, 1, 1.2))
	assert.InDelta(t, 0.5, Smoothstep(0.5, 1, 0.75), 1e-12)
	assert.Equal(t, 1.0, Smoothstep(0.5, 0.5, 0.5))
}

func TestEaseInOutCubic(t *testing.T) {
	assert.Equal(t, 0.0, EaseInOutCubic(0))
	assert.Equal(t, 1.0, EaseInOutCubic(1))
	assert.InDelta(t, 0.5, EaseInOutCubic(0.5), 1e-12)
	assert.Less(t, EaseInOutCubic(0.25), 0.25)
	assert.Greater(t, EaseInOutCubic(0.75), 0.75)
}

func TestExpSmoothingAlpha(t *testing.T) {
	assert.Equal(t, 0.0, ExpSmoothingAlpha(0, 0.5))
	assert.Equal(t, 1.0, ExpSmoothingAlpha(0.016, 0))
	assert.InDelta(t, 1-math.Exp(-1), ExpSmoothingAlpha(0.5, 0.5), 1e-12)

	// Two half steps compose to one full step.
	a := ExpSmoothingAlpha(0.1, 0.5)
	two := 1 - (1-a)*(1-a)
	assert.InDelta(t, ExpSmoothingAlpha(0.2, 0.5), two, 1e-12)
}

func TestBuildModelMatrixIdentity(t *testing.T) {
	m := make([]float32, 16)
	BuildModelMatrix(m, 1, 2, 3, 0, 0, 0, 1, 1, 1)
	assert.Equal(t, []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 1, 2, 3, 1}, m)
}

func TestManualClock(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewManualClock(start)
	assert.True(t, c.Now().Equal(start))
	c.Advance(1500 * time.Millisecond)
	assert.True(t, c.Now().Equal(start.Add(1500*time.Millisecond)))
}

func TestEffectTextureDecode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 3))
	img.Set(1, 2, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tex := &EffectTexture{Name: "flutes", Data: buf.Bytes()}
	staging, err := tex.Decode()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), staging.Width)
	assert.Equal(t, uint32(3), staging.Height)
	require.Len(t, staging.Pixels, 2*3*4)
	off := (2*2 + 1) * 4
	assert.Equal(t, []byte{10, 20, 30, 255}, staging.Pixels[off:off+4])

	_, err = (&EffectTexture{Name: "empty"}).Decode()
	assert.Error(t, err)
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, 3.0, Coalesce(0, 3.0, 4.0))
	assert.Equal(t, "", Coalesce("", ""))
}

func TestFinite(t *testing.T) {
	assert.True(t, Finite(0))
	assert.True(t, Finite(-1e300))
	assert.False(t, Finite(math.NaN()))
	assert.False(t, Finite(math.Inf(1)))
	assert.False(t, Finite(math.Inf(-1)))
}
