package overlay

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision/internal/config"
	"vision/internal/models"
)

func TestInstantFPS(t *testing.T) {
	assert.Equal(t, 0.0, InstantFPS(0))
	assert.Equal(t, 0.0, InstantFPS(-time.Second))
	assert.InDelta(t, 20.0, InstantFPS(50*time.Millisecond), 1e-9)
	assert.InDelta(t, 0.5, InstantFPS(2*time.Second), 1e-9)
}

func TestCalibrationDistance(t *testing.T) {
	cal := &Calibration{FocalLength: 700, KnownWidthsCM: map[string]float64{"person": 45}}

	cm, ok := cal.Distance("person", 140)
	require.True(t, ok)
	assert.InDelta(t, 225.0, cm, 1e-9)

	_, ok = cal.Distance("person", 0)
	assert.False(t, ok)

	_, ok = cal.Distance("giraffe", 100)
	assert.False(t, ok)
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "45cm", FormatDistance(45))
	assert.Equal(t, "2.3m", FormatDistance(230))
}

func TestPaletteDistinct(t *testing.T) {
	p := Palette(80)
	require.Len(t, p, 80)
	assert.NotEqual(t, p[0], p[40])
	for _, c := range p {
		assert.Equal(t, uint8(255), c.A)
	}
}

func TestDrawLeavesSourceUntouched(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 120, 80))
	var dets models.Detections
	dets.Append(models.Detection{Box: image.Rect(20, 30, 60, 70), Score: 0.8, ClassID: 0})

	r := NewRenderer(&Calibration{FocalLength: 700, KnownWidthsCM: map[string]float64{"person": 45}})
	out := r.Draw(frame, dets)

	assert.Equal(t, frame.Bounds(), out.Bounds())
	assert.Equal(t, color.RGBA{}, frame.RGBAAt(20, 50))
	assert.Equal(t, r.colorFor(0), out.RGBAAt(20, 50))
	assert.Equal(t, r.colorFor(0), out.RGBAAt(59, 50))
	assert.Equal(t, color.RGBA{}, out.RGBAAt(40, 50))
}

func TestDrawClipsOutOfBoundsBoxes(t *testing.T) {
	frame := image.NewRGBA(image.Rect(0, 0, 30, 30))
	var dets models.Detections
	dets.Append(models.Detection{Box: image.Rect(-10, -10, 100, 100), Score: 0.5, ClassID: -1})

	assert.NotPanics(t, func() {
		out := NewRenderer(nil).Draw(frame, dets)
		NewRenderer(nil).DrawFPS(out, 12.7)
	})
}

func TestFromConfig(t *testing.T) {
	cfg := config.NewDefaultConfig().GetCalibration()
	cal := FromConfig(cfg)
	require.NotNil(t, cal)
	assert.Equal(t, 700.0, cal.FocalLength)

	cfg.Enabled = false
	assert.Nil(t, FromConfig(cfg))
}
