package overlay

import (
	"fmt"

	"vision/internal/config"
)

// Calibration holds the pinhole parameters used for distance estimates.
type Calibration struct {
	FocalLength   float64
	KnownWidthsCM map[string]float64
}

// Distance estimates how far an object of class name is from the camera,
// given its box width in pixels. ok is false for unknown classes or a
// degenerate box.
func (c *Calibration) Distance(name string, pixelWidth int) (cm float64, ok bool) {
	known, found := c.KnownWidthsCM[name]
	if !found || pixelWidth <= 0 || c.FocalLength <= 0 || known <= 0 {
		return 0, false
	}
	return known * c.FocalLength / float64(pixelWidth), true
}

func FormatDistance(cm float64) string {
	if cm >= 100 {
		return fmt.Sprintf("%.1fm", cm/100)
	}
	return fmt.Sprintf("%.0fcm", cm)
}

// FromConfig returns nil when distance overlays are disabled.
func FromConfig(cfg config.CalibrationConfig) *Calibration {
	if !cfg.Enabled {
		return nil
	}
	return &Calibration{FocalLength: cfg.FocalLength, KnownWidthsCM: cfg.KnownWidthsCM}
}
