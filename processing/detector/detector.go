package detector

import (
	"context"
	"image"

	"vision/internal/models"
)

// Detector maps a frame to index-aligned boxes, scores and class ids.
type Detector interface {
	Detect(ctx context.Context, frame image.Image) (models.Detections, error)
	Close() error
}
