package player

import (
	"context"

	"github.com/sirupsen/logrus"

	"vision/internal/config"
	"vision/processing/capture"
	"vision/processing/detector"
	"vision/processing/overlay"
)

type thresholdSetter interface {
	SetThresholds(conf, iou float32)
}

// Sessions builds a Processor for every run from the current config, so
// settings changed between sessions take effect on the next one.
type Sessions struct {
	Config   *config.Config
	Detector detector.Detector
	Log      logrus.FieldLogger
}

func (s *Sessions) Run(ctx context.Context, src capture.FrameSource, sink Sink) (Stats, error) {
	det := s.Config.GetDetector()
	if ts, ok := s.Detector.(thresholdSetter); ok {
		ts.SetThresholds(det.ConfThreshold, det.IoUThreshold)
	}

	_, still := src.(*capture.StillImage)

	renderer := overlay.NewRenderer(overlay.FromConfig(s.Config.GetCalibration()))
	opts := Options{ShowFPS: s.Config.GetShowFPS() && !still}

	return NewProcessor(s.Detector, renderer, opts, s.Log).Run(ctx, src, sink)
}
