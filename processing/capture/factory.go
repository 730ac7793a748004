package capture

import (
	"github.com/pkg/errors"

	"vision/internal/config"
)

// NewSource builds the frame source for kind. target is a file path for
// images and videos, a URL for streams and an optional device for webcams.
func NewSource(cfg *config.Config, kind config.SourceType, target string) (FrameSource, error) {
	switch kind {
	case config.SourceImage:
		return NewStillImage(target, cfg.GetWidth(), cfg.GetHeight()), nil

	case config.SourceWebcam:
		device := target
		if device == "" {
			device = cfg.GetDeviceID()
		}
		if device == "" {
			cameras, err := ListCameras()
			if err != nil {
				return nil, unavailable(err, "could not list cameras")
			}
			if len(cameras) == 0 {
				return nil, unavailable(nil, "could not access the webcam: no cameras found")
			}
			device = cameras[0]
		}
		return NewFFmpegWebcam(device, cfg.GetFPS(), cfg.GetWidth(), cfg.GetHeight()), nil

	case config.SourceLocal:
		return NewLocalStreamer(target, cfg.GetFPS(), cfg.GetWidth(), cfg.GetHeight()), nil

	case config.SourceYouTube:
		resolver := NewYouTubeResolver(cfg.GetQuality())
		return NewRemoteStreamer(target, resolver, cfg.GetFPS(), cfg.GetWidth(), cfg.GetHeight()), nil

	default:
		return nil, errors.Errorf("unknown source: %s", kind)
	}
}
