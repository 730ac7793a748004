package capture

import (
	"context"
	"image"
	"io"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
)

// StillImage is a single decoded picture exposed as a one-frame source.
type StillImage struct {
	path      string
	maxWidth  int
	maxHeight int

	frame image.Image
	done  bool
}

func NewStillImage(path string, maxWidth, maxHeight int) *StillImage {
	return &StillImage{path: path, maxWidth: maxWidth, maxHeight: maxHeight}
}

func (s *StillImage) Open(ctx context.Context) error {
	img, err := imaging.Open(s.path, imaging.AutoOrientation(true))
	if err != nil {
		return unavailable(err, "failed to load the image from %s", s.path)
	}

	b := img.Bounds()
	if s.maxWidth > 0 && s.maxHeight > 0 && (b.Dx() > s.maxWidth || b.Dy() > s.maxHeight) {
		img = resize.Thumbnail(uint(s.maxWidth), uint(s.maxHeight), img, resize.Lanczos3)
	}

	s.frame = img
	return nil
}

func (s *StillImage) Read() (image.Image, error) {
	if s.done || s.frame == nil {
		return nil, io.EOF
	}
	s.done = true
	return s.frame, nil
}

func (s *StillImage) Release() error {
	s.frame = nil
	return nil
}

func (s *StillImage) Name() string {
	return filepath.Base(s.path)
}
