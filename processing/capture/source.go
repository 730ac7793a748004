package capture

import (
	"context"
	"image"

	"github.com/pkg/errors"
)

// ErrSourceUnavailable marks a source that could not be opened. It is a
// recoverable condition reported to the user.
var ErrSourceUnavailable = errors.New("frame source unavailable")

// FrameSource yields raster frames until io.EOF. Read must only be called
// after a successful Open, and Release must be called exactly once after Open
// regardless of how the session ended.
type FrameSource interface {
	Open(ctx context.Context) error
	Read() (image.Image, error)
	Release() error
	Name() string
}

func unavailable(err error, format string, args ...any) error {
	if err == nil {
		return errors.Wrapf(ErrSourceUnavailable, format, args...)
	}
	return errors.Wrapf(&sourceError{cause: err}, format, args...)
}

type sourceError struct {
	cause error
}

func (e *sourceError) Error() string {
	return e.cause.Error()
}

func (e *sourceError) Unwrap() error {
	return e.cause
}

func (e *sourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}
