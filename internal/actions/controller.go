// Package actions implements the four "detect from ..." entry points as one
// flow: status, prompt, open, play, status.
package actions

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"vision/internal/config"
	"vision/internal/models"
	"vision/processing/capture"
	"vision/processing/player"
)

var (
	ErrBusy        = errors.New("a detection session is already running")
	ErrUnknownKind = errors.New("unknown source kind")
)

var (
	ImageExtensions = []string{".jpg", ".jpeg", ".png"}
	VideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv"}
)

// Prompter asks the user for input. An empty result with a nil error means
// the user cancelled.
type Prompter interface {
	ChooseFile(ctx context.Context, title string, extensions []string) (string, error)
	AskText(ctx context.Context, title, label string) (string, error)
}

type Notifier interface {
	ShowError(err error)
}

type StatusSink interface {
	SetStatus(models.Status)
}

// Surface is the on-screen window of one session. Done is closed when the
// user dismisses it.
type Surface interface {
	player.Sink
	Done() <-chan struct{}
	Close()
}

type SurfaceFactory func(title string, still bool) Surface

type SourceFactory func(kind config.SourceType, target string) (capture.FrameSource, error)

type Playback interface {
	Run(ctx context.Context, src capture.FrameSource, sink player.Sink) (player.Stats, error)
}

type Controller struct {
	Sources  SourceFactory
	Player   Playback
	Prompt   Prompter
	Notify   Notifier
	Status   StatusSink
	Surfaces SurfaceFactory
	Log      logrus.FieldLogger

	busy atomic.Bool
}

// Busy reports whether a session is in progress.
func (c *Controller) Busy() bool {
	return c.busy.Load()
}

// Run performs the whole action for kind. It blocks until the session ends
// and must not be called on the UI thread. The returned error has already
// been shown to the user.
func (c *Controller) Run(ctx context.Context, kind config.SourceType) error {
	act, ok := actionsByKind[kind]
	if !ok {
		err := errors.Wrapf(ErrUnknownKind, "%q", kind)
		c.Notify.ShowError(err)
		return err
	}

	if !c.busy.CompareAndSwap(false, true) {
		c.Notify.ShowError(ErrBusy)
		return ErrBusy
	}
	defer c.busy.Store(false)

	log := c.Log.WithField("action", kind)

	c.Status.SetStatus(models.Busy(act.busyText))

	target, err := c.prompt(ctx, act)
	if err != nil {
		return c.fail(log, err, "Dialog error")
	}
	if act.prompt != promptNone && target == "" {
		log.Debug("prompt cancelled")
		c.Status.SetStatus(models.Ready())
		return nil
	}

	if act.openingText != nil {
		c.Status.SetStatus(models.Busy(act.openingText(target)))
	}

	// The source lives on the session context, so dismissing the surface
	// also stops a capture process blocked in Read.
	session, cancel := context.WithCancel(ctx)
	defer cancel()

	src, err := c.Sources(kind, target)
	if err == nil {
		err = src.Open(session)
	}
	if err != nil {
		return c.fail(log, err, act.openFailed(target))
	}

	name := src.Name()
	if !act.still {
		c.Status.SetStatus(models.Active(act.activeText(name)))
	}

	surface := c.Surfaces(act.windowTitle(name), act.still)
	defer surface.Close()

	go func() {
		select {
		case <-surface.Done():
			cancel()
		case <-session.Done():
		}
	}()

	stats, err := c.Player.Run(session, src, surface)
	if err != nil {
		return c.fail(log, errors.Wrap(err, "an error occurred during processing"), "Processing error")
	}

	if act.still {
		c.Status.SetStatus(models.Active(act.activeText(name)))

		select {
		case <-surface.Done():
		case <-ctx.Done():
		}
	}

	log.WithFields(logrus.Fields{"source": name, "frames": stats.Frames}).Info("session complete")
	c.Status.SetStatus(models.Ready())

	return nil
}

func (c *Controller) prompt(ctx context.Context, act action) (string, error) {
	switch act.prompt {
	case promptImage:
		return c.Prompt.ChooseFile(ctx, "Select an Image", ImageExtensions)
	case promptVideo:
		return c.Prompt.ChooseFile(ctx, "Select a Video File", VideoExtensions)
	case promptURL:
		return c.Prompt.AskText(ctx, "YouTube URL", "Enter YouTube Video URL:")
	default:
		return "", nil
	}
}

func (c *Controller) fail(log logrus.FieldLogger, err error, status string) error {
	log.WithError(err).Error(status)
	c.Notify.ShowError(err)
	c.Status.SetStatus(models.Failed(status))
	return err
}
