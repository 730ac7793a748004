package actions

import (
	"context"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vision/internal/config"
	"vision/internal/models"
	"vision/processing/capture"
	"vision/processing/player"
)

type fakePrompter struct {
	answer string
	err    error
	titles []string
}

func (p *fakePrompter) ChooseFile(ctx context.Context, title string, extensions []string) (string, error) {
	p.titles = append(p.titles, title)
	return p.answer, p.err
}

func (p *fakePrompter) AskText(ctx context.Context, title, label string) (string, error) {
	p.titles = append(p.titles, title)
	return p.answer, p.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	errors []error
}

func (n *fakeNotifier) ShowError(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, err)
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

type fakeStatus struct {
	mu      sync.Mutex
	history []models.Status
}

func (s *fakeStatus) SetStatus(st models.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, st)
}

func (s *fakeStatus) last() models.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[len(s.history)-1]
}

// fakeSource stands in for a capture process: with stall set, Read blocks
// until the context given to Open is done.
type fakeSource struct {
	openErr  error
	stall    bool
	released bool

	ctx context.Context
}

func (s *fakeSource) Open(ctx context.Context) error {
	s.ctx = ctx
	return s.openErr
}

func (s *fakeSource) Read() (image.Image, error) {
	if s.stall {
		<-s.ctx.Done()
		return nil, errors.New("capture process killed")
	}
	return nil, io.EOF
}

func (s *fakeSource) Release() error { s.released = true; return nil }
func (s *fakeSource) Name() string { return "clip.mp4" }

type fakePlayer struct {
	calls int
	err   error
	block bool
	onRun func()
}

func (p *fakePlayer) Run(ctx context.Context, src capture.FrameSource, sink player.Sink) (player.Stats, error) {
	p.calls++
	if p.onRun != nil {
		p.onRun()
	}
	if p.block {
		<-ctx.Done()
	}
	src.Release()
	return player.Stats{}, p.err
}

type fakeSurface struct {
	done   chan struct{}
	closed bool
	title  string
}

func (s *fakeSurface) Show(frame image.Image) {}
func (s *fakeSurface) Done() <-chan struct{} { return s.done }
func (s *fakeSurface) Close() { s.closed = true }

type harness struct {
	ctrl     *Controller
	prompt   *fakePrompter
	notify   *fakeNotifier
	status   *fakeStatus
	player   *fakePlayer
	source   *fakeSource
	surface  *fakeSurface
	targets  []string
	sourceEr error
}

func newHarness() *harness {
	h := &harness{
		prompt:  &fakePrompter{answer: "/videos/clip.mp4"},
		notify:  &fakeNotifier{},
		status:  &fakeStatus{},
		player:  &fakePlayer{},
		source:  &fakeSource{},
		surface: &fakeSurface{done: make(chan struct{})},
	}

	h.ctrl = &Controller{
		Sources: func(kind config.SourceType, target string) (capture.FrameSource, error) {
			h.targets = append(h.targets, target)
			if h.sourceEr != nil {
				return nil, h.sourceEr
			}
			return h.source, nil
		},
		Player: h.player,
		Prompt: h.prompt,
		Notify: h.notify,
		Status: h.status,
		Surfaces: func(title string, still bool) Surface {
			h.surface.title = title
			return h.surface
		},
		Log: logrus.New(),
	}

	return h
}

func TestCancelledPromptReturnsToReady(t *testing.T) {
	for _, kind := range []config.SourceType{config.SourceImage, config.SourceLocal, config.SourceYouTube} {
		t.Run(string(kind), func(t *testing.T) {
			h := newHarness()
			h.prompt.answer = ""

			require.NoError(t, h.ctrl.Run(context.Background(), kind))

			assert.Equal(t, models.Ready(), h.status.last())
			assert.Zero(t, h.player.calls)
			assert.Empty(t, h.targets)
			assert.Zero(t, h.notify.count())
		})
	}
}

func TestOpenFailureShowsOneDialog(t *testing.T) {
	h := newHarness()
	h.source.openErr = errors.Wrap(capture.ErrSourceUnavailable, "no such file")

	err := h.ctrl.Run(context.Background(), config.SourceLocal)

	require.Error(t, err)
	assert.Equal(t, 1, h.notify.count())
	assert.Zero(t, h.player.calls)
	assert.Equal(t, models.Failed("Error opening clip.mp4"), h.status.last())
	assert.False(t, h.ctrl.Busy())
}

func TestSourceConstructionFailure(t *testing.T) {
	h := newHarness()
	h.sourceEr = errors.New("no cameras found")

	err := h.ctrl.Run(context.Background(), config.SourceWebcam)

	require.Error(t, err)
	assert.Equal(t, 1, h.notify.count())
	assert.Zero(t, h.player.calls)
	assert.Equal(t, models.StatusError, h.status.last().Level)
	assert.Equal(t, "Webcam error", h.status.last().Text)
}

func TestVideoSuccessEndsReady(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Run(context.Background(), config.SourceLocal))

	assert.Equal(t, 1, h.player.calls)
	assert.Equal(t, []string{"/videos/clip.mp4"}, h.targets)
	assert.Equal(t, "clip.mp4 Detection - Press 'q' to quit", h.surface.title)
	assert.True(t, h.surface.closed)
	assert.Equal(t, models.Ready(), h.status.last())
	assert.Zero(t, h.notify.count())
	assert.Contains(t, h.status.history, models.Active("Playing clip.mp4. Press 'q' to quit."))
}

func TestWebcamSkipsPrompt(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.ctrl.Run(context.Background(), config.SourceWebcam))

	assert.Empty(t, h.prompt.titles)
	assert.Equal(t, []string{""}, h.targets)
	assert.Equal(t, models.Busy("Starting webcam..."), h.status.history[0])
	assert.Equal(t, models.Ready(), h.status.last())
}

func TestPlaybackFailureEndsInError(t *testing.T) {
	h := newHarness()
	h.player.err = errors.New("inference failed")

	err := h.ctrl.Run(context.Background(), config.SourceYouTube)

	require.Error(t, err)
	assert.Equal(t, 1, h.notify.count())
	assert.Equal(t, models.Failed("Processing error"), h.status.last())
	assert.True(t, h.surface.closed)
}

func TestPromptErrorEndsInError(t *testing.T) {
	h := newHarness()
	h.prompt.err = errors.New("portal unavailable")

	require.Error(t, h.ctrl.Run(context.Background(), config.SourceImage))
	assert.Equal(t, models.StatusError, h.status.last().Level)
	assert.Zero(t, h.player.calls)
}

func TestStillImageWaitsForDismiss(t *testing.T) {
	h := newHarness()
	h.prompt.answer = "/pics/cat.png"

	var duringDetection models.Status
	h.player.onRun = func() { duringDetection = h.status.last() }

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Run(context.Background(), config.SourceImage) }()

	select {
	case <-done:
		t.Fatal("returned before the window was dismissed")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, models.Active("Detection complete. Displaying results..."), h.status.last())

	close(h.surface.done)
	require.NoError(t, <-done)

	assert.Equal(t, models.Busy("Processing cat.png..."), duringDetection)
	assert.Equal(t, []models.Status{
		models.Busy("Opening file dialog..."),
		models.Busy("Processing cat.png..."),
		models.Active("Detection complete. Displaying results..."),
		models.Ready(),
	}, h.status.history)
}

func TestStillImageDetectionFailureNeverReportsComplete(t *testing.T) {
	h := newHarness()
	h.prompt.answer = "/pics/cat.png"
	h.player.err = errors.New("inference failed")

	require.Error(t, h.ctrl.Run(context.Background(), config.SourceImage))

	assert.NotContains(t, h.status.history, models.Active("Detection complete. Displaying results..."))
	assert.Equal(t, models.Failed("Processing error"), h.status.last())
}

func TestSurfaceDismissCancelsPlayback(t *testing.T) {
	h := newHarness()
	h.player.block = true

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Run(context.Background(), config.SourceWebcam) }()

	assert.Eventually(t, h.ctrl.Busy, time.Second, 5*time.Millisecond)
	close(h.surface.done)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("playback not cancelled")
	}
	assert.True(t, h.source.released)
}

func TestSurfaceDismissUnblocksStalledRead(t *testing.T) {
	h := newHarness()
	h.source.stall = true
	h.ctrl.Player = readingPlayer{}

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Run(context.Background(), config.SourceYouTube) }()

	assert.Eventually(t, h.ctrl.Busy, time.Second, 5*time.Millisecond)
	close(h.surface.done)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("stalled read not interrupted")
	}
	assert.False(t, h.ctrl.Busy())
	assert.True(t, h.source.released)
	assert.Equal(t, models.Ready(), h.status.last())
}

// readingPlayer blocks in Read like the real playback loop and treats a
// read error after cancellation as a normal stop.
type readingPlayer struct{}

func (readingPlayer) Run(ctx context.Context, src capture.FrameSource, sink player.Sink) (player.Stats, error) {
	defer src.Release()
	for {
		if _, err := src.Read(); err != nil {
			if ctx.Err() != nil || err == io.EOF {
				return player.Stats{}, nil
			}
			return player.Stats{}, err
		}
	}
}

func TestSecondActionWhileBusyIsRejected(t *testing.T) {
	h := newHarness()
	h.player.block = true

	done := make(chan error, 1)
	go func() { done <- h.ctrl.Run(context.Background(), config.SourceWebcam) }()
	assert.Eventually(t, h.ctrl.Busy, time.Second, 5*time.Millisecond)

	err := h.ctrl.Run(context.Background(), config.SourceLocal)
	assert.ErrorIs(t, err, ErrBusy)
	require.Equal(t, 1, h.notify.count())
	assert.Equal(t, ErrBusy, h.notify.errors[0])

	close(h.surface.done)
	require.NoError(t, <-done)
}

func TestUnknownKind(t *testing.T) {
	h := newHarness()
	err := h.ctrl.Run(context.Background(), config.SourceType("Floppy"))
	assert.ErrorIs(t, err, ErrUnknownKind)
	assert.False(t, h.ctrl.Busy())
}
