package ui

import (
	"image"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"vision/internal/actions"
)

// surface is the per-session display window. Only the newest frame is kept;
// frames arriving faster than the UI can paint are dropped.
type surface struct {
	win    fyne.Window
	canvas *canvas.Image

	latest    atomic.Value
	scheduled atomic.Bool

	done      chan struct{}
	doneOnce  sync.Once
	closeOnce sync.Once
}

func (a *DetectApp) newSurface(title string, still bool) actions.Surface {
	s := &surface{done: make(chan struct{})}

	fyne.DoAndWait(func() {
		s.win = a.fyneApp.NewWindow(title)

		s.canvas = canvas.NewImageFromImage(nil)
		s.canvas.FillMode = canvas.ImageFillContain
		s.canvas.SetMinSize(fyne.NewSize(640, 480))

		s.win.SetContent(s.canvas)
		s.win.SetOnClosed(s.dismiss)
		s.win.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
			if still || ev.Name == fyne.KeyQ || ev.Name == fyne.KeyEscape {
				s.dismiss()
			}
		})

		s.win.Resize(fyne.NewSize(960, 600))
		s.win.Show()
	})

	return s
}

func (s *surface) Show(frame image.Image) {
	s.latest.Store(frame)
	if s.scheduled.Swap(true) {
		return
	}

	fyne.Do(func() {
		s.scheduled.Store(false)
		s.canvas.Image = s.latest.Load().(image.Image)
		s.canvas.Refresh()
	})
}

func (s *surface) Done() <-chan struct{} {
	return s.done
}

func (s *surface) dismiss() {
	s.doneOnce.Do(func() { close(s.done) })
}

func (s *surface) Close() {
	s.closeOnce.Do(func() {
		s.dismiss()
		fyne.Do(s.win.Close)
	})
}
