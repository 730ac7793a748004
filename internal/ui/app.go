package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"vision/internal/actions"
	"vision/internal/config"
	"vision/internal/models"
	"vision/internal/ui/cwidget"
)

const appID = "io.vision.detect"

type DetectApp struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config     *config.Config
	controller *actions.Controller
	log        logrus.FieldLogger

	ctx       context.Context
	statusBar *cwidget.StatusBar
}

func CreateApp(cfg *config.Config, log logrus.FieldLogger) *DetectApp {
	a := app.NewWithID(appID)
	a.Settings().SetTheme(detectTheme{})

	return &DetectApp{
		fyneApp: a,
		config:  cfg,
		log:     log,
		ctx:     context.Background(),
	}
}

// Bind wires the action controller; the app itself serves as its prompter,
// notifier, status sink and surface factory.
func (a *DetectApp) Bind(sources actions.SourceFactory, playback actions.Playback) {
	a.controller = &actions.Controller{
		Sources:  sources,
		Player:   playback,
		Prompt:   a,
		Notify:   a,
		Status:   a,
		Surfaces: a.newSurface,
		Log:      a.log,
	}
}

func (a *DetectApp) Run(ctx context.Context) {
	a.ctx = ctx

	w := a.fyneApp.NewWindow("Object Detection")
	w.Resize(fyne.NewSize(500, 400))
	w.SetFixedSize(true)
	a.mainWin = w

	title := canvas.NewText("Object Detection Interface", TitleColor)
	title.TextSize = 22
	title.TextStyle = fyne.TextStyle{Bold: true}
	title.Alignment = fyne.TextAlignCenter

	a.statusBar = cwidget.NewStatusBar("Ready", StatusSuccessColor, TitleColor)

	buttons := container.NewVBox(
		a.actionButton("Detect from Image", theme.FileImageIcon(), config.SourceImage),
		a.actionButton("Detect from Webcam", theme.MediaVideoIcon(), config.SourceWebcam),
		a.actionButton("Detect from Video File", theme.FileVideoIcon(), config.SourceLocal),
		a.actionButton("Detect from YouTube", theme.MediaPlayIcon(), config.SourceYouTube),
		widget.NewButtonWithIcon("Settings", theme.SettingsIcon(), a.showSettings),
	)

	body := container.NewPadded(container.NewBorder(
		container.NewPadded(title), nil, nil, nil,
		buttons,
	))

	w.SetContent(container.NewBorder(nil, a.statusBar, nil, nil, body))

	w.SetOnClosed(func() {
		if err := a.config.SaveByDefault(); err != nil {
			a.log.WithError(err).Warn("failed to save config")
		}
	})

	go func() {
		<-ctx.Done()
		fyne.Do(a.fyneApp.Quit)
	}()

	a.SetStatus(models.Ready())
	w.CenterOnScreen()
	w.ShowAndRun()
}

func (a *DetectApp) actionButton(label string, icon fyne.Resource, kind config.SourceType) *widget.Button {
	btn := widget.NewButtonWithIcon(label, icon, func() {
		go a.controller.Run(a.ctx, kind)
	})
	btn.Importance = widget.HighImportance
	return btn
}

// RunFatal shows err in a standalone dialog and exits the event loop when
// it is dismissed. The main window is never created.
func (a *DetectApp) RunFatal(err error) {
	w := a.fyneApp.NewWindow("Fatal Error")
	w.Resize(fyne.NewSize(460, 180))

	d := dialog.NewError(err, w)
	d.SetOnClosed(a.fyneApp.Quit)
	w.SetOnClosed(a.fyneApp.Quit)

	w.CenterOnScreen()
	w.Show()
	d.Show()
	a.fyneApp.Run()
}

func (a *DetectApp) SetStatus(st models.Status) {
	fyne.Do(func() {
		a.statusBar.SetStatus(st.Text, StatusColor(st.Level))
	})
}

func (a *DetectApp) ShowError(err error) {
	fyne.Do(func() {
		dialog.ShowError(err, a.mainWin)
	})
}
