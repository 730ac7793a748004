package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"vision/internal/ui/cwidget"
)

func (a *DetectApp) showSettings() {
	cal := a.config.GetCalibration()

	focalInput := cwidget.NewFloatInput(
		"Focal length",
		"Enter number",
		cal.FocalLength,
		a.config.SetFocalLength,
	)

	fpsInput := cwidget.NewIntInput(
		"FPS",
		"Enter integer",
		int(a.config.GetFPS()),
		func(i int) {
			a.config.SetFPS(uint(i))
		},
	)

	distanceCheck := widget.NewCheck("Show distance", a.config.SetCalibrationEnabled)
	distanceCheck.SetChecked(cal.Enabled)

	fpsCheck := widget.NewCheck("Show FPS", a.config.SetShowFPS)
	fpsCheck.SetChecked(a.config.GetShowFPS())

	content := container.NewVBox(focalInput, fpsInput, distanceCheck, fpsCheck)

	d := dialog.NewCustom("Settings", "Save", content, a.mainWin)
	d.SetOnClosed(func() {
		if err := a.config.SaveByDefault(); err != nil {
			a.ShowError(err)
		}
	})
	d.Resize(fyne.NewSize(360, 360))
	d.Show()
}
