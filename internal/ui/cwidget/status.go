package cwidget

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// StatusBar is a full-width coloured strip with one line of text.
type StatusBar struct {
	widget.BaseWidget

	background *canvas.Rectangle
	text       *canvas.Text
}

func NewStatusBar(text string, bg, fg color.Color) *StatusBar {
	bar := &StatusBar{
		background: canvas.NewRectangle(bg),
		text:       canvas.NewText(text, fg),
	}
	bar.text.TextSize = 13

	bar.ExtendBaseWidget(bar)

	return bar
}

func (bar *StatusBar) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewStack(
		bar.background,
		container.NewPadded(bar.text),
	)

	return widget.NewSimpleRenderer(c)
}

// SetStatus must be called on the fyne thread.
func (bar *StatusBar) SetStatus(text string, bg color.Color) {
	bar.text.Text = text
	bar.background.FillColor = bg
	bar.text.Refresh()
	bar.background.Refresh()
}

func (bar *StatusBar) Text() string {
	return bar.text.Text
}
