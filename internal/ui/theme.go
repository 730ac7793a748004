package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"github.com/lucasb-eyer/go-colorful"

	"vision/internal/models"
)

const (
	bgHex            = "#212121"
	frameHex         = "#2c3e50"
	buttonHex        = "#3498db"
	buttonHoverHex   = "#5dade2"
	textHex          = "#ecf0f1"
	titleHex         = "#ffffff"
	statusSuccessHex = "#2ecc71"
	statusErrorHex   = "#e74c3c"
)

var (
	BgColor            = mustHex(bgHex)
	FrameColor         = mustHex(frameHex)
	ButtonColor        = mustHex(buttonHex)
	ButtonHoverColor   = mustHex(buttonHoverHex)
	TextColor          = mustHex(textHex)
	TitleColor         = mustHex(titleHex)
	StatusSuccessColor = mustHex(statusSuccessHex)
	StatusErrorColor   = mustHex(statusErrorHex)
)

func mustHex(s string) color.NRGBA {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}
}

// StatusColor maps a status level to the strip background.
func StatusColor(level models.StatusLevel) color.Color {
	switch level {
	case models.StatusBusy:
		return ButtonColor
	case models.StatusError:
		return StatusErrorColor
	default:
		return StatusSuccessColor
	}
}

type detectTheme struct{}

var _ fyne.Theme = detectTheme{}

func (detectTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return BgColor
	case theme.ColorNameButton, theme.ColorNamePrimary:
		return ButtonColor
	case theme.ColorNameHover:
		return ButtonHoverColor
	case theme.ColorNameForeground:
		return TextColor
	case theme.ColorNameInputBackground, theme.ColorNameOverlayBackground, theme.ColorNameMenuBackground:
		return FrameColor
	}
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}

func (detectTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (detectTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (detectTheme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
