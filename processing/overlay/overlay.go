// Package overlay draws detection boxes, labels, distances and the frame rate
// onto a copy of a frame.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vision/internal/models"
)

const (
	boxThickness = 2
	labelPadding = 3
)

var (
	fpsColor   = color.RGBA{0, 255, 0, 255}
	labelColor = color.RGBA{255, 255, 255, 255}
)

// Renderer annotates frames. A nil Calibration disables distance text.
type Renderer struct {
	Calibration *Calibration

	palette []color.RGBA
	face    font.Face
}

func NewRenderer(cal *Calibration) *Renderer {
	return &Renderer{
		Calibration: cal,
		palette:     Palette(len(models.CocoClasses)),
		face:        basicfont.Face7x13,
	}
}

// Palette spreads n hues evenly around the wheel.
func Palette(n int) []color.RGBA {
	out := make([]color.RGBA, n)
	for i := range out {
		c := colorful.Hsv(float64(i)*360/float64(n), 0.85, 0.95)
		r, g, b := c.RGB255()
		out[i] = color.RGBA{r, g, b, 255}
	}
	return out
}

func (r *Renderer) colorFor(classID int) color.RGBA {
	if classID < 0 || len(r.palette) == 0 {
		return color.RGBA{200, 200, 200, 255}
	}
	return r.palette[classID%len(r.palette)]
}

// Draw returns an annotated RGBA copy of frame.
func (r *Renderer) Draw(frame image.Image, dets models.Detections) *image.RGBA {
	b := frame.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, frame, b.Min, draw.Src)

	for i := 0; i < dets.Len(); i++ {
		det := dets.At(i)
		col := r.colorFor(det.ClassID)
		name := models.ClassName(det.ClassID)

		drawRect(out, det.Box, boxThickness, col)

		label := fmt.Sprintf("%s %d%%", name, int(det.Score*100))
		if r.Calibration != nil {
			if cm, ok := r.Calibration.Distance(name, det.Box.Dx()); ok {
				label += " " + FormatDistance(cm)
			}
		}
		r.drawLabel(out, label, det.Box.Min, col)
	}

	return out
}

// DrawFPS writes "FPS: N" near the top-left corner of img.
func (r *Renderer) DrawFPS(img *image.RGBA, fps float64) {
	b := img.Bounds()
	r.drawText(img, fmt.Sprintf("FPS: %d", int(fps)), image.Pt(b.Min.X+10, b.Min.Y+30), fpsColor)
}

func (r *Renderer) drawLabel(img *image.RGBA, label string, at image.Point, bg color.RGBA) {
	metrics := r.face.Metrics()
	textW := font.MeasureString(r.face, label).Ceil()
	textH := (metrics.Ascent + metrics.Descent).Ceil()

	box := image.Rect(at.X, at.Y-textH-2*labelPadding, at.X+textW+2*labelPadding, at.Y)
	if box.Min.Y < img.Bounds().Min.Y {
		box = box.Add(image.Pt(0, box.Dy()))
	}

	draw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(bg), image.Point{}, draw.Src)
	r.drawText(img, label, image.Pt(box.Min.X+labelPadding, box.Max.Y-labelPadding-metrics.Descent.Ceil()), labelColor)
}

func (r *Renderer) drawText(img *image.RGBA, text string, baseline image.Point, col color.Color) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: r.face,
		Dot:  fixed.P(baseline.X, baseline.Y),
	}
	d.DrawString(text)
}

func drawRect(img *image.RGBA, rect image.Rectangle, thickness int, col color.Color) {
	bounds := img.Bounds()

	setPixel := func(x, y int) {
		if (image.Point{x, y}).In(bounds) {
			img.Set(x, y, col)
		}
	}

	x1, y1 := rect.Min.X, rect.Min.Y
	x2, y2 := rect.Max.X-1, rect.Max.Y-1

	for t := 0; t < thickness; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(x, y1+t)
			setPixel(x, y2-t)
		}
		for y := y1; y <= y2; y++ {
			setPixel(x1+t, y)
			setPixel(x2-t, y)
		}
	}
}
