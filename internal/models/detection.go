package models

import (
	"fmt"
	"image"
)

// DetectionResult is the wire shape returned by the remote detection service.
// Box holds normalised [y1, x1, y2, x2] coordinates.
type DetectionResult struct {
	Label      string    `json:"label"`
	Confidence float32   `json:"confidence"`
	Box        []float32 `json:"box"`
}

// Detection is a single box of a Detections set.
type Detection struct {
	Box     image.Rectangle
	Score   float32
	ClassID int
}

// Detections holds the per-frame output of a detector as index-aligned slices.
type Detections struct {
	Boxes    []image.Rectangle
	Scores   []float32
	ClassIDs []int
}

func (d Detections) Len() int {
	return len(d.Boxes)
}

func (d Detections) At(i int) Detection {
	return Detection{Box: d.Boxes[i], Score: d.Scores[i], ClassID: d.ClassIDs[i]}
}

func (d *Detections) Append(det Detection) {
	d.Boxes = append(d.Boxes, det.Box)
	d.Scores = append(d.Scores, det.Score)
	d.ClassIDs = append(d.ClassIDs, det.ClassID)
}

// Validate reports an error when the three slices disagree in length.
func (d Detections) Validate() error {
	if len(d.Scores) != len(d.Boxes) || len(d.ClassIDs) != len(d.Boxes) {
		return fmt.Errorf("misaligned detections: %d boxes, %d scores, %d class ids",
			len(d.Boxes), len(d.Scores), len(d.ClassIDs))
	}
	return nil
}

// FromResults converts normalised service results into pixel-space detections
// for a frame of the given bounds. Results with a malformed box are skipped.
func FromResults(results []DetectionResult, bounds image.Rectangle) Detections {
	var out Detections

	w := float32(bounds.Dx())
	h := float32(bounds.Dy())

	for _, res := range results {
		if len(res.Box) != 4 {
			continue
		}

		y1 := bounds.Min.Y + int(res.Box[0]*h)
		x1 := bounds.Min.X + int(res.Box[1]*w)
		y2 := bounds.Min.Y + int(res.Box[2]*h)
		x2 := bounds.Min.X + int(res.Box[3]*w)

		out.Append(Detection{
			Box:     image.Rect(x1, y1, x2, y2),
			Score:   res.Confidence,
			ClassID: ClassID(res.Label),
		})
	}

	return out
}
