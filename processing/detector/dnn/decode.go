package dnn

import (
	"image"

	"vision/internal/models"
)

type scaleFactors struct {
	x, y float32
}

// decode reads a YOLOv8 style output of shape [attrs, n] where the first four
// attributes are cx, cy, w, h in input pixels and the rest are class scores.
// Candidates below conf are dropped; no suppression happens here.
func decode(data []float32, attrs, n int, conf float32, scale scaleFactors) models.Detections {
	var out models.Detections

	if attrs <= 4 || len(data) < attrs*n {
		return out
	}

	at := func(attr, i int) float32 { return data[attr*n+i] }

	for i := 0; i < n; i++ {
		classID := -1
		var best float32
		for c := 4; c < attrs; c++ {
			if s := at(c, i); s > best {
				best = s
				classID = c - 4
			}
		}
		if classID < 0 || best < conf {
			continue
		}

		cx, cy := at(0, i)*scale.x, at(1, i)*scale.y
		w, h := at(2, i)*scale.x, at(3, i)*scale.y

		out.Append(models.Detection{
			Box:     image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)),
			Score:   best,
			ClassID: classID,
		})
	}

	return out
}
