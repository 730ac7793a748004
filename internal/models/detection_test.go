package models

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectionsValidate(t *testing.T) {
	var d Detections
	d.Append(Detection{Box: image.Rect(0, 0, 10, 10), Score: 0.9, ClassID: 0})
	require.NoError(t, d.Validate())
	assert.Equal(t, 1, d.Len())

	d.Scores = append(d.Scores, 0.5)
	assert.Error(t, d.Validate())
}

func TestFromResults(t *testing.T) {
	results := []DetectionResult{
		{Label: "car", Confidence: 0.8, Box: []float32{0.1, 0.2, 0.5, 0.6}},
		{Label: "person", Confidence: 0.7, Box: []float32{0.1}},
		{Label: "unicorn", Confidence: 0.6, Box: []float32{0, 0, 1, 1}},
	}

	d := FromResults(results, image.Rect(0, 0, 200, 100))

	require.Equal(t, 2, d.Len())
	require.NoError(t, d.Validate())

	first := d.At(0)
	assert.Equal(t, image.Rect(40, 10, 120, 50), first.Box)
	assert.Equal(t, ClassID("car"), first.ClassID)
	assert.Equal(t, -1, d.At(1).ClassID)
}

func TestClassLookup(t *testing.T) {
	assert.Equal(t, 0, ClassID("person"))
	assert.Equal(t, "cell phone", ClassName(ClassID("cell phone")))
	assert.Equal(t, "unknown", ClassName(-1))
	assert.Equal(t, "unknown", ClassName(len(CocoClasses)))
}
