package models

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeYOLO_V5(t *testing.T) {
	// 8 candidates, 2 classes: [cx, cy, w, h, obj, c0, c1]; the last 5 are empty
	data := []float32{
		320, 320, 100, 200, 0.9, 0.1, 0.8, // class 1, score 0.72
		100, 100, 50, 50, 0.1, 0.9, 0.1, // low objectness
		600, 600, 100, 100, 0.8, 0.9, 0.2, // class 0, clipped at the bottom-right
	}
	data = append(data, make([]float32, 5*7)...)
	input := YOLOInput{Size: image.Pt(640, 640), Image: image.Pt(1280, 640)}

	detections, err := DecodeYOLO(data, []int{1, 8, 7}, input, 0.25, []string{"person", "laptop"})
	require.NoError(t, err)
	require.Len(t, detections, 2)

	assert.Equal(t, 1, detections[0].Class)
	assert.Equal(t, "laptop", detections[0].Label)
	assert.InDelta(t, 0.72, detections[0].Score, 1e-5)
	assert.Equal(t, image.Rect(540, 220, 740, 420), detections[0].Box)

	assert.Equal(t, "person", detections[1].Label)
	assert.Equal(t, image.Rect(1100, 550, 1280, 640), detections[1].Box)
}

func TestDecodeYOLO_V8(t *testing.T) {
	// 4+2 channels, 8 candidates, channel-major
	n := 8
	data := make([]float32, 6*n)
	set := func(c, i int, v float32) { data[c*n+i] = v }

	set(0, 2, 64)
	set(1, 2, 64)
	set(2, 2, 32)
	set(3, 2, 32)
	set(5, 2, 0.6)

	set(4, 5, 0.2) // below threshold

	input := YOLOInput{Size: image.Pt(128, 128), Image: image.Pt(128, 128)}
	detections, err := DecodeYOLO(data, []int{1, 6, n}, input, 0.25, nil)
	require.NoError(t, err)
	require.Len(t, detections, 1)

	assert.Equal(t, 1, detections[0].Class)
	assert.Equal(t, "class_1", detections[0].Label)
	assert.InDelta(t, 0.6, detections[0].Score, 1e-6)
	assert.Equal(t, image.Rect(48, 48, 80, 80), detections[0].Box)
}

func TestDecodeYOLO_Errors(t *testing.T) {
	input := YOLOInput{Size: image.Pt(640, 640), Image: image.Pt(640, 640)}

	_, err := DecodeYOLO(make([]float32, 10), []int{10}, input, 0.25, nil)
	assert.Error(t, err)

	_, err = DecodeYOLO(make([]float32, 10), []int{1, 2, 7}, input, 0.25, nil)
	assert.Error(t, err)

	_, err = DecodeYOLO(make([]float32, 14), []int{1, 2, 7}, YOLOInput{}, 0.25, nil)
	assert.Error(t, err)

	_, err = DecodeYOLO(make([]float32, 40), []int{1, 10, 4}, input, 0.25, nil)
	assert.Error(t, err)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "person", Label(0, CocoLabels))
	assert.Equal(t, "toothbrush", Label(79, CocoLabels))
	assert.Equal(t, "class_80", Label(80, CocoLabels))
	assert.Equal(t, "class_-1", Label(-1, CocoLabels))
	assert.Len(t, CocoLabels, 80)
}
