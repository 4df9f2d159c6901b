package models

import (
	"fmt"
	"image"
	"strconv"
)

// CocoLabels are the 80 class names of the COCO dataset the default yolov5s
// weights were trained on.
var CocoLabels = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat",
	"traffic light", "fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat",
	"dog", "horse", "sheep", "cow", "elephant", "bear", "zebra", "giraffe", "backpack",
	"umbrella", "handbag", "tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball",
	"kite", "baseball bat", "baseball glove", "skateboard", "surfboard", "tennis racket",
	"bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair",
	"couch", "potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse",
	"remote", "keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear", "hair drier",
	"toothbrush",
}

// YOLOInput describes how a frame was fed to the network.
type YOLOInput struct {
	// Size is the network input size, e.g. 640x640.
	Size image.Point
	// Image is the original frame size boxes are mapped back to.
	Image image.Point
}

// DecodeYOLO turns a raw YOLO output tensor into detections above
// scoreThreshold. It accepts the v5 layout [1, N, 5+C] (box, objectness,
// class scores) and the v8 layout [1, 4+C, N] (box, class scores).
// Boxes are centre/size in network input pixels and are returned in
// original image pixels, clipped to the image.
func DecodeYOLO(data []float32, shape []int, input YOLOInput, scoreThreshold float32, labels []string) ([]Detection, error) {
	if len(shape) != 3 || shape[0] != 1 {
		return nil, fmt.Errorf("unexpected YOLO output shape %v", shape)
	}
	if input.Size.X <= 0 || input.Size.Y <= 0 || input.Image.X <= 0 || input.Image.Y <= 0 {
		return nil, fmt.Errorf("invalid YOLO input sizes %v -> %v", input.Size, input.Image)
	}
	if len(data) < shape[1]*shape[2] {
		return nil, fmt.Errorf("YOLO output has %d values, shape %v needs %d", len(data), shape, shape[1]*shape[2])
	}

	if shape[1] < shape[2] {
		return decodeV8(data, shape[1], shape[2], input, scoreThreshold, labels)
	}
	return decodeV5(data, shape[1], shape[2], input, scoreThreshold, labels)
}

func decodeV5(data []float32, rows, width int, input YOLOInput, threshold float32, labels []string) ([]Detection, error) {
	if width < 6 {
		return nil, fmt.Errorf("YOLOv5 row width %d too small", width)
	}

	var detections []Detection
	for i := 0; i < rows; i++ {
		row := data[i*width : (i+1)*width]
		objectness := row[4]
		if objectness < threshold {
			continue
		}
		class, classScore := argmax(row[5:])
		score := objectness * classScore
		if score < threshold {
			continue
		}
		detections = append(detections, newDetection(class, score, row[0], row[1], row[2], row[3], input, labels))
	}
	return detections, nil
}

func decodeV8(data []float32, channels, n int, input YOLOInput, threshold float32, labels []string) ([]Detection, error) {
	if channels < 5 {
		return nil, fmt.Errorf("YOLOv8 channel count %d too small", channels)
	}

	at := func(c, i int) float32 { return data[c*n+i] }

	var detections []Detection
	scores := make([]float32, channels-4)
	for i := 0; i < n; i++ {
		for c := range scores {
			scores[c] = at(c+4, i)
		}
		class, score := argmax(scores)
		if score < threshold {
			continue
		}
		detections = append(detections, newDetection(class, score, at(0, i), at(1, i), at(2, i), at(3, i), input, labels))
	}
	return detections, nil
}

func newDetection(class int, score, cx, cy, w, h float32, input YOLOInput, labels []string) Detection {
	sx := float32(input.Image.X) / float32(input.Size.X)
	sy := float32(input.Image.Y) / float32(input.Size.Y)

	box := image.Rect(
		int((cx-w/2)*sx),
		int((cy-h/2)*sy),
		int((cx+w/2)*sx),
		int((cy+h/2)*sy),
	).Intersect(image.Rect(0, 0, input.Image.X, input.Image.Y))

	return Detection{Class: class, Label: Label(class, labels), Score: score, Box: box}
}

// Label returns the class name, or class_<n> when labels does not cover it.
func Label(class int, labels []string) string {
	if class >= 0 && class < len(labels) {
		return labels[class]
	}
	return "class_" + strconv.Itoa(class)
}

func argmax(values []float32) (int, float32) {
	best, bestScore := 0, values[0]
	for i, v := range values[1:] {
		if v > bestScore {
			best, bestScore = i+1, v
		}
	}
	return best, bestScore
}
