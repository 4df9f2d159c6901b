// Package gocv provides the OpenCV DNN object detector backend. Building it
// requires OpenCV 4 with the dnn module available to cgo.
package gocv

import (
	"context"
	"fmt"
	"image"
	"sync"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/models"
)

// Name is the backend name used in configuration.
const Name = "gocv"

// inputSize is the square network input size of the yolov5s export.
var inputSize = image.Pt(640, 640)

func init() {
	models.RegisterDetector(Name, New)
}

// Detector runs a YOLO ONNX model through the OpenCV DNN module.
type Detector struct {
	mu     sync.Mutex
	net    gocv.Net
	cfg    models.DetectorConfig
	logger *zap.Logger
}

// New loads the network at cfg.Path.
func New(ctx context.Context, cfg models.DetectorConfig) (models.Detector, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	net := gocv.ReadNet(cfg.Path, "")
	if net.Empty() {
		return nil, fmt.Errorf("gocv: unable to read network %q", cfg.Path)
	}

	if cfg.Device == models.DeviceCUDA {
		_ = net.SetPreferableBackend(gocv.NetBackendCUDA)
		_ = net.SetPreferableTarget(gocv.NetTargetCUDA)
	} else {
		_ = net.SetPreferableBackend(gocv.NetBackendDefault)
		_ = net.SetPreferableTarget(gocv.NetTargetCPU)
	}

	if cfg.ScoreThreshold <= 0 {
		cfg.ScoreThreshold = 0.25
	}
	if cfg.NMSThreshold <= 0 {
		cfg.NMSThreshold = 0.45
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = models.CocoLabels
	}

	return &Detector{net: net, cfg: cfg, logger: logging.OrNop(cfg.Logger)}, nil
}

// Detect runs one forward pass and returns the boxes kept by non-max suppression.
func (d *Detector) Detect(img image.Image) ([]models.Detection, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("gocv: convert image: %w", err)
	}
	defer mat.Close()

	// the mat is already RGB, so channels are not swapped
	blob := gocv.BlobFromImage(mat, 1.0/255.0, inputSize, gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	d.mu.Unlock()
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("gocv: read output: %w", err)
	}

	bounds := img.Bounds()
	candidates, err := models.DecodeYOLO(data, output.Size(), models.YOLOInput{
		Size:  inputSize,
		Image: image.Pt(bounds.Dx(), bounds.Dy()),
	}, d.cfg.ScoreThreshold, d.cfg.Labels)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	boxes := make([]image.Rectangle, len(candidates))
	scores := make([]float32, len(candidates))
	for i, c := range candidates {
		boxes[i] = c.Box
		scores[i] = c.Score
	}

	keep := gocv.NMSBoxes(boxes, scores, d.cfg.ScoreThreshold, d.cfg.NMSThreshold)
	detections := make([]models.Detection, 0, len(keep))
	for _, i := range keep {
		detections = append(detections, candidates[i])
	}

	d.logger.Debug("frame detected", zap.Int("candidates", len(candidates)), zap.Int("kept", len(detections)))
	return detections, nil
}

// Close releases the network.
func (d *Detector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
