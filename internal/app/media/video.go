package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/logging"
	"github.com/AbbasKothari1552/StreamShield/internal/app/model"
)

// Options configures the ffmpeg based decoder.
type Options struct {
	FFmpegPath  string
	FFprobePath string
	// FrameRate is the desired sampling period in seconds. Zero selects every frame.
	FrameRate    int
	WebcamDevice int
	WebcamWidth  int
	WebcamHeight int
}

// Decoder opens video files and capture devices through ffmpeg.
type Decoder struct {
	opts   Options
	logger *zap.Logger
}

// NewDecoder creates a Decoder, filling unset options with defaults.
func NewDecoder(opts Options, logger *zap.Logger) *Decoder {
	if opts.FFmpegPath == "" {
		opts.FFmpegPath = "ffmpeg"
	}
	if opts.FFprobePath == "" {
		opts.FFprobePath = "ffprobe"
	}
	if opts.WebcamWidth <= 0 {
		opts.WebcamWidth = 640
	}
	if opts.WebcamHeight <= 0 {
		opts.WebcamHeight = 480
	}
	return &Decoder{opts: opts, logger: logging.OrNop(logger)}
}

// VideoSource is a frame source backed by a decoded video file.
type VideoSource struct {
	*processSource
	Width    int
	Height   int
	FPS      float64
	interval int
}

// Interval is the frame sampling interval derived from the stream FPS and the
// configured frame rate. Every frame is still yielded; consumers may sample.
func (v *VideoSource) Interval() int {
	return v.interval
}

// FrameInterval returns int(fps*frameRate), or 1 when frameRate is not positive.
func FrameInterval(fps float64, frameRate int) int {
	if frameRate <= 0 {
		return 1
	}
	interval := int(fps * float64(frameRate))
	if interval < 1 {
		return 1
	}
	return interval
}

// OpenVideo probes the file and starts decoding it to rgb24 frames.
func (d *Decoder) OpenVideo(ctx context.Context, path string) (FrameSource, error) {
	return d.openVideo(ctx, path)
}

func (d *Decoder) openVideo(ctx context.Context, path string) (*VideoSource, error) {
	stream, err := d.probeVideo(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrVideoOpen, path, err)
	}

	fps := stream.FPS()
	width, height := stream.DisplaySize()
	d.logger.Debug("opening video",
		zap.String("path", path),
		zap.Int("width", width),
		zap.Int("height", height),
		zap.Int("rotation", stream.Rotation()),
		zap.Float64("fps", fps))

	src, err := startProcessSource(ctx, d.opts.FFmpegPath, videoArgs(path, width, height), width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrVideoOpen, path, err)
	}

	return &VideoSource{
		processSource: src,
		Width:         width,
		Height:        height,
		FPS:           fps,
		interval:      FrameInterval(fps, d.opts.FrameRate),
	}, nil
}

func (d *Decoder) probeVideo(ctx context.Context, path string) (model.FFProbeStream, error) {
	cmd := exec.CommandContext(ctx, d.opts.FFprobePath, "-v", "quiet", "-print_format", "json", "-show_streams", "-select_streams", "v:0", path)
	output, err := cmd.Output()
	if err != nil {
		return model.FFProbeStream{}, err
	}
	return parseVideoProbe(output)
}

func parseVideoProbe(output []byte) (model.FFProbeStream, error) {
	var probeOutput model.FFProbeOutput
	if err := json.Unmarshal(output, &probeOutput); err != nil {
		return model.FFProbeStream{}, err
	}

	stream, ok := probeOutput.FirstStream("video")
	if !ok {
		return model.FFProbeStream{}, fmt.Errorf("no video stream")
	}
	if stream.Width <= 0 || stream.Height <= 0 {
		return model.FFProbeStream{}, fmt.Errorf("invalid frame size %dx%d", stream.Width, stream.Height)
	}
	return stream, nil
}

// videoArgs decodes path to rgb24 at exactly width x height, after ffmpeg's
// automatic rotation.
func videoArgs(path string, width, height int) []string {
	return []string{
		"-v", "error",
		"-i", path,
		"-vf", "scale=" + strconv.Itoa(width) + ":" + strconv.Itoa(height),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	}
}

// OpenWebcam starts capturing from the configured device.
func (d *Decoder) OpenWebcam(ctx context.Context) (FrameSource, error) {
	width, height := d.opts.WebcamWidth, d.opts.WebcamHeight
	args := webcamArgs(runtime.GOOS, d.opts.WebcamDevice, width, height)

	d.logger.Info("opening webcam", zap.Int("device", d.opts.WebcamDevice), zap.Strings("args", args))

	src, err := startProcessSource(ctx, d.opts.FFmpegPath, args, width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: webcam %d: %v", apperrors.ErrInputNotFound, d.opts.WebcamDevice, err)
	}
	return src, nil
}

func webcamArgs(goos string, device, width, height int) []string {
	size := strconv.Itoa(width) + "x" + strconv.Itoa(height)

	var input []string
	switch goos {
	case "darwin":
		input = []string{"-f", "avfoundation", "-framerate", "30", "-video_size", size, "-i", strconv.Itoa(device) + ":none"}
	case "windows":
		input = []string{"-f", "dshow", "-video_size", size, "-i", "video=" + strconv.Itoa(device)}
	default:
		input = []string{"-f", "v4l2", "-video_size", size, "-i", "/dev/video" + strconv.Itoa(device)}
	}

	args := append([]string{"-v", "error"}, input...)
	return append(args,
		"-vf", "scale="+strconv.Itoa(width)+":"+strconv.Itoa(height),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-")
}
