package media

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
)

// Frame is one image pulled from an input source. Still images carry only a
// Path; decoded video and live frames carry the pixels in Image.
type Frame struct {
	Index int
	Path  string
	Image image.Image
}

// Load returns the frame pixels, decoding Path on first use.
func (f *Frame) Load() (image.Image, error) {
	if f.Image != nil {
		return f.Image, nil
	}
	if f.Path == "" {
		return nil, fmt.Errorf("frame %d has neither pixels nor a path", f.Index)
	}

	file, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	f.Image = img
	return img, nil
}

// FrameSource yields frames lazily. Next returns io.EOF once the source is exhausted.
type FrameSource interface {
	Next() (Frame, error)
	Close() error
}

// Opener opens decoded frame sources.
type Opener interface {
	OpenVideo(ctx context.Context, path string) (FrameSource, error)
	OpenWebcam(ctx context.Context) (FrameSource, error)
}

type imageSource struct {
	path string
	done bool
}

// ImageSource returns a source that yields the still image at path once.
func ImageSource(path string) FrameSource {
	return &imageSource{path: path}
}

func (s *imageSource) Next() (Frame, error) {
	if s.done {
		return Frame{}, io.EOF
	}
	s.done = true
	return Frame{Index: 0, Path: s.path}, nil
}

func (s *imageSource) Close() error {
	s.done = true
	return nil
}

// Collect drains a source into a slice and closes it.
func Collect(src FrameSource) ([]Frame, error) {
	defer src.Close()

	var frames []Frame
	for {
		frame, err := src.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return frames, err
		}
		frames = append(frames, frame)
	}
}
