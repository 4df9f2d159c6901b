package media

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// rawReader splits an rgb24 byte stream into fixed-size frames.
type rawReader struct {
	r      io.Reader
	width  int
	height int
	buf    []byte
	index  int
}

func newRawReader(r io.Reader, width, height int) *rawReader {
	return &rawReader{
		r:      bufio.NewReaderSize(r, width*height*3),
		width:  width,
		height: height,
		buf:    make([]byte, width*height*3),
	}
}

// Next reads one full frame. A short trailing record ends the stream.
func (r *rawReader) Next() (Frame, error) {
	if _, err := io.ReadFull(r.r, r.buf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, err
	}

	frame := Frame{Index: r.index, Image: rgb24ToRGBA(r.buf, r.width, r.height)}
	r.index++
	return frame, nil
}

func rgb24ToRGBA(data []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i, j := 0, 0; i+2 < len(data) && j+3 < len(img.Pix); i, j = i+3, j+4 {
		img.Pix[j] = data[i]
		img.Pix[j+1] = data[i+1]
		img.Pix[j+2] = data[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}

// processSource streams frames from an ffmpeg child process writing rawvideo to stdout.
type processSource struct {
	parent context.Context
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdout io.ReadCloser
	stderr *bytes.Buffer
	reader *rawReader

	closeOnce sync.Once
	closeErr  error
}

func startProcessSource(parent context.Context, ffmpegPath string, args []string, width, height int) (*processSource, error) {
	ctx, cancel := context.WithCancel(parent)

	cmd := exec.CommandContext(ctx, ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	return &processSource{
		parent: parent,
		cmd:    cmd,
		cancel: cancel,
		stdout: stdout,
		stderr: &stderr,
		reader: newRawReader(stdout, width, height),
	}, nil
}

// Next returns the next frame. If the caller's context was cancelled, the
// killed process is reported as the context error rather than an ffmpeg failure.
func (s *processSource) Next() (Frame, error) {
	frame, err := s.reader.Next()
	if err == io.EOF {
		if waitErr := s.wait(); waitErr != nil {
			return Frame{}, waitErr
		}
		return Frame{}, io.EOF
	}
	return frame, err
}

func (s *processSource) wait() error {
	s.closeOnce.Do(func() {
		err := s.cmd.Wait()
		s.cancel()
		switch {
		case err == nil:
		case s.parent.Err() != nil:
			s.closeErr = s.parent.Err()
		default:
			s.closeErr = fmt.Errorf("ffmpeg error: %v, stderr: %s", err, tail(s.stderr.String()))
		}
	})
	return s.closeErr
}

// Close stops the child process and releases its pipes.
func (s *processSource) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		_ = s.stdout.Close()
		_ = s.cmd.Wait()
	})
	return nil
}

func tail(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, "\n")
}
