package model

import (
	"fmt"
	"strconv"
	"strings"
)

// FFProbeOutput is the subset of `ffprobe -print_format json -show_streams` we read.
type FFProbeOutput struct {
	Streams []FFProbeStream `json:"streams"`
}

// FFProbeStream describes one stream of a media file.
type FFProbeStream struct {
	CodecType    string `json:"codec_type"`
	CodecName    string `json:"codec_name"`
	SampleRate   int    `json:"sample_rate,string"`
	Channels     int    `json:"channels"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	AvgFrameRate string `json:"avg_frame_rate"`
	RFrameRate   string `json:"r_frame_rate"`

	Tags         map[string]string `json:"tags,omitempty"`
	SideDataList []FFProbeSideData `json:"side_data_list,omitempty"`
}

// FFProbeSideData is one side data entry; display matrices carry a rotation.
type FFProbeSideData struct {
	SideDataType string `json:"side_data_type"`
	Rotation     int    `json:"rotation"`
}

// Rotation returns the clockwise display rotation in degrees, in [0, 360).
// The display matrix wins over the legacy rotate tag.
func (s FFProbeStream) Rotation() int {
	degrees := 0
	if tag, ok := s.Tags["rotate"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(tag)); err == nil {
			degrees = n
		}
	}
	for _, sd := range s.SideDataList {
		if sd.Rotation != 0 {
			// display matrix rotation is counter-clockwise
			degrees = -sd.Rotation
			break
		}
	}
	return ((degrees % 360) + 360) % 360
}

// DisplaySize returns the frame size after rotation, which is what ffmpeg
// outputs when it auto-rotates.
func (s FFProbeStream) DisplaySize() (int, int) {
	switch s.Rotation() {
	case 90, 270:
		return s.Height, s.Width
	}
	return s.Width, s.Height
}

// FirstStream returns the first stream of the given codec type.
func (o FFProbeOutput) FirstStream(codecType string) (FFProbeStream, bool) {
	for _, stream := range o.Streams {
		if stream.CodecType == codecType {
			return stream, true
		}
	}
	return FFProbeStream{}, false
}

// FPS returns the stream frame rate, preferring the average rate.
func (s FFProbeStream) FPS() float64 {
	for _, rate := range []string{s.AvgFrameRate, s.RFrameRate} {
		if fps, err := ParseFrameRate(rate); err == nil && fps > 0 {
			return fps
		}
	}
	return 0
}

// ParseFrameRate parses ffprobe rationals such as "30000/1001" or "25".
func ParseFrameRate(rate string) (float64, error) {
	rate = strings.TrimSpace(rate)
	num, den, found := strings.Cut(rate, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", rate, err)
	}
	if !found {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q: %w", rate, err)
	}
	if d == 0 {
		return 0, fmt.Errorf("invalid frame rate %q: zero denominator", rate)
	}
	return n / d, nil
}
