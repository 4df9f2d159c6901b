package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// ReadPCM decodes a PCM WAV file into float32 samples in [-1, 1], mixing
// multi-channel audio down to mono. It returns the samples and the sample rate.
func ReadPCM(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid wav file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("decode wav %s: %w", path, err)
	}

	channels := int(decoder.NumChans)
	if channels < 1 {
		channels = 1
	}
	bitDepth := int(decoder.BitDepth)
	if bitDepth < 1 {
		bitDepth = 16
	}
	scale := float32(int64(1) << uint(bitDepth-1))

	samples := make([]float32, len(buf.Data)/channels)
	for i := range samples {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += float32(buf.Data[i*channels+c]) / scale
		}
		samples[i] = sum / float32(channels)
	}

	return samples, int(decoder.SampleRate), nil
}
