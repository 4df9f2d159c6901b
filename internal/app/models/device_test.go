package models

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notFound(string) (string, error) { return "", errors.New("not found") }
func found(string) (string, error) { return "/usr/bin/nvidia-smi", nil }
func noStat(string) (os.FileInfo, error) { return nil, os.ErrNotExist }
func okStat(string) (os.FileInfo, error) { return nil, nil }

func TestParseDevice(t *testing.T) {
	d, err := ParseDevice("CUDA")
	require.NoError(t, err)
	assert.Equal(t, DeviceCUDA, d)

	d, err = ParseDevice(" cpu ")
	require.NoError(t, err)
	assert.Equal(t, DeviceCPU, d)

	_, err = ParseDevice("tpu")
	assert.EqualError(t, err, `device is invalid: "tpu" is not cuda or cpu`)
}

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		name     string
		override string
		lookPath func(string) (string, error)
		stat     func(string) (os.FileInfo, error)
		want     Device
	}{
		{name: "override cpu wins", override: "cpu", lookPath: found, stat: okStat, want: DeviceCPU},
		{name: "override cuda", override: "cuda", lookPath: notFound, stat: noStat, want: DeviceCUDA},
		{name: "nvidia-smi on path", lookPath: found, stat: noStat, want: DeviceCUDA},
		{name: "device node", lookPath: notFound, stat: okStat, want: DeviceCUDA},
		{name: "nothing visible", lookPath: notFound, stat: noStat, want: DeviceCPU},
		{name: "invalid override ignored", override: "gpu", lookPath: notFound, stat: noStat, want: DeviceCPU},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectDevice(tt.override, tt.lookPath, tt.stat))
		})
	}
}

func TestDetectDevice_EnvOverride(t *testing.T) {
	t.Setenv(DeviceEnvVar, "cpu")
	assert.Equal(t, DeviceCPU, DetectDevice())
}
