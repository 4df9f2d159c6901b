package models

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
)

// Device is the compute device models run on
type Device string

const (
	DeviceCUDA Device = "cuda"
	DeviceCPU  Device = "cpu"
)

// DeviceEnvVar forces the device when set to cuda or cpu.
const DeviceEnvVar = "STREAMSHIELD_DEVICE"

// ParseDevice parses "cuda" or "cpu", case-insensitively.
func ParseDevice(s string) (Device, error) {
	switch Device(strings.ToLower(strings.TrimSpace(s))) {
	case DeviceCUDA:
		return DeviceCUDA, nil
	case DeviceCPU:
		return DeviceCPU, nil
	}
	return "", apperrors.InvalidField("device", fmt.Sprintf("%q is not cuda or cpu", s))
}

// DetectDevice returns cuda when a CUDA device is visible, else cpu.
func DetectDevice() Device {
	return detectDevice(os.Getenv(DeviceEnvVar), exec.LookPath, os.Stat)
}

func detectDevice(override string, lookPath func(string) (string, error), stat func(string) (os.FileInfo, error)) Device {
	if device, err := ParseDevice(override); err == nil {
		return device
	}
	if _, err := lookPath("nvidia-smi"); err == nil {
		return DeviceCUDA
	}
	if _, err := stat("/dev/nvidia0"); err == nil {
		return DeviceCUDA
	}
	return DeviceCPU
}
