package audio

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// Backend knows how to capture PCM audio on one platform by driving an
// external recorder process that writes s16le samples to stdout.
type Backend interface {
	Name() string
	Available() bool
	ListDevices(ctx context.Context) ([]Device, error)
	// RecordCommand builds the recorder process for a device. An empty
	// device ID selects the system default input.
	RecordCommand(ctx context.Context, device Device, format Format) *exec.Cmd
}

// Detect picks the first usable backend for the current platform.
func Detect() (Backend, error) {
	var candidates []Backend
	switch runtime.GOOS {
	case "darwin":
		candidates = []Backend{newSoxBackend(), newFFmpegBackend()}
	case "windows":
		candidates = []Backend{newFFmpegBackend(), newSoxBackend()}
	default:
		candidates = []Backend{newPulseBackend(), newFFmpegBackend(), newSoxBackend()}
	}
	for _, backend := range candidates {
		if backend.Available() {
			return backend, nil
		}
	}
	return nil, fmt.Errorf("audio: no capture backend found for %s (install pulseaudio-utils, sox, or ffmpeg)", runtime.GOOS)
}

func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
