package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// pulseBackend captures through parec and enumerates sources with pactl.
// It covers both PulseAudio and PipeWire's pulse compatibility layer.
type pulseBackend struct{}

func newPulseBackend() *pulseBackend { return &pulseBackend{} }

func (*pulseBackend) Name() string { return "pulse" }

func (*pulseBackend) Available() bool {
	return commandExists("parec") && commandExists("pactl")
}

func (*pulseBackend) ListDevices(ctx context.Context) ([]Device, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "short", "sources").Output()
	if err != nil {
		return nil, fmt.Errorf("audio: pactl list sources: %w", err)
	}
	return parsePactlSources(string(out)), nil
}

func (*pulseBackend) RecordCommand(ctx context.Context, device Device, format Format) *exec.Cmd {
	args := []string{
		"--format=s16le",
		"--rate=" + strconv.Itoa(format.SampleRate),
		"--channels=" + strconv.Itoa(format.Channels),
		"--raw",
	}
	if device.ID != "" {
		args = append(args, "--device="+device.ID)
	}
	return exec.CommandContext(ctx, "parec", args...)
}

// parsePactlSources reads `pactl list short sources` output. Each line is
// tab-separated: index, name, driver, sample spec, state. Monitor sources
// double as loopback devices.
func parsePactlSources(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(strings.TrimRight(line, "\r"), "\t")
		if len(fields) < 2 || strings.TrimSpace(fields[0]) == "" {
			continue
		}
		name := fields[1]
		devices = append(devices, Device{
			ID:       name,
			Name:     name,
			Loopback: IsLoopbackName(name) || strings.HasSuffix(name, ".monitor"),
		})
	}
	return devices
}
