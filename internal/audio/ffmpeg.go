package audio

import (
	"context"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

// ffmpegBackend captures via ffmpeg's platform input devices: avfoundation
// on macOS, dshow on Windows, pulse elsewhere.
type ffmpegBackend struct{}

func newFFmpegBackend() *ffmpegBackend { return &ffmpegBackend{} }

func (*ffmpegBackend) Name() string { return "ffmpeg" }

func (*ffmpegBackend) Available() bool {
	return commandExists("ffmpeg")
}

func (*ffmpegBackend) ListDevices(ctx context.Context) ([]Device, error) {
	switch runtime.GOOS {
	case "darwin":
		out, _ := exec.CommandContext(ctx, "ffmpeg", "-hide_banner",
			"-f", "avfoundation", "-list_devices", "true", "-i", "").CombinedOutput()
		return parseAVFoundationDevices(string(out)), nil
	case "windows":
		out, _ := exec.CommandContext(ctx, "ffmpeg", "-hide_banner",
			"-f", "dshow", "-list_devices", "true", "-i", "dummy").CombinedOutput()
		return parseDshowDevices(string(out)), nil
	default:
		return []Device{{ID: "default", Name: "default input"}}, nil
	}
}

func (*ffmpegBackend) RecordCommand(ctx context.Context, device Device, format Format) *exec.Cmd {
	var input []string
	switch runtime.GOOS {
	case "darwin":
		id := device.ID
		if id == "" {
			id = "default"
		}
		input = []string{"-f", "avfoundation", "-i", ":" + id}
	case "windows":
		name := device.Name
		if name == "" {
			name = "default"
		}
		input = []string{"-f", "dshow", "-i", "audio=" + name}
	default:
		id := device.ID
		if id == "" {
			id = "default"
		}
		input = []string{"-f", "pulse", "-i", id}
	}
	args := append([]string{"-hide_banner", "-loglevel", "error"}, input...)
	args = append(args,
		"-ar", strconv.Itoa(format.SampleRate),
		"-ac", strconv.Itoa(format.Channels),
		"-f", "s16le",
		"-",
	)
	return exec.CommandContext(ctx, "ffmpeg", args...)
}

// avfoundation prints devices on stderr as "[N] Device Name" lines under an
// "AVFoundation audio devices" heading.
var avfoundationDevice = regexp.MustCompile(`\[(\d+)\]\s+(.+)$`)

func parseAVFoundationDevices(out string) []Device {
	var devices []Device
	inAudio := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "AVFoundation audio devices") {
			inAudio = true
			continue
		}
		if strings.Contains(line, "AVFoundation video devices") {
			inAudio = false
			continue
		}
		if !inAudio {
			continue
		}
		match := avfoundationDevice.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			continue
		}
		name := strings.TrimSpace(match[2])
		devices = append(devices, Device{ID: match[1], Name: name, Loopback: IsLoopbackName(name)})
	}
	return devices
}

var dshowDevice = regexp.MustCompile(`"([^"]+)"\s*\((audio)\)`)

func parseDshowDevices(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		match := dshowDevice.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		name := match[1]
		devices = append(devices, Device{ID: name, Name: name, Loopback: IsLoopbackName(name)})
	}
	return devices
}
