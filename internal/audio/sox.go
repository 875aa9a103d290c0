package audio

import (
	"context"
	"os/exec"
	"strconv"
)

// soxBackend records through sox's rec frontend, which talks to coreaudio on
// macOS and ALSA elsewhere. Device selection goes through the AUDIODEV
// environment variable, the only mechanism sox offers.
type soxBackend struct{}

func newSoxBackend() *soxBackend { return &soxBackend{} }

func (*soxBackend) Name() string { return "sox" }

func (*soxBackend) Available() bool {
	return commandExists("sox")
}

func (*soxBackend) ListDevices(context.Context) ([]Device, error) {
	// sox cannot enumerate devices; expose the default input only.
	return []Device{{ID: "", Name: "default input"}}, nil
}

func (*soxBackend) RecordCommand(ctx context.Context, device Device, format Format) *exec.Cmd {
	args := []string{
		"-q",
		"-d",
		"-t", "raw",
		"-b", "16",
		"-e", "signed-integer",
		"-L",
		"-r", strconv.Itoa(format.SampleRate),
		"-c", strconv.Itoa(format.Channels),
		"-",
	}
	cmd := exec.CommandContext(ctx, "sox", args...)
	if device.ID != "" {
		cmd.Env = append(cmd.Environ(), "AUDIODEV="+device.ID)
	}
	return cmd
}
