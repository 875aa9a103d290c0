package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"sync"
)

// Capture runs a backend's recorder process and slices its s16le output into
// fixed-duration float32 chunks.
type Capture struct {
	backend Backend
	device  Device
	format  Format
	log     *slog.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	cancel context.CancelFunc
	chunks chan []float32
	done   chan struct{}
	err    error
}

// NewCapture builds a capture source; Start launches the recorder.
func NewCapture(backend Backend, device Device, format Format, logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.Default()
	}
	return &Capture{
		backend: backend,
		device:  device,
		format:  format,
		log:     logger.With("component", "audio.Capture", "backend", backend.Name()),
	}
}

// Start launches the recorder process and begins buffering chunks.
func (c *Capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cmd != nil {
		return fmt.Errorf("audio: capture already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	cmd := c.backend.RecordCommand(runCtx, c.device, c.format)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("audio: recorder stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("audio: start recorder: %w", err)
	}

	c.cmd = cmd
	c.cancel = cancel
	// A little backlog so slow transcription does not drop audio.
	c.chunks = make(chan []float32, 64)
	c.done = make(chan struct{})
	c.log.Info("capture started", "device", c.device.Name, "sample_rate", c.format.SampleRate)

	go c.readLoop(stdout)
	return nil
}

func (c *Capture) readLoop(r io.Reader) {
	defer close(c.done)
	chunkBytes := c.format.ChunkSamples() * 2
	buf := make([]byte, chunkBytes)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err != io.EOF && err != io.ErrUnexpectedEOF {
				c.mu.Lock()
				c.err = fmt.Errorf("audio: read recorder output: %w", err)
				c.mu.Unlock()
			}
			close(c.chunks)
			return
		}
		chunk := decodePCM16(buf)
		select {
		case c.chunks <- chunk:
		default:
			// Consumer fell behind the bounded backlog; drop the oldest
			// chunk so the stream stays near real time.
			select {
			case <-c.chunks:
			default:
			}
			c.chunks <- chunk
		}
	}
}

// Poll returns the next buffered chunk, ErrNotReady when none has arrived,
// and io.EOF once the recorder has exited.
func (c *Capture) Poll() ([]float32, error) {
	c.mu.Lock()
	chunks := c.chunks
	c.mu.Unlock()
	if chunks == nil {
		return nil, fmt.Errorf("audio: capture not started")
	}
	select {
	case chunk, ok := <-chunks:
		if !ok {
			// readLoop records the failure before closing the channel, so
			// the error must be read after the close is observed.
			c.mu.Lock()
			err := c.err
			c.mu.Unlock()
			if err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return chunk, nil
	default:
		return nil, ErrNotReady
	}
}

// Stop terminates the recorder process and waits for it to exit. Safe to
// call more than once.
func (c *Capture) Stop() error {
	c.mu.Lock()
	cmd := c.cmd
	cancel := c.cancel
	done := c.done
	c.cmd = nil
	c.cancel = nil
	c.mu.Unlock()
	if cmd == nil {
		return nil
	}
	cancel()
	<-done
	// CommandContext already killed the process; Wait reaps it. The kill
	// shows up as an exit error, which is expected here.
	_ = cmd.Wait()
	c.log.Info("capture stopped")
	return nil
}

// decodePCM16 converts little-endian signed 16-bit samples to float32 in
// [-1, 1).
func decodePCM16(raw []byte) []float32 {
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(v) / 32768.0
	}
	return samples
}
