// Package audio captures microphone and loopback input as fixed-duration
// chunks of float32 samples.
package audio

import (
	"context"
	"errors"
	"time"
)

// ErrNotReady is returned by Poll when no complete chunk has arrived yet.
var ErrNotReady = errors.New("audio: no chunk ready")

// Format describes the sample stream a source produces.
type Format struct {
	SampleRate    int
	Channels      int
	ChunkDuration time.Duration
}

// ChunkSamples returns the number of samples in one chunk.
func (f Format) ChunkSamples() int {
	return int(float64(f.SampleRate*f.Channels) * f.ChunkDuration.Seconds())
}

// Source delivers audio one chunk at a time. Poll never blocks: it returns
// ErrNotReady until a full chunk has been captured, and io.EOF once the
// stream is exhausted.
type Source interface {
	Start(ctx context.Context) error
	Poll() ([]float32, error)
	Stop() error
}
