// Package transcribe turns phrase audio into text through a pluggable
// speech-to-text engine.
package transcribe

import (
	"context"
	"errors"
)

// ErrEngineUnavailable indicates that no real speech-to-text backend could be
// initialised.
var ErrEngineUnavailable = errors.New("transcribe: engine unavailable")

// Engine transcribes one phrase of mono float32 audio. Implementations must
// be safe for sequential reuse; the session loop never calls Transcribe
// concurrently.
type Engine interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error)
	Close() error
}
