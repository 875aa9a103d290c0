package transcribe

import (
	"context"
	"fmt"
	"log/slog"
)

// StubEngine produces deterministic transcripts without any speech model.
// It keeps the pipeline usable on machines with no whisper toolchain.
type StubEngine struct {
	log     *slog.Logger
	phrases int
}

// NewStubEngine returns an Engine that generates placeholder transcripts.
func NewStubEngine(logger *slog.Logger) *StubEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &StubEngine{log: logger.With("component", "transcribe.stub")}
}

func (e *StubEngine) Transcribe(_ context.Context, samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	e.phrases++
	seconds := float64(len(samples)) / float64(sampleRate)
	e.log.Debug("stub transcript", "phrase", e.phrases, "seconds", seconds)
	return fmt.Sprintf("[stub] phrase %d (%.1fs of audio)", e.phrases, seconds), nil
}

func (e *StubEngine) Close() error { return nil }
