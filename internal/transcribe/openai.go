package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEngine transcribes phrases through the hosted Whisper API instead of
// a local model.
type OpenAIEngine struct {
	client   *openai.Client
	language string
	log      *slog.Logger
}

// NewOpenAIEngine builds the hosted engine. The API key must be non-empty.
func NewOpenAIEngine(apiKey, language string, logger *slog.Logger) (*OpenAIEngine, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("transcribe: openai engine needs an API key: %w", ErrEngineUnavailable)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OpenAIEngine{
		client:   openai.NewClient(apiKey),
		language: language,
		log:      logger.With("component", "transcribe.openai"),
	}, nil
}

func (e *OpenAIEngine) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	var wav bytes.Buffer
	if err := writeWAV(&wav, samples, sampleRate); err != nil {
		return "", err
	}
	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		Reader:   &wav,
		FilePath: "phrase.wav",
		Language: e.language,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: openai transcription: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	e.log.Debug("phrase transcribed remotely", "samples", len(samples), "chars", len(text))
	return text, nil
}

func (e *OpenAIEngine) Close() error { return nil }
