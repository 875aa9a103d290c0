package transcribe

import (
	"context"
	"log/slog"

	"github.com/KunalKatariya/satori-cli/internal/config"
	"github.com/KunalKatariya/satori-cli/internal/models"
)

// New resolves the configured engine, ensuring the local model when needed.
// On failure it degrades to the stub engine and reports the cause so the
// caller can surface it without aborting the session.
func New(ctx context.Context, cfg config.Config, manager *models.Manager, logger *slog.Logger) (Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cfg.UseStubEngine {
		logger.Warn("stub engine forced by configuration")
		return NewStubEngine(logger), nil
	}

	switch cfg.Transcriber {
	case "openai":
		engine, err := NewOpenAIEngine(cfg.OpenAIAPIKey, cfg.Language, logger)
		if err != nil {
			logger.Warn("openai engine unavailable; using stub", "error", err)
			return NewStubEngine(logger), err
		}
		return engine, nil
	default:
		return newLocalEngine(ctx, cfg, manager, logger)
	}
}

func newLocalEngine(ctx context.Context, cfg config.Config, manager *models.Manager, logger *slog.Logger) (Engine, error) {
	if manager == nil {
		logger.Warn("model manager unavailable; using stub engine")
		return NewStubEngine(logger), ErrEngineUnavailable
	}

	manifest, err := models.DefaultManifest()
	if err != nil {
		logger.Warn("embedded manifest unreadable; using stub engine", "error", err)
		return NewStubEngine(logger), err
	}

	modelPath, err := manager.EnsureVariant(ctx, cfg.ModelVariant, models.EnsureOptions{
		Manifest: manifest,
		Override: cfg.ModelPath,
	})
	if err != nil {
		logger.Warn("model ensure failed; using stub engine", "error", err)
		return NewStubEngine(logger), err
	}

	opts := WhisperCppOptions{
		ModelPath: modelPath,
		Binary:    cfg.WhisperBinary,
		Language:  cfg.Language,
		Logger:    logger,
	}
	if cfg.Threads != nil {
		opts.Threads = *cfg.Threads
	}
	if cfg.BeamSize != nil {
		opts.BeamSize = *cfg.BeamSize
	}
	logger.Info("local whisper engine ready", "model_path", modelPath)
	return NewWhisperCpp(opts), nil
}
