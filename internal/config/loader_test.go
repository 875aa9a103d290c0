package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KunalKatariya/satori-cli/internal/config"
)

func TestLoaderDefaults(t *testing.T) {
	loader := config.Loader{
		Lookup: func(string) (string, bool) { return "", false },
		Path:   filepath.Join(t.TempDir(), "config.yaml"),
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.ModelVariant != config.DefaultModel {
		t.Fatalf("expected model variant %q, got %q", config.DefaultModel, cfg.ModelVariant)
	}
	if cfg.Language != config.DefaultLanguage {
		t.Fatalf("expected language %q, got %q", config.DefaultLanguage, cfg.Language)
	}
	if cfg.LogLevel != config.DefaultLogLevel {
		t.Fatalf("expected log level %q, got %q", config.DefaultLogLevel, cfg.LogLevel)
	}
	if cfg.SampleRate != config.DefaultSampleRate {
		t.Fatalf("expected sample rate %d, got %d", config.DefaultSampleRate, cfg.SampleRate)
	}
	if cfg.Transcriber != config.DefaultTranscriber {
		t.Fatalf("expected transcriber %q, got %q", config.DefaultTranscriber, cfg.Transcriber)
	}
	if cfg.TranslateTo != "" {
		t.Fatalf("expected translation disabled by default, got %q", cfg.TranslateTo)
	}
	if cfg.ChunkDurationS != config.DefaultChunkDurationS {
		t.Fatalf("expected chunk duration %.2f, got %.2f", config.DefaultChunkDurationS, cfg.ChunkDurationS)
	}
	if cfg.EnergyThreshold != config.DefaultEnergyThreshold {
		t.Fatalf("expected energy threshold %g, got %g", config.DefaultEnergyThreshold, cfg.EnergyThreshold)
	}
	if cfg.UseStubEngine {
		t.Fatalf("expected stub engine disabled by default")
	}
}

func TestLoaderReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := []byte(`model_variant: small
language: ja
translate_to: en
device: BlackHole 2ch
phrase_timeout_s: 1.5
max_phrase_duration_s: 6
beam_size: 2
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	loader := config.Loader{
		Lookup: func(string) (string, bool) { return "", false },
		Path:   path,
	}
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	assertEqual(t, "small", cfg.ModelVariant, "model variant")
	assertEqual(t, "ja", cfg.Language, "language")
	assertEqual(t, "en", cfg.TranslateTo, "translate target")
	assertEqual(t, "BlackHole 2ch", cfg.Device, "device")
	if cfg.PhraseTimeoutS != 1.5 {
		t.Fatalf("expected phrase timeout 1.5, got %g", cfg.PhraseTimeoutS)
	}
	if cfg.MaxPhraseDurationS != 6 {
		t.Fatalf("expected max phrase duration 6, got %g", cfg.MaxPhraseDurationS)
	}
	if cfg.BeamSize == nil || *cfg.BeamSize != 2 {
		t.Fatalf("expected beam size 2, got %v", cfg.BeamSize)
	}
}

func TestLoaderEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("model_variant: small\nlanguage: ja\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	env := map[string]string{
		"SATORI_MODEL_VARIANT":   "medium",
		"SATORI_LANGUAGE":        "hi",
		"SATORI_TRANSLATE_TO":    "en",
		"SATORI_LOG_LEVEL":       "debug",
		"SATORI_USE_STUB_ENGINE": "true",
		"OPENAI_API_KEY":         "sk-test",
	}
	loader := config.Loader{
		Lookup: func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		},
		Path: path,
	}

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	assertEqual(t, "medium", cfg.ModelVariant, "model variant")
	assertEqual(t, "hi", cfg.Language, "language")
	assertEqual(t, "en", cfg.TranslateTo, "translate target")
	assertEqual(t, "debug", cfg.LogLevel, "log level")
	assertEqual(t, "sk-test", cfg.OpenAIAPIKey, "api key")
	if !cfg.UseStubEngine {
		t.Fatalf("expected stub engine enabled via env")
	}
}

func TestLoaderRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("model_variant: [unterminated"), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	loader := config.Loader{
		Lookup: func(string) (string, bool) { return "", false },
		Path:   path,
	}
	if _, err := loader.Load(); err == nil {
		t.Fatalf("expected error for corrupt config file")
	}
}

func TestLoaderRejectsBadTarget(t *testing.T) {
	env := map[string]string{"SATORI_TRANSLATE_TO": "fr"}
	loader := config.Loader{
		Lookup: func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		},
		Path: filepath.Join(t.TempDir(), "config.yaml"),
	}
	if _, err := loader.Load(); err == nil {
		t.Fatalf("expected error for unsupported translate target")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := config.Config{ModelVariant: "small", Language: "ja", Device: "pulse-monitor"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if err := config.Save(path, cfg); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	loader := config.Loader{
		Lookup: func(string) (string, bool) { return "", false },
		Path:   path,
	}
	loaded, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	assertEqual(t, "small", loaded.ModelVariant, "model variant")
	assertEqual(t, "ja", loaded.Language, "language")
	assertEqual(t, "pulse-monitor", loaded.Device, "device")
}

func TestValidateGuardsOrdering(t *testing.T) {
	cfg := config.Config{ChunkDurationS: 2, MaxPhraseDurationS: 1}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when max phrase duration is below chunk duration")
	}

	cfg = config.Config{MaxPhraseDurationS: 10, SafetyMaxS: 5}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when safety cap is below max phrase duration")
	}
}

func assertEqual(t *testing.T, want, got, label string) {
	t.Helper()
	if want != got {
		t.Fatalf("unexpected %s: want %q, got %q", label, want, got)
	}
}
