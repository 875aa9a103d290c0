package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader assembles configuration from the YAML config file and environment
// variables. Tests can override Lookup to inject deterministic maps and Path
// to point at a fixture file.
type Loader struct {
	// Lookup resolves environment variables; defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
	// Path is the config file location; defaults to <data dir>/config.yaml.
	Path string
}

// Load reads the config file (when present), applies environment overrides,
// and validates the result. A missing config file is not an error; a corrupt
// one is reported so the user can fix or delete it.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	var cfg Config

	if cfg.DataDir == "" {
		if dir, ok := l.Lookup("SATORI_DATA_DIR"); ok && strings.TrimSpace(dir) != "" {
			cfg.DataDir = strings.TrimSpace(dir)
		} else {
			dir, err := DefaultDataDir()
			if err != nil {
				return Config{}, err
			}
			cfg.DataDir = dir
		}
	}

	path := l.Path
	if path == "" {
		path = filepath.Join(cfg.DataDir, "config.yaml")
	}
	if err := applyFile(path, &cfg); err != nil {
		return Config{}, err
	}

	overrideString(l.Lookup, "SATORI_MODEL_VARIANT", &cfg.ModelVariant)
	overrideString(l.Lookup, "SATORI_LANGUAGE", &cfg.Language)
	overrideString(l.Lookup, "SATORI_TRANSLATE_TO", &cfg.TranslateTo)
	overrideString(l.Lookup, "SATORI_DEVICE", &cfg.Device)
	overrideString(l.Lookup, "SATORI_LOG_LEVEL", &cfg.LogLevel)
	overrideString(l.Lookup, "SATORI_MODEL_PATH", &cfg.ModelPath)
	overrideString(l.Lookup, "SATORI_WHISPER_BINARY", &cfg.WhisperBinary)
	overrideString(l.Lookup, "SATORI_TRANSCRIBER", &cfg.Transcriber)
	overrideString(l.Lookup, "SATORI_TRANSLATOR", &cfg.Translator)
	overrideString(l.Lookup, "OPENAI_API_KEY", &cfg.OpenAIAPIKey)
	overrideBool(l.Lookup, "SATORI_LOOPBACK", &cfg.Loopback)
	overrideBool(l.Lookup, "SATORI_USE_STUB_ENGINE", &cfg.UseStubEngine)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("config: decode %s: %w", path, err)
	}
	return nil
}

// Save persists cfg to path in YAML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create %s: %w", filepath.Dir(path), err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			*target = parsed
		}
	}
}
