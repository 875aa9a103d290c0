package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultModel       = "base"
	DefaultLanguage    = "en"
	DefaultLogLevel    = "info"
	DefaultSampleRate  = 16000
	DefaultChannels    = 1
	DefaultTranscriber = "whispercpp"
	DefaultTranslator  = "openai"

	// VAD and segmentation defaults, in seconds. These mirror the tunables of
	// the live session loop and are deliberately exposed in the config file.
	DefaultChunkDurationS     = 0.5
	DefaultEnergyThreshold    = 0.0015
	DefaultPhraseTimeoutS     = 2.0
	DefaultMaxPhraseDurationS = 4.0
	DefaultSafetyMaxS         = 30.0
	DefaultTimestampIntervalS = 30.0
)

// TranslateTargets lists the language codes the translator supports.
var TranslateTargets = []string{"en", "ja", "hi"}

// Config captures the full runtime configuration assembled from the config
// file, environment variables, and CLI flags.
type Config struct {
	ModelVariant string `yaml:"model_variant"`
	Language     string `yaml:"language"`
	TranslateTo  string `yaml:"translate_to,omitempty"`
	Device       string `yaml:"device,omitempty"`
	Loopback     bool   `yaml:"loopback,omitempty"`
	SampleRate   int    `yaml:"sample_rate"`
	Channels     int    `yaml:"channels"`
	LogLevel     string `yaml:"log_level"`
	DataDir      string `yaml:"data_dir,omitempty"`

	Transcriber   string `yaml:"transcriber"`
	Translator    string `yaml:"translator"`
	ModelPath     string `yaml:"model_path,omitempty"`
	WhisperBinary string `yaml:"whisper_binary,omitempty"`
	Threads       *int   `yaml:"threads,omitempty"`
	BeamSize      *int   `yaml:"beam_size,omitempty"`

	ChunkDurationS     float64 `yaml:"chunk_duration_s"`
	EnergyThreshold    float64 `yaml:"energy_threshold"`
	PhraseTimeoutS     float64 `yaml:"phrase_timeout_s"`
	MaxPhraseDurationS float64 `yaml:"max_phrase_duration_s"`
	SafetyMaxS         float64 `yaml:"safety_max_duration_s"`
	TimestampIntervalS float64 `yaml:"timestamp_interval_s"`

	// Not persisted: secrets and per-run toggles.
	OpenAIAPIKey  string `yaml:"-"`
	UseStubEngine bool   `yaml:"-"`
}

// Validate applies defaults, checks required fields, and rejects out-of-range
// values.
func (c *Config) Validate() error {
	if c.ModelVariant == "" {
		c.ModelVariant = DefaultModel
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.SampleRate < 0 {
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.Channels < 0 {
		return fmt.Errorf("config: channels must be positive, got %d", c.Channels)
	}
	if c.Transcriber == "" {
		c.Transcriber = DefaultTranscriber
	}
	if c.Translator == "" {
		c.Translator = DefaultTranslator
	}
	if c.TranslateTo != "" && !supportedTarget(c.TranslateTo) {
		return fmt.Errorf("config: translate_to must be one of %v, got %q", TranslateTargets, c.TranslateTo)
	}
	if c.Threads != nil && *c.Threads < 0 {
		return fmt.Errorf("config: threads must be >= 0, got %d", *c.Threads)
	}
	if c.BeamSize != nil && *c.BeamSize < 1 {
		return fmt.Errorf("config: beam_size must be >= 1, got %d", *c.BeamSize)
	}

	if c.ChunkDurationS == 0 {
		c.ChunkDurationS = DefaultChunkDurationS
	}
	if c.EnergyThreshold == 0 {
		c.EnergyThreshold = DefaultEnergyThreshold
	}
	if c.PhraseTimeoutS == 0 {
		c.PhraseTimeoutS = DefaultPhraseTimeoutS
	}
	if c.MaxPhraseDurationS == 0 {
		c.MaxPhraseDurationS = DefaultMaxPhraseDurationS
	}
	if c.SafetyMaxS == 0 {
		c.SafetyMaxS = DefaultSafetyMaxS
	}
	if c.TimestampIntervalS == 0 {
		c.TimestampIntervalS = DefaultTimestampIntervalS
	}
	if c.ChunkDurationS < 0 || c.EnergyThreshold < 0 || c.PhraseTimeoutS < 0 ||
		c.MaxPhraseDurationS < 0 || c.SafetyMaxS < 0 || c.TimestampIntervalS < 0 {
		return fmt.Errorf("config: segmentation tunables must not be negative")
	}
	if c.MaxPhraseDurationS < c.ChunkDurationS {
		return fmt.Errorf("config: max_phrase_duration_s %.2f is below chunk_duration_s %.2f",
			c.MaxPhraseDurationS, c.ChunkDurationS)
	}
	if c.SafetyMaxS < c.MaxPhraseDurationS {
		return fmt.Errorf("config: safety_max_duration_s %.2f is below max_phrase_duration_s %.2f",
			c.SafetyMaxS, c.MaxPhraseDurationS)
	}
	return nil
}

func supportedTarget(code string) bool {
	for _, t := range TranslateTargets {
		if t == code {
			return true
		}
	}
	return false
}

// DefaultDataDir returns the per-user data directory (~/.satori).
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".satori"), nil
}

// ModelsDir returns the whisper model cache below the data dir.
func (c *Config) ModelsDir() string {
	return filepath.Join(c.DataDir, "models", "whisper")
}

// LogsDir returns the session log directory below the data dir.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}
