// Package session implements the phrase segmentation controller: the loop
// that turns a continuous chunk stream into bounded transcription requests.
package session

import (
	"fmt"
	"time"
)

// Default tunables for the segmentation loop.
const (
	DefaultSampleRate        = 16000
	DefaultChunkDuration     = 500 * time.Millisecond
	DefaultEnergyThreshold   = 0.0015
	DefaultPhraseTimeout     = 2 * time.Second
	DefaultMaxPhraseDuration = 4 * time.Second
	DefaultSafetyMaxDuration = 30 * time.Second
	DefaultTimestampInterval = 30 * time.Second
)

// Config carries the segmentation tunables. The zero value validates to the
// defaults.
type Config struct {
	SampleRate int
	// ChunkDuration is the audio span requested from the source per poll.
	ChunkDuration time.Duration
	// EnergyThreshold is the RMS amplitude above which a chunk counts as
	// speech.
	EnergyThreshold float64
	// PhraseTimeout is the silence span after speech that closes a phrase.
	PhraseTimeout time.Duration
	// MaxPhraseDuration flushes a phrase regardless of silence to bound
	// latency.
	MaxPhraseDuration time.Duration
	// SafetyMaxDuration is the hard cap bounding buffer growth no matter
	// what the VAD does.
	SafetyMaxDuration time.Duration
	// TimestampInterval is the minimum gap between timestamp markers in
	// the output stream.
	TimestampInterval time.Duration
}

// Validate applies defaults and rejects inconsistent tunables.
func (c *Config) Validate() error {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.SampleRate < 0 {
		return fmt.Errorf("session: sample rate must be positive, got %d", c.SampleRate)
	}
	if c.ChunkDuration == 0 {
		c.ChunkDuration = DefaultChunkDuration
	}
	if c.ChunkDuration < 0 {
		return fmt.Errorf("session: chunk duration must be positive, got %s", c.ChunkDuration)
	}
	if c.EnergyThreshold == 0 {
		c.EnergyThreshold = DefaultEnergyThreshold
	}
	if c.EnergyThreshold < 0 {
		return fmt.Errorf("session: energy threshold must be positive, got %g", c.EnergyThreshold)
	}
	if c.PhraseTimeout == 0 {
		c.PhraseTimeout = DefaultPhraseTimeout
	}
	if c.PhraseTimeout < 0 {
		return fmt.Errorf("session: phrase timeout must be positive, got %s", c.PhraseTimeout)
	}
	if c.MaxPhraseDuration == 0 {
		c.MaxPhraseDuration = DefaultMaxPhraseDuration
	}
	if c.SafetyMaxDuration == 0 {
		c.SafetyMaxDuration = DefaultSafetyMaxDuration
	}
	if c.TimestampInterval == 0 {
		c.TimestampInterval = DefaultTimestampInterval
	}
	if c.TimestampInterval < 0 {
		return fmt.Errorf("session: timestamp interval must be positive, got %s", c.TimestampInterval)
	}
	if c.MaxPhraseDuration < c.ChunkDuration {
		return fmt.Errorf("session: max phrase duration %s is shorter than one chunk (%s)",
			c.MaxPhraseDuration, c.ChunkDuration)
	}
	if c.SafetyMaxDuration < c.MaxPhraseDuration {
		return fmt.Errorf("session: safety cap %s is shorter than max phrase duration %s",
			c.SafetyMaxDuration, c.MaxPhraseDuration)
	}
	return nil
}
