package telemetry

import (
	"log/slog"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Recorder tracks cumulative metrics across capture sessions.
type Recorder struct {
	log *slog.Logger

	totalSessions     atomic.Uint64
	activeSessions    atomic.Int64
	totalChunks       atomic.Uint64
	totalSpeechChunks atomic.Uint64
	totalPhrases      atomic.Uint64
	totalTranscripts  atomic.Uint64
	totalTranslations atomic.Uint64
	totalErrors       atomic.Uint64
}

// Snapshot captures cumulative metrics recorded so far.
type Snapshot struct {
	TotalSessions     uint64
	ActiveSessions    int64
	TotalChunks       uint64
	TotalSpeechChunks uint64
	TotalPhrases      uint64
	TotalTranscripts  uint64
	TotalTranslations uint64
	TotalErrors       uint64
}

// NewRecorder constructs a Recorder using the provided logger.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		log: logger.With("component", "telemetry.Recorder"),
	}
}

// Snapshot returns an immutable view of the recorder totals.
func (r *Recorder) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	return Snapshot{
		TotalSessions:     r.totalSessions.Load(),
		ActiveSessions:    r.activeSessions.Load(),
		TotalChunks:       r.totalChunks.Load(),
		TotalSpeechChunks: r.totalSpeechChunks.Load(),
		TotalPhrases:      r.totalPhrases.Load(),
		TotalTranscripts:  r.totalTranscripts.Load(),
		TotalTranslations: r.totalTranslations.Load(),
		TotalErrors:       r.totalErrors.Load(),
	}
}

// SessionMetrics accumulates statistics for a single capture session.
type SessionMetrics struct {
	recorder *Recorder
	log      *slog.Logger

	sessionID string
	metadata  map[string]string

	started      time.Time
	chunks       int
	speechChunks int
	phrases      int
	transcripts  int
	translations int
	errors       int
	closed       atomic.Bool
}

// StartSession assigns a fresh session ID and binds a SessionMetrics to the
// recorder.
func (r *Recorder) StartSession(metadata map[string]string) *SessionMetrics {
	if r == nil {
		return nil
	}

	sessionID := uuid.NewString()
	clonedMetadata := cloneMetadata(metadata)

	sessionLogger := r.log.With("session_id", sessionID)
	if len(clonedMetadata) > 0 {
		sessionLogger = sessionLogger.With("metadata", clonedMetadata)
	}

	r.totalSessions.Add(1)
	r.activeSessions.Add(1)

	return &SessionMetrics{
		recorder: r,
		log:      sessionLogger,

		sessionID: sessionID,
		metadata:  clonedMetadata,

		started: time.Now(),
	}
}

// SessionID returns the generated identifier for log correlation.
func (s *SessionMetrics) SessionID() string {
	if s == nil {
		return ""
	}
	return s.sessionID
}

// RecordChunk updates counters for one polled audio chunk.
func (s *SessionMetrics) RecordChunk(speech bool) {
	if s == nil {
		return
	}
	s.chunks++
	s.recorder.totalChunks.Add(1)
	if speech {
		s.speechChunks++
		s.recorder.totalSpeechChunks.Add(1)
	}
}

// RecordPhrase counts one flushed phrase and its size.
func (s *SessionMetrics) RecordPhrase(reason string, samples int) {
	if s == nil {
		return
	}
	s.phrases++
	s.recorder.totalPhrases.Add(1)

	s.log.Debug("phrase flushed", "reason", reason, "samples", samples)
}

// RecordTranscript stores statistics for an emitted transcript.
func (s *SessionMetrics) RecordTranscript(text string) {
	if s == nil {
		return
	}
	s.transcripts++
	s.recorder.totalTranscripts.Add(1)

	s.log.Debug("transcript emitted",
		"chars", len(text),
		"runes", utf8.RuneCountInString(text),
	)
}

// RecordTranslation stores statistics for an emitted translation.
func (s *SessionMetrics) RecordTranslation(text string) {
	if s == nil {
		return
	}
	s.translations++
	s.recorder.totalTranslations.Add(1)

	s.log.Debug("translation emitted", "runes", utf8.RuneCountInString(text))
}

// RecordError counts a stage failure that the session survived.
func (s *SessionMetrics) RecordError(stage string, err error) {
	if s == nil {
		return
	}
	s.errors++
	s.recorder.totalErrors.Add(1)

	s.log.Warn("stage failed", "stage", stage, "error", err)
}

// Finish logs a summary and updates active session counters.
func (s *SessionMetrics) Finish(err error) {
	if s == nil {
		return
	}
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	defer s.recorder.activeSessions.Add(-1)

	duration := time.Since(s.started)
	args := []any{
		"duration_ms", duration.Milliseconds(),
		"chunks", s.chunks,
		"speech_chunks", s.speechChunks,
		"phrases", s.phrases,
		"transcripts", s.transcripts,
		"translations", s.translations,
		"errors", s.errors,
	}

	if err != nil {
		s.log.Error("session completed with error", append(args, "error", err)...)
		return
	}

	s.log.Info("session completed", args...)
}

func cloneMetadata(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
