package telemetry

import (
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestRecorderSnapshot(t *testing.T) {
	recorder := NewRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if snapshot := recorder.Snapshot(); snapshot.TotalSessions != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snapshot)
	}

	session := recorder.StartSession(map[string]string{"device": "test"})
	if session == nil {
		t.Fatalf("expected session metrics")
	}
	if session.SessionID() == "" {
		t.Fatal("expected generated session ID")
	}

	session.RecordChunk(true)
	session.RecordChunk(false)
	session.RecordChunk(true)
	session.RecordPhrase("max_duration", 64000)
	session.RecordTranscript("hello world")
	session.RecordTranslation("こんにちは")

	time.Sleep(5 * time.Millisecond)
	session.Finish(nil)

	snapshot := recorder.Snapshot()
	if snapshot.TotalSessions != 1 {
		t.Fatalf("unexpected TotalSessions: %d", snapshot.TotalSessions)
	}
	if snapshot.TotalChunks != 3 {
		t.Fatalf("unexpected TotalChunks: %d", snapshot.TotalChunks)
	}
	if snapshot.TotalSpeechChunks != 2 {
		t.Fatalf("unexpected TotalSpeechChunks: %d", snapshot.TotalSpeechChunks)
	}
	if snapshot.TotalPhrases != 1 {
		t.Fatalf("unexpected TotalPhrases: %d", snapshot.TotalPhrases)
	}
	if snapshot.TotalTranscripts != 1 {
		t.Fatalf("unexpected TotalTranscripts: %d", snapshot.TotalTranscripts)
	}
	if snapshot.TotalTranslations != 1 {
		t.Fatalf("unexpected TotalTranslations: %d", snapshot.TotalTranslations)
	}
	if snapshot.ActiveSessions != 0 {
		t.Fatalf("expected zero active sessions, got %d", snapshot.ActiveSessions)
	}

	session.Finish(nil)
	if snapshot2 := recorder.Snapshot(); snapshot2.TotalSessions != 1 {
		t.Fatalf("snapshot changed unexpectedly: %+v", snapshot2)
	}
}

func TestSessionFinishWithError(t *testing.T) {
	recorder := NewRecorder(slog.New(slog.NewTextHandler(io.Discard, nil)))
	session := recorder.StartSession(nil)
	session.RecordChunk(true)
	session.RecordError("transcribe", io.EOF)
	session.Finish(io.EOF)

	snapshot := recorder.Snapshot()
	if snapshot.TotalSessions != 1 {
		t.Fatalf("unexpected sessions: %d", snapshot.TotalSessions)
	}
	if snapshot.ActiveSessions != 0 {
		t.Fatalf("expected zero active sessions, got %d", snapshot.ActiveSessions)
	}
	if snapshot.TotalErrors != 1 {
		t.Fatalf("unexpected errors: %d", snapshot.TotalErrors)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var recorder *Recorder
	session := recorder.StartSession(nil)
	session.RecordChunk(true)
	session.RecordPhrase("silence", 0)
	session.Finish(nil)
	if snapshot := recorder.Snapshot(); snapshot != (Snapshot{}) {
		t.Fatalf("nil recorder snapshot = %+v", snapshot)
	}
}
