package transcribe

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"log/slog"

	"github.com/KunalKatariya/satori-cli/internal/config"
)

func TestWriteWAVHeader(t *testing.T) {
	samples := []float32{0, 0.5, -0.5, 1, -1}
	var buf bytes.Buffer
	if err := writeWAV(&buf, samples, 16000); err != nil {
		t.Fatalf("writeWAV: %v", err)
	}
	raw := buf.Bytes()
	if len(raw) != 44+len(samples)*2 {
		t.Fatalf("encoded %d bytes, want %d", len(raw), 44+len(samples)*2)
	}
	if string(raw[0:4]) != "RIFF" || string(raw[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE magic")
	}
	if rate := binary.LittleEndian.Uint32(raw[24:28]); rate != 16000 {
		t.Fatalf("sample rate = %d, want 16000", rate)
	}
	if bits := binary.LittleEndian.Uint16(raw[34:36]); bits != 16 {
		t.Fatalf("bits per sample = %d, want 16", bits)
	}
	if dataLen := binary.LittleEndian.Uint32(raw[40:44]); dataLen != uint32(len(samples)*2) {
		t.Fatalf("data length = %d, want %d", dataLen, len(samples)*2)
	}
	// Full-scale samples must clip to the int16 range, not wrap.
	if v := int16(binary.LittleEndian.Uint16(raw[44+6:])); v != 32767 {
		t.Fatalf("sample 3 encoded as %d, want 32767", v)
	}
	if v := int16(binary.LittleEndian.Uint16(raw[44+8:])); v != -32767 {
		t.Fatalf("sample 4 encoded as %d, want -32767", v)
	}
}

func TestCleanTranscript(t *testing.T) {
	raw := `whisper_init_state: compute buffer
 Hello there.
[BLANK_AUDIO]
(wind blowing)
 General Kenobi.
`
	got := cleanTranscript(raw)
	want := "Hello there. General Kenobi."
	if got != want {
		t.Fatalf("cleanTranscript = %q, want %q", got, want)
	}
}

func TestCleanTranscriptKeepsBracketsInSpeech(t *testing.T) {
	got := cleanTranscript("The value [citation needed] is disputed.")
	if got != "The value [citation needed] is disputed." {
		t.Fatalf("cleanTranscript mangled inline brackets: %q", got)
	}
}

func TestStubEngineCountsPhrases(t *testing.T) {
	engine := NewStubEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
	first, err := engine.Transcribe(context.Background(), make([]float32, 16000), 16000)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if !strings.Contains(first, "phrase 1") || !strings.Contains(first, "1.0s") {
		t.Fatalf("first transcript = %q", first)
	}
	second, _ := engine.Transcribe(context.Background(), make([]float32, 8000), 16000)
	if !strings.Contains(second, "phrase 2") {
		t.Fatalf("second transcript = %q", second)
	}
	if text, err := engine.Transcribe(context.Background(), nil, 16000); err != nil || text != "" {
		t.Fatalf("empty phrase = (%q, %v), want empty", text, err)
	}
}

func TestFactoryForcedStub(t *testing.T) {
	cfg := config.Config{UseStubEngine: true}
	engine, err := New(context.Background(), cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := engine.(*StubEngine); !ok {
		t.Fatalf("engine = %T, want *StubEngine", engine)
	}
}

func TestFactoryDegradesWithoutManager(t *testing.T) {
	cfg := config.Config{Transcriber: "whispercpp"}
	engine, err := New(context.Background(), cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("expected degradation error")
	}
	if _, ok := engine.(*StubEngine); !ok {
		t.Fatalf("engine = %T, want *StubEngine", engine)
	}
}

func TestFactoryOpenAIWithoutKey(t *testing.T) {
	cfg := config.Config{Transcriber: "openai"}
	engine, err := New(context.Background(), cfg, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err == nil {
		t.Fatal("expected missing key error")
	}
	if _, ok := engine.(*StubEngine); !ok {
		t.Fatalf("engine = %T, want *StubEngine", engine)
	}
}
