package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestConsolePlainWriter(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(WithWriter(&buf, false), WithTranslation(true))

	console.OnStatus("listening")
	console.OnTranscription("\n\n[09:00:04]\nHello there.", true)
	console.OnTranscription(" General Kenobi.", false)
	console.OnTranslation(" こんにちは", false)

	out := buf.String()
	if !strings.Contains(out, "[listening]") {
		t.Fatalf("status missing: %q", out)
	}
	if !strings.Contains(out, "[09:00:04]\nHello there. General Kenobi.") {
		t.Fatalf("continuation broken: %q", out)
	}
	if !strings.Contains(out, "こんにちは") {
		t.Fatalf("translation missing: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("ANSI codes on plain writer: %q", out)
	}
}

func TestConsoleSuppressesDuplicateStatus(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(WithWriter(&buf, false))
	console.OnStatus("recording")
	console.OnStatus("recording")
	console.OnStatus("recording")
	if got := strings.Count(buf.String(), "recording"); got != 1 {
		t.Fatalf("duplicate status printed %d times", got)
	}
}

func TestConsoleTruncatesStatus(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(WithWriter(&buf, false), WithStatusWidth(10))
	console.OnStatus("transcribe error: something very long happened")
	out := buf.String()
	if !strings.Contains(out, "...") {
		t.Fatalf("status not truncated: %q", out)
	}
	if strings.Contains(out, "very long happened") {
		t.Fatalf("status kept overflow text: %q", out)
	}
}

func TestConsoleHidesTranslationWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(WithWriter(&buf, false))
	console.OnTranslation("should not appear", false)
	if buf.Len() != 0 {
		t.Fatalf("translation rendered while disabled: %q", buf.String())
	}
}

func TestConsoleTTYStatusRewrite(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(WithWriter(&buf, true))
	console.OnStatus("listening")
	console.OnStatus("recording")
	out := buf.String()
	if !strings.Contains(out, ansiClearLine+ansiDim) {
		t.Fatalf("second status did not rewrite in place: %q", out)
	}
}

func TestConsoleClear(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(WithWriter(&buf, true))
	console.OnStatus("recording")
	console.OnClear()
	if !strings.Contains(buf.String(), ansiClearScreen) {
		t.Fatalf("clear did not wipe screen: %q", buf.String())
	}
}
