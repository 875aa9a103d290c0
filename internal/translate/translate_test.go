package translate

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"
)

func TestDetectLanguage(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"Hello, how are you today?", "en"},
		{"こんにちは、元気ですか？", "ja"},
		{"これはテストです", "ja"},
		{"音声認識", "ja"},
		{"नमस्ते, आप कैसे हैं?", "hi"},
		{"", "en"},
		{"123 !?", "en"},
		// Mostly Latin with a stray kanji stays English.
		{"The character 気 means spirit in this long English sentence", "en"},
	}
	for _, tc := range cases {
		if got := DetectLanguage(tc.text); got != tc.want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

type countingProvider struct {
	calls int
	out   string
	err   error
}

func (p *countingProvider) Translate(_ context.Context, text, source, target string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if p.out != "" {
		return p.out, nil
	}
	return "[" + source + ">" + target + "] " + text, nil
}

func TestTranslateSkipsSameLanguage(t *testing.T) {
	provider := &countingProvider{}
	tr := New("en", func() (Provider, error) { return provider, nil }, slog.New(slog.NewTextHandler(io.Discard, nil)))

	out, err := tr.Translate(context.Background(), "Already English text here.")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "Already English text here." {
		t.Fatalf("identity output = %q", out)
	}
	if provider.calls != 0 {
		t.Fatalf("provider called %d times for same-language text", provider.calls)
	}
}

func TestTranslateCallsProviderForForeignText(t *testing.T) {
	provider := &countingProvider{}
	tr := New("en", func() (Provider, error) { return provider, nil }, slog.New(slog.NewTextHandler(io.Discard, nil)))

	out, err := tr.Translate(context.Background(), "こんにちは")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "[ja>en] こんにちは" {
		t.Fatalf("output = %q", out)
	}
	if provider.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", provider.calls)
	}
}

func TestTranslateBuildsProviderOnce(t *testing.T) {
	builds := 0
	provider := &countingProvider{}
	tr := New("en", func() (Provider, error) {
		builds++
		return provider, nil
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 0; i < 3; i++ {
		if _, err := tr.Translate(context.Background(), "こんにちは"); err != nil {
			t.Fatalf("Translate: %v", err)
		}
	}
	if builds != 1 {
		t.Fatalf("provider built %d times, want 1", builds)
	}
	if provider.calls != 3 {
		t.Fatalf("provider calls = %d, want 3", provider.calls)
	}
}

func TestTranslateProviderBuildFailureSticks(t *testing.T) {
	buildErr := errors.New("no key")
	tr := New("en", func() (Provider, error) { return nil, buildErr }, slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 0; i < 2; i++ {
		if _, err := tr.Translate(context.Background(), "こんにちは"); !errors.Is(err, buildErr) {
			t.Fatalf("err = %v, want %v", err, buildErr)
		}
	}
}

func TestTranslateEmptyText(t *testing.T) {
	provider := &countingProvider{}
	tr := New("ja", func() (Provider, error) { return provider, nil }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	out, err := tr.Translate(context.Background(), "   ")
	if err != nil || out != "" {
		t.Fatalf("blank phrase = (%q, %v), want empty", out, err)
	}
	if provider.calls != 0 {
		t.Fatal("provider called for blank phrase")
	}
}

func TestStubProvider(t *testing.T) {
	out, err := StubProvider{}.Translate(context.Background(), "hello", "en", "ja")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "[ja] hello" {
		t.Fatalf("output = %q", out)
	}
}
