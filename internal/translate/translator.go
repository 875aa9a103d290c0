package translate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Provider performs the actual translation between a detected source
// language and the configured target.
type Provider interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Translator decides per phrase whether translation is needed and lazily
// initialises its provider on the first phrase that is.
type Translator struct {
	target  string
	build   func() (Provider, error)
	log     *slog.Logger
	once    sync.Once
	prov    Provider
	buildEr error
}

// New wires a translator for the target language. The provider is built on
// first use so sessions of same-language speech never pay for it.
func New(target string, build func() (Provider, error), logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		target: target,
		build:  build,
		log:    logger.With("component", "translate.Translator", "target", target),
	}
}

// Target returns the configured target language.
func (t *Translator) Target() string { return t.target }

// Translate returns text rendered in the target language. Text already in
// the target language passes through unchanged without touching the
// provider.
func (t *Translator) Translate(ctx context.Context, text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", nil
	}
	source := DetectLanguage(trimmed)
	if source == t.target {
		return trimmed, nil
	}

	t.once.Do(func() {
		if t.build == nil {
			t.buildEr = fmt.Errorf("translate: no provider configured")
			return
		}
		t.prov, t.buildEr = t.build()
		if t.buildEr == nil {
			t.log.Info("translation provider ready", "source_hint", source)
		}
	})
	if t.buildEr != nil {
		return trimmed, fmt.Errorf("translate: provider init: %w", t.buildEr)
	}

	// On provider failure the untranslated text comes back with the error
	// so callers can still show something.
	out, err := t.prov.Translate(ctx, trimmed, source, t.target)
	if err != nil {
		return trimmed, fmt.Errorf("translate: %s to %s: %w", source, t.target, err)
	}
	return strings.TrimSpace(out), nil
}
