package translate

import (
	"context"
	"fmt"
)

// StubProvider marks text with the target language instead of translating.
type StubProvider struct{}

func (StubProvider) Translate(_ context.Context, text, _, target string) (string, error) {
	return fmt.Sprintf("[%s] %s", target, text), nil
}
