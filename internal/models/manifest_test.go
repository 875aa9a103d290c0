package models

import (
	"strings"
	"testing"
)

func TestDefaultManifest(t *testing.T) {
	manifest, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest: %v", err)
	}
	for _, name := range []string{"tiny", "base", "small", "medium", "large-v2"} {
		variant, ok := manifest.Lookup(name)
		if !ok {
			t.Fatalf("variant %q missing from embedded manifest", name)
		}
		if variant.Filename == "" || variant.URL == "" {
			t.Fatalf("variant %q is incomplete: %+v", name, variant)
		}
		if !strings.HasPrefix(variant.Filename, "ggml-") {
			t.Fatalf("variant %q filename = %q, want ggml- prefix", name, variant.Filename)
		}
	}
}

func TestLookupLargeAlias(t *testing.T) {
	manifest, err := DefaultManifest()
	if err != nil {
		t.Fatalf("DefaultManifest: %v", err)
	}
	aliased, ok := manifest.Lookup("large")
	if !ok {
		t.Fatal("large alias did not resolve")
	}
	direct, _ := manifest.Lookup("large-v2")
	if aliased.Filename != direct.Filename {
		t.Fatalf("alias resolved to %q, want %q", aliased.Filename, direct.Filename)
	}
}

func TestLoadManifestRejectsEmpty(t *testing.T) {
	if _, err := LoadManifest(strings.NewReader(`{"variants":{}}`)); err == nil {
		t.Fatal("expected error for empty manifest")
	}
	if _, err := LoadManifest(strings.NewReader(`not json`)); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}
