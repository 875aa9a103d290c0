package appinfo_test

import (
	"testing"

	"github.com/KunalKatariya/satori-cli/internal/appinfo"
)

func TestInfoPopulated(t *testing.T) {
	if appinfo.Info.Name == "" {
		t.Fatalf("expected name to be set")
	}
	if appinfo.Info.BinaryName == "" {
		t.Fatalf("expected binary name to be set")
	}
	if appinfo.Info.Slug == "" {
		t.Fatalf("expected slug to be set")
	}
	if appinfo.Info.Version == "" {
		t.Fatalf("expected version to be set")
	}
}

func TestTranscriptMetadata(t *testing.T) {
	meta := appinfo.TranscriptMetadata("base", "ja")
	if meta["generator"] != appinfo.Info.Slug {
		t.Fatalf("expected generator %q, got %q", appinfo.Info.Slug, meta["generator"])
	}
	if meta["model_variant"] != "base" {
		t.Fatalf("expected model_variant %q, got %q", "base", meta["model_variant"])
	}
	if meta["language"] != "ja" {
		t.Fatalf("expected language %q, got %q", "ja", meta["language"])
	}
}
