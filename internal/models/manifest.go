package models

import (
	_ "embed"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

//go:embed embedded_manifest.json
var embeddedManifest []byte

// Variant describes one downloadable whisper model artefact.
type Variant struct {
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	SHA256      string `json:"sha256,omitempty"`
}

// Manifest maps variant names (tiny, base, small, ...) to artefacts.
type Manifest struct {
	Variants map[string]Variant `json:"variants"`
}

// LoadManifest parses a manifest from r.
func LoadManifest(r io.Reader) (Manifest, error) {
	var manifest Manifest
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&manifest); err != nil {
		return Manifest{}, fmt.Errorf("models: decode manifest: %w", err)
	}
	if len(manifest.Variants) == 0 {
		return Manifest{}, fmt.Errorf("models: manifest has no variants")
	}
	return manifest, nil
}

// DefaultManifest returns the manifest compiled into the binary.
func DefaultManifest() (Manifest, error) {
	return LoadManifest(bytes.NewReader(embeddedManifest))
}

// Lookup resolves a variant by name, normalising the "large" alias to the
// current large release.
func (m Manifest) Lookup(name string) (Variant, bool) {
	key := strings.TrimSpace(name)
	if key == "large" {
		key = "large-v2"
	}
	variant, ok := m.Variants[key]
	return variant, ok
}
