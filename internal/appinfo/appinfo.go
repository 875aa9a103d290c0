package appinfo

// Metadata captures static identifiers for the application. Centralising the
// values keeps the CLI banner, log fields, and user-agent strings in one place.
type Metadata struct {
	Name        string
	BinaryName  string
	Slug        string
	Description string
	Version     string
}

// Info describes the current application.
var Info = Metadata{
	Name:        "Satori",
	BinaryName:  "satori",
	Slug:        "satori-cli",
	Description: "Live audio transcription and translation for the terminal.",
	Version:     "0.1.1",
}

// TranscriptMetadata produces the standard metadata payload attached to
// emitted transcripts.
func TranscriptMetadata(modelVariant, language string) map[string]string {
	return map[string]string{
		"generator":     Info.Slug,
		"model_variant": modelVariant,
		"language":      language,
	}
}
