package transcribe

import "strings"

// noisePrefixes are whisper-cli log lines that leak onto stdout with some
// builds.
var noisePrefixes = []string{
	"whisper_",
	"ggml_",
	"main:",
	"system_info:",
}

// cleanTranscript strips decoder noise and non-speech markers such as
// [BLANK_AUDIO] or (music), keeping only spoken text.
func cleanTranscript(raw string) string {
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isNoiseLine(trimmed) {
			continue
		}
		kept = append(kept, trimmed)
	}
	return strings.Join(kept, " ")
}

func isNoiseLine(line string) bool {
	for _, prefix := range noisePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	if isBracketedMarker(line, "[", "]") || isBracketedMarker(line, "(", ")") {
		return true
	}
	return false
}

// isBracketedMarker matches lines that consist entirely of one bracketed
// token, the form whisper uses for non-speech events.
func isBracketedMarker(line, open, shut string) bool {
	return strings.HasPrefix(line, open) &&
		strings.HasSuffix(line, shut) &&
		strings.Count(line, open) == 1
}
