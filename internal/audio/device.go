package audio

import "strings"

// loopbackKeywords marks capture devices that record system output instead of
// a microphone.
var loopbackKeywords = []string{
	"blackhole",
	"loopback",
	"soundflower",
	"virtual",
	"aggregate",
	"monitor",
	"stereo mix",
}

// Device identifies one capture endpoint exposed by a backend.
type Device struct {
	ID       string
	Name     string
	Loopback bool
}

// IsLoopbackName reports whether a device name looks like a system-audio
// loopback endpoint.
func IsLoopbackName(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range loopbackKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
