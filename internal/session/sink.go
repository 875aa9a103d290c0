package session

// Sink receives display updates from the controller. Implementations run in
// the controller goroutine and should return quickly.
type Sink interface {
	// OnTranscription delivers transcribed text, already carrying its
	// timestamp marker or continuation prefix. newMarker reports which.
	OnTranscription(text string, newMarker bool)
	// OnTranslation delivers the translated form of the same phrase, with
	// the same marker decision as its transcription.
	OnTranslation(text string, newMarker bool)
	// OnStatus updates the one-line state label (recording, processing,
	// error summaries).
	OnStatus(text string)
	// OnClear drops accumulated display output after a reset.
	OnClear()
}
