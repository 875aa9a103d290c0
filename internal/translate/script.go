// Package translate renders transcribed phrases into a target language,
// skipping work when the text is already in it.
package translate

import "unicode"

// scriptRatioThreshold is the share of script-specific runes above which the
// text is assumed to be in that language.
const scriptRatioThreshold = 0.2

// DetectLanguage guesses the language of text from its script. Japanese
// kana/kanji and Devanagari are recognised; everything else is treated as
// English.
func DetectLanguage(text string) string {
	var total, japanese, devanagari int
	for _, r := range text {
		if unicode.IsSpace(r) || unicode.IsPunct(r) || unicode.IsDigit(r) {
			continue
		}
		total++
		switch {
		case unicode.Is(unicode.Hiragana, r),
			unicode.Is(unicode.Katakana, r),
			unicode.Is(unicode.Han, r):
			japanese++
		case unicode.Is(unicode.Devanagari, r):
			devanagari++
		}
	}
	if total == 0 {
		return "en"
	}
	ratio := func(count int) float64 { return float64(count) / float64(total) }
	switch {
	case ratio(japanese) > scriptRatioThreshold:
		return "ja"
	case ratio(devanagari) > scriptRatioThreshold:
		return "hi"
	default:
		return "en"
	}
}
