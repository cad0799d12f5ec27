package ocr

import (
	"regexp"
	"unicode/utf8"
)

var (
	reDate      = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	reLongDigit = regexp.MustCompile(`\b\d{8,}\b`)
	rePlate     = regexp.MustCompile(`\b[A-Z]{3}-?\d[A-Z0-9]\d{2}\b`)
)

// documentConfidence scores OCR text by the artifacts every freight document
// carries: dates, registry numbers and plates.
func documentConfidence(txt string) float32 {
	score := float32(0.2)
	if reDate.MatchString(txt) {
		score += 0.2
	}
	if reLongDigit.MatchString(txt) {
		score += 0.2
	}
	if rePlate.MatchString(txt) {
		score += 0.15
	}
	if utf8.RuneCountInString(txt) > 200 {
		score += 0.15
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
