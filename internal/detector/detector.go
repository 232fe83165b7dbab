// Package detector identifies the language of a text locally, without a
// round trip to the translation endpoint.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// Detector wraps a lingua language detector.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector over all supported languages. Low accuracy mode
// keeps the model load small enough for a one-shot CLI run.
func New() *Detector {
	detector := lingua.NewLanguageDetectorBuilder().
		FromAllLanguages().
		WithLowAccuracyMode().
		Build()

	return &Detector{detector: detector}
}

// DetectISO returns the lowercase ISO 639-1 code of text, e.g. "uk".
func (d *Detector) DetectISO(text string) (string, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
