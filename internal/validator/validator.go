// Package validator checks that a translation came back in the requested
// target language.
package validator

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/valpere/libretran/internal/detector"
)

// minValidationLength is the rune count below which detection is too
// unreliable to judge.
const minValidationLength = 20

// endpointCodes maps LibreTranslate codes that are not BCP 47 tags to the
// language they name.
var endpointCodes = map[string]string{
	"zt": "zh",
	"pb": "pt",
}

// Validator checks a translation's language with a local detector.
// Building the detector is expensive; reuse the instance.
type Validator struct {
	det *detector.Detector
}

// New creates a Validator backed by the lingua-go detector.
func New() *Validator {
	return &Validator{det: detector.New()}
}

// Check returns nil when translatedText appears to be in targetLang.
// targetLang may be any BCP 47 tag or endpoint code; only its base
// language is compared. Short and undetectable texts pass, as do targets
// with no known base language.
func (v *Validator) Check(translatedText, targetLang string) error {
	want, ok := baseLanguage(targetLang)

	text := strings.TrimSpace(translatedText)
	if text == "" {
		return fmt.Errorf("translation is empty")
	}
	if !ok || len([]rune(text)) < minValidationLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}
	if detected != want {
		return fmt.Errorf("expected %s but detected %s", want, detected)
	}
	return nil
}

func baseLanguage(tag string) (string, bool) {
	if code, ok := endpointCodes[tag]; ok {
		return code, true
	}
	t, err := language.Parse(tag)
	if err != nil {
		return "", false
	}
	base, _ := t.Base()
	return base.String(), true
}
