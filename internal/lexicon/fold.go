package lexicon

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the matching form of s: NFC-normalized, then lowercased with
// the Unicode default rules. Keys and looked-up words both go through Fold,
// so precomposed and decomposed spellings compare equal.
func Fold(s string) string {
	if s == "" {
		return s
	}
	// A Caser carries state between calls and cannot be shared.
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
