package calc

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the registry key for an operation name.
// Surrounding whitespace is dropped, the name is NFC-normalised and
// lower-cased with Unicode rules.
func NormalizeName(name string) string {
	// cases.Caser carries state, so one is built per call.
	return cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(name)))
}
