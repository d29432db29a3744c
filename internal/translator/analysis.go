package translator

import (
	"strings"

	"github.com/ppiankov/arcaxh/internal/lexicon"
)

// Analysis is the affix breakdown of one word. Word keeps the caller's
// casing; Prefix and Suffix are nil when nothing matched.
type Analysis struct {
	Word   string         `json:"word"`
	Prefix *lexicon.Entry `json:"prefix,omitempty"`
	Suffix *lexicon.Entry `json:"suffix,omitempty"`
}

// Matched reports whether a prefix or a suffix was found.
func (a Analysis) Matched() bool {
	return a.Prefix != nil || a.Suffix != nil
}

// String renders the analysis as "<word>: (<prefix> [<gloss>])-(<suffix> [<gloss>])",
// dropping the missing part, or as the bare word when nothing matched.
func (a Analysis) String() string {
	fragments := make([]string, 0, 2)
	if a.Prefix != nil {
		fragments = append(fragments, fragment(*a.Prefix))
	}
	if a.Suffix != nil {
		fragments = append(fragments, fragment(*a.Suffix))
	}
	if len(fragments) == 0 {
		return a.Word
	}
	return a.Word + ": " + strings.Join(fragments, "-")
}

func fragment(e lexicon.Entry) string {
	return "(" + e.Key + " [" + e.Gloss + "])"
}
