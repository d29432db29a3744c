package model

import (
	"github.com/ppiankov/arcaxh/internal/lexicon"
	"github.com/ppiankov/arcaxh/internal/translator"
)

// LineResult is the translation of one input line in batch mode
type LineResult struct {
	Line        int    `json:"line"`        // 1-based line number in the input
	Text        string `json:"text"`        // Original line
	Translation string `json:"translation"` // English gloss
}

// BatchSummary reports totals of a batch run
type BatchSummary struct {
	Lines      int `json:"lines"`
	Tokens     int `json:"tokens"`
	Vocabulary int `json:"vocabulary"` // Tokens glossed from the vocabulary
	Analyzed   int `json:"analyzed"`   // Tokens broken down into affixes
	Literal    int `json:"literal"`    // Tokens passed through unchanged
}

// Count adds the sources of tokens to the summary
func (s *BatchSummary) Count(tokens []translator.Token) {
	for _, tok := range tokens {
		s.Tokens++
		switch tok.Source {
		case translator.SourceVocabulary:
			s.Vocabulary++
		case translator.SourceAnalysis:
			s.Analyzed++
		default:
			s.Literal++
		}
	}
}

// TranslationResponse is the HTTP payload for a translated text
type TranslationResponse struct {
	Text        string             `json:"text"`
	Translation string             `json:"translation"`
	Tokens      []translator.Token `json:"tokens"`
}

// AnalysisResponse is the HTTP payload for a single word analysis
type AnalysisResponse struct {
	Word     string         `json:"word"`
	Analysis string         `json:"analysis"`
	Prefix   *lexicon.Entry `json:"prefix,omitempty"`
	Suffix   *lexicon.Entry `json:"suffix,omitempty"`
}

// LexiconResponse is the HTTP payload listing the active lexicon
type LexiconResponse struct {
	Prefixes   lexicon.Entries `json:"prefixes"`
	Suffixes   lexicon.Entries `json:"suffixes"`
	Vocabulary lexicon.Entries `json:"vocabulary"`
	Stats      lexicon.Stats   `json:"stats"`
}

// ErrorResponse is the HTTP payload for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}
