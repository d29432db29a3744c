// Package translator turns Arcaxh text into an English gloss.
//
// Each whitespace-delimited token is looked up in the vocabulary first.
// Unknown tokens are broken down into at most one prefix and one suffix
// taken from the lexicon; a token matching neither is passed through as is.
// Translation never fails: every input string has a defined output.
package translator

import (
	"log/slog"
	"strings"
	"time"

	"github.com/ppiankov/arcaxh/internal/cache"
	"github.com/ppiankov/arcaxh/internal/lexicon"
	"github.com/ppiankov/arcaxh/internal/logging"
)

// Source tells where the gloss of a token came from.
type Source string

const (
	SourceVocabulary Source = "vocabulary" // whole-word match
	SourceAnalysis   Source = "analysis"   // prefix and/or suffix breakdown
	SourceLiteral    Source = "literal"    // no match, token passed through
)

// Token is the translation of a single input token.
type Token struct {
	Text   string `json:"text"`
	Gloss  string `json:"gloss"`
	Source Source `json:"source"`
}

// Translator translates text against an immutable lexicon. It is safe for
// concurrent use.
type Translator struct {
	lex      *lexicon.Lexicon
	cache    cache.Cache
	cacheTTL time.Duration
	logger   *slog.Logger
}

// Option configures a Translator.
type Option func(*Translator)

// WithCache memoizes word analyses in c. Only words that matched an affix
// are stored. A zero ttl uses the cache default.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(t *Translator) {
		t.cache = c
		t.cacheTTL = ttl
	}
}

// WithLogger sets the logger. Without it the translator logs nothing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Translator) {
		t.logger = logger
	}
}

// New creates a Translator over lex. A nil lex behaves as an empty lexicon:
// every word is passed through unchanged.
func New(lex *lexicon.Lexicon, opts ...Option) *Translator {
	if lex == nil {
		lex = lexicon.MustNew(lexicon.Table{})
	}

	t := &Translator{lex: lex}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logging.Default(t.logger).With("component", "translator")

	stats := lex.Stats()
	t.logger.Debug("translator ready",
		"prefixes", stats.Prefixes,
		"suffixes", stats.Suffixes,
		"vocabulary", stats.Vocabulary,
		"cache", t.cache != nil,
	)
	return t
}

// Lexicon returns the lexicon the translator reads from.
func (t *Translator) Lexicon() *lexicon.Lexicon {
	return t.lex
}

// TranslateToEnglish glosses every whitespace-delimited token of text and
// joins the results with single spaces. Vocabulary words become their gloss;
// other words become their AnalyzeWord result. Empty or blank input yields "".
//
// The output is not a fixed point: translating a gloss again generally
// produces something different.
func (t *Translator) TranslateToEnglish(text string) string {
	return Join(t.Tokens(text))
}

// Join renders tokens as TranslateToEnglish does: glosses separated by a
// single space.
func Join(tokens []Token) string {
	glosses := make([]string, len(tokens))
	for i, tok := range tokens {
		glosses[i] = tok.Gloss
	}
	return strings.Join(glosses, " ")
}

// Tokens is the structured form of TranslateToEnglish, one Token per input
// token in input order.
func (t *Translator) Tokens(text string) []Token {
	words := strings.Fields(text)
	tokens := make([]Token, 0, len(words))
	for _, word := range words {
		tokens = append(tokens, t.token(word))
	}
	return tokens
}

func (t *Translator) token(word string) Token {
	if gloss, ok := t.lex.LookupVocabulary(word); ok {
		return Token{Text: word, Gloss: gloss, Source: SourceVocabulary}
	}

	gloss := t.AnalyzeWord(word)
	source := SourceAnalysis
	if gloss == word {
		source = SourceLiteral
	}
	return Token{Text: word, Gloss: gloss, Source: source}
}

// AnalyzeWord breaks word into a known prefix and/or suffix, e.g.
// "xyzin: (in [person])". A word matching no affix is returned unchanged.
// The vocabulary is not consulted.
func (t *Translator) AnalyzeWord(word string) string {
	if t.cache == nil {
		return t.Analyze(word).String()
	}

	key := cache.AnalysisKey(word)
	if s, ok := t.cache.Get(key); ok {
		return s
	}

	a := t.Analyze(word)
	s := a.String()
	if !a.Matched() {
		// Pass-through words are not memoized.
		return s
	}
	if err := t.cache.Set(key, s, t.cacheTTL); err != nil {
		t.logger.Warn("cache analysis", "word", word, "error", err)
	}
	return s
}

// Analyze returns the affix breakdown of word. Prefix and suffix are
// matched independently and may overlap.
func (t *Translator) Analyze(word string) Analysis {
	a := Analysis{Word: word}

	folded := lexicon.Fold(word)
	if p, ok := t.lex.FindPrefix(folded); ok {
		a.Prefix = &p
	}
	if s, ok := t.lex.FindSuffix(folded); ok {
		a.Suffix = &s
	}
	return a
}
