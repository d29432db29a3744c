// Package lexicon holds the Arcaxh prefix, suffix and vocabulary tables and
// answers lookups against them.
//
// A Lexicon is built once with New and never changes afterwards, so a single
// value can be shared by any number of goroutines without locking. Every
// table keeps the order its entries were supplied in; affix scans walk that
// order and stop at the first match.
package lexicon

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrEmptyKey is returned when an entry has an empty surface form.
	ErrEmptyKey = errors.New("empty key")
	// ErrKeyWhitespace is returned when a key contains whitespace. Input is
	// split on whitespace, so such a key could never match.
	ErrKeyWhitespace = errors.New("key contains whitespace")
	// ErrDuplicateKey is returned when two entries of one table fold to the same key.
	ErrDuplicateKey = errors.New("duplicate key")
)

// Entry is a surface form and its English gloss.
type Entry struct {
	Key   string `json:"key"`
	Gloss string `json:"gloss"`
}

// Entries is an ordered list of entries. Its YAML form is a mapping from
// surface form to gloss; document order is kept.
type Entries []Entry

// Table is the construction input of a Lexicon.
type Table struct {
	Prefixes   Entries `yaml:"prefixes" json:"prefixes"`
	Suffixes   Entries `yaml:"suffixes" json:"suffixes"`
	Vocabulary Entries `yaml:"vocabulary" json:"vocabulary"`
}

// Stats reports the number of entries per table.
type Stats struct {
	Prefixes   int `json:"prefixes"`
	Suffixes   int `json:"suffixes"`
	Vocabulary int `json:"vocabulary"`
}

// Lexicon is an immutable set of prefix, suffix and vocabulary tables.
type Lexicon struct {
	prefixes   Entries
	suffixes   Entries
	vocabulary Entries

	// words indexes vocabulary by folded key.
	words map[string]string
}

// New validates t and builds a Lexicon from it. Keys are folded (see Fold)
// and must be non-empty, free of whitespace and unique within their table.
func New(t Table) (*Lexicon, error) {
	prefixes, err := foldEntries("prefixes", t.Prefixes)
	if err != nil {
		return nil, err
	}
	suffixes, err := foldEntries("suffixes", t.Suffixes)
	if err != nil {
		return nil, err
	}
	vocabulary, err := foldEntries("vocabulary", t.Vocabulary)
	if err != nil {
		return nil, err
	}

	words := make(map[string]string, len(vocabulary))
	for _, e := range vocabulary {
		words[e.Key] = e.Gloss
	}

	return &Lexicon{
		prefixes:   prefixes,
		suffixes:   suffixes,
		vocabulary: vocabulary,
		words:      words,
	}, nil
}

// MustNew is like New but panics if t is invalid. It is meant for tables
// compiled into the program.
func MustNew(t Table) *Lexicon {
	l, err := New(t)
	if err != nil {
		panic(fmt.Sprintf("lexicon: %v", err))
	}
	return l
}

func foldEntries(table string, in Entries) (Entries, error) {
	out := make(Entries, 0, len(in))
	seen := make(map[string]bool, len(in))
	for i, e := range in {
		key := Fold(strings.TrimSpace(e.Key))
		if key == "" {
			return nil, fmt.Errorf("%s entry %d: %w", table, i, ErrEmptyKey)
		}
		if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
			return nil, fmt.Errorf("%s %q: %w", table, key, ErrKeyWhitespace)
		}
		if seen[key] {
			return nil, fmt.Errorf("%s %q: %w", table, key, ErrDuplicateKey)
		}
		seen[key] = true
		out = append(out, Entry{Key: key, Gloss: e.Gloss})
	}
	return out, nil
}

// LookupVocabulary returns the gloss of word if it is a vocabulary entry.
// Matching is case-insensitive.
func (l *Lexicon) LookupVocabulary(word string) (string, bool) {
	gloss, ok := l.words[Fold(word)]
	return gloss, ok
}

// FindPrefix returns the first prefix, in table order, that word starts with.
// A longer prefix later in the table never overrides an earlier match.
func (l *Lexicon) FindPrefix(word string) (Entry, bool) {
	w := Fold(word)
	for _, e := range l.prefixes {
		if strings.HasPrefix(w, e.Key) {
			return e, true
		}
	}
	return Entry{}, false
}

// FindSuffix returns the first suffix, in table order, that word ends with.
func (l *Lexicon) FindSuffix(word string) (Entry, bool) {
	w := Fold(word)
	for _, e := range l.suffixes {
		if strings.HasSuffix(w, e.Key) {
			return e, true
		}
	}
	return Entry{}, false
}

// Table returns a copy of the folded tables in their stable order.
func (l *Lexicon) Table() Table {
	return Table{
		Prefixes:   append(Entries(nil), l.prefixes...),
		Suffixes:   append(Entries(nil), l.suffixes...),
		Vocabulary: append(Entries(nil), l.vocabulary...),
	}
}

// Stats returns entry counts.
func (l *Lexicon) Stats() Stats {
	return Stats{
		Prefixes:   len(l.prefixes),
		Suffixes:   len(l.suffixes),
		Vocabulary: len(l.vocabulary),
	}
}
