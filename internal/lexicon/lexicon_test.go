package lexicon

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) *Lexicon {
	t.Helper()
	l, err := New(Table{
		Prefixes:   Entries{{Key: "vel", Gloss: "important person/role"}},
		Suffixes:   Entries{{Key: "in", Gloss: "person"}},
		Vocabulary: Entries{{Key: "arkashir", Gloss: "the arcaxh people"}},
	})
	require.NoError(t, err)
	return l
}

func TestLookupVocabulary(t *testing.T) {
	l := fixture(t)

	tests := []struct {
		word   string
		want   string
		wantOK bool
	}{
		{"arkashir", "the arcaxh people", true},
		{"ARKASHIR", "the arcaxh people", true},
		{"ArKaShIr", "the arcaxh people", true},
		{"arkashi", "", false},
		{"arkashirs", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := l.LookupVocabulary(tt.word)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindPrefixAndSuffix(t *testing.T) {
	l := fixture(t)

	p, ok := l.FindPrefix("Velkharn")
	require.True(t, ok)
	assert.Equal(t, Entry{Key: "vel", Gloss: "important person/role"}, p)

	_, ok = l.FindPrefix("khevel")
	assert.False(t, ok)

	s, ok := l.FindSuffix("xyzIN")
	require.True(t, ok)
	assert.Equal(t, Entry{Key: "in", Gloss: "person"}, s)

	_, ok = l.FindSuffix("inx")
	assert.False(t, ok)

	_, ok = l.FindPrefix("")
	assert.False(t, ok)
	_, ok = l.FindSuffix("")
	assert.False(t, ok)
}

func TestFirstMatchFollowsTableOrder(t *testing.T) {
	short, err := New(Table{
		Prefixes: Entries{{Key: "ve", Gloss: "short"}, {Key: "vel", Gloss: "long"}},
		Suffixes: Entries{{Key: "n", Gloss: "short"}, {Key: "rn", Gloss: "long"}},
	})
	require.NoError(t, err)

	p, ok := short.FindPrefix("velkharn")
	require.True(t, ok)
	assert.Equal(t, "ve", p.Key, "an earlier shorter prefix wins over a later longer one")

	s, ok := short.FindSuffix("velkharn")
	require.True(t, ok)
	assert.Equal(t, "n", s.Key)

	long, err := New(Table{
		Prefixes: Entries{{Key: "vel", Gloss: "long"}, {Key: "ve", Gloss: "short"}},
	})
	require.NoError(t, err)

	p, ok = long.FindPrefix("velkharn")
	require.True(t, ok)
	assert.Equal(t, "vel", p.Key)
}

func TestTablesAreSeparateNamespaces(t *testing.T) {
	l := Default()

	p, ok := l.FindPrefix("arx")
	require.True(t, ok)
	assert.Equal(t, "arcaxh/civilization related", p.Gloss)

	s, ok := l.FindSuffix("xar")
	require.True(t, ok)
	assert.Equal(t, "object/concept", s.Gloss)

	_, ok = l.LookupVocabulary("ar")
	assert.False(t, ok)
}

func TestNewFoldsKeys(t *testing.T) {
	l, err := New(Table{
		Prefixes:   Entries{{Key: " VEL ", Gloss: "important person/role"}},
		Vocabulary: Entries{{Key: "ArKaShIr", Gloss: "the arcaxh people"}},
	})
	require.NoError(t, err)

	table := l.Table()
	assert.Equal(t, "vel", table.Prefixes[0].Key)
	assert.Equal(t, "arkashir", table.Vocabulary[0].Key)

	gloss, ok := l.LookupVocabulary("arkashir")
	require.True(t, ok)
	assert.Equal(t, "the arcaxh people", gloss)
}

func TestNewRejectsInvalidTables(t *testing.T) {
	_, err := New(Table{Prefixes: Entries{{Key: "", Gloss: "nothing"}}})
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = New(Table{Suffixes: Entries{{Key: "  ", Gloss: "blank"}}})
	assert.ErrorIs(t, err, ErrEmptyKey)

	_, err = New(Table{Prefixes: Entries{{Key: "ar kash", Gloss: "two words"}}})
	assert.ErrorIs(t, err, ErrKeyWhitespace)
	assert.Contains(t, err.Error(), "prefixes")

	_, err = New(Table{Vocabulary: Entries{{Key: "vel\tkharn", Gloss: "tab"}}})
	assert.ErrorIs(t, err, ErrKeyWhitespace)

	_, err = New(Table{Vocabulary: Entries{
		{Key: "arkashir", Gloss: "a"},
		{Key: "ARKASHIR", Gloss: "b"},
	}})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Contains(t, err.Error(), "vocabulary")

	assert.Panics(t, func() {
		MustNew(Table{Prefixes: Entries{{Key: ""}}})
	})
}

func TestSameKeyInSeveralTables(t *testing.T) {
	_, err := New(Table{
		Prefixes:   Entries{{Key: "ar", Gloss: "prefix"}},
		Suffixes:   Entries{{Key: "ar", Gloss: "suffix"}},
		Vocabulary: Entries{{Key: "ar", Gloss: "word"}},
	})
	assert.NoError(t, err)
}

func TestEmptyLexicon(t *testing.T) {
	l, err := New(Table{})
	require.NoError(t, err)

	_, ok := l.LookupVocabulary("arkashir")
	assert.False(t, ok)
	_, ok = l.FindPrefix("velkharn")
	assert.False(t, ok)
	assert.Equal(t, Stats{}, l.Stats())
}

func TestDefault(t *testing.T) {
	l := Default()
	assert.Equal(t, Stats{Prefixes: 3, Suffixes: 3, Vocabulary: 3}, l.Stats())

	gloss, ok := l.LookupVocabulary("velkharn")
	require.True(t, ok)
	assert.Equal(t, "capital city", gloss)

	// "in" precedes "ar" and "ith" in the suffix table.
	s, ok := l.FindSuffix("arin")
	require.True(t, ok)
	assert.Equal(t, "in", s.Key)
}

func TestTableReturnsCopy(t *testing.T) {
	l := Default()
	table := l.Table()
	table.Prefixes[0].Key = "zz"

	p, ok := l.FindPrefix("arx")
	require.True(t, ok)
	assert.Equal(t, "ar", p.Key)
}

func TestFold(t *testing.T) {
	assert.Equal(t, "", Fold(""))
	assert.Equal(t, "velkharn", Fold("VelKharn"))
	// e + combining acute composes to é before comparison.
	assert.Equal(t, Fold("é"), Fold("É"))
}

func TestParseKeepsDocumentOrder(t *testing.T) {
	doc := []byte(`
prefixes:
  vel: important person/role
  ve: short
  ar: arcaxh/civilization related
suffixes:
  ith: state/quality
  in: person
vocabulary:
  zorakhion: symbiotic microorganism
  arkashir: the arcaxh people
`)
	l, err := Parse(doc)
	require.NoError(t, err)

	table := l.Table()
	assert.Equal(t, Entries{
		{Key: "vel", Gloss: "important person/role"},
		{Key: "ve", Gloss: "short"},
		{Key: "ar", Gloss: "arcaxh/civilization related"},
	}, table.Prefixes)
	assert.Equal(t, "ith", table.Suffixes[0].Key)
	assert.Equal(t, "zorakhion", table.Vocabulary[0].Key)

	p, ok := l.FindPrefix("velkharn")
	require.True(t, ok)
	assert.Equal(t, "vel", p.Key)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("prefixes:\n  - vel\n"))
	assert.Error(t, err, "a sequence is not a valid table")

	_, err = Parse([]byte("prefix:\n  vel: x\n"))
	assert.Error(t, err, "unknown top-level fields are rejected")

	_, err = Parse([]byte("vocabulary:\n  arkashir: a\n  ARKASHIR: b\n"))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestParseEmptyDocument(t *testing.T) {
	l, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Stats{}, l.Stats())

	l, err = Parse([]byte("prefixes:\nsuffixes:\n"))
	require.NoError(t, err)
	assert.Equal(t, Stats{}, l.Stats())
}

func TestMarshalRoundTripsDefaultTable(t *testing.T) {
	data, err := Marshal(DefaultTable())
	require.NoError(t, err)

	table, err := ParseTable(data)
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), table)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vocabulary:\n  arkashir: the arcaxh people\n"), 0o644))

	l, err := LoadFile(path)
	require.NoError(t, err)
	gloss, ok := l.LookupVocabulary("Arkashir")
	require.True(t, ok)
	assert.Equal(t, "the arcaxh people", gloss)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConcurrentLookups(t *testing.T) {
	l := Default()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if _, ok := l.LookupVocabulary("ARKASHIR"); !ok {
					t.Error("vocabulary lookup failed")
					return
				}
				if p, ok := l.FindPrefix("khexx"); !ok || p.Key != "khe" {
					t.Errorf("FindPrefix = %v, %v", p, ok)
					return
				}
			}
		}()
	}
	wg.Wait()
}
