package lexicon

// DefaultTable returns the built-in Arcaxh seed table.
func DefaultTable() Table {
	return Table{
		Prefixes: Entries{
			{Key: "ar", Gloss: "arcaxh/civilization related"},
			{Key: "khe", Gloss: "state of being"},
			{Key: "vel", Gloss: "important person/role"},
		},
		Suffixes: Entries{
			{Key: "in", Gloss: "person"},
			{Key: "ar", Gloss: "object/concept"},
			{Key: "ith", Gloss: "state/quality"},
		},
		Vocabulary: Entries{
			{Key: "arkashir", Gloss: "the arcaxh people"},
			{Key: "zorakhion", Gloss: "symbiotic microorganism"},
			{Key: "velkharn", Gloss: "capital city"},
		},
	}
}

// Default builds a Lexicon from DefaultTable.
func Default() *Lexicon {
	return MustNew(DefaultTable())
}
