package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping node into entries, keeping document order.
func (e *Entries) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping of surface form to gloss", value.Line)
	}

	out := make(Entries, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		k, v := value.Content[i], value.Content[i+1]

		var key, gloss string
		if err := k.Decode(&key); err != nil {
			return fmt.Errorf("line %d: key: %w", k.Line, err)
		}
		if err := v.Decode(&gloss); err != nil {
			return fmt.Errorf("line %d: gloss for %q: %w", v.Line, key, err)
		}
		out = append(out, Entry{Key: key, Gloss: gloss})
	}

	*e = out
	return nil
}

// MarshalYAML encodes entries as a mapping in slice order.
func (e Entries) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, en := range e {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: en.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: en.Gloss},
		)
	}
	return node, nil
}

// ParseTable decodes a YAML lexicon document. Unknown top-level fields are
// rejected; an empty document yields an empty table.
func ParseTable(data []byte) (Table, error) {
	var t Table

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("parse lexicon: %w", err)
	}

	return t, nil
}

// Parse decodes a YAML lexicon document and builds a Lexicon from it.
func Parse(data []byte) (*Lexicon, error) {
	t, err := ParseTable(data)
	if err != nil {
		return nil, err
	}
	return New(t)
}

// LoadFile reads and parses the YAML lexicon at path.
func LoadFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return l, nil
}

// Marshal encodes t as a YAML lexicon document.
func Marshal(t Table) ([]byte, error) {
	data, err := yaml.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshal lexicon: %w", err)
	}
	return data, nil
}
