package engine

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"doorcost/core/determinism"
)

// Quantities maps counted-option ids to requested quantities.
// Iteration follows insertion order, which is also the order counted
// lines appear in a breakdown. Copies share storage; use Clone.
type Quantities struct {
	m determinism.OrderedMap[string, int]
}

// Counts builds Quantities from pairs, keeping their order
func Counts(pairs ...Count) Quantities {
	var q Quantities
	for _, p := range pairs {
		q.Set(p.ID, p.N)
	}
	return q
}

// Count is a single id/quantity pair
type Count struct {
	ID string
	N  int
}

// Set records n for id. An existing id keeps its position.
func (q *Quantities) Set(id string, n int) {
	q.m.Set(id, n)
}

// Get returns the quantity for id
func (q Quantities) Get(id string) (int, bool) {
	return q.m.Get(id)
}

// Each calls fn for every entry in order
func (q Quantities) Each(fn func(id string, n int)) {
	q.m.Range(func(id string, n int) bool {
		fn(id, n)
		return true
	})
}

// Keys returns ids in order
func (q Quantities) Keys() []string {
	return q.m.Keys()
}

// Len returns the number of entries
func (q Quantities) Len() int {
	return q.m.Len()
}

// IsZero reports whether no quantities are recorded
func (q Quantities) IsZero() bool {
	return q.Len() == 0
}

// Clone returns an independent copy
func (q Quantities) Clone() Quantities {
	return Quantities{m: *q.m.Clone()}
}

// MarshalJSON writes an object whose keys keep insertion order
func (q Quantities) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	i := 0
	var err error
	q.Each(func(id string, n int) {
		if err != nil {
			return
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		var key []byte
		key, err = json.Marshal(id)
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", n)
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object token by token so document order survives
func (q *Quantities) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*q = Quantities{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("counts: expected object, got %v", tok)
	}

	var out Quantities
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("counts: expected string key, got %v", tok)
		}
		var n int
		if err := dec.Decode(&n); err != nil {
			return fmt.Errorf("counts: %q: %w", id, err)
		}
		out.Set(id, n)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*q = out
	return nil
}

// MarshalYAML emits an ordered mapping node
func (q Quantities) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	q.Each(func(id string, n int) {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(n)},
		)
	})
	return node, nil
}

// UnmarshalYAML walks the mapping node in document order
func (q *Quantities) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("counts: line %d: expected mapping", node.Line)
	}
	var out Quantities
	for i := 0; i+1 < len(node.Content); i += 2 {
		var n int
		if err := node.Content[i+1].Decode(&n); err != nil {
			return fmt.Errorf("counts: %q: %w", node.Content[i].Value, err)
		}
		out.Set(node.Content[i].Value, n)
	}
	*q = out
	return nil
}
