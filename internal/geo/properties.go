package geo

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Properties holds feature attributes in their original document order.
// encoding/json maps would lose that order, and popup content is built from
// the attributes exactly as they appear in the source file.
type Properties struct {
	keys   []string
	values map[string]interface{}
}

// Len reports the number of attributes.
func (p Properties) Len() int { return len(p.keys) }

// Keys returns the attribute names in source order.
func (p Properties) Keys() []string {
	out := make([]string, len(p.keys))
	copy(out, p.keys)
	return out
}

// Get returns the value for key and whether it was present.
func (p Properties) Get(key string) (interface{}, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Set adds or replaces an attribute. New keys append to the order.
func (p *Properties) Set(key string, value interface{}) {
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// UnmarshalJSON decodes a JSON object token by token, recording key order.
// A JSON null leaves the set empty. Duplicate keys keep their first position
// and the last value, matching encoding/json map behavior.
func (p *Properties) UnmarshalJSON(data []byte) error {
	p.keys = nil
	p.values = nil

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("properties: expected key, got %v", tok)
		}

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		p.Set(key, value)
	}

	_, err = dec.Token() // consume closing brace
	return err
}

// MarshalJSON writes the attributes back as an object in source order.
func (p Properties) MarshalJSON() ([]byte, error) {
	if len(p.keys) == 0 {
		return []byte("{}"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// MarshalYAML flattens the attributes to a plain map for the YAML output of
// the import tool. Order is not preserved there; YAML consumers do not build
// popups.
func (p Properties) MarshalYAML() (interface{}, error) {
	return p.values, nil
}
