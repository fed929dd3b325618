package doc

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MarshalYAML renders v as a YAML document, keeping key order.
func MarshalYAML(v Value) ([]byte, error) {
	node, err := YAMLNode(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// YAMLNode converts v to a yaml.Node tree. Mapping nodes carry keys in
// document order, which yaml.Marshal of a Go map would not.
func YAMLNode(v Value) (*yaml.Node, error) {
	switch val := v.(type) {
	case Null:
		return scalar("!!null", "null"), nil
	case Bool:
		if val {
			return scalar("!!bool", "true"), nil
		}
		return scalar("!!bool", "false"), nil
	case String:
		return scalar("!!str", string(val)), nil
	case Number:
		if !ValidNumber(string(val)) {
			return nil, fmt.Errorf("invalid number literal %q", string(val))
		}
		if val.IsInteger() {
			return scalar("!!int", string(val)), nil
		}
		return scalar("!!float", string(val)), nil
	case Array:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, elem := range val {
			n, err := YAMLNode(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			seq.Content = append(seq.Content, n)
		}
		return seq, nil
	case *Document:
		if val == nil {
			return nil, fmt.Errorf("nil document")
		}
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range val.elems {
			n, err := YAMLNode(e.Value)
			if err != nil {
				return nil, fmt.Errorf("value for key %q: %w", e.Key, err)
			}
			m.Content = append(m.Content, scalar("!!str", e.Key), n)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown document value type: %T", v)
	}
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
