package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Marshal encodes v as compact JSON, keeping document key order.
// Uses type-switch dispatch to handle all Value types.
func Marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v, encodeString); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalIndent is like Marshal but indents the output.
func MarshalIndent(v Value, prefix, indent string) ([]byte, error) {
	compact, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler, keeping key order.
func (d *Document) MarshalJSON() ([]byte, error) {
	return Marshal(d)
}

// MarshalJSON implements json.Marshaler for Array.
func (a Array) MarshalJSON() ([]byte, error) {
	return Marshal(a)
}

// stringEncoder writes a JSON string; json and canonical output differ only
// in how strings are written.
type stringEncoder func(buf *bytes.Buffer, s string) error

func encodeValue(buf *bytes.Buffer, v Value, str stringEncoder) error {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case String:
		return str(buf, string(val))
	case Number:
		if !ValidNumber(string(val)) {
			return fmt.Errorf("invalid number literal %q", string(val))
		}
		buf.WriteString(string(val))
	case Array:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeValue(buf, elem, str); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case *Document:
		if val == nil {
			return fmt.Errorf("nil document")
		}
		buf.WriteByte('{')
		for i, e := range val.elems {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := str(buf, e.Key); err != nil {
				return fmt.Errorf("key %q: %w", e.Key, err)
			}
			buf.WriteByte(':')
			if err := encodeValue(buf, e.Value, str); err != nil {
				return fmt.Errorf("value for key %q: %w", e.Key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unknown document value type: %T", v)
	}
	return nil
}

// encodeString writes s as a JSON string without HTML escaping.
func encodeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false) // <, >, & must NOT be escaped
	if err := enc.Encode(s); err != nil {
		return err
	}
	// json.Encoder adds trailing newline, remove it
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
