package doc

import (
	"bytes"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a canonical JSON encoding of v for hashing and
// for comparing documents independent of key order.
//
// Differences from Marshal:
//  1. Object keys sorted by UTF-16 code units (RFC 8785), not insertion order
//  2. Strings are NFC normalized
//  3. U+2028 and U+2029 are written literally, not escaped
//
// Numbers keep their literal text: 1 and 1.0 stay distinct, because the
// compiler preserves the distinction in the documents it emits.
func MarshalCanonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, canonicalize(v), encodeCanonicalString); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// canonicalize returns v with every document's keys in canonical order.
func canonicalize(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = canonicalize(elem)
		}
		return out
	case *Document:
		if val == nil {
			return val
		}
		elems := val.Elements()
		slices.SortStableFunc(elems, func(a, b Element) int {
			return compareKeysRFC8785(a.Key, b.Key)
		})
		out := &Document{}
		for _, e := range elems {
			out.Set(e.Key, canonicalize(e.Value))
		}
		return out
	default:
		return v
	}
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
// Go's default string comparison uses UTF-8 which produces DIFFERENT order.
func compareKeysRFC8785(a, b string) int {
	return slices.Compare(utf16.Encode([]rune(a)), utf16.Encode([]rune(b)))
}

// encodeCanonicalString writes an NFC-normalized JSON string.
// RFC 8785: only control characters, backslash and quote are escaped.
func encodeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	if err := encodeString(&tmp, norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(unescapeLineSeparators(tmp.Bytes()))
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes emitted by
// encoding/json back into literal characters. Escape sequences are consumed
// pairwise, so an escaped backslash followed by "u2028" text is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' || i+1 >= len(data) {
			out = append(out, data[i])
			continue
		}
		if data[i+1] == 'u' && i+6 <= len(data) && string(data[i+2:i+5]) == "202" {
			switch data[i+5] {
			case '8':
				out = append(out, "\u2028"...)
				i += 5
				continue
			case '9':
				out = append(out, "\u2029"...)
				i += 5
				continue
			}
		}
		out = append(out, data[i], data[i+1])
		i++
	}
	return out
}
