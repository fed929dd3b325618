// Package doc provides the value model for compiled query documents.
//
// Documents are ordered: keys keep their insertion order, which is the order
// the compiler encountered them in the source. MongoDB gives meaning to key
// order in some places (embedded document equality, index specs) and
// readers expect `a == 1 && b == 2` to come back as {"a":1,"b":2}, so a Go
// map cannot carry the result.
//
// Key design constraints:
//   - Value is sealed: Null, Bool, String, Number, Array, *Document only
//   - Number keeps JSON number text, never a float64, so 1 and 1.50 survive
//   - No HTML escaping in any rendering ($where bodies routinely contain < and &)
package doc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Value is a sealed interface representing document values.
type Value interface {
	docValue() // Sealed - only these types implement it
}

// Null is the JSON null value, used by $unset.
type Null struct{}

func (Null) docValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) docValue() {}

// String is a string value.
type String string

func (String) docValue() {}

// Number holds the text of a JSON number exactly as it was written.
// Construct with ParseNumber or Int to guarantee a valid literal.
type Number string

func (Number) docValue() {}

// Array is an ordered list of values.
type Array []Value

func (Array) docValue() {}

// numberPattern is the JSON number grammar (RFC 8259 section 6).
var numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// ValidNumber reports whether s is a JSON number literal.
func ValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}

// ParseNumber validates s as a JSON number literal.
func ParseNumber(s string) (Number, error) {
	if !ValidNumber(s) {
		return "", fmt.Errorf("invalid number literal %q", s)
	}
	return Number(s), nil
}

// Int returns the Number for n.
func Int(n int64) Number {
	return Number(strconv.FormatInt(n, 10))
}

// IsInteger reports whether the literal has no fraction or exponent.
func (n Number) IsInteger() bool {
	return !strings.ContainsAny(string(n), ".eE")
}

// Negate returns -n, keeping the literal form of the magnitude.
func (n Number) Negate() Number {
	if strings.HasPrefix(string(n), "-") {
		return n[1:]
	}
	return "-" + n
}

// Element is one key/value pair of a Document.
type Element struct {
	Key   string
	Value Value
}

// E is a shorthand for Element for ergonomic construction.
// Example: NewDocument(E("a", Int(1)), E("b", String("x")))
func E(key string, value Value) Element {
	return Element{Key: key, Value: value}
}

// Document is an ordered set of key/value pairs.
// The zero value is an empty document ready to use.
type Document struct {
	elems []Element
	index map[string]int
}

func (*Document) docValue() {}

// NewDocument creates a document from elements, in order.
// A repeated key replaces the earlier value and keeps the earlier position.
func NewDocument(elems ...Element) *Document {
	d := &Document{}
	for _, e := range elems {
		d.Set(e.Key, e.Value)
	}
	return d
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (d *Document) Set(key string, value Value) {
	if i, ok := d.index[key]; ok {
		d.elems[i].Value = value
		return
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.index[key] = len(d.elems)
	d.elems = append(d.elems, Element{Key: key, Value: value})
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.elems[i].Value, true
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.index[key]
	return ok
}

// Len returns the number of keys.
func (d *Document) Len() int {
	return len(d.elems)
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	keys := make([]string, len(d.elems))
	for i, e := range d.elems {
		keys[i] = e.Key
	}
	return keys
}

// Elements returns a copy of the key/value pairs in insertion order.
func (d *Document) Elements() []Element {
	return append([]Element(nil), d.elems...)
}

// String renders the document as compact JSON, for debugging and test output.
func (d *Document) String() string {
	b, err := Marshal(d)
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(b)
}
