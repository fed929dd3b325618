package compiler

import (
	"fmt"

	"github.com/roach88/mongoexpr/internal/doc"
)

// Fragment is the result of compiling one node. It is sealed: Field,
// Literal, Condition, Update.
type Fragment interface {
	fragment()
}

// Field is a dotted document path, from an identifier or member access.
type Field struct {
	Path string
}

// Literal is a value: a scalar or an array of values.
type Literal struct {
	Value doc.Value
}

// Condition is a filter document.
type Condition struct {
	Doc *doc.Document
}

// Update is an update document from assignment, delete or increment.
type Update struct {
	Doc *doc.Document
}

func (Field) fragment()     {}
func (Literal) fragment()   {}
func (Condition) fragment() {}
func (Update) fragment()    {}

// describe names a fragment for diagnostics.
func describe(f Fragment) string {
	switch v := f.(type) {
	case Field:
		return "field " + v.Path
	case Literal:
		s, err := doc.Marshal(v.Value)
		if err != nil {
			return "value"
		}
		return "value " + string(s)
	case Condition:
		return "condition " + v.Doc.String()
	case Update:
		return "update " + v.Doc.String()
	default:
		return fmt.Sprintf("%T", f)
	}
}
