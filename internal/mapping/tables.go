// Package mapping holds the operator and method tables the compiler
// translates through.
//
// Tables are immutable once built. Default returns the embedded tables,
// compiled on first use and shared by every caller; Load and LoadBytes read an
// alternative table file validated against the same CUE schema.
package mapping

import (
	"fmt"
	"strings"
)

// Shape is the argument shape of a method call.
type Shape int

const (
	ShapeInvalid Shape = iota
	// ShapeArray collects every argument into one array.
	ShapeArray
	// ShapeSingle uses the first argument, or true when there is none.
	ShapeSingle
	// ShapeTwo uses the first argument as the value and the second as the
	// method's option.
	ShapeTwo
	// ShapeExpr compiles the single argument as a condition.
	ShapeExpr
)

var shapeNames = map[Shape]string{
	ShapeArray:  "array",
	ShapeSingle: "single",
	ShapeTwo:    "two",
	ShapeExpr:   "expr",
}

func (s Shape) String() string {
	if name, ok := shapeNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Shape(%d)", int(s))
}

// Signature renders the argument list a shape accepts.
func (s Shape) Signature() string {
	switch s {
	case ShapeArray:
		return "value, ..."
	case ShapeSingle:
		return "value"
	case ShapeTwo:
		return "value, value"
	case ShapeExpr:
		return "expr"
	default:
		return "?"
	}
}

// ParseShape returns the shape with the given name.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return s, nil
		}
	}
	return ShapeInvalid, fmt.Errorf("unknown argument shape %q", name)
}

// Operator maps a binary operator token to its target operator.
// Disallowed operators are recognized only so diagnostics can say so.
type Operator struct {
	Token   string
	Target  string
	Allowed bool
}

// Method maps a method name to its target operator and argument shape.
type Method struct {
	Name   string
	Target string
	Shape  Shape
	// Option is the key of the secondary argument for ShapeTwo methods.
	Option string
}

// Signature renders the method as it is written in source, e.g. "in(value, ...)".
func (m Method) Signature() string {
	return m.Name + "(" + m.Shape.Signature() + ")"
}

// Tables is an immutable pair of operator and method tables.
type Tables struct {
	operators []Operator
	methods   []Method
	opIndex   map[string]int
	mIndex    map[string]int
}

// New builds tables from ordered entries.
//
// Tokens and method names must be unique, allowed operators and every method
// need a target, and two-argument methods need an option key.
func New(operators []Operator, methods []Method) (*Tables, error) {
	t := &Tables{
		operators: append([]Operator(nil), operators...),
		methods:   append([]Method(nil), methods...),
		opIndex:   make(map[string]int, len(operators)),
		mIndex:    make(map[string]int, len(methods)),
	}

	for i, op := range t.operators {
		if op.Token == "" {
			return nil, fmt.Errorf("operators[%d]: empty token", i)
		}
		if _, dup := t.opIndex[op.Token]; dup {
			return nil, fmt.Errorf("operators[%d]: duplicate token %q", i, op.Token)
		}
		if op.Allowed && op.Target == "" {
			return nil, fmt.Errorf("operators[%d]: operator %q is allowed but has no target", i, op.Token)
		}
		t.opIndex[op.Token] = i
	}

	for i, m := range t.methods {
		if m.Name == "" {
			return nil, fmt.Errorf("methods[%d]: empty name", i)
		}
		if _, dup := t.mIndex[m.Name]; dup {
			return nil, fmt.Errorf("methods[%d]: duplicate method %q", i, m.Name)
		}
		if m.Target == "" {
			return nil, fmt.Errorf("methods[%d]: method %q has no target", i, m.Name)
		}
		if _, ok := shapeNames[m.Shape]; !ok {
			return nil, fmt.Errorf("methods[%d]: method %q has invalid shape %v", i, m.Name, m.Shape)
		}
		if m.Shape == ShapeTwo && m.Option == "" {
			return nil, fmt.Errorf("methods[%d]: two-argument method %q needs an option key", i, m.Name)
		}
		t.mIndex[m.Name] = i
	}

	return t, nil
}

// Operator looks up a binary operator token.
func (t *Tables) Operator(token string) (Operator, bool) {
	i, ok := t.opIndex[token]
	if !ok {
		return Operator{}, false
	}
	return t.operators[i], true
}

// Method looks up a method by name.
func (t *Tables) Method(name string) (Method, bool) {
	i, ok := t.mIndex[name]
	if !ok {
		return Method{}, false
	}
	return t.methods[i], true
}

// Operators returns all operator entries in table order.
func (t *Tables) Operators() []Operator {
	return append([]Operator(nil), t.operators...)
}

// Methods returns all method entries in table order.
func (t *Tables) Methods() []Method {
	return append([]Method(nil), t.methods...)
}

// SupportedOperators returns the tokens of allowed operators in table order.
func (t *Tables) SupportedOperators() []string {
	var tokens []string
	for _, op := range t.operators {
		if op.Allowed {
			tokens = append(tokens, op.Token)
		}
	}
	return tokens
}

// MethodSignatures returns the signature of every method in table order.
func (t *Tables) MethodSignatures() []string {
	sigs := make([]string, len(t.methods))
	for i, m := range t.methods {
		sigs[i] = m.Signature()
	}
	return sigs
}

// String summarizes the tables on two lines.
func (t *Tables) String() string {
	return "operators: " + strings.Join(t.SupportedOperators(), " ") +
		"\nmethods: " + strings.Join(t.MethodSignatures(), " ")
}
