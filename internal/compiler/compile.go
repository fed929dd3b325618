// Package compiler translates expression trees into MongoDB filter and update
// documents.
//
// A Compiler holds nothing but a pointer to immutable mapping tables, so one
// value can serve any number of goroutines. Every failure is returned as an
// error matching one of the Err* kinds; no partial document is produced.
//
// Usage:
//
//	c := compiler.New(nil) // default tables
//	d, err := c.CompileString(`a >= 1 && b.in(1, 2)`)
//	// d: {"a":{"$gte":1},"b":{"$in":[1,2]}}
package compiler

import (
	"errors"
	"sync"

	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/doc"
	"github.com/roach88/mongoexpr/internal/mapping"
	"github.com/roach88/mongoexpr/internal/parser"
	"github.com/roach88/mongoexpr/internal/visit"
)

// Compiler compiles expressions against one set of mapping tables.
type Compiler struct {
	tables *mapping.Tables
}

// New returns a Compiler using tables, or mapping.Default() when tables is nil.
func New(tables *mapping.Tables) *Compiler {
	if tables == nil {
		tables = mapping.Default()
	}
	return &Compiler{tables: tables}
}

// Tables returns the tables the compiler translates through.
func (c *Compiler) Tables() *mapping.Tables {
	return c.tables
}

// CompileString parses src and compiles the resulting tree.
// Parse failures are returned as *SourceError.
func (c *Compiler) CompileString(src string) (*doc.Document, error) {
	prog, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return c.CompileTree(prog)
}

// CompileTree compiles a pre-built tree. n is usually a *ast.Program, but any
// node that compiles to a filter or update document is accepted.
func (c *Compiler) CompileTree(n ast.Node) (*doc.Document, error) {
	if n == nil {
		return nil, &Error{Kind: ErrEmptyExpression, Subject: ast.KindInvalid.String(), Message: "empty expression"}
	}

	f, err := visit.Walk[Fragment](translator{tables: c.tables}, n)
	if err != nil {
		return nil, fromWalkError(err)
	}

	switch v := f.(type) {
	case Condition:
		return v.Doc, nil
	case Update:
		return v.Doc, nil
	default:
		return nil, newError(ErrUnsupportedOperand, n.Kind().String(),
			"expression is %s, expected a condition or an update", describe(f))
	}
}

var defaultCompiler = sync.OnceValue(func() *Compiler { return New(nil) })

// Compile compiles src with the default tables.
func Compile(src string) (*doc.Document, error) {
	return defaultCompiler().CompileString(src)
}

// Parse parses src into a tree without compiling it. Failures match the same
// kinds CompileString reports for them.
func Parse(src string) (*ast.Program, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, fromParseError(err)
	}
	return prog, nil
}

// fromWalkError turns dispatch failures into *Error.
func fromWalkError(err error) error {
	var unsupported *visit.UnsupportedError
	if errors.As(err, &unsupported) {
		return newError(ErrUnsupportedNodeKind, unsupported.Kind.String(),
			"unsupported node kind %q", unsupported.Kind.String())
	}
	return err
}

// fromParseError turns parser failures into *SourceError or *Error.
func fromParseError(err error) error {
	var syntaxErr *parser.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &SourceError{
			Message:    syntaxErr.Message,
			Line:       syntaxErr.Line,
			Column:     syntaxErr.Column,
			Offset:     syntaxErr.Offset,
			SourceLine: syntaxErr.SourceLine,
		}
	}

	var unsupported *parser.UnsupportedError
	if errors.As(err, &unsupported) {
		kind := ErrUnsupportedNodeKind
		if unsupported.Kind == ast.KindUnary {
			kind = ErrUnsupportedUnaryForm
		}
		return &Error{Kind: kind, Subject: unsupported.Construct, Message: unsupported.Error()}
	}

	return err
}
