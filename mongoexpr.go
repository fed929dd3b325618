// Package mongoexpr compiles JavaScript-style expressions into MongoDB filter
// and update documents.
//
// Comparisons, && and ||, and field methods produce filters:
//
//	d, err := mongoexpr.Compile(`age >= 18 && tags.in("a", "b")`)
//	// {"age":{"$gte":18},"tags":{"$in":["a","b"]}}
//
// Comma-separated assignments, delete and ++ produce updates:
//
//	d, err := mongoexpr.Compile(`name = "x", visits += 1, delete tmp`)
//	// {"$set":{"name":"x"},"$inc":{"visits":1},"$unset":{"tmp":null}}
//
// Documents render as JSON (Document.MarshalJSON), YAML (doc.MarshalYAML) or
// a driver bson.D (ToBSON).
package mongoexpr

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/compiler"
	"github.com/roach88/mongoexpr/internal/doc"
	"github.com/roach88/mongoexpr/internal/mapping"
)

type (
	// Node is an expression tree node.
	Node = ast.Node
	// Program is the root of a parsed expression.
	Program = ast.Program
	// Document is an ordered filter or update document.
	Document = doc.Document
	// Tables maps operator tokens and method names to MongoDB operators.
	Tables = mapping.Tables
	// Compiler compiles against one set of tables and is safe for concurrent use.
	Compiler = compiler.Compiler
	// Error is a rejected input shape.
	Error = compiler.Error
	// SourceError is a parse failure with its position.
	SourceError = compiler.SourceError
)

// Error kinds, matched with errors.Is.
var (
	ErrUnsupportedNodeKind           = compiler.ErrUnsupportedNodeKind
	ErrUnsupportedOperator           = compiler.ErrUnsupportedOperator
	ErrUnsupportedMethod             = compiler.ErrUnsupportedMethod
	ErrUnsupportedUnaryForm          = compiler.ErrUnsupportedUnaryForm
	ErrUnsupportedAssignmentOperator = compiler.ErrUnsupportedAssignmentOperator
	ErrUnsupportedSequenceMember     = compiler.ErrUnsupportedSequenceMember
	ErrUnsupportedOperand            = compiler.ErrUnsupportedOperand
	ErrMalformedSource               = compiler.ErrMalformedSource
	ErrEmptyExpression               = compiler.ErrEmptyExpression
)

// Compile compiles src with the built-in tables.
func Compile(src string) (*Document, error) {
	return compiler.Compile(src)
}

// CompileTree compiles a pre-built tree with the built-in tables.
func CompileTree(n Node) (*Document, error) {
	return compiler.New(nil).CompileTree(n)
}

// Parse parses src into a tree without compiling it.
func Parse(src string) (*Program, error) {
	return compiler.Parse(src)
}

// New returns a Compiler over tables, or the built-in tables when nil.
func New(tables *Tables) *Compiler {
	return compiler.New(tables)
}

// LoadTables reads a CUE table file.
func LoadTables(path string) (*Tables, error) {
	return mapping.Load(path)
}

// DecodeTree decodes a tree from the JSON form printed by "mongoexpr parse".
func DecodeTree(data []byte) (Node, error) {
	return ast.DecodeJSON(data)
}

// ToBSON converts d for use with the MongoDB driver.
func ToBSON(d *Document) (bson.D, error) {
	return doc.ToBSON(d)
}
