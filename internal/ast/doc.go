// Package ast defines the expression tree consumed by the query compiler.
//
// The tree is a closed tagged union. Node is a sealed interface: only the
// types in this package implement it, so consumers can type-switch over the
// full set of kinds and treat anything else as impossible.
//
//	switch n := node.(type) {
//	case *BinaryExpression:
//	    // comparison or logical operator
//	case *CallExpression:
//	    // field.method(args...)
//	...
//	}
//
// Trees are produced by the parser package, decoded from JSON with
// DecodeJSON, or built directly with the helpers in build.go. Nodes are
// read-only once built: the compiler never mutates its input.
//
// NODE KINDS:
//
//	Program               top-level list of statements
//	Statement             expression statement
//	StringLiteral         "text"
//	NumberLiteral         1, -2, 1.50 (literal text is kept as written)
//	BooleanLiteral        true, false
//	NullLiteral           null
//	Identifier            a
//	MemberAccess          a.b
//	BinaryExpression      a == 1, a && b, a || b
//	UnaryExpression       -1, !a, delete a, ++a
//	ArrayLiteral          [1, 2, 3]
//	CallExpression        a.in(1, 2)
//	AssignmentExpression  a = 1, a += 2
//	SequenceExpression    a = 1, delete b (right-associated chain)
package ast
