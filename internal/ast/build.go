package ast

import (
	"strconv"
	"strings"
)

// Helpers for building trees by hand. They mirror what the parser produces
// for the equivalent source text, so a tree built here compiles to the same
// document as the source it spells out.

// Expr wraps a single expression in a Program, as the parser does.
func Expr(n Node) *Program {
	return &Program{Body: []Node{&Statement{Expr: n}}}
}

// Path builds an Identifier or a chain of MemberAccess nodes from a dotted
// path: Path("a.b.c") is ((a).b).c.
func Path(path string) Node {
	parts := strings.Split(path, ".")
	var n Node = &Identifier{Name: parts[0]}
	for _, p := range parts[1:] {
		n = &MemberAccess{Base: n, Property: p}
	}
	return n
}

// Str builds a string literal.
func Str(s string) *StringLiteral { return &StringLiteral{Value: s} }

// Num builds a number literal from its source text.
func Num(literal string) *NumberLiteral { return &NumberLiteral{Literal: literal} }

// Int builds an integer number literal.
func Int(n int64) *NumberLiteral { return &NumberLiteral{Literal: strconv.FormatInt(n, 10)} }

// Bool builds a boolean literal.
func Bool(b bool) *BooleanLiteral { return &BooleanLiteral{Value: b} }

// Null builds a null literal.
func Null() *NullLiteral { return &NullLiteral{} }

// Binary builds Left op Right.
func Binary(op string, left, right Node) *BinaryExpression {
	return &BinaryExpression{Operator: op, Left: left, Right: right}
}

// And folds operands into a left-leaning && chain, the shape the parser
// produces for a && b && c.
func And(operands ...Node) Node {
	return foldLeft(OpAnd, operands)
}

// Or folds operands into a left-leaning || chain.
func Or(operands ...Node) Node {
	return foldLeft(OpOr, operands)
}

func foldLeft(op string, operands []Node) Node {
	if len(operands) == 0 {
		return nil
	}
	n := operands[0]
	for _, o := range operands[1:] {
		n = Binary(op, n, o)
	}
	return n
}

// Unary builds a prefix expression.
func Unary(op UnaryKind, operand Node) *UnaryExpression {
	return &UnaryExpression{Op: op, Operand: operand}
}

// Array builds an array literal.
func Array(elements ...Node) *ArrayLiteral {
	return &ArrayLiteral{Elements: elements}
}

// Call builds field.method(args...).
func Call(field Node, method string, args ...Node) *CallExpression {
	return &CallExpression{
		Callee:    &MemberAccess{Base: field, Property: method},
		Arguments: args,
	}
}

// Assign builds target op value.
func Assign(op string, target, value Node) *AssignmentExpression {
	return &AssignmentExpression{Operator: op, Target: target, Value: value}
}

// Seq builds a right-associated comma chain from its members.
// A single member is returned as is.
func Seq(members ...Node) Node {
	if len(members) == 0 {
		return nil
	}
	n := members[len(members)-1]
	for i := len(members) - 2; i >= 0; i-- {
		n = &SequenceExpression{Left: members[i], Right: n}
	}
	return n
}
