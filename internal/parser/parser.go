// Package parser turns expression source text into an ast tree.
//
// Parsing is done by goja's ECMAScript parser; this package converts the
// subset of its tree that the compiler understands and reports everything
// else as an *UnsupportedError with the construct's position.
package parser

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	jsast "github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	jsparser "github.com/dop251/goja/parser"
	"github.com/dop251/goja/token"

	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/doc"
)

// Parse parses src into a Program. Empty statements are dropped, so an
// empty or blank source yields a Program with no body.
func Parse(src string) (*ast.Program, error) {
	prog, err := jsparser.ParseFile(nil, "", src, 0)
	if err != nil {
		return nil, newSyntaxError(src, err)
	}

	c := &converter{src: src}
	out := &ast.Program{}
	for _, stmt := range prog.Body {
		switch s := stmt.(type) {
		case *jsast.EmptyStatement:
			continue
		case *jsast.ExpressionStatement:
			expr, err := c.expr(s.Expression)
			if err != nil {
				return nil, err
			}
			out.Body = append(out.Body, &ast.Statement{Expr: expr})
		default:
			return nil, c.unsupported(ast.KindStatement, constructName(stmt), stmt.Idx0())
		}
	}
	return out, nil
}

type converter struct {
	src string
}

func (c *converter) expr(e jsast.Expression) (ast.Node, error) {
	switch n := e.(type) {
	case *jsast.StringLiteral:
		return &ast.StringLiteral{Value: n.Value.String()}, nil

	case *jsast.NumberLiteral:
		literal, err := numberText(n)
		if err != nil {
			return nil, c.unsupported(ast.KindNumber, "number literal "+n.Literal, n.Idx0())
		}
		return &ast.NumberLiteral{Literal: literal}, nil

	case *jsast.BooleanLiteral:
		return &ast.BooleanLiteral{Value: n.Value}, nil

	case *jsast.NullLiteral:
		return &ast.NullLiteral{}, nil

	case *jsast.Identifier:
		return &ast.Identifier{Name: n.Name.String()}, nil

	case *jsast.DotExpression:
		base, err := c.expr(n.Left)
		if err != nil {
			return nil, err
		}
		return &ast.MemberAccess{Base: base, Property: n.Identifier.Name.String()}, nil

	case *jsast.BinaryExpression:
		left, err := c.expr(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := c.expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{Operator: n.Operator.String(), Left: left, Right: right}, nil

	case *jsast.UnaryExpression:
		return c.unary(n)

	case *jsast.ArrayLiteral:
		var elems []ast.Node
		for _, v := range n.Value {
			if v == nil {
				return nil, c.unsupported(ast.KindArray, "array elision", n.Idx0())
			}
			elem, err := c.expr(v)
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return &ast.ArrayLiteral{Elements: elems}, nil

	case *jsast.CallExpression:
		dot, ok := n.Callee.(*jsast.DotExpression)
		if !ok {
			return nil, c.unsupported(ast.KindCall, "call of "+constructName(n.Callee), n.Idx0())
		}
		callee, err := c.expr(dot)
		if err != nil {
			return nil, err
		}
		var args []ast.Node
		for _, a := range n.ArgumentList {
			arg, err := c.expr(a)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		return &ast.CallExpression{Callee: callee.(*ast.MemberAccess), Arguments: args}, nil

	case *jsast.AssignExpression:
		target, err := c.expr(n.Left)
		if err != nil {
			return nil, err
		}
		value, err := c.expr(n.Right)
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentExpression{Operator: assignOperator(n.Operator), Target: target, Value: value}, nil

	case *jsast.SequenceExpression:
		return c.sequence(n)

	default:
		return nil, c.unsupported(ast.KindInvalid, constructName(e), e.Idx0())
	}
}

func (c *converter) unary(n *jsast.UnaryExpression) (ast.Node, error) {
	var op ast.UnaryKind
	switch {
	case n.Postfix:
		return nil, c.unsupported(ast.KindUnary, "postfix "+n.Operator.String(), n.Idx0())
	case n.Operator == token.MINUS:
		op = ast.UnaryNegate
	case n.Operator == token.NOT:
		op = ast.UnaryNot
	case n.Operator == token.DELETE:
		op = ast.UnaryDelete
	case n.Operator == token.INCREMENT:
		op = ast.UnaryIncrement
	default:
		return nil, c.unsupported(ast.KindUnary, "unary "+n.Operator.String(), n.Idx0())
	}

	operand, err := c.expr(n.Operand)
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpression{Op: op, Operand: operand}, nil
}

// sequence converts goja's flat member list into the right-nested chain.
func (c *converter) sequence(n *jsast.SequenceExpression) (ast.Node, error) {
	if len(n.Sequence) == 0 {
		return nil, c.unsupported(ast.KindSequence, "empty sequence", n.Idx0())
	}
	members := make([]ast.Node, len(n.Sequence))
	for i, e := range n.Sequence {
		m, err := c.expr(e)
		if err != nil {
			return nil, err
		}
		members[i] = m
	}
	return ast.Seq(members...), nil
}

// assignOperator renders the assignment token. goja stores compound
// assignments by their arithmetic operator: += is token.PLUS.
func assignOperator(t token.Token) string {
	if t == token.ASSIGN {
		return ast.OpAssign
	}
	return t.String() + "="
}

// numberText returns the literal as JSON number text. Forms JSON has no
// spelling for (hex, octal, leading dot) are rewritten from the parsed value.
func numberText(n *jsast.NumberLiteral) (string, error) {
	if doc.ValidNumber(n.Literal) {
		return n.Literal, nil
	}
	switch v := n.Value.(type) {
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return "", fmt.Errorf("number %s is not finite", n.Literal)
		}
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	default:
		return "", fmt.Errorf("unexpected number value %T", n.Value)
	}
}

func constructName(n jsast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

func (c *converter) unsupported(kind ast.Kind, construct string, idx file.Idx) error {
	offset := int(idx) - 1
	line, col := position(c.src, offset)
	return &UnsupportedError{Kind: kind, Construct: construct, Line: line, Column: col, Offset: offset}
}

// UnsupportedError is a construct the parser accepts but the ast cannot
// represent. Kind is the closest node kind, or ast.KindInvalid when there is
// none.
type UnsupportedError struct {
	Kind      ast.Kind
	Construct string
	Line      int
	Column    int
	Offset    int
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%d:%d: unsupported %s", e.Line, e.Column, e.Construct)
}

// SyntaxError is a parse failure. Line and Column are 1-based; Offset is the
// byte offset into the source; SourceLine is the text of the failing line.
type SyntaxError struct {
	Message    string
	Line       int
	Column     int
	Offset     int
	SourceLine string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

func newSyntaxError(src string, err error) *SyntaxError {
	var first *jsparser.Error
	var list jsparser.ErrorList
	switch {
	case errors.As(err, &list) && len(list) > 0:
		first = list[0]
	case errors.As(err, &first):
	default:
		return &SyntaxError{Message: err.Error(), Line: 1, Column: 1, SourceLine: sourceLine(src, 1)}
	}

	line, col := first.Position.Line, first.Position.Column
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	return &SyntaxError{
		Message:    first.Message,
		Line:       line,
		Column:     col,
		Offset:     offsetOf(src, line, col),
		SourceLine: sourceLine(src, line),
	}
}

// position maps a byte offset to a 1-based line and column.
func position(src string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line = 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return line, offset - lineStart + 1
}

// offsetOf is the inverse of position, clamped to the source length.
func offsetOf(src string, line, col int) int {
	offset := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(src[offset:], '\n')
		if i < 0 {
			return len(src)
		}
		offset += i + 1
	}
	return min(offset+col-1, len(src))
}

func sourceLine(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}
