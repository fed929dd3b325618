// Package visit dispatches ast nodes to per-kind handlers.
//
// A Visitor has one method per node kind. Walk reads the kind and calls the
// matching method, compiling children first where the handler only needs
// their results. The && handler and the sequence handler get the raw node and
// a Func instead, because they inspect leaf shapes before compiling them.
//
// A new output dialect is a new Visitor; Walk does not change. Embed
// Unsupported to implement only the kinds a dialect understands.
package visit

import (
	"errors"
	"fmt"

	"github.com/roach88/mongoexpr/internal/ast"
)

// ErrUnsupportedNodeKind is matched by every *UnsupportedError.
var ErrUnsupportedNodeKind = errors.New("unsupported node kind")

// UnsupportedError reports a node kind a visitor does not handle.
type UnsupportedError struct {
	Kind ast.Kind
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported node kind: %s", e.Kind)
}

// Is makes errors.Is(err, ErrUnsupportedNodeKind) hold.
func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupportedNodeKind
}

// Func compiles a subtree. Handlers that receive one use it to compile the
// leaves they collect.
type Func[R any] func(ast.Node) (R, error)

// Visitor has one handler per node kind.
type Visitor[R any] interface {
	VisitProgram(n *ast.Program, body []R) (R, error)
	VisitStatement(n *ast.Statement, expr R) (R, error)
	VisitString(n *ast.StringLiteral) (R, error)
	VisitNumber(n *ast.NumberLiteral) (R, error)
	VisitBoolean(n *ast.BooleanLiteral) (R, error)
	VisitNull(n *ast.NullLiteral) (R, error)
	VisitIdentifier(n *ast.Identifier) (R, error)
	VisitMember(n *ast.MemberAccess, base R) (R, error)
	// VisitBinary handles every binary operator except &&.
	VisitBinary(n *ast.BinaryExpression, left, right R) (R, error)
	// VisitAnd receives the uncompiled && node.
	VisitAnd(n *ast.BinaryExpression, walk Func[R]) (R, error)
	VisitNegate(n *ast.UnaryExpression, operand R) (R, error)
	VisitNot(n *ast.UnaryExpression, operand R) (R, error)
	VisitDelete(n *ast.UnaryExpression, operand R) (R, error)
	VisitIncrement(n *ast.UnaryExpression, operand R) (R, error)
	VisitArray(n *ast.ArrayLiteral, elements []R) (R, error)
	// VisitCall receives the compiled field the method is called on.
	VisitCall(n *ast.CallExpression, field R, args []R) (R, error)
	VisitAssign(n *ast.AssignmentExpression, target, value R) (R, error)
	// VisitSequence receives the uncompiled comma chain.
	VisitSequence(n *ast.SequenceExpression, walk Func[R]) (R, error)
}

// Walk dispatches n to v. Children are compiled left to right.
func Walk[R any](v Visitor[R], n ast.Node) (R, error) {
	var zero R
	walk := func(child ast.Node) (R, error) { return Walk(v, child) }

	switch node := n.(type) {
	case *ast.Program:
		body, err := walkAll(v, node.Body)
		if err != nil {
			return zero, err
		}
		return v.VisitProgram(node, body)

	case *ast.Statement:
		expr, err := Walk(v, node.Expr)
		if err != nil {
			return zero, err
		}
		return v.VisitStatement(node, expr)

	case *ast.StringLiteral:
		return v.VisitString(node)
	case *ast.NumberLiteral:
		return v.VisitNumber(node)
	case *ast.BooleanLiteral:
		return v.VisitBoolean(node)
	case *ast.NullLiteral:
		return v.VisitNull(node)
	case *ast.Identifier:
		return v.VisitIdentifier(node)

	case *ast.MemberAccess:
		base, err := Walk(v, node.Base)
		if err != nil {
			return zero, err
		}
		return v.VisitMember(node, base)

	case *ast.BinaryExpression:
		if node.Operator == ast.OpAnd {
			return v.VisitAnd(node, walk)
		}
		left, err := Walk(v, node.Left)
		if err != nil {
			return zero, err
		}
		right, err := Walk(v, node.Right)
		if err != nil {
			return zero, err
		}
		return v.VisitBinary(node, left, right)

	case *ast.UnaryExpression:
		operand, err := Walk(v, node.Operand)
		if err != nil {
			return zero, err
		}
		switch node.Op {
		case ast.UnaryNegate:
			return v.VisitNegate(node, operand)
		case ast.UnaryNot:
			return v.VisitNot(node, operand)
		case ast.UnaryDelete:
			return v.VisitDelete(node, operand)
		case ast.UnaryIncrement:
			return v.VisitIncrement(node, operand)
		default:
			return zero, &UnsupportedError{Kind: ast.KindUnary}
		}

	case *ast.ArrayLiteral:
		elems, err := walkAll(v, node.Elements)
		if err != nil {
			return zero, err
		}
		return v.VisitArray(node, elems)

	case *ast.CallExpression:
		if node.Callee == nil {
			return zero, &UnsupportedError{Kind: ast.KindCall}
		}
		field, err := Walk(v, node.Callee.Base)
		if err != nil {
			return zero, err
		}
		args, err := walkAll(v, node.Arguments)
		if err != nil {
			return zero, err
		}
		return v.VisitCall(node, field, args)

	case *ast.AssignmentExpression:
		target, err := Walk(v, node.Target)
		if err != nil {
			return zero, err
		}
		value, err := Walk(v, node.Value)
		if err != nil {
			return zero, err
		}
		return v.VisitAssign(node, target, value)

	case *ast.SequenceExpression:
		return v.VisitSequence(node, walk)

	default:
		// nil node
		return zero, &UnsupportedError{Kind: ast.KindInvalid}
	}
}

func walkAll[R any](v Visitor[R], nodes []ast.Node) ([]R, error) {
	out := make([]R, 0, len(nodes))
	for _, n := range nodes {
		r, err := Walk(v, n)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
