package compiler

import (
	"slices"

	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/doc"
	"github.com/roach88/mongoexpr/internal/mapping"
	"github.com/roach88/mongoexpr/internal/visit"
)

// Target operators with fixed meaning in the translation rules.
const (
	targetEq    = "$eq"
	targetAnd   = "$and"
	targetOr    = "$or"
	targetSet   = "$set"
	targetInc   = "$inc"
	targetUnset = "$unset"
)

// assignOperators are the assignment tokens the compiler translates.
var assignOperators = []string{ast.OpAssign, ast.OpAddAssign}

// translator compiles nodes into MongoDB filter and update fragments.
// All state lives on the stack of the current Walk.
type translator struct {
	tables *mapping.Tables
}

var _ visit.Visitor[Fragment] = translator{}

func (t translator) VisitProgram(n *ast.Program, body []Fragment) (Fragment, error) {
	switch len(body) {
	case 0:
		return nil, &Error{Kind: ErrEmptyExpression, Subject: ast.KindProgram.String(), Message: "empty expression"}
	case 1:
		return body[0], nil
	default:
		return nil, newError(ErrUnsupportedNodeKind, ast.KindProgram.String(),
			"program has %d statements, expected one expression", len(body))
	}
}

func (t translator) VisitStatement(_ *ast.Statement, expr Fragment) (Fragment, error) {
	return expr, nil
}

func (t translator) VisitString(n *ast.StringLiteral) (Fragment, error) {
	return Literal{Value: doc.String(n.Value)}, nil
}

func (t translator) VisitNumber(n *ast.NumberLiteral) (Fragment, error) {
	num, err := doc.ParseNumber(n.Literal)
	if err != nil {
		return nil, newError(ErrUnsupportedOperand, ast.KindNumber.String(), "%v", err)
	}
	return Literal{Value: num}, nil
}

func (t translator) VisitBoolean(n *ast.BooleanLiteral) (Fragment, error) {
	return Literal{Value: doc.Bool(n.Value)}, nil
}

func (t translator) VisitNull(*ast.NullLiteral) (Fragment, error) {
	return Literal{Value: doc.Null{}}, nil
}

func (t translator) VisitIdentifier(n *ast.Identifier) (Fragment, error) {
	return Field{Path: n.Name}, nil
}

func (t translator) VisitMember(n *ast.MemberAccess, base Fragment) (Fragment, error) {
	f, ok := base.(Field)
	if !ok {
		return nil, newError(ErrUnsupportedOperand, ast.KindMember.String(),
			"member access .%s on %s, expected a field", n.Property, describe(base))
	}
	return Field{Path: f.Path + "." + n.Property}, nil
}

// lookupOperator resolves a binary token, failing for unknown and disallowed
// tokens with the supported set.
func (t translator) lookupOperator(token string) (mapping.Operator, error) {
	op, ok := t.tables.Operator(token)
	switch {
	case !ok:
		err := newError(ErrUnsupportedOperator, token, "unsupported operator %q", token)
		err.Supported = t.tables.SupportedOperators()
		return op, err
	case !op.Allowed:
		err := newError(ErrUnsupportedOperator, token, "operator %q is recognized but not supported", token)
		err.Supported = t.tables.SupportedOperators()
		return op, err
	}
	return op, nil
}

func (t translator) VisitBinary(n *ast.BinaryExpression, left, right Fragment) (Fragment, error) {
	op, err := t.lookupOperator(n.Operator)
	if err != nil {
		return nil, err
	}

	if op.Target == targetAnd || op.Target == targetOr {
		l, err := conditionOperand(n.Operator, left)
		if err != nil {
			return nil, err
		}
		r, err := conditionOperand(n.Operator, right)
		if err != nil {
			return nil, err
		}
		return Condition{Doc: doc.NewDocument(doc.E(op.Target, doc.Array{l, r}))}, nil
	}

	return t.comparison(n.Operator, op.Target, left, right)
}

// comparison builds {field: value} or {field: {target: value}}. A literal on
// the left is swapped to the right, keeping the operator as written.
func (t translator) comparison(token, target string, left, right Fragment) (Fragment, error) {
	field, isField := left.(Field)
	value := right
	if !isField {
		if f, ok := right.(Field); ok {
			field, isField, value = f, true, left
		}
	}
	if !isField {
		return nil, newError(ErrUnsupportedOperand, token,
			"comparison %s %s %s needs a field operand", describe(left), token, describe(right))
	}

	lit, ok := value.(Literal)
	if !ok {
		return nil, newError(ErrUnsupportedOperand, token,
			"cannot compare field %s to %s, expected a value", field.Path, describe(value))
	}

	if target == targetEq {
		return Condition{Doc: doc.NewDocument(doc.E(field.Path, lit.Value))}, nil
	}
	return Condition{Doc: doc.NewDocument(
		doc.E(field.Path, doc.NewDocument(doc.E(target, lit.Value))),
	)}, nil
}

func (t translator) VisitAnd(n *ast.BinaryExpression, walk visit.Func[Fragment]) (Fragment, error) {
	if _, err := t.lookupOperator(n.Operator); err != nil {
		return nil, err
	}
	return flattenAnd(n, walk)
}

func (t translator) VisitNegate(n *ast.UnaryExpression, operand Fragment) (Fragment, error) {
	if lit, ok := operand.(Literal); ok {
		if num, ok := lit.Value.(doc.Number); ok {
			return Literal{Value: num.Negate()}, nil
		}
	}
	return nil, unaryFormError(n, operand, "number literal")
}

func (t translator) VisitNot(n *ast.UnaryExpression, operand Fragment) (Fragment, error) {
	f, ok := operand.(Field)
	if !ok {
		return nil, unaryFormError(n, operand, "field")
	}
	return Condition{Doc: doc.NewDocument(doc.E(f.Path, doc.Bool(false)))}, nil
}

func (t translator) VisitDelete(n *ast.UnaryExpression, operand Fragment) (Fragment, error) {
	f, ok := operand.(Field)
	if !ok {
		return nil, unaryFormError(n, operand, "field")
	}
	return singleUpdate(targetUnset, f.Path, doc.Null{})
}

func (t translator) VisitIncrement(n *ast.UnaryExpression, operand Fragment) (Fragment, error) {
	f, ok := operand.(Field)
	if !ok {
		return nil, unaryFormError(n, operand, "field")
	}
	return singleUpdate(targetInc, f.Path, doc.Int(1))
}

func unaryFormError(n *ast.UnaryExpression, operand Fragment, want string) *Error {
	return newError(ErrUnsupportedUnaryForm, n.Op.String(),
		"unary %q applied to %s, expected a %s", n.Op.String(), describe(operand), want)
}

func (t translator) VisitArray(_ *ast.ArrayLiteral, elements []Fragment) (Fragment, error) {
	values, err := literalValues(ast.KindArray.String(), elements)
	if err != nil {
		return nil, err
	}
	return Literal{Value: values}, nil
}

// literalValues requires every fragment to be a Literal.
func literalValues(subject string, fragments []Fragment) (doc.Array, error) {
	values := make(doc.Array, len(fragments))
	for i, f := range fragments {
		lit, ok := f.(Literal)
		if !ok {
			return nil, newError(ErrUnsupportedOperand, subject,
				"%s at position %d, expected a value", describe(f), i)
		}
		values[i] = lit.Value
	}
	return values, nil
}

func (t translator) VisitCall(n *ast.CallExpression, field Fragment, args []Fragment) (Fragment, error) {
	name := n.Callee.Property
	m, ok := t.tables.Method(name)
	if !ok {
		err := newError(ErrUnsupportedMethod, name, "unsupported method %q", name+"()")
		err.Supported = t.tables.MethodSignatures()
		return nil, err
	}

	f, ok := field.(Field)
	if !ok {
		return nil, newError(ErrUnsupportedOperand, name,
			"method %s() called on %s, expected a field", name, describe(field))
	}

	operand, err := methodOperand(m, args)
	if err != nil {
		return nil, err
	}
	return Condition{Doc: doc.NewDocument(doc.E(f.Path, operand))}, nil
}

// methodOperand builds {target: ...} for a method call according to the
// method's argument shape.
func methodOperand(m mapping.Method, args []Fragment) (*doc.Document, error) {
	switch m.Shape {
	case mapping.ShapeArray:
		values, err := literalValues(m.Name+"()", args)
		if err != nil {
			return nil, err
		}
		return doc.NewDocument(doc.E(m.Target, values)), nil

	case mapping.ShapeSingle:
		if len(args) == 0 {
			return doc.NewDocument(doc.E(m.Target, doc.Bool(true))), nil
		}
		values, err := literalValues(m.Name+"()", args[:1])
		if err != nil {
			return nil, err
		}
		return doc.NewDocument(doc.E(m.Target, values[0])), nil

	case mapping.ShapeTwo:
		if len(args) == 0 {
			return nil, arityError(m, "at least one argument")
		}
		values, err := literalValues(m.Name+"()", args[:min(len(args), 2)])
		if err != nil {
			return nil, err
		}
		operand := doc.NewDocument(doc.E(m.Target, values[0]))
		if len(values) > 1 {
			operand.Set(m.Option, values[1])
		}
		return operand, nil

	case mapping.ShapeExpr:
		if len(args) != 1 {
			return nil, arityError(m, "exactly one argument")
		}
		cond, ok := args[0].(Condition)
		if !ok {
			return nil, newError(ErrUnsupportedOperand, m.Name,
				"%s() argument is %s, expected a condition", m.Name, describe(args[0]))
		}
		return doc.NewDocument(doc.E(m.Target, cond.Doc)), nil

	default:
		return nil, newError(ErrUnsupportedMethod, m.Name, "method %s() has no argument shape", m.Name)
	}
}

func arityError(m mapping.Method, want string) *Error {
	err := newError(ErrUnsupportedMethod, m.Name, "method %s() takes %s", m.Name, want)
	err.Supported = []string{m.Signature()}
	return err
}

func (t translator) VisitAssign(n *ast.AssignmentExpression, target, value Fragment) (Fragment, error) {
	group, err := assignGroup(n.Operator)
	if err != nil {
		return nil, err
	}

	f, ok := target.(Field)
	if !ok {
		return nil, newError(ErrUnsupportedOperand, n.Operator,
			"assignment to %s, expected a field", describe(target))
	}
	lit, ok := value.(Literal)
	if !ok {
		return nil, newError(ErrUnsupportedOperand, n.Operator,
			"%s %s %s, expected a value on the right", f.Path, n.Operator, describe(value))
	}
	if _, isNum := lit.Value.(doc.Number); group == targetInc && !isNum {
		return nil, newError(ErrUnsupportedOperand, n.Operator,
			"%s %s %s, expected a number", f.Path, n.Operator, describe(value))
	}

	return singleUpdate(group, f.Path, lit.Value)
}

// assignGroup maps an assignment token to its update operator.
func assignGroup(operator string) (string, error) {
	switch operator {
	case ast.OpAssign:
		return targetSet, nil
	case ast.OpAddAssign:
		return targetInc, nil
	default:
		err := newError(ErrUnsupportedAssignmentOperator, operator,
			"unsupported assignment operator %q", operator)
		err.Supported = slices.Clone(assignOperators)
		return "", err
	}
}

func (t translator) VisitSequence(n *ast.SequenceExpression, walk visit.Func[Fragment]) (Fragment, error) {
	return compileSequence(n, walk)
}

// conditionOperand requires a logical operand to be a filter document.
func conditionOperand(token string, f Fragment) (*doc.Document, error) {
	c, ok := f.(Condition)
	if !ok {
		return nil, newError(ErrUnsupportedOperand, token,
			"operand of %s is %s, expected a condition", token, describe(f))
	}
	return c.Doc, nil
}
