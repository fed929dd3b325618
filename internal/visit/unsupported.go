package visit

import "github.com/roach88/mongoexpr/internal/ast"

// Unsupported implements every Visitor method by failing with an
// *UnsupportedError naming the node kind.
type Unsupported[R any] struct{}

func fail[R any](k ast.Kind) (R, error) {
	var zero R
	return zero, &UnsupportedError{Kind: k}
}

func (Unsupported[R]) VisitProgram(*ast.Program, []R) (R, error) {
	return fail[R](ast.KindProgram)
}

func (Unsupported[R]) VisitStatement(*ast.Statement, R) (R, error) {
	return fail[R](ast.KindStatement)
}

func (Unsupported[R]) VisitString(*ast.StringLiteral) (R, error) {
	return fail[R](ast.KindString)
}

func (Unsupported[R]) VisitNumber(*ast.NumberLiteral) (R, error) {
	return fail[R](ast.KindNumber)
}

func (Unsupported[R]) VisitBoolean(*ast.BooleanLiteral) (R, error) {
	return fail[R](ast.KindBoolean)
}

func (Unsupported[R]) VisitNull(*ast.NullLiteral) (R, error) {
	return fail[R](ast.KindNull)
}

func (Unsupported[R]) VisitIdentifier(*ast.Identifier) (R, error) {
	return fail[R](ast.KindIdentifier)
}

func (Unsupported[R]) VisitMember(*ast.MemberAccess, R) (R, error) {
	return fail[R](ast.KindMember)
}

func (Unsupported[R]) VisitBinary(*ast.BinaryExpression, R, R) (R, error) {
	return fail[R](ast.KindBinary)
}

func (Unsupported[R]) VisitAnd(*ast.BinaryExpression, Func[R]) (R, error) {
	return fail[R](ast.KindBinary)
}

func (Unsupported[R]) VisitNegate(*ast.UnaryExpression, R) (R, error) {
	return fail[R](ast.KindUnary)
}

func (Unsupported[R]) VisitNot(*ast.UnaryExpression, R) (R, error) {
	return fail[R](ast.KindUnary)
}

func (Unsupported[R]) VisitDelete(*ast.UnaryExpression, R) (R, error) {
	return fail[R](ast.KindUnary)
}

func (Unsupported[R]) VisitIncrement(*ast.UnaryExpression, R) (R, error) {
	return fail[R](ast.KindUnary)
}

func (Unsupported[R]) VisitArray(*ast.ArrayLiteral, []R) (R, error) {
	return fail[R](ast.KindArray)
}

func (Unsupported[R]) VisitCall(*ast.CallExpression, R, []R) (R, error) {
	return fail[R](ast.KindCall)
}

func (Unsupported[R]) VisitAssign(*ast.AssignmentExpression, R, R) (R, error) {
	return fail[R](ast.KindAssign)
}

func (Unsupported[R]) VisitSequence(*ast.SequenceExpression, Func[R]) (R, error) {
	return fail[R](ast.KindSequence)
}
