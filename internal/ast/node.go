package ast

import "fmt"

// Kind tags each node type.
type Kind int

const (
	KindInvalid Kind = iota
	KindProgram
	KindStatement
	KindString
	KindNumber
	KindBoolean
	KindNull
	KindIdentifier
	KindMember
	KindBinary
	KindUnary
	KindArray
	KindCall
	KindAssign
	KindSequence
)

var kindNames = [...]string{
	KindInvalid:    "Invalid",
	KindProgram:    "Program",
	KindStatement:  "Statement",
	KindString:     "StringLiteral",
	KindNumber:     "NumberLiteral",
	KindBoolean:    "BooleanLiteral",
	KindNull:       "NullLiteral",
	KindIdentifier: "Identifier",
	KindMember:     "MemberAccess",
	KindBinary:     "BinaryExpression",
	KindUnary:      "UnaryExpression",
	KindArray:      "ArrayLiteral",
	KindCall:       "CallExpression",
	KindAssign:     "AssignmentExpression",
	KindSequence:   "SequenceExpression",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind returns the Kind named s, or KindInvalid.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s && Kind(k) != KindInvalid {
			return Kind(k)
		}
	}
	return KindInvalid
}

// Node is a sealed interface implemented by every tree node.
type Node interface {
	Kind() Kind
	node() // Marker method - seals interface to this package
}

// Operator tokens with dedicated handling.
const (
	OpAnd       = "&&"
	OpOr        = "||"
	OpAssign    = "="
	OpAddAssign = "+="
)

// Program is the root of a parsed source text.
type Program struct {
	Body []Node
}

func (*Program) Kind() Kind { return KindProgram }
func (*Program) node()      {}

// Statement wraps a single expression statement.
type Statement struct {
	Expr Node
}

func (*Statement) Kind() Kind { return KindStatement }
func (*Statement) node()      {}

// StringLiteral is a quoted string.
type StringLiteral struct {
	Value string
}

func (*StringLiteral) Kind() Kind { return KindString }
func (*StringLiteral) node()      {}

// NumberLiteral keeps the number exactly as written so that integer and
// decimal forms survive compilation ("1" stays 1, "1.50" stays 1.50).
type NumberLiteral struct {
	Literal string
}

func (*NumberLiteral) Kind() Kind { return KindNumber }
func (*NumberLiteral) node()      {}

// BooleanLiteral is true or false.
type BooleanLiteral struct {
	Value bool
}

func (*BooleanLiteral) Kind() Kind { return KindBoolean }
func (*BooleanLiteral) node()      {}

// NullLiteral is null.
type NullLiteral struct{}

func (*NullLiteral) Kind() Kind { return KindNull }
func (*NullLiteral) node()      {}

// Identifier is a bare name.
type Identifier struct {
	Name string
}

func (*Identifier) Kind() Kind { return KindIdentifier }
func (*Identifier) node()      {}

// MemberAccess is Base.Property.
type MemberAccess struct {
	Base     Node
	Property string
}

func (*MemberAccess) Kind() Kind { return KindMember }
func (*MemberAccess) node()      {}

// BinaryExpression is Left Operator Right. Operator is the source token
// ("==", "&&", "*", ...); unrecognized tokens are passed through so the
// compiler can name them in diagnostics.
type BinaryExpression struct {
	Operator string
	Left     Node
	Right    Node
}

func (*BinaryExpression) Kind() Kind { return KindBinary }
func (*BinaryExpression) node()      {}

// UnaryKind is the closed set of prefix operators.
type UnaryKind int

const (
	UnaryNegate UnaryKind = iota
	UnaryNot
	UnaryDelete
	UnaryIncrement
)

var unaryTokens = [...]string{
	UnaryNegate:    "-",
	UnaryNot:       "!",
	UnaryDelete:    "delete",
	UnaryIncrement: "++",
}

// String returns the source token of the operator.
func (u UnaryKind) String() string {
	if u < 0 || int(u) >= len(unaryTokens) {
		return fmt.Sprintf("UnaryKind(%d)", int(u))
	}
	return unaryTokens[u]
}

// ParseUnaryKind maps a source token to its UnaryKind.
func ParseUnaryKind(tok string) (UnaryKind, bool) {
	for u, s := range unaryTokens {
		if s == tok {
			return UnaryKind(u), true
		}
	}
	return 0, false
}

// UnaryExpression is a prefix operator applied to Operand.
type UnaryExpression struct {
	Op      UnaryKind
	Operand Node
}

func (*UnaryExpression) Kind() Kind { return KindUnary }
func (*UnaryExpression) node()      {}

// ArrayLiteral is [Elements...], order preserved.
type ArrayLiteral struct {
	Elements []Node
}

func (*ArrayLiteral) Kind() Kind { return KindArray }
func (*ArrayLiteral) node()      {}

// CallExpression is field.method(Arguments...). The callee is always a
// member access: Callee.Base is the field, Callee.Property the method.
type CallExpression struct {
	Callee    *MemberAccess
	Arguments []Node
}

func (*CallExpression) Kind() Kind { return KindCall }
func (*CallExpression) node()      {}

// AssignmentExpression is Target Operator Value, where Operator is "=",
// "+=", or any other compound assignment token.
type AssignmentExpression struct {
	Operator string
	Target   Node
	Value    Node
}

func (*AssignmentExpression) Kind() Kind { return KindAssign }
func (*AssignmentExpression) node()      {}

// SequenceExpression is Left, Right. Longer chains nest to the right:
// a, b, c is Sequence(a, Sequence(b, c)).
type SequenceExpression struct {
	Left  Node
	Right Node
}

func (*SequenceExpression) Kind() Kind { return KindSequence }
func (*SequenceExpression) node()      {}
