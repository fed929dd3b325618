package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mongoexpr/internal/ast"
	"github.com/roach88/mongoexpr/internal/mapping"
)

func TestCompileErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		kind    error
		subject string
	}{
		{"arithmetic", `a * 1`, ErrUnsupportedOperator, "*"},
		{"modulo", `a % 2 == 0`, ErrUnsupportedOperator, "%"},
		{"unknown operator", `a === 1`, ErrUnsupportedOperator, "==="},
		{"unknown method", `a.bogus()`, ErrUnsupportedMethod, "bogus"},
		{"elemMatch without argument", `a.elemMatch()`, ErrUnsupportedMethod, "elemMatch"},
		{"regex without argument", `a.regex()`, ErrUnsupportedMethod, "regex"},
		{"negate field", `b == -a`, ErrUnsupportedUnaryForm, "-"},
		{"negate string", `b == -"x"`, ErrUnsupportedUnaryForm, "-"},
		{"not literal", `!1`, ErrUnsupportedUnaryForm, "!"},
		{"delete literal", `delete 1`, ErrUnsupportedUnaryForm, "delete"},
		{"postfix increment", `a++`, ErrUnsupportedUnaryForm, "postfix ++"},
		{"bitwise not", `~a`, ErrUnsupportedUnaryForm, "unary ~"},
		{"subtract assign", `a -= 1`, ErrUnsupportedAssignmentOperator, "-="},
		{"multiply assign in sequence", `a = 1, b *= 2`, ErrUnsupportedAssignmentOperator, "*="},
		{"comparison in sequence", `a = 1, b == 2`, ErrUnsupportedSequenceMember, "BinaryExpression"},
		{"not in sequence", `a = 1, !b`, ErrUnsupportedSequenceMember, "!"},
		{"call in sequence", `a = 1, b.exists()`, ErrUnsupportedSequenceMember, "CallExpression"},
		{"field written twice", `a = 1, a += 2`, ErrUnsupportedSequenceMember, "a"},
		{"field set twice", `a = 1, a = 2`, ErrUnsupportedSequenceMember, "a"},
		{"set then unset", `a.b = 1, delete a.b`, ErrUnsupportedSequenceMember, "a.b"},
		{"field to field", `a == b`, ErrUnsupportedOperand, "=="},
		{"literal to literal", `1 == 2`, ErrUnsupportedOperand, "=="},
		{"bare and operands", `a && b`, ErrUnsupportedOperand, "&&"},
		{"bare or operands", `a || b == 1`, ErrUnsupportedOperand, "||"},
		{"update inside and", `a == 1 && (b = 2)`, ErrUnsupportedOperand, "&&"},
		{"bare field", `a.b`, ErrUnsupportedOperand, "Program"},
		{"bare literal", `"x"`, ErrUnsupportedOperand, "Program"},
		{"assign field", `a = b`, ErrUnsupportedOperand, "="},
		{"increment by string", `a += "x"`, ErrUnsupportedOperand, "+="},
		{"field in array", `a == [1, b]`, ErrUnsupportedOperand, "ArrayLiteral"},
		{"field as method argument", `a.in(b)`, ErrUnsupportedOperand, "in()"},
		{"elemMatch of value", `a.elemMatch(1)`, ErrUnsupportedOperand, "elemMatch"},
		{"method on literal", `"x".exists()`, ErrUnsupportedOperand, "exists"},
		{"condition compared", `(a == 1) == 1`, ErrUnsupportedOperand, "=="},
		{"conditional", `a ? 1 : 2`, ErrUnsupportedNodeKind, "ConditionalExpression"},
		{"index access", `a[0] == 1`, ErrUnsupportedNodeKind, "BracketExpression"},
		{"two statements", `a == 1; b == 2`, ErrUnsupportedNodeKind, "Program"},
		{"empty", ``, ErrEmptyExpression, "Program"},
		{"blank", "  ;\n", ErrEmptyExpression, "Program"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Compile(tt.src)
			require.Error(t, err)
			assert.Nil(t, d, "no partial document")
			assert.ErrorIs(t, err, tt.kind)

			var compileErr *Error
			require.True(t, errors.As(err, &compileErr), "%T: %v", err, err)
			assert.Equal(t, tt.subject, compileErr.Subject)
		})
	}
}

func TestUnsupportedOperatorListsSupportedSet(t *testing.T) {
	_, err := Compile(`a * 1`)
	require.Error(t, err)
	assert.Equal(t,
		`operator "*" is recognized but not supported; supported: && || == != >= <= > <`,
		err.Error())

	var compileErr *Error
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, []string{"&&", "||", "==", "!=", ">=", "<=", ">", "<"}, compileErr.Supported)
}

func TestUnknownOperatorNamesToken(t *testing.T) {
	_, err := Compile(`a === 1`)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), `unsupported operator "==="; supported: &&`))
}

func TestUnsupportedMethodListsMethods(t *testing.T) {
	_, err := Compile(`a.bogus()`)
	require.Error(t, err)
	assert.Equal(t,
		`unsupported method "bogus()"; supported: all(value, ...) elemMatch(expr) exists(value) `+
			`in(value, ...) mod(value, ...) nin(value, ...) size(value) type(value) where(value) regex(value, value)`,
		err.Error())
}

func TestUnsupportedAssignmentListsOperators(t *testing.T) {
	_, err := Compile(`a -= 1`)
	require.Error(t, err)
	assert.Equal(t, `unsupported assignment operator "-="; supported: = +=`, err.Error())
}

func TestConflictingUpdateMessage(t *testing.T) {
	_, err := Compile(`a = 1, ++a`)
	require.Error(t, err)
	assert.Equal(t, `conflicting update of field "a" in $set and $inc`, err.Error())
}

func TestSourceError(t *testing.T) {
	_, err := Compile("a == 1 &&\nb == )")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedSource)

	var srcErr *SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, 2, srcErr.Line)
	assert.Equal(t, "b == )", srcErr.SourceLine)
	assert.Equal(t, len("a == 1 &&\n")+srcErr.Column-1, srcErr.Offset)

	lines := strings.Split(err.Error(), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "at line 2:")
	assert.Equal(t, "  b == )", lines[2])
	assert.Equal(t, "  "+strings.Repeat(" ", srcErr.Column-1)+"^", lines[3])
}

func TestSourceErrorCaretKeepsTabs(t *testing.T) {
	e := &SourceError{Message: "Unexpected token", Line: 1, Column: 3, SourceLine: "\t\t)"}
	assert.Equal(t, "Unexpected token at line 1:3 in expression:\n\n  \t\t)\n  \t\t^", e.Error())
}

func TestCompileTreeErrors(t *testing.T) {
	c := New(nil)

	_, err := c.CompileTree(nil)
	assert.ErrorIs(t, err, ErrEmptyExpression)

	_, err = c.CompileTree(ast.Expr(ast.Binary("==", ast.Path("a"), ast.Num("0x1"))))
	assert.ErrorIs(t, err, ErrUnsupportedOperand)

	_, err = c.CompileTree(ast.Expr(&ast.CallExpression{}))
	assert.ErrorIs(t, err, ErrUnsupportedNodeKind)
	var compileErr *Error
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, "CallExpression", compileErr.Subject)

	_, err = c.CompileTree(ast.Expr(ast.Binary("<>", ast.Path("a"), ast.Int(1))))
	assert.ErrorIs(t, err, ErrUnsupportedOperator)

	_, err = c.CompileTree(ast.Expr(ast.Seq(ast.Assign("=", ast.Path("a"), ast.Int(1)), nil)))
	assert.ErrorIs(t, err, ErrUnsupportedSequenceMember)

	_, err = c.CompileTree(ast.Expr(ast.Assign("=", ast.Path("a"), ast.Unary(ast.UnaryKind(9), ast.Int(1)))))
	assert.ErrorIs(t, err, ErrUnsupportedNodeKind)
}

func TestCompileWithCustomTables(t *testing.T) {
	tables, err := mapping.LoadBytes([]byte(`
operators: [
	{token: "==", target: "$eq"},
	{token: "<", target: "$lt"},
	{token: "&&", target: "$and"},
]
methods: [
	{name: "like", target: "$regex", shape: "two", option: "$options"},
]
`), "custom.cue")
	require.NoError(t, err)

	c := New(tables)
	assert.Same(t, tables, c.Tables())

	d, err := c.CompileString(`a.like("x", "i") && b < 2`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"$regex":"x","$options":"i"},"b":{"$lt":2}}`, d.String())

	_, err = c.CompileString(`a != 1`)
	require.Error(t, err)
	assert.Equal(t, `unsupported operator "!="; supported: == < &&`, err.Error())

	_, err = c.CompileString(`a.regex("x")`)
	require.Error(t, err)
	assert.Equal(t, `unsupported method "regex()"; supported: like(value, value)`, err.Error())

	_, err = c.CompileString(`a == 1 || b == 1`)
	assert.ErrorIs(t, err, ErrUnsupportedOperator)
}
