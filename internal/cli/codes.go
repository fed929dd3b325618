package cli

import (
	"errors"

	"github.com/roach88/mongoexpr/internal/compiler"
	"github.com/roach88/mongoexpr/internal/mapping"
)

// Error codes.
const (
	ErrCodeGeneric            = "E200" // Input, tree decode or table failure
	ErrCodeNodeKind           = "E201" // Unsupported node kind
	ErrCodeOperator           = "E202" // Unsupported operator
	ErrCodeMethod             = "E203" // Unsupported method
	ErrCodeUnaryForm          = "E204" // Unsupported unary form
	ErrCodeAssignmentOperator = "E205" // Unsupported assignment operator
	ErrCodeSequenceMember     = "E206" // Unsupported sequence member
	ErrCodeOperand            = "E207" // Unsupported operand
	ErrCodeMalformedSource    = "E208" // Source does not parse
	ErrCodeEmptyExpression    = "E209" // Nothing to compile
)

var kindCodes = []struct {
	kind error
	code string
}{
	{compiler.ErrUnsupportedNodeKind, ErrCodeNodeKind},
	{compiler.ErrUnsupportedOperator, ErrCodeOperator},
	{compiler.ErrUnsupportedMethod, ErrCodeMethod},
	{compiler.ErrUnsupportedUnaryForm, ErrCodeUnaryForm},
	{compiler.ErrUnsupportedAssignmentOperator, ErrCodeAssignmentOperator},
	{compiler.ErrUnsupportedSequenceMember, ErrCodeSequenceMember},
	{compiler.ErrUnsupportedOperand, ErrCodeOperand},
	{compiler.ErrMalformedSource, ErrCodeMalformedSource},
	{compiler.ErrEmptyExpression, ErrCodeEmptyExpression},
}

// MapErrorToCode returns the stable code for err.
func MapErrorToCode(err error) string {
	for _, kc := range kindCodes {
		if errors.Is(err, kc.kind) {
			return kc.code
		}
	}
	return ErrCodeGeneric
}

// ErrorDetails is the structured context attached to error responses.
type ErrorDetails struct {
	Subject    string   `json:"subject,omitempty"`
	Supported  []string `json:"supported,omitempty"`
	Line       int      `json:"line,omitempty"`
	Column     int      `json:"column,omitempty"`
	Offset     *int     `json:"offset,omitempty"`
	SourceLine string   `json:"source_line,omitempty"`
	Field      string   `json:"field,omitempty"`
}

// classify returns the code for err and its details, or nil details when err
// carries no structure worth reporting.
func classify(err error) (string, any) {
	code := MapErrorToCode(err)

	var compileErr *compiler.Error
	if errors.As(err, &compileErr) {
		return code, &ErrorDetails{Subject: compileErr.Subject, Supported: compileErr.Supported}
	}

	var srcErr *compiler.SourceError
	if errors.As(err, &srcErr) {
		offset := srcErr.Offset
		return code, &ErrorDetails{
			Line:       srcErr.Line,
			Column:     srcErr.Column,
			Offset:     &offset,
			SourceLine: srcErr.SourceLine,
		}
	}

	var loadErr *mapping.LoadError
	if errors.As(err, &loadErr) {
		d := &ErrorDetails{Field: loadErr.Field}
		if loadErr.Pos.IsValid() {
			d.Line = loadErr.Pos.Line()
			d.Column = loadErr.Pos.Column()
		}
		return code, d
	}

	return code, nil
}
