package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/mongoexpr/internal/visit"
)

// Error kinds. Every compile failure matches exactly one of these with
// errors.Is.
var (
	ErrUnsupportedNodeKind           = visit.ErrUnsupportedNodeKind
	ErrUnsupportedOperator           = errors.New("unsupported operator")
	ErrUnsupportedMethod             = errors.New("unsupported method")
	ErrUnsupportedUnaryForm          = errors.New("unsupported unary form")
	ErrUnsupportedAssignmentOperator = errors.New("unsupported assignment operator")
	ErrUnsupportedSequenceMember     = errors.New("unsupported sequence member")
	ErrUnsupportedOperand            = errors.New("unsupported operand")
	ErrMalformedSource               = errors.New("malformed source")
	ErrEmptyExpression               = errors.New("empty expression")
)

// Error is a compile failure caused by an input shape the compiler does not
// translate.
//
// Supported lists the alternatives the input could have used, in table
// order: operator tokens for ErrUnsupportedOperator, method signatures for
// ErrUnsupportedMethod, assignment tokens for ErrUnsupportedAssignmentOperator.
type Error struct {
	// Kind is one of the Err* sentinels.
	Kind error

	// Subject names the offending construct: a token, method, node kind.
	Subject string

	// Message is a human-readable description.
	Message string

	// Supported enumerates the accepted alternatives, if any.
	Supported []string
}

func (e *Error) Error() string {
	if len(e.Supported) == 0 {
		return e.Message
	}
	return e.Message + "; supported: " + strings.Join(e.Supported, " ")
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// SourceError is a parse failure of source text. It matches
// ErrMalformedSource.
type SourceError struct {
	Message    string
	Line       int // 1-based
	Column     int // 1-based
	Offset     int // byte offset into the source
	SourceLine string
}

// Error renders the message followed by the offending line and a caret under
// the failing column.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s at line %d:%d in expression:\n\n  %s\n  %s^",
		e.Message, e.Line, e.Column, e.SourceLine, caretPad(e.SourceLine, e.Column))
}

func (e *SourceError) Unwrap() error {
	return ErrMalformedSource
}

// caretPad returns whitespace reaching column col of line, keeping tabs so
// the caret lines up in a terminal.
func caretPad(line string, col int) string {
	var b strings.Builder
	for i := 0; i < col-1 && i < len(line); i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
