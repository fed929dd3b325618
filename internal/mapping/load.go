package mapping

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource []byte

//go:embed tables.cue
var defaultSource []byte

var defaultTables = sync.OnceValues(func() (*Tables, error) {
	return LoadBytes(defaultSource, "tables.cue")
})

// Default returns the embedded tables. They are compiled once per process.
// It panics if the embedded tables are invalid, which tests rule out.
func Default() *Tables {
	t, err := defaultTables()
	if err != nil {
		panic(fmt.Sprintf("mapping: embedded tables: %v", err))
	}
	return t
}

// Load reads a table file from disk.
func Load(path string) (*Tables, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tables: %w", err)
	}
	return LoadBytes(src, path)
}

// LoadBytes compiles CUE table source, unifies it with the schema and builds
// Tables from the result. filename is used in error positions.
func LoadBytes(src []byte, filename string) (*Tables, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	data := ctx.CompileBytes(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	operators, err := parseOperators(v)
	if err != nil {
		return nil, err
	}
	if len(operators) == 0 {
		return nil, &LoadError{Field: "operators", Message: "at least one operator is required", Pos: v.Pos()}
	}

	methods, err := parseMethods(v)
	if err != nil {
		return nil, err
	}

	t, err := New(operators, methods)
	if err != nil {
		return nil, &LoadError{Field: "tables", Message: err.Error(), Pos: data.Pos()}
	}
	return t, nil
}

func parseOperators(v cue.Value) ([]Operator, error) {
	iter, err := v.LookupPath(cue.ParsePath("operators")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var ops []Operator
	for iter.Next() {
		entry := iter.Value()

		tok, err := lookupString(entry, "token")
		if err != nil {
			return nil, err
		}
		target, err := lookupString(entry, "target")
		if err != nil {
			return nil, err
		}
		allowed, err := lookupBool(entry, "allowed")
		if err != nil {
			return nil, err
		}

		ops = append(ops, Operator{Token: tok, Target: target, Allowed: allowed})
	}
	return ops, nil
}

func parseMethods(v cue.Value) ([]Method, error) {
	iter, err := v.LookupPath(cue.ParsePath("methods")).List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var methods []Method
	for iter.Next() {
		entry := iter.Value()

		name, err := lookupString(entry, "name")
		if err != nil {
			return nil, err
		}
		target, err := lookupString(entry, "target")
		if err != nil {
			return nil, err
		}
		shapeName, err := lookupString(entry, "shape")
		if err != nil {
			return nil, err
		}
		shape, err := ParseShape(shapeName)
		if err != nil {
			return nil, &LoadError{Field: "shape", Message: err.Error(), Pos: entry.Pos()}
		}
		option, err := lookupString(entry, "option")
		if err != nil {
			return nil, err
		}

		methods = append(methods, Method{Name: name, Target: target, Shape: shape, Option: option})
	}
	return methods, nil
}

func lookupString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", &LoadError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	f, _ = f.Default()
	s, err := f.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func lookupBool(v cue.Value, field string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return false, &LoadError{Field: field, Message: field + " is required", Pos: v.Pos()}
	}
	f, _ = f.Default()
	b, err := f.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// LoadError is a table loading failure with its CUE source position.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return &LoadError{Field: "cue", Message: errors.Details(err, nil)}
}
