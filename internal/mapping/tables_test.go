package mapping

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOperators(t *testing.T) {
	tables := Default()

	assert.Equal(t,
		[]string{"&&", "||", "==", "!=", ">=", "<=", ">", "<"},
		tables.SupportedOperators())

	tests := []struct {
		token   string
		target  string
		allowed bool
	}{
		{"&&", "$and", true},
		{"||", "$or", true},
		{"==", "$eq", true},
		{"!=", "$ne", true},
		{">=", "$gte", true},
		{"<=", "$lte", true},
		{">", "$gt", true},
		{"<", "$lt", true},
		{"+", "", false},
		{"-", "", false},
		{"*", "", false},
		{"/", "", false},
		{"%", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			op, ok := tables.Operator(tt.token)
			require.True(t, ok)
			assert.Equal(t, tt.target, op.Target)
			assert.Equal(t, tt.allowed, op.Allowed)
		})
	}

	_, ok := tables.Operator("===")
	assert.False(t, ok)
}

func TestDefaultMethods(t *testing.T) {
	tables := Default()

	tests := []struct {
		name   string
		target string
		shape  Shape
		option string
	}{
		{"all", "$all", ShapeArray, ""},
		{"elemMatch", "$elemMatch", ShapeExpr, ""},
		{"exists", "$exists", ShapeSingle, ""},
		{"in", "$in", ShapeArray, ""},
		{"mod", "$mod", ShapeArray, ""},
		{"nin", "$nin", ShapeArray, ""},
		{"size", "$size", ShapeSingle, ""},
		{"type", "$type", ShapeSingle, ""},
		{"where", "$where", ShapeSingle, ""},
		{"regex", "$regex", ShapeTwo, "$options"},
	}

	require.Len(t, tables.Methods(), len(tests))
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := tables.Method(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.target, m.Target)
			assert.Equal(t, tt.shape, m.Shape)
			assert.Equal(t, tt.option, m.Option)
			assert.Equal(t, tt.name, tables.Methods()[i].Name, "table order")
		})
	}

	_, ok := tables.Method("bogus")
	assert.False(t, ok)
}

func TestMethodSignatures(t *testing.T) {
	assert.Equal(t, []string{
		"all(value, ...)",
		"elemMatch(expr)",
		"exists(value)",
		"in(value, ...)",
		"mod(value, ...)",
		"nin(value, ...)",
		"size(value)",
		"type(value)",
		"where(value)",
		"regex(value, value)",
	}, Default().MethodSignatures())
}

func TestDefaultIsShared(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]*Tables, 8)
	for i := range results {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = Default()
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestTablesAccessorsReturnCopies(t *testing.T) {
	tables := Default()
	ops := tables.Operators()
	ops[0].Target = "$nope"

	op, _ := tables.Operator("&&")
	assert.Equal(t, "$and", op.Target)
}

func TestShape(t *testing.T) {
	for _, name := range []string{"array", "single", "two", "expr"} {
		s, err := ParseShape(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.String())
	}

	_, err := ParseShape("many")
	assert.Error(t, err)
	assert.Equal(t, "Shape(0)", ShapeInvalid.String())
}

func TestLoadFile(t *testing.T) {
	tables, err := Load("testdata/minimal.cue")
	require.NoError(t, err)

	assert.Equal(t, []string{"==", "&&"}, tables.SupportedOperators())
	assert.Equal(t, []string{"like(value, value)", "has(value)"}, tables.MethodSignatures())

	op, ok := tables.Operator("*")
	require.True(t, ok)
	assert.False(t, op.Allowed)

	_, ok = tables.Method("regex")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("testdata/does-not-exist.cue")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read tables")
}

func TestLoadBytesErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{
			name:    "syntax error",
			src:     `operators: [`,
			wantErr: "bad.cue",
		},
		{
			name: "unknown shape",
			src: `operators: [{token: "==", target: "$eq"}]
methods: [{name: "x", target: "$x", shape: "many"}]`,
			wantErr: "cue",
		},
		{
			name: "target without dollar",
			src: `operators: [{token: "==", target: "eq"}]
methods: []`,
			wantErr: "cue",
		},
		{
			name: "unknown field",
			src: `operators: [{token: "==", target: "$eq", weight: 1}]
methods: []`,
			wantErr: "cue",
		},
		{
			name:    "no operators",
			src:     `operators: [], methods: []`,
			wantErr: "at least one operator is required",
		},
		{
			name: "duplicate token",
			src: `operators: [{token: "==", target: "$eq"}, {token: "==", target: "$ne"}]
methods: []`,
			wantErr: `duplicate token "=="`,
		},
		{
			name: "allowed without target",
			src: `operators: [{token: "=="}]
methods: []`,
			wantErr: "allowed but has no target",
		},
		{
			name: "two shape without option",
			src: `operators: [{token: "==", target: "$eq"}]
methods: [{name: "regex", target: "$regex", shape: "two"}]`,
			wantErr: "needs an option key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBytes([]byte(tt.src), "bad.cue")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var loadErr *LoadError
			assert.True(t, errors.As(err, &loadErr))
		})
	}
}

func TestNewValidation(t *testing.T) {
	_, err := New([]Operator{{Token: ""}}, nil)
	assert.ErrorContains(t, err, "empty token")

	_, err = New(nil, []Method{{Name: "a", Target: "$a"}})
	assert.ErrorContains(t, err, "invalid shape")

	_, err = New(nil, []Method{
		{Name: "a", Target: "$a", Shape: ShapeSingle},
		{Name: "a", Target: "$b", Shape: ShapeSingle},
	})
	assert.ErrorContains(t, err, `duplicate method "a"`)

	_, err = New(nil, []Method{{Name: "a", Shape: ShapeSingle}})
	assert.ErrorContains(t, err, "has no target")
}
