package doc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueSealed(t *testing.T) {
	// Verify all types implement Value (compile-time check via assignment)
	var _ Value = Null{}
	var _ Value = Bool(true)
	var _ Value = String("test")
	var _ Value = Number("1")
	var _ Value = Array{String("a"), Int(1)}
	var _ Value = NewDocument()
}

func TestDocumentKeepsInsertionOrder(t *testing.T) {
	d := NewDocument(
		E("zebra", String("z")),
		E("apple", String("a")),
		E("mango", String("m")),
	)

	assert.Equal(t, []string{"zebra", "apple", "mango"}, d.Keys())
	assert.Equal(t, 3, d.Len())
}

func TestDocumentSetReplacesInPlace(t *testing.T) {
	d := NewDocument(E("a", Int(1)), E("b", Int(2)))
	d.Set("a", Int(3))

	assert.Equal(t, []string{"a", "b"}, d.Keys())
	v, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, Int(3), v)
}

func TestDocumentGetHas(t *testing.T) {
	var d Document
	assert.False(t, d.Has("a"))
	_, ok := d.Get("a")
	assert.False(t, ok)

	d.Set("a", Null{})
	assert.True(t, d.Has("a"))
}

func TestDocumentElementsIsACopy(t *testing.T) {
	d := NewDocument(E("a", Int(1)))
	elems := d.Elements()
	elems[0].Key = "changed"

	assert.Equal(t, []string{"a"}, d.Keys())
}

func TestParseNumber(t *testing.T) {
	valid := []string{"0", "1", "-1", "1.50", "0.5", "1e10", "1E-3", "-0.0"}
	for _, s := range valid {
		n, err := ParseNumber(s)
		require.NoError(t, err, s)
		assert.Equal(t, Number(s), n)
	}

	invalid := []string{"", "01", ".5", "5.", "0x10", "+1", "1e", "NaN", "Infinity", " 1"}
	for _, s := range invalid {
		_, err := ParseNumber(s)
		assert.Error(t, err, s)
	}
}

func TestNumberIsInteger(t *testing.T) {
	assert.True(t, Number("1").IsInteger())
	assert.True(t, Number("-42").IsInteger())
	assert.False(t, Number("1.0").IsInteger())
	assert.False(t, Number("1e3").IsInteger())
}

func TestNumberNegate(t *testing.T) {
	assert.Equal(t, Number("-1"), Number("1").Negate())
	assert.Equal(t, Number("1.50"), Number("-1.50").Negate())
	assert.Equal(t, Number("2"), Number("2").Negate().Negate())
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"null", Null{}, `null`},
		{"bool", Bool(false), `false`},
		{"string", String("a\"b"), `"a\"b"`},
		{"no html escaping", String("this.a < 1 && this.b > 2"), `"this.a < 1 && this.b > 2"`},
		{"integer", Int(-3), `-3`},
		{"decimal kept as written", Number("1.50"), `1.50`},
		{"array", Array{Int(1), String("x"), Null{}}, `[1,"x",null]`},
		{"empty array", Array{}, `[]`},
		{"empty document", NewDocument(), `{}`},
		{
			"nested document keeps order",
			NewDocument(
				E("$set", NewDocument(E("b", Int(1)), E("a", Int(2)))),
				E("$unset", NewDocument(E("c", Null{}))),
			),
			`{"$set":{"b":1,"a":2},"$unset":{"c":null}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalRejectsInvalidNumber(t *testing.T) {
	_, err := Marshal(NewDocument(E("a", Number("0x10"))))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `value for key "a"`)
	assert.Contains(t, err.Error(), "0x10")
}

func TestMarshalRejectsNilDocument(t *testing.T) {
	var d *Document
	_, err := Marshal(Array{d})
	require.Error(t, err)
}

func TestMarshalIndent(t *testing.T) {
	d := NewDocument(E("a", NewDocument(E("$gte", Int(1)))))
	got, err := MarshalIndent(d, "", "  ")
	require.NoError(t, err)

	want := "{\n  \"a\": {\n    \"$gte\": 1\n  }\n}"
	assert.Equal(t, want, string(got))
}

func TestDocumentMarshalJSONThroughEncodingJSON(t *testing.T) {
	payload := struct {
		Query *Document `json:"query"`
	}{
		Query: NewDocument(E("b", Int(1)), E("a", Int(2))),
	}

	got, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Equal(t, `{"query":{"b":1,"a":2}}`, string(got))
}

func TestDocumentString(t *testing.T) {
	d := NewDocument(E("a", Bool(false)))
	assert.Equal(t, `{"a":false}`, d.String())
}
