// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mongoexpr/internal/doc"
)

// AssertGoldenDocument compares the indented JSON of v against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func AssertGoldenDocument(t *testing.T, name string, v doc.Value) {
	t.Helper()

	data, err := doc.MarshalIndent(v, "", "  ")
	require.NoError(t, err)

	AssertGolden(t, name, append(data, '\n'))
}

// AssertGolden compares raw bytes against testdata/golden/{name}.golden.
func AssertGolden(t *testing.T, name string, data []byte) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
