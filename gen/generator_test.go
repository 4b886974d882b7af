package gen

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	schemas, err := ParseSource("note.go", []byte(noteSource))
	require.NoError(t, err)

	out, err := Generate(schemas, Options{})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "note_provider", out)
}

func TestGenerateOptions(t *testing.T) {
	schemas, err := ParseSource("note.go", []byte(noteSource))
	require.NoError(t, err)

	t.Run("custom package", func(t *testing.T) {
		out, err := Generate(schemas, Options{Package: "kbheal"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(out), "// Code generated"))
		assert.Contains(t, string(out), "package kbheal")
	})

	t.Run("no schemas is an error", func(t *testing.T) {
		_, err := Generate(nil, Options{})
		assert.Error(t, err)
	})
}

func TestGenerateWithoutReferences(t *testing.T) {
	src := `package kb

type Badge struct {
	ID    string
	Title string
}
`
	schemas, err := ParseSource("badge.go", []byte(src))
	require.NoError(t, err)

	out, err := Generate(schemas, Options{})
	require.NoError(t, err)

	text := string(out)
	assert.NotContains(t, text, "badgeRefs")
	assert.Contains(t, text, "&storeResolver{store: store}")
	assert.Contains(t, text, `return "badge"`)
	assert.Contains(t, text, "func (*Badge) SchemaVersion() int")
}
