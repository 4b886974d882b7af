package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const noteSource = `package kb

type Note struct {
	ID            string   ` + "`json:\"id\"`" + `
	Title         string   ` + "`json:\"title\"`" + `
	AuthorID      string   ` + "`json:\"author_id\"`" + `
	Tags          []string ` + "`json:\"tags\"`" + `
	Pinned        *bool    ` + "`json:\"pinned\"`" + `
	SchemaVersion int      ` + "`json:\"schema_version\"`" + `
}
`

func TestParseSource(t *testing.T) {
	t.Run("extracts entry type schema", func(t *testing.T) {
		schemas, err := ParseSource("note.go", []byte(noteSource))
		require.NoError(t, err)
		require.Len(t, schemas, 1)

		s := schemas[0]
		assert.Equal(t, "Note", s.Name)
		assert.Equal(t, "note", s.EntryType)
		require.Len(t, s.Fields, 6)

		byName := map[string]Field{}
		for _, f := range s.Fields {
			byName[f.JSONName] = f
		}
		assert.Equal(t, KindString, byName["id"].Kind)
		assert.True(t, byName["id"].Required)
		assert.True(t, byName["author_id"].Reference)
		assert.False(t, byName["title"].Reference)
		assert.Equal(t, KindStrings, byName["tags"].Kind)
		assert.False(t, byName["tags"].Required)
		assert.Equal(t, KindBool, byName["pinned"].Kind)
		assert.False(t, byName["pinned"].Required)
		assert.Equal(t, KindNumber, byName["schema_version"].Kind)
	})

	t.Run("skips structs without an id field", func(t *testing.T) {
		src := `package kb

type Settings struct {
	Theme string
	Size  int
}
`
		schemas, err := ParseSource("settings.go", []byte(src))
		require.NoError(t, err)
		assert.Empty(t, schemas)
	})

	t.Run("skips unexported structs and non-structs", func(t *testing.T) {
		src := `package kb

type internalNote struct {
	ID    string
	Title string
}

type Alias = string
`
		schemas, err := ParseSource("misc.go", []byte(src))
		require.NoError(t, err)
		assert.Empty(t, schemas)
	})

	t.Run("entry suffix stripped", func(t *testing.T) {
		src := `package kb

type LearningPathEntry struct {
	ID    string
	Title string
}
`
		schemas, err := ParseSource("path.go", []byte(src))
		require.NoError(t, err)
		require.Len(t, schemas, 1)
		assert.Equal(t, "learning_path", schemas[0].EntryType)
	})

	t.Run("parse error surfaces", func(t *testing.T) {
		_, err := ParseSource("broken.go", []byte("package {"))
		assert.Error(t, err)
	})
}

func TestFieldNaming(t *testing.T) {
	t.Run("snake case without tags", func(t *testing.T) {
		src := `package kb

type Card struct {
	ID         string
	DeckID     string
	RelatedIDs []string
}
`
		schemas, err := ParseSource("card.go", []byte(src))
		require.NoError(t, err)
		require.Len(t, schemas, 1)

		names := []string{}
		for _, f := range schemas[0].Fields {
			names = append(names, f.JSONName)
		}
		assert.Equal(t, []string{"id", "deck_id", "related_ids"}, names)
	})

	t.Run("json dash excludes field", func(t *testing.T) {
		src := `package kb

type Card struct {
	ID     string
	Title  string
	Secret string ` + "`json:\"-\"`" + `
}
`
		schemas, err := ParseSource("card.go", []byte(src))
		require.NoError(t, err)
		require.Len(t, schemas, 1)
		assert.Len(t, schemas[0].Fields, 2)
	})
}

func TestGoVar(t *testing.T) {
	assert.Equal(t, "id", goVar("id"))
	assert.Equal(t, "authorID", goVar("author_id"))
	assert.Equal(t, "relatedNodeIDs", goVar("related_node_ids"))
	assert.Equal(t, "title", goVar("title"))
}

func TestRefGuess(t *testing.T) {
	assert.Equal(t, "path", refGuess("path_id"))
	assert.Equal(t, "related_node", refGuess("related_node_ids"))
	assert.Equal(t, "entry", refGuess("entry_hash"))
}

func TestSnakeCase(t *testing.T) {
	assert.Equal(t, "content", snakeCase("Content"))
	assert.Equal(t, "learning_path", snakeCase("LearningPath"))
	assert.Equal(t, "author_id", snakeCase("AuthorID"))
	assert.Equal(t, "http_server", snakeCase("HTTPServer"))
}
