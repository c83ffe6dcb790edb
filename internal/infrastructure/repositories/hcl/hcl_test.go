//go:build unit

package hcl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/hcl"
	builders "github.com/rios0rios0/liquiconvert/test/domain/entitybuilders"
)

const usersChangelog = `attributes = {
  logicalFilePath = "db/main"
}

directive "property" {
  value = {
    name  = "schema"
    value = "public"
  }
}

changeSet "1" {
  author     = "alice"
  attributes = { context = "dev" }
  extras     = { comment = "users table" }

  change "createTable" {
    tableName = "${schema}.users"
    columns = [
      { column = { name = "id", type = "int" } },
    ]
  }

  change "vendorThing" {
    level = 3
    async = true
  }
}

directive "include" {
  value = { file = "next.hcl" }
}
`

func TestParserRepositoryParse(t *testing.T) {
	t.Parallel()

	t.Run("should map blocks onto the changelog and evaluate interpolations", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())

		// when
		changelog, err := parser.Parse("main.hcl", []byte(usersChangelog), entities.NewParameterBindings(nil))

		// then
		require.NoError(t, err)
		path, _ := changelog.Attributes.Get("logicalFilePath")
		assert.Equal(t, "db/main", path.String())

		require.Len(t, changelog.ChangeSets, 1)
		changeSet := changelog.ChangeSets[0]
		assert.Equal(t, "1", changeSet.ID)
		assert.Equal(t, "alice", changeSet.Author)
		context, _ := changeSet.Attributes.Get("context")
		assert.Equal(t, "dev", context.String())
		comment, _ := changeSet.Extras.Get("comment")
		assert.Equal(t, "users table", comment.String())

		require.Len(t, changeSet.Changes, 2)
		assert.Equal(t, "createTable", changeSet.Changes[0].Type())
		table, _ := changeSet.Changes[0].Parameters().Get("tableName")
		assert.Equal(t, "public.users", table.String())
		columns, _ := changeSet.Changes[0].Parameters().Get("columns")
		assert.Equal(t, 1, columns.Len())

		vendor := changeSet.Changes[1]
		assert.True(t, entities.IsOpaque(vendor))
		level, _ := vendor.Parameters().Get("level")
		async, _ := vendor.Parameters().Get("async")
		assert.Equal(t, "3", level.String())
		assert.Equal(t, "true", async.String())

		require.Len(t, changelog.Directives, 2)
		assert.Equal(t, 0, changelog.Directives[0].Position)
		assert.Equal(t, 1, changelog.Directives[1].Position)
	})

	t.Run("should resolve dotted parameter names", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "changeSet \"1\" {\n  author = \"a\"\n  change \"dropTable\" {\n    tableName = \"${db.schema}.t\"\n  }\n}\n"
		bindings := entities.NewParameterBindings(map[string]string{"db.schema": "audit"})

		// when
		changelog, err := parser.Parse("a.hcl", []byte(raw), bindings)

		// then
		require.NoError(t, err)
		table, _ := changelog.ChangeSets[0].Changes[0].Parameters().Get("tableName")
		assert.Equal(t, "audit.t", table.String())
	})

	t.Run("should fail on an unbound interpolation", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "changeSet \"1\" {\n  author = \"a\"\n  change \"dropTable\" {\n    tableName = \"${missing}\"\n  }\n}\n"

		// when
		_, err := parser.Parse("a.hcl", []byte(raw), entities.NewParameterBindings(nil))

		// then
		var unresolved *entities.UnresolvedParameterError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "missing", unresolved.Name)
		assert.Equal(t, "a.hcl", unresolved.File)
	})

	t.Run("should keep property directive values verbatim", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "directive \"property\" {\n  value = { name = \"schema\", value = \"${env}_app\" }\n}\n"
		bindings := entities.NewParameterBindings(map[string]string{"env": "dev"})

		// when
		changelog, err := parser.Parse("a.hcl", []byte(raw), bindings)

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"schema": "${env}_app"}, changelog.Properties())
	})

	t.Run("should expand property values before evaluating interpolations", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "directive \"property\" {\n  value = { name = \"schema\", value = \"${env}_app\" }\n}\n" +
			"changeSet \"1\" {\n  author = \"a\"\n  change \"dropTable\" {\n    tableName = \"${schema}.t\"\n  }\n}\n"
		bindings := entities.NewParameterBindings(map[string]string{"env": "dev"})

		// when
		changelog, err := parser.Parse("a.hcl", []byte(raw), bindings)

		// then
		require.NoError(t, err)
		table, _ := changelog.ChangeSets[0].Changes[0].Parameters().Get("tableName")
		assert.Equal(t, "dev_app.t", table.String())
	})

	t.Run("should fail when a property references an unbound name", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "directive \"property\" {\n  value = { name = \"a\", value = \"${b}\" }\n}\n" +
			"changeSet \"1\" {\n  author = \"x\"\n  change \"dropTable\" {\n    tableName = \"${a}\"\n  }\n}\n"

		// when
		_, err := parser.Parse("a.hcl", []byte(raw), entities.NewParameterBindings(nil))

		// then
		var unresolved *entities.UnresolvedParameterError
		require.ErrorAs(t, err, &unresolved)
		assert.Equal(t, "b", unresolved.Name)
		assert.Equal(t, "a.hcl", unresolved.File)
	})

	t.Run("should report a dotted name hidden by a bound prefix", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "changeSet \"1\" {\n  author = \"a\"\n  change \"dropTable\" {\n    tableName = \"${db.schema}\"\n  }\n}\n"
		bindings := entities.NewParameterBindings(map[string]string{"db": "main", "db.schema": "audit"})

		// when
		_, err := parser.Parse("a.hcl", []byte(raw), bindings)

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 4, parseErr.Line)
		assert.Contains(t, parseErr.Message, `"db.schema"`)
		assert.Contains(t, parseErr.Message, `"db" is also bound`)
	})

	t.Run("should report the line of malformed input", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "changeSet \"1\" {\n  author = \"a\"\n"

		// when
		_, err := parser.Parse("broken.hcl", []byte(raw), entities.NewParameterBindings(nil))

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "broken.hcl", parseErr.File)
		assert.Positive(t, parseErr.Line)
	})

	t.Run("should reject a change set without author", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())
		raw := "\nchangeSet \"9\" {\n}\n"

		// when
		_, err := parser.Parse("a.hcl", []byte(raw), entities.NewParameterBindings(nil))

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 2, parseErr.Line)
		assert.Contains(t, parseErr.Message, "author")
	})

	t.Run("should reject unknown top-level blocks", func(t *testing.T) {
		t.Parallel()

		// given
		parser := hcl.NewParserRepository(entities.DefaultCatalog())

		// when
		_, err := parser.Parse("a.hcl", []byte("resource \"x\" \"y\" {}\n"), entities.NewParameterBindings(nil))

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Contains(t, parseErr.Message, "resource")
	})
}

func TestSerializerRepositorySerialize(t *testing.T) {
	t.Parallel()

	t.Run("should write change sets as blocks", func(t *testing.T) {
		t.Parallel()

		// given
		serializer := hcl.NewSerializerRepository(entities.DefaultCatalog())
		changelog := builders.NewChangelogBuilder().
			WithChangeSet(builders.NewChangeSetBuilder().WithCreateTable("users").BuildChangeSet()).
			BuildChangelog()

		// when
		out, err := serializer.Serialize(changelog)

		// then
		require.NoError(t, err)
		text := string(out)
		assert.Contains(t, text, `changeSet "1" {`)
		assert.Contains(t, text, `author = "alice"`)
		assert.Contains(t, text, `change "createTable" {`)
		assert.Contains(t, text, `tableName = "users"`)
	})

	t.Run("should write an empty changelog as an empty file", func(t *testing.T) {
		t.Parallel()

		// given
		serializer := hcl.NewSerializerRepository(entities.DefaultCatalog())

		// when
		out, err := serializer.Serialize(&entities.Changelog{FileID: "empty.hcl"})

		// then
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("should reject parameter names that are not identifiers", func(t *testing.T) {
		t.Parallel()

		// given
		serializer := hcl.NewSerializerRepository(entities.DefaultCatalog())
		changelog := builders.NewChangelogBuilder().
			WithChangeSet(builders.NewChangeSetBuilder().
				WithOpaqueChange("x:thing", entities.Map(entities.NewField("xmlns:x", entities.Scalar("urn:x")))).
				BuildChangeSet()).
			BuildChangelog()

		// when
		_, err := serializer.Serialize(changelog)

		// then
		require.ErrorIs(t, err, entities.ErrUnrepresentable)
	})

	t.Run("should reject changes whose parameters are not a map", func(t *testing.T) {
		t.Parallel()

		// given
		serializer := hcl.NewSerializerRepository(entities.DefaultCatalog())
		changelog := builders.NewChangelogBuilder().
			WithChangeSet(builders.NewChangeSetBuilder().
				WithOpaqueChange("vendorList", entities.List(entities.Scalar("a"))).
				BuildChangeSet()).
			BuildChangelog()

		// when
		_, err := serializer.Serialize(changelog)

		// then
		require.ErrorIs(t, err, entities.ErrUnrepresentable)
	})

	t.Run("should reproduce the parsed changelog when read back", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entities.DefaultCatalog()
		parser := hcl.NewParserRepository(catalog)
		serializer := hcl.NewSerializerRepository(catalog)
		bindings := entities.NewParameterBindings(nil)
		first, err := parser.Parse("main.hcl", []byte(usersChangelog), bindings)
		require.NoError(t, err)

		// when
		out, serializeErr := serializer.Serialize(first)
		require.NoError(t, serializeErr)
		second, parseErr := parser.Parse("main.hcl", out, bindings)

		// then
		require.NoError(t, parseErr)
		assert.True(t, first.Equal(second), "round trip changed the changelog:\n%s", out)
	})
}
