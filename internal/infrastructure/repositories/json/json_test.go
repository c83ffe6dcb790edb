//go:build unit

package json_test

import (
	encjson "encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/json"
	builders "github.com/rios0rios0/liquiconvert/test/domain/entitybuilders"
)

const accountsChangelog = `{
  "databaseChangeLog": [
    {"property": {"name": "table", "value": "accounts"}},
    {
      "changeSet": {
        "id": "10",
        "author": "carol",
        "failOnError": false,
        "changes": [
          {"addColumn": {"tableName": "${table}", "columns": [
            {"column": {"name": "balance", "type": "decimal(10,2)", "defaultValueNumeric": 0}}
          ]}},
          {"vendorAudit": {"enabled": true}}
        ]
      }
    }
  ]
}
`

func TestParserRepositoryParse(t *testing.T) {
	t.Parallel()

	t.Run("should keep key order and map typed values to text", func(t *testing.T) {
		t.Parallel()

		// given
		parser := json.NewParserRepository(entities.DefaultCatalog())

		// when
		changelog, err := parser.Parse("accounts.json", []byte(accountsChangelog), entities.NewParameterBindings(nil))

		// then
		require.NoError(t, err)
		require.Len(t, changelog.ChangeSets, 1)
		changeSet := changelog.ChangeSets[0]
		assert.Equal(t, "10", changeSet.ID)
		failOnError, _ := changeSet.Attributes.Get("failOnError")
		assert.Equal(t, "false", failOnError.String())

		require.Len(t, changeSet.Changes, 2)
		params := changeSet.Changes[0].Parameters()
		require.Len(t, params.Fields(), 2)
		assert.Equal(t, "tableName", params.Fields()[0].Key)
		assert.Equal(t, "accounts", params.Fields()[0].Value.String())
		column, _ := params.Fields()[1].Value.Items()[0].Single()
		numeric, _ := column.Value.Get("defaultValueNumeric")
		assert.Equal(t, "0", numeric.String())
		assert.True(t, entities.IsOpaque(changeSet.Changes[1]))
	})

	t.Run("should report the line of a missing comma", func(t *testing.T) {
		t.Parallel()

		// given
		parser := json.NewParserRepository(entities.DefaultCatalog())
		raw := "{\"databaseChangeLog\": [\n  {\"changeSet\": {\"id\": \"1\" \"author\": \"a\"}}\n]}"

		// when
		_, err := parser.Parse("broken.json", []byte(raw), entities.NewParameterBindings(nil))

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, "broken.json", parseErr.File)
		assert.Equal(t, 2, parseErr.Line)
		assert.Positive(t, parseErr.Column)
	})

	t.Run("should reject data after the top-level value", func(t *testing.T) {
		t.Parallel()

		// given
		parser := json.NewParserRepository(entities.DefaultCatalog())
		raw := "{\"databaseChangeLog\": []}\n{}"

		// when
		_, err := parser.Parse("a.json", []byte(raw), entities.NewParameterBindings(nil))

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 2, parseErr.Line)
	})

	t.Run("should report truncated input", func(t *testing.T) {
		t.Parallel()

		// given
		parser := json.NewParserRepository(entities.DefaultCatalog())

		// when
		_, err := parser.Parse("a.json", []byte(`{"databaseChangeLog": [`), entities.NewParameterBindings(nil))

		// then
		var parseErr *entities.ParseError
		require.ErrorAs(t, err, &parseErr)
		assert.Equal(t, 1, parseErr.Line)
	})

	t.Run("should return an empty changelog for blank input", func(t *testing.T) {
		t.Parallel()

		// given
		parser := json.NewParserRepository(entities.DefaultCatalog())

		// when
		changelog, err := parser.Parse("a.json", []byte("\n"), entities.NewParameterBindings(nil))

		// then
		require.NoError(t, err)
		assert.Empty(t, changelog.ChangeSets)
	})
}

func TestSerializerRepositorySerialize(t *testing.T) {
	t.Parallel()

	t.Run("should write valid JSON with bare booleans and numbers", func(t *testing.T) {
		t.Parallel()

		// given
		serializer := json.NewSerializerRepository(entities.DefaultCatalog())
		changelog := builders.NewChangelogBuilder().
			WithChangeSet(builders.NewChangeSetBuilder().
				WithAttribute("runAlways", "true").
				WithChange("createSequence", entities.Map(
					entities.NewField("sequenceName", entities.Scalar("seq_<id>")),
					entities.NewField("startValue", entities.Scalar("100")),
				)).
				BuildChangeSet()).
			BuildChangelog()

		// when
		out, err := serializer.Serialize(changelog)

		// then
		require.NoError(t, err)
		assert.True(t, encjson.Valid(out), string(out))
		text := string(out)
		assert.Contains(t, text, `"runAlways": true`)
		assert.Contains(t, text, `"startValue": 100`)
		assert.Contains(t, text, `"sequenceName": "seq_<id>"`)
		assert.Contains(t, text, `"id": "1"`)
	})

	t.Run("should write an empty changelog as an empty list", func(t *testing.T) {
		t.Parallel()

		// given
		serializer := json.NewSerializerRepository(entities.DefaultCatalog())

		// when
		out, err := serializer.Serialize(&entities.Changelog{FileID: "empty.json"})

		// then
		require.NoError(t, err)
		assert.JSONEq(t, `{"databaseChangeLog": []}`, string(out))
	})

	t.Run("should reproduce the parsed changelog when read back", func(t *testing.T) {
		t.Parallel()

		// given
		catalog := entities.DefaultCatalog()
		parser := json.NewParserRepository(catalog)
		serializer := json.NewSerializerRepository(catalog)
		bindings := entities.NewParameterBindings(nil)
		first, err := parser.Parse("accounts.json", []byte(accountsChangelog), bindings)
		require.NoError(t, err)

		// when
		out, serializeErr := serializer.Serialize(first)
		require.NoError(t, serializeErr)
		second, parseErr := parser.Parse("accounts.json", out, bindings)

		// then
		require.NoError(t, parseErr)
		assert.True(t, first.Equal(second), "round trip changed the changelog:\n%s", out)
	})
}
