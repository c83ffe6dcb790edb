//go:build unit

package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/liquiconvert/internal/domain/commands"
	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	infraRepos "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/liquiconvert/test/infrastructure/repositorydoubles"
)

const usersXML = `<?xml version="1.0" encoding="UTF-8"?>
<databaseChangeLog xmlns="http://www.liquibase.org/xml/ns/dbchangelog">
    <changeSet id="1" author="alice">
        <createTable tableName="users"/>
    </changeSet>
</databaseChangeLog>
`

func newDefaultFormats(t *testing.T) *infraRepos.FormatRegistry {
	t.Helper()
	formats, err := infraRepos.NewDefaultFormatRegistry(entities.DefaultCatalog())
	require.NoError(t, err)
	return formats
}

func TestConvertCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should convert an xml change set to yaml", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewConvertCommand(newDefaultFormats(t))

		// when
		out, err := cmd.Execute("users.xml", []byte(usersXML), "xml", "yaml", entities.NewParameterBindings(nil))

		// then
		require.NoError(t, err)
		var document struct {
			DatabaseChangeLog []struct {
				ChangeSet struct {
					ID      string                         `yaml:"id"`
					Author  string                         `yaml:"author"`
					Changes []map[string]map[string]string `yaml:"changes"`
				} `yaml:"changeSet"`
			} `yaml:"databaseChangeLog"`
		}
		require.NoError(t, yaml.Unmarshal(out, &document))
		require.Len(t, document.DatabaseChangeLog, 1)
		changeSet := document.DatabaseChangeLog[0].ChangeSet
		assert.Equal(t, "1", changeSet.ID)
		assert.Equal(t, "alice", changeSet.Author)
		require.Len(t, changeSet.Changes, 1)
		assert.Equal(t, "users", changeSet.Changes[0]["createTable"]["tableName"])
	})

	t.Run("should return the unsupported format error unwrapped", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewConvertCommand(newDefaultFormats(t))

		// when
		_, err := cmd.Execute("users.xml", []byte(usersXML), "xml", "sql", entities.NewParameterBindings(nil))

		// then
		var unsupported *entities.UnsupportedFormatError
		require.ErrorAs(t, err, &unsupported)
		assert.Equal(t, entities.TargetRole, unsupported.Role)
		var conversion *entities.ConversionError
		assert.NotErrorAs(t, err, &conversion)
	})

	t.Run("should attribute parse failures to the parse stage", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewConvertCommand(newDefaultFormats(t))

		// when
		_, err := cmd.Execute("bad.xml", []byte("<databaseChangeLog>"), "xml", "yaml", entities.NewParameterBindings(nil))

		// then
		var conversion *entities.ConversionError
		require.ErrorAs(t, err, &conversion)
		assert.Equal(t, entities.StageParse, conversion.Stage)
		assert.Equal(t, "bad.xml", conversion.File)
		var parseErr *entities.ParseError
		assert.ErrorAs(t, err, &parseErr)
	})

	t.Run("should attribute unbound placeholders to the parameters stage", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewConvertCommand(newDefaultFormats(t))
		raw := `<databaseChangeLog><changeSet id="1" author="a"><dropTable tableName="${t}"/></changeSet></databaseChangeLog>`

		// when
		_, err := cmd.Execute("a.xml", []byte(raw), "xml", "json", entities.NewParameterBindings(nil))

		// then
		var conversion *entities.ConversionError
		require.ErrorAs(t, err, &conversion)
		assert.Equal(t, entities.StageParameters, conversion.Stage)
		assert.Contains(t, err.Error(), "failed to expand parameters of a.xml")
	})

	t.Run("should attribute serializer failures to the serialize stage", func(t *testing.T) {
		t.Parallel()

		// given
		formats := infraRepos.NewFormatRegistry()
		boom := errors.New("boom")
		require.NoError(t, formats.RegisterParser(&doubles.StubParserRepository{FormatName: "in"}))
		require.NoError(t, formats.RegisterSerializer(&doubles.StubSerializerRepository{FormatName: "out", SerializeErr: boom}))
		cmd := commands.NewConvertCommand(formats)

		// when
		_, err := cmd.Execute("a.in", []byte("x"), "in", "out", entities.NewParameterBindings(nil))

		// then
		var conversion *entities.ConversionError
		require.ErrorAs(t, err, &conversion)
		assert.Equal(t, entities.StageSerialize, conversion.Stage)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("should pass the bindings to the parser", func(t *testing.T) {
		t.Parallel()

		// given
		formats := infraRepos.NewFormatRegistry()
		parser := &doubles.StubParserRepository{FormatName: "in"}
		require.NoError(t, formats.RegisterParser(parser))
		require.NoError(t, formats.RegisterSerializer(&doubles.StubSerializerRepository{FormatName: "out", Output: []byte("ok")}))
		cmd := commands.NewConvertCommand(formats)
		bindings := entities.NewParameterBindings(map[string]string{"schema": "public"})

		// when
		out, err := cmd.Execute("a.in", []byte("x"), "IN", ".out", bindings)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ok", string(out))
		assert.Equal(t, []string{"a.in"}, parser.ParsedFiles)
		assert.Equal(t, []string{"schema"}, parser.LastBindings.Names())
	})
}
