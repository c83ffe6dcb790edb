//go:build unit

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/liquiconvert/internal/domain/commands"
	infraRepos "github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories"
	doubles "github.com/rios0rios0/liquiconvert/test/infrastructure/repositorydoubles"
)

func TestFormatsCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should list every built-in format in both roles", func(t *testing.T) {
		t.Parallel()

		// given
		cmd := commands.NewFormatsCommand(newDefaultFormats(t))

		// when
		infos := cmd.Execute()

		// then
		names := make([]string, 0, len(infos))
		for _, info := range infos {
			names = append(names, info.Name)
			assert.True(t, info.Parse, info.Name)
			assert.True(t, info.Serialize, info.Name)
		}
		assert.Equal(t, []string{"hcl", "json", "xml", "yaml", "yml"}, names)
	})

	t.Run("should mark formats that only read or only write", func(t *testing.T) {
		t.Parallel()

		// given
		formats := infraRepos.NewFormatRegistry()
		require.NoError(t, formats.RegisterParser(&doubles.StubParserRepository{FormatName: "sql"}))
		require.NoError(t, formats.RegisterSerializer(&doubles.StubSerializerRepository{FormatName: "toml"}))
		cmd := commands.NewFormatsCommand(formats)

		// when
		infos := cmd.Execute()

		// then
		assert.Equal(t, []commands.FormatInfo{
			{Name: "sql", Parse: true},
			{Name: "toml", Serialize: true},
		}, infos)
	})
}
