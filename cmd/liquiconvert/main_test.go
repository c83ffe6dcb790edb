//go:build unit

package main //nolint:testpackage // tests unexported functions

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRootCommand(t *testing.T) {
	t.Parallel()

	t.Run("should wire every controller as a subcommand", func(t *testing.T) {
		t.Parallel()

		// given
		root := buildRootCommand(injectConvertController())

		// when
		addSubcommands(root, injectAppContext())

		// then
		names := make([]string, 0)
		for _, sub := range root.Commands() {
			names = append(names, sub.Name())
		}
		assert.ElementsMatch(t, []string{"convert", "watch", "formats"}, names)

		watch, _, err := root.Find([]string{"watch"})
		require.NoError(t, err)
		assert.NotNil(t, watch.Flags().Lookup("debounce"))
		assert.NotNil(t, root.PersistentFlags().Lookup("param"))
	})

	t.Run("should list the formats through the container", func(t *testing.T) {
		t.Parallel()

		// given
		root := buildRootCommand(injectConvertController())
		addSubcommands(root, injectAppContext())
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetArgs([]string{"formats"})

		// when
		err := root.Execute()

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), "FORMAT")
		for _, format := range []string{"xml", "yaml", "yml", "json", "hcl"} {
			assert.Contains(t, out.String(), format)
		}
	})
}
