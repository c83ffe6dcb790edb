//go:build unit

package entities_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

func TestValue(t *testing.T) {
	t.Parallel()

	t.Run("should treat the zero value as an empty map", func(t *testing.T) {
		t.Parallel()

		// given
		var zero entities.Value

		// when
		equal := zero.Equal(entities.Map())

		// then
		assert.True(t, equal)
		assert.True(t, zero.IsMap())
		assert.Equal(t, 0, zero.Len())
	})

	t.Run("should keep field order when appending with With", func(t *testing.T) {
		t.Parallel()

		// given
		base := entities.Map(entities.NewField("b", entities.Scalar("2")))

		// when
		extended := base.With("a", entities.Scalar("1"))

		// then
		require.Len(t, extended.Fields(), 2)
		assert.Equal(t, "b", extended.Fields()[0].Key)
		assert.Equal(t, "a", extended.Fields()[1].Key)
		assert.Equal(t, 1, base.Len(), "receiver must not change")
	})

	t.Run("should return the only field of a single-key map", func(t *testing.T) {
		t.Parallel()

		// given
		entry := entities.Map(entities.NewField("column", entities.Map()))

		// when
		field, ok := entry.Single()

		// then
		assert.True(t, ok)
		assert.Equal(t, "column", field.Key)
		_, ok = entities.Map().Single()
		assert.False(t, ok)
	})

	t.Run("should compare kinds and order when checking equality", func(t *testing.T) {
		t.Parallel()

		// given
		ab := entities.Map(
			entities.NewField("a", entities.Scalar("1")),
			entities.NewField("b", entities.Scalar("2")),
		)
		ba := entities.Map(
			entities.NewField("b", entities.Scalar("2")),
			entities.NewField("a", entities.Scalar("1")),
		)

		// when
		sameOrder := ab.Equal(ab.With("c", entities.Scalar("3")))
		swapped := ab.Equal(ba)
		scalarVsList := entities.Scalar("").Equal(entities.List())

		// then
		assert.False(t, sameOrder)
		assert.False(t, swapped)
		assert.False(t, scalarVsList)
		assert.True(t, entities.List(entities.Scalar("x")).Equal(entities.List(entities.Scalar("x"))))
	})

	t.Run("should apply the function to every scalar when transforming", func(t *testing.T) {
		t.Parallel()

		// given
		tree := entities.Map(
			entities.NewField("name", entities.Scalar("users")),
			entities.NewField("columns", entities.List(entities.Scalar("id"), entities.Scalar("email"))),
		)

		// when
		upper, err := tree.Transform(func(s string) (string, error) { return strings.ToUpper(s), nil })

		// then
		require.NoError(t, err)
		expected := entities.Map(
			entities.NewField("name", entities.Scalar("USERS")),
			entities.NewField("columns", entities.List(entities.Scalar("ID"), entities.Scalar("EMAIL"))),
		)
		assert.True(t, expected.Equal(upper))
	})

	t.Run("should stop at the first error when transforming", func(t *testing.T) {
		t.Parallel()

		// given
		boom := errors.New("boom")
		tree := entities.List(entities.Scalar("a"), entities.Scalar("b"))

		// when
		_, err := tree.Transform(func(string) (string, error) { return "", boom })

		// then
		require.ErrorIs(t, err, boom)
	})
}
