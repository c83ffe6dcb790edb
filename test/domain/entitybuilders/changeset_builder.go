//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ChangeSetBuilder helps create test change sets with a fluent interface.
type ChangeSetBuilder struct {
	*testkit.BaseBuilder
	id         string
	author     string
	attributes entities.Value
	extras     entities.Value
	changes    []entities.Change
}

// NewChangeSetBuilder creates a new change set builder with sensible defaults.
func NewChangeSetBuilder() *ChangeSetBuilder {
	return &ChangeSetBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		id:          "1",
		author:      "alice",
	}
}

// WithID sets the change set identifier.
func (b *ChangeSetBuilder) WithID(id string) *ChangeSetBuilder {
	b.id = id
	return b
}

// WithAuthor sets the change set author.
func (b *ChangeSetBuilder) WithAuthor(author string) *ChangeSetBuilder {
	b.author = author
	return b
}

// WithAttribute appends a scalar attribute (context, runOnChange, ...).
func (b *ChangeSetBuilder) WithAttribute(key, value string) *ChangeSetBuilder {
	b.attributes = b.attributes.With(key, entities.Scalar(value))
	return b
}

// WithExtra appends a non-change child such as comment or rollback.
func (b *ChangeSetBuilder) WithExtra(key string, value entities.Value) *ChangeSetBuilder {
	b.extras = b.extras.With(key, value)
	return b
}

// WithChange appends a recognized change.
func (b *ChangeSetBuilder) WithChange(kind string, params entities.Value) *ChangeSetBuilder {
	b.changes = append(b.changes, entities.NewChange(kind, params))
	return b
}

// WithOpaqueChange appends a change of unrecognized kind.
func (b *ChangeSetBuilder) WithOpaqueChange(name string, params entities.Value) *ChangeSetBuilder {
	b.changes = append(b.changes, entities.NewOpaqueChange(name, params))
	return b
}

// WithCreateTable appends a createTable change with one column per name.
func (b *ChangeSetBuilder) WithCreateTable(table string, columns ...string) *ChangeSetBuilder {
	items := make([]entities.Value, 0, len(columns))
	for _, column := range columns {
		items = append(items, entities.Map(entities.NewField("column", entities.Map(
			entities.NewField("name", entities.Scalar(column)),
			entities.NewField("type", entities.Scalar("varchar(255)")),
		))))
	}
	params := entities.Map(entities.NewField("tableName", entities.Scalar(table)))
	if len(items) > 0 {
		params = params.With("columns", entities.List(items...))
	}
	return b.WithChange("createTable", params)
}

// Build creates the change set (satisfies testkit.Builder interface).
func (b *ChangeSetBuilder) Build() interface{} {
	return b.BuildChangeSet()
}

// BuildChangeSet creates the change set with a concrete return type.
func (b *ChangeSetBuilder) BuildChangeSet() entities.ChangeSet {
	return entities.ChangeSet{
		ID:         b.id,
		Author:     b.author,
		Attributes: b.attributes,
		Extras:     b.extras,
		Changes:    append([]entities.Change(nil), b.changes...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ChangeSetBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.id = "1"
	b.author = "alice"
	b.attributes = entities.Value{}
	b.extras = entities.Value{}
	b.changes = nil
	return b
}

// Clone creates a deep copy of the ChangeSetBuilder.
func (b *ChangeSetBuilder) Clone() testkit.Builder {
	return &ChangeSetBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		id:          b.id,
		author:      b.author,
		attributes:  b.attributes,
		extras:      b.extras,
		changes:     append([]entities.Change(nil), b.changes...),
	}
}
