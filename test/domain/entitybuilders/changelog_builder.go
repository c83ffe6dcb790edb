//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// ChangelogBuilder helps create test changelogs with a fluent interface.
type ChangelogBuilder struct {
	*testkit.BaseBuilder
	fileID     string
	attributes entities.Value
	changeSets []entities.ChangeSet
	directives []entities.Directive
}

// NewChangelogBuilder creates a new changelog builder with sensible defaults.
func NewChangelogBuilder() *ChangelogBuilder {
	return &ChangelogBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		fileID:      "changelog.xml",
	}
}

// WithFileID sets the identifier of the source file.
func (b *ChangelogBuilder) WithFileID(fileID string) *ChangelogBuilder {
	b.fileID = fileID
	return b
}

// WithAttribute appends a root attribute.
func (b *ChangelogBuilder) WithAttribute(key, value string) *ChangelogBuilder {
	b.attributes = b.attributes.With(key, entities.Scalar(value))
	return b
}

// WithChangeSet appends a change set.
func (b *ChangelogBuilder) WithChangeSet(changeSet entities.ChangeSet) *ChangelogBuilder {
	b.changeSets = append(b.changeSets, changeSet)
	return b
}

// WithDirective appends a directive placed after the change sets added so far.
func (b *ChangelogBuilder) WithDirective(name string, value entities.Value) *ChangelogBuilder {
	b.directives = append(b.directives, entities.Directive{
		Position: len(b.changeSets),
		Name:     name,
		Value:    value,
	})
	return b
}

// WithProperty appends a property directive.
func (b *ChangelogBuilder) WithProperty(name, value string) *ChangelogBuilder {
	return b.WithDirective(entities.PropertyDirective, entities.Map(
		entities.NewField("name", entities.Scalar(name)),
		entities.NewField("value", entities.Scalar(value)),
	))
}

// Build creates the changelog (satisfies testkit.Builder interface).
func (b *ChangelogBuilder) Build() interface{} {
	return b.BuildChangelog()
}

// BuildChangelog creates the changelog with a concrete return type.
func (b *ChangelogBuilder) BuildChangelog() *entities.Changelog {
	return &entities.Changelog{
		FileID:     b.fileID,
		Attributes: b.attributes,
		ChangeSets: append([]entities.ChangeSet(nil), b.changeSets...),
		Directives: append([]entities.Directive(nil), b.directives...),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ChangelogBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.fileID = "changelog.xml"
	b.attributes = entities.Value{}
	b.changeSets = nil
	b.directives = nil
	return b
}

// Clone creates a deep copy of the ChangelogBuilder.
func (b *ChangelogBuilder) Clone() testkit.Builder {
	return &ChangelogBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		fileID:      b.fileID,
		attributes:  b.attributes,
		changeSets:  append([]entities.ChangeSet(nil), b.changeSets...),
		directives:  append([]entities.Directive(nil), b.directives...),
	}
}
