package entities

// Changelog is the canonical model of one changelog file.
type Changelog struct {
	FileID     string
	Attributes Value // ordered scalar fields of the changelog root
	ChangeSets []ChangeSet
	Directives []Directive
}

// ChangeSet is one atomic, attributable unit of change.
type ChangeSet struct {
	ID         string
	Author     string
	Attributes Value // run conditions, contexts, labels, ...
	Extras     Value // comment, preConditions, rollback, ...
	Changes    []Change
}

// Directive is a top-level entry that is not a change set (property,
// include, preConditions, ...). Position is the number of change sets that
// precede it in the source document.
type Directive struct {
	Position int
	Name     string
	Value    Value
}

// Entry is one top-level item in document order; exactly one field is set.
type Entry struct {
	ChangeSet *ChangeSet
	Directive *Directive
}

// Entries interleaves directives and change sets back into document order.
func (c *Changelog) Entries() []Entry {
	entries := make([]Entry, 0, len(c.ChangeSets)+len(c.Directives))
	next := 0
	for i := range c.ChangeSets {
		for next < len(c.Directives) && c.Directives[next].Position <= i {
			entries = append(entries, Entry{Directive: &c.Directives[next]})
			next++
		}
		entries = append(entries, Entry{ChangeSet: &c.ChangeSets[i]})
	}
	for ; next < len(c.Directives); next++ {
		entries = append(entries, Entry{Directive: &c.Directives[next]})
	}
	return entries
}

// Properties returns the name/value pairs declared by `property` directives.
// When a name is declared twice the first declaration wins.
func (c *Changelog) Properties() map[string]string {
	properties := make(map[string]string)
	for _, d := range c.Directives {
		if d.Name != PropertyDirective {
			continue
		}
		name, hasName := d.Value.Get("name")
		value, hasValue := d.Value.Get("value")
		if !hasName || !hasValue || !name.IsScalar() || !value.IsScalar() {
			continue
		}
		if _, seen := properties[name.String()]; !seen {
			properties[name.String()] = value.String()
		}
	}
	return properties
}

// ResolvePlaceholders substitutes every ${name} token in the changelog.
// File-level properties act as defaults beneath the run bindings; property
// directives themselves are kept verbatim.
func (c *Changelog) ResolvePlaceholders(bindings ParameterBindings) error {
	effective, err := bindings.WithDefaults(c.FileID, c.Properties())
	if err != nil {
		return err
	}
	expand := func(where string) func(string) (string, error) {
		return func(text string) (string, error) {
			return effective.Expand(c.FileID, where, text)
		}
	}

	attrs, err := c.Attributes.Transform(expand("changelog attributes"))
	if err != nil {
		return err
	}
	c.Attributes = attrs

	for i := range c.Directives {
		d := &c.Directives[i]
		if d.Name == PropertyDirective {
			continue
		}
		if d.Value, err = d.Value.Transform(expand(d.Name)); err != nil {
			return err
		}
	}

	for i := range c.ChangeSets {
		if err = c.ChangeSets[i].resolve(effective, c.FileID); err != nil {
			return err
		}
	}
	return nil
}

func (cs *ChangeSet) resolve(bindings ParameterBindings, fileID string) error {
	where := "changeSet " + cs.ID
	expand := func(text string) (string, error) {
		return bindings.Expand(fileID, where, text)
	}

	var err error
	if cs.ID, err = expand(cs.ID); err != nil {
		return err
	}
	if cs.Author, err = expand(cs.Author); err != nil {
		return err
	}
	if cs.Attributes, err = cs.Attributes.Transform(expand); err != nil {
		return err
	}
	if cs.Extras, err = cs.Extras.Transform(expand); err != nil {
		return err
	}
	for i, change := range cs.Changes {
		params, transformErr := change.Parameters().Transform(expand)
		if transformErr != nil {
			return transformErr
		}
		if IsOpaque(change) {
			cs.Changes[i] = NewOpaqueChange(ElementName(change), params)
		} else {
			cs.Changes[i] = NewChange(change.Type(), params)
		}
	}
	return nil
}

// Equal reports whether two changelogs carry the same content.
func (c *Changelog) Equal(other *Changelog) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.FileID != other.FileID || !c.Attributes.Equal(other.Attributes) {
		return false
	}
	if len(c.ChangeSets) != len(other.ChangeSets) || len(c.Directives) != len(other.Directives) {
		return false
	}
	for i := range c.ChangeSets {
		if !c.ChangeSets[i].Equal(&other.ChangeSets[i]) {
			return false
		}
	}
	for i := range c.Directives {
		a, b := c.Directives[i], other.Directives[i]
		if a.Position != b.Position || a.Name != b.Name || !a.Value.Equal(b.Value) {
			return false
		}
	}
	return true
}

// Equal reports whether two change sets carry the same content.
func (cs *ChangeSet) Equal(other *ChangeSet) bool {
	if cs.ID != other.ID || cs.Author != other.Author {
		return false
	}
	if !cs.Attributes.Equal(other.Attributes) || !cs.Extras.Equal(other.Extras) {
		return false
	}
	if len(cs.Changes) != len(other.Changes) {
		return false
	}
	for i := range cs.Changes {
		if !changesEqual(cs.Changes[i], other.Changes[i]) {
			return false
		}
	}
	return true
}
