package document

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

const (
	idKey     = "id"
	authorKey = "author"
	nullTag   = "!!null"
)

// Decode maps a parsed document onto a changelog. The document is a mapping
// whose databaseChangeLog key holds a list of single-key entries: scalar
// entries are changelog attributes, changeSet entries are change sets and
// anything else is a directive.
func Decode(fileID string, document *yaml.Node, catalog *entities.Catalog) (*entities.Changelog, error) {
	changelog := &entities.Changelog{FileID: fileID}
	root := document
	if root != nil && root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return changelog, nil
		}
		root = root.Content[0]
	}
	if root == nil || root.Kind == 0 || isNull(root) {
		return changelog, nil
	}

	d := &decoder{fileID: fileID, catalog: catalog}
	entries, err := d.entries(resolve(root))
	if err != nil {
		return nil, err
	}

	var attrs []entities.Field
	for _, entry := range entries {
		key, value := entry[0], resolve(entry[1])
		switch {
		case key.Value == entities.ChangeSetElement:
			changeSet, changeSetErr := d.changeSet(value)
			if changeSetErr != nil {
				return nil, changeSetErr
			}
			changelog.ChangeSets = append(changelog.ChangeSets, changeSet)
		case value.Kind == yaml.ScalarNode:
			attrs = append(attrs, entities.NewField(key.Value, Value(value)))
		default:
			changelog.Directives = append(changelog.Directives, entities.Directive{
				Position: len(changelog.ChangeSets),
				Name:     key.Value,
				Value:    Value(value),
			})
		}
	}
	changelog.Attributes = entities.Map(attrs...)
	return changelog, nil
}

type decoder struct {
	fileID  string
	catalog *entities.Catalog
}

func (d *decoder) errorf(n *yaml.Node, format string, args ...interface{}) error {
	return &entities.ParseError{
		File:    d.fileID,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

// entries returns the key/value pairs of the databaseChangeLog list.
func (d *decoder) entries(root *yaml.Node) ([][2]*yaml.Node, error) {
	if root.Kind != yaml.MappingNode {
		return nil, d.errorf(root, "expected a mapping with a %q key", entities.ChangeLogElement)
	}
	var list *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if key.Value != entities.ChangeLogElement {
			return nil, d.errorf(key, "unexpected top-level key %q", key.Value)
		}
		list = resolve(root.Content[i+1])
	}
	if list == nil {
		return nil, d.errorf(root, "missing %q key", entities.ChangeLogElement)
	}
	if isNull(list) {
		return nil, nil
	}
	if list.Kind != yaml.SequenceNode {
		return nil, d.errorf(list, "%s must be a list", entities.ChangeLogElement)
	}

	entries := make([][2]*yaml.Node, 0, len(list.Content))
	for _, item := range list.Content {
		key, value, err := d.single(resolve(item))
		if err != nil {
			return nil, err
		}
		entries = append(entries, [2]*yaml.Node{key, value})
	}
	return entries, nil
}

// single unpacks a `- key: value` list entry.
func (d *decoder) single(item *yaml.Node) (*yaml.Node, *yaml.Node, error) {
	if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
		return nil, nil, d.errorf(item, "list entries must be single-key mappings")
	}
	return item.Content[0], item.Content[1], nil
}

func (d *decoder) changeSet(n *yaml.Node) (entities.ChangeSet, error) {
	var changeSet entities.ChangeSet
	if n.Kind != yaml.MappingNode {
		return changeSet, d.errorf(n, "changeSet must be a mapping")
	}

	var hasID, hasAuthor bool
	var attrs, extras []entities.Field
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], resolve(n.Content[i+1])
		switch {
		case key.Value == idKey && value.Kind == yaml.ScalarNode:
			changeSet.ID, hasID = value.Value, true
		case key.Value == authorKey && value.Kind == yaml.ScalarNode:
			changeSet.Author, hasAuthor = value.Value, true
		case key.Value == entities.ChangesKey:
			changes, err := d.changes(value)
			if err != nil {
				return changeSet, err
			}
			changeSet.Changes = changes
		case d.catalog.IsChangeSetChild(key.Value) || value.Kind != yaml.ScalarNode:
			extras = append(extras, entities.NewField(key.Value, Value(value)))
		default:
			attrs = append(attrs, entities.NewField(key.Value, Value(value)))
		}
	}
	if !hasID {
		return changeSet, d.errorf(n, `changeSet is missing required key "id"`)
	}
	if !hasAuthor {
		return changeSet, d.errorf(n, `changeSet %q is missing required key "author"`, changeSet.ID)
	}
	changeSet.Attributes = entities.Map(attrs...)
	changeSet.Extras = entities.Map(extras...)
	return changeSet, nil
}

func (d *decoder) changes(n *yaml.Node) ([]entities.Change, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, d.errorf(n, "changes must be a list")
	}
	changes := make([]entities.Change, 0, len(n.Content))
	for _, item := range n.Content {
		key, value, err := d.single(resolve(item))
		if err != nil {
			return nil, err
		}
		value = resolve(value)
		switch {
		case isNull(value):
			changes = append(changes, d.catalog.Classify(key.Value, entities.Map()))
		case !d.catalog.IsChange(key.Value), value.Kind == yaml.SequenceNode:
			// content outside the change grammar is kept verbatim
			changes = append(changes, entities.NewOpaqueChange(key.Value, Value(value)))
		case value.Kind != yaml.MappingNode:
			return nil, d.errorf(value, "change %q must be a mapping", key.Value)
		default:
			changes = append(changes, d.catalog.Classify(key.Value, Value(value)))
		}
	}
	return changes, nil
}

// Value maps a node onto a Value; null becomes an empty scalar, except
// where a mapping is expected.
func Value(n *yaml.Node) entities.Value {
	n = resolve(n)
	switch n.Kind {
	case yaml.MappingNode:
		fields := make([]entities.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			fields = append(fields, entities.NewField(n.Content[i].Value, Value(n.Content[i+1])))
		}
		return entities.Map(fields...)
	case yaml.SequenceNode:
		items := make([]entities.Value, 0, len(n.Content))
		for _, item := range n.Content {
			items = append(items, Value(item))
		}
		return entities.List(items...)
	default:
		if isNull(n) {
			return entities.Scalar("")
		}
		return entities.Scalar(n.Value)
	}
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == nullTag
}
