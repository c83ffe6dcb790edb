package document

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// Encode builds the document tree of a changelog, the inverse of Decode.
func Encode(changelog *entities.Changelog, catalog *entities.Catalog) *yaml.Node {
	list := &yaml.Node{Kind: yaml.SequenceNode}
	for _, field := range changelog.Attributes.Fields() {
		list.Content = append(list.Content, single(field.Key, Node(field.Value)))
	}
	for _, entry := range changelog.Entries() {
		if entry.Directive != nil {
			list.Content = append(list.Content, single(entry.Directive.Name, Node(entry.Directive.Value)))
			continue
		}
		list.Content = append(list.Content, single(entities.ChangeSetElement, changeSet(entry.ChangeSet, catalog)))
	}
	if len(list.Content) == 0 {
		list.Style = yaml.FlowStyle
	}

	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content, Scalar(entities.ChangeLogElement), list)
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

func changeSet(changeSet *entities.ChangeSet, catalog *entities.Catalog) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		n.Content = append(n.Content, Scalar(key), value)
	}

	add(idKey, String(changeSet.ID))
	add(authorKey, String(changeSet.Author))
	for _, field := range changeSet.Attributes.Fields() {
		add(field.Key, Node(field.Value))
	}
	for _, field := range changeSet.Extras.Fields() {
		if !catalog.IsTrailingChangeSetChild(field.Key) {
			add(field.Key, Node(field.Value))
		}
	}

	changes := &yaml.Node{Kind: yaml.SequenceNode}
	for _, change := range changeSet.Changes {
		changes.Content = append(changes.Content, single(entities.ElementName(change), Node(change.Parameters())))
	}
	if len(changes.Content) == 0 {
		changes.Style = yaml.FlowStyle
	}
	add(entities.ChangesKey, changes)

	for _, field := range changeSet.Extras.Fields() {
		if catalog.IsTrailingChangeSetChild(field.Key) {
			add(field.Key, Node(field.Value))
		}
	}
	return n
}

func single(key string, value *yaml.Node) *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{Scalar(key), value}}
}

// Node maps a Value onto a document node.
func Node(value entities.Value) *yaml.Node {
	switch value.Kind() {
	case entities.ScalarKind:
		return Scalar(value.String())
	case entities.ListKind:
		n := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range value.Items() {
			n.Content = append(n.Content, Node(item))
		}
		if len(n.Content) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n
	default:
		n := &yaml.Node{Kind: yaml.MappingNode}
		for _, field := range value.Fields() {
			n.Content = append(n.Content, Scalar(field.Key), Node(field.Value))
		}
		if len(n.Content) == 0 {
			n.Style = yaml.FlowStyle
		}
		return n
	}
}

// Scalar builds a scalar node. Canonical booleans and numbers stay plain so
// readers get typed values; any other text a YAML 1.1 resolver would type
// (octal, sexagesimal, yes/no/on/off, null, timestamps) is double-quoted.
func Scalar(text string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Value: text}
	switch {
	case strings.Contains(text, "\n"):
		n.Style = yaml.LiteralStyle
	case Typed(text):
	case text == "" || yaml11Typed.MatchString(text):
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// String builds a scalar node that always reads back as a string.
func String(text string) *yaml.Node {
	n := Scalar(text)
	if n.Style == 0 {
		n.Style = yaml.DoubleQuotedStyle
	}
	return n
}

// Typed reports whether text is a canonical boolean or number, which both
// YAML and JSON output write bare.
func Typed(text string) bool {
	return text == "true" || text == "false" || numberPattern.MatchString(text)
}

var (
	numberPattern = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

	yaml11Typed = regexp.MustCompile(`^(?:` +
		`[-+]?0b[01_]+|[-+]?0o?[0-7_]+|[-+]?(?:0|[1-9][0-9_]*)|[-+]?0x[0-9a-fA-F_]+` +
		`|[-+]?[0-9][0-9_]*(?::[0-5]?[0-9])+(?:\.[0-9_]*)?` +
		`|[-+]?(?:[0-9][0-9_]*)?\.[0-9.]*(?:[eE][-+]?[0-9]+)?|[-+]?[0-9][0-9_]*[eE][-+]?[0-9]+` +
		`|[-+]?\.(?:inf|Inf|INF)|\.(?:nan|NaN|NAN)` +
		`|y|Y|yes|Yes|YES|n|N|no|No|NO|true|True|TRUE|false|False|FALSE|on|On|ON|off|Off|OFF` +
		`|~|null|Null|NULL|<<|=` +
		`|[0-9]{4}-[0-9]{1,2}-[0-9]{1,2}(?:(?:[Tt]|[ \t]+)[0-9]{1,2}:[0-9]{2}:[0-9]{2}(?:\.[0-9]*)?(?:[ \t]*(?:Z|[-+][0-9]{1,2}(?::[0-9]{2})?))?)?` +
		`)$`)
)
