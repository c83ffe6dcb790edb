package xml

import (
	"bytes"
	"fmt"
	"regexp"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

const (
	// SchemaVersion is the dbchangelog XSD version written to generated files.
	SchemaVersion = "4.20"

	// LatestKnownSchema is the newest dbchangelog XSD version this parser knows.
	LatestKnownSchema = "4.33"

	changelogNamespace = "http://www.liquibase.org/xml/ns/dbchangelog"
	xsiNamespace       = "http://www.w3.org/2001/XMLSchema-instance"
)

// schemaVersionPattern extracts the version from a dbchangelog-X.Y.xsd location.
var schemaVersionPattern = regexp.MustCompile(`dbchangelog-(\d+\.\d+)\.xsd`)

// boilerplate attributes of the changelog root that are regenerated on output.
var boilerplate = map[string]struct{}{
	"xmlns":              {},
	"xmlns:xsi":          {},
	"xsi:schemaLocation": {},
}

// ParserRepository reads Liquibase dbchangelog XML.
type ParserRepository struct {
	catalog *entities.Catalog
}

// NewParserRepository creates an XML parser backed by the given catalog.
func NewParserRepository(catalog *entities.Catalog) *ParserRepository {
	return &ParserRepository{catalog: catalog}
}

func (it *ParserRepository) Format() string       { return "xml" }
func (it *ParserRepository) Extensions() []string { return []string{"xml"} }

// Parse decodes raw XML into a changelog and resolves its placeholders.
func (it *ParserRepository) Parse(
	fileID string,
	raw []byte,
	bindings entities.ParameterBindings,
) (*entities.Changelog, error) {
	changelog := &entities.Changelog{FileID: fileID}
	if len(bytes.TrimSpace(raw)) == 0 {
		return changelog, nil
	}

	root, err := decodeTree(fileID, raw)
	if err != nil {
		return nil, err
	}
	if root.name != entities.ChangeLogElement {
		return nil, positioned(fileID, root.line, root.column,
			fmt.Sprintf("root element must be <%s>, found <%s>", entities.ChangeLogElement, root.name))
	}

	var attrs []entities.Field
	for _, attr := range root.attrs {
		if attr.name == "xsi:schemaLocation" {
			warnNewerSchema(fileID, attr.value)
		}
		if _, skip := boilerplate[attr.name]; skip {
			continue
		}
		attrs = append(attrs, entities.NewField(attr.name, entities.Scalar(attr.value)))
	}
	changelog.Attributes = entities.Map(attrs...)

	for _, child := range root.children {
		if child.name != entities.ChangeSetElement {
			changelog.Directives = append(changelog.Directives, entities.Directive{
				Position: len(changelog.ChangeSets),
				Name:     child.name,
				Value:    elementValue(child, directiveCatalog(it.catalog, child.name)),
			})
			continue
		}

		changeSet, changeSetErr := it.changeSet(fileID, child)
		if changeSetErr != nil {
			return nil, changeSetErr
		}
		changelog.ChangeSets = append(changelog.ChangeSets, changeSet)
	}

	if err = changelog.ResolvePlaceholders(bindings); err != nil {
		return nil, err
	}
	return changelog, nil
}

func (it *ParserRepository) changeSet(fileID string, element *node) (entities.ChangeSet, error) {
	var changeSet entities.ChangeSet
	var hasID, hasAuthor bool
	var attrs []entities.Field
	for _, attr := range element.attrs {
		switch attr.name {
		case "id":
			changeSet.ID, hasID = attr.value, true
		case "author":
			changeSet.Author, hasAuthor = attr.value, true
		default:
			attrs = append(attrs, entities.NewField(attr.name, entities.Scalar(attr.value)))
		}
	}
	if !hasID {
		return changeSet, positioned(fileID, element.line, element.column, `changeSet is missing required attribute "id"`)
	}
	if !hasAuthor {
		return changeSet, positioned(fileID, element.line, element.column,
			fmt.Sprintf(`changeSet %q is missing required attribute "author"`, changeSet.ID))
	}
	changeSet.Attributes = entities.Map(attrs...)

	var extras []*node
	for _, child := range element.children {
		if it.catalog.IsChangeSetChild(child.name) {
			extras = append(extras, child)
			continue
		}
		switch {
		case !it.catalog.IsChange(child.name):
			changeSet.Changes = append(changeSet.Changes,
				entities.NewOpaqueChange(child.name, elementValue(child, nil)))
		case groupable(child, it.catalog):
			changeSet.Changes = append(changeSet.Changes,
				entities.NewChange(child.name, elementValue(child, it.catalog)))
		default:
			// grouping would reorder or merge children, so keep them as written
			changeSet.Changes = append(changeSet.Changes,
				entities.NewOpaqueChange(child.name, sequenceValue(child, entities.ElementSpec{}, nil)))
		}
	}
	changeSet.Extras = entities.Map(groupChildren(extras, it.catalog.ChangeSetSpec(), it.catalog)...)
	return changeSet, nil
}

func warnNewerSchema(fileID, location string) {
	match := schemaVersionPattern.FindStringSubmatch(location)
	if match == nil {
		return
	}
	if semver.Compare("v"+match[1], "v"+LatestKnownSchema) > 0 {
		logger.Warnf(
			"%s: dbchangelog schema %s is newer than %s, unknown elements are kept as they are",
			fileID, match[1], LatestKnownSchema,
		)
	}
}

// elementValue maps an element onto a Value. A nil catalog applies the
// generic mapping used for opaque content, which switches to the ordered
// sequence shape as soon as grouping children by name would lose anything.
func elementValue(element *node, catalog *entities.Catalog) entities.Value {
	spec := catalog.Element(element.name)
	if spec.Sequence || (catalog == nil && !distinctNames(element)) {
		return sequenceValue(element, spec, catalog)
	}

	text := element.trimmedText()
	var fields []entities.Field
	for _, attr := range element.attrs {
		fields = append(fields, entities.NewField(attr.name, entities.Scalar(attr.value)))
	}
	if text != "" {
		key := spec.TextParam
		if key == "" {
			key = entities.TextKey
		}
		fields = append(fields, entities.NewField(key, entities.Scalar(text)))
	}
	fields = append(fields, groupChildren(element.children, spec, catalog)...)
	return entities.Map(fields...)
}

// sequenceValue maps an element onto an ordered list of single-key entries:
// attributes, then text, then children as they appear.
func sequenceValue(element *node, spec entities.ElementSpec, catalog *entities.Catalog) entities.Value {
	text := element.trimmedText()
	if element.isTextOnly() {
		if text != "" {
			return entities.Scalar(text)
		}
		return entities.List()
	}
	var items []entities.Value
	for _, attr := range element.attrs {
		items = append(items, entities.Map(entities.NewField(attr.name, entities.Scalar(attr.value))))
	}
	if text != "" {
		items = append(items, entities.Map(entities.NewField(entities.TextKey, entities.Scalar(text))))
	}
	for _, child := range element.children {
		items = append(items, entities.Map(entities.NewField(child.name, childValue(child, spec, catalog))))
	}
	return entities.List(items...)
}

// distinctNames reports whether every child name is unique and differs from
// the attribute names.
func distinctNames(element *node) bool {
	names := make(map[string]struct{}, len(element.attrs)+len(element.children))
	for _, attr := range element.attrs {
		names[attr.name] = struct{}{}
	}
	for _, child := range element.children {
		if _, taken := names[child.name]; taken {
			return false
		}
		names[child.name] = struct{}{}
	}
	return true
}

// groupable reports whether grouping children by name keeps their order and
// yields distinct keys, for the element and all of its descendants.
func groupable(element *node, catalog *entities.Catalog) bool {
	spec := catalog.Element(element.name)
	if !spec.Sequence {
		taken := make(map[string]struct{})
		for _, attr := range element.attrs {
			taken[attr.name] = struct{}{}
		}
		if spec.TextParam != "" && element.trimmedText() != "" {
			taken[spec.TextParam] = struct{}{}
		}

		var order []string
		counts := make(map[string]int)
		collections := make(map[string]bool)
		closed := make(map[string]struct{})
		for _, child := range element.children {
			key, collection := spec.CollectionFor(child.name)
			if !collection {
				key = child.name
			}
			if len(order) == 0 || order[len(order)-1] != key {
				if _, interleaved := closed[key]; interleaved {
					return false
				}
				if len(order) > 0 {
					closed[order[len(order)-1]] = struct{}{}
				}
				order = append(order, key)
				collections[key] = collection
			}
			counts[key]++
		}
		for _, key := range order {
			if !collections[key] && counts[key] > 1 {
				key += "s"
			}
			if _, collides := taken[key]; collides {
				return false
			}
			taken[key] = struct{}{}
		}
	}

	for _, child := range element.children {
		if spec.IsTextChild(child.name) && child.isTextOnly() {
			continue
		}
		if !groupable(child, catalog) {
			return false
		}
	}
	return true
}

// directiveCatalog returns the catalog for directives it declares a grammar
// for; any other directive is mapped generically.
func directiveCatalog(catalog *entities.Catalog, name string) *entities.Catalog {
	if catalog.HasElement(name) {
		return catalog
	}
	return nil
}

// childValue maps a child, collapsing declared text children to scalars.
func childValue(child *node, parent entities.ElementSpec, catalog *entities.Catalog) entities.Value {
	if parent.IsTextChild(child.name) && child.isTextOnly() {
		return entities.Scalar(child.trimmedText())
	}
	return elementValue(child, catalog)
}

type childGroup struct {
	key        string
	collection bool
	nodes      []*node
}

// groupChildren folds children into fields in first-occurrence order.
// Collection members and repeated names become lists of single-key maps.
func groupChildren(children []*node, spec entities.ElementSpec, catalog *entities.Catalog) []entities.Field {
	var groups []*childGroup
	index := make(map[string]*childGroup)
	for _, child := range children {
		key, collection := spec.CollectionFor(child.name)
		if !collection {
			key = child.name
		}
		group, ok := index[key]
		if !ok {
			group = &childGroup{key: key, collection: collection}
			index[key] = group
			groups = append(groups, group)
		}
		group.nodes = append(group.nodes, child)
	}

	fields := make([]entities.Field, 0, len(groups))
	for _, group := range groups {
		if !group.collection && len(group.nodes) == 1 {
			fields = append(fields, entities.NewField(group.key, childValue(group.nodes[0], spec, catalog)))
			continue
		}
		items := make([]entities.Value, 0, len(group.nodes))
		for _, child := range group.nodes {
			items = append(items, entities.Map(entities.NewField(child.name, childValue(child, spec, catalog))))
		}
		key := group.key
		if !group.collection {
			key += "s"
		}
		fields = append(fields, entities.NewField(key, entities.List(items...)))
	}
	return fields
}
