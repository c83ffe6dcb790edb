package xml

import (
	"bytes"
	encxml "encoding/xml"
	"fmt"
	"regexp"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

const header = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

var namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._:-]*$`)

// SerializerRepository writes Liquibase dbchangelog XML.
type SerializerRepository struct {
	catalog *entities.Catalog
}

// NewSerializerRepository creates an XML serializer backed by the given catalog.
func NewSerializerRepository(catalog *entities.Catalog) *SerializerRepository {
	return &SerializerRepository{catalog: catalog}
}

func (it *SerializerRepository) Format() string { return "xml" }

// Serialize renders the changelog as an indented dbchangelog document.
func (it *SerializerRepository) Serialize(changelog *entities.Changelog) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	encoder := encxml.NewEncoder(&buf)
	encoder.Indent("", "    ")
	w := &writer{encoder: encoder}

	rootAttrs := []encxml.Attr{
		attr("xmlns", changelogNamespace),
		attr("xmlns:xsi", xsiNamespace),
	}
	custom, err := attributes(changelog.Attributes, "changelog attributes")
	if err != nil {
		return nil, err
	}
	rootAttrs = append(rootAttrs, custom...)
	rootAttrs = append(rootAttrs, attr("xsi:schemaLocation", fmt.Sprintf(
		"%s %s/dbchangelog-%s.xsd", changelogNamespace, changelogNamespace, SchemaVersion,
	)))

	w.start(entities.ChangeLogElement, rootAttrs)
	for _, entry := range changelog.Entries() {
		if entry.Directive != nil {
			w.element(entry.Directive.Name, entry.Directive.Value, directiveCatalog(it.catalog, entry.Directive.Name))
			continue
		}
		it.changeSet(w, entry.ChangeSet)
	}
	w.end(entities.ChangeLogElement)

	if w.err != nil {
		return nil, w.err
	}
	if err = encoder.Flush(); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func (it *SerializerRepository) changeSet(w *writer, changeSet *entities.ChangeSet) {
	attrs := []encxml.Attr{attr("id", changeSet.ID), attr("author", changeSet.Author)}
	extra, err := attributes(changeSet.Attributes, "changeSet "+changeSet.ID)
	if err != nil {
		w.fail(err)
		return
	}
	w.start(entities.ChangeSetElement, append(attrs, extra...))

	spec := it.catalog.ChangeSetSpec()
	for _, field := range changeSet.Extras.Fields() {
		if !it.catalog.IsTrailingChangeSetChild(field.Key) {
			w.child(field.Key, field.Value, spec, it.catalog)
		}
	}
	for _, change := range changeSet.Changes {
		if entities.IsOpaque(change) {
			w.element(entities.ElementName(change), change.Parameters(), nil)
		} else {
			w.element(change.Type(), change.Parameters(), it.catalog)
		}
	}
	for _, field := range changeSet.Extras.Fields() {
		if it.catalog.IsTrailingChangeSetChild(field.Key) {
			w.child(field.Key, field.Value, spec, it.catalog)
		}
	}
	w.end(entities.ChangeSetElement)
}

func attr(name, value string) encxml.Attr {
	return encxml.Attr{Name: encxml.Name{Local: name}, Value: value}
}

func attributes(value entities.Value, where string) ([]encxml.Attr, error) {
	var attrs []encxml.Attr
	for _, field := range value.Fields() {
		if !field.Value.IsScalar() || !namePattern.MatchString(field.Key) {
			return nil, fmt.Errorf("%s: attribute %q: %w", where, field.Key, entities.ErrUnrepresentable)
		}
		attrs = append(attrs, attr(field.Key, field.Value.String()))
	}
	return attrs, nil
}

// writer streams tokens and keeps the first error, so callers can write a
// whole tree and check once.
type writer struct {
	encoder *encxml.Encoder
	err     error
}

func (w *writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *writer) token(token encxml.Token) {
	if w.err != nil {
		return
	}
	if err := w.encoder.EncodeToken(token); err != nil {
		w.err = err
	}
}

func (w *writer) start(name string, attrs []encxml.Attr) {
	w.token(encxml.StartElement{Name: encxml.Name{Local: name}, Attr: attrs})
}

func (w *writer) end(name string) {
	w.token(encxml.EndElement{Name: encxml.Name{Local: name}})
}

func (w *writer) text(text string) {
	if text != "" {
		w.token(encxml.CharData(text))
	}
}

func (w *writer) unrepresentable(name, shape string) {
	w.fail(fmt.Errorf("element <%s>: %s: %w", name, shape, entities.ErrUnrepresentable))
}

// element writes value as an element called name; it is the inverse of elementValue.
func (w *writer) element(name string, value entities.Value, catalog *entities.Catalog) {
	if w.err != nil {
		return
	}
	if !namePattern.MatchString(name) {
		w.unrepresentable(name, "invalid element name")
		return
	}

	switch value.Kind() {
	case entities.ScalarKind:
		w.start(name, nil)
		w.text(value.String())
		w.end(name)
	case entities.ListKind:
		w.sequence(name, value, catalog)
	case entities.MapKind:
		w.mapElement(name, value, catalog)
	}
}

func (w *writer) sequence(name string, value entities.Value, catalog *entities.Catalog) {
	var attrs []encxml.Attr
	var text string
	var children []entities.Field
	for _, item := range value.Items() {
		field, ok := item.Single()
		if !ok {
			w.unrepresentable(name, "sequence items must be single-key maps")
			return
		}
		switch {
		case field.Key == entities.TextKey && field.Value.IsScalar():
			text = field.Value.String()
		case field.Value.IsScalar() && namePattern.MatchString(field.Key):
			attrs = append(attrs, attr(field.Key, field.Value.String()))
		default:
			children = append(children, field)
		}
	}

	spec := catalog.Element(name)
	w.start(name, attrs)
	w.text(text)
	for _, child := range children {
		w.child(child.Key, child.Value, spec, catalog)
	}
	w.end(name)
}

func (w *writer) mapElement(name string, value entities.Value, catalog *entities.Catalog) {
	spec := catalog.Element(name)
	textKey := spec.TextParam
	if textKey == "" {
		textKey = entities.TextKey
	}

	var attrs []encxml.Attr
	var text string
	var children []entities.Field
	for _, field := range value.Fields() {
		switch {
		case field.Value.IsScalar() && (field.Key == textKey || field.Key == entities.TextKey):
			text = field.Value.String()
		case field.Value.IsScalar() && !spec.IsTextChild(field.Key):
			if !namePattern.MatchString(field.Key) {
				w.unrepresentable(name, fmt.Sprintf("invalid attribute name %q", field.Key))
				return
			}
			attrs = append(attrs, attr(field.Key, field.Value.String()))
		default:
			children = append(children, field)
		}
	}

	w.start(name, attrs)
	w.text(text)
	for _, child := range children {
		w.child(child.Key, child.Value, spec, catalog)
	}
	w.end(name)
}

// child writes one field of a parent element: text children, nested
// elements, sequences and collections of single-key maps. Generic content
// never groups children, so its lists are always sequences.
func (w *writer) child(key string, value entities.Value, parent entities.ElementSpec, catalog *entities.Catalog) {
	if catalog == nil || !value.IsList() || catalog.Element(key).Sequence {
		w.element(key, value, catalog)
		return
	}
	if value.Len() == 0 {
		if !parent.IsCollection(key) {
			w.element(key, value, catalog)
		}
		return
	}
	for _, item := range value.Items() {
		field, ok := item.Single()
		if !ok {
			w.unrepresentable(key, "list items must be single-key maps")
			return
		}
		w.element(field.Key, field.Value, catalog)
	}
}
