package entities

// Well-known element names shared by every format.
const (
	ChangeLogElement  = "databaseChangeLog"
	ChangeSetElement  = "changeSet"
	ChangesKey        = "changes"
	PropertyDirective = "property"
)

// ElementSpec describes how an element's content maps onto a Value tree.
type ElementSpec struct {
	// TextParam names the parameter that receives the element's character data.
	TextParam string
	// TextChildren lists child elements that hold plain text and map to scalars.
	TextChildren []string
	// Collections maps a repeatable child element to the list parameter that
	// gathers it (column -> columns).
	Collections map[string]string
	// Sequence marks elements whose content is an ordered list of single-key
	// entries rather than a map (rollback, preConditions, and, or, not).
	Sequence bool
}

// IsTextChild reports whether the named child is a plain text scalar.
func (s ElementSpec) IsTextChild(name string) bool {
	for _, child := range s.TextChildren {
		if child == name {
			return true
		}
	}
	return false
}

// CollectionFor returns the list parameter that gathers the named child.
func (s ElementSpec) CollectionFor(name string) (string, bool) {
	key, ok := s.Collections[name]
	return key, ok
}

// IsCollection reports whether key is the list parameter of a collection.
func (s ElementSpec) IsCollection(key string) bool {
	for _, collection := range s.Collections {
		if collection == key {
			return true
		}
	}
	return false
}

// Catalog holds the recognized change kinds and the element grammar used to
// map between formats. A Catalog is built once and then only read.
type Catalog struct {
	changes  map[string]struct{}
	elements map[string]ElementSpec
	children map[string]bool // change set child -> trailing
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		changes:  make(map[string]struct{}),
		elements: make(map[string]ElementSpec),
		children: make(map[string]bool),
	}
}

// AddChange registers a recognized change kind.
func (c *Catalog) AddChange(name string, spec ElementSpec) *Catalog {
	c.changes[name] = struct{}{}
	c.elements[name] = spec
	return c
}

// AddElement registers the grammar of an auxiliary element (column, where, ...).
func (c *Catalog) AddElement(name string, spec ElementSpec) *Catalog {
	c.elements[name] = spec
	return c
}

// AddChangeSetChild registers a non-change child of a change set. Trailing
// children are emitted after the changes.
func (c *Catalog) AddChangeSetChild(name string, trailing bool) *Catalog {
	c.children[name] = trailing
	return c
}

// IsChange reports whether name is a recognized change kind.
func (c *Catalog) IsChange(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.changes[name]
	return ok
}

// Element returns the grammar for name. A nil catalog, or an unknown name,
// yields the generic zero spec.
func (c *Catalog) Element(name string) ElementSpec {
	if c == nil {
		return ElementSpec{}
	}
	return c.elements[name]
}

// HasElement reports whether the catalog declares a grammar for name.
func (c *Catalog) HasElement(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.elements[name]
	return ok
}

// IsChangeSetChild reports whether name is a known non-change child of a change set.
func (c *Catalog) IsChangeSetChild(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.children[name]
	return ok
}

// IsTrailingChangeSetChild reports whether name is emitted after the changes.
func (c *Catalog) IsTrailingChangeSetChild(name string) bool {
	return c != nil && c.children[name]
}

// ChangeSetSpec is the grammar of the change set element itself.
func (c *Catalog) ChangeSetSpec() ElementSpec {
	return c.Element(ChangeSetElement)
}

// Kinds returns the number of recognized change kinds.
func (c *Catalog) Kinds() int {
	if c == nil {
		return 0
	}
	return len(c.changes)
}

// Classify wraps params into a recognized change or an opaque one. Empty
// collections of a recognized change are dropped, since XML cannot tell
// them apart from absent ones.
func (c *Catalog) Classify(name string, params Value) Change {
	if !c.IsChange(name) {
		return NewOpaqueChange(name, params)
	}
	if !params.IsMap() {
		return NewChange(name, params)
	}
	spec := c.Element(name)
	fields := make([]Field, 0, params.Len())
	for _, field := range params.Fields() {
		if field.Value.IsList() && field.Value.Len() == 0 && spec.IsCollection(field.Key) {
			continue
		}
		fields = append(fields, field)
	}
	return NewChange(name, Map(fields...))
}

var columns = map[string]string{"column": "columns"}

// DefaultCatalog returns the core Liquibase change kinds and their grammar.
func DefaultCatalog() *Catalog {
	catalog := NewCatalog()

	for _, name := range []string{
		"addAutoIncrement", "addDefaultValue", "addForeignKeyConstraint", "addLookupTable",
		"addNotNullConstraint", "addPrimaryKey", "addUniqueConstraint", "alterSequence",
		"createSequence", "dropAllForeignKeyConstraints", "dropDefaultValue",
		"dropForeignKeyConstraint", "dropIndex", "dropNotNullConstraint", "dropPrimaryKey",
		"dropProcedure", "dropSequence", "dropTable", "dropUniqueConstraint", "dropView",
		"empty", "mergeColumns", "modifyDataType", "renameColumn", "renameSequence",
		"renameTable", "renameView", "setColumnRemarks", "setTableRemarks", "sqlFile",
		"tagDatabase",
	} {
		catalog.AddChange(name, ElementSpec{})
	}

	catalog.
		AddChange("addColumn", ElementSpec{Collections: columns}).
		AddChange("createTable", ElementSpec{Collections: columns}).
		AddChange("createIndex", ElementSpec{Collections: columns}).
		AddChange("dropColumn", ElementSpec{Collections: columns}).
		AddChange("insert", ElementSpec{Collections: columns}).
		AddChange("update", ElementSpec{
			Collections:  columns,
			TextChildren: []string{"where"},
		}).
		AddChange("delete", ElementSpec{TextChildren: []string{"where"}}).
		AddChange("loadData", ElementSpec{Collections: columns}).
		AddChange("loadUpdateData", ElementSpec{Collections: columns}).
		AddChange("sql", ElementSpec{TextParam: "sql", TextChildren: []string{"comment"}}).
		AddChange("createView", ElementSpec{TextParam: "selectQuery"}).
		AddChange("createProcedure", ElementSpec{TextParam: "procedureBody", TextChildren: []string{"comment"}}).
		AddChange("executeCommand", ElementSpec{Collections: map[string]string{"arg": "args"}}).
		AddChange("customChange", ElementSpec{Collections: map[string]string{"param": "params"}}).
		AddChange("output", ElementSpec{TextParam: "message"}).
		AddChange("stop", ElementSpec{TextParam: "message"})

	catalog.
		AddElement("whereParams", ElementSpec{Collections: map[string]string{"param": "params"}}).
		AddElement("sqlCheck", ElementSpec{TextParam: "sql"}).
		AddElement("preConditions", ElementSpec{Sequence: true}).
		AddElement("and", ElementSpec{Sequence: true}).
		AddElement("or", ElementSpec{Sequence: true}).
		AddElement("not", ElementSpec{Sequence: true}).
		AddElement("rollback", ElementSpec{Sequence: true}).
		AddElement("modifySql", ElementSpec{}).
		AddElement(ChangeSetElement, ElementSpec{
			TextChildren: []string{"comment", "validCheckSum", "rollback"},
		})

	catalog.
		AddChangeSetChild("validCheckSum", false).
		AddChangeSetChild("preConditions", false).
		AddChangeSetChild("comment", false).
		AddChangeSetChild("modifySql", true).
		AddChangeSetChild("rollback", true)

	return catalog
}
