package hcl

import (
	"bytes"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

const (
	attributesKey  = "attributes"
	extrasKey      = "extras"
	authorKey      = "author"
	valueKey       = "value"
	directiveBlock = "directive"
	changeBlock    = "change"
)

// ParserRepository reads the HCL changelog dialect:
//
//	attributes = { logicalFilePath = "db/main" }
//	directive "property" { value = { name = "schema", value = "public" } }
//	changeSet "1" {
//	  author = "alice"
//	  change "createTable" { tableName = "users" }
//	}
//
// Placeholders are HCL interpolations evaluated against the bindings.
type ParserRepository struct {
	catalog *entities.Catalog
}

// NewParserRepository creates an HCL parser backed by the given catalog.
func NewParserRepository(catalog *entities.Catalog) *ParserRepository {
	return &ParserRepository{catalog: catalog}
}

func (it *ParserRepository) Format() string       { return "hcl" }
func (it *ParserRepository) Extensions() []string { return []string{"hcl"} }

// Parse decodes raw HCL into a changelog, evaluating interpolations.
func (it *ParserRepository) Parse(
	fileID string,
	raw []byte,
	bindings entities.ParameterBindings,
) (*entities.Changelog, error) {
	changelog := &entities.Changelog{FileID: fileID}
	if len(bytes.TrimSpace(raw)) == 0 {
		return changelog, nil
	}

	file, diags := hclparse.NewParser().ParseHCL(raw, fileID)
	if diags.HasErrors() {
		return nil, newConverter(fileID, bindings).diagnosticsError(diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, &entities.ParseError{File: fileID, Message: "unsupported HCL body"}
	}

	properties, err := it.properties(fileID, body, bindings)
	if err != nil {
		return nil, err
	}
	effective, err := bindings.WithDefaults(fileID, properties)
	if err != nil {
		return nil, err
	}
	c := newConverter(fileID, effective)

	for _, attr := range sortedAttributes(body) {
		if attr.Name != attributesKey {
			return nil, c.errorAt(attr.NameRange, "unexpected attribute %q", attr.Name)
		}
		if changelog.Attributes, err = c.value(attr.Expr, "changelog attributes"); err != nil {
			return nil, err
		}
	}

	for _, block := range body.Blocks {
		switch {
		case block.Type == directiveBlock && len(block.Labels) == 1:
			directive, directiveErr := it.directive(c, block)
			if directiveErr != nil {
				return nil, directiveErr
			}
			directive.Position = len(changelog.ChangeSets)
			changelog.Directives = append(changelog.Directives, directive)
		case block.Type == entities.ChangeSetElement && len(block.Labels) == 1:
			changeSet, changeSetErr := it.changeSet(c, block)
			if changeSetErr != nil {
				return nil, changeSetErr
			}
			changelog.ChangeSets = append(changelog.ChangeSets, changeSet)
		default:
			return nil, c.errorAt(block.TypeRange, "unexpected block %q with %d labels", block.Type, len(block.Labels))
		}
	}
	return changelog, nil
}

// properties reads the property directives verbatim, ahead of evaluation.
func (it *ParserRepository) properties(
	fileID string,
	body *hclsyntax.Body,
	bindings entities.ParameterBindings,
) (map[string]string, error) {
	c := newConverter(fileID, bindings)
	c.verbatim = true

	var scan entities.Changelog
	for _, block := range body.Blocks {
		if block.Type != directiveBlock || len(block.Labels) != 1 || block.Labels[0] != entities.PropertyDirective {
			continue
		}
		directive, err := it.directive(c, block)
		if err != nil {
			return nil, err
		}
		scan.Directives = append(scan.Directives, directive)
	}
	return scan.Properties(), nil
}

func (it *ParserRepository) directive(c *converter, block *hclsyntax.Block) (entities.Directive, error) {
	name := block.Labels[0]
	directive := entities.Directive{Name: name, Value: entities.Map()}

	verbatim := c.verbatim
	c.verbatim = verbatim || name == entities.PropertyDirective
	defer func() { c.verbatim = verbatim }()

	if len(block.Body.Blocks) > 0 {
		return directive, c.errorAt(block.Body.Blocks[0].TypeRange, "directive %q cannot contain blocks", name)
	}
	for _, attr := range sortedAttributes(block.Body) {
		if attr.Name != valueKey {
			return directive, c.errorAt(attr.NameRange, "unexpected attribute %q in directive %q", attr.Name, name)
		}
		value, err := c.value(attr.Expr, name)
		if err != nil {
			return directive, err
		}
		directive.Value = value
	}
	return directive, nil
}

func (it *ParserRepository) changeSet(c *converter, block *hclsyntax.Block) (entities.ChangeSet, error) {
	var changeSet entities.ChangeSet
	id, err := c.bindings.Expand(c.fileID, "changeSet label", block.Labels[0])
	if err != nil {
		return changeSet, err
	}
	changeSet.ID = id
	where := "changeSet " + id

	hasAuthor := false
	for _, attr := range sortedAttributes(block.Body) {
		var value entities.Value
		if value, err = c.value(attr.Expr, where); err != nil {
			return changeSet, err
		}
		switch attr.Name {
		case authorKey:
			if !value.IsScalar() {
				return changeSet, c.errorAt(attr.Expr.Range(), "author must be a string")
			}
			changeSet.Author, hasAuthor = value.String(), true
		case attributesKey:
			changeSet.Attributes = value
		case extrasKey:
			changeSet.Extras = value
		default:
			return changeSet, c.errorAt(attr.NameRange, "unexpected attribute %q in changeSet %q", attr.Name, id)
		}
	}
	if !hasAuthor {
		return changeSet, c.errorAt(block.DefRange(), `changeSet %q is missing required attribute "author"`, id)
	}

	for _, child := range block.Body.Blocks {
		if child.Type != changeBlock || len(child.Labels) != 1 {
			return changeSet, c.errorAt(child.TypeRange, "unexpected block %q in changeSet %q", child.Type, id)
		}
		if len(child.Body.Blocks) > 0 {
			return changeSet, c.errorAt(child.Body.Blocks[0].TypeRange, "change %q cannot contain blocks", child.Labels[0])
		}
		var fields []entities.Field
		for _, attr := range sortedAttributes(child.Body) {
			value, valueErr := c.value(attr.Expr, where)
			if valueErr != nil {
				return changeSet, valueErr
			}
			fields = append(fields, entities.NewField(attr.Name, value))
		}
		changeSet.Changes = append(changeSet.Changes, it.catalog.Classify(child.Labels[0], entities.Map(fields...)))
	}
	return changeSet, nil
}
