package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// SerializerRepository writes the HCL changelog dialect.
type SerializerRepository struct {
	catalog *entities.Catalog
}

// NewSerializerRepository creates an HCL serializer backed by the given catalog.
func NewSerializerRepository(catalog *entities.Catalog) *SerializerRepository {
	return &SerializerRepository{catalog: catalog}
}

func (it *SerializerRepository) Format() string { return "hcl" }

// Serialize renders the changelog as formatted HCL.
func (it *SerializerRepository) Serialize(changelog *entities.Changelog) ([]byte, error) {
	file := hclwrite.NewEmptyFile()
	body := file.Body()

	if changelog.Attributes.Len() > 0 {
		body.SetAttributeRaw(attributesKey, tokens(changelog.Attributes))
	}

	for i, entry := range changelog.Entries() {
		if i > 0 || changelog.Attributes.Len() > 0 {
			body.AppendNewline()
		}
		if entry.Directive != nil {
			block := body.AppendNewBlock(directiveBlock, []string{entry.Directive.Name})
			block.Body().SetAttributeRaw(valueKey, tokens(entry.Directive.Value))
			continue
		}
		if err := it.changeSet(body, entry.ChangeSet); err != nil {
			return nil, err
		}
	}
	return hclwrite.Format(file.Bytes()), nil
}

func (it *SerializerRepository) changeSet(parent *hclwrite.Body, changeSet *entities.ChangeSet) error {
	body := parent.AppendNewBlock(entities.ChangeSetElement, []string{changeSet.ID}).Body()
	body.SetAttributeValue(authorKey, cty.StringVal(changeSet.Author))
	if changeSet.Attributes.Len() > 0 {
		body.SetAttributeRaw(attributesKey, tokens(changeSet.Attributes))
	}
	if changeSet.Extras.Len() > 0 {
		body.SetAttributeRaw(extrasKey, tokens(changeSet.Extras))
	}

	for _, change := range changeSet.Changes {
		name := entities.ElementName(change)
		params := change.Parameters()
		if !params.IsMap() {
			return fmt.Errorf(
				"changeSet %q: change %q has %s parameters: %w",
				changeSet.ID, name, params.Kind(), entities.ErrUnrepresentable,
			)
		}

		body.AppendNewline()
		changeBody := body.AppendNewBlock(changeBlock, []string{name}).Body()
		seen := make(map[string]struct{}, params.Len())
		for _, field := range params.Fields() {
			if !hclsyntax.ValidIdentifier(field.Key) {
				return fmt.Errorf(
					"changeSet %q: change %q: parameter name %q: %w",
					changeSet.ID, name, field.Key, entities.ErrUnrepresentable,
				)
			}
			if _, duplicate := seen[field.Key]; duplicate {
				return fmt.Errorf(
					"changeSet %q: change %q: repeated parameter %q: %w",
					changeSet.ID, name, field.Key, entities.ErrUnrepresentable,
				)
			}
			seen[field.Key] = struct{}{}
			changeBody.SetAttributeRaw(field.Key, tokens(field.Value))
		}
	}
	return nil
}

// tokens renders a Value as an HCL expression. Keys that are not
// identifiers are quoted, which object constructors allow.
func tokens(value entities.Value) hclwrite.Tokens {
	switch value.Kind() {
	case entities.ScalarKind:
		return hclwrite.TokensForValue(cty.StringVal(value.String()))
	case entities.ListKind:
		items := make([]hclwrite.Tokens, 0, value.Len())
		for _, item := range value.Items() {
			items = append(items, tokens(item))
		}
		return hclwrite.TokensForTuple(items)
	default:
		attrs := make([]hclwrite.ObjectAttrTokens, 0, value.Len())
		for _, field := range value.Fields() {
			attrs = append(attrs, hclwrite.ObjectAttrTokens{Name: objectKey(field.Key), Value: tokens(field.Value)})
		}
		return hclwrite.TokensForObject(attrs)
	}
}

// keywords that read as literals or expressions when used as bare object keys.
var keywords = map[string]struct{}{"null": {}, "true": {}, "false": {}, "for": {}, "if": {}, "in": {}}

func objectKey(key string) hclwrite.Tokens {
	if _, keyword := keywords[key]; keyword || !hclsyntax.ValidIdentifier(key) {
		return hclwrite.TokensForValue(cty.StringVal(key))
	}
	return hclwrite.TokensForIdentifier(key)
}
