package yaml

import (
	"bytes"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/document"
)

// ParserRepository reads Liquibase YAML changelogs.
type ParserRepository struct {
	catalog *entities.Catalog
}

// NewParserRepository creates a YAML parser backed by the given catalog.
func NewParserRepository(catalog *entities.Catalog) *ParserRepository {
	return &ParserRepository{catalog: catalog}
}

func (it *ParserRepository) Format() string       { return "yaml" }
func (it *ParserRepository) Extensions() []string { return []string{"yaml", "yml"} }

// Parse decodes raw YAML into a changelog and resolves its placeholders.
func (it *ParserRepository) Parse(
	fileID string,
	raw []byte,
	bindings entities.ParameterBindings,
) (*entities.Changelog, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &entities.Changelog{FileID: fileID}, nil
	}

	var node yamlv3.Node
	if err := yamlv3.Unmarshal(raw, &node); err != nil {
		return nil, document.SyntaxError(fileID, err)
	}

	changelog, err := document.Decode(fileID, &node, it.catalog)
	if err != nil {
		return nil, err
	}
	if err = changelog.ResolvePlaceholders(bindings); err != nil {
		return nil, err
	}
	return changelog, nil
}
