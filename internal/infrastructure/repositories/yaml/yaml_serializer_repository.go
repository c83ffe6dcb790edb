package yaml

import (
	"bytes"
	"fmt"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/document"
)

const indent = 2

// SerializerRepository writes Liquibase YAML changelogs.
type SerializerRepository struct {
	catalog *entities.Catalog
}

// NewSerializerRepository creates a YAML serializer backed by the given catalog.
func NewSerializerRepository(catalog *entities.Catalog) *SerializerRepository {
	return &SerializerRepository{catalog: catalog}
}

func (it *SerializerRepository) Format() string { return "yaml" }

// Serialize renders the changelog as a databaseChangeLog document.
func (it *SerializerRepository) Serialize(changelog *entities.Changelog) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yamlv3.NewEncoder(&buf)
	encoder.SetIndent(indent)
	if err := encoder.Encode(document.Encode(changelog, it.catalog)); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}
