package json

import (
	"bytes"
	encjson "encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/document"
)

const indent = "  "

// SerializerRepository writes Liquibase JSON changelogs.
type SerializerRepository struct {
	catalog *entities.Catalog
}

// NewSerializerRepository creates a JSON serializer backed by the given catalog.
func NewSerializerRepository(catalog *entities.Catalog) *SerializerRepository {
	return &SerializerRepository{catalog: catalog}
}

func (it *SerializerRepository) Format() string { return "json" }

// Serialize renders the changelog as an indented JSON document. Booleans
// and numbers are written bare so that Liquibase reads typed values.
func (it *SerializerRepository) Serialize(changelog *entities.Changelog) ([]byte, error) {
	root := document.Encode(changelog, it.catalog)

	var buf bytes.Buffer
	if err := write(&buf, root.Content[0], 0); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func write(buf *bytes.Buffer, n *yaml.Node, depth int) error {
	switch n.Kind {
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			buf.WriteString(strings.Repeat(indent, depth+1))
			if err := quote(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := write(buf, n.Content[i+1], depth+1); err != nil {
				return err
			}
			if i+2 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(indent, depth) + "}")
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			buf.WriteString(strings.Repeat(indent, depth+1))
			if err := write(buf, item, depth+1); err != nil {
				return err
			}
			if i+1 < len(n.Content) {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(strings.Repeat(indent, depth) + "]")
	case yaml.ScalarNode:
		if n.Style == 0 && document.Typed(n.Value) {
			buf.WriteString(n.Value)
			return nil
		}
		return quote(buf, n.Value)
	default:
		return fmt.Errorf("node kind %d: %w", n.Kind, entities.ErrUnrepresentable)
	}
	return nil
}

func quote(buf *bytes.Buffer, text string) error {
	var quoted bytes.Buffer
	encoder := encjson.NewEncoder(&quoted)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(text); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(quoted.Bytes(), []byte("\n")))
	return nil
}
