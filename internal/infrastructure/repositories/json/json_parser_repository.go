package json

import (
	"bytes"
	encjson "encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
	"github.com/rios0rios0/liquiconvert/internal/infrastructure/repositories/document"
)

// ParserRepository reads Liquibase JSON changelogs. Key order is kept by
// reading the token stream into a document tree instead of a Go map.
type ParserRepository struct {
	catalog *entities.Catalog
}

// NewParserRepository creates a JSON parser backed by the given catalog.
func NewParserRepository(catalog *entities.Catalog) *ParserRepository {
	return &ParserRepository{catalog: catalog}
}

func (it *ParserRepository) Format() string       { return "json" }
func (it *ParserRepository) Extensions() []string { return []string{"json"} }

// Parse decodes raw JSON into a changelog and resolves its placeholders.
func (it *ParserRepository) Parse(
	fileID string,
	raw []byte,
	bindings entities.ParameterBindings,
) (*entities.Changelog, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &entities.Changelog{FileID: fileID}, nil
	}

	reader := newTreeReader(fileID, raw)
	root, err := reader.value()
	if err != nil {
		return nil, err
	}
	if _, err = reader.decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, reader.errorAt(reader.decoder.InputOffset(), "unexpected data after the top-level value", err)
	}

	changelog, err := document.Decode(fileID, root, it.catalog)
	if err != nil {
		return nil, err
	}
	if err = changelog.ResolvePlaceholders(bindings); err != nil {
		return nil, err
	}
	return changelog, nil
}

// treeReader builds document nodes from the JSON token stream.
type treeReader struct {
	fileID     string
	raw        []byte
	decoder    *encjson.Decoder
	lineStarts []int
}

func newTreeReader(fileID string, raw []byte) *treeReader {
	decoder := encjson.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	lineStarts := []int{0}
	for i, b := range raw {
		if b == '\n' {
			lineStarts = append(lineStarts, i+1)
		}
	}
	return &treeReader{fileID: fileID, raw: raw, decoder: decoder, lineStarts: lineStarts}
}

// position returns the 1-based line and column of a byte offset.
func (r *treeReader) position(offset int64) (int, int) {
	line := sort.SearchInts(r.lineStarts, int(offset)+1) - 1
	if line < 0 {
		line = 0
	}
	return line + 1, int(offset) - r.lineStarts[line] + 1
}

// tokenStart skips the separators between the decoder offset and the next token.
func (r *treeReader) tokenStart() int64 {
	offset := r.decoder.InputOffset()
	for int(offset) < len(r.raw) && strings.IndexByte(" \t\r\n,:", r.raw[offset]) >= 0 {
		offset++
	}
	return offset
}

func (r *treeReader) errorAt(offset int64, message string, err error) error {
	var syntaxErr *encjson.SyntaxError
	if errors.As(err, &syntaxErr) {
		offset = syntaxErr.Offset
		message = syntaxErr.Error()
	} else if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		offset = int64(len(r.raw))
		message = "unexpected end of input"
	}
	line, column := r.position(offset)
	return &entities.ParseError{File: r.fileID, Line: line, Column: column, Message: message, Err: err}
}

func (r *treeReader) value() (*yaml.Node, error) {
	start := r.tokenStart()
	token, err := r.decoder.Token()
	if err != nil {
		return nil, r.errorAt(start, "invalid token", err)
	}
	line, column := r.position(start)
	n := &yaml.Node{Line: line, Column: column}

	switch t := token.(type) {
	case encjson.Delim:
		switch t {
		case '{':
			n.Kind, n.Tag = yaml.MappingNode, "!!map"
			for r.decoder.More() {
				keyStart := r.tokenStart()
				keyToken, keyErr := r.decoder.Token()
				if keyErr != nil {
					return nil, r.errorAt(keyStart, "invalid object key", keyErr)
				}
				keyLine, keyColumn := r.position(keyStart)
				key := &yaml.Node{
					Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(keyToken),
					Line: keyLine, Column: keyColumn,
				}
				child, childErr := r.value()
				if childErr != nil {
					return nil, childErr
				}
				n.Content = append(n.Content, key, child)
			}
		case '[':
			n.Kind, n.Tag = yaml.SequenceNode, "!!seq"
			for r.decoder.More() {
				child, childErr := r.value()
				if childErr != nil {
					return nil, childErr
				}
				n.Content = append(n.Content, child)
			}
		default:
			return nil, r.errorAt(start, fmt.Sprintf("unexpected %q", t), nil)
		}
		closing := r.tokenStart()
		if _, err = r.decoder.Token(); err != nil {
			return nil, r.errorAt(closing, "unterminated value", err)
		}
	case string:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!str", t
	case encjson.Number:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!int", t.String()
		if strings.ContainsAny(t.String(), ".eE") {
			n.Tag = "!!float"
		}
	case bool:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!bool", strconv.FormatBool(t)
	case nil:
		n.Kind, n.Tag, n.Value = yaml.ScalarNode, "!!null", "null"
	}
	return n, nil
}
