package xml

import (
	"bytes"
	encxml "encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

type attribute struct {
	name  string
	value string
}

// node is one decoded element. Names keep their namespace prefix.
type node struct {
	name     string
	attrs    []attribute
	text     strings.Builder
	children []*node
	line     int
	column   int
}

func (n *node) trimmedText() string {
	return strings.TrimSpace(n.text.String())
}

// isTextOnly reports whether the element carries nothing but character data.
func (n *node) isTextOnly() bool {
	return len(n.attrs) == 0 && len(n.children) == 0
}

func qualifiedName(name encxml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// decodeTree reads raw into an element tree. Raw tokens are used so that
// prefixes survive untouched, which means tag matching is checked here.
func decodeTree(fileID string, raw []byte) (*node, error) {
	decoder := encxml.NewDecoder(bytes.NewReader(raw))
	decoder.Strict = true

	var root *node
	var stack []*node
	for {
		token, err := decoder.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, syntaxError(fileID, decoder, err)
		}

		switch t := token.(type) {
		case encxml.StartElement:
			line, column := decoder.InputPos()
			element := &node{name: qualifiedName(t.Name), line: line, column: column}
			for _, attr := range t.Attr {
				element.attrs = append(element.attrs, attribute{name: qualifiedName(attr.Name), value: attr.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, positioned(fileID, line, column, "multiple root elements")
				}
				root = element
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, element)
			}
			stack = append(stack, element)
		case encxml.EndElement:
			line, column := decoder.InputPos()
			name := qualifiedName(t.Name)
			if len(stack) == 0 {
				return nil, positioned(fileID, line, column, fmt.Sprintf("unexpected closing tag </%s>", name))
			}
			if open := stack[len(stack)-1]; open.name != name {
				return nil, positioned(fileID, line, column,
					fmt.Sprintf("element <%s> closed by </%s>", open.name, name))
			}
			stack = stack[:len(stack)-1]
		case encxml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			} else if len(bytes.TrimSpace(t)) > 0 {
				line, column := decoder.InputPos()
				return nil, positioned(fileID, line, column, "text outside of the root element")
			}
		}
	}

	if len(stack) > 0 {
		line, column := decoder.InputPos()
		return nil, positioned(fileID, line, column,
			fmt.Sprintf("unexpected end of input, <%s> is not closed", stack[len(stack)-1].name))
	}
	if root == nil {
		return nil, positioned(fileID, 1, 1, "no root element")
	}
	return root, nil
}

func syntaxError(fileID string, decoder *encxml.Decoder, err error) error {
	line, column := decoder.InputPos()
	var syntaxErr *encxml.SyntaxError
	if errors.As(err, &syntaxErr) {
		if syntaxErr.Line != line {
			column = 0
		}
		return &entities.ParseError{
			File:    fileID,
			Line:    syntaxErr.Line,
			Column:  column,
			Message: syntaxErr.Msg,
			Err:     err,
		}
	}
	return &entities.ParseError{File: fileID, Line: line, Column: column, Message: err.Error(), Err: err}
}

func positioned(fileID string, line, column int, message string) error {
	return &entities.ParseError{File: fileID, Line: line, Column: column, Message: message}
}
