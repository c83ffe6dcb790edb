package hcl

import (
	"fmt"
	"sort"
	"strings"

	hclv2 "github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/rios0rios0/liquiconvert/internal/domain/entities"
)

// converter turns expressions into Values. In verbatim mode templates are
// rebuilt as written instead of being evaluated.
type converter struct {
	fileID   string
	bindings entities.ParameterBindings
	ctx      *hclv2.EvalContext
	shadowed map[string]string
	verbatim bool
}

func newConverter(fileID string, bindings entities.ParameterBindings) *converter {
	ctx, shadowed := evalContext(bindings)
	return &converter{fileID: fileID, bindings: bindings, ctx: ctx, shadowed: shadowed}
}

// evalContext exposes bindings as variables; dotted names become nested
// objects. A name below another bound name (a.b under a) cannot be
// expressed; it is returned in shadowed, keyed by name, with the bound
// prefix as value.
func evalContext(bindings entities.ParameterBindings) (*hclv2.EvalContext, map[string]string) {
	tree := make(map[string]interface{})
	shadowed := make(map[string]string)
	for _, name := range bindings.Names() {
		value, _ := bindings.Lookup(name)
		parts := strings.Split(name, ".")
		level := tree
		for i, part := range parts[:len(parts)-1] {
			next, ok := level[part].(map[string]interface{})
			if !ok {
				if _, isLeaf := level[part]; isLeaf {
					shadowed[name] = strings.Join(parts[:i+1], ".")
					level = nil
					break
				}
				next = make(map[string]interface{})
				level[part] = next
			}
			level = next
		}
		if level == nil {
			continue
		}
		if _, exists := level[parts[len(parts)-1]]; !exists {
			level[parts[len(parts)-1]] = value
		}
	}
	return &hclv2.EvalContext{Variables: ctyObject(tree)}, shadowed
}

func ctyObject(tree map[string]interface{}) map[string]cty.Value {
	values := make(map[string]cty.Value, len(tree))
	for key, node := range tree {
		switch v := node.(type) {
		case string:
			values[key] = cty.StringVal(v)
		case map[string]interface{}:
			values[key] = cty.ObjectVal(ctyObject(v))
		}
	}
	return values
}

func traversalName(traversal hclv2.Traversal) string {
	parts := make([]string, 0, len(traversal))
	for _, step := range traversal {
		switch s := step.(type) {
		case hclv2.TraverseRoot:
			parts = append(parts, s.Name)
		case hclv2.TraverseAttr:
			parts = append(parts, s.Name)
		}
	}
	return strings.Join(parts, ".")
}

func (c *converter) diagnosticsError(diags hclv2.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hclv2.DiagError {
			continue
		}
		parseErr := &entities.ParseError{File: c.fileID, Message: diag.Summary, Err: diags}
		if diag.Detail != "" {
			parseErr.Message += ": " + diag.Detail
		}
		if diag.Subject != nil {
			parseErr.Line = diag.Subject.Start.Line
			parseErr.Column = diag.Subject.Start.Column
		}
		return parseErr
	}
	return nil
}

func (c *converter) errorAt(rng hclv2.Range, format string, args ...interface{}) error {
	return &entities.ParseError{
		File:    c.fileID,
		Line:    rng.Start.Line,
		Column:  rng.Start.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (c *converter) value(expr hclsyntax.Expression, where string) (entities.Value, error) {
	switch e := expr.(type) {
	case *hclsyntax.ObjectConsExpr:
		fields := make([]entities.Field, 0, len(e.Items))
		for _, item := range e.Items {
			key, err := c.objectKey(item.KeyExpr)
			if err != nil {
				return entities.Value{}, err
			}
			value, err := c.value(item.ValueExpr, where)
			if err != nil {
				return entities.Value{}, err
			}
			fields = append(fields, entities.NewField(key, value))
		}
		return entities.Map(fields...), nil
	case *hclsyntax.TupleConsExpr:
		items := make([]entities.Value, 0, len(e.Exprs))
		for _, item := range e.Exprs {
			value, err := c.value(item, where)
			if err != nil {
				return entities.Value{}, err
			}
			items = append(items, value)
		}
		return entities.List(items...), nil
	default:
		return c.scalar(expr, where)
	}
}

func (c *converter) objectKey(expr hclsyntax.Expression) (string, error) {
	keyValue, diags := expr.Value(c.ctx)
	if diags.HasErrors() {
		return "", c.diagnosticsError(diags)
	}
	key, err := convert.Convert(keyValue, cty.String)
	if err != nil || key.IsNull() {
		return "", c.errorAt(expr.Range(), "object keys must be strings")
	}
	return key.AsString(), nil
}

func (c *converter) scalar(expr hclsyntax.Expression, where string) (entities.Value, error) {
	if c.verbatim {
		if text, ok := verbatimTemplate(expr); ok {
			return entities.Scalar(text), nil
		}
	}

	for _, traversal := range expr.Variables() {
		name := traversalName(traversal)
		if _, ok := c.bindings.Lookup(name); !ok {
			return entities.Value{}, &entities.UnresolvedParameterError{File: c.fileID, Name: name, Context: where}
		}
		if prefix, ok := c.shadowed[name]; ok {
			return entities.Value{}, c.errorAt(traversal.SourceRange(),
				"parameter %q cannot be referenced because %q is also bound to a value", name, prefix)
		}
	}

	value, diags := expr.Value(c.ctx)
	if diags.HasErrors() {
		return entities.Value{}, c.diagnosticsError(diags)
	}
	if value.IsNull() {
		return entities.Scalar(""), nil
	}
	if !value.IsWhollyKnown() || !value.Type().IsPrimitiveType() {
		return entities.Value{}, c.errorAt(expr.Range(), "expected a string, number or bool")
	}
	text, err := convert.Convert(value, cty.String)
	if err != nil {
		return entities.Value{}, c.errorAt(expr.Range(), "cannot convert value to string: %v", err)
	}
	return entities.Scalar(text.AsString()), nil
}

// verbatimTemplate rebuilds a template with its interpolations left as ${name}.
func verbatimTemplate(expr hclsyntax.Expression) (string, bool) {
	switch e := expr.(type) {
	case *hclsyntax.TemplateWrapExpr:
		return verbatimPart(e.Wrapped)
	case *hclsyntax.TemplateExpr:
		var builder strings.Builder
		for _, part := range e.Parts {
			text, ok := verbatimPart(part)
			if !ok {
				return "", false
			}
			builder.WriteString(text)
		}
		return builder.String(), true
	}
	return "", false
}

func verbatimPart(expr hclsyntax.Expression) (string, bool) {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr:
		text, err := convert.Convert(e.Val, cty.String)
		if err != nil || text.IsNull() {
			return "", false
		}
		return text.AsString(), true
	case *hclsyntax.ScopeTraversalExpr:
		return "${" + traversalName(e.Traversal) + "}", true
	}
	return "", false
}

// sortedAttributes returns a body's attributes in source order.
func sortedAttributes(body *hclsyntax.Body) []*hclsyntax.Attribute {
	attrs := make([]*hclsyntax.Attribute, 0, len(body.Attributes))
	for _, attr := range body.Attributes {
		attrs = append(attrs, attr)
	}
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].SrcRange.Start.Byte < attrs[j].SrcRange.Start.Byte
	})
	return attrs
}
