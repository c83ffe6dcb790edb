package entities

import (
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches ${name} tokens.
var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// ParameterBindings is the immutable name -> value map used to resolve
// ${name} placeholders. It is built once per run and shared read-only.
type ParameterBindings struct {
	values map[string]string
}

// NewParameterBindings copies values into a new set of bindings.
func NewParameterBindings(values map[string]string) ParameterBindings {
	copied := make(map[string]string, len(values))
	for name, value := range values {
		copied[strings.TrimSpace(name)] = value
	}
	return ParameterBindings{values: copied}
}

// Lookup returns the value bound to name.
func (b ParameterBindings) Lookup(name string) (string, bool) {
	value, ok := b.values[name]
	return value, ok
}

// Names returns the bound names in sorted order.
func (b ParameterBindings) Names() []string {
	names := make([]string, 0, len(b.values))
	for name := range b.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound names.
func (b ParameterBindings) Len() int {
	return len(b.values)
}

// WithDefaults returns new bindings where defaults fill the names b does not
// bind. Default values may reference other names and are expanded against
// the merged bindings; a reference that never reaches a bound value, or that
// loops back on itself, fails with an UnresolvedParameterError. The receiver
// is left untouched.
func (b ParameterBindings) WithDefaults(fileID string, defaults map[string]string) (ParameterBindings, error) {
	if len(defaults) == 0 {
		return b, nil
	}

	r := &defaultsResolver{
		fileID:   fileID,
		bound:    b.values,
		defaults: defaults,
		resolved: make(map[string]string, len(defaults)),
		visiting: make(map[string]struct{}),
	}
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)

	merged := make(map[string]string, len(b.values)+len(defaults))
	for name, value := range b.values {
		merged[name] = value
	}
	for _, name := range names {
		if _, ok := b.values[name]; ok {
			continue
		}
		value, err := r.resolve(name, "property "+name)
		if err != nil {
			return ParameterBindings{}, err
		}
		merged[name] = value
	}
	return ParameterBindings{values: merged}, nil
}

// defaultsResolver expands default values depth-first, memoizing results.
type defaultsResolver struct {
	fileID   string
	bound    map[string]string
	defaults map[string]string
	resolved map[string]string
	visiting map[string]struct{}
}

func (r *defaultsResolver) resolve(name, where string) (string, error) {
	if value, ok := r.bound[name]; ok {
		return value, nil
	}
	if value, ok := r.resolved[name]; ok {
		return value, nil
	}
	raw, ok := r.defaults[name]
	if !ok {
		return "", &UnresolvedParameterError{File: r.fileID, Name: name, Context: where}
	}
	if _, cyclic := r.visiting[name]; cyclic {
		return "", &UnresolvedParameterError{File: r.fileID, Name: name, Context: where + " (cyclic reference)"}
	}

	r.visiting[name] = struct{}{}
	defer delete(r.visiting, name)

	var err error
	expanded := placeholderPattern.ReplaceAllStringFunc(raw, func(match string) string {
		if err != nil {
			return match
		}
		ref := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])
		value, refErr := r.resolve(ref, "property "+name)
		if refErr != nil {
			err = refErr
			return match
		}
		return value
	})
	if err != nil {
		return "", err
	}
	r.resolved[name] = expanded
	return expanded, nil
}

// Expand substitutes every ${name} token in text. The first unbound name
// fails with an UnresolvedParameterError naming the file and the location.
func (b ParameterBindings) Expand(fileID, where, text string) (string, error) {
	if !strings.Contains(text, "${") {
		return text, nil
	}

	var missing *UnresolvedParameterError
	expanded := placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		if missing != nil {
			return match
		}
		name := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])
		if value, ok := b.values[name]; ok {
			return value
		}
		missing = &UnresolvedParameterError{File: fileID, Name: name, Context: where}
		return match
	})
	if missing != nil {
		return "", missing
	}
	return expanded, nil
}

// Placeholders returns the distinct names referenced by text, in order.
func Placeholders(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, match := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
