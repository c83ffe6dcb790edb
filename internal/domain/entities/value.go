package entities

// TextKey is the reserved parameter that carries element character data when
// the element defines no named text parameter. It is never a legal XML
// attribute name, so it cannot collide with a real parameter.
const TextKey = "$text"

// ValueKind tells which branch of a Value is populated. The zero Value is an
// empty map.
type ValueKind int

const (
	MapKind ValueKind = iota
	ScalarKind
	ListKind
)

// String returns a human-readable kind name.
func (k ValueKind) String() string {
	switch k {
	case MapKind:
		return "map"
	case ScalarKind:
		return "scalar"
	case ListKind:
		return "list"
	default:
		return "invalid"
	}
}

// Value is the parameter tree of a change: a scalar string, an ordered map of
// named fields, or an ordered list. Values are treated as immutable once built.
type Value struct {
	kind   ValueKind
	scalar string
	fields []Field
	items  []Value
}

// Field is one named entry of a map Value.
type Field struct {
	Key   string
	Value Value
}

// Scalar builds a scalar value.
func Scalar(s string) Value {
	return Value{kind: ScalarKind, scalar: s}
}

// Map builds a map value keeping the given field order.
func Map(fields ...Field) Value {
	return Value{kind: MapKind, fields: fields}
}

// List builds a list value keeping the given item order.
func List(items ...Value) Value {
	return Value{kind: ListKind, items: items}
}

// NewField pairs a key with a value.
func NewField(key string, value Value) Field {
	return Field{Key: key, Value: value}
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsScalar() bool { return v.kind == ScalarKind }
func (v Value) IsMap() bool { return v.kind == MapKind }
func (v Value) IsList() bool { return v.kind == ListKind }
func (v Value) String() string { return v.scalar }
func (v Value) Fields() []Field { return v.fields }
func (v Value) Items() []Value { return v.items }

// Len returns the number of fields or items; scalars have length zero.
func (v Value) Len() int {
	switch v.kind {
	case MapKind:
		return len(v.fields)
	case ListKind:
		return len(v.items)
	default:
		return 0
	}
}

// Get returns the first field stored under key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// With returns a copy of a map value with the field appended.
func (v Value) With(key string, value Value) Value {
	fields := make([]Field, 0, len(v.fields)+1)
	fields = append(fields, v.fields...)
	fields = append(fields, Field{Key: key, Value: value})
	return Value{kind: MapKind, fields: fields}
}

// Single returns the only field of a single-key map, the shape used for
// list entries such as `- column: {...}`.
func (v Value) Single() (Field, bool) {
	if v.kind != MapKind || len(v.fields) != 1 {
		return Field{}, false
	}
	return v.fields[0], true
}

// Equal reports deep equality, treating nil and empty slices alike.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case ScalarKind:
		return v.scalar == other.scalar
	case MapKind:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != other.fields[i].Key || !v.fields[i].Value.Equal(other.fields[i].Value) {
				return false
			}
		}
		return true
	case ListKind:
		if len(v.items) != len(other.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Transform rebuilds the tree applying fn to every scalar. Keys are left as is.
func (v Value) Transform(fn func(string) (string, error)) (Value, error) {
	switch v.kind {
	case ScalarKind:
		s, err := fn(v.scalar)
		if err != nil {
			return Value{}, err
		}
		return Scalar(s), nil
	case MapKind:
		var fields []Field
		for _, f := range v.fields {
			tv, err := f.Value.Transform(fn)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Key: f.Key, Value: tv})
		}
		return Map(fields...), nil
	case ListKind:
		var items []Value
		for _, item := range v.items {
			tv, err := item.Transform(fn)
			if err != nil {
				return Value{}, err
			}
			items = append(items, tv)
		}
		return List(items...), nil
	default:
		return v, nil
	}
}
