package entities

// OpaqueType is the type tag carried by changes the catalog does not recognize.
const OpaqueType = "unknown"

// Change is one typed operation inside a change set.
type Change interface {
	// Type returns the change kind (e.g. "createTable"), or OpaqueType.
	Type() string

	// Parameters returns the change's parameter tree.
	Parameters() Value
}

// StandardChange is a change whose kind is recognized by the catalog.
type StandardChange struct {
	kind   string
	params Value
}

// NewChange creates a recognized change of the given kind.
func NewChange(kind string, params Value) *StandardChange {
	return &StandardChange{kind: kind, params: params}
}

func (c *StandardChange) Type() string      { return c.kind }
func (c *StandardChange) Parameters() Value { return c.params }

// OpaqueChange preserves a change of unrecognized kind verbatim, so that it
// can be emitted again under its original element name.
type OpaqueChange struct {
	name   string
	params Value
}

// NewOpaqueChange captures an unrecognized change.
func NewOpaqueChange(name string, params Value) *OpaqueChange {
	return &OpaqueChange{name: name, params: params}
}

func (c *OpaqueChange) Type() string      { return OpaqueType }
func (c *OpaqueChange) Name() string      { return c.name }
func (c *OpaqueChange) Parameters() Value { return c.params }

// ElementName returns the name a serializer writes for the change.
func ElementName(change Change) string {
	if named, ok := change.(interface{ Name() string }); ok {
		return named.Name()
	}
	return change.Type()
}

// IsOpaque reports whether the change was captured without catalog knowledge.
func IsOpaque(change Change) bool {
	return change.Type() == OpaqueType
}

func changesEqual(a, b Change) bool {
	return a.Type() == b.Type() &&
		ElementName(a) == ElementName(b) &&
		a.Parameters().Equal(b.Parameters())
}
