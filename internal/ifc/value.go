package ifc

// Value is one positional attribute of a STEP entity instance.
//
// The concrete types mirror the SPF token kinds: $ (Null), * (Derived),
// quoted strings, reals, integers, .ENUM. literals, #n references, wrapped
// select values like IFCLABEL('x'), and parenthesized lists.
type Value interface {
	isValue()
}

// Null is the unset attribute marker ($).
type Null struct{}

// Derived is the derived-in-subtype marker (*).
type Derived struct{}

// Str is a string attribute.
type Str string

// Float is a real attribute.
type Float float64

// Int is an integer attribute.
type Int int64

// Enum is an enumeration literal, stored without the enclosing dots.
type Enum string

// Ref is a reference to another entity by id.
type Ref int

// Typed wraps a select value in its type, e.g. IFCLABEL('Bolig').
type Typed struct {
	Type  string
	Value Value
}

// List is an aggregate attribute.
type List []Value

func (Null) isValue()    {}
func (Derived) isValue() {}
func (Str) isValue()     {}
func (Float) isValue()   {}
func (Int) isValue()     {}
func (Enum) isValue()    {}
func (Ref) isValue()     {}
func (Typed) isValue()   {}
func (List) isValue()    {}

// Entity is one STEP instance: #ID = TYPE(Attrs...).
type Entity struct {
	ID    int
	Type  string
	Attrs []Value
}

// Attr returns the i-th attribute, or Null when out of range.
func (e *Entity) Attr(i int) Value {
	if i < 0 || i >= len(e.Attrs) {
		return Null{}
	}
	return e.Attrs[i]
}

// RefAttr returns the i-th attribute as an entity id.
func (e *Entity) RefAttr(i int) (int, bool) {
	r, ok := e.Attr(i).(Ref)
	return int(r), ok
}

// StrAttr returns the i-th attribute as a string, unwrapping typed values.
func (e *Entity) StrAttr(i int) (string, bool) {
	switch v := e.Attr(i).(type) {
	case Str:
		return string(v), true
	case Typed:
		if s, ok := v.Value.(Str); ok {
			return string(s), true
		}
	}
	return "", false
}

// FloatAttr returns the i-th attribute as a float, accepting integers and
// unwrapping typed values.
func (e *Entity) FloatAttr(i int) (float64, bool) {
	return valueFloat(e.Attr(i))
}

// ListAttr returns the i-th attribute as a list.
func (e *Entity) ListAttr(i int) (List, bool) {
	l, ok := e.Attr(i).(List)
	return l, ok
}

// GUID returns the entity's GlobalId. Only meaningful for rooted entities,
// whose first attribute holds the id.
func (e *Entity) GUID() (string, bool) {
	s, ok := e.Attr(0).(Str)
	if !ok || len(s) != 22 {
		return "", false
	}
	return string(s), true
}

// valueFloat extracts a numeric value, unwrapping one level of Typed.
func valueFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case Float:
		return float64(n), true
	case Int:
		return float64(n), true
	case Typed:
		return valueFloat(n.Value)
	}
	return 0, false
}

// ScalarString renders a scalar attribute value for attribute-map purposes:
// strings as-is, numbers via %v, enums bare. Returns false for references,
// lists, and unset values.
func ScalarString(v Value) (string, bool) {
	switch s := v.(type) {
	case Str:
		return string(s), true
	case Enum:
		return string(s), true
	case Float:
		return trimFloat(float64(s)), true
	case Int:
		return intString(int64(s)), true
	case Typed:
		return ScalarString(s.Value)
	}
	return "", false
}
