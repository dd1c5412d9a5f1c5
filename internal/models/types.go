package models

import (
	"github.com/invopop/jsonschema"
	"github.com/toyz/axonbind/internal/markers"
)

// Type is an opaque handle to a native type. Only the type oracle interprets it;
// go/types.Type satisfies it.
type Type interface {
	String() string
}

// TypeDescription is the oracle's structural view of a type
type TypeDescription struct {
	Kind     TypeKind
	Nullable bool
	Schema   string   // JSON schema type: string, integer, number, boolean, array, object
	Format   string   // optional schema format (int64, uuid, date-time, binary, ...)
	Enum     []string // enum member names or values, if the type is an enum
	Item     *TypeDescription
}

// IsFile reports whether the type is a single file or a collection of files
func (d TypeDescription) IsFile() bool {
	return d.Kind == TypeFile || d.Kind == TypeFileArray
}

// FormalParameter is one declared parameter of a handler
type FormalParameter struct {
	Name        string
	Type        Type
	HasDefault  bool
	Default     any
	Markers     markers.Set
	Position    int
	Description string
}

// Property is one externally visible property of a complex type
type Property struct {
	Name      string // name after the property-naming policy
	FieldName string // declared Go field name
	Type      Type
	Markers   markers.Set
	Required  bool
}

// Origin links a descriptor back to the parameter or property that produced it.
// Synthesized path parameters have neither.
type Origin struct {
	Parameter *FormalParameter
	Property  *Property
	Owner     Type // the complex type a property belongs to
}

// Type returns the native type of the origin, or nil for synthesized descriptors
func (o Origin) Type() Type {
	switch {
	case o.Property != nil:
		return o.Property.Type
	case o.Parameter != nil:
		return o.Parameter.Type
	default:
		return nil
	}
}

// Markers returns the marker set of the origin
func (o Origin) Markers() markers.Set {
	switch {
	case o.Property != nil:
		return o.Property.Markers
	case o.Parameter != nil:
		return o.Parameter.Markers
	default:
		return nil
	}
}

// DeclaredName returns the name the origin was declared with
func (o Origin) DeclaredName() string {
	switch {
	case o.Property != nil:
		return o.Property.Name
	case o.Parameter != nil:
		return o.Parameter.Name
	default:
		return ""
	}
}

// ParameterDescriptor is one resolved operation parameter
type ParameterDescriptor struct {
	Name             string
	Kind             Kind
	Required         bool
	Nullable         bool
	HasDefault       bool
	Default          any
	CollectionFormat CollectionFormat
	IsFile           bool
	Type             string // schema type hint
	Format           string
	Schema           *jsonschema.Schema
	Description      string
	Origin           Origin
}
