package typeinfo

import (
	"reflect"

	"github.com/toyz/axonbind/internal/markers"
)

// Host adapts one HTTP framework's binding conventions to markers
type Host interface {
	// Name returns the framework name, e.g. "echo"
	Name() string

	// FieldMarkers returns the markers a struct field's tags declare
	FieldMarkers(tag reflect.StructTag) markers.Set

	// FlowControlTypes returns the qualified names of the framework's
	// request-context types, which never bind to request data
	FlowControlTypes() []string

	// BinderMethods returns method names whose presence marks a type as
	// bound by the framework from a single string value
	BinderMethods() []string
}

// ReflectName returns pkgpath.Name for a reflect type, matching the form
// QualifiedName produces for go/types
func ReflectName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.PkgPath() == "" {
		return t.Name()
	}
	return t.PkgPath() + "." + t.Name()
}
