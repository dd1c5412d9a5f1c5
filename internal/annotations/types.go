package annotations

import (
	"fmt"

	"github.com/toyz/axonbind/internal/errors"
)

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	RouteAnnotation AnnotationType = iota
	ControllerAnnotation
	ParamAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case RouteAnnotation:
		return "route"
	case ControllerAnnotation:
		return "controller"
	case ParamAnnotation:
		return "param"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "route":
		return RouteAnnotation, nil
	case "controller":
		return ControllerAnnotation, nil
	case "param":
		return ParamAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// Flag is a single -Name or -Name=value item
type Flag struct {
	Name     string
	Value    string
	HasValue bool
}

// ParsedAnnotation is the generic result of parsing one //axon:: comment
type ParsedAnnotation struct {
	Type     AnnotationType
	Args     []string // positional arguments in order
	Flags    []Flag   // flags in declaration order
	Location errors.SourceLocation
	Raw      string
}

// Flag returns the first flag with the given name
func (p *ParsedAnnotation) Flag(name string) (Flag, bool) {
	for _, f := range p.Flags {
		if f.Name == name {
			return f, true
		}
	}
	return Flag{}, false
}

// Route is a typed //axon::route annotation
type Route struct {
	Method string
	Path   string
}

// Controller is a typed //axon::controller annotation
type Controller struct {
	Prefix string
}
