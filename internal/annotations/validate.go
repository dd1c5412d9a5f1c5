package annotations

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/toyz/axonbind/internal/errors"
	"github.com/toyz/axonbind/internal/markers"
)

var httpMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}

// Param is a typed //axon::param annotation
type Param struct {
	Name        string
	Markers     markers.Set
	Default     string
	HasDefault  bool
	Description string
}

// Route converts a route annotation to its typed form
func (p *ParsedAnnotation) Route() (Route, error) {
	if p.Type != RouteAnnotation {
		return Route{}, p.invalid("annotation type", "route", p.Type.String())
	}
	if len(p.Args) < 2 {
		return Route{}, p.invalid("arguments", "method and path (e.g. GET /users)", strings.Join(p.Args, " ")).
			WithSuggestion("write the route as //axon::route GET /users/{id}")
	}

	method := strings.ToUpper(p.Args[0])
	if !slices.Contains(httpMethods, method) {
		return Route{}, p.invalid("method", strings.Join(httpMethods, ", "), p.Args[0])
	}

	path := p.Args[1]
	if !strings.HasPrefix(path, "/") {
		return Route{}, p.invalid("path", "a path starting with '/'", path)
	}

	return Route{Method: method, Path: path}, nil
}

// Controller converts a controller annotation to its typed form
func (p *ParsedAnnotation) Controller() (Controller, error) {
	if p.Type != ControllerAnnotation {
		return Controller{}, p.invalid("annotation type", "controller", p.Type.String())
	}

	var c Controller
	for _, f := range p.Flags {
		switch f.Name {
		case "Prefix":
			if !f.HasValue || !strings.HasPrefix(f.Value, "/") {
				return Controller{}, p.invalid("Prefix", "a path starting with '/'", f.Value)
			}
			c.Prefix = f.Value
		default:
			return Controller{}, p.invalid("flag", "Prefix", f.Name)
		}
	}
	return c, nil
}

// Param converts a param annotation to its typed form. Marker flags keep
// their declaration order so that the first marker of a kind wins.
func (p *ParsedAnnotation) Param() (Param, error) {
	if p.Type != ParamAnnotation {
		return Param{}, p.invalid("annotation type", "param", p.Type.String())
	}
	if len(p.Args) != 1 {
		return Param{}, p.invalid("arguments", "exactly one parameter name", strings.Join(p.Args, " "))
	}

	param := Param{Name: p.Args[0]}
	for _, f := range p.Flags {
		switch f.Name {
		case "Default":
			if !f.HasValue {
				return Param{}, p.invalid("Default", "a value", "nothing")
			}
			param.Default = f.Value
			param.HasDefault = true
			continue
		case "Description":
			param.Description = f.Value
			continue
		}

		kind, ok := markers.ParseKind(f.Name)
		if !ok {
			return Param{}, p.invalid("flag", "a binding marker (Query, Body, Route, Header, Binder, WillReadBody, Ignore, NeverBind)", f.Name)
		}

		m := markers.Marker{Kind: kind}
		switch kind {
		case markers.WillReadBody:
			if f.HasValue {
				v, err := strconv.ParseBool(f.Value)
				if err != nil {
					return Param{}, p.invalid("WillReadBody", "true or false", f.Value)
				}
				m.Value = markers.Bool(v)
			}
		case markers.Query, markers.Route, markers.Header, markers.Body:
			m.Name = f.Value
		default:
			if f.HasValue {
				return Param{}, p.invalid(f.Name, "no value", f.Value)
			}
		}
		param.Markers = append(param.Markers, m)
	}

	return param, nil
}

func (p *ParsedAnnotation) invalid(field, expected, actual string) *errors.ValidationError {
	return errors.NewValidationError(field, expected, fmt.Sprintf("%q in %s", actual, p.Raw)).
		WithLocation(p.Location)
}
