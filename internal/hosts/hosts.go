// Package hosts adapts the binding conventions of supported HTTP frameworks
package hosts

import (
	"encoding"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/typeinfo"
)

// Adapter is a host framework adapter
type Adapter interface {
	typeinfo.Host

	// RoutePath converts a route template to the framework's path syntax
	RoutePath(template string) string
}

var (
	requestTypeName        = typeinfo.ReflectName(reflect.TypeFor[http.Request]())
	responseWriterTypeName = typeinfo.ReflectName(reflect.TypeFor[http.ResponseWriter]())
	textUnmarshalMethod    = reflect.TypeFor[encoding.TextUnmarshaler]().Method(0).Name
)

// Names returns the supported host framework names
func Names() []string {
	return []string{"echo", "gin", "fiber"}
}

// Lookup returns the adapter for a host framework name
func Lookup(name string) (Adapter, error) {
	switch strings.ToLower(name) {
	case "echo", "":
		return Echo{}, nil
	case "gin":
		return Gin{}, nil
	case "fiber":
		return Fiber{}, nil
	default:
		return nil, fmt.Errorf("unknown host framework %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
}

// tagRules lists the struct tag keys a framework binds from, per source
type tagRules struct {
	route  []string
	header []string
	query  []string
}

// fieldMarkers converts struct tags to markers. Route tags come first, then
// header, then query, so the first marker of each kind is the strongest.
func fieldMarkers(tag reflect.StructTag, rules tagRules) markers.Set {
	var set markers.Set
	if tag.Get("json") == "-" || tag.Get("swaggerignore") == "true" {
		set = append(set, markers.Marker{Kind: markers.Ignore})
	}

	add := func(kind markers.Kind, keys []string) {
		for _, key := range keys {
			value, ok := tag.Lookup(key)
			if !ok {
				continue
			}
			name, _, _ := strings.Cut(value, ",")
			if name == "-" {
				set = append(set, markers.Marker{Kind: markers.Ignore})
				continue
			}
			set = append(set, markers.Marker{Kind: kind, Name: name})
		}
	}
	add(markers.Route, rules.route)
	add(markers.Header, rules.header)
	add(markers.Query, rules.query)

	return set
}

func commonFlowControl(extra ...reflect.Type) []string {
	names := []string{requestTypeName, responseWriterTypeName}
	for _, t := range extra {
		names = append(names, typeinfo.ReflectName(t))
	}
	return names
}
