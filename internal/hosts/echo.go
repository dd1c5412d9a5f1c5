package hosts

import (
	"reflect"

	"github.com/labstack/echo/v4"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/route"
)

var echoRules = tagRules{
	route:  []string{"param"},
	header: []string{"header"},
	query:  []string{"query", "form"},
}

// Echo adapts Echo v4 binding conventions
type Echo struct{}

// Name returns the adapter name
func (Echo) Name() string { return "echo" }

// FieldMarkers reads the param, header, query and form tags Echo binds from
func (Echo) FieldMarkers(tag reflect.StructTag) markers.Set {
	return fieldMarkers(tag, echoRules)
}

// FlowControlTypes returns echo.Context and the net/http request types
func (Echo) FlowControlTypes() []string {
	return commonFlowControl(reflect.TypeFor[echo.Context]())
}

// BinderMethods returns the methods of echo.BindUnmarshaler and encoding.TextUnmarshaler
func (Echo) BinderMethods() []string {
	return []string{reflect.TypeFor[echo.BindUnmarshaler]().Method(0).Name, textUnmarshalMethod}
}

// RoutePath converts a route template to Echo syntax
func (Echo) RoutePath(template string) string {
	return route.ToEcho(template)
}
