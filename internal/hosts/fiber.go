package hosts

import (
	"reflect"

	"github.com/gofiber/fiber/v2"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/route"
)

var fiberRules = tagRules{
	route:  []string{"params"},
	header: []string{"reqHeader"},
	query:  []string{"query", "form"},
}

// Fiber adapts Fiber v2 binding conventions
type Fiber struct{}

// Name returns the adapter name
func (Fiber) Name() string { return "fiber" }

// FieldMarkers reads the params, reqHeader, query and form tags Fiber binds from
func (Fiber) FieldMarkers(tag reflect.StructTag) markers.Set {
	return fieldMarkers(tag, fiberRules)
}

// FlowControlTypes returns *fiber.Ctx and the net/http request types
func (Fiber) FlowControlTypes() []string {
	return commonFlowControl(reflect.TypeFor[fiber.Ctx]())
}

// BinderMethods returns nothing, Fiber has no single-value binder interface
func (Fiber) BinderMethods() []string {
	return nil
}

// RoutePath converts a route template to Fiber syntax
func (Fiber) RoutePath(template string) string {
	return route.ToFiber(template)
}
