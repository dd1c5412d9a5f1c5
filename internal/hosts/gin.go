package hosts

import (
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/route"
)

// Gin binds each source from the tag named after its binding
var ginRules = tagRules{
	route:  []string{binding.Uri.Name()},
	header: []string{binding.Header.Name()},
	query:  []string{binding.Form.Name()},
}

// Gin adapts Gin binding conventions
type Gin struct{}

// Name returns the adapter name
func (Gin) Name() string { return "gin" }

// FieldMarkers reads the uri, header and form tags Gin binds from
func (Gin) FieldMarkers(tag reflect.StructTag) markers.Set {
	return fieldMarkers(tag, ginRules)
}

// FlowControlTypes returns *gin.Context and the net/http request types
func (Gin) FlowControlTypes() []string {
	return commonFlowControl(reflect.TypeFor[gin.Context]())
}

// BinderMethods returns the binding.BindUnmarshaler and
// encoding.TextUnmarshaler methods
func (Gin) BinderMethods() []string {
	return []string{reflect.TypeFor[binding.BindUnmarshaler]().Method(0).Name, textUnmarshalMethod}
}

// RoutePath converts a route template to Gin syntax
func (Gin) RoutePath(template string) string {
	return route.ToGin(template)
}
