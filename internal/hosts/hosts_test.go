package hosts

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axonbind/internal/markers"
)

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		a, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}

	a, err := Lookup("")
	require.NoError(t, err)
	assert.Equal(t, "echo", a.Name())

	_, err = Lookup("chi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chi")
}

func TestFieldMarkers(t *testing.T) {
	tests := []struct {
		name     string
		adapter  Adapter
		tag      reflect.StructTag
		expected markers.Set
	}{
		{
			name:     "echo query",
			adapter:  Echo{},
			tag:      `query:"page" json:"page"`,
			expected: markers.Set{{Kind: markers.Query, Name: "page"}},
		},
		{
			name:     "echo path param wins ordering",
			adapter:  Echo{},
			tag:      `query:"id" param:"id"`,
			expected: markers.Set{{Kind: markers.Route, Name: "id"}, {Kind: markers.Query, Name: "id"}},
		},
		{
			name:     "gin uri and header",
			adapter:  Gin{},
			tag:      `uri:"slug" header:"X-Trace"`,
			expected: markers.Set{{Kind: markers.Route, Name: "slug"}, {Kind: markers.Header, Name: "X-Trace"}},
		},
		{
			name:     "fiber request header",
			adapter:  Fiber{},
			tag:      `reqHeader:"Authorization"`,
			expected: markers.Set{{Kind: markers.Header, Name: "Authorization"}},
		},
		{
			name:     "json dash ignores",
			adapter:  Gin{},
			tag:      `json:"-"`,
			expected: markers.Set{{Kind: markers.Ignore}},
		},
		{
			name:     "swaggerignore",
			adapter:  Fiber{},
			tag:      `swaggerignore:"true" query:"x"`,
			expected: markers.Set{{Kind: markers.Ignore}, {Kind: markers.Query, Name: "x"}},
		},
		{
			name:     "source tag dash ignores",
			adapter:  Echo{},
			tag:      `query:"-"`,
			expected: markers.Set{{Kind: markers.Ignore}},
		},
		{
			name:     "options are stripped",
			adapter:  Gin{},
			tag:      `form:"q,omitempty"`,
			expected: markers.Set{{Kind: markers.Query, Name: "q"}},
		},
		{
			name:    "no binding tags",
			adapter: Echo{},
			tag:     `json:"name" validate:"required"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.adapter.FieldMarkers(tt.tag))
		})
	}
}

func TestFlowControlTypes(t *testing.T) {
	assert.Contains(t, Echo{}.FlowControlTypes(), "github.com/labstack/echo/v4.Context")
	assert.Contains(t, Gin{}.FlowControlTypes(), "github.com/gin-gonic/gin.Context")
	assert.Contains(t, Fiber{}.FlowControlTypes(), "github.com/gofiber/fiber/v2.Ctx")

	for _, name := range Names() {
		a, err := Lookup(name)
		require.NoError(t, err)
		assert.Contains(t, a.FlowControlTypes(), "net/http.Request")
		assert.Contains(t, a.FlowControlTypes(), "net/http.ResponseWriter")
	}
}

func TestBinderMethods(t *testing.T) {
	assert.Equal(t, []string{"UnmarshalParam", "UnmarshalText"}, Echo{}.BinderMethods())
	assert.Equal(t, []string{"UnmarshalParam", "UnmarshalText"}, Gin{}.BinderMethods())
	assert.Empty(t, Fiber{}.BinderMethods())
}

func TestRoutePath(t *testing.T) {
	template := "/files/{id:int}/{name?}"
	assert.Equal(t, "/files/:id/:name", Echo{}.RoutePath(template))
	assert.Equal(t, "/files/:id/:name", Gin{}.RoutePath(template))
	assert.Equal(t, "/files/:id/:name?", Fiber{}.RoutePath(template))
}

func TestRoutePathRegisters(t *testing.T) {
	tests := []struct {
		template string
		request  string
		param    string
		value    string
	}{
		{template: "/users/{id:int}/orders", request: "/users/42/orders", param: "id", value: "42"},
		{template: "/api/{tenant}/reports/{year}", request: "/api/acme/reports/2024", param: "year", value: "2024"},
		{template: "/health", request: "/health"},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			t.Run("echo", func(t *testing.T) {
				e := echo.New()
				e.GET(Echo{}.RoutePath(tt.template), func(c echo.Context) error {
					return c.String(http.StatusOK, c.Param(tt.param))
				})
				rec := httptest.NewRecorder()
				e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.request, nil))
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, tt.value, rec.Body.String())
			})

			t.Run("gin", func(t *testing.T) {
				gin.SetMode(gin.TestMode)
				r := gin.New()
				r.GET(Gin{}.RoutePath(tt.template), func(c *gin.Context) {
					c.String(http.StatusOK, c.Param(tt.param))
				})
				rec := httptest.NewRecorder()
				r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.request, nil))
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, tt.value, rec.Body.String())
			})

			t.Run("fiber", func(t *testing.T) {
				assert.True(t, fiber.RoutePatternMatch(tt.request, Fiber{}.RoutePath(tt.template)))
			})
		})
	}
}
