package typeinfo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/axonbind/internal/hosts"
	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/typeinfo"
	"github.com/toyz/axonbind/internal/typeinfo/typeinfotest"
)

const fixtureSrc = `package app

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type Status int

const (
	StatusActive Status = iota + 1
	StatusBlocked
)

type Color string

const (
	Red  Color = "red"
	Blue Color = "blue"
)

type Plain int

type Paging struct {
	Page int ` + "`query:\"page\" json:\"page\"`" + `
	Size int ` + "`json:\"size\" validate:\"omitempty,required\"`" + `
}

type Filter struct {
	Paging
	UserID    uuid.UUID         ` + "`param:\"id\"`" + `
	Trace     string            ` + "`header:\"X-Trace\"`" + `
	Internal  string            ` + "`json:\"-\"`" + `
	Since     *time.Time
	Tags      []string          ` + "`binding:\"required\"`" + `
	Owner     *Filter
	hidden    int
}

type Slug struct{ value string }

func (s *Slug) UnmarshalParam(v string) error { s.value = v; return nil }

type Handlers struct{}

func (Handlers) All(
	ctx context.Context,
	ec echo.Context,
	id int64,
	ratio float32,
	name string,
	ok bool,
	opt *int,
	ids []int,
	fixed [2]string,
	raw []byte,
	file *multipart.FileHeader,
	mf multipart.File,
	files []*multipart.FileHeader,
	status Status,
	color Color,
	plain Plain,
	filter Filter,
	m map[string]string,
	anything any,
	when time.Time,
	wait time.Duration,
	doc *etree.Document,
	slug Slug,
) {}
`

func setup(t *testing.T, settings models.Settings) (*typeinfo.Oracle, map[string]models.Type) {
	t.Helper()
	fx := typeinfotest.Check(t, fixtureSrc)
	params := fx.Params(t, "Handlers.All")

	byName := map[string]models.Type{}
	for i := range params.Len() {
		byName[params.At(i).Name()] = params.At(i).Type()
	}
	return typeinfo.NewOracle(hosts.Echo{}, settings), byName
}

func TestOracle_Classify(t *testing.T) {
	oracle, params := setup(t, models.DefaultSettings())

	tests := []struct {
		param    string
		kind     models.TypeKind
		schema   string
		format   string
		nullable bool
	}{
		{"id", models.TypePrimitive, "integer", "int64", false},
		{"ratio", models.TypePrimitive, "number", "float", false},
		{"name", models.TypePrimitive, "string", "", false},
		{"ok", models.TypePrimitive, "boolean", "", false},
		{"opt", models.TypePrimitive, "integer", "int64", true},
		{"ids", models.TypeArray, "array", "", true},
		{"fixed", models.TypeArray, "array", "", false},
		{"raw", models.TypePrimitive, "string", "byte", true},
		{"file", models.TypeFile, "file", "", true},
		{"mf", models.TypeFile, "file", "", true},
		{"files", models.TypeFileArray, "array", "", true},
		{"filter", models.TypeComplex, "object", "", false},
		{"m", models.TypeComplex, "object", "", true},
		{"anything", models.TypeComplex, "object", "", true},
		{"when", models.TypePrimitive, "string", "date-time", false},
		{"wait", models.TypePrimitive, "integer", "int64", false},
		{"doc", models.TypeComplex, "object", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.param, func(t *testing.T) {
			desc := oracle.Classify(params[tt.param])
			assert.Equal(t, tt.kind, desc.Kind)
			assert.Equal(t, tt.schema, desc.Schema)
			assert.Equal(t, tt.format, desc.Format)
			assert.Equal(t, tt.nullable, desc.Nullable)
		})
	}

	t.Run("array item", func(t *testing.T) {
		desc := oracle.Classify(params["ids"])
		require.NotNil(t, desc.Item)
		assert.Equal(t, "integer", desc.Item.Schema)
	})

	t.Run("unknown handle defaults to string", func(t *testing.T) {
		desc := oracle.Classify(nil)
		assert.Equal(t, models.TypePrimitive, desc.Kind)
		assert.Equal(t, "string", desc.Schema)
	})
}

func TestOracle_Enums(t *testing.T) {
	t.Run("integer handling", func(t *testing.T) {
		oracle, params := setup(t, models.DefaultSettings())

		desc := oracle.Classify(params["status"])
		assert.Equal(t, "integer", desc.Schema)
		assert.Equal(t, []string{"1", "2"}, desc.Enum)

		assert.Nil(t, oracle.Classify(params["plain"]).Enum)
	})

	t.Run("string handling", func(t *testing.T) {
		settings := models.DefaultSettings()
		settings.EnumHandling = models.EnumHandlingString
		oracle, params := setup(t, settings)

		desc := oracle.Classify(params["status"])
		assert.Equal(t, "string", desc.Schema)
		assert.Empty(t, desc.Format)
		assert.Equal(t, []string{"StatusActive", "StatusBlocked"}, desc.Enum)
	})

	t.Run("string enums keep values", func(t *testing.T) {
		oracle, params := setup(t, models.DefaultSettings())

		desc := oracle.Classify(params["color"])
		assert.Equal(t, "string", desc.Schema)
		assert.Equal(t, []string{"red", "blue"}, desc.Enum)
	})
}

func TestOracle_Properties(t *testing.T) {
	oracle, params := setup(t, models.DefaultSettings())

	props := oracle.Properties(params["filter"])
	names := make([]string, len(props))
	for i, p := range props {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"page", "size", "UserID", "Trace", "Internal", "Since", "Tags", "Owner"}, names)

	byName := map[string]models.Property{}
	for _, p := range props {
		byName[p.Name] = p
	}

	assert.Equal(t, markers.Set{{Kind: markers.Query, Name: "page"}}, byName["page"].Markers)
	assert.Equal(t, markers.Set{{Kind: markers.Route, Name: "id"}}, byName["UserID"].Markers)
	assert.Equal(t, markers.Set{{Kind: markers.Header, Name: "X-Trace"}}, byName["Trace"].Markers)
	assert.True(t, byName["Internal"].Markers.Has(markers.Ignore))
	assert.True(t, byName["size"].Required)
	assert.True(t, byName["Tags"].Required)
	assert.False(t, byName["page"].Required)
	assert.Equal(t, "UserID", byName["UserID"].FieldName)

	assert.Nil(t, oracle.Properties(params["id"]))
	assert.Nil(t, oracle.Properties(params["m"]))
}

func TestOracle_PropertyNameHandling(t *testing.T) {
	settings := models.DefaultSettings()
	settings.PropertyNameHandling = models.PropertyNameSnake
	oracle, params := setup(t, settings)

	var names []string
	for _, p := range oracle.Properties(params["filter"]) {
		names = append(names, p.Name)
	}
	assert.Contains(t, names, "user_id")
	assert.Contains(t, names, "page")
}

func TestOracle_FlowControlAndRawDocuments(t *testing.T) {
	oracle, params := setup(t, models.DefaultSettings())

	assert.True(t, oracle.IsFlowControl(params["ctx"]))
	assert.True(t, oracle.IsFlowControl(params["ec"]))
	assert.False(t, oracle.IsFlowControl(params["filter"]))
	assert.False(t, oracle.IsFlowControl(nil))

	assert.True(t, oracle.IsRawDocument(params["doc"]))
	assert.False(t, oracle.IsRawDocument(params["filter"]))
}

func TestOracle_BinderMarkers(t *testing.T) {
	oracle, params := setup(t, models.DefaultSettings())

	set := oracle.BinderMarkers(params["slug"])
	ext := markers.Extract(set)
	require.NotNil(t, ext.Binding)
	assert.False(t, ext.ReadsBody())

	assert.Nil(t, oracle.BinderMarkers(params["filter"]))
	assert.Nil(t, oracle.BinderMarkers(params["name"]))

	fiber := typeinfo.NewOracle(hosts.Fiber{}, models.DefaultSettings())
	assert.Nil(t, fiber.BinderMarkers(params["slug"]))
}

func TestOracle_ElemAndDefinitionName(t *testing.T) {
	oracle, params := setup(t, models.DefaultSettings())

	assert.Equal(t, "int", oracle.Elem(params["ids"]).String())
	assert.Equal(t, "string", oracle.Elem(params["m"]).String())
	assert.Nil(t, oracle.Elem(params["filter"]))

	assert.Equal(t, "app.Filter", oracle.DefinitionName(params["filter"]))
	assert.Equal(t, "etree.Document", oracle.DefinitionName(params["doc"]))
	assert.Empty(t, oracle.DefinitionName(params["status"]))
	assert.Empty(t, oracle.DefinitionName(params["m"]))
}
