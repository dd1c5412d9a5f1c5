package resolver_test

import (
	"context"
	"fmt"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/models"
)

// typ is a type handle understood by fakeOracle
type typ string

func (t typ) String() string { return string(t) }

const (
	tInt      typ = "int"
	tString   typ = "string"
	tInts     typ = "[]int"
	tFile     typ = "*multipart.FileHeader"
	tFiles    typ = "[]*multipart.FileHeader"
	tCtx      typ = "context.Context"
	tXML      typ = "*etree.Document"
	tFilter   typ = "Filter"
	tPaging   typ = "Paging"
	tUpload   typ = "Upload"
	tSlug     typ = "Slug"
	tNested   typ = "Nested"
	tLabels   typ = "map[string]string"
	tAny      typ = "any"
	tNotFound typ = "Unknown"
)

type fakeOracle struct {
	descs map[models.Type]models.TypeDescription
	props map[models.Type][]models.Property
}

func newFakeOracle() *fakeOracle {
	primitive := func(schema string) models.TypeDescription {
		return models.TypeDescription{Kind: models.TypePrimitive, Schema: schema}
	}
	complexType := models.TypeDescription{Kind: models.TypeComplex, Schema: "object"}

	return &fakeOracle{
		descs: map[models.Type]models.TypeDescription{
			tInt:    primitive("integer"),
			tString: primitive("string"),
			tInts:   {Kind: models.TypeArray, Schema: "array", Nullable: true},
			tFile:   {Kind: models.TypeFile, Schema: "file", Nullable: true},
			tFiles:  {Kind: models.TypeFileArray, Schema: "array", Nullable: true},
			tXML:    {Kind: models.TypeComplex, Schema: "object", Nullable: true},
			tFilter: complexType,
			tPaging: complexType,
			tUpload: complexType,
			tSlug:   complexType,
			tNested: complexType,
			tLabels: complexType,
			tAny:    complexType,
		},
		props: map[models.Type][]models.Property{
			tPaging: {
				{Name: "page", FieldName: "Page", Type: tInt},
				{Name: "size", FieldName: "Size", Type: tInt},
			},
			tFilter: {
				{Name: "id", FieldName: "ID", Type: tInt},
				{Name: "Owner", FieldName: "Owner", Type: tInt, Markers: markers.Set{{Kind: markers.Route, Name: "owner"}}},
				{Name: "q", FieldName: "Query", Type: tString, Markers: markers.Set{{Kind: markers.Query, Name: "search"}}},
				{Name: "Trace", FieldName: "Trace", Type: tString, Markers: markers.Set{{Kind: markers.Header, Name: "X-Trace"}}},
				{Name: "secret", FieldName: "Secret", Type: tString, Markers: markers.Set{{Kind: markers.Ignore}}},
				{Name: "tags", FieldName: "Tags", Type: tInts, Required: true},
				{Name: "paging", FieldName: "Paging", Type: tPaging},
			},
			tUpload: {
				{Name: "title", FieldName: "Title", Type: tString},
				{Name: "attachments", FieldName: "Attachments", Type: tFiles},
			},
			tNested: {
				{Name: "tenant", FieldName: "Tenant", Type: tString, Markers: markers.Set{
					{Kind: markers.Query, Name: "t"},
					{Kind: markers.Route, Name: "tenantId"},
				}},
			},
		},
	}
}

func (o *fakeOracle) Classify(t models.Type) models.TypeDescription {
	if d, ok := o.descs[t]; ok {
		return d
	}
	return models.TypeDescription{Kind: models.TypePrimitive, Schema: "string"}
}

func (o *fakeOracle) Properties(t models.Type) []models.Property {
	return append([]models.Property(nil), o.props[t]...)
}

func (o *fakeOracle) IsFlowControl(t models.Type) bool { return t == tCtx }

func (o *fakeOracle) IsRawDocument(t models.Type) bool { return t == tXML }

// call records one builder invocation
type call struct {
	Method string
	Name   string
}

type fakeBuilder struct {
	oracle *fakeOracle
	calls  []call
	failOn string
}

func (b *fakeBuilder) record(method, name string) error {
	b.calls = append(b.calls, call{Method: method, Name: name})
	if b.failOn != "" && b.failOn == name {
		return errBuilder
	}
	return nil
}

var errBuilder = fmt.Errorf("documentation lookup failed")

func (b *fakeBuilder) PrimitiveParameter(_ context.Context, name string, origin models.Origin) (*models.ParameterDescriptor, error) {
	if err := b.record("primitive", name); err != nil {
		return nil, err
	}
	desc := b.oracle.Classify(origin.Type())
	d := &models.ParameterDescriptor{
		Name:     name,
		Type:     desc.Schema,
		Nullable: desc.Nullable,
		Origin:   origin,
	}
	if origin.Property != nil {
		d.Required = origin.Property.Required
	}
	return d, nil
}

func (b *fakeBuilder) BodyParameter(_ context.Context, name string, origin models.Origin) (*models.ParameterDescriptor, error) {
	if err := b.record("body", name); err != nil {
		return nil, err
	}
	return &models.ParameterDescriptor{Name: name, Kind: models.KindBody, Required: true, Type: "object", Origin: origin}, nil
}

func (b *fakeBuilder) PathParameter(_ context.Context, name, typeHint string) (*models.ParameterDescriptor, error) {
	if err := b.record("path", name); err != nil {
		return nil, err
	}
	return &models.ParameterDescriptor{Name: name, Type: typeHint}, nil
}
