// Package schema builds parameter descriptors and JSON schemas for resolved
// bindings from the structural view of the type oracle.
package schema

import (
	"context"
	"maps"
	"strconv"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/models"
)

// Describer is the part of the type oracle the builder needs
type Describer interface {
	Classify(t models.Type) models.TypeDescription
	Properties(t models.Type) []models.Property
	Elem(t models.Type) models.Type
	DefinitionName(t models.Type) string
}

// DocLookup resolves documentation for struct fields
type DocLookup interface {
	FieldDoc(ctx context.Context, owner models.Type, field string) (string, error)
}

type noDocs struct{}

func (noDocs) FieldDoc(context.Context, models.Type, string) (string, error) { return "", nil }

// Builder creates parameter descriptors. Named struct types used as bodies
// are collected as shared definitions. A Builder is safe for concurrent use.
type Builder struct {
	types Describer
	docs  DocLookup

	mu          sync.Mutex
	definitions map[string]*jsonschema.Schema
}

// NewBuilder creates a builder. docs may be nil.
func NewBuilder(types Describer, docs DocLookup) *Builder {
	if docs == nil {
		docs = noDocs{}
	}
	return &Builder{
		types:       types,
		docs:        docs,
		definitions: make(map[string]*jsonschema.Schema),
	}
}

// Definitions returns a copy of the collected definitions
func (b *Builder) Definitions() map[string]*jsonschema.Schema {
	b.mu.Lock()
	defer b.mu.Unlock()
	return maps.Clone(b.definitions)
}

// PrimitiveParameter builds a non-body descriptor for origin
func (b *Builder) PrimitiveParameter(ctx context.Context, name string, origin models.Origin) (*models.ParameterDescriptor, error) {
	desc := b.types.Classify(origin.Type())
	d := &models.ParameterDescriptor{
		Name:     name,
		Type:     desc.Schema,
		Format:   desc.Format,
		Nullable: desc.Nullable,
		Origin:   origin,
	}
	if desc.Kind == models.TypeComplex {
		// Opaque values bound from a single string
		d.Type, d.Format = "string", ""
	}

	d.Schema = b.primitiveSchema(desc, origin.Type())

	if err := b.describe(ctx, d, origin); err != nil {
		return nil, err
	}
	return d, nil
}

// BodyParameter builds a body descriptor for origin
func (b *Builder) BodyParameter(ctx context.Context, name string, origin models.Origin) (*models.ParameterDescriptor, error) {
	t := origin.Type()
	desc := b.types.Classify(t)

	b.mu.Lock()
	s, err := b.schemaFor(ctx, t)
	b.mu.Unlock()
	if err != nil {
		return nil, err
	}

	d := &models.ParameterDescriptor{
		Name:     name,
		Kind:     models.KindBody,
		Required: origin.Parameter == nil || !origin.Parameter.HasDefault,
		Nullable: desc.Nullable,
		Type:     desc.Schema,
		Format:   desc.Format,
		Schema:   s,
		Origin:   origin,
	}
	if err := b.describe(ctx, d, origin); err != nil {
		return nil, err
	}
	return d, nil
}

// PathParameter builds a path descriptor for a placeholder no declared
// parameter covers. typeHint is a route constraint type hint.
func (b *Builder) PathParameter(_ context.Context, name, typeHint string) (*models.ParameterDescriptor, error) {
	typ, format := "string", ""
	switch typeHint {
	case "integer", "number", "boolean":
		typ = typeHint
	case "uuid", "date-time":
		format = typeHint
	}
	return &models.ParameterDescriptor{
		Name:     name,
		Kind:     models.KindPath,
		Required: true,
		Type:     typ,
		Format:   format,
		Schema:   &jsonschema.Schema{Type: typ, Format: format},
	}, nil
}

// describe fills documentation, requiredness and defaults from the origin
func (b *Builder) describe(ctx context.Context, d *models.ParameterDescriptor, origin models.Origin) error {
	switch {
	case origin.Property != nil:
		d.Required = d.Required || origin.Property.Required
		doc, err := b.docs.FieldDoc(ctx, origin.Owner, origin.Property.FieldName)
		if err != nil {
			return err
		}
		d.Description = doc
	case origin.Parameter != nil:
		d.Description = origin.Parameter.Description
		if origin.Parameter.HasDefault {
			d.HasDefault = true
			d.Default = origin.Parameter.Default
			if d.Schema != nil {
				d.Schema.Default = origin.Parameter.Default
			}
		}
	}
	if d.Schema != nil && d.Description != "" {
		d.Schema.Description = d.Description
	}
	return nil
}

func (b *Builder) primitiveSchema(desc models.TypeDescription, t models.Type) *jsonschema.Schema {
	switch desc.Kind {
	case models.TypeFile:
		return &jsonschema.Schema{Type: "file"}
	case models.TypeComplex:
		return &jsonschema.Schema{Type: "string"}
	case models.TypeArray, models.TypeFileArray:
		s := &jsonschema.Schema{Type: "array"}
		if desc.Item != nil {
			s.Items = b.primitiveSchema(*desc.Item, b.types.Elem(t))
		}
		return s
	default:
		return leaf(desc)
	}
}

// schemaFor builds the full schema of t, registering named structs as
// definitions. Callers hold b.mu.
func (b *Builder) schemaFor(ctx context.Context, t models.Type) (*jsonschema.Schema, error) {
	if t == nil {
		return &jsonschema.Schema{Type: "string"}, nil
	}
	desc := b.types.Classify(t)

	switch desc.Kind {
	case models.TypeFile:
		return &jsonschema.Schema{Type: "file"}, nil
	case models.TypeArray, models.TypeFileArray:
		items, err := b.schemaFor(ctx, b.types.Elem(t))
		if err != nil {
			return nil, err
		}
		return &jsonschema.Schema{Type: "array", Items: items}, nil
	case models.TypeComplex:
		name := b.types.DefinitionName(t)
		if name == "" {
			return b.objectSchema(ctx, t)
		}
		if _, ok := b.definitions[name]; !ok {
			// Reserve the name first so self-referencing types terminate
			b.definitions[name] = &jsonschema.Schema{Type: "object"}
			s, err := b.objectSchema(ctx, t)
			if err != nil {
				delete(b.definitions, name)
				return nil, err
			}
			b.definitions[name] = s
		}
		return &jsonschema.Schema{Ref: "#/definitions/" + name}, nil
	default:
		return leaf(desc), nil
	}
}

func (b *Builder) objectSchema(ctx context.Context, t models.Type) (*jsonschema.Schema, error) {
	s := &jsonschema.Schema{Type: "object"}

	if elem := b.types.Elem(t); elem != nil {
		values, err := b.schemaFor(ctx, elem)
		if err != nil {
			return nil, err
		}
		s.AdditionalProperties = values
		return s, nil
	}

	props := b.types.Properties(t)
	if len(props) == 0 {
		return s, nil
	}

	s.Properties = jsonschema.NewProperties()
	for _, prop := range props {
		if prop.Markers.Has(markers.Ignore) {
			continue
		}
		ps, err := b.schemaFor(ctx, prop.Type)
		if err != nil {
			return nil, err
		}
		doc, err := b.docs.FieldDoc(ctx, t, prop.FieldName)
		if err != nil {
			return nil, err
		}
		if doc != "" && ps.Ref == "" {
			ps.Description = doc
		}
		s.Properties.Set(prop.Name, ps)
		if prop.Required {
			s.Required = append(s.Required, prop.Name)
		}
	}
	return s, nil
}

func leaf(desc models.TypeDescription) *jsonschema.Schema {
	s := &jsonschema.Schema{Type: desc.Schema, Format: desc.Format}
	for _, v := range desc.Enum {
		if desc.Schema == "integer" {
			if n, err := strconv.ParseInt(v, 10, 64); err == nil {
				s.Enum = append(s.Enum, n)
				continue
			}
		}
		s.Enum = append(s.Enum, v)
	}
	return s
}
