package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/toyz/axonbind/internal/markers"
	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/route"
)

// classifyParameter applies the skip rule and the binding decision table to
// one formal parameter. depth is the remaining expansion depth.
func (r *Resolver) classifyParameter(ctx context.Context, st *resolution, p *models.FormalParameter, depth int) ([]*models.ParameterDescriptor, error) {
	m := markers.Extract(p.Markers)
	if m.Skipped() || r.oracle.IsFlowControl(p.Type) {
		r.logger.Debug("skipped parameter",
			zap.String("operation", st.op.ID),
			zap.String("parameter", p.Name))
		return nil, nil
	}

	origin := models.Origin{Parameter: p}
	uriName := markers.EffectiveName(m.Query, p.Name)
	bodyName := markers.EffectiveName(m.Body, p.Name)

	// The template is matched on the query name even without a query marker
	if route.HasPlaceholder(st.op.Path, uriName) {
		return r.path(ctx, uriName, origin)
	}

	desc := r.oracle.Classify(p.Type)
	if desc.IsFile() {
		return r.file(ctx, p.Name, origin, desc)
	}

	if m.Route != nil {
		return r.path(ctx, markers.EffectiveName(m.Route, p.Name), origin)
	}
	if m.Header != nil {
		return r.header(ctx, markers.EffectiveName(m.Header, p.Name), origin)
	}

	if desc.Kind == models.TypeComplex {
		switch {
		case m.Body == nil && m.Query == nil && !r.settings.ConventionB && m.Binding != nil:
			if m.ReadsBody() {
				return r.body(ctx, st, bodyName, origin)
			}
			// Custom binders that do not read the body take one opaque value
			return r.query(ctx, uriName, origin)
		case m.Body != nil || (m.Query == nil && !r.settings.ConventionB):
			return r.body(ctx, st, bodyName, origin)
		case depth > 0:
			if props := r.oracle.Properties(p.Type); len(props) > 0 {
				return r.expand(ctx, st, p.Type, props, depth-1)
			}
			// Maps, interfaces and structs without fields bind as one value
			return r.query(ctx, uriName, origin)
		default:
			return r.query(ctx, uriName, origin)
		}
	}

	if m.Body != nil {
		return r.body(ctx, st, bodyName, origin)
	}
	return r.query(ctx, uriName, origin)
}

// expand classifies every property of a complex type as if it were a
// top-level parameter
func (r *Resolver) expand(ctx context.Context, st *resolution, owner models.Type, props []models.Property, depth int) ([]*models.ParameterDescriptor, error) {
	var out []*models.ParameterDescriptor
	for i := range props {
		ds, err := r.classifyProperty(ctx, st, owner, &props[i], depth)
		if err != nil {
			return nil, err
		}
		out = append(out, ds...)
	}
	return out, nil
}

// classifyProperty applies the property subset of the decision table: file,
// route marker or template match, header marker, then query.
func (r *Resolver) classifyProperty(ctx context.Context, st *resolution, owner models.Type, prop *models.Property, depth int) ([]*models.ParameterDescriptor, error) {
	m := markers.Extract(prop.Markers)
	if m.Skipped() {
		return nil, nil
	}

	// Route and header names override the query name
	name := markers.EffectiveName(m.Query, prop.Name)
	name = markers.EffectiveName(m.Route, name)
	name = markers.EffectiveName(m.Header, name)

	desc := r.oracle.Classify(prop.Type)
	if desc.Kind == models.TypeComplex && depth > 0 {
		if props := r.oracle.Properties(prop.Type); len(props) > 0 {
			return r.expand(ctx, st, prop.Type, props, depth-1)
		}
	}

	d, err := r.builder.PrimitiveParameter(ctx, name, models.Origin{Property: prop, Owner: owner})
	if err != nil {
		return nil, err
	}

	switch {
	case desc.IsFile():
		markFile(d, desc)
	case m.Route != nil || route.HasPlaceholder(st.op.Path, name):
		markPath(d)
	case m.Header != nil:
		d.Kind = models.KindHeader
	default:
		d.Kind = models.KindQuery
	}
	return []*models.ParameterDescriptor{d}, nil
}

func (r *Resolver) path(ctx context.Context, name string, origin models.Origin) ([]*models.ParameterDescriptor, error) {
	d, err := r.builder.PrimitiveParameter(ctx, name, origin)
	if err != nil {
		return nil, err
	}
	markPath(d)
	return []*models.ParameterDescriptor{d}, nil
}

func (r *Resolver) header(ctx context.Context, name string, origin models.Origin) ([]*models.ParameterDescriptor, error) {
	d, err := r.builder.PrimitiveParameter(ctx, name, origin)
	if err != nil {
		return nil, err
	}
	d.Kind = models.KindHeader
	return []*models.ParameterDescriptor{d}, nil
}

// file binds a file or file collection from a multipart form field named
// after the declared parameter
func (r *Resolver) file(ctx context.Context, name string, origin models.Origin, desc models.TypeDescription) ([]*models.ParameterDescriptor, error) {
	d, err := r.builder.PrimitiveParameter(ctx, name, origin)
	if err != nil {
		return nil, err
	}
	markFile(d, desc)
	return []*models.ParameterDescriptor{d}, nil
}

// query binds a value from the query string. Parameters without a declared
// default are required.
func (r *Resolver) query(ctx context.Context, name string, origin models.Origin) ([]*models.ParameterDescriptor, error) {
	d, err := r.builder.PrimitiveParameter(ctx, name, origin)
	if err != nil {
		return nil, err
	}
	d.Kind = models.KindQuery

	if p := origin.Parameter; p != nil {
		d.Required = d.Required || !p.HasDefault
		if p.HasDefault {
			d.HasDefault = true
			d.Default = p.Default
		}
	}
	return []*models.ParameterDescriptor{d}, nil
}

// body binds the request body. Raw XML documents bypass the builder and
// switch the operation to consume XML.
func (r *Resolver) body(ctx context.Context, st *resolution, name string, origin models.Origin) ([]*models.ParameterDescriptor, error) {
	if r.oracle.IsRawDocument(origin.Type()) {
		st.consumes = []string{MediaTypeXML}

		d := &models.ParameterDescriptor{
			Name:     name,
			Kind:     models.KindBody,
			Nullable: true,
			Origin:   origin,
		}
		if p := origin.Parameter; p != nil {
			d.Required = !p.HasDefault
			d.Description = p.Description
		}
		return []*models.ParameterDescriptor{d}, nil
	}

	d, err := r.builder.BodyParameter(ctx, name, origin)
	if err != nil {
		return nil, err
	}
	d.Kind = models.KindBody
	if p := origin.Parameter; p != nil {
		d.Required = !p.HasDefault
	}
	return []*models.ParameterDescriptor{d}, nil
}

// markPath turns d into a path parameter. Path segments are always present.
func markPath(d *models.ParameterDescriptor) {
	d.Kind = models.KindPath
	d.Required = true
	d.Nullable = false
}

func markFile(d *models.ParameterDescriptor, desc models.TypeDescription) {
	d.Kind = models.KindFormData
	d.IsFile = true
	d.Type = "file"
	d.Format = ""
	if desc.Kind == models.TypeFileArray {
		d.CollectionFormat = models.CollectionFormatMulti
	}
}
