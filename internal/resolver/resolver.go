// Package resolver decides, for every parameter of an operation, which part of
// the HTTP request it binds from and produces the operation's parameter list
// together with its cleaned route template.
package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/toyz/axonbind/internal/errors"
	"github.com/toyz/axonbind/internal/models"
)

// ExpansionDepth is how many levels of complex types are expanded into
// per-property parameters. Complex properties below it bind as opaque values.
const ExpansionDepth = 1

const (
	MediaTypeMultipart = "multipart/form-data"
	MediaTypeXML       = "application/xml"
)

// Oracle describes native types
type Oracle interface {
	Classify(t models.Type) models.TypeDescription
	Properties(t models.Type) []models.Property
	IsFlowControl(t models.Type) bool
	IsRawDocument(t models.Type) bool
}

// Builder constructs parameter descriptors. Implementations may look up
// documentation, which is why every call takes a context.
type Builder interface {
	PrimitiveParameter(ctx context.Context, name string, origin models.Origin) (*models.ParameterDescriptor, error)
	BodyParameter(ctx context.Context, name string, origin models.Origin) (*models.ParameterDescriptor, error)
	PathParameter(ctx context.Context, name, typeHint string) (*models.ParameterDescriptor, error)
}

// Result is the resolved binding of one operation
type Result struct {
	Parameters []*models.ParameterDescriptor
	Template   string   // route template keeping only bound placeholders
	Consumes   []string // media types the operation consumes, nil for the default
}

// Resolver resolves operation parameters. It holds no per-operation state and
// is safe for concurrent use.
type Resolver struct {
	oracle   Oracle
	builder  Builder
	settings models.Settings
	logger   *zap.Logger
}

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for tracing decisions
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New creates a resolver
func New(oracle Oracle, builder Builder, settings models.Settings, opts ...Option) *Resolver {
	r := &Resolver{
		oracle:   oracle,
		builder:  builder,
		settings: settings,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolution is the state of a single Resolve call
type resolution struct {
	op       *models.Operation
	params   []*models.ParameterDescriptor
	consumes []string
}

func (s *resolution) add(ds ...*models.ParameterDescriptor) {
	s.params = append(s.params, ds...)
}

// Resolve classifies every formal parameter of op in declaration order,
// synthesizes missing path parameters when enabled and finalizes the result.
// The only configuration error is an operation with more than one body.
// Builder calls are made sequentially, and ctx is only passed through to them.
func (r *Resolver) Resolve(ctx context.Context, op *models.Operation) (*Result, error) {
	st := &resolution{op: op}

	for i := range op.Parameters {
		p := &op.Parameters[i]
		ds, err := r.classifyParameter(ctx, st, p, ExpansionDepth)
		if err != nil {
			return nil, errors.WrapResolutionError(op.ID, err).
				WithContext("parameter", p.Name).
				WithLocation(errors.SourceLocation{File: op.File, Line: op.Line})
		}
		st.add(ds...)
	}

	if r.settings.AddMissingPathParameters {
		if err := r.synthesizeMissingPath(ctx, st); err != nil {
			return nil, errors.WrapResolutionError(op.ID, err).
				WithLocation(errors.SourceLocation{File: op.File, Line: op.Line})
		}
	}

	return r.finalize(st)
}
