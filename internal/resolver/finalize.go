package resolver

import (
	"slices"

	"go.uber.org/zap"

	"github.com/toyz/axonbind/internal/errors"
	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/route"
)

// finalize rewrites the template, sets the consumed media types and enforces
// the single-body rule
func (r *Resolver) finalize(st *resolution) (*Result, error) {
	result := &Result{
		Parameters: st.params,
		Template:   route.Rewrite(st.op.Path, st.hasPath),
		Consumes:   st.consumes,
	}

	if slices.ContainsFunc(st.params, func(d *models.ParameterDescriptor) bool { return d.IsFile }) {
		result.Consumes = []string{MediaTypeMultipart}
	}

	var bodies []string
	for _, d := range st.params {
		if d.Kind == models.KindBody {
			bodies = append(bodies, d.Name)
		}
	}
	if len(bodies) > 1 {
		return nil, errors.NewMultipleBodyError(st.op.ID, bodies).
			WithLocation(errors.SourceLocation{File: st.op.File, Line: st.op.Line})
	}

	for _, d := range result.Parameters {
		r.logger.Debug("resolved parameter",
			zap.String("operation", st.op.ID),
			zap.String("parameter", d.Name),
			zap.Stringer("kind", d.Kind),
			zap.Bool("required", d.Required))
	}
	return result, nil
}
