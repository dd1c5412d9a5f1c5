package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/axonbind/internal/models"
	"github.com/toyz/axonbind/internal/route"
)

// synthesizeMissingPath adds a path parameter for every placeholder of the
// template that no produced path parameter matches
func (r *Resolver) synthesizeMissingPath(ctx context.Context, st *resolution) error {
	for ph := range route.Placeholders(st.op.Path) {
		if st.hasPath(ph.Name) {
			continue
		}

		hint := "string"
		if ph.HasConstraint {
			hint = route.TypeHint(ph.Constraint)
		}

		d, err := r.builder.PathParameter(ctx, ph.Name, hint)
		if err != nil {
			return err
		}
		markPath(d)
		st.add(d)

		r.logger.Debug("synthesized path parameter",
			zap.String("operation", st.op.ID),
			zap.String("parameter", ph.Name),
			zap.String("type_hint", hint))
	}
	return nil
}

// hasPath reports whether a path parameter named name (case-insensitively) exists
func (s *resolution) hasPath(name string) bool {
	for _, d := range s.params {
		if d.Kind == models.KindPath && strings.EqualFold(d.Name, name) {
			return true
		}
	}
	return false
}
