package memory

import (
	"context"
	"maps"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

type auditRepo struct{ v view }

func (r *auditRepo) Append(_ context.Context, log *entity.AuditLog) error {
	return r.v.write(func(st *state) error {
		l := *log
		l.Details = maps.Clone(log.Details)
		st.audit = append(st.audit, l)
		return nil
	})
}

func (r *auditRepo) ListByEntity(_ context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	var out []*entity.AuditLog
	err := r.v.read(func(st *state) error {
		for _, l := range st.audit {
			if l.EntityType == entityType && l.EntityID == entityID {
				l := l
				l.Details = maps.Clone(l.Details)
				out = append(out, &l)
			}
		}
		return nil
	})
	return out, err
}
