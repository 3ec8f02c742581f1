package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

var _ repository.AuditRepository = (*AuditRepo)(nil)

// AuditRepo registro append-only en audit_logs. Details se guarda como JSONB.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Append inserta un registro de auditoría.
func (r *AuditRepo) Append(ctx context.Context, log *entity.AuditLog) error {
	details, err := json.Marshal(log.Details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO audit_logs (id, actor_user_id, action, entity_type, entity_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		log.ID, log.ActorUserID, log.Action, log.EntityType, log.EntityID, details, log.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// ListByEntity devuelve el historial de una entidad en orden cronológico.
func (r *AuditRepo) ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error) {
	if !validIDs(entityID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, actor_user_id, action, entity_type, entity_id, details, created_at
		FROM audit_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at, id`, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var list []*entity.AuditLog
	for rows.Next() {
		var (
			l   entity.AuditLog
			raw []byte
		)
		if err := rows.Scan(&l.ID, &l.ActorUserID, &l.Action, &l.EntityType, &l.EntityID, &raw, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &l.Details); err != nil {
				return nil, fmt.Errorf("unmarshal audit details: %w", err)
			}
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
