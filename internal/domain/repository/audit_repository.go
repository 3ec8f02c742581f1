package repository

import (
	"context"

	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// AuditRepository registro append-only; no existe Update ni Delete.
type AuditRepository interface {
	Append(ctx context.Context, log *entity.AuditLog) error
	ListByEntity(ctx context.Context, entityType, entityID string) ([]*entity.AuditLog, error)
}
