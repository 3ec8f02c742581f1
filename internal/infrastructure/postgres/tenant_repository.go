package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = `id, name, is_active, is_deleted, deleted_at, created_at, updated_at`

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para tenants.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

// Create persiste un nuevo tenant.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	active, deleted := t.State.Flags()
	_, err := r.q.Exec(ctx, `
		INSERT INTO tenants (`+tenantColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, active, deleted, t.DeletedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "tenants_name_key") {
			return domain.ErrTenantNameTaken
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene y bloquea el tenant.
func (r *TenantRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Tenant, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, forUpdate(`SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, true), id)
}

// GetByName obtiene un tenant por nombre exacto, en cualquier estado.
func (r *TenantRepo) GetByName(ctx context.Context, name string) (*entity.Tenant, error) {
	return r.get(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE name = $1`, name)
}

func (r *TenantRepo) get(ctx context.Context, query string, arg any) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// Update actualiza nombre y estado del tenant.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	active, deleted := t.State.Flags()
	tag, err := r.q.Exec(ctx, `
		UPDATE tenants SET name = $2, is_active = $3, is_deleted = $4, deleted_at = $5, updated_at = $6
		WHERE id = $1`,
		t.ID, t.Name, active, deleted, t.DeletedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "tenants_name_key") {
			return domain.ErrTenantNameTaken
		}
		return fmt.Errorf("update tenant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTenantNotFound
	}
	return nil
}

// ListSummaries lista tenants (más recientes primero) con el email y estado de su última
// solicitud y el número de usuarios no eliminados con rol "user".
func (r *TenantRepo) ListSummaries(ctx context.Context, limit, offset int) ([]*entity.TenantSummary, error) {
	query := `
		SELECT t.id, t.name, t.is_active, t.is_deleted, t.deleted_at, t.created_at, t.updated_at,
		       COALESCE(req.email, ''), COALESCE(req.status, ''),
		       (SELECT COUNT(*) FROM users u
		          JOIN user_roles ur ON ur.user_id = u.id
		          JOIN roles ro ON ro.id = ur.role_id
		         WHERE u.tenant_id = t.id AND u.is_deleted = FALSE AND ro.name = 'user')
		FROM tenants t
		LEFT JOIN LATERAL (
			SELECT tr.email, tr.status FROM tenant_requests tr
			WHERE tr.tenant_name = t.name
			ORDER BY tr.requested_at DESC
			LIMIT 1
		) req ON TRUE
		ORDER BY t.created_at DESC, t.id
		LIMIT $1 OFFSET $2`
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()

	var list []*entity.TenantSummary
	for rows.Next() {
		var (
			s               entity.TenantSummary
			active, deleted bool
		)
		if err := rows.Scan(&s.ID, &s.Name, &active, &deleted, &s.DeletedAt, &s.CreatedAt, &s.UpdatedAt,
			&s.RequestEmail, &s.RequestStatus, &s.UserCount); err != nil {
			return nil, fmt.Errorf("scan tenant summary: %w", err)
		}
		s.State = entity.LifecycleFromFlags(active, deleted)
		list = append(list, &s)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (*entity.Tenant, error) {
	var (
		t               entity.Tenant
		active, deleted bool
	)
	if err := row.Scan(&t.ID, &t.Name, &active, &deleted, &t.DeletedAt, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.State = entity.LifecycleFromFlags(active, deleted)
	return &t, nil
}
