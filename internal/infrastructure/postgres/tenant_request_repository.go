package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

var _ repository.TenantRequestRepository = (*TenantRequestRepo)(nil)

const requestSelect = `
	SELECT tr.id, tr.tenant_name, tr.user_id, tr.email, tr.status, tr.requested_at, tr.reviewed_at, tr.reviewed_by,
	       COALESCE(req.email, ''), COALESCE(rev.email, '')
	FROM tenant_requests tr
	LEFT JOIN users req ON req.id = tr.user_id
	LEFT JOIN users rev ON rev.id = tr.reviewed_by`

// TenantRequestRepo implementación del puerto TenantRequestRepository sobre PostgreSQL.
type TenantRequestRepo struct {
	q Querier
}

// NewTenantRequestRepository construye el adaptador.
func NewTenantRequestRepository(q Querier) *TenantRequestRepo {
	return &TenantRequestRepo{q: q}
}

// Create persiste la solicitud. El índice parcial impide dos pendientes con el mismo nombre.
func (r *TenantRequestRepo) Create(ctx context.Context, req *entity.TenantRequest) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO tenant_requests (id, tenant_name, user_id, email, status, requested_at, reviewed_at, reviewed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		req.ID, req.TenantName, req.UserID, req.Email, string(req.Status), req.RequestedAt, req.ReviewedAt, req.ReviewedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "tenant_requests_pending_name_idx") {
			return domain.ErrTenantNameTaken
		}
		return fmt.Errorf("insert tenant request: %w", err)
	}
	return nil
}

// GetByID obtiene la solicitud con los emails de solicitante y revisor.
func (r *TenantRequestRepo) GetByID(ctx context.Context, id string) (*entity.TenantRequest, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, requestSelect+` WHERE tr.id = $1`, id)
}

// GetByIDForUpdate bloquea la fila de la solicitud hasta el fin de la transacción.
func (r *TenantRequestRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.TenantRequest, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, requestSelect+` WHERE tr.id = $1 FOR UPDATE OF tr`, id)
}

// LatestByTenantName devuelve la solicitud más reciente para el nombre.
func (r *TenantRequestRepo) LatestByTenantName(ctx context.Context, tenantName string) (*entity.TenantRequest, error) {
	return r.get(ctx, requestSelect+` WHERE tr.tenant_name = $1 ORDER BY tr.requested_at DESC LIMIT 1`, tenantName)
}

func (r *TenantRequestRepo) get(ctx context.Context, query string, arg any) (*entity.TenantRequest, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant request: %w", err)
	}
	return req, nil
}

// Update guarda estado y datos de revisión. El email de la solicitud es inmutable.
func (r *TenantRequestRepo) Update(ctx context.Context, req *entity.TenantRequest) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE tenant_requests SET status = $2, reviewed_at = $3, reviewed_by = $4
		WHERE id = $1`,
		req.ID, string(req.Status), req.ReviewedAt, req.ReviewedBy,
	)
	if err != nil {
		return fmt.Errorf("update tenant request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExistsPendingByName informa si hay una solicitud pendiente con ese nombre.
func (r *TenantRequestRepo) ExistsPendingByName(ctx context.Context, tenantName string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM tenant_requests WHERE tenant_name = $1 AND status = 'pending')`,
		tenantName,
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("exists pending request: %w", err)
	}
	return ok, nil
}

// List pagina solicitudes: pendientes (sin revisar) primero, luego por revisión y creación descendentes.
func (r *TenantRequestRepo) List(ctx context.Context, f repository.TenantRequestFilter) ([]*entity.TenantRequest, int, error) {
	var total int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM tenant_requests WHERE ($1 = '' OR status = $1)`, string(f.Status),
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count tenant requests: %w", err)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := r.q.Query(ctx, requestSelect+`
		WHERE ($1 = '' OR tr.status = $1)
		ORDER BY tr.reviewed_at DESC NULLS FIRST, tr.requested_at DESC, tr.id
		LIMIT $2 OFFSET $3`, string(f.Status), limit, f.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list tenant requests: %w", err)
	}
	defer rows.Close()

	var list []*entity.TenantRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan tenant request: %w", err)
		}
		list = append(list, req)
	}
	return list, total, rows.Err()
}

func scanRequest(row rowScanner) (*entity.TenantRequest, error) {
	var (
		req    entity.TenantRequest
		status string
	)
	if err := row.Scan(&req.ID, &req.TenantName, &req.UserID, &req.Email, &status, &req.RequestedAt,
		&req.ReviewedAt, &req.ReviewedBy, &req.RequesterEmail, &req.ReviewerEmail); err != nil {
		return nil, err
	}
	req.Status = entity.RequestStatus(status)
	return &req, nil
}
