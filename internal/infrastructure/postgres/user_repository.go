package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// userSelect carga el usuario con sus roles en una sola consulta.
const userSelect = `
	SELECT u.id, u.tenant_id, u.email, u.password_hash, u.name, u.is_active, u.is_deleted,
	       u.deleted_at, u.created_at, u.updated_at,
	       ARRAY(SELECT ro.name FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id
	             WHERE ur.user_id = u.id ORDER BY ro.id)
	FROM users u`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q     Querier
	roles *RoleCache
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier, roles *RoleCache) *UserRepo {
	return &UserRepo{q: q, roles: roles}
}

// Create persiste un nuevo usuario y sus roles.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	active, deleted := u.State.Flags()
	_, err := r.q.Exec(ctx, `
		INSERT INTO users (id, tenant_id, email, password_hash, name, is_active, is_deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, active, deleted, u.DeletedAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailInUse
		}
		return fmt.Errorf("insert user: %w", err)
	}
	if len(u.Roles) == 0 {
		return nil
	}
	return r.ReplaceRoles(ctx, u.ID, u.Roles)
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, userSelect+` WHERE u.id = $1`, id)
}

// GetByIDForUpdate obtiene y bloquea el usuario.
func (r *UserRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	if !validIDs(id) {
		return nil, nil
	}
	return r.get(ctx, forUpdate(userSelect+` WHERE u.id = $1`, true), id)
}

// GetByEmail obtiene un usuario por email en cualquier tenant y estado.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.get(ctx, userSelect+` WHERE u.email = $1`, email)
}

// GetActiveByEmailAndTenant obtiene un usuario no eliminado del tenant.
func (r *UserRepo) GetActiveByEmailAndTenant(ctx context.Context, email, tenantID string) (*entity.User, error) {
	if !validIDs(tenantID) {
		return nil, nil
	}
	return r.get(ctx, userSelect+` WHERE u.email = $1 AND u.tenant_id = $2 AND u.is_deleted = FALSE`, email, tenantID)
}

func (r *UserRepo) get(ctx context.Context, query string, args ...any) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Update actualiza los datos del usuario; no toca sus roles.
func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	active, deleted := u.State.Flags()
	tag, err := r.q.Exec(ctx, `
		UPDATE users SET tenant_id = $2, email = $3, password_hash = $4, name = $5,
		       is_active = $6, is_deleted = $7, deleted_at = $8, updated_at = $9
		WHERE id = $1`,
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.Name, active, deleted, u.DeletedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return domain.ErrEmailInUse
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ReplaceRoles borra las asignaciones del usuario y crea exactamente las dadas.
func (r *UserRepo) ReplaceRoles(ctx context.Context, userID string, roles entity.RoleSet) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return domain.ErrUserNotFound
	}
	ids := make([]int, 0, len(roles))
	for _, role := range roles {
		id, err := r.roles.ID(ctx, r.q, role)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete user roles: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		SELECT $1, unnest($2::int[])
		ON CONFLICT DO NOTHING`, userID, ids)
	if err != nil {
		return fmt.Errorf("insert user roles: %w", err)
	}
	return nil
}

// ListByTenant lista los usuarios del tenant sin el rol excluded, por fecha de alta.
func (r *UserRepo) ListByTenant(ctx context.Context, tenantID string, excluded entity.Role) ([]*entity.User, error) {
	if !validIDs(tenantID) {
		return nil, nil
	}
	query := userSelect + `
		WHERE u.tenant_id = $1
		  AND ($2 = '' OR NOT EXISTS (
		       SELECT 1 FROM user_roles ur JOIN roles ro ON ro.id = ur.role_id
		       WHERE ur.user_id = u.id AND ro.name = $2))
		ORDER BY u.created_at, u.id`
	rows, err := r.q.Query(ctx, query, tenantID, string(excluded))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

func scanUser(row rowScanner) (*entity.User, error) {
	var (
		u               entity.User
		active, deleted bool
		roles           []string
	)
	if err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Name, &active, &deleted,
		&u.DeletedAt, &u.CreatedAt, &u.UpdatedAt, &roles); err != nil {
		return nil, err
	}
	u.State = entity.LifecycleFromFlags(active, deleted)
	for _, name := range roles {
		if role, ok := entity.ParseRole(name); ok {
			u.Roles = append(u.Roles, role)
		}
	}
	return &u, nil
}
