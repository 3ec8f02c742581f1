package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
)

var _ ports.Store = (*Store)(nil)

// Store implementa ports.Store sobre un pool pgx.
type Store struct {
	pool  *pgxpool.Pool
	roles *RoleCache
}

// NewStore construye el Store. El caché de roles se comparte entre transacciones.
func NewStore(pool *pgxpool.Pool) (*Store, error) {
	roles, err := NewRoleCache(64)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, roles: roles}, nil
}

func (s *Store) reposFor(q Querier) ports.Repos {
	return ports.Repos{
		Tenants:  NewTenantRepository(q),
		Users:    NewUserRepository(q, s.roles),
		Requests: NewTenantRequestRepository(q),
		Audit:    NewAuditRepository(q),
		Todos:    NewTodoRepository(q),
	}
}

// Repos devuelve repositorios atados al pool.
func (s *Store) Repos() ports.Repos {
	return s.reposFor(s.pool)
}

// InTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (s *Store) InTx(ctx context.Context, fn func(r ports.Repos) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(s.reposFor(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
