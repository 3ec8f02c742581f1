package ports

import (
	"context"

	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

// Repos agrupa los repositorios. Dentro de InTx todos comparten la misma transacción.
type Repos struct {
	Tenants  repository.TenantRepository
	Users    repository.UserRepository
	Requests repository.TenantRequestRepository
	Audit    repository.AuditRepository
	Todos    repository.TodoRepository
}

// Store da acceso a los repositorios fuera y dentro de una transacción.
// Implementaciones: postgres (pgx) y memory (tests y DB_DRIVER=memory).
type Store interface {
	// Repos devuelve repositorios no transaccionales, para lecturas.
	Repos() Repos
	// InTx ejecuta fn en una transacción: Commit si fn devuelve nil, Rollback en otro caso.
	InTx(ctx context.Context, fn func(r Repos) error) error
}
