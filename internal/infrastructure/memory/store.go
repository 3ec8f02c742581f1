// Package memory implementa el Store en memoria. Las transacciones se serializan y
// trabajan sobre una copia del estado que sólo se publica en el commit.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

var _ ports.Store = (*Store)(nil)

type row[T any] struct {
	v   T
	seq int64
}

type state struct {
	seq      int64
	tenants  map[string]row[entity.Tenant]
	users    map[string]row[entity.User]
	requests map[string]row[entity.TenantRequest]
	audit    []entity.AuditLog
	todos    map[string]row[entity.Todo]
}

func newState() *state {
	return &state{
		tenants:  map[string]row[entity.Tenant]{},
		users:    map[string]row[entity.User]{},
		requests: map[string]row[entity.TenantRequest]{},
		todos:    map[string]row[entity.Todo]{},
	}
}

// clone copia los mapas; las entidades se guardan por valor y los slices se copian al escribir.
func (s *state) clone() *state {
	return &state{
		seq:      s.seq,
		tenants:  maps.Clone(s.tenants),
		users:    maps.Clone(s.users),
		requests: maps.Clone(s.requests),
		audit:    append([]entity.AuditLog(nil), s.audit...),
		todos:    maps.Clone(s.todos),
	}
}

func (s *state) next() int64 {
	s.seq++
	return s.seq
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	txMu      sync.Mutex   // serializa escritores
	mu        sync.RWMutex // protege committed
	committed *state
}

// New crea un Store vacío.
func New() *Store {
	return &Store{committed: newState()}
}

type view interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

type committedView struct{ s *Store }

func (v committedView) read(fn func(st *state) error) error {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()
	return fn(v.s.committed)
}

func (v committedView) write(fn func(st *state) error) error {
	v.s.txMu.Lock()
	defer v.s.txMu.Unlock()
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.committed)
}

type txView struct{ st *state }

func (v txView) read(fn func(st *state) error) error  { return fn(v.st) }
func (v txView) write(fn func(st *state) error) error { return fn(v.st) }

func reposFor(v view) ports.Repos {
	return ports.Repos{
		Tenants:  &tenantRepo{v: v},
		Users:    &userRepo{v: v},
		Requests: &requestRepo{v: v},
		Audit:    &auditRepo{v: v},
		Todos:    &todoRepo{v: v},
	}
}

// Repos devuelve repositorios sobre el estado confirmado.
func (s *Store) Repos() ports.Repos {
	return reposFor(committedView{s: s})
}

// InTx ejecuta fn sobre una copia del estado y la publica sólo si fn no falla.
func (s *Store) InTx(ctx context.Context, fn func(r ports.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(reposFor(txView{st: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}
