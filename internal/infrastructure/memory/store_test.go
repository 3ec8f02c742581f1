package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/memory"
)

var t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func TestInTx_RollbackDescartaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	boom := errors.New("boom")

	err := s.InTx(ctx, func(r ports.Repos) error {
		require.NoError(t, r.Tenants.Create(ctx, entity.NewTenant("t1", "Acme", t0)))
		got, err := r.Tenants.GetByID(ctx, "t1")
		require.NoError(t, err)
		require.NotNil(t, got, "la tx ve sus propias escrituras")
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repos().Tenants.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got, "el rollback no deja rastro")
}

func TestInTx_CommitPublicaCambios(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.InTx(ctx, func(r ports.Repos) error {
		return r.Tenants.Create(ctx, entity.NewTenant("t1", "Acme", t0))
	}))

	got, err := s.Repos().Tenants.GetByName(ctx, "Acme")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t1", got.ID)
}

func TestInTx_ContextoCanceladoNoConfirma(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := memory.New()

	err := s.InTx(ctx, func(r ports.Repos) error {
		cancel()
		return r.Tenants.Create(ctx, entity.NewTenant("t1", "Acme", t0))
	})
	require.ErrorIs(t, err, context.Canceled)

	got, _ := s.Repos().Tenants.GetByID(context.Background(), "t1")
	assert.Nil(t, got)
}

func TestUsers_EmailUnicoYCopias(t *testing.T) {
	ctx := context.Background()
	users := memory.New().Repos().Users

	u := &entity.User{ID: "u1", Email: "a@x.com", State: entity.LifecycleActive, Roles: entity.RoleSet{entity.RoleUser}}
	require.NoError(t, users.Create(ctx, u))
	assert.ErrorIs(t, users.Create(ctx, &entity.User{ID: "u2", Email: "a@x.com"}), domain.ErrEmailInUse)

	got, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	got.Roles[0] = entity.RoleSuperAdmin

	again, _ := users.GetByID(ctx, "u1")
	assert.Equal(t, entity.RoleSet{entity.RoleUser}, again.Roles, "modificar la copia no altera el almacén")
}

func TestUsers_ReplaceRolesReemplazaCompleto(t *testing.T) {
	ctx := context.Background()
	users := memory.New().Repos().Users
	require.NoError(t, users.Create(ctx, &entity.User{ID: "u1", Email: "a@x.com", Roles: entity.RoleSet{entity.RoleUser, entity.RoleSuperAdmin}}))

	require.NoError(t, users.ReplaceRoles(ctx, "u1", entity.RoleSet{entity.RoleTenantAdmin, entity.RoleTenantAdmin}))

	got, _ := users.GetByID(ctx, "u1")
	assert.Equal(t, entity.RoleSet{entity.RoleTenantAdmin}, got.Roles)
	assert.ErrorIs(t, users.ReplaceRoles(ctx, "nadie", nil), domain.ErrUserNotFound)
}

func TestRequests_PendienteUnicoPorNombre(t *testing.T) {
	ctx := context.Background()
	reqs := memory.New().Repos().Requests

	require.NoError(t, reqs.Create(ctx, &entity.TenantRequest{ID: "r1", TenantName: "Acme", Status: entity.RequestPending, RequestedAt: t0}))
	err := reqs.Create(ctx, &entity.TenantRequest{ID: "r2", TenantName: "Acme", Status: entity.RequestPending, RequestedAt: t0})
	assert.ErrorIs(t, err, domain.ErrTenantNameTaken)

	require.NoError(t, reqs.Create(ctx, &entity.TenantRequest{ID: "r3", TenantName: "Acme", Status: entity.RequestApproved, RequestedAt: t0}))
}

func TestRequests_ListOrdenaRevisadasDespuesDePendientes(t *testing.T) {
	ctx := context.Background()
	reqs := memory.New().Repos().Requests
	reviewed := t0.Add(time.Hour)
	reviewer := "admin"

	require.NoError(t, reqs.Create(ctx, &entity.TenantRequest{ID: "old", TenantName: "A", Status: entity.RequestApproved, RequestedAt: t0, ReviewedAt: &reviewed, ReviewedBy: &reviewer}))
	require.NoError(t, reqs.Create(ctx, &entity.TenantRequest{ID: "p1", TenantName: "B", Status: entity.RequestPending, RequestedAt: t0}))
	require.NoError(t, reqs.Create(ctx, &entity.TenantRequest{ID: "p2", TenantName: "C", Status: entity.RequestPending, RequestedAt: t0.Add(time.Minute)}))

	list, total, err := reqs.List(ctx, repository.TenantRequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"p2", "p1", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})

	pending, total, err := reqs.List(ctx, repository.TenantRequestFilter{Status: entity.RequestPending, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, pending, 1)
}

func TestInTx_SerializaTransaccionesConcurrentes(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Repos().Requests.Create(ctx, &entity.TenantRequest{ID: "r1", TenantName: "Acme", Status: entity.RequestPending, RequestedAt: t0}))

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		errs   []error
		okRuns int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.InTx(ctx, func(r ports.Repos) error {
				req, err := r.Requests.GetByIDForUpdate(ctx, "r1")
				if err != nil {
					return err
				}
				if err := req.Review(entity.RequestApproved, "admin", t0); err != nil {
					return err
				}
				return r.Requests.Update(ctx, req)
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				okRuns++
			} else {
				errs = append(errs, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, okRuns, "sólo una revisión observa el estado pending")
	for _, err := range errs {
		assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
	}
}

func TestTodos_AcotadosPorDueño(t *testing.T) {
	ctx := context.Background()
	todos := memory.New().Repos().Todos
	require.NoError(t, todos.Create(ctx, &entity.Todo{ID: "1", TenantID: "t", UserID: "u", Title: "x", Status: entity.TodoPending}))

	got, err := todos.Get(ctx, "t", "otro", "1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, todos.Update(ctx, &entity.Todo{ID: "1", TenantID: "t", UserID: "otro"}), domain.ErrNotFound)
}
