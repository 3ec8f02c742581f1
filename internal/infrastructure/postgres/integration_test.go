package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Tenancy-api/pkg/config"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test (requieren DATABASE_URL; sin ella los tests se omiten)
// ──────────────────────────────────────────────────────────────────────────────

func newStore(t *testing.T) *postgres.Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL no definido: se omiten los tests contra PostgreSQL")
	}
	_, err := postgres.Migrate(dsn, migrate.Up, 0)
	require.NoError(t, err)

	pool, err := postgres.NewPool(context.Background(), config.DBConfig{DatabaseURL: dsn, ConnectAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store, err := postgres.NewStore(pool)
	require.NoError(t, err)
	return store
}

// uniqueName nombre de tenant válido y distinto en cada ejecución.
func uniqueName() string {
	return "T" + uuid.New().String()[:8]
}

func createUser(t *testing.T, s *postgres.Store, email string, roles ...entity.Role) *entity.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entity.User{
		ID: uuid.New().String(), Email: email, PasswordHash: "hash",
		State: entity.LifecycleActive, Roles: roles, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.Repos().Users.Create(context.Background(), u))
	return u
}

func createPendingRequest(t *testing.T, s *postgres.Store, name string, u *entity.User) *entity.TenantRequest {
	t.Helper()
	req := &entity.TenantRequest{
		ID: uuid.New().String(), TenantName: name, UserID: u.ID, Email: u.Email,
		Status: entity.RequestPending, RequestedAt: time.Now().UTC(),
	}
	require.NoError(t, s.Repos().Requests.Create(context.Background(), req))
	return req
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios
// ──────────────────────────────────────────────────────────────────────────────

func TestPostgres_UsuarioConRolesYEmailUnico(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	email := uuid.New().String()[:8] + "@pg.test"

	u := createUser(t, s, email, entity.RoleTenantAdmin)
	got, err := s.Repos().Users.GetByEmail(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, entity.RoleTenantAdmin, got.Role())

	dup := &entity.User{ID: uuid.New().String(), Email: email, PasswordHash: "x", State: entity.LifecycleActive}
	assert.ErrorIs(t, s.Repos().Users.Create(ctx, dup), domain.ErrEmailInUse)

	missing, err := s.Repos().Users.GetByID(ctx, "no-es-uuid")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostgres_SolicitudPendienteUnicaPorNombre(t *testing.T) {
	s := newStore(t)
	name := uniqueName()
	createPendingRequest(t, s, name, createUser(t, s, uuid.New().String()[:8]+"@pg.test"))

	other := createUser(t, s, uuid.New().String()[:8]+"@pg.test")
	err := s.Repos().Requests.Create(context.Background(), &entity.TenantRequest{
		ID: uuid.New().String(), TenantName: name, UserID: other.ID, Email: other.Email,
		Status: entity.RequestPending, RequestedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, domain.ErrTenantNameTaken)
}

func TestPostgres_InTxRevierteAnteError(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	name := uniqueName()

	err := s.InTx(ctx, func(r ports.Repos) error {
		require.NoError(t, r.Tenants.Create(ctx, entity.NewTenant(uuid.New().String(), name, time.Now().UTC())))
		return domain.ErrConflict
	})
	require.ErrorIs(t, err, domain.ErrConflict)

	tenant, err := s.Repos().Tenants.GetByName(ctx, name)
	require.NoError(t, err)
	assert.Nil(t, tenant, "el tenant no debe persistir tras el rollback")
}

// Dos revisiones concurrentes: FOR UPDATE serializa y sólo una ve la solicitud pendiente.
func TestPostgres_RevisionesConcurrentesSerializadas(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	req := createPendingRequest(t, s, uniqueName(), createUser(t, s, uuid.New().String()[:8]+"@pg.test"))

	review := func() error {
		return s.InTx(ctx, func(r ports.Repos) error {
			cur, err := r.Requests.GetByIDForUpdate(ctx, req.ID)
			if err != nil {
				return err
			}
			if cur.Status != entity.RequestPending {
				return domain.ErrAlreadyReviewed
			}
			time.Sleep(50 * time.Millisecond)
			now := time.Now().UTC()
			cur.Status = entity.RequestApproved
			cur.ReviewedAt = &now
			return r.Requests.Update(ctx, cur)
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = review()
		}(i)
	}
	wg.Wait()

	var ok, already int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, domain.ErrAlreadyReviewed):
			already++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, already)

	final, err := s.Repos().Requests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, final.Status)
}
