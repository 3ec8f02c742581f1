package tenancy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/application/tenancy"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/memory"
	"github.com/jhoicas/Tenancy-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba
// ──────────────────────────────────────────────────────────────────────────────

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, n ports.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// sent devuelve las notificaciones enviadas con la plantilla dada.
func (m *mockNotifier) sent(tpl ports.Template) []ports.Notification {
	var out []ports.Notification
	for _, c := range m.Calls {
		n := c.Arguments.Get(1).(ports.Notification)
		if n.Template == tpl {
			out = append(out, n)
		}
	}
	return out
}

var errBoom = errors.New("fallo forzado")

type failingUsers struct{ repository.UserRepository }

func (failingUsers) ReplaceRoles(context.Context, string, entity.RoleSet) error { return errBoom }

// failingStore hace fallar ReplaceRoles dentro de la transacción, después de crear el tenant.
type failingStore struct{ *memory.Store }

func (s failingStore) InTx(ctx context.Context, fn func(r ports.Repos) error) error {
	return s.Store.InTx(ctx, func(r ports.Repos) error {
		r.Users = failingUsers{r.Users}
		return fn(r)
	})
}

type fakeRenderer struct {
	rows []*entity.TenantSummary
}

func (f *fakeRenderer) RenderTenantReport(rows []*entity.TenantSummary, _ time.Time) ([]byte, error) {
	f.rows = rows
	return []byte("%PDF-fake"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var testNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	notifier *mockNotifier
	reports  *fakeRenderer
	uc       *tenancy.UseCase
	super    entity.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, memory.New(), nil)
}

// newFixtureWithStore permite sustituir el Store usado por el caso de uso (p.ej. failingStore).
func newFixtureWithStore(t *testing.T, base *memory.Store, override ports.Store) *fixture {
	t.Helper()
	n := &mockNotifier{}
	n.On("Notify", mock.Anything, mock.Anything).Return(nil).Maybe()

	var store ports.Store = base
	if override != nil {
		store = override
	}
	f := &fixture{
		ctx:      context.Background(),
		store:    base,
		notifier: n,
		reports:  &fakeRenderer{},
	}
	f.uc = tenancy.NewUseCase(tenancy.Deps{
		Store:     store,
		Notifier:  n,
		Hasher:    &password.BcryptHasher{Cost: bcrypt.MinCost},
		Generator: password.NewGenerator(),
		Reports:   f.reports,
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return testNow },
	})

	superAdmin := &entity.User{
		ID:        "00000000-0000-0000-0000-0000000000aa",
		Email:     "root@platform.com",
		State:     entity.LifecycleActive,
		Roles:     entity.RoleSet{entity.RoleSuperAdmin},
		CreatedAt: testNow,
		UpdatedAt: testNow,
	}
	require.NoError(t, base.Repos().Users.Create(f.ctx, superAdmin))
	f.super = entity.Principal{UserID: superAdmin.ID, Email: superAdmin.Email, Role: entity.RoleSuperAdmin}
	return f
}

func (f *fixture) submit(t *testing.T, tenantName, email string) *entity.TenantRequest {
	t.Helper()
	req, err := f.uc.SubmitRequest(f.ctx, dto.SubmitTenantRequest{TenantName: tenantName, Email: email, Password: "secret123"})
	require.NoError(t, err)
	return req
}

// approvedTenant crea y aprueba una solicitud; devuelve el tenant y el principal de su admin.
func (f *fixture) approvedTenant(t *testing.T, tenantName, email string) (*entity.Tenant, entity.Principal) {
	t.Helper()
	req := f.submit(t, tenantName, email)
	_, err := f.uc.ReviewRequest(f.ctx, f.super, dto.ReviewRequest{RequestID: req.ID, Action: "approved"})
	require.NoError(t, err)

	tenant, err := f.store.Repos().Tenants.GetByName(f.ctx, tenantName)
	require.NoError(t, err)
	require.NotNil(t, tenant)
	admin, err := f.store.Repos().Users.GetByEmail(f.ctx, email)
	require.NoError(t, err)
	require.NotNil(t, admin)
	return tenant, entity.Principal{UserID: admin.ID, Email: admin.Email, TenantID: tenant.ID, Role: entity.RoleTenantAdmin}
}

func (f *fixture) user(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := f.store.Repos().Users.GetByEmail(f.ctx, email)
	require.NoError(t, err)
	return u
}

func (f *fixture) tenantCount(t *testing.T) int {
	t.Helper()
	rows, err := f.store.Repos().Tenants.ListSummaries(f.ctx, 0, 0)
	require.NoError(t, err)
	return len(rows)
}

func repositoryFilterAll() repository.TenantRequestFilter {
	return repository.TenantRequestFilter{}
}
