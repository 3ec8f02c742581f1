package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Tenancy-api/internal/application/auth"
	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/application/tenancy"
	"github.com/jhoicas/Tenancy-api/internal/application/usecase"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Tenancy-api/internal/interfaces/http"
	"github.com/jhoicas/Tenancy-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	rootEmail    = "root@platform.com"
	rootPassword = "rootpass123"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) last(tpl ports.Template) ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i := len(n.sent) - 1; i >= 0; i-- {
		if n.sent[i].Template == tpl {
			return n.sent[i]
		}
	}
	return ports.Notification{}
}

type api struct {
	t        *testing.T
	app      *fiber.App
	notifier *recordingNotifier
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.New()
	hasher := &password.BcryptHasher{Cost: bcrypt.MinCost}
	notifier := &recordingNotifier{}

	hash, err := hasher.Hash(rootPassword)
	require.NoError(t, err)
	require.NoError(t, store.Repos().Users.Create(context.Background(), &entity.User{
		ID: "00000000-0000-0000-0000-0000000000aa", Email: rootEmail, PasswordHash: hash,
		State: entity.LifecycleActive, Roles: entity.RoleSet{entity.RoleSuperAdmin},
	}))

	authUC := auth.NewAuthUseCase(store, hasher, notifier, nil, auth.JWTConfig{
		Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
	}, zerolog.Nop())
	tenancyUC := tenancy.NewUseCase(tenancy.Deps{
		Store:     store,
		Notifier:  notifier,
		Hasher:    hasher,
		Generator: password.NewGenerator(),
		Logger:    zerolog.Nop(),
	})

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(true, zerolog.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:    authUC,
		TenancyUC: tenancyUC,
		TodoUC:    usecase.NewTodoUseCase(store.Repos().Todos),
		JWTSecret: testJWTSecret,
	})
	return &api{t: t, app: app, notifier: notifier}
}

// do lanza la petición y decodifica el cuerpo JSON en out (si no es nil).
func (a *api) do(method, path, token string, body any, out any) int {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *api) login(email, pass, tenantName string) string {
	a.t.Helper()
	var out dto.LoginResponse
	status := a.do(http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: pass, TenantName: tenantName}, &out)
	require.Equal(a.t, http.StatusOK, status, "login de %s", email)
	return out.Token
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestFlujo_SolicitudAprobacionInvitacionYTodos(t *testing.T) {
	a := newAPI(t)

	var req dto.TenantRequestResponse
	status := a.do(http.MethodPost, "/tenant-requests", "", dto.SubmitTenantRequest{
		TenantName: "Acme", Email: "owner@acme.com", Password: "ownerpass1",
	}, &req)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", req.Status)

	root := a.login(rootEmail, rootPassword, "")

	var list dto.TenantRequestListResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/tenant-requests?status=pending", root, nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Page.Total)

	var reviewed dto.TenantRequestResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/tenant-requests/review-request", root,
		dto.ReviewRequest{RequestID: req.ID, Action: "approved"}, &reviewed))
	assert.Equal(t, "approved", reviewed.Status)

	var again dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPut, "/tenant-requests/review-request", root,
		dto.ReviewRequest{RequestID: req.ID, Action: "rejected"}, &again))
	assert.Equal(t, "ALREADY_REVIEWED", again.Code)

	var tenants dto.TenantListResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/tenant-requests/all-tenant", root, nil, &tenants))
	require.Len(t, tenants.Items, 1)
	tenantID := tenants.Items[0].ID

	owner := a.login("owner@acme.com", "ownerpass1", "Acme")

	var added dto.AddTenantUserResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/tenant-requests/add-tenant-user", owner,
		dto.AddTenantUserRequest{TenantID: tenantID, Email: "ana@acme.com"}, &added))
	assert.True(t, added.Created)
	assert.Equal(t, "user", added.User.Role)

	var dup dto.AddTenantUserResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/tenant-requests/add-tenant-user", owner,
		dto.AddTenantUserRequest{TenantID: tenantID, Email: "ana@acme.com"}, &dup))
	assert.False(t, dup.Created)
	assert.Equal(t, added.User.ID, dup.User.ID)

	var users []dto.UserResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/tenant-requests/users/"+tenantID, owner, nil, &users))
	require.Len(t, users, 1, "los tenantAdmin no aparecen en el listado")

	welcome := a.notifier.last(ports.TemplateUserWelcome)
	require.NotEmpty(t, welcome.Password)
	ana := a.login("ana@acme.com", welcome.Password, "Acme")

	var todo dto.TodoResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/api/todos", ana, dto.CreateTodoRequest{Title: "Primera"}, &todo))
	var todos []dto.TodoResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/api/todos", ana, nil, &todos))
	require.Len(t, todos, 1)
	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/api/todos/"+todo.ID, ana, nil, nil))

	// el tenantAdmin no tiene tareas y el user no revisa solicitudes
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/api/todos", owner, nil, nil))
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/tenant-requests", ana, nil, nil))

	// desactivar el tenant bloquea el login de sus usuarios
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/tenant-requests/"+tenantID+"/deactivate", root, nil, nil))
	var blocked dto.ErrorResponse
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: "ana@acme.com", Password: welcome.Password, TenantName: "Acme"}, &blocked))
	assert.Equal(t, "TENANT_UNAVAILABLE", blocked.Code)
}

func TestTenantUsers_DesactivarYEliminar(t *testing.T) {
	a := newAPI(t)
	root := a.login(rootEmail, rootPassword, "")

	var created dto.DirectCreateResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/tenant-requests/create-tenant", root,
		dto.DirectCreateRequest{TenantName: "Globex", Email: "boss@globex.com"}, &created))
	assert.Equal(t, "approved", created.Request.Status)

	pass := a.notifier.last(ports.TemplateTenantProvisioned).Password
	require.NotEmpty(t, pass)
	boss := a.login("boss@globex.com", pass, "Globex")

	var added dto.AddTenantUserResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/tenant-requests/add-tenant-user", boss,
		dto.AddTenantUserRequest{TenantID: created.Tenant.ID, Email: "emp@globex.com"}, &added))

	var u dto.UserResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPut, "/tenant-requests/tenant-users/"+added.User.ID+"/deactivate", boss, nil, &u))
	assert.False(t, u.IsActive)
	require.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/tenant-requests/tenant-users/"+added.User.ID, boss, nil, &u))
	assert.True(t, u.IsDeleted)

	// superAdmin no gestiona usuarios individuales
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPut, "/tenant-requests/tenant-users/"+added.User.ID+"/activate", root, nil, nil))
}

// ──────────────────────────────────────────────────────────────────────────────
// Mapeo de errores
// ──────────────────────────────────────────────────────────────────────────────

func TestErrores_Codigos(t *testing.T) {
	a := newAPI(t)
	root := a.login(rootEmail, rootPassword, "")

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: rootEmail, Password: "mala"}, &e))
	assert.Equal(t, "INVALID_CREDENTIALS", e.Code)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: rootEmail, Password: rootPassword, TenantName: "Acme"}, &e))
	assert.Equal(t, "UNEXPECTED_TENANT", e.Code)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/tenant-requests/no-existe", root, nil, &e))

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/tenant-requests", "",
		dto.SubmitTenantRequest{TenantName: "sinmayusculas", Email: "x@y.com", Password: "password1"}, &e))
	assert.Equal(t, "INVALID_TENANT_NAME", e.Code)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/tenant-requests", "", nil, nil))
}

// Un id que no es UUID se trata como recurso inexistente, nunca como error interno.
func TestIDsMalFormados_Responden404(t *testing.T) {
	a := newAPI(t)
	root := a.login(rootEmail, rootPassword, "")

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/tenant-requests/abc", root, nil, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPut, "/tenant-requests/review-request", root,
		dto.ReviewRequest{RequestID: "abc", Action: "approved"}, &e))
	assert.Equal(t, "NOT_FOUND", e.Code)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPut, "/tenant-requests/abc/deactivate", root, nil, &e))
	assert.Equal(t, "TENANT_NOT_FOUND", e.Code)

	var created dto.DirectCreateResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/tenant-requests/create-tenant", root,
		dto.DirectCreateRequest{TenantName: "Initech", Email: "boss@initech.com"}, &created))
	boss := a.login("boss@initech.com", a.notifier.last(ports.TemplateTenantProvisioned).Password, "Initech")

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPut, "/tenant-requests/tenant-users/xyz/deactivate", boss, nil, &e))
	assert.Equal(t, "USER_NOT_FOUND", e.Code)
}

// Escenario: submit("MyCo1", "a@x.com", "secret1") con contraseña de 7 caracteres.
func TestSolicitud_ContraseñaCortaAceptada(t *testing.T) {
	a := newAPI(t)

	var req dto.TenantRequestResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/tenant-requests", "",
		dto.SubmitTenantRequest{TenantName: "MyCo1", Email: "a@x.com", Password: "secret1"}, &req))
	assert.Equal(t, "pending", req.Status)

	var e dto.ErrorResponse
	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/tenant-requests", "",
		dto.SubmitTenantRequest{TenantName: "MyCo1", Email: "b@x.com", Password: "secret1"}, &e))
	assert.Equal(t, "TENANT_NAME_TAKEN", e.Code)
}

func TestErrorHandler_Internos(t *testing.T) {
	for _, expose := range []bool{true, false} {
		app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(expose, zerolog.Nop())})
		app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db caída") })

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
		require.NoError(t, err)
		var body dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL", body.Code)
		if expose {
			assert.Equal(t, "db caída", body.Error)
		} else {
			assert.Empty(t, body.Error)
		}
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, apphttp.StatusFor(errors.New("x")))
}
