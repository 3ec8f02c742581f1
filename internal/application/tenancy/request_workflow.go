package tenancy

import (
	"context"
	"strings"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
	"github.com/jhoicas/Tenancy-api/internal/domain/validation"
)

// SubmitRequest registra una solicitud pendiente junto con el usuario solicitante (sin tenant).
// No envía correo: la notificación llega con la revisión.
func (uc *UseCase) SubmitRequest(ctx context.Context, in dto.SubmitTenantRequest) (*entity.TenantRequest, error) {
	name := strings.TrimSpace(in.TenantName)
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateTenantName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	// La contraseña del solicitante no tiene longitud mínima en el alta.
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var req *entity.TenantRequest
	err = uc.store.InTx(ctx, func(r ports.Repos) error {
		if err := checkSubmitName(ctx, r, name); err != nil {
			return err
		}
		if err := checkEmailFree(ctx, r, email); err != nil {
			return err
		}

		user := &entity.User{
			ID:           uc.newID(),
			Email:        email,
			PasswordHash: hash,
			State:        entity.LifecycleActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		req = &entity.TenantRequest{
			ID:          uc.newID(),
			TenantName:  name,
			UserID:      user.ID,
			Email:       email,
			Status:      entity.RequestPending,
			RequestedAt: now,
		}
		if err := r.Requests.Create(ctx, req); err != nil {
			return err
		}
		return uc.audit(ctx, r, &user.ID, entity.AuditTenantRequestCreated, entity.EntityTenantRequest, req.ID, map[string]any{
			"tenant_name": name,
			"user_id":     user.ID,
			"email":       email,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.RequestSubmitted()
	return req, nil
}

// ReviewRequest aprueba o rechaza una solicitud pendiente. Todo ocurre en una transacción
// con la fila bloqueada; el correo se envía después del commit.
func (uc *UseCase) ReviewRequest(ctx context.Context, p entity.Principal, in dto.ReviewRequest) (*entity.TenantRequest, error) {
	if err := requireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, err
	}
	action, ok := entity.ParseReviewAction(in.Action)
	if !ok {
		return nil, domain.ErrInvalidInput
	}

	now := uc.now()
	var (
		req *entity.TenantRequest
		out outbox
	)
	err := uc.store.InTx(ctx, func(r ports.Repos) error {
		var err error
		req, err = r.Requests.GetByIDForUpdate(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if err := req.Review(action, p.UserID, now); err != nil {
			return err
		}
		if err := r.Requests.Update(ctx, req); err != nil {
			return err
		}
		if action == entity.RequestRejected {
			out.add(ports.Notification{To: req.Email, Template: ports.TemplateTenantRejected, TenantName: req.TenantName})
			return uc.audit(ctx, r, &p.UserID, entity.AuditTenantRequestRejected, entity.EntityTenantRequest, req.ID, map[string]any{
				"user_id": req.UserID,
				"email":   req.Email,
			})
		}
		return uc.approve(ctx, r, p, req, &out)
	})
	if err != nil {
		return nil, err
	}
	req.ReviewerEmail = p.Email
	uc.metrics.RequestReviewed(string(action))
	uc.dispatch(ctx, out)
	return req, nil
}

// approve crea el tenant, liga al solicitante y deja sus roles en exactamente {tenantAdmin}.
func (uc *UseCase) approve(ctx context.Context, r ports.Repos, p entity.Principal, req *entity.TenantRequest, out *outbox) error {
	now := uc.now()
	tenant := entity.NewTenant(uc.newID(), req.TenantName, now)
	if err := r.Tenants.Create(ctx, tenant); err != nil {
		return err
	}

	user, err := r.Users.GetByIDForUpdate(ctx, req.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	// Sólo se genera contraseña si el solicitante no tiene credenciales.
	var plain string
	if user.PasswordHash == "" {
		var hash string
		plain, hash, err = uc.newCredentials()
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	user.TenantID = &tenant.ID
	user.UpdatedAt = now
	if err := r.Users.Update(ctx, user); err != nil {
		return err
	}
	if err := r.Users.ReplaceRoles(ctx, user.ID, entity.RoleSet{entity.RoleTenantAdmin}); err != nil {
		return err
	}

	out.add(ports.Notification{
		To:         req.Email,
		Template:   ports.TemplateTenantApproved,
		Name:       user.DisplayName(),
		TenantName: tenant.Name,
		Password:   plain,
	})
	return uc.audit(ctx, r, &p.UserID, entity.AuditTenantRequestApproved, entity.EntityTenantRequest, req.ID, map[string]any{
		"tenant_id": tenant.ID,
		"user_id":   user.ID,
		"email":     req.Email,
	})
}

// DirectCreateResult resultado del alta directa.
type DirectCreateResult struct {
	Tenant  *entity.Tenant
	User    *entity.User
	Request *entity.TenantRequest
}

// DirectCreate crea tenant, administrador y una solicitud ya aprobada por el super admin,
// todo en una transacción. Siempre genera una contraseña nueva.
func (uc *UseCase) DirectCreate(ctx context.Context, p entity.Principal, in dto.DirectCreateRequest) (*DirectCreateResult, error) {
	if err := requireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.TenantName)
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateTenantName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	plain, hash, err := uc.newCredentials()
	if err != nil {
		return nil, err
	}

	now := uc.now()
	res := &DirectCreateResult{}
	var out outbox
	err = uc.store.InTx(ctx, func(r ports.Repos) error {
		if err := checkDirectCreateName(ctx, r, name); err != nil {
			return err
		}
		if err := checkEmailFree(ctx, r, email); err != nil {
			return err
		}

		res.Tenant = entity.NewTenant(uc.newID(), name, now)
		if err := r.Tenants.Create(ctx, res.Tenant); err != nil {
			return err
		}
		res.User = &entity.User{
			ID:           uc.newID(),
			TenantID:     &res.Tenant.ID,
			Email:        email,
			PasswordHash: hash,
			State:        entity.LifecycleActive,
			Roles:        entity.RoleSet{entity.RoleTenantAdmin},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, res.User); err != nil {
			return err
		}
		res.Request = &entity.TenantRequest{
			ID:          uc.newID(),
			TenantName:  name,
			UserID:      res.User.ID,
			Email:       email,
			Status:      entity.RequestApproved,
			RequestedAt: now,
			ReviewedAt:  &now,
			ReviewedBy:  strPtr(p.UserID),
		}
		if err := r.Requests.Create(ctx, res.Request); err != nil {
			return err
		}
		out.add(ports.Notification{
			To:         email,
			Template:   ports.TemplateTenantProvisioned,
			Name:       res.User.DisplayName(),
			TenantName: name,
			Password:   plain,
		})
		return uc.audit(ctx, r, &p.UserID, entity.AuditTenantCreatedDirectly, entity.EntityTenant, res.Tenant.ID, map[string]any{
			"tenant_id":  res.Tenant.ID,
			"user_id":    res.User.ID,
			"email":      email,
			"request_id": res.Request.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.TenantTransition("created_directly")
	uc.dispatch(ctx, out)
	return res, nil
}

// ListRequests lista solicitudes (sólo super admin), con emails de solicitante y revisor.
func (uc *UseCase) ListRequests(ctx context.Context, p entity.Principal, in dto.TenantRequestFilter) ([]*entity.TenantRequest, int, error) {
	if err := requireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, 0, err
	}
	filter := repository.TenantRequestFilter{Limit: in.Limit, Offset: in.Offset}
	if in.Status != "" {
		switch s := entity.RequestStatus(in.Status); s {
		case entity.RequestPending, entity.RequestApproved, entity.RequestRejected:
			filter.Status = s
		default:
			return nil, 0, domain.ErrInvalidInput
		}
	}
	return uc.store.Repos().Requests.List(ctx, filter)
}

// GetRequest devuelve una solicitud y su historial de auditoría.
func (uc *UseCase) GetRequest(ctx context.Context, p entity.Principal, id string) (*entity.TenantRequest, []*entity.AuditLog, error) {
	if err := requireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, nil, err
	}
	repos := uc.store.Repos()
	req, err := repos.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if req == nil {
		return nil, nil, domain.ErrNotFound
	}
	history, err := repos.Audit.ListByEntity(ctx, entity.EntityTenantRequest, req.ID)
	if err != nil {
		return nil, nil, err
	}
	return req, history, nil
}

// checkSubmitName: un tenant inactivo o eliminado bloquea el nombre; uno activo o una
// solicitud pendiente lo ocupan.
func checkSubmitName(ctx context.Context, r ports.Repos, name string) error {
	t, err := r.Tenants.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if t != nil {
		if !t.State.IsActive() {
			return domain.ErrTenantBlocked
		}
		return domain.ErrTenantNameTaken
	}
	return checkNoPending(ctx, r, name)
}

// checkDirectCreateName: un tenant eliminado nunca puede recrearse.
func checkDirectCreateName(ctx context.Context, r ports.Repos, name string) error {
	t, err := r.Tenants.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if t != nil {
		if t.State.IsDeleted() {
			return domain.ErrTenantPermanentlyBlocked
		}
		return domain.ErrTenantNameTaken
	}
	return checkNoPending(ctx, r, name)
}

func checkNoPending(ctx context.Context, r ports.Repos, name string) error {
	pending, err := r.Requests.ExistsPendingByName(ctx, name)
	if err != nil {
		return err
	}
	if pending {
		return domain.ErrTenantNameTaken
	}
	return nil
}

func checkEmailFree(ctx context.Context, r ports.Repos, email string) error {
	u, err := r.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u != nil {
		return domain.ErrEmailInUse
	}
	return nil
}
