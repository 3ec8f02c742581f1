package tenancy

import (
	"context"
	"time"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

type tenantOp struct {
	apply    func(*entity.Tenant, time.Time) error
	action   string
	template ports.Template
}

var (
	tenantActivate   = tenantOp{(*entity.Tenant).Activate, entity.AuditTenantActivated, ports.TemplateTenantActivated}
	tenantDeactivate = tenantOp{(*entity.Tenant).Deactivate, entity.AuditTenantDeactivated, ports.TemplateTenantDeactivated}
	tenantDelete     = tenantOp{(*entity.Tenant).SoftDelete, entity.AuditTenantDeleted, ports.TemplateTenantDeleted}
)

type userOp struct {
	apply    func(*entity.User, time.Time) error
	action   string
	template ports.Template
}

var (
	userActivate   = userOp{(*entity.User).Activate, entity.AuditUserActivated, ports.TemplateUserActivated}
	userDeactivate = userOp{(*entity.User).Deactivate, entity.AuditUserDeactivated, ports.TemplateUserDeactivated}
	userDelete     = userOp{(*entity.User).SoftDelete, entity.AuditUserDeleted, ports.TemplateUserDeleted}
)

// ActivateTenant reactiva un tenant; si estaba eliminado lo restaura.
func (uc *UseCase) ActivateTenant(ctx context.Context, p entity.Principal, tenantID string) (*entity.Tenant, error) {
	return uc.transitionTenant(ctx, p, tenantID, tenantActivate)
}

// DeactivateTenant desactiva un tenant activo.
func (uc *UseCase) DeactivateTenant(ctx context.Context, p entity.Principal, tenantID string) (*entity.Tenant, error) {
	return uc.transitionTenant(ctx, p, tenantID, tenantDeactivate)
}

// SoftDeleteTenant elimina lógicamente un tenant.
func (uc *UseCase) SoftDeleteTenant(ctx context.Context, p entity.Principal, tenantID string) (*entity.Tenant, error) {
	return uc.transitionTenant(ctx, p, tenantID, tenantDelete)
}

func (uc *UseCase) transitionTenant(ctx context.Context, p entity.Principal, tenantID string, op tenantOp) (*entity.Tenant, error) {
	if err := requireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, err
	}
	var (
		tenant *entity.Tenant
		out    outbox
	)
	err := uc.store.InTx(ctx, func(r ports.Repos) error {
		var err error
		tenant, err = r.Tenants.GetByIDForUpdate(ctx, tenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return domain.ErrTenantNotFound
		}
		from := tenant.State
		if err := op.apply(tenant, uc.now()); err != nil {
			return err
		}
		if err := r.Tenants.Update(ctx, tenant); err != nil {
			return err
		}
		if err := uc.audit(ctx, r, &p.UserID, op.action, entity.EntityTenant, tenant.ID, map[string]any{
			"tenant_name": tenant.Name,
			"from":        string(from),
			"to":          string(tenant.State),
		}); err != nil {
			return err
		}
		// Se avisa al email de la solicitud que originó el tenant, si existe.
		req, err := r.Requests.LatestByTenantName(ctx, tenant.Name)
		if err != nil {
			return err
		}
		if req != nil {
			out.add(ports.Notification{To: req.Email, Template: op.template, TenantName: tenant.Name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.TenantTransition(op.action)
	uc.dispatch(ctx, out)
	return tenant, nil
}

// ActivateUser reactiva un usuario del tenant del llamador.
func (uc *UseCase) ActivateUser(ctx context.Context, p entity.Principal, userID string) (*entity.User, error) {
	return uc.transitionUser(ctx, p, userID, userActivate)
}

// DeactivateUser desactiva un usuario del tenant del llamador.
func (uc *UseCase) DeactivateUser(ctx context.Context, p entity.Principal, userID string) (*entity.User, error) {
	return uc.transitionUser(ctx, p, userID, userDeactivate)
}

// SoftDeleteUser elimina lógicamente un usuario del tenant del llamador.
func (uc *UseCase) SoftDeleteUser(ctx context.Context, p entity.Principal, userID string) (*entity.User, error) {
	return uc.transitionUser(ctx, p, userID, userDelete)
}

// transitionUser sólo alcanza usuarios con tenant_id == tenant del llamador; fuera de ese
// alcance el usuario "no existe".
func (uc *UseCase) transitionUser(ctx context.Context, p entity.Principal, userID string, op userOp) (*entity.User, error) {
	if err := requireRole(p, entity.RoleTenantAdmin); err != nil {
		return nil, err
	}
	if p.TenantID == "" {
		return nil, domain.ErrForbidden
	}
	var (
		user *entity.User
		out  outbox
	)
	err := uc.store.InTx(ctx, func(r ports.Repos) error {
		var err error
		user, err = r.Users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil || !user.BelongsTo(p.TenantID) {
			return domain.ErrUserNotFound
		}
		from := user.State
		if err := op.apply(user, uc.now()); err != nil {
			return err
		}
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		if err := uc.audit(ctx, r, &p.UserID, op.action, entity.EntityUser, user.ID, map[string]any{
			"tenant_id": p.TenantID,
			"email":     user.Email,
			"from":      string(from),
			"to":        string(user.State),
		}); err != nil {
			return err
		}
		tenantName := ""
		if t, err := r.Tenants.GetByID(ctx, p.TenantID); err != nil {
			return err
		} else if t != nil {
			tenantName = t.Name
		}
		out.add(ports.Notification{To: user.Email, Template: op.template, Name: user.DisplayName(), TenantName: tenantName})
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.UserTransition(op.action)
	uc.dispatch(ctx, out)
	return user, nil
}

// ListTenants listado de tenants con el email/estado de su solicitud y el número de usuarios.
func (uc *UseCase) ListTenants(ctx context.Context, p entity.Principal, page dto.PageRequest) ([]*entity.TenantSummary, error) {
	if err := requireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, err
	}
	page.DefaultPage()
	return uc.store.Repos().Tenants.ListSummaries(ctx, page.Limit, page.Offset)
}

// TenantReport genera el PDF con todos los tenants.
func (uc *UseCase) TenantReport(ctx context.Context, p entity.Principal) ([]byte, error) {
	if err := requireRole(p, entity.RoleSuperAdmin); err != nil {
		return nil, err
	}
	rows, err := uc.store.Repos().Tenants.ListSummaries(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	return uc.reports.RenderTenantReport(rows, uc.now())
}
