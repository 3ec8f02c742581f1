package tenancy

import (
	"context"
	"strings"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/validation"
)

// AddUserUnderTenant invita un usuario al tenant. Si ya existe un usuario no eliminado con ese
// email en ese tenant no se crea nada: se le reenvía un aviso y se devuelve created=false.
func (uc *UseCase) AddUserUnderTenant(ctx context.Context, p entity.Principal, in dto.AddTenantUserRequest) (*entity.User, bool, error) {
	if err := requireTenantManager(p, in.TenantID); err != nil {
		return nil, false, err
	}
	role, err := assignableRole(in.Role, in.RoleID)
	if err != nil {
		return nil, false, err
	}
	email := validation.NormalizeEmail(in.Email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, false, err
	}

	now := uc.now()
	var (
		user    *entity.User
		created bool
		out     outbox
	)
	err = uc.store.InTx(ctx, func(r ports.Repos) error {
		tenant, err := r.Tenants.GetByID(ctx, in.TenantID)
		if err != nil {
			return err
		}
		if tenant == nil || tenant.State.IsDeleted() {
			return domain.ErrTenantNotFound
		}

		existing, err := r.Users.GetActiveByEmailAndTenant(ctx, email, tenant.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			user = existing
			out.add(ports.Notification{
				To:         email,
				Template:   ports.TemplateUserAlreadyRegistered,
				Name:       existing.DisplayName(),
				TenantName: tenant.Name,
			})
			return nil
		}
		if err := checkEmailFree(ctx, r, email); err != nil {
			return err
		}

		plain, hash, err := uc.newCredentials()
		if err != nil {
			return err
		}
		user = &entity.User{
			ID:           uc.newID(),
			TenantID:     &tenant.ID,
			Email:        email,
			PasswordHash: hash,
			State:        entity.LifecycleActive,
			Roles:        entity.RoleSet{role},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		created = true
		out.add(ports.Notification{
			To:         email,
			Template:   ports.TemplateUserWelcome,
			Name:       user.DisplayName(),
			TenantName: tenant.Name,
			Password:   plain,
		})
		return uc.audit(ctx, r, &p.UserID, entity.AuditTenantUserAdded, entity.EntityUser, user.ID, map[string]any{
			"tenant_id": tenant.ID,
			"email":     email,
			"role":      string(role),
		})
	})
	if err != nil {
		return nil, false, err
	}
	uc.metrics.UserProvisioned(created)
	uc.dispatch(ctx, out)
	return user, created, nil
}

// RegisterUserUnderTenant auto-registro público de un usuario con rol "user" en un tenant existente.
func (uc *UseCase) RegisterUserUnderTenant(ctx context.Context, in dto.RegisterTenantUserRequest) (*entity.User, error) {
	tenantName := strings.TrimSpace(in.TenantName)
	email := validation.NormalizeEmail(in.Email)
	if tenantName == "" {
		return nil, domain.ErrTenantNotFound
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	var (
		user *entity.User
		out  outbox
	)
	err = uc.store.InTx(ctx, func(r ports.Repos) error {
		tenant, err := r.Tenants.GetByName(ctx, tenantName)
		if err != nil {
			return err
		}
		if tenant == nil || tenant.State.IsDeleted() {
			return domain.ErrTenantNotFound
		}
		if err := checkEmailFree(ctx, r, email); err != nil {
			return err
		}
		user = &entity.User{
			ID:           uc.newID(),
			TenantID:     &tenant.ID,
			Email:        email,
			PasswordHash: hash,
			State:        entity.LifecycleActive,
			Roles:        entity.RoleSet{entity.RoleUser},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if name := strings.TrimSpace(in.Name); name != "" {
			user.Name = &name
		}
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		out.add(ports.Notification{To: email, Template: ports.TemplateUserWelcome, Name: user.DisplayName(), TenantName: tenant.Name})
		return uc.audit(ctx, r, &user.ID, entity.AuditTenantUserRegistered, entity.EntityUser, user.ID, map[string]any{
			"tenant_id": tenant.ID,
			"email":     email,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.UserProvisioned(true)
	uc.dispatch(ctx, out)
	return user, nil
}

// ListTenantUsers lista los usuarios del tenant sin incluir a los tenantAdmin.
func (uc *UseCase) ListTenantUsers(ctx context.Context, p entity.Principal, tenantID string) ([]*entity.User, error) {
	if err := requireTenantManager(p, tenantID); err != nil {
		return nil, err
	}
	repos := uc.store.Repos()
	tenant, err := repos.Tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, domain.ErrTenantNotFound
	}
	return repos.Users.ListByTenant(ctx, tenantID, entity.RoleTenantAdmin)
}

// assignableRole resuelve el rol pedido; sólo user y tenantAdmin se pueden asignar.
func assignableRole(name string, id int) (entity.Role, error) {
	role := entity.RoleUser
	switch {
	case name != "":
		r, ok := entity.ParseRole(name)
		if !ok {
			return "", domain.ErrInvalidInput
		}
		role = r
	case id != 0:
		r, ok := entity.RoleByID(id)
		if !ok {
			return "", domain.ErrInvalidInput
		}
		role = r
	}
	if role == entity.RoleSuperAdmin {
		return "", domain.ErrInvalidInput
	}
	return role, nil
}
