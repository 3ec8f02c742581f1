package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/validation"
	"github.com/jhoicas/Tenancy-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de identidad: login, verificación de token, alta y cambio de contraseña.
type AuthUseCase struct {
	store    ports.Store
	hasher   ports.PasswordHasher
	notifier ports.Notifier
	metrics  ports.WorkflowMetrics
	jwtCfg   JWTConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(store ports.Store, hasher ports.PasswordHasher, notifier ports.Notifier, metrics ports.WorkflowMetrics, jwtCfg JWTConfig, log zerolog.Logger) *AuthUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &AuthUseCase{
		store:    store,
		hasher:   hasher,
		notifier: notifier,
		metrics:  metrics,
		jwtCfg:   jwtCfg,
		log:      log.With().Str("component", "auth").Logger(),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Login verifica credenciales, resuelve el rol autoritativo y emite el JWT.
//
// El super admin no debe indicar tenant. tenantAdmin y user deben indicar el nombre del
// tenant al que están ligados y ese tenant debe estar activo.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	resp, err := uc.login(ctx, in)
	outcome := "ok"
	if err != nil {
		outcome = domain.CodeOf(err)
	}
	uc.metrics.LoginAttempt(outcome)
	return resp, err
}

func (uc *AuthUseCase) login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	repos := uc.store.Repos()
	user, err := repos.Users.GetByEmail(ctx, validation.NormalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.State.IsDeleted() {
		return nil, domain.ErrInvalidCredentials
	}
	if !uc.hasher.Compare(user.PasswordHash, in.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	role := user.Role()
	tenantName := strings.TrimSpace(in.TenantName)
	var tenantID string
	if role == entity.RoleSuperAdmin {
		if tenantName != "" {
			return nil, domain.ErrUnexpectedTenant
		}
	} else {
		if tenantName == "" {
			return nil, domain.ErrInvalidCredentials
		}
		tenant, err := repos.Tenants.GetByName(ctx, tenantName)
		if err != nil {
			return nil, err
		}
		if tenant == nil || !user.BelongsTo(tenant.ID) {
			return nil, domain.ErrInvalidCredentials
		}
		if !tenant.State.IsActive() {
			return nil, domain.ErrTenantUnavailable
		}
		tenantID = tenant.ID
	}
	if !user.State.IsActive() {
		return nil, domain.ErrAccountInactive
	}

	roles := []string{string(role)}
	token, err := jwt.Generate(uc.jwtCfg.Secret, jwt.Identity{
		UserID:   user.ID,
		Email:    user.Email,
		TenantID: tenantID,
		Roles:    roles,
	}, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
		Roles: roles,
	}, nil
}

// Verify valida el token y devuelve el Principal. Sin roles reconocidos el principal es "user".
func (uc *AuthUseCase) Verify(token string) (entity.Principal, error) {
	return VerifyToken(uc.jwtCfg.Secret, token)
}

// VerifyToken valida un token con el secreto dado.
func VerifyToken(secret, token string) (entity.Principal, error) {
	id, err := jwt.Parse(secret, token)
	if err != nil {
		return entity.Principal{}, domain.ErrInvalidToken
	}
	var set entity.RoleSet
	for _, name := range id.Roles {
		if r, ok := entity.ParseRole(name); ok {
			set = append(set, r)
		}
	}
	return entity.Principal{
		UserID:   id.UserID,
		Email:    id.Email,
		TenantID: id.TenantID,
		Role:     set.Primary(),
	}, nil
}

// Signup crea una cuenta sin tenant ni rol.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.UserResponse, error) {
	email := validation.NormalizeEmail(in.Email)
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
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		State:        entity.LifecycleActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = &name
	}
	err = uc.store.InTx(ctx, func(r ports.Repos) error {
		existing, err := r.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailInUse
		}
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// ChangePassword cambia la contraseña del usuario autenticado y avisa por correo.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, p entity.Principal, in dto.ChangePasswordRequest) error {
	if err := validation.ValidatePassword(in.NewPassword); err != nil {
		return err
	}
	hash, err := uc.hasher.Hash(in.NewPassword)
	if err != nil {
		return err
	}
	var user *entity.User
	err = uc.store.InTx(ctx, func(r ports.Repos) error {
		var err error
		user, err = r.Users.GetByIDForUpdate(ctx, p.UserID)
		if err != nil {
			return err
		}
		if user == nil || user.State.IsDeleted() {
			return domain.ErrUserNotFound
		}
		user.PasswordHash = hash
		user.UpdatedAt = uc.now()
		if err := r.Users.Update(ctx, user); err != nil {
			return err
		}
		return r.Audit.Append(ctx, &entity.AuditLog{
			ID:          uuid.New().String(),
			ActorUserID: &p.UserID,
			Action:      entity.AuditPasswordChanged,
			EntityType:  entity.EntityUser,
			EntityID:    user.ID,
			Details:     map[string]any{"email": user.Email},
			CreatedAt:   uc.now(),
		})
	})
	if err != nil {
		return err
	}
	n := ports.Notification{To: user.Email, Template: ports.TemplatePasswordChanged, Name: user.DisplayName()}
	if err := uc.notifier.Notify(context.WithoutCancel(ctx), n); err != nil {
		uc.log.Error().Err(err).Str("to", n.To).Str("template", string(n.Template)).Msg("no se pudo enviar la notificación")
	}
	return nil
}

// SeedSuperAdmin crea el super admin inicial. Si el email ya existe le deja el rol superAdmin
// sin tocar la contraseña. created=false en ese caso.
func (uc *AuthUseCase) SeedSuperAdmin(ctx context.Context, email, plain string) (*entity.User, bool, error) {
	email = validation.NormalizeEmail(email)
	if err := validation.ValidateEmail(email); err != nil {
		return nil, false, err
	}
	var (
		user    *entity.User
		created bool
	)
	err := uc.store.InTx(ctx, func(r ports.Repos) error {
		existing, err := r.Users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			user = existing
			if existing.Roles.Has(entity.RoleSuperAdmin) {
				return nil
			}
			existing.Roles = append(existing.Roles, entity.RoleSuperAdmin)
			return r.Users.ReplaceRoles(ctx, existing.ID, existing.Roles)
		}
		if err := validation.ValidatePassword(plain); err != nil {
			return err
		}
		hash, err := uc.hasher.Hash(plain)
		if err != nil {
			return err
		}
		now := uc.now()
		user = &entity.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: hash,
			State:        entity.LifecycleActive,
			Roles:        entity.RoleSet{entity.RoleSuperAdmin},
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		created = true
		return r.Users.Create(ctx, user)
	})
	if err != nil {
		return nil, false, err
	}
	return user, created, nil
}

// ToUserResponse convierte la entidad en DTO (sin password).
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	isActive, isDeleted := u.State.Flags()
	return &dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role()),
		Status:    string(u.State),
		IsActive:  isActive,
		IsDeleted: isDeleted,
		DeletedAt: u.DeletedAt,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
