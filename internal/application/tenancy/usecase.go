// Package tenancy contiene el flujo de solicitudes de tenant, el ciclo de vida de
// tenants y usuarios y el aprovisionamiento de usuarios dentro de un tenant.
package tenancy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Tenancy-api/internal/application/ports"
	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/pkg/password"
)

// Deps dependencias de los casos de uso. Metrics, Now y NewID son opcionales.
type Deps struct {
	Store     ports.Store
	Notifier  ports.Notifier
	Hasher    ports.PasswordHasher
	Generator ports.PasswordGenerator
	Reports   ports.TenantReportRenderer
	Metrics   ports.WorkflowMetrics
	Logger    zerolog.Logger
	Now       func() time.Time
	NewID     func() string
}

// UseCase casos de uso de tenancy.
type UseCase struct {
	store     ports.Store
	notifier  ports.Notifier
	hasher    ports.PasswordHasher
	generator ports.PasswordGenerator
	reports   ports.TenantReportRenderer
	metrics   ports.WorkflowMetrics
	log       zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	uc := &UseCase{
		store:     d.Store,
		notifier:  d.Notifier,
		hasher:    d.Hasher,
		generator: d.Generator,
		reports:   d.Reports,
		metrics:   d.Metrics,
		log:       d.Logger.With().Str("component", "tenancy").Logger(),
		now:       d.Now,
		newID:     d.NewID,
	}
	if uc.metrics == nil {
		uc.metrics = ports.NopMetrics{}
	}
	if uc.now == nil {
		uc.now = func() time.Time { return time.Now().UTC() }
	}
	if uc.newID == nil {
		uc.newID = func() string { return uuid.New().String() }
	}
	return uc
}

// outbox acumula las notificaciones de una operación; se envían tras el commit.
type outbox []ports.Notification

func (o *outbox) add(n ports.Notification) { *o = append(*o, n) }

// dispatch envía las notificaciones. Los fallos se registran y nunca se propagan:
// la transición de estado ya está confirmada.
func (uc *UseCase) dispatch(ctx context.Context, out outbox) {
	ctx = context.WithoutCancel(ctx)
	for _, n := range out {
		if err := uc.notifier.Notify(ctx, n); err != nil {
			uc.log.Error().Err(err).
				Str("to", n.To).
				Str("template", string(n.Template)).
				Msg("no se pudo enviar la notificación")
		}
	}
}

func (uc *UseCase) audit(ctx context.Context, r ports.Repos, actor *string, action, entityType, entityID string, details map[string]any) error {
	return r.Audit.Append(ctx, &entity.AuditLog{
		ID:          uc.newID(),
		ActorUserID: actor,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Details:     details,
		CreatedAt:   uc.now(),
	})
}

// newCredentials genera una contraseña temporal y su hash.
func (uc *UseCase) newCredentials() (plain, hash string, err error) {
	plain, err = uc.generator.Generate(password.DefaultLength)
	if err != nil {
		return "", "", err
	}
	hash, err = uc.hasher.Hash(plain)
	if err != nil {
		return "", "", err
	}
	return plain, hash, nil
}

func requireRole(p entity.Principal, role entity.Role) error {
	if !p.Is(role) {
		return domain.ErrForbidden
	}
	return nil
}

// requireTenantManager: super admin, o tenantAdmin del propio tenant.
func requireTenantManager(p entity.Principal, tenantID string) error {
	if p.Is(entity.RoleSuperAdmin) {
		return nil
	}
	if p.Is(entity.RoleTenantAdmin) && p.InTenant(tenantID) {
		return nil
	}
	return domain.ErrForbidden
}

func strPtr(s string) *string { return &s }
