package entity

import "time"

// Acciones registradas en audit_logs.
const (
	AuditTenantRequestCreated  = "tenant_request_created"
	AuditTenantRequestApproved = "tenant_request_approved"
	AuditTenantRequestRejected = "tenant_request_rejected"
	AuditTenantCreatedDirectly = "tenant_created_directly"
	AuditTenantActivated       = "tenant_activated"
	AuditTenantDeactivated     = "tenant_deactivated"
	AuditTenantDeleted         = "tenant_deleted"
	AuditTenantUserAdded       = "tenant_user_added"
	AuditTenantUserRegistered  = "tenant_user_registered"
	AuditUserActivated         = "user_activated"
	AuditUserDeactivated       = "user_deactivated"
	AuditUserDeleted           = "user_deleted"
	AuditPasswordChanged       = "password_changed"
)

// Tipos de entidad auditada.
const (
	EntityTenantRequest = "TenantRequest"
	EntityTenant        = "Tenant"
	EntityUser          = "User"
)

// AuditLog registro de sólo-escritura de un cambio de estado.
type AuditLog struct {
	ID          string
	ActorUserID *string
	Action      string
	EntityType  string
	EntityID    string
	Details     map[string]any
	CreatedAt   time.Time
}
