package dto

import "time"

// SubmitTenantRequest solicitud pública de alta de tenant.
type SubmitTenantRequest struct {
	TenantName string `json:"tenantName" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required"`
}

// ReviewRequest revisión de una solicitud pendiente. El revisor sale del token.
type ReviewRequest struct {
	RequestID string `json:"requestId" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=approved rejected"`
}

// DirectCreateRequest alta directa de tenant por el super admin.
type DirectCreateRequest struct {
	TenantName string `json:"tenantName" validate:"required,max=50"`
	Email      string `json:"email" validate:"required,email"`
}

// AddTenantUserRequest invitación de un usuario a un tenant.
// Role tiene prioridad sobre RoleID; sin ninguno se asigna "user".
type AddTenantUserRequest struct {
	TenantID string `json:"tenantId" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=user tenantAdmin"`
	RoleID   int    `json:"roleId"`
}

// RegisterTenantUserRequest auto-registro público bajo un tenant existente.
type RegisterTenantUserRequest struct {
	TenantName string `json:"tenantName" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Name       string `json:"name"`
}

// TenantRequestFilter filtros del listado de solicitudes.
type TenantRequestFilter struct {
	PageRequest
	Status string `query:"status" validate:"omitempty,oneof=pending approved rejected"`
}

// TenantRequestResponse salida de una solicitud.
type TenantRequestResponse struct {
	ID             string     `json:"id"`
	TenantName     string     `json:"tenant_name"`
	UserID         string     `json:"user_id"`
	Email          string     `json:"email"`
	Status         string     `json:"status"`
	RequestedAt    time.Time  `json:"requested_at"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	ReviewedBy     *string    `json:"reviewed_by"`
	RequesterEmail string     `json:"requester_email,omitempty"`
	ReviewerEmail  string     `json:"reviewer_email,omitempty"`
}

// TenantRequestListResponse lista paginada de solicitudes.
type TenantRequestListResponse struct {
	Items []TenantRequestResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// AuditLogResponse entrada del historial de auditoría.
type AuditLogResponse struct {
	ID          string         `json:"id"`
	ActorUserID *string        `json:"actor_user_id"`
	Action      string         `json:"action"`
	Details     map[string]any `json:"details"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TenantRequestDetailResponse solicitud con su historial.
type TenantRequestDetailResponse struct {
	TenantRequestResponse
	History []AuditLogResponse `json:"history"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    string     `json:"status"`
	IsActive  bool       `json:"is_active"`
	IsDeleted bool       `json:"is_deleted"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TenantSummaryResponse fila del listado de tenants.
type TenantSummaryResponse struct {
	TenantResponse
	RequestEmail  string `json:"request_email"`
	RequestStatus string `json:"request_status"`
	UserCount     int    `json:"user_count"`
}

// TenantListResponse lista paginada de tenants.
type TenantListResponse struct {
	Items []TenantSummaryResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// DirectCreateResponse resultado del alta directa.
type DirectCreateResponse struct {
	Tenant  TenantResponse        `json:"tenant"`
	User    UserResponse          `json:"user"`
	Request TenantRequestResponse `json:"request"`
}

// AddTenantUserResponse resultado de la invitación. Created=false si el usuario ya existía.
type AddTenantUserResponse struct {
	User    UserResponse `json:"user"`
	Created bool         `json:"created"`
	Message string       `json:"message"`
}
