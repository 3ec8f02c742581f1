package ports

import "context"

// Template identifica la plantilla de correo a usar.
type Template string

const (
	TemplateTenantApproved        Template = "tenant_approved"
	TemplateTenantRejected        Template = "tenant_rejected"
	TemplateTenantProvisioned     Template = "tenant_provisioned"
	TemplateTenantActivated       Template = "tenant_activated"
	TemplateTenantDeactivated     Template = "tenant_deactivated"
	TemplateTenantDeleted         Template = "tenant_deleted"
	TemplateUserWelcome           Template = "user_welcome"
	TemplateUserAlreadyRegistered Template = "user_already_registered"
	TemplateUserActivated         Template = "user_activated"
	TemplateUserDeactivated       Template = "user_deactivated"
	TemplateUserDeleted           Template = "user_deleted"
	TemplatePasswordChanged       Template = "password_changed"
)

// Notification correo a enviar tras una transición de estado.
type Notification struct {
	To         string
	Template   Template
	Name       string
	TenantName string
	// Password sólo viaja cuando se generó una contraseña nueva.
	Password string
}

// Notifier envía notificaciones de forma best-effort. Un error indica que no se pudo
// encolar o enviar; el llamador lo registra y nunca lo propaga al cliente.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
