package domain

import "errors"

// Kind clasifica un error de dominio para decidir cómo se expone (HTTP, logs).
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

// Error es un error de dominio con tipo y código estable para el cliente.
type Error struct {
	Kind Kind
	Code string
	msg  string
}

func (e *Error) Error() string { return e.msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, msg: msg}
}

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = newError(KindNotFound, "NOT_FOUND", "recurso no encontrado")
	ErrUserNotFound   = newError(KindNotFound, "USER_NOT_FOUND", "usuario no encontrado")
	ErrTenantNotFound = newError(KindNotFound, "TENANT_NOT_FOUND", "tenant no encontrado")

	ErrInvalidInput      = newError(KindValidation, "VALIDATION", "entrada inválida")
	ErrInvalidTenantName = newError(KindValidation, "INVALID_TENANT_NAME", "el nombre del tenant debe ser alfanumérico y contener al menos una mayúscula (máximo 50 caracteres)")
	ErrUnexpectedTenant  = newError(KindValidation, "UNEXPECTED_TENANT", "el super admin no debe iniciar sesión con un tenant")

	ErrConflict                 = newError(KindConflict, "CONFLICT", "conflicto con el estado actual")
	ErrEmailInUse               = newError(KindConflict, "EMAIL_IN_USE", "el email ya está registrado")
	ErrTenantNameTaken          = newError(KindConflict, "TENANT_NAME_TAKEN", "el nombre del tenant ya está en uso")
	ErrTenantBlocked            = newError(KindConflict, "TENANT_BLOCKED", "el tenant está eliminado o inactivo y no acepta nuevas solicitudes")
	ErrTenantPermanentlyBlocked = newError(KindConflict, "TENANT_PERMANENTLY_BLOCKED", "el tenant fue eliminado y no puede recrearse")
	ErrAlreadyReviewed          = newError(KindConflict, "ALREADY_REVIEWED", "la solicitud ya fue revisada")
	ErrAlreadyInState           = newError(KindConflict, "ALREADY_IN_STATE", "el recurso ya se encuentra en ese estado")

	ErrInvalidCredentials = newError(KindUnauthorized, "INVALID_CREDENTIALS", "credenciales inválidas")
	ErrInvalidToken       = newError(KindUnauthorized, "INVALID_TOKEN", "token inválido o expirado")

	ErrForbidden         = newError(KindForbidden, "FORBIDDEN", "acceso denegado")
	ErrTenantUnavailable = newError(KindForbidden, "TENANT_UNAVAILABLE", "el tenant está inactivo o eliminado, contacte a soporte")
	ErrAccountInactive   = newError(KindForbidden, "ACCOUNT_INACTIVE", "cuenta inactiva o eliminada")
)

// KindOf devuelve el tipo del primer *Error de la cadena; KindInternal si no hay ninguno.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// CodeOf devuelve el código estable del error o "INTERNAL".
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "INTERNAL"
}
