package entity

// Principal es la identidad autenticada de una petición, resuelta desde el token.
// Se pasa explícitamente a cada caso de uso; no existe estado de sesión global.
type Principal struct {
	UserID   string
	Email    string
	TenantID string // vacío para super admins
	Role     Role
}

// Is informa si el principal tiene el rol dado.
func (p Principal) Is(r Role) bool { return p.Role == r }

// InTenant informa si el principal pertenece al tenant dado.
func (p Principal) InTenant(tenantID string) bool {
	return p.TenantID != "" && p.TenantID == tenantID
}
