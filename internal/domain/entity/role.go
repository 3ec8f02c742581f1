package entity

// Role es el rol autoritativo de un usuario. Conjunto cerrado.
type Role string

// Roles válidos (coinciden con la tabla roles sembrada por migración).
const (
	RoleSuperAdmin  Role = "superAdmin"
	RoleTenantAdmin Role = "tenantAdmin"
	RoleUser        Role = "user"
)

// IDs fijos de la tabla roles.
const (
	RoleIDSuperAdmin  = 1
	RoleIDTenantAdmin = 2
	RoleIDUser        = 3
)

// ParseRole convierte un nombre en Role. ok=false si no es un rol conocido.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSuperAdmin, RoleTenantAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// RoleByID resuelve el rol por su ID de catálogo.
func RoleByID(id int) (Role, bool) {
	switch id {
	case RoleIDSuperAdmin:
		return RoleSuperAdmin, true
	case RoleIDTenantAdmin:
		return RoleTenantAdmin, true
	case RoleIDUser:
		return RoleUser, true
	}
	return "", false
}

// ID devuelve el ID de catálogo del rol (0 si no es válido).
func (r Role) ID() int {
	switch r {
	case RoleSuperAdmin:
		return RoleIDSuperAdmin
	case RoleTenantAdmin:
		return RoleIDTenantAdmin
	case RoleUser:
		return RoleIDUser
	}
	return 0
}

// TenantScoped indica si el rol exige pertenecer a un tenant para iniciar sesión.
func (r Role) TenantScoped() bool {
	return r == RoleTenantAdmin || r == RoleUser
}

func (r Role) rank() int {
	switch r {
	case RoleSuperAdmin:
		return 3
	case RoleTenantAdmin:
		return 2
	case RoleUser:
		return 1
	}
	return 0
}

// RoleSet son las asignaciones persistidas en user_roles.
type RoleSet []Role

// Has informa si el conjunto contiene el rol.
func (s RoleSet) Has(r Role) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

// Primary resuelve el rol autoritativo: superAdmin > tenantAdmin > user.
// Sin asignaciones el usuario es un "user".
func (s RoleSet) Primary() Role {
	best := RoleUser
	for _, r := range s {
		if r.rank() > best.rank() {
			best = r
		}
	}
	return best
}

// Strings devuelve los nombres de los roles.
func (s RoleSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
