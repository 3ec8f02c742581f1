package entity

import "time"

// User representa un usuario del sistema. TenantID es nil para super admins
// y para solicitantes cuya solicitud aún no fue aprobada.
type User struct {
	ID           string
	TenantID     *string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         *string
	State        Lifecycle
	DeletedAt    *time.Time
	Roles        RoleSet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Role devuelve el rol autoritativo del usuario.
func (u *User) Role() Role { return u.Roles.Primary() }

// BelongsTo informa si el usuario está ligado al tenant dado.
func (u *User) BelongsTo(tenantID string) bool {
	return u.TenantID != nil && *u.TenantID == tenantID
}

// DisplayName nombre para saludos en correos.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}

// Activate reactiva la cuenta; si estaba eliminada la restaura.
func (u *User) Activate(now time.Time) error {
	next, err := u.State.Activate()
	if err != nil {
		return err
	}
	u.State = next
	u.DeletedAt = nil
	u.UpdatedAt = now
	return nil
}

// Deactivate desactiva la cuenta.
func (u *User) Deactivate(now time.Time) error {
	next, err := u.State.Deactivate()
	if err != nil {
		return err
	}
	u.State = next
	u.UpdatedAt = now
	return nil
}

// SoftDelete elimina lógicamente la cuenta; is_deleted e is_active cambian juntos.
func (u *User) SoftDelete(now time.Time) error {
	next, err := u.State.SoftDelete()
	if err != nil {
		return err
	}
	u.State = next
	u.DeletedAt = &now
	u.UpdatedAt = now
	return nil
}
