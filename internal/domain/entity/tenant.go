package entity

import "time"

// Tenant representa una organización aislada; es dueña de sus usuarios.
type Tenant struct {
	ID        string
	Name      string
	State     Lifecycle
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTenant crea un tenant activo.
func NewTenant(id, name string, now time.Time) *Tenant {
	return &Tenant{ID: id, Name: name, State: LifecycleActive, CreatedAt: now, UpdatedAt: now}
}

// Activate reactiva el tenant; si estaba eliminado lo restaura.
func (t *Tenant) Activate(now time.Time) error {
	next, err := t.State.Activate()
	if err != nil {
		return err
	}
	t.State = next
	t.DeletedAt = nil
	t.UpdatedAt = now
	return nil
}

// Deactivate desactiva el tenant.
func (t *Tenant) Deactivate(now time.Time) error {
	next, err := t.State.Deactivate()
	if err != nil {
		return err
	}
	t.State = next
	t.UpdatedAt = now
	return nil
}

// SoftDelete marca el tenant como eliminado (y por tanto inactivo).
func (t *Tenant) SoftDelete(now time.Time) error {
	next, err := t.State.SoftDelete()
	if err != nil {
		return err
	}
	t.State = next
	t.DeletedAt = &now
	t.UpdatedAt = now
	return nil
}

// TenantSummary fila del listado de tenants del super admin.
type TenantSummary struct {
	Tenant
	RequestEmail  string // email de la solicitud original ("" si no hay)
	RequestStatus string
	UserCount     int // usuarios con rol "user"
}
