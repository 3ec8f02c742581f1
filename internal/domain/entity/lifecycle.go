package entity

import "github.com/jhoicas/Tenancy-api/internal/domain"

// Lifecycle es el estado de un tenant o usuario. Sustituye al par is_active/is_deleted
// para que la combinación eliminado-y-activo no sea representable.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleInactive Lifecycle = "inactive"
	LifecycleDeleted  Lifecycle = "deleted"
)

// LifecycleFromFlags reconstruye el estado desde las columnas persistidas.
// is_deleted tiene prioridad sobre is_active.
func LifecycleFromFlags(isActive, isDeleted bool) Lifecycle {
	switch {
	case isDeleted:
		return LifecycleDeleted
	case isActive:
		return LifecycleActive
	default:
		return LifecycleInactive
	}
}

// Flags devuelve (is_active, is_deleted) para persistir.
func (l Lifecycle) Flags() (isActive, isDeleted bool) {
	switch l {
	case LifecycleActive:
		return true, false
	case LifecycleDeleted:
		return false, true
	default:
		return false, false
	}
}

// IsActive es true sólo en estado activo.
func (l Lifecycle) IsActive() bool { return l == LifecycleActive }

// IsDeleted es true sólo en estado eliminado.
func (l Lifecycle) IsDeleted() bool { return l == LifecycleDeleted }

// Activate: inactive|deleted -> active. Activar un eliminado equivale a restaurarlo.
func (l Lifecycle) Activate() (Lifecycle, error) {
	if l == LifecycleActive {
		return l, domain.ErrAlreadyInState
	}
	return LifecycleActive, nil
}

// Deactivate: active -> inactive.
func (l Lifecycle) Deactivate() (Lifecycle, error) {
	switch l {
	case LifecycleActive:
		return LifecycleInactive, nil
	case LifecycleInactive:
		return l, domain.ErrAlreadyInState
	default:
		return l, domain.ErrNotFound
	}
}

// SoftDelete: active|inactive -> deleted.
func (l Lifecycle) SoftDelete() (Lifecycle, error) {
	if l == LifecycleDeleted {
		return l, domain.ErrNotFound
	}
	return LifecycleDeleted, nil
}
