package postgres

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

// RoleCache resuelve nombre de rol -> id de la tabla roles. El catálogo sólo cambia por migración.
type RoleCache struct {
	ids *lru.Cache[entity.Role, int]
}

// NewRoleCache crea el caché con capacidad size.
func NewRoleCache(size int) (*RoleCache, error) {
	c, err := lru.New[entity.Role, int](size)
	if err != nil {
		return nil, fmt.Errorf("role cache: %w", err)
	}
	return &RoleCache{ids: c}, nil
}

// ID devuelve el id del rol consultando la tabla roles en caso de fallo de caché.
func (c *RoleCache) ID(ctx context.Context, q Querier, role entity.Role) (int, error) {
	if id, ok := c.ids.Get(role); ok {
		return id, nil
	}
	if _, ok := entity.ParseRole(string(role)); !ok {
		return 0, fmt.Errorf("%w: rol %q desconocido", domain.ErrInvalidInput, role)
	}
	var id int
	err := q.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, string(role)).Scan(&id)
	if err != nil {
		if noRows(err) {
			return 0, fmt.Errorf("%w: rol %q no existe en el catálogo", domain.ErrInvalidInput, role)
		}
		return 0, fmt.Errorf("get role id: %w", err)
	}
	c.ids.Add(role, id)
	return id, nil
}
