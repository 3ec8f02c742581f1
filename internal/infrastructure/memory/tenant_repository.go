package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

type tenantRepo struct{ v view }

func (r *tenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.tenants[t.ID]; ok {
			return domain.ErrConflict
		}
		if findTenantByName(st, t.Name) != nil {
			return domain.ErrTenantNameTaken
		}
		st.tenants[t.ID] = row[entity.Tenant]{v: *t, seq: st.next()}
		return nil
	})
}

func (r *tenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	var out *entity.Tenant
	err := r.v.read(func(st *state) error {
		if rw, ok := st.tenants[id]; ok {
			t := rw.v
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *tenantRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Tenant, error) {
	return r.GetByID(ctx, id)
}

func (r *tenantRepo) GetByName(_ context.Context, name string) (*entity.Tenant, error) {
	var out *entity.Tenant
	err := r.v.read(func(st *state) error {
		out = findTenantByName(st, name)
		return nil
	})
	return out, err
}

func (r *tenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	return r.v.write(func(st *state) error {
		rw, ok := st.tenants[t.ID]
		if !ok {
			return domain.ErrTenantNotFound
		}
		if other := findTenantByName(st, t.Name); other != nil && other.ID != t.ID {
			return domain.ErrTenantNameTaken
		}
		rw.v = *t
		st.tenants[t.ID] = rw
		return nil
	})
}

func (r *tenantRepo) ListSummaries(_ context.Context, limit, offset int) ([]*entity.TenantSummary, error) {
	var out []*entity.TenantSummary
	err := r.v.read(func(st *state) error {
		rows := make([]row[entity.Tenant], 0, len(st.tenants))
		for _, rw := range st.tenants {
			rows = append(rows, rw)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
		for _, rw := range page(rows, limit, offset) {
			s := &entity.TenantSummary{Tenant: rw.v}
			if req := latestRequest(st, rw.v.Name); req != nil {
				s.RequestEmail = req.Email
				s.RequestStatus = string(req.Status)
			}
			for _, u := range st.users {
				if u.v.BelongsTo(rw.v.ID) && u.v.Roles.Has(entity.RoleUser) && !u.v.State.IsDeleted() {
					s.UserCount++
				}
			}
			out = append(out, s)
		}
		return nil
	})
	return out, err
}

func findTenantByName(st *state, name string) *entity.Tenant {
	for _, rw := range st.tenants {
		if rw.v.Name == name {
			t := rw.v
			return &t
		}
	}
	return nil
}

// page aplica limit/offset; limit <= 0 devuelve todo desde offset.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	if offset > 0 {
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
