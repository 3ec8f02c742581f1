package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

type userRepo struct{ v view }

func copyUser(u entity.User) *entity.User {
	u.Roles = append(entity.RoleSet(nil), u.Roles...)
	return &u
}

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.users[u.ID]; ok {
			return domain.ErrConflict
		}
		if findUserByEmail(st, u.Email) != nil {
			return domain.ErrEmailInUse
		}
		st.users[u.ID] = row[entity.User]{v: *copyUser(*u), seq: st.next()}
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(st *state) error {
		if rw, ok := st.users[id]; ok {
			out = copyUser(rw.v)
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(st *state) error {
		out = findUserByEmail(st, email)
		return nil
	})
	return out, err
}

func (r *userRepo) GetActiveByEmailAndTenant(_ context.Context, email, tenantID string) (*entity.User, error) {
	var out *entity.User
	err := r.v.read(func(st *state) error {
		u := findUserByEmail(st, email)
		if u != nil && u.BelongsTo(tenantID) && !u.State.IsDeleted() {
			out = u
		}
		return nil
	})
	return out, err
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.write(func(st *state) error {
		rw, ok := st.users[u.ID]
		if !ok {
			return domain.ErrUserNotFound
		}
		if other := findUserByEmail(st, u.Email); other != nil && other.ID != u.ID {
			return domain.ErrEmailInUse
		}
		roles := rw.v.Roles
		rw.v = *copyUser(*u)
		rw.v.Roles = roles
		st.users[u.ID] = rw
		return nil
	})
}

func (r *userRepo) ReplaceRoles(_ context.Context, userID string, roles entity.RoleSet) error {
	return r.v.write(func(st *state) error {
		rw, ok := st.users[userID]
		if !ok {
			return domain.ErrUserNotFound
		}
		var set entity.RoleSet
		for _, role := range roles {
			if role.ID() == 0 {
				return domain.ErrInvalidInput
			}
			if !set.Has(role) {
				set = append(set, role)
			}
		}
		rw.v.Roles = set
		st.users[userID] = rw
		return nil
	})
}

func (r *userRepo) ListByTenant(_ context.Context, tenantID string, excluded entity.Role) ([]*entity.User, error) {
	var out []*entity.User
	err := r.v.read(func(st *state) error {
		rows := make([]row[entity.User], 0)
		for _, rw := range st.users {
			if !rw.v.BelongsTo(tenantID) {
				continue
			}
			if excluded != "" && rw.v.Roles.Has(excluded) {
				continue
			}
			rows = append(rows, rw)
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
		for _, rw := range rows {
			out = append(out, copyUser(rw.v))
		}
		return nil
	})
	return out, err
}

func findUserByEmail(st *state, email string) *entity.User {
	for _, rw := range st.users {
		if rw.v.Email == email {
			return copyUser(rw.v)
		}
	}
	return nil
}
