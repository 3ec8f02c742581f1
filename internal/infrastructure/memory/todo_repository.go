package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

type todoRepo struct{ v view }

func (r *todoRepo) Create(_ context.Context, t *entity.Todo) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.todos[t.ID]; ok {
			return domain.ErrConflict
		}
		st.todos[t.ID] = row[entity.Todo]{v: *t, seq: st.next()}
		return nil
	})
}

func (r *todoRepo) Get(_ context.Context, tenantID, userID, id string) (*entity.Todo, error) {
	var out *entity.Todo
	err := r.v.read(func(st *state) error {
		rw, ok := st.todos[id]
		if ok && owned(rw.v, tenantID, userID) {
			t := rw.v
			out = &t
		}
		return nil
	})
	return out, err
}

func (r *todoRepo) List(_ context.Context, tenantID, userID string) ([]*entity.Todo, error) {
	var out []*entity.Todo
	err := r.v.read(func(st *state) error {
		rows := make([]row[entity.Todo], 0)
		for _, rw := range st.todos {
			if owned(rw.v, tenantID, userID) {
				rows = append(rows, rw)
			}
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
		for _, rw := range rows {
			t := rw.v
			out = append(out, &t)
		}
		return nil
	})
	return out, err
}

func (r *todoRepo) Update(_ context.Context, t *entity.Todo) error {
	return r.v.write(func(st *state) error {
		rw, ok := st.todos[t.ID]
		if !ok || rw.v.TenantID != t.TenantID || rw.v.UserID != t.UserID {
			return domain.ErrNotFound
		}
		rw.v = *t
		st.todos[t.ID] = rw
		return nil
	})
}

func owned(t entity.Todo, tenantID, userID string) bool {
	return !t.IsDeleted && t.TenantID == tenantID && t.UserID == userID
}
