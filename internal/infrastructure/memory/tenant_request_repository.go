package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Tenancy-api/internal/domain"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
	"github.com/jhoicas/Tenancy-api/internal/domain/repository"
)

type requestRepo struct{ v view }

func (r *requestRepo) Create(_ context.Context, req *entity.TenantRequest) error {
	return r.v.write(func(st *state) error {
		if _, ok := st.requests[req.ID]; ok {
			return domain.ErrConflict
		}
		if req.Status == entity.RequestPending && pendingExists(st, req.TenantName) {
			return domain.ErrTenantNameTaken
		}
		st.requests[req.ID] = row[entity.TenantRequest]{v: *req, seq: st.next()}
		return nil
	})
}

func (r *requestRepo) GetByID(_ context.Context, id string) (*entity.TenantRequest, error) {
	var out *entity.TenantRequest
	err := r.v.read(func(st *state) error {
		if rw, ok := st.requests[id]; ok {
			out = withEmails(st, rw.v)
		}
		return nil
	})
	return out, err
}

func (r *requestRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.TenantRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *requestRepo) Update(_ context.Context, req *entity.TenantRequest) error {
	return r.v.write(func(st *state) error {
		rw, ok := st.requests[req.ID]
		if !ok {
			return domain.ErrNotFound
		}
		rw.v = *req
		rw.v.RequesterEmail, rw.v.ReviewerEmail = "", ""
		st.requests[req.ID] = rw
		return nil
	})
}

func (r *requestRepo) ExistsPendingByName(_ context.Context, tenantName string) (bool, error) {
	var ok bool
	err := r.v.read(func(st *state) error {
		ok = pendingExists(st, tenantName)
		return nil
	})
	return ok, err
}

func (r *requestRepo) LatestByTenantName(_ context.Context, tenantName string) (*entity.TenantRequest, error) {
	var out *entity.TenantRequest
	err := r.v.read(func(st *state) error {
		out = latestRequest(st, tenantName)
		return nil
	})
	return out, err
}

func (r *requestRepo) List(_ context.Context, f repository.TenantRequestFilter) ([]*entity.TenantRequest, int, error) {
	var (
		out   []*entity.TenantRequest
		total int
	)
	err := r.v.read(func(st *state) error {
		rows := make([]row[entity.TenantRequest], 0, len(st.requests))
		for _, rw := range st.requests {
			if f.Status != "" && rw.v.Status != f.Status {
				continue
			}
			rows = append(rows, rw)
		}
		// reviewed_at DESC NULLS FIRST, requested_at DESC
		sort.Slice(rows, func(i, j int) bool {
			a, b := rows[i].v, rows[j].v
			switch {
			case a.ReviewedAt == nil && b.ReviewedAt != nil:
				return true
			case a.ReviewedAt != nil && b.ReviewedAt == nil:
				return false
			case a.ReviewedAt != nil && !a.ReviewedAt.Equal(*b.ReviewedAt):
				return a.ReviewedAt.After(*b.ReviewedAt)
			case !a.RequestedAt.Equal(b.RequestedAt):
				return a.RequestedAt.After(b.RequestedAt)
			}
			return rows[i].seq > rows[j].seq
		})
		total = len(rows)
		for _, rw := range page(rows, f.Limit, f.Offset) {
			out = append(out, withEmails(st, rw.v))
		}
		return nil
	})
	return out, total, err
}

func pendingExists(st *state, tenantName string) bool {
	for _, rw := range st.requests {
		if rw.v.TenantName == tenantName && rw.v.Status == entity.RequestPending {
			return true
		}
	}
	return false
}

func latestRequest(st *state, tenantName string) *entity.TenantRequest {
	var best *row[entity.TenantRequest]
	for _, rw := range st.requests {
		if rw.v.TenantName != tenantName {
			continue
		}
		if best == nil || rw.seq > best.seq {
			rw := rw
			best = &rw
		}
	}
	if best == nil {
		return nil
	}
	req := best.v
	return &req
}

func withEmails(st *state, req entity.TenantRequest) *entity.TenantRequest {
	if u, ok := st.users[req.UserID]; ok {
		req.RequesterEmail = u.v.Email
	}
	if req.ReviewedBy != nil {
		if u, ok := st.users[*req.ReviewedBy]; ok {
			req.ReviewerEmail = u.v.Email
		}
	}
	return &req
}
