package http

import (
	"github.com/jhoicas/Tenancy-api/internal/application/dto"
	"github.com/jhoicas/Tenancy-api/internal/domain/entity"
)

func toTenantRequestResponse(r *entity.TenantRequest) dto.TenantRequestResponse {
	return dto.TenantRequestResponse{
		ID:             r.ID,
		TenantName:     r.TenantName,
		UserID:         r.UserID,
		Email:          r.Email,
		Status:         string(r.Status),
		RequestedAt:    r.RequestedAt,
		ReviewedAt:     r.ReviewedAt,
		ReviewedBy:     r.ReviewedBy,
		RequesterEmail: r.RequesterEmail,
		ReviewerEmail:  r.ReviewerEmail,
	}
}

func toAuditLogResponse(l *entity.AuditLog) dto.AuditLogResponse {
	return dto.AuditLogResponse{
		ID:          l.ID,
		ActorUserID: l.ActorUserID,
		Action:      l.Action,
		Details:     l.Details,
		CreatedAt:   l.CreatedAt,
	}
}

func toTenantResponse(t *entity.Tenant) dto.TenantResponse {
	return dto.TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Status:    string(t.State),
		IsActive:  t.State.IsActive(),
		IsDeleted: t.State.IsDeleted(),
		DeletedAt: t.DeletedAt,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTenantSummaryResponse(s *entity.TenantSummary) dto.TenantSummaryResponse {
	return dto.TenantSummaryResponse{
		TenantResponse: toTenantResponse(&s.Tenant),
		RequestEmail:   s.RequestEmail,
		RequestStatus:  s.RequestStatus,
		UserCount:      s.UserCount,
	}
}
