package entity

import (
	"time"

	"github.com/jhoicas/Tenancy-api/internal/domain"
)

// RequestStatus estado de una TenantRequest.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// ParseReviewAction valida la acción de revisión (approved | rejected).
func ParseReviewAction(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case RequestApproved, RequestRejected:
		return RequestStatus(s), true
	}
	return "", false
}

// TenantRequest solicitud de alta de un tenant. Nunca se borra (auditoría).
type TenantRequest struct {
	ID          string
	TenantName  string
	UserID      string
	Email       string
	Status      RequestStatus
	RequestedAt time.Time
	ReviewedAt  *time.Time
	ReviewedBy  *string

	// Sólo lectura, rellenados por los listados.
	RequesterEmail string
	ReviewerEmail  string
}

// Review aplica la única transición permitida: pending -> approved|rejected.
func (r *TenantRequest) Review(action RequestStatus, reviewerID string, now time.Time) error {
	if r.Status != RequestPending {
		return domain.ErrAlreadyReviewed
	}
	if action != RequestApproved && action != RequestRejected {
		return domain.ErrInvalidInput
	}
	r.Status = action
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &now
	return nil
}
