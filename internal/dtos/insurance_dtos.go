package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/dwellwise/leasing-service/internal/models"
)

type SubmitPolicyRequest struct {
	TenantID     uuid.UUID `json:"tenant_id" validate:"required"`
	UnitID       uuid.UUID `json:"unit_id" validate:"required"`
	PropertyID   uuid.UUID `json:"property_id" validate:"required"`
	Provider     string    `json:"provider" validate:"required,min=1"`
	PolicyNumber string    `json:"policy_number" validate:"required,min=1"`
	StartDate    time.Time `json:"start_date" validate:"required"`
	EndDate      time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
}

type ReviewPolicyRequest struct {
	PolicyID uuid.UUID `json:"policy_id" validate:"required"`
	Reason   string    `json:"reason,omitempty"`
}

type PolicyResponse struct {
	ID              uuid.UUID           `json:"id"`
	TenantID        uuid.UUID           `json:"tenant_id"`
	UnitID          uuid.UUID           `json:"unit_id"`
	PropertyID      uuid.UUID           `json:"property_id"`
	Provider        string              `json:"provider"`
	PolicyNumber    string              `json:"policy_number"`
	StartDate       time.Time           `json:"start_date"`
	EndDate         time.Time           `json:"end_date"`
	Status          models.PolicyStatus `json:"status"`
	RejectionReason *string             `json:"rejection_reason,omitempty"`
}

type PolicyStatsResponse struct {
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
	Pending  int `json:"pending"`
}

func ToPolicyResponse(p *models.InsurancePolicy) PolicyResponse {
	return PolicyResponse{
		ID:              p.ID,
		TenantID:        p.TenantID,
		UnitID:          p.UnitID,
		PropertyID:      p.PropertyID,
		Provider:        p.Provider,
		PolicyNumber:    p.PolicyNumber,
		StartDate:       p.StartDate,
		EndDate:         p.EndDate,
		Status:          p.Status,
		RejectionReason: p.RejectionReason,
	}
}
