package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/dwellwise/leasing-service/internal/models"
)

type CreateLeaseRequest struct {
	UnitID          uuid.UUID   `json:"unit_id" validate:"required"`
	BedroomID       *uuid.UUID  `json:"bedroom_id,omitempty"`
	PrimaryTenantID uuid.UUID   `json:"primary_tenant_id" validate:"required"`
	CoTenantIDs     []uuid.UUID `json:"co_tenant_ids,omitempty" validate:"omitempty,dive,required"`
	StartDate       time.Time   `json:"start_date" validate:"required"`
	EndDate         time.Time   `json:"end_date" validate:"required,gtefield=StartDate"`
	MonthlyRent     float64     `json:"monthly_rent" validate:"gte=0"`
	SecurityDeposit float64     `json:"security_deposit" validate:"gte=0"`
}

// CreateDraftRequest reserves a target without committing lease terms yet.
type CreateDraftRequest struct {
	UnitID    uuid.UUID  `json:"unit_id" validate:"required"`
	BedroomID *uuid.UUID `json:"bedroom_id,omitempty"`
	TenantID  *uuid.UUID `json:"tenant_id,omitempty"`
}

type ActivateDraftRequest struct {
	LeaseID         uuid.UUID   `json:"lease_id" validate:"required"`
	PrimaryTenantID uuid.UUID   `json:"primary_tenant_id" validate:"required"`
	CoTenantIDs     []uuid.UUID `json:"co_tenant_ids,omitempty" validate:"omitempty,dive,required"`
	StartDate       time.Time   `json:"start_date" validate:"required"`
	EndDate         time.Time   `json:"end_date" validate:"required,gtefield=StartDate"`
	MonthlyRent     float64     `json:"monthly_rent" validate:"gte=0"`
	SecurityDeposit float64     `json:"security_deposit" validate:"gte=0"`
}

type LeaseResponse struct {
	ID              uuid.UUID          `json:"id"`
	UnitID          uuid.UUID          `json:"unit_id"`
	BedroomID       *uuid.UUID         `json:"bedroom_id,omitempty"`
	PrimaryTenantID uuid.UUID          `json:"primary_tenant_id"`
	CoTenantIDs     []uuid.UUID        `json:"co_tenant_ids,omitempty"`
	StartDate       time.Time          `json:"start_date"`
	EndDate         time.Time          `json:"end_date"`
	MonthlyRent     float64            `json:"monthly_rent"`
	SecurityDeposit float64            `json:"security_deposit"`
	Status          models.LeaseStatus `json:"status"`
	RowVersion      int64              `json:"row_version"`
}

func ToLeaseResponse(l *models.Lease) LeaseResponse {
	return LeaseResponse{
		ID:              l.ID,
		UnitID:          l.UnitID,
		BedroomID:       l.BedroomID,
		PrimaryTenantID: l.PrimaryTenantID,
		CoTenantIDs:     l.CoTenantIDs,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		MonthlyRent:     l.MonthlyRent,
		SecurityDeposit: l.SecurityDeposit,
		Status:          l.Status,
		RowVersion:      l.RowVersion,
	}
}
