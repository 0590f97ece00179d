package models

import (
	"time"

	"github.com/google/uuid"
)

type LeaseStatus string

const (
	LeaseStatusDraft     LeaseStatus = "DRAFT"
	LeaseStatusActive    LeaseStatus = "ACTIVE"
	LeaseStatusEnded     LeaseStatus = "ENDED"
	LeaseStatusCancelled LeaseStatus = "CANCELLED"
)

// Lease binds a primary tenant (and optional co-tenants) to a leasable
// target: the whole unit when BedroomID is nil, otherwise one bedroom.
// At most one DRAFT or ACTIVE lease may exist per target.
type Lease struct {
	Versioned
	ID              uuid.UUID   `json:"id"`
	UnitID          uuid.UUID   `json:"unit_id"`
	BedroomID       *uuid.UUID  `json:"bedroom_id,omitempty"`
	PrimaryTenantID uuid.UUID   `json:"primary_tenant_id"`
	CoTenantIDs     []uuid.UUID `json:"co_tenant_ids"`
	StartDate       time.Time   `json:"start_date"`
	EndDate         time.Time   `json:"end_date"`
	MonthlyRent     float64     `json:"monthly_rent"`
	SecurityDeposit float64     `json:"security_deposit"`
	Status          LeaseStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (l *Lease) GetID() string { return l.ID.String() }

// IsOpen reports whether the lease still occupies its target.
func (l *Lease) IsOpen() bool {
	return l.Status == LeaseStatusDraft || l.Status == LeaseStatusActive
}

// TargetKey identifies the leasable target for mutual exclusion.
func (l *Lease) TargetKey() string {
	return LeaseTargetKey(l.UnitID, l.BedroomID)
}

// LeaseTargetKey builds the exclusivity key for a unit or bedroom target.
func LeaseTargetKey(unitID uuid.UUID, bedroomID *uuid.UUID) string {
	if bedroomID != nil {
		return unitID.String() + "/" + bedroomID.String()
	}
	return unitID.String()
}
