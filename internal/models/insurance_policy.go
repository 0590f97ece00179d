package models

import (
	"time"

	"github.com/google/uuid"
)

type PolicyStatus string

const (
	PolicyStatusPendingApproval PolicyStatus = "PENDING_APPROVAL"
	PolicyStatusActive          PolicyStatus = "ACTIVE"
	PolicyStatusExpiringSoon    PolicyStatus = "EXPIRING_SOON"
	PolicyStatusExpired         PolicyStatus = "EXPIRED"
	PolicyStatusRejected        PolicyStatus = "REJECTED"
)

// InsurancePolicy is uploaded by the tenant-facing collaborator in
// PENDING_APPROVAL. From there it is owned by the compliance tracker:
// approve/reject are manual, the time-driven transitions are recomputed
// daily. EXPIRED and REJECTED are terminal; a renewal is a new record.
type InsurancePolicy struct {
	Versioned
	ID              uuid.UUID    `json:"id"`
	TenantID        uuid.UUID    `json:"tenant_id"`
	UnitID          uuid.UUID    `json:"unit_id"`
	PropertyID      uuid.UUID    `json:"property_id"`
	Provider        string       `json:"provider"`
	PolicyNumber    string       `json:"policy_number"`
	StartDate       time.Time    `json:"start_date"`
	EndDate         time.Time    `json:"end_date"`
	Status          PolicyStatus `json:"status"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

func (p *InsurancePolicy) GetID() string { return p.ID.String() }
