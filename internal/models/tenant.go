package models

import (
	"time"

	"github.com/google/uuid"
)

type TenantType string

const (
	TenantTypePrimary  TenantType = "PRIMARY"
	TenantTypeResident TenantType = "RESIDENT"
)

// TenantLeaseStatus is derived from lease state, never stored.
type TenantLeaseStatus string

const (
	TenantLeaseActive TenantLeaseStatus = "ACTIVE"
	TenantLeaseNone   TenantLeaseStatus = "NONE"
)

// Tenant is a person that can be bound to a lease. A RESIDENT is a
// co-occupant living under a PRIMARY tenant's lease; ParentTenantID is
// set only for residents and must point at a PRIMARY tenant that has no
// parent of its own.
type Tenant struct {
	Versioned
	ID             uuid.UUID  `json:"id"`
	Type           TenantType `json:"type"`
	ParentTenantID *uuid.UUID `json:"parent_tenant_id,omitempty"`
	FullName       string     `json:"full_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (t *Tenant) GetID() string { return t.ID.String() }
