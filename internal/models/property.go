package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatus string

const (
	PropertyStatusActive   PropertyStatus = "ACTIVE"
	PropertyStatusInactive PropertyStatus = "INACTIVE"
)

// Property is owned by the building-registry collaborator. The leasing
// engine only reads it, to confirm a unit's parent is active before
// binding a lease.
type Property struct {
	Versioned
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Address   string         `json:"address"`
	City      string         `json:"city"`
	State     string         `json:"state"`
	ZipCode   string         `json:"zip_code"`
	UnitCount int            `json:"unit_count"`
	Status    PropertyStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (p *Property) GetID() string { return p.ID.String() }
