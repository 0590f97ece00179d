package models

import (
	"time"

	"github.com/google/uuid"
)

type BedroomStatus string

const (
	BedroomVacant   BedroomStatus = "VACANT"
	BedroomOccupied BedroomStatus = "OCCUPIED"
)

// Bedroom is materialized when a unit switches into BEDROOM mode and
// destroyed when it switches back. Status is authoritative and written
// only by the lease engine.
type Bedroom struct {
	Versioned
	ID        uuid.UUID     `json:"id"`
	UnitID    uuid.UUID     `json:"unit_id"`
	Label     string        `json:"label"`
	Status    BedroomStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (b *Bedroom) GetID() string { return b.ID.String() }
