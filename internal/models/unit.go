package models

import (
	"time"

	"github.com/google/uuid"
)

type RentalMode string

const (
	RentalModeFullUnit RentalMode = "FULL_UNIT"
	RentalModeBedroom  RentalMode = "BEDROOM"
)

// OccupancyStatus is a unit's derived occupancy. It is never persisted;
// the inventory service computes it from bedroom and lease state.
type OccupancyStatus string

const (
	OccupancyVacant      OccupancyStatus = "VACANT"
	OccupancyOccupied    OccupancyStatus = "OCCUPIED"
	OccupancyFullyBooked OccupancyStatus = "FULLY_BOOKED"
)

// Unit represents a leasable space inside a property. In FULL_UNIT mode
// the unit itself is the leasable target; in BEDROOM mode each of its
// bedrooms is.
type Unit struct {
	Versioned
	ID           uuid.UUID  `json:"id"`
	PropertyID   uuid.UUID  `json:"property_id"`
	Identifier   string     `json:"identifier"`
	Floor        int16      `json:"floor"`
	BedroomCount int16      `json:"bedroom_count"`
	RentalMode   RentalMode `json:"rental_mode"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

func (u *Unit) GetID() string { return u.ID.String() }
