package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/dwellwise/leasing-service/internal/models"
)

type CreatePropertyRequest struct {
	Name    string `json:"name" validate:"required,min=1"`
	Address string `json:"address" validate:"required,min=1"`
	City    string `json:"city" validate:"required,min=1"`
	State   string `json:"state" validate:"required,min=2"`
	ZipCode string `json:"zip_code" validate:"required,min=3"`
}

type CreateUnitRequest struct {
	PropertyID   uuid.UUID         `json:"property_id" validate:"required"`
	Identifier   string            `json:"identifier" validate:"required,min=1"`
	Floor        int16             `json:"floor"`
	BedroomCount int16             `json:"bedroom_count" validate:"gte=0"`
	RentalMode   models.RentalMode `json:"rental_mode" validate:"required,oneof=FULL_UNIT BEDROOM"`
}

// SwitchModeRequest asks the guard to flip a unit's rental mode.
type SwitchModeRequest struct {
	UnitID     uuid.UUID         `json:"unit_id" validate:"required"`
	TargetMode models.RentalMode `json:"target_mode" validate:"required,oneof=FULL_UNIT BEDROOM"`
}

type SwitchModeResponse struct {
	UnitID     uuid.UUID         `json:"unit_id"`
	RentalMode models.RentalMode `json:"rental_mode"`
}

type CanSwitchModeResponse struct {
	Allowed  bool     `json:"allowed"`
	Blockers []string `json:"blockers,omitempty"`
}

type PropertyResponse struct {
	ID        uuid.UUID             `json:"id"`
	Name      string                `json:"name"`
	Address   string                `json:"address"`
	City      string                `json:"city"`
	State     string                `json:"state"`
	ZipCode   string                `json:"zip_code"`
	UnitCount int                   `json:"unit_count"`
	Status    models.PropertyStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
}

type BedroomResponse struct {
	ID     uuid.UUID            `json:"id"`
	UnitID uuid.UUID            `json:"unit_id"`
	Label  string               `json:"label"`
	Status models.BedroomStatus `json:"status"`
}

type UnitResponse struct {
	ID           uuid.UUID              `json:"id"`
	PropertyID   uuid.UUID              `json:"property_id"`
	Identifier   string                 `json:"identifier"`
	Floor        int16                  `json:"floor"`
	BedroomCount int16                  `json:"bedroom_count"`
	RentalMode   models.RentalMode      `json:"rental_mode"`
	Status       models.OccupancyStatus `json:"status"`
	Bedrooms     []BedroomResponse      `json:"bedrooms,omitempty"`
}

func ToPropertyResponse(p *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:        p.ID,
		Name:      p.Name,
		Address:   p.Address,
		City:      p.City,
		State:     p.State,
		ZipCode:   p.ZipCode,
		UnitCount: p.UnitCount,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
	}
}

func ToBedroomResponse(b *models.Bedroom) BedroomResponse {
	return BedroomResponse{
		ID:     b.ID,
		UnitID: b.UnitID,
		Label:  b.Label,
		Status: b.Status,
	}
}

func ToUnitResponse(u *models.Unit, status models.OccupancyStatus, bedrooms []*models.Bedroom) UnitResponse {
	resp := UnitResponse{
		ID:           u.ID,
		PropertyID:   u.PropertyID,
		Identifier:   u.Identifier,
		Floor:        u.Floor,
		BedroomCount: u.BedroomCount,
		RentalMode:   u.RentalMode,
		Status:       status,
	}
	for _, b := range bedrooms {
		resp.Bedrooms = append(resp.Bedrooms, ToBedroomResponse(b))
	}
	return resp
}
