package services

import (
	"context"
	"fmt"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/repositories"
	"github.com/dwellwise/leasing-service/internal/utils"
	"github.com/google/uuid"
)

// InventoryService is the pure read model over unit, bedroom and lease
// state. A unit's occupancy is always derived here, never stored, so
// the different call sites cannot drift apart.
type InventoryService struct {
	propertyRepo repositories.PropertyRepository
	unitRepo     repositories.UnitRepository
	bedroomRepo  repositories.BedroomRepository
	leaseRepo    repositories.LeaseRepository
}

func NewInventoryService(
	propertyRepo repositories.PropertyRepository,
	unitRepo repositories.UnitRepository,
	bedroomRepo repositories.BedroomRepository,
	leaseRepo repositories.LeaseRepository,
) *InventoryService {
	return &InventoryService{
		propertyRepo: propertyRepo,
		unitRepo:     unitRepo,
		bedroomRepo:  bedroomRepo,
		leaseRepo:    leaseRepo,
	}
}

// ComputeUnitStatus derives a unit's occupancy from its bedrooms and
// open leases.
//
// FULL_UNIT mode: OCCUPIED iff an open whole-unit lease references the
// unit; never FULLY_BOOKED. BEDROOM mode: FULLY_BOOKED when every
// bedroom is occupied (and there is at least one), OCCUPIED when some
// but not all are, VACANT otherwise.
func ComputeUnitStatus(unit *models.Unit, bedrooms []*models.Bedroom, openLeases []*models.Lease) models.OccupancyStatus {
	if unit.RentalMode == models.RentalModeFullUnit {
		for _, l := range openLeases {
			if l.BedroomID == nil && l.IsOpen() {
				return models.OccupancyOccupied
			}
		}
		return models.OccupancyVacant
	}

	occupied := 0
	for _, b := range bedrooms {
		if b.Status == models.BedroomOccupied {
			occupied++
		}
	}
	switch {
	case len(bedrooms) > 0 && occupied == len(bedrooms):
		return models.OccupancyFullyBooked
	case occupied > 0:
		return models.OccupancyOccupied
	default:
		return models.OccupancyVacant
	}
}

// UnitStatus resolves current state and applies ComputeUnitStatus.
func (s *InventoryService) UnitStatus(ctx context.Context, unitID uuid.UUID) (models.OccupancyStatus, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return "", err
	}
	if unit == nil {
		return "", utils.ErrUnitNotFound
	}
	return s.statusOf(ctx, unit)
}

func (s *InventoryService) statusOf(ctx context.Context, unit *models.Unit) (models.OccupancyStatus, error) {
	bedrooms, err := s.bedroomRepo.ListByUnitID(ctx, unit.ID)
	if err != nil {
		return "", err
	}
	openLeases, err := s.leaseRepo.ListOpenByUnitID(ctx, unit.ID)
	if err != nil {
		return "", err
	}
	return ComputeUnitStatus(unit, bedrooms, openLeases), nil
}

// EligibleUnitsForFullUnitLease lists units offerable on a whole-unit
// lease: anything not OCCUPIED or FULLY_BOOKED. No mode filter — a
// BEDROOM-mode unit with no occupied bedrooms shows up here, but
// leasing it whole is refused until it is switched to FULL_UNIT mode;
// the caller is expected to surface that refusal.
// A nil-UUID propertyID means all properties.
func (s *InventoryService) EligibleUnitsForFullUnitLease(ctx context.Context, propertyID uuid.UUID) ([]*models.Unit, error) {
	units, err := s.listUnits(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	var out []*models.Unit
	for _, u := range units {
		status, err := s.statusOf(ctx, u)
		if err != nil {
			return nil, err
		}
		if status == models.OccupancyVacant {
			out = append(out, u)
		}
	}
	return out, nil
}

// EligibleUnitsForBedroomLease lists units with at least one leasable
// bedroom: excludes FULLY_BOOKED units and FULL_UNIT-mode units that
// are already occupied.
func (s *InventoryService) EligibleUnitsForBedroomLease(ctx context.Context, propertyID uuid.UUID) ([]*models.Unit, error) {
	units, err := s.listUnits(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	var out []*models.Unit
	for _, u := range units {
		status, err := s.statusOf(ctx, u)
		if err != nil {
			return nil, err
		}
		if status == models.OccupancyFullyBooked {
			continue
		}
		if u.RentalMode == models.RentalModeFullUnit && status == models.OccupancyOccupied {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

// EligibleBedrooms lists the vacant bedrooms of a unit.
func (s *InventoryService) EligibleBedrooms(ctx context.Context, unitID uuid.UUID) ([]*models.Bedroom, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.ErrUnitNotFound
	}
	bedrooms, err := s.bedroomRepo.ListByUnitID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	var out []*models.Bedroom
	for _, b := range bedrooms {
		if b.Status == models.BedroomVacant {
			out = append(out, b)
		}
	}
	return out, nil
}

type CreatePropertyInput struct {
	Name    string
	Address string
	City    string
	State   string
	ZipCode string
}

func (s *InventoryService) CreateProperty(ctx context.Context, in CreatePropertyInput) (*models.Property, error) {
	p := &models.Property{
		ID:      uuid.New(),
		Name:    in.Name,
		Address: in.Address,
		City:    in.City,
		State:   in.State,
		ZipCode: in.ZipCode,
		Status:  models.PropertyStatusActive,
	}
	if err := s.propertyRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *InventoryService) GetProperty(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrPropertyNotFound
	}
	return p, nil
}

func (s *InventoryService) ListProperties(ctx context.Context) ([]*models.Property, error) {
	return s.propertyRepo.ListAll(ctx)
}

type CreateUnitInput struct {
	PropertyID   uuid.UUID
	Identifier   string
	Floor        int16
	BedroomCount int16
	RentalMode   models.RentalMode
}

// CreateUnit registers a unit under an ACTIVE property. A unit created
// directly in BEDROOM mode gets its bedrooms materialized right away,
// all vacant.
func (s *InventoryService) CreateUnit(ctx context.Context, in CreateUnitInput) (*models.Unit, error) {
	prop, err := s.propertyRepo.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		return nil, utils.ErrPropertyNotFound
	}
	if prop.Status != models.PropertyStatusActive {
		return nil, utils.ErrPropertyInactive
	}

	u := &models.Unit{
		ID:           uuid.New(),
		PropertyID:   in.PropertyID,
		Identifier:   in.Identifier,
		Floor:        in.Floor,
		BedroomCount: in.BedroomCount,
		RentalMode:   in.RentalMode,
	}
	if err := s.unitRepo.Create(ctx, u); err != nil {
		return nil, err
	}

	if u.RentalMode == models.RentalModeBedroom {
		list := make([]models.Bedroom, 0, u.BedroomCount)
		for n := int16(1); n <= u.BedroomCount; n++ {
			list = append(list, models.Bedroom{
				ID:     uuid.New(),
				UnitID: u.ID,
				Label:  fmt.Sprintf("%s-%d", u.Identifier, n),
				Status: models.BedroomVacant,
			})
		}
		if err := s.bedroomRepo.CreateMany(ctx, list); err != nil {
			return nil, err
		}
	}

	err = s.propertyRepo.UpdateWithRetry(ctx, prop.ID, func(p *models.Property) error {
		p.UnitCount++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUnit returns the unit with its derived status and bedrooms.
func (s *InventoryService) GetUnit(ctx context.Context, id uuid.UUID) (*models.Unit, models.OccupancyStatus, []*models.Bedroom, error) {
	unit, err := s.unitRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	if unit == nil {
		return nil, "", nil, utils.ErrUnitNotFound
	}
	bedrooms, err := s.bedroomRepo.ListByUnitID(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	openLeases, err := s.leaseRepo.ListOpenByUnitID(ctx, id)
	if err != nil {
		return nil, "", nil, err
	}
	return unit, ComputeUnitStatus(unit, bedrooms, openLeases), bedrooms, nil
}

func (s *InventoryService) listUnits(ctx context.Context, propertyID uuid.UUID) ([]*models.Unit, error) {
	if propertyID == uuid.Nil {
		return s.unitRepo.ListAll(ctx)
	}
	return s.unitRepo.ListByPropertyID(ctx, propertyID)
}
