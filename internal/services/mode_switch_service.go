package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/oracles"
	"github.com/dwellwise/leasing-service/internal/repositories"
	"github.com/dwellwise/leasing-service/internal/utils"
	"github.com/google/uuid"
)

// ModeSwitchService gates a unit's transition between FULL_UNIT and
// BEDROOM rental modes. The switch consults the lease engine plus two
// external read-only oracles; any oracle failure or timeout counts as a
// blocker, biasing the guard toward refusing the switch.
type ModeSwitchService struct {
	unitRepo    repositories.UnitRepository
	bedroomRepo repositories.BedroomRepository
	leaseRepo   repositories.LeaseRepository
	invoices    oracles.InvoiceLedger
	maintenance oracles.MaintenanceTracker
	publisher   events.Publisher
	locks       *TargetLocks
}

func NewModeSwitchService(
	unitRepo repositories.UnitRepository,
	bedroomRepo repositories.BedroomRepository,
	leaseRepo repositories.LeaseRepository,
	invoices oracles.InvoiceLedger,
	maintenance oracles.MaintenanceTracker,
	publisher events.Publisher,
	locks *TargetLocks,
) *ModeSwitchService {
	return &ModeSwitchService{
		unitRepo:    unitRepo,
		bedroomRepo: bedroomRepo,
		leaseRepo:   leaseRepo,
		invoices:    invoices,
		maintenance: maintenance,
		publisher:   publisher,
		locks:       locks,
	}
}

// CanSwitchMode reports whether the unit's rental mode may change and
// the structured blocker list when it may not.
func (s *ModeSwitchService) CanSwitchMode(ctx context.Context, unitID uuid.UUID) (bool, []string, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return false, nil, err
	}
	if unit == nil {
		return false, nil, utils.ErrUnitNotFound
	}
	blockers, err := s.collectBlockers(ctx, unitID)
	if err != nil {
		return false, nil, err
	}
	return len(blockers) == 0, blockers, nil
}

// SwitchMode re-evaluates the guard under the unit's locks and applies
// the transition atomically: either every mutation happens or none
// does. Switching into BEDROOM materializes vacant bedrooms from the
// unit's bedroom count; switching into FULL_UNIT destroys the bedroom
// records, which the guard has proven carry no occupancy.
func (s *ModeSwitchService) SwitchMode(ctx context.Context, unitID uuid.UUID, newMode models.RentalMode) (*models.Unit, error) {
	if newMode != models.RentalModeFullUnit && newMode != models.RentalModeBedroom {
		return nil, utils.ErrTargetNotLeasable
	}

	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.ErrUnitNotFound
	}

	unlock := s.locks.LockAll(s.lockKeys(ctx, unit))
	defer unlock()

	// re-read everything under the locks
	unit, err = s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, utils.ErrUnitNotFound
	}
	if unit.RentalMode == newMode {
		return unit, nil
	}

	blockers, err := s.collectBlockers(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if len(blockers) > 0 {
		return nil, utils.NewModeSwitchBlockedError(blockers)
	}

	oldMode := unit.RentalMode
	unit.RentalMode = newMode
	tag, err := s.unitRepo.UpdateIfVersion(ctx, unit, unit.RowVersion)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		return nil, utils.ErrRowVersionConflict
	}

	if newMode == models.RentalModeBedroom {
		if err := s.materializeBedrooms(ctx, unit); err != nil {
			return nil, err
		}
	} else {
		if err := s.bedroomRepo.DeleteByUnitID(ctx, unit.ID); err != nil {
			return nil, err
		}
	}

	evt := events.NewEvent(events.TypeUnitModeChanged, unit.ID.String(), events.UnitModeChangedPayload{
		UnitID:  unit.ID,
		OldMode: oldMode,
		NewMode: newMode,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		utils.Logger.WithError(err).Errorf("failed to publish %s event for %s", evt.Type, evt.Key)
	}
	return unit, nil
}

/* ---------- internals ---------- */

// lockKeys returns the unit key plus every existing bedroom target key,
// in the canonical acquisition order (unit first, bedrooms sorted).
func (s *ModeSwitchService) lockKeys(ctx context.Context, unit *models.Unit) []string {
	keys := []string{models.LeaseTargetKey(unit.ID, nil)}
	bedrooms, err := s.bedroomRepo.ListByUnitID(ctx, unit.ID)
	if err != nil {
		utils.Logger.WithError(err).Warnf("could not list bedrooms of %s for locking", unit.ID)
		return keys
	}
	var bkeys []string
	for _, b := range bedrooms {
		id := b.ID
		bkeys = append(bkeys, models.LeaseTargetKey(unit.ID, &id))
	}
	sort.Strings(bkeys)
	return append(keys, bkeys...)
}

func (s *ModeSwitchService) collectBlockers(ctx context.Context, unitID uuid.UUID) ([]string, error) {
	var blockers []string

	open, err := s.leaseRepo.ListOpenByUnitID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		blockers = append(blockers, utils.BlockerActiveLeaseExists)
	}

	pending, err := s.invoices.HasPendingInvoice(ctx, unitID)
	switch {
	case err != nil:
		utils.Logger.WithError(err).Warnf("invoice oracle unavailable for unit %s", unitID)
		blockers = append(blockers, utils.BlockerOracleUnavailable)
	case pending:
		blockers = append(blockers, utils.BlockerPendingInvoice)
	}

	openTicket, err := s.maintenance.HasOpenTicket(ctx, unitID)
	switch {
	case err != nil:
		utils.Logger.WithError(err).Warnf("maintenance oracle unavailable for unit %s", unitID)
		blockers = append(blockers, utils.BlockerOracleUnavailable)
	case openTicket:
		blockers = append(blockers, utils.BlockerOpenMaintenance)
	}

	return dedupe(blockers), nil
}

func (s *ModeSwitchService) materializeBedrooms(ctx context.Context, unit *models.Unit) error {
	// drop any stale records from a previous BEDROOM period first
	if err := s.bedroomRepo.DeleteByUnitID(ctx, unit.ID); err != nil {
		return err
	}
	list := make([]models.Bedroom, 0, unit.BedroomCount)
	for n := int16(1); n <= unit.BedroomCount; n++ {
		list = append(list, models.Bedroom{
			ID:     uuid.New(),
			UnitID: unit.ID,
			Label:  fmt.Sprintf("%s-%d", unit.Identifier, n),
			Status: models.BedroomVacant,
		})
	}
	return s.bedroomRepo.CreateMany(ctx, list)
}

func dedupe(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
