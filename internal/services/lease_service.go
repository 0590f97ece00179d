package services

import (
	"context"
	"time"

	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/repositories"
	"github.com/dwellwise/leasing-service/internal/utils"
	"github.com/google/uuid"
)

// LeaseService creates, activates and ends leases, and is the only
// writer of bedroom occupancy. All mutations run under the per-target
// lock arena so two racing calls for the same target cannot both pass
// validation.
type LeaseService struct {
	propRepo    repositories.PropertyRepository
	unitRepo    repositories.UnitRepository
	bedroomRepo repositories.BedroomRepository
	tenantRepo  repositories.TenantRepository
	leaseRepo   repositories.LeaseRepository
	publisher   events.Publisher
	locks       *TargetLocks
}

func NewLeaseService(
	propRepo repositories.PropertyRepository,
	unitRepo repositories.UnitRepository,
	bedroomRepo repositories.BedroomRepository,
	tenantRepo repositories.TenantRepository,
	leaseRepo repositories.LeaseRepository,
	publisher events.Publisher,
	locks *TargetLocks,
) *LeaseService {
	return &LeaseService{
		propRepo:    propRepo,
		unitRepo:    unitRepo,
		bedroomRepo: bedroomRepo,
		tenantRepo:  tenantRepo,
		leaseRepo:   leaseRepo,
		publisher:   publisher,
		locks:       locks,
	}
}

// CreateLeaseInput is the fully-specified creation request. The admin
// flow activates directly; there is no separate confirmation step once
// every field is supplied.
type CreateLeaseInput struct {
	UnitID          uuid.UUID
	BedroomID       *uuid.UUID
	PrimaryTenantID uuid.UUID
	CoTenantIDs     []uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	MonthlyRent     float64
	SecurityDeposit float64
}

// CreateDraftInput reserves a target before tenant and dates are
// confirmed. TenantID is optional and only used to prefill the later
// activation.
type CreateDraftInput struct {
	UnitID    uuid.UUID
	BedroomID *uuid.UUID
	TenantID  *uuid.UUID
}

// ActivateDraftInput supplies the fields a draft is missing.
type ActivateDraftInput struct {
	PrimaryTenantID uuid.UUID
	CoTenantIDs     []uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	MonthlyRent     float64
	SecurityDeposit float64
}

// CreateLease validates and persists an ACTIVE lease for the target,
// marks the bedroom occupied for bedroom targets, and emits a
// LeaseCreated event for the invoicing collaborator.
func (s *LeaseService) CreateLease(ctx context.Context, in CreateLeaseInput) (*models.Lease, error) {
	unlock := s.locks.Lock(models.LeaseTargetKey(in.UnitID, in.BedroomID))
	defer unlock()

	unit, bedroom, err := s.resolveTarget(ctx, in.UnitID, in.BedroomID)
	if err != nil {
		return nil, err
	}
	if err := s.validateDatesAndMoney(in.StartDate, in.EndDate, in.MonthlyRent, in.SecurityDeposit); err != nil {
		return nil, err
	}
	if err := s.validateTenants(ctx, in.PrimaryTenantID, in.CoTenantIDs); err != nil {
		return nil, err
	}

	existing, err := s.leaseRepo.FindOpenByTarget(ctx, in.UnitID, in.BedroomID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrTargetAlreadyBound
	}

	lease := &models.Lease{
		ID:              uuid.New(),
		UnitID:          unit.ID,
		BedroomID:       in.BedroomID,
		PrimaryTenantID: in.PrimaryTenantID,
		CoTenantIDs:     in.CoTenantIDs,
		StartDate:       DateOnly(in.StartDate),
		EndDate:         DateOnly(in.EndDate),
		MonthlyRent:     in.MonthlyRent,
		SecurityDeposit: in.SecurityDeposit,
		Status:          models.LeaseStatusActive,
	}
	if err := s.leaseRepo.Create(ctx, lease); err != nil {
		return nil, err
	}

	if bedroom != nil {
		if err := s.setBedroomStatus(ctx, bedroom.ID, models.BedroomOccupied); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.NewEvent(events.TypeLeaseCreated, lease.ID.String(), events.LeaseCreatedPayload{
		LeaseID:         lease.ID,
		UnitID:          lease.UnitID,
		BedroomID:       lease.BedroomID,
		TenantID:        lease.PrimaryTenantID,
		MonthlyRent:     lease.MonthlyRent,
		SecurityDeposit: lease.SecurityDeposit,
	}))

	return lease, nil
}

// CreateDraft soft-reserves a target. The draft occupies the target
// under the same uniqueness rule as an active lease, and the bedroom is
// marked occupied so the derived unit status reflects the reservation.
func (s *LeaseService) CreateDraft(ctx context.Context, in CreateDraftInput) (*models.Lease, error) {
	unlock := s.locks.Lock(models.LeaseTargetKey(in.UnitID, in.BedroomID))
	defer unlock()

	unit, bedroom, err := s.resolveTarget(ctx, in.UnitID, in.BedroomID)
	if err != nil {
		return nil, err
	}

	existing, err := s.leaseRepo.FindOpenByTarget(ctx, in.UnitID, in.BedroomID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrTargetAlreadyBound
	}

	lease := &models.Lease{
		ID:        uuid.New(),
		UnitID:    unit.ID,
		BedroomID: in.BedroomID,
		Status:    models.LeaseStatusDraft,
	}
	if in.TenantID != nil {
		tenant, err := s.tenantRepo.GetByID(ctx, *in.TenantID)
		if err != nil {
			return nil, err
		}
		if tenant == nil {
			return nil, utils.ErrTenantNotFound
		}
		lease.PrimaryTenantID = *in.TenantID
	}
	if err := s.leaseRepo.Create(ctx, lease); err != nil {
		return nil, err
	}

	if bedroom != nil {
		if err := s.setBedroomStatus(ctx, bedroom.ID, models.BedroomOccupied); err != nil {
			return nil, err
		}
	}
	return lease, nil
}

// ActivateDraft confirms a draft with tenant, dates and money, running
// the same validations as direct creation.
func (s *LeaseService) ActivateDraft(ctx context.Context, leaseID uuid.UUID, in ActivateDraftInput) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}

	unlock := s.locks.Lock(lease.TargetKey())
	defer unlock()

	// re-read under the lock
	lease, err = s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}
	if lease.Status != models.LeaseStatusDraft {
		return nil, utils.ErrWrongStatus
	}

	if err := s.validateDatesAndMoney(in.StartDate, in.EndDate, in.MonthlyRent, in.SecurityDeposit); err != nil {
		return nil, err
	}
	if err := s.validateTenants(ctx, in.PrimaryTenantID, in.CoTenantIDs); err != nil {
		return nil, err
	}

	lease.PrimaryTenantID = in.PrimaryTenantID
	lease.CoTenantIDs = in.CoTenantIDs
	lease.StartDate = DateOnly(in.StartDate)
	lease.EndDate = DateOnly(in.EndDate)
	lease.MonthlyRent = in.MonthlyRent
	lease.SecurityDeposit = in.SecurityDeposit
	lease.Status = models.LeaseStatusActive

	tag, err := s.leaseRepo.UpdateIfVersion(ctx, lease, lease.RowVersion)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		latest, _ := s.leaseRepo.GetByID(ctx, leaseID)
		return nil, utils.NewRowVersionConflictError(latest)
	}

	s.publish(ctx, events.NewEvent(events.TypeLeaseCreated, lease.ID.String(), events.LeaseCreatedPayload{
		LeaseID:         lease.ID,
		UnitID:          lease.UnitID,
		BedroomID:       lease.BedroomID,
		TenantID:        lease.PrimaryTenantID,
		MonthlyRent:     lease.MonthlyRent,
		SecurityDeposit: lease.SecurityDeposit,
	}))
	return lease, nil
}

// CancelLease abandons a draft before activation and frees the target.
func (s *LeaseService) CancelLease(ctx context.Context, leaseID uuid.UUID) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}

	unlock := s.locks.Lock(lease.TargetKey())
	defer unlock()

	lease, err = s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}
	if lease.Status != models.LeaseStatusDraft {
		return nil, utils.ErrWrongStatus
	}

	lease.Status = models.LeaseStatusCancelled
	tag, err := s.leaseRepo.UpdateIfVersion(ctx, lease, lease.RowVersion)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		latest, _ := s.leaseRepo.GetByID(ctx, leaseID)
		return nil, utils.NewRowVersionConflictError(latest)
	}

	if lease.BedroomID != nil {
		if err := s.setBedroomStatus(ctx, *lease.BedroomID, models.BedroomVacant); err != nil {
			return nil, err
		}
	}
	return lease, nil
}

// EndLease closes an active lease and frees the target. Ending an
// already-ended lease is a no-op, not an error.
func (s *LeaseService) EndLease(ctx context.Context, leaseID uuid.UUID, endDate time.Time) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}

	unlock := s.locks.Lock(lease.TargetKey())
	defer unlock()

	lease, err = s.leaseRepo.GetByID(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}
	if lease.Status == models.LeaseStatusEnded {
		return lease, nil
	}
	if lease.Status != models.LeaseStatusActive {
		return nil, utils.ErrWrongStatus
	}

	lease.Status = models.LeaseStatusEnded
	lease.EndDate = DateOnly(endDate)
	tag, err := s.leaseRepo.UpdateIfVersion(ctx, lease, lease.RowVersion)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		latest, _ := s.leaseRepo.GetByID(ctx, leaseID)
		return nil, utils.NewRowVersionConflictError(latest)
	}

	if lease.BedroomID != nil {
		if err := s.setBedroomStatus(ctx, *lease.BedroomID, models.BedroomVacant); err != nil {
			return nil, err
		}
	}

	s.publish(ctx, events.NewEvent(events.TypeLeaseEnded, lease.ID.String(), events.LeaseEndedPayload{
		LeaseID:   lease.ID,
		UnitID:    lease.UnitID,
		BedroomID: lease.BedroomID,
	}))
	return lease, nil
}

// DraftLeaseFor returns the pending draft bound to the unit or one of
// its bedrooms, if any. Convenience lookup for prefilling the creation
// form; not a state transition.
func (s *LeaseService) DraftLeaseFor(ctx context.Context, unitID uuid.UUID) (*models.Lease, error) {
	open, err := s.leaseRepo.ListOpenByUnitID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	for _, l := range open {
		if l.Status == models.LeaseStatusDraft {
			return l, nil
		}
	}
	return nil, nil
}

// ListOpenLeases returns every DRAFT/ACTIVE lease for the admin
// occupancy overview.
func (s *LeaseService) ListOpenLeases(ctx context.Context) ([]*models.Lease, error) {
	return s.leaseRepo.ListOpenAll(ctx)
}

// GetLease is a plain lookup.
func (s *LeaseService) GetLease(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	lease, err := s.leaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lease == nil {
		return nil, utils.ErrLeaseNotFound
	}
	return lease, nil
}

/* ---------- internals ---------- */

// resolveTarget loads the unit (and bedroom, for bedroom targets) and
// rejects shape/mode mismatches. A whole-unit request against a
// BEDROOM-mode unit is refused with the structured blocker error: the
// unit must be switched to FULL_UNIT mode explicitly first.
func (s *LeaseService) resolveTarget(ctx context.Context, unitID uuid.UUID, bedroomID *uuid.UUID) (*models.Unit, *models.Bedroom, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, nil, err
	}
	if unit == nil {
		return nil, nil, utils.ErrUnitNotFound
	}

	prop, err := s.propRepo.GetByID(ctx, unit.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if prop == nil {
		return nil, nil, utils.ErrPropertyNotFound
	}
	if prop.Status != models.PropertyStatusActive {
		return nil, nil, utils.ErrPropertyInactive
	}

	if bedroomID == nil {
		if unit.RentalMode == models.RentalModeBedroom {
			return nil, nil, utils.NewModeSwitchBlockedError([]string{utils.BlockerUnitInBedroomMode})
		}
		return unit, nil, nil
	}

	if unit.RentalMode != models.RentalModeBedroom {
		return nil, nil, utils.ErrTargetNotLeasable
	}
	bedroom, err := s.bedroomRepo.GetByID(ctx, *bedroomID)
	if err != nil {
		return nil, nil, err
	}
	if bedroom == nil || bedroom.UnitID != unit.ID {
		return nil, nil, utils.ErrBedroomNotFound
	}
	return unit, bedroom, nil
}

func (s *LeaseService) validateDatesAndMoney(start, end time.Time, rent, deposit float64) error {
	if DateOnly(start).After(DateOnly(end)) {
		return utils.ErrInvalidDateRange
	}
	if rent < 0 || deposit < 0 {
		return utils.ErrNegativeMoney
	}
	return nil
}

// validateTenants enforces the one-active-lease-per-tenant rule and
// co-tenant uniqueness. Residents cannot hold a lease as primary.
func (s *LeaseService) validateTenants(ctx context.Context, primaryID uuid.UUID, coTenantIDs []uuid.UUID) error {
	primary, err := s.tenantRepo.GetByID(ctx, primaryID)
	if err != nil {
		return err
	}
	if primary == nil {
		return utils.ErrTenantNotFound
	}
	if primary.Type != models.TenantTypePrimary {
		return utils.ErrInvalidTenant
	}

	held, err := s.leaseRepo.FindActiveByPrimaryTenant(ctx, primaryID)
	if err != nil {
		return err
	}
	if held != nil {
		return utils.ErrInvalidTenant
	}

	for i, id := range coTenantIDs {
		if id == primaryID || ContainsUUID(coTenantIDs[:i], id) {
			return utils.ErrInvalidTenant
		}
		t, err := s.tenantRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if t == nil {
			return utils.ErrTenantNotFound
		}
	}
	return nil
}

func (s *LeaseService) setBedroomStatus(ctx context.Context, bedroomID uuid.UUID, status models.BedroomStatus) error {
	return s.bedroomRepo.UpdateWithRetry(ctx, bedroomID, func(b *models.Bedroom) error {
		b.Status = status
		return nil
	})
}

func (s *LeaseService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		utils.Logger.WithError(err).Errorf("failed to publish %s event for %s", evt.Type, evt.Key)
	}
}
