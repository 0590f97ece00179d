package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/utils"
)

func TestCreateLeaseFullUnit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	lease, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID:          unit.ID,
		PrimaryTenantID: tenant.ID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     1800,
		SecurityDeposit: 1800,
	})
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusActive, lease.Status)
	require.Nil(t, lease.BedroomID)

	status, err := f.inventory.UnitStatus(ctx, unit.ID)
	require.NoError(t, err)
	require.Equal(t, models.OccupancyOccupied, status)

	created := f.publisher.EventsOfType(events.TypeLeaseCreated)
	require.Len(t, created, 1)
}

func TestCreateLeaseAllowsSingleDayTerm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	tenant := f.seedTenant(t, "alice")
	day, _ := leaseTerm()

	lease, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID:          unit.ID,
		PrimaryTenantID: tenant.ID,
		StartDate:       day,
		EndDate:         day,
		MonthlyRent:     120,
	})
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusActive, lease.Status)
	require.True(t, lease.StartDate.Equal(lease.EndDate))
}

func TestCreateLeaseRejectsSecondOpenLeaseOnTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	alice := f.seedTenant(t, "alice")
	bob := f.seedTenant(t, "bob")
	start, end := leaseTerm()

	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: alice.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.NoError(t, err)

	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: bob.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrTargetAlreadyBound)
}

func TestCreateLeaseBedroomMarksBedroomOccupied(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit, bedrooms := f.seedBedroomUnit(t, prop.ID, "202", 3)
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	lease, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID:          unit.ID,
		BedroomID:       &bedrooms[0].ID,
		PrimaryTenantID: tenant.ID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     900,
	})
	require.NoError(t, err)
	require.NotNil(t, lease.BedroomID)

	got, err := f.bedroomRepo.GetByID(ctx, bedrooms[0].ID)
	require.NoError(t, err)
	require.Equal(t, models.BedroomOccupied, got.Status)

	status, err := f.inventory.UnitStatus(ctx, unit.ID)
	require.NoError(t, err)
	require.Equal(t, models.OccupancyOccupied, status)
}

func TestCreateLeaseWholeUnitRefusedInBedroomMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit, _ := f.seedBedroomUnit(t, prop.ID, "202", 2)
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 2000,
	})
	var blocked *utils.ModeSwitchBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Contains(t, blocked.Blockers, utils.BlockerUnitInBedroomMode)
}

func TestCreateLeaseBedroomRefusedInFullUnitMode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	bogus := uuid.New()
	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, BedroomID: &bogus, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 900,
	})
	require.ErrorIs(t, err, utils.ErrTargetNotLeasable)
}

func TestCreateLeaseValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: tenant.ID,
		StartDate: end, EndDate: start, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrInvalidDateRange)

	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: -1,
	})
	require.ErrorIs(t, err, utils.ErrNegativeMoney)

	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: uuid.New(),
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrTenantNotFound)
}

func TestPrimaryTenantCannotHoldTwoActiveLeases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unitA := f.seedFullUnit(t, prop.ID, "101")
	unitB := f.seedFullUnit(t, prop.ID, "102")
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unitA.ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.NoError(t, err)

	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unitB.ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrInvalidTenant)
}

func TestResidentCannotBePrimaryOnLease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	parent := f.seedTenant(t, "alice")
	resident, err := f.tenants.AddResident(ctx, parent.ID, CreateTenantInput{
		FullName: "kid", Email: "kid@example.com",
	})
	require.NoError(t, err)
	start, end := leaseTerm()

	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: resident.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrInvalidTenant)
}

func TestCoTenantRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	alice := f.seedTenant(t, "alice")
	bob := f.seedTenant(t, "bob")
	start, end := leaseTerm()

	// primary duplicated into the co-tenant list
	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: alice.ID,
		CoTenantIDs: []uuid.UUID{alice.ID},
		StartDate:   start, EndDate: end, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrInvalidTenant)

	// duplicate co-tenant
	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: alice.ID,
		CoTenantIDs: []uuid.UUID{bob.ID, bob.ID},
		StartDate:   start, EndDate: end, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrInvalidTenant)

	// valid co-tenant
	lease, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: alice.ID,
		CoTenantIDs: []uuid.UUID{bob.ID},
		StartDate:   start, EndDate: end, MonthlyRent: 1500,
	})
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{bob.ID}, lease.CoTenantIDs)
}

func TestDraftReservesTargetAndActivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	alice := f.seedTenant(t, "alice")
	bob := f.seedTenant(t, "bob")
	start, end := leaseTerm()

	draft, err := f.leases.CreateDraft(ctx, CreateDraftInput{UnitID: unit.ID})
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusDraft, draft.Status)

	// the draft occupies the target
	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: bob.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.ErrorIs(t, err, utils.ErrTargetAlreadyBound)

	// no event before activation
	require.Empty(t, f.publisher.EventsOfType(events.TypeLeaseCreated))

	active, err := f.leases.ActivateDraft(ctx, draft.ID, ActivateDraftInput{
		PrimaryTenantID: alice.ID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     1500,
		SecurityDeposit: 1500,
	})
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusActive, active.Status)
	require.Len(t, f.publisher.EventsOfType(events.TypeLeaseCreated), 1)

	// activating twice fails: no longer a draft
	_, err = f.leases.ActivateDraft(ctx, draft.ID, ActivateDraftInput{
		PrimaryTenantID: bob.ID,
		StartDate:       start,
		EndDate:         end,
		MonthlyRent:     1500,
	})
	require.ErrorIs(t, err, utils.ErrWrongStatus)
}

func TestCancelDraftFreesBedroom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit, bedrooms := f.seedBedroomUnit(t, prop.ID, "202", 2)

	draft, err := f.leases.CreateDraft(ctx, CreateDraftInput{
		UnitID:    unit.ID,
		BedroomID: &bedrooms[0].ID,
	})
	require.NoError(t, err)

	got, err := f.bedroomRepo.GetByID(ctx, bedrooms[0].ID)
	require.NoError(t, err)
	require.Equal(t, models.BedroomOccupied, got.Status)

	cancelled, err := f.leases.CancelLease(ctx, draft.ID)
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusCancelled, cancelled.Status)

	got, err = f.bedroomRepo.GetByID(ctx, bedrooms[0].ID)
	require.NoError(t, err)
	require.Equal(t, models.BedroomVacant, got.Status)
}

func TestEndLeaseFreesTargetAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit, bedrooms := f.seedBedroomUnit(t, prop.ID, "202", 2)
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	lease, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, BedroomID: &bedrooms[1].ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 900,
	})
	require.NoError(t, err)

	ended, err := f.leases.EndLease(ctx, lease.ID, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusEnded, ended.Status)

	got, err := f.bedroomRepo.GetByID(ctx, bedrooms[1].ID)
	require.NoError(t, err)
	require.Equal(t, models.BedroomVacant, got.Status)
	require.Len(t, f.publisher.EventsOfType(events.TypeLeaseEnded), 1)

	// second end is a no-op, no extra event
	again, err := f.leases.EndLease(ctx, lease.ID, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusEnded, again.Status)
	require.Len(t, f.publisher.EventsOfType(events.TypeLeaseEnded), 1)

	// tenant can take a new lease now
	_, err = f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, BedroomID: &bedrooms[1].ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 900,
	})
	require.NoError(t, err)
}

func TestConcurrentCreateOnSameTargetAdmitsExactlyOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	start, end := leaseTerm()

	const n = 8
	tenants := make([]uuid.UUID, n)
	for i := range tenants {
		tenants[i] = f.seedTenant(t, "tenant"+string(rune('a'+i))).ID
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		bounds    int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
				UnitID: unit.ID, PrimaryTenantID: tenantID,
				StartDate: start, EndDate: end, MonthlyRent: 1500,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, utils.ErrTargetAlreadyBound):
				bounds++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(tenants[i])
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, n-1, bounds)
}

func TestLeasesOnSiblingBedroomsDoNotConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit, bedrooms := f.seedBedroomUnit(t, prop.ID, "202", 3)
	start, end := leaseTerm()

	var wg sync.WaitGroup
	errs := make([]error, len(bedrooms))
	for i := range bedrooms {
		tenant := f.seedTenant(t, "roomer"+string(rune('a'+i)))
		wg.Add(1)
		go func(i int, tenantID uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.leases.CreateLease(ctx, CreateLeaseInput{
				UnitID: unit.ID, BedroomID: &bedrooms[i].ID, PrimaryTenantID: tenantID,
				StartDate: start, EndDate: end, MonthlyRent: 900,
			})
		}(i, tenant.ID)
	}
	wg.Wait()

	for i := range errs {
		require.NoError(t, errs[i])
	}
	status, err := f.inventory.UnitStatus(ctx, unit.ID)
	require.NoError(t, err)
	require.Equal(t, models.OccupancyFullyBooked, status)
}
