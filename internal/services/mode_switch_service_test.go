package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/utils"
)

func TestSwitchModeFullUnitToBedroomMaterializesBedrooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")

	switched, err := f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeBedroom)
	require.NoError(t, err)
	require.Equal(t, models.RentalModeBedroom, switched.RentalMode)

	bedrooms, err := f.bedroomRepo.ListByUnitID(ctx, unit.ID)
	require.NoError(t, err)
	require.Len(t, bedrooms, int(unit.BedroomCount))
	for _, b := range bedrooms {
		require.Equal(t, models.BedroomVacant, b.Status)
	}

	require.Len(t, f.publisher.EventsOfType(events.TypeUnitModeChanged), 1)
}

func TestSwitchModeBedroomToFullUnitDestroysBedrooms(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit, _ := f.seedBedroomUnit(t, prop.ID, "202", 3)

	switched, err := f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeFullUnit)
	require.NoError(t, err)
	require.Equal(t, models.RentalModeFullUnit, switched.RentalMode)

	bedrooms, err := f.bedroomRepo.ListByUnitID(ctx, unit.ID)
	require.NoError(t, err)
	require.Empty(t, bedrooms)
}

func TestSwitchModeSameModeIsNoOp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")

	switched, err := f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeFullUnit)
	require.NoError(t, err)
	require.Equal(t, models.RentalModeFullUnit, switched.RentalMode)
	require.Empty(t, f.publisher.EventsOfType(events.TypeUnitModeChanged))
}

func TestSwitchModeBlockedByOpenLease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.NoError(t, err)

	_, err = f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeBedroom)
	var blocked *utils.ModeSwitchBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Contains(t, blocked.Blockers, utils.BlockerActiveLeaseExists)

	// nothing mutated
	got, err := f.unitRepo.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	require.Equal(t, models.RentalModeFullUnit, got.RentalMode)
	bedrooms, err := f.bedroomRepo.ListByUnitID(ctx, unit.ID)
	require.NoError(t, err)
	require.Empty(t, bedrooms)
}

func TestSwitchModeBlockedByDraftLease(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")

	_, err := f.leases.CreateDraft(ctx, CreateDraftInput{UnitID: unit.ID})
	require.NoError(t, err)

	_, err = f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeBedroom)
	var blocked *utils.ModeSwitchBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Contains(t, blocked.Blockers, utils.BlockerActiveLeaseExists)
}

func TestSwitchModeCollectsEveryBlocker(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	_, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 1500,
	})
	require.NoError(t, err)
	f.invoices.pending = true
	f.maintenance.open = true

	_, err = f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeBedroom)
	var blocked *utils.ModeSwitchBlockedError
	require.ErrorAs(t, err, &blocked)
	require.ElementsMatch(t, []string{
		utils.BlockerActiveLeaseExists,
		utils.BlockerPendingInvoice,
		utils.BlockerOpenMaintenance,
	}, blocked.Blockers)
}

func TestSwitchModeOracleFailureBlocksConservatively(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")
	f.invoices.err = errors.New("dial tcp: i/o timeout")

	_, err := f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeBedroom)
	var blocked *utils.ModeSwitchBlockedError
	require.ErrorAs(t, err, &blocked)
	require.Contains(t, blocked.Blockers, utils.BlockerOracleUnavailable)
}

func TestCanSwitchModeReportsWithoutMutating(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit := f.seedFullUnit(t, prop.ID, "101")

	allowed, blockers, err := f.modeSwitch.CanSwitchMode(ctx, unit.ID)
	require.NoError(t, err)
	require.True(t, allowed)
	require.Empty(t, blockers)

	f.invoices.pending = true
	allowed, blockers, err = f.modeSwitch.CanSwitchMode(ctx, unit.ID)
	require.NoError(t, err)
	require.False(t, allowed)
	require.Equal(t, []string{utils.BlockerPendingInvoice}, blockers)

	got, err := f.unitRepo.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	require.Equal(t, models.RentalModeFullUnit, got.RentalMode)
}

func TestSwitchModeAfterLeasesEndSucceeds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prop := f.seedProperty(t)
	unit, bedrooms := f.seedBedroomUnit(t, prop.ID, "202", 2)
	tenant := f.seedTenant(t, "alice")
	start, end := leaseTerm()

	lease, err := f.leases.CreateLease(ctx, CreateLeaseInput{
		UnitID: unit.ID, BedroomID: &bedrooms[0].ID, PrimaryTenantID: tenant.ID,
		StartDate: start, EndDate: end, MonthlyRent: 900,
	})
	require.NoError(t, err)

	_, err = f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeFullUnit)
	var blocked *utils.ModeSwitchBlockedError
	require.ErrorAs(t, err, &blocked)

	_, err = f.leases.EndLease(ctx, lease.ID, end)
	require.NoError(t, err)

	switched, err := f.modeSwitch.SwitchMode(ctx, unit.ID, models.RentalModeFullUnit)
	require.NoError(t, err)
	require.Equal(t, models.RentalModeFullUnit, switched.RentalMode)
}
