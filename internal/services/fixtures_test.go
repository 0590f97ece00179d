package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/repositories"
)

type stubInvoiceLedger struct {
	pending bool
	err     error
}

func (s *stubInvoiceLedger) HasPendingInvoice(context.Context, uuid.UUID) (bool, error) {
	return s.pending, s.err
}

type stubMaintenanceTracker struct {
	open bool
	err  error
}

func (s *stubMaintenanceTracker) HasOpenTicket(context.Context, uuid.UUID) (bool, error) {
	return s.open, s.err
}

// fixture wires every service against in-memory stores, the way main
// does against Postgres.
type fixture struct {
	propertyRepo repositories.PropertyRepository
	unitRepo     repositories.UnitRepository
	bedroomRepo  repositories.BedroomRepository
	tenantRepo   repositories.TenantRepository
	leaseRepo    repositories.LeaseRepository
	policyRepo   repositories.InsurancePolicyRepository

	publisher   *events.MemoryPublisher
	invoices    *stubInvoiceLedger
	maintenance *stubMaintenanceTracker

	inventory  *InventoryService
	leases     *LeaseService
	modeSwitch *ModeSwitchService
	tenants    *TenantService
	insurance  *InsuranceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		propertyRepo: repositories.NewMemoryPropertyRepository(),
		unitRepo:     repositories.NewMemoryUnitRepository(),
		bedroomRepo:  repositories.NewMemoryBedroomRepository(),
		tenantRepo:   repositories.NewMemoryTenantRepository(),
		leaseRepo:    repositories.NewMemoryLeaseRepository(),
		policyRepo:   repositories.NewMemoryInsurancePolicyRepository(),
		publisher:    events.NewMemoryPublisher(),
		invoices:     &stubInvoiceLedger{},
		maintenance:  &stubMaintenanceTracker{},
	}
	locks := NewTargetLocks()

	f.inventory = NewInventoryService(f.propertyRepo, f.unitRepo, f.bedroomRepo, f.leaseRepo)
	f.leases = NewLeaseService(f.propertyRepo, f.unitRepo, f.bedroomRepo, f.tenantRepo, f.leaseRepo, f.publisher, locks)
	f.modeSwitch = NewModeSwitchService(f.unitRepo, f.bedroomRepo, f.leaseRepo, f.invoices, f.maintenance, f.publisher, locks)
	f.tenants = NewTenantService(f.tenantRepo, f.leaseRepo)
	f.insurance = NewInsuranceService(f.policyRepo, f.publisher)

	return f
}

func (f *fixture) seedProperty(t *testing.T) *models.Property {
	t.Helper()
	prop, err := f.inventory.CreateProperty(context.Background(), CreatePropertyInput{
		Name:    "Test Property",
		Address: "1 Main St",
		City:    "Austin",
		State:   "TX",
		ZipCode: "78701",
	})
	require.NoError(t, err)
	return prop
}

func (f *fixture) seedFullUnit(t *testing.T, propID uuid.UUID, identifier string) *models.Unit {
	t.Helper()
	unit, err := f.inventory.CreateUnit(context.Background(), CreateUnitInput{
		PropertyID:   propID,
		Identifier:   identifier,
		Floor:        1,
		BedroomCount: 2,
		RentalMode:   models.RentalModeFullUnit,
	})
	require.NoError(t, err)
	return unit
}

func (f *fixture) seedBedroomUnit(t *testing.T, propID uuid.UUID, identifier string, bedroomCount int16) (*models.Unit, []*models.Bedroom) {
	t.Helper()
	unit, err := f.inventory.CreateUnit(context.Background(), CreateUnitInput{
		PropertyID:   propID,
		Identifier:   identifier,
		Floor:        2,
		BedroomCount: bedroomCount,
		RentalMode:   models.RentalModeBedroom,
	})
	require.NoError(t, err)
	bedrooms, err := f.bedroomRepo.ListByUnitID(context.Background(), unit.ID)
	require.NoError(t, err)
	require.Len(t, bedrooms, int(bedroomCount))
	return unit, bedrooms
}

func (f *fixture) seedTenant(t *testing.T, name string) *models.Tenant {
	t.Helper()
	tenant, err := f.tenants.CreateTenant(context.Background(), CreateTenantInput{
		FullName: name,
		Email:    name + "@example.com",
		Phone:    "+1-512-555-0100",
	})
	require.NoError(t, err)
	return tenant
}

func leaseTerm() (time.Time, time.Time) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}
