package app

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/services"
	"github.com/dwellwise/leasing-service/internal/utils"
)

// SeedDemoData loads a small inventory so a fresh environment is
// browsable. Safe to call only on empty stores.
func SeedDemoData(
	ctx context.Context,
	inventory *services.InventoryService,
	tenants *services.TenantService,
) error {
	prop, err := inventory.CreateProperty(ctx, services.CreatePropertyInput{
		Name:    "Maple Court",
		Address: "128 Maple Ave",
		City:    "Austin",
		State:   "TX",
		ZipCode: "78701",
	})
	if err != nil {
		return err
	}

	if _, err := inventory.CreateUnit(ctx, services.CreateUnitInput{
		PropertyID:   prop.ID,
		Identifier:   "101",
		Floor:        1,
		BedroomCount: 2,
		RentalMode:   models.RentalModeFullUnit,
	}); err != nil {
		return err
	}
	if _, err := inventory.CreateUnit(ctx, services.CreateUnitInput{
		PropertyID:   prop.ID,
		Identifier:   "202",
		Floor:        2,
		BedroomCount: 3,
		RentalMode:   models.RentalModeBedroom,
	}); err != nil {
		return err
	}

	if _, err := tenants.CreateTenant(ctx, services.CreateTenantInput{
		FullName: "Dana Whitfield",
		Email:    "dana.whitfield@example.com",
		Phone:    "+1-512-555-0132",
	}); err != nil {
		return err
	}

	utils.Logger.Info("Demo data seeded")
	return nil
}
