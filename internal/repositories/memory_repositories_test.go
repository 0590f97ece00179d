package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dwellwise/leasing-service/internal/models"
)

func TestLeaseUpdateIfVersionDetectsStaleWriter(t *testing.T) {
	repo := NewMemoryLeaseRepository()
	ctx := context.Background()

	lease := &models.Lease{
		ID:     uuid.New(),
		UnitID: uuid.New(),
		Status: models.LeaseStatusDraft,
	}
	require.NoError(t, repo.Create(ctx, lease))
	require.Equal(t, int64(1), lease.RowVersion)

	// two readers load version 1
	first, err := repo.GetByID(ctx, lease.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, lease.ID)
	require.NoError(t, err)

	first.Status = models.LeaseStatusActive
	tag, err := repo.UpdateIfVersion(ctx, first, first.RowVersion)
	require.NoError(t, err)
	require.EqualValues(t, 1, tag.RowsAffected())
	require.Equal(t, int64(2), first.RowVersion)

	// the second writer's expected version is stale
	second.Status = models.LeaseStatusCancelled
	tag, err = repo.UpdateIfVersion(ctx, second, second.RowVersion)
	require.NoError(t, err)
	require.EqualValues(t, 0, tag.RowsAffected())

	got, err := repo.GetByID(ctx, lease.ID)
	require.NoError(t, err)
	require.Equal(t, models.LeaseStatusActive, got.Status)
	require.Equal(t, int64(2), got.RowVersion)
}

func TestUnitUpdateWithRetryAbsorbsInterleavedWrite(t *testing.T) {
	repo := NewMemoryUnitRepository()
	ctx := context.Background()

	unit := &models.Unit{
		ID:         uuid.New(),
		PropertyID: uuid.New(),
		Identifier: "101",
		RentalMode: models.RentalModeFullUnit,
	}
	require.NoError(t, repo.Create(ctx, unit))

	// bump the version behind the retry loop's back once
	bumped := false
	err := repo.UpdateWithRetry(ctx, unit.ID, func(u *models.Unit) error {
		if !bumped {
			bumped = true
			interleaved, gErr := repo.GetByID(ctx, unit.ID)
			require.NoError(t, gErr)
			interleaved.Floor = 9
			tag, uErr := repo.UpdateIfVersion(ctx, interleaved, interleaved.RowVersion)
			require.NoError(t, uErr)
			require.EqualValues(t, 1, tag.RowsAffected())
		}
		u.RentalMode = models.RentalModeBedroom
		return nil
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	require.Equal(t, models.RentalModeBedroom, got.RentalMode)
	require.Equal(t, int16(9), got.Floor)
}

func TestFindOpenByTargetDistinguishesBedrooms(t *testing.T) {
	repo := NewMemoryLeaseRepository()
	ctx := context.Background()
	unitID := uuid.New()
	bedroomA := uuid.New()
	bedroomB := uuid.New()

	require.NoError(t, repo.Create(ctx, &models.Lease{
		ID: uuid.New(), UnitID: unitID, BedroomID: &bedroomA,
		Status: models.LeaseStatusActive,
	}))

	found, err := repo.FindOpenByTarget(ctx, unitID, &bedroomA)
	require.NoError(t, err)
	require.NotNil(t, found)

	found, err = repo.FindOpenByTarget(ctx, unitID, &bedroomB)
	require.NoError(t, err)
	require.Nil(t, found)

	// the whole-unit target is distinct from any bedroom target
	found, err = repo.FindOpenByTarget(ctx, unitID, nil)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestSoftDeletedUnitDisappears(t *testing.T) {
	repo := NewMemoryUnitRepository()
	ctx := context.Background()

	unit := &models.Unit{ID: uuid.New(), PropertyID: uuid.New(), Identifier: "101"}
	require.NoError(t, repo.Create(ctx, unit))
	require.NoError(t, repo.SoftDelete(ctx, unit.ID))

	got, err := repo.GetByID(ctx, unit.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
