package repositories

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

/* ───────────── public interface ───────────── */

type UnitRepository interface {
	Create(ctx context.Context, u *models.Unit) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error)
	ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Unit, error)
	ListAll(ctx context.Context) ([]*models.Unit, error)

	UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type unitRepo struct {
	*BaseVersionedRepo[*models.Unit]
	db DB
}

func NewUnitRepository(db DB) UnitRepository {
	r := &unitRepo{db: db}
	selectStmt := baseSelectUnit() + " WHERE id=$1 AND deleted_at IS NULL"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanUnit)
	return r
}

/* ---------- create ---------- */

func (r *unitRepo) Create(ctx context.Context, u *models.Unit) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO units (
			id, property_id, identifier, floor, bedroom_count, rental_mode,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW(), 1)
	`, u.ID, u.PropertyID, u.Identifier, u.Floor, u.BedroomCount, u.RentalMode)
	return err
}

/* ---------- reads ---------- */

func (r *unitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Unit, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *unitRepo) ListByPropertyID(ctx context.Context, propID uuid.UUID) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" WHERE property_id=$1 AND deleted_at IS NULL ORDER BY identifier", propID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanUnits(rows)
}

func (r *unitRepo) ListAll(ctx context.Context) ([]*models.Unit, error) {
	rows, err := r.db.Query(ctx, baseSelectUnit()+" WHERE deleted_at IS NULL ORDER BY identifier")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanUnits(rows)
}

/* ---------- update / delete ---------- */

func (r *unitRepo) UpdateIfVersion(ctx context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE units
		SET identifier=$1, floor=$2, bedroom_count=$3, rental_mode=$4,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$5 AND row_version=$6
	`, u.Identifier, u.Floor, u.BedroomCount, u.RentalMode, u.ID, expected)
}

func (r *unitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *unitRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `UPDATE units SET deleted_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

/* ---------- internals ---------- */

func baseSelectUnit() string {
	return `
		SELECT id, property_id, identifier, floor, bedroom_count, rental_mode,
		created_at, updated_at, row_version
		FROM units`
}

func (r *unitRepo) scanUnit(row pgx.Row) (*models.Unit, error) {
	var u models.Unit
	if err := row.Scan(
		&u.ID, &u.PropertyID, &u.Identifier, &u.Floor,
		&u.BedroomCount, &u.RentalMode,
		&u.CreatedAt, &u.UpdatedAt, &u.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *unitRepo) scanUnits(rows pgx.Rows) ([]*models.Unit, error) {
	var out []*models.Unit
	for rows.Next() {
		u, err := r.scanUnit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
