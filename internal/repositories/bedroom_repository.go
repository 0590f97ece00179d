package repositories

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

/* ───────────── public interface ───────────── */

type BedroomRepository interface {
	Create(ctx context.Context, b *models.Bedroom) error
	CreateMany(ctx context.Context, list []models.Bedroom) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Bedroom, error)
	ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Bedroom, error)

	UpdateIfVersion(ctx context.Context, b *models.Bedroom, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Bedroom) error) error
	DeleteByUnitID(ctx context.Context, unitID uuid.UUID) error
}

/* ───────────── implementation ───────────── */

type bedroomRepo struct {
	*BaseVersionedRepo[*models.Bedroom]
	db DB
}

func NewBedroomRepository(db DB) BedroomRepository {
	r := &bedroomRepo{db: db}
	selectStmt := baseSelectBedroom() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanBedroom)
	return r
}

/* ---------- create ---------- */

func (r *bedroomRepo) Create(ctx context.Context, b *models.Bedroom) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO bedrooms (
			id, unit_id, label, status,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4, NOW(), NOW(), 1)
	`, b.ID, b.UnitID, b.Label, b.Status)
	return err
}

func (r *bedroomRepo) CreateMany(ctx context.Context, list []models.Bedroom) error {
	for i := range list {
		if err := r.Create(ctx, &list[i]); err != nil {
			return err
		}
	}
	return nil
}

/* ---------- reads ---------- */

func (r *bedroomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Bedroom, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *bedroomRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Bedroom, error) {
	rows, err := r.db.Query(ctx, baseSelectBedroom()+" WHERE unit_id=$1 ORDER BY label", unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Bedroom
	for rows.Next() {
		b, err := r.scanBedroom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

/* ---------- update / delete ---------- */

func (r *bedroomRepo) UpdateIfVersion(ctx context.Context, b *models.Bedroom, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE bedrooms
		SET label=$1, status=$2, updated_at=NOW(), row_version=row_version+1
		WHERE id=$3 AND row_version=$4
	`, b.Label, b.Status, b.ID, expected)
}

func (r *bedroomRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Bedroom) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

func (r *bedroomRepo) DeleteByUnitID(ctx context.Context, unitID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM bedrooms WHERE unit_id=$1`, unitID)
	return err
}

/* ---------- internals ---------- */

func baseSelectBedroom() string {
	return `
		SELECT id, unit_id, label, status,
		created_at, updated_at, row_version
		FROM bedrooms`
}

func (r *bedroomRepo) scanBedroom(row pgx.Row) (*models.Bedroom, error) {
	var b models.Bedroom
	if err := row.Scan(
		&b.ID, &b.UnitID, &b.Label, &b.Status,
		&b.CreatedAt, &b.UpdatedAt, &b.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
