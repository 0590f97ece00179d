package repositories

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	ListAll(ctx context.Context) ([]*models.Property, error)

	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	*BaseVersionedRepo[*models.Property]
	db DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	r := &propertyRepo{db: db}
	selectStmt := baseSelectProperty() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, scanProperty)
	return r
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO properties (
            id, name, address, city, state, zip_code, unit_count, status,
            created_at, updated_at, row_version
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8, NOW(), NOW(), 1)
    `,
		p.ID, p.Name, p.Address, p.City, p.State, p.ZipCode, p.UnitCount, p.Status,
	)
	return err
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *propertyRepo) ListAll(ctx context.Context) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, baseSelectProperty()+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
        UPDATE properties
        SET name=$1, address=$2, city=$3, state=$4, zip_code=$5,
            unit_count=$6, status=$7, updated_at=NOW(),
            row_version=row_version+1
        WHERE id=$8 AND row_version=$9
    `,
		p.Name, p.Address, p.City, p.State, p.ZipCode,
		p.UnitCount, p.Status, p.ID, expected,
	)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

/* ---------- internals ---------- */

func baseSelectProperty() string {
	return `
        SELECT id, name, address, city, state, zip_code, unit_count, status,
        created_at, updated_at, row_version
        FROM properties`
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var p models.Property
	if err := row.Scan(
		&p.ID, &p.Name, &p.Address, &p.City, &p.State, &p.ZipCode,
		&p.UnitCount, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
