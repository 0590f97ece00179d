package repositories

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

/* ───────────── public interface ───────────── */

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	ListResidentsOf(ctx context.Context, parentID uuid.UUID) ([]*models.Tenant, error)
}

/* ───────────── implementation ───────────── */

type tenantRepo struct {
	db DB
}

func NewTenantRepository(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO tenants (
			id, type, parent_tenant_id, full_name, email, phone,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6, NOW(), NOW(), 1)
	`, t.ID, t.Type, t.ParentTenantID, t.FullName, t.Email, t.Phone)
	return err
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	row := r.db.QueryRow(ctx, baseSelectTenant()+" WHERE id=$1", id)
	return scanTenant(row)
}

func (r *tenantRepo) ListResidentsOf(ctx context.Context, parentID uuid.UUID) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx, baseSelectTenant()+" WHERE parent_tenant_id=$1 ORDER BY full_name", parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

/* ---------- internals ---------- */

func baseSelectTenant() string {
	return `
		SELECT id, type, parent_tenant_id, full_name, email, phone,
		created_at, updated_at, row_version
		FROM tenants`
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	if err := row.Scan(
		&t.ID, &t.Type, &t.ParentTenantID, &t.FullName, &t.Email, &t.Phone,
		&t.CreatedAt, &t.UpdatedAt, &t.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
