package repositories

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

/* ───────────── public interface ───────────── */

type LeaseRepository interface {
	Create(ctx context.Context, l *models.Lease) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error)
	ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Lease, error)
	// ListOpenByUnitID returns DRAFT/ACTIVE leases bound to the unit or
	// to any of its bedrooms (lease rows always carry unit_id).
	ListOpenByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Lease, error)
	// ListOpenAll returns every DRAFT/ACTIVE lease, oldest first.
	ListOpenAll(ctx context.Context) ([]*models.Lease, error)
	// FindOpenByTarget returns the DRAFT/ACTIVE lease occupying the
	// exact target, or nil.
	FindOpenByTarget(ctx context.Context, unitID uuid.UUID, bedroomID *uuid.UUID) (*models.Lease, error)
	// FindOpenByPrimaryTenant returns the ACTIVE lease the tenant holds
	// as primary, or nil. A tenant holds at most one.
	FindActiveByPrimaryTenant(ctx context.Context, tenantID uuid.UUID) (*models.Lease, error)

	UpdateIfVersion(ctx context.Context, l *models.Lease, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Lease) error) error
}

/* ───────────── implementation ───────────── */

type leaseRepo struct {
	*BaseVersionedRepo[*models.Lease]
	db DB
}

func NewLeaseRepository(db DB) LeaseRepository {
	r := &leaseRepo{db: db}
	selectStmt := baseSelectLease() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanLease)
	return r
}

/* ---------- create ---------- */

func (r *leaseRepo) Create(ctx context.Context, l *models.Lease) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leases (
			id, unit_id, bedroom_id, primary_tenant_id, co_tenant_ids,
			start_date, end_date, monthly_rent, security_deposit, status,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW(), NOW(), 1)
	`,
		l.ID, l.UnitID, l.BedroomID, l.PrimaryTenantID, l.CoTenantIDs,
		l.StartDate, l.EndDate, l.MonthlyRent, l.SecurityDeposit, l.Status,
	)
	return err
}

/* ---------- reads ---------- */

func (r *leaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Lease, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *leaseRepo) ListByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx, baseSelectLease()+" WHERE unit_id=$1 ORDER BY created_at", unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanLeases(rows)
}

func (r *leaseRepo) ListOpenByUnitID(ctx context.Context, unitID uuid.UUID) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx,
		baseSelectLease()+" WHERE unit_id=$1 AND status IN ('DRAFT','ACTIVE') ORDER BY created_at",
		unitID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanLeases(rows)
}

func (r *leaseRepo) ListOpenAll(ctx context.Context) ([]*models.Lease, error) {
	rows, err := r.db.Query(ctx,
		baseSelectLease()+" WHERE status IN ('DRAFT','ACTIVE') ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanLeases(rows)
}

func (r *leaseRepo) FindOpenByTarget(ctx context.Context, unitID uuid.UUID, bedroomID *uuid.UUID) (*models.Lease, error) {
	var row pgx.Row
	if bedroomID != nil {
		row = r.db.QueryRow(ctx,
			baseSelectLease()+" WHERE unit_id=$1 AND bedroom_id=$2 AND status IN ('DRAFT','ACTIVE') LIMIT 1",
			unitID, *bedroomID,
		)
	} else {
		row = r.db.QueryRow(ctx,
			baseSelectLease()+" WHERE unit_id=$1 AND bedroom_id IS NULL AND status IN ('DRAFT','ACTIVE') LIMIT 1",
			unitID,
		)
	}
	return r.scanLease(row)
}

func (r *leaseRepo) FindActiveByPrimaryTenant(ctx context.Context, tenantID uuid.UUID) (*models.Lease, error) {
	row := r.db.QueryRow(ctx,
		baseSelectLease()+" WHERE primary_tenant_id=$1 AND status='ACTIVE' LIMIT 1",
		tenantID,
	)
	return r.scanLease(row)
}

/* ---------- update ---------- */

func (r *leaseRepo) UpdateIfVersion(ctx context.Context, l *models.Lease, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE leases
		SET primary_tenant_id=$1, co_tenant_ids=$2, start_date=$3, end_date=$4,
		    monthly_rent=$5, security_deposit=$6, status=$7,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$8 AND row_version=$9
	`,
		l.PrimaryTenantID, l.CoTenantIDs, l.StartDate, l.EndDate,
		l.MonthlyRent, l.SecurityDeposit, l.Status, l.ID, expected,
	)
}

func (r *leaseRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Lease) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

/* ---------- internals ---------- */

func baseSelectLease() string {
	return `
		SELECT id, unit_id, bedroom_id, primary_tenant_id, co_tenant_ids,
		start_date, end_date, monthly_rent, security_deposit, status,
		created_at, updated_at, row_version
		FROM leases`
}

func (r *leaseRepo) scanLease(row pgx.Row) (*models.Lease, error) {
	var l models.Lease
	if err := row.Scan(
		&l.ID, &l.UnitID, &l.BedroomID, &l.PrimaryTenantID, &l.CoTenantIDs,
		&l.StartDate, &l.EndDate, &l.MonthlyRent, &l.SecurityDeposit, &l.Status,
		&l.CreatedAt, &l.UpdatedAt, &l.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &l, nil
}

func (r *leaseRepo) scanLeases(rows pgx.Rows) ([]*models.Lease, error) {
	var out []*models.Lease
	for rows.Next() {
		l, err := r.scanLease(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
