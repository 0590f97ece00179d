package repositories

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
)

/* ───────────── public interface ───────────── */

type InsurancePolicyRepository interface {
	Create(ctx context.Context, p *models.InsurancePolicy) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.InsurancePolicy, error)
	ListByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*models.InsurancePolicy, error)
	ListByStatus(ctx context.Context, statuses ...models.PolicyStatus) ([]*models.InsurancePolicy, error)
	ListAll(ctx context.Context) ([]*models.InsurancePolicy, error)

	UpdateIfVersion(ctx context.Context, p *models.InsurancePolicy, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.InsurancePolicy) error) error
}

/* ───────────── implementation ───────────── */

type insurancePolicyRepo struct {
	*BaseVersionedRepo[*models.InsurancePolicy]
	db DB
}

func NewInsurancePolicyRepository(db DB) InsurancePolicyRepository {
	r := &insurancePolicyRepo{db: db}
	selectStmt := baseSelectPolicy() + " WHERE id=$1"
	r.BaseVersionedRepo = NewBaseRepo(db, selectStmt, r.scanPolicy)
	return r
}

/* ---------- create ---------- */

func (r *insurancePolicyRepo) Create(ctx context.Context, p *models.InsurancePolicy) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO insurance_policies (
			id, tenant_id, unit_id, property_id, provider, policy_number,
			start_date, end_date, status, rejection_reason,
			created_at, updated_at, row_version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10, NOW(), NOW(), 1)
	`,
		p.ID, p.TenantID, p.UnitID, p.PropertyID, p.Provider, p.PolicyNumber,
		p.StartDate, p.EndDate, p.Status, p.RejectionReason,
	)
	return err
}

/* ---------- reads ---------- */

func (r *insurancePolicyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.InsurancePolicy, error) {
	return r.BaseVersionedRepo.GetByID(ctx, id.String())
}

func (r *insurancePolicyRepo) ListByTenantID(ctx context.Context, tenantID uuid.UUID) ([]*models.InsurancePolicy, error) {
	rows, err := r.db.Query(ctx, baseSelectPolicy()+" WHERE tenant_id=$1 ORDER BY created_at", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanPolicies(rows)
}

func (r *insurancePolicyRepo) ListByStatus(ctx context.Context, statuses ...models.PolicyStatus) ([]*models.InsurancePolicy, error) {
	rows, err := r.db.Query(ctx, baseSelectPolicy()+" WHERE status = ANY($1) ORDER BY created_at", statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanPolicies(rows)
}

func (r *insurancePolicyRepo) ListAll(ctx context.Context) ([]*models.InsurancePolicy, error) {
	rows, err := r.db.Query(ctx, baseSelectPolicy()+" ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanPolicies(rows)
}

/* ---------- update ---------- */

func (r *insurancePolicyRepo) UpdateIfVersion(ctx context.Context, p *models.InsurancePolicy, expected int64) (pgconn.CommandTag, error) {
	return r.db.Exec(ctx, `
		UPDATE insurance_policies
		SET status=$1, rejection_reason=$2, end_date=$3,
		    updated_at=NOW(), row_version=row_version+1
		WHERE id=$4 AND row_version=$5
	`, p.Status, p.RejectionReason, p.EndDate, p.ID, expected)
}

func (r *insurancePolicyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.InsurancePolicy) error) error {
	return r.BaseVersionedRepo.UpdateWithRetry(ctx, id.String(), mutate, r.UpdateIfVersion)
}

/* ---------- internals ---------- */

func baseSelectPolicy() string {
	return `
		SELECT id, tenant_id, unit_id, property_id, provider, policy_number,
		start_date, end_date, status, rejection_reason,
		created_at, updated_at, row_version
		FROM insurance_policies`
}

func (r *insurancePolicyRepo) scanPolicy(row pgx.Row) (*models.InsurancePolicy, error) {
	var p models.InsurancePolicy
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.UnitID, &p.PropertyID, &p.Provider, &p.PolicyNumber,
		&p.StartDate, &p.EndDate, &p.Status, &p.RejectionReason,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *insurancePolicyRepo) scanPolicies(rows pgx.Rows) ([]*models.InsurancePolicy, error) {
	var out []*models.InsurancePolicy
	for rows.Next() {
		p, err := r.scanPolicy(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
