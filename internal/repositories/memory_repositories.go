package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
)

// In-memory repositories with the same optimistic-lock semantics as the
// pgx ones. Used by the test suite and by demo/seed mode — no Postgres
// required.

const (
	tagUpdated    = "UPDATE 1"
	tagNotUpdated = "UPDATE 0"
)

/* ───────────── properties ───────────── */

type memPropertyRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Property
}

func NewMemoryPropertyRepository() PropertyRepository {
	return &memPropertyRepo{items: map[uuid.UUID]*models.Property{}}
}

func (r *memPropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *p
	cp.RowVersion = 1
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.items[p.ID] = &cp
	p.RowVersion = 1
	return nil
}

func (r *memPropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memPropertyRepo) ListAll(_ context.Context) ([]*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.Property, 0, len(r.items))
	for _, p := range r.items {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memPropertyRepo) UpdateIfVersion(_ context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[p.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag(tagNotUpdated), nil
	}
	cp := *p
	cp.RowVersion = expected + 1
	cp.UpdatedAt = time.Now().UTC()
	r.items[p.ID] = &cp
	p.RowVersion = cp.RowVersion
	return pgconn.CommandTag(tagUpdated), nil
}

func (r *memPropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	getByID := func(ctx context.Context, s string) (*models.Property, error) {
		return r.GetByID(ctx, uuid.MustParse(s))
	}
	return WithRetry(ctx, 3, id.String(), getByID, r.UpdateIfVersion, mutate)
}

/* ───────────── units ───────────── */

type memUnitRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Unit
}

func NewMemoryUnitRepository() UnitRepository {
	return &memUnitRepo{items: map[uuid.UUID]*models.Unit{}}
}

func (r *memUnitRepo) Create(_ context.Context, u *models.Unit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	cp.RowVersion = 1
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.items[u.ID] = &cp
	u.RowVersion = 1
	return nil
}

func (r *memUnitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.items[id]
	if !ok || u.DeletedAt != nil {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUnitRepo) ListByPropertyID(_ context.Context, propID uuid.UUID) ([]*models.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Unit
	for _, u := range r.items {
		if u.PropertyID == propID && u.DeletedAt == nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	sortUnits(out)
	return out, nil
}

func (r *memUnitRepo) ListAll(_ context.Context) ([]*models.Unit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Unit
	for _, u := range r.items {
		if u.DeletedAt == nil {
			cp := *u
			out = append(out, &cp)
		}
	}
	sortUnits(out)
	return out, nil
}

func (r *memUnitRepo) UpdateIfVersion(_ context.Context, u *models.Unit, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[u.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag(tagNotUpdated), nil
	}
	cp := *u
	cp.RowVersion = expected + 1
	cp.UpdatedAt = time.Now().UTC()
	r.items[u.ID] = &cp
	u.RowVersion = cp.RowVersion
	return pgconn.CommandTag(tagUpdated), nil
}

func (r *memUnitRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Unit) error) error {
	getByID := func(ctx context.Context, s string) (*models.Unit, error) {
		return r.GetByID(ctx, uuid.MustParse(s))
	}
	return WithRetry(ctx, 3, id.String(), getByID, r.UpdateIfVersion, mutate)
}

func (r *memUnitRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.items[id]
	if !ok {
		return nil
	}
	now := time.Now().UTC()
	u.DeletedAt = &now
	return nil
}

func sortUnits(units []*models.Unit) {
	sort.Slice(units, func(i, j int) bool { return units[i].Identifier < units[j].Identifier })
}

/* ───────────── bedrooms ───────────── */

type memBedroomRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Bedroom
}

func NewMemoryBedroomRepository() BedroomRepository {
	return &memBedroomRepo{items: map[uuid.UUID]*models.Bedroom{}}
}

func (r *memBedroomRepo) Create(_ context.Context, b *models.Bedroom) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *b
	cp.RowVersion = 1
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.items[b.ID] = &cp
	b.RowVersion = 1
	return nil
}

func (r *memBedroomRepo) CreateMany(ctx context.Context, list []models.Bedroom) error {
	for i := range list {
		if err := r.Create(ctx, &list[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *memBedroomRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Bedroom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (r *memBedroomRepo) ListByUnitID(_ context.Context, unitID uuid.UUID) ([]*models.Bedroom, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Bedroom
	for _, b := range r.items {
		if b.UnitID == unitID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out, nil
}

func (r *memBedroomRepo) UpdateIfVersion(_ context.Context, b *models.Bedroom, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[b.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag(tagNotUpdated), nil
	}
	cp := *b
	cp.RowVersion = expected + 1
	cp.UpdatedAt = time.Now().UTC()
	r.items[b.ID] = &cp
	b.RowVersion = cp.RowVersion
	return pgconn.CommandTag(tagUpdated), nil
}

func (r *memBedroomRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Bedroom) error) error {
	getByID := func(ctx context.Context, s string) (*models.Bedroom, error) {
		return r.GetByID(ctx, uuid.MustParse(s))
	}
	return WithRetry(ctx, 3, id.String(), getByID, r.UpdateIfVersion, mutate)
}

func (r *memBedroomRepo) DeleteByUnitID(_ context.Context, unitID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, b := range r.items {
		if b.UnitID == unitID {
			delete(r.items, id)
		}
	}
	return nil
}

/* ───────────── tenants ───────────── */

type memTenantRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Tenant
}

func NewMemoryTenantRepository() TenantRepository {
	return &memTenantRepo{items: map[uuid.UUID]*models.Tenant{}}
}

func (r *memTenantRepo) Create(_ context.Context, t *models.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	cp.RowVersion = 1
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.items[t.ID] = &cp
	t.RowVersion = 1
	return nil
}

func (r *memTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memTenantRepo) ListResidentsOf(_ context.Context, parentID uuid.UUID) ([]*models.Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Tenant
	for _, t := range r.items {
		if t.ParentTenantID != nil && *t.ParentTenantID == parentID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

/* ───────────── leases ───────────── */

type memLeaseRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.Lease
}

func NewMemoryLeaseRepository() LeaseRepository {
	return &memLeaseRepo{items: map[uuid.UUID]*models.Lease{}}
}

func cloneLease(l *models.Lease) *models.Lease {
	cp := *l
	if l.BedroomID != nil {
		b := *l.BedroomID
		cp.BedroomID = &b
	}
	cp.CoTenantIDs = append([]uuid.UUID(nil), l.CoTenantIDs...)
	return &cp
}

func (r *memLeaseRepo) Create(_ context.Context, l *models.Lease) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := cloneLease(l)
	cp.RowVersion = 1
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.items[l.ID] = cp
	l.RowVersion = 1
	return nil
}

func (r *memLeaseRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Lease, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return cloneLease(l), nil
}

func (r *memLeaseRepo) ListByUnitID(_ context.Context, unitID uuid.UUID) ([]*models.Lease, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Lease
	for _, l := range r.items {
		if l.UnitID == unitID {
			out = append(out, cloneLease(l))
		}
	}
	sortLeases(out)
	return out, nil
}

func (r *memLeaseRepo) ListOpenByUnitID(_ context.Context, unitID uuid.UUID) ([]*models.Lease, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Lease
	for _, l := range r.items {
		if l.UnitID == unitID && l.IsOpen() {
			out = append(out, cloneLease(l))
		}
	}
	sortLeases(out)
	return out, nil
}

func (r *memLeaseRepo) ListOpenAll(_ context.Context) ([]*models.Lease, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.Lease
	for _, l := range r.items {
		if l.IsOpen() {
			out = append(out, cloneLease(l))
		}
	}
	sortLeases(out)
	return out, nil
}

func (r *memLeaseRepo) FindOpenByTarget(_ context.Context, unitID uuid.UUID, bedroomID *uuid.UUID) (*models.Lease, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	key := models.LeaseTargetKey(unitID, bedroomID)
	for _, l := range r.items {
		if l.IsOpen() && l.TargetKey() == key {
			return cloneLease(l), nil
		}
	}
	return nil, nil
}

func (r *memLeaseRepo) FindActiveByPrimaryTenant(_ context.Context, tenantID uuid.UUID) (*models.Lease, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.items {
		if l.PrimaryTenantID == tenantID && l.Status == models.LeaseStatusActive {
			return cloneLease(l), nil
		}
	}
	return nil, nil
}

func (r *memLeaseRepo) UpdateIfVersion(_ context.Context, l *models.Lease, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[l.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag(tagNotUpdated), nil
	}
	cp := cloneLease(l)
	cp.RowVersion = expected + 1
	cp.UpdatedAt = time.Now().UTC()
	r.items[l.ID] = cp
	l.RowVersion = cp.RowVersion
	return pgconn.CommandTag(tagUpdated), nil
}

func (r *memLeaseRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Lease) error) error {
	getByID := func(ctx context.Context, s string) (*models.Lease, error) {
		return r.GetByID(ctx, uuid.MustParse(s))
	}
	return WithRetry(ctx, 3, id.String(), getByID, r.UpdateIfVersion, mutate)
}

func sortLeases(leases []*models.Lease) {
	sort.Slice(leases, func(i, j int) bool { return leases[i].CreatedAt.Before(leases[j].CreatedAt) })
}

/* ───────────── insurance policies ───────────── */

type memPolicyRepo struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*models.InsurancePolicy
}

func NewMemoryInsurancePolicyRepository() InsurancePolicyRepository {
	return &memPolicyRepo{items: map[uuid.UUID]*models.InsurancePolicy{}}
}

func clonePolicy(p *models.InsurancePolicy) *models.InsurancePolicy {
	cp := *p
	if p.RejectionReason != nil {
		s := *p.RejectionReason
		cp.RejectionReason = &s
	}
	return &cp
}

func (r *memPolicyRepo) Create(_ context.Context, p *models.InsurancePolicy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := clonePolicy(p)
	cp.RowVersion = 1
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	r.items[p.ID] = cp
	p.RowVersion = 1
	return nil
}

func (r *memPolicyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.InsurancePolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return clonePolicy(p), nil
}

func (r *memPolicyRepo) ListByTenantID(_ context.Context, tenantID uuid.UUID) ([]*models.InsurancePolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.InsurancePolicy
	for _, p := range r.items {
		if p.TenantID == tenantID {
			out = append(out, clonePolicy(p))
		}
	}
	sortPolicies(out)
	return out, nil
}

func (r *memPolicyRepo) ListByStatus(_ context.Context, statuses ...models.PolicyStatus) ([]*models.InsurancePolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := map[models.PolicyStatus]bool{}
	for _, s := range statuses {
		want[s] = true
	}
	var out []*models.InsurancePolicy
	for _, p := range r.items {
		if want[p.Status] {
			out = append(out, clonePolicy(p))
		}
	}
	sortPolicies(out)
	return out, nil
}

func (r *memPolicyRepo) ListAll(_ context.Context) ([]*models.InsurancePolicy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.InsurancePolicy, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, clonePolicy(p))
	}
	sortPolicies(out)
	return out, nil
}

func (r *memPolicyRepo) UpdateIfVersion(_ context.Context, p *models.InsurancePolicy, expected int64) (pgconn.CommandTag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.items[p.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag(tagNotUpdated), nil
	}
	cp := clonePolicy(p)
	cp.RowVersion = expected + 1
	cp.UpdatedAt = time.Now().UTC()
	r.items[p.ID] = cp
	p.RowVersion = cp.RowVersion
	return pgconn.CommandTag(tagUpdated), nil
}

func (r *memPolicyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.InsurancePolicy) error) error {
	getByID := func(ctx context.Context, s string) (*models.InsurancePolicy, error) {
		return r.GetByID(ctx, uuid.MustParse(s))
	}
	return WithRetry(ctx, 3, id.String(), getByID, r.UpdateIfVersion, mutate)
}

func sortPolicies(list []*models.InsurancePolicy) {
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
}
