package services

import (
	"context"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/repositories"
	"github.com/dwellwise/leasing-service/internal/utils"
	"github.com/google/uuid"
)

// TenantService maintains the tenant registry and the single-level
// primary/resident relationship. It also answers the derived
// lease-status question the lease engine and external callers share.
type TenantService struct {
	tenantRepo repositories.TenantRepository
	leaseRepo  repositories.LeaseRepository
}

func NewTenantService(
	tenantRepo repositories.TenantRepository,
	leaseRepo repositories.LeaseRepository,
) *TenantService {
	return &TenantService{tenantRepo: tenantRepo, leaseRepo: leaseRepo}
}

type CreateTenantInput struct {
	FullName string
	Email    string
	Phone    string
}

// CreateTenant registers a PRIMARY tenant.
func (s *TenantService) CreateTenant(ctx context.Context, in CreateTenantInput) (*models.Tenant, error) {
	t := &models.Tenant{
		ID:       uuid.New(),
		Type:     models.TenantTypePrimary,
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
	}
	if err := s.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddResident registers a RESIDENT under a primary tenant. The parent
// must be a PRIMARY tenant with no parent of its own — resident chains
// are forbidden.
func (s *TenantService) AddResident(ctx context.Context, parentID uuid.UUID, in CreateTenantInput) (*models.Tenant, error) {
	parent, err := s.tenantRepo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, utils.ErrTenantNotFound
	}
	if parent.Type != models.TenantTypePrimary || parent.ParentTenantID != nil {
		return nil, utils.ErrResidentChain
	}

	t := &models.Tenant{
		ID:             uuid.New(),
		Type:           models.TenantTypeResident,
		ParentTenantID: &parentID,
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
	}
	if err := s.tenantRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// LeaseStatus derives a tenant's status from lease state: ACTIVE iff
// the tenant holds a non-ended lease as primary.
func (s *TenantService) LeaseStatus(ctx context.Context, tenantID uuid.UUID) (models.TenantLeaseStatus, error) {
	t, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if t == nil {
		return "", utils.ErrTenantNotFound
	}
	held, err := s.leaseRepo.FindActiveByPrimaryTenant(ctx, tenantID)
	if err != nil {
		return "", err
	}
	if held != nil {
		return models.TenantLeaseActive, nil
	}
	return models.TenantLeaseNone, nil
}

// GetTenant is a plain lookup.
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, utils.ErrTenantNotFound
	}
	return tenant, nil
}
