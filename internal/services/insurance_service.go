package services

import (
	"context"
	"strings"
	"time"

	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/repositories"
	"github.com/dwellwise/leasing-service/internal/utils"
	"github.com/google/uuid"
)

// ExpiringSoonWindowDays is how close to the end date a policy flips to
// EXPIRING_SOON.
const ExpiringSoonWindowDays = 30

// InsuranceService owns the compliance state machine for tenant
// insurance policies. Approve/reject are the only manual transitions;
// everything time-driven goes through the daily recompute sweep.
type InsuranceService struct {
	policyRepo repositories.InsurancePolicyRepository
	publisher  events.Publisher
}

func NewInsuranceService(
	policyRepo repositories.InsurancePolicyRepository,
	publisher events.Publisher,
) *InsuranceService {
	return &InsuranceService{policyRepo: policyRepo, publisher: publisher}
}

// NextComplianceStatus is the pure time-driven transition: given the
// current status, today, and the policy end date, it returns the status
// the policy should hold. PENDING_APPROVAL and REJECTED are never
// touched; EXPIRED is terminal.
func NextComplianceStatus(status models.PolicyStatus, today, endDate time.Time) models.PolicyStatus {
	today = DateOnly(today)
	endDate = DateOnly(endDate)

	switch status {
	case models.PolicyStatusActive, models.PolicyStatusExpiringSoon:
		if today.After(endDate) {
			return models.PolicyStatusExpired
		}
		daysLeft := int(endDate.Sub(today).Hours() / 24)
		if daysLeft <= ExpiringSoonWindowDays {
			return models.PolicyStatusExpiringSoon
		}
		return models.PolicyStatusActive
	default:
		return status
	}
}

type SubmitPolicyInput struct {
	TenantID     uuid.UUID
	UnitID       uuid.UUID
	PropertyID   uuid.UUID
	Provider     string
	PolicyNumber string
	StartDate    time.Time
	EndDate      time.Time
}

// SubmitPolicy records an uploaded policy in PENDING_APPROVAL.
func (s *InsuranceService) SubmitPolicy(ctx context.Context, in SubmitPolicyInput) (*models.InsurancePolicy, error) {
	if DateOnly(in.StartDate).After(DateOnly(in.EndDate)) {
		return nil, utils.ErrInvalidDateRange
	}
	p := &models.InsurancePolicy{
		ID:           uuid.New(),
		TenantID:     in.TenantID,
		UnitID:       in.UnitID,
		PropertyID:   in.PropertyID,
		Provider:     in.Provider,
		PolicyNumber: in.PolicyNumber,
		StartDate:    DateOnly(in.StartDate),
		EndDate:      DateOnly(in.EndDate),
		Status:       models.PolicyStatusPendingApproval,
	}
	if err := s.policyRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ApprovePolicy moves a pending policy to ACTIVE.
func (s *InsuranceService) ApprovePolicy(ctx context.Context, id uuid.UUID) (*models.InsurancePolicy, error) {
	return s.manualTransition(ctx, id, models.PolicyStatusActive, nil)
}

// RejectPolicy moves a pending policy to REJECTED. The reason is
// required.
func (s *InsuranceService) RejectPolicy(ctx context.Context, id uuid.UUID, reason string) (*models.InsurancePolicy, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, utils.ErrMissingReason
	}
	return s.manualTransition(ctx, id, models.PolicyStatusRejected, &reason)
}

func (s *InsuranceService) manualTransition(ctx context.Context, id uuid.UUID, to models.PolicyStatus, reason *string) (*models.InsurancePolicy, error) {
	p, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, utils.ErrPolicyNotFound
	}
	if p.Status != models.PolicyStatusPendingApproval {
		return nil, utils.ErrWrongStatus
	}

	old := p.Status
	p.Status = to
	p.RejectionReason = reason
	tag, err := s.policyRepo.UpdateIfVersion(ctx, p, p.RowVersion)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() != 1 {
		return nil, utils.ErrRowVersionConflict
	}

	s.publishStatusChange(ctx, p.ID, old, to)
	return p, nil
}

// RecomputeAll applies the time-driven transitions to every policy.
// It is idempotent for a given today, each record is committed
// independently, and a cancelled context stops the sweep between
// records — already-updated policies stay valid and the remainder is
// picked up by the next run. Failures on individual records are logged
// and skipped, not fatal to the sweep.
func (s *InsuranceService) RecomputeAll(ctx context.Context, today time.Time) error {
	policies, err := s.policyRepo.ListByStatus(ctx, models.PolicyStatusActive, models.PolicyStatusExpiringSoon)
	if err != nil {
		return err
	}

	for _, p := range policies {
		if err := ctx.Err(); err != nil {
			return err
		}
		next := NextComplianceStatus(p.Status, today, p.EndDate)
		if next == p.Status {
			continue
		}
		old := p.Status
		p.Status = next
		tag, err := s.policyRepo.UpdateIfVersion(ctx, p, p.RowVersion)
		if err != nil {
			utils.Logger.WithError(err).Errorf("recompute: skipping policy %s", p.ID)
			continue
		}
		if tag.RowsAffected() != 1 {
			utils.Logger.Warnf("recompute: policy %s changed concurrently, deferring to next sweep", p.ID)
			continue
		}
		s.publishStatusChange(ctx, p.ID, old, next)
	}
	return nil
}

// PolicyStats are pure counts over current states, recomputed on read.
type PolicyStats struct {
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
	Pending  int `json:"pending"`
}

func (s *InsuranceService) Stats(ctx context.Context) (*PolicyStats, error) {
	policies, err := s.policyRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stats := &PolicyStats{}
	for _, p := range policies {
		switch p.Status {
		case models.PolicyStatusActive:
			stats.Active++
		case models.PolicyStatusExpiringSoon:
			stats.Expiring++
		case models.PolicyStatusExpired:
			stats.Expired++
		case models.PolicyStatusPendingApproval:
			stats.Pending++
		}
	}
	return stats, nil
}

// GetPolicy is a plain lookup.
func (s *InsuranceService) GetPolicy(ctx context.Context, id uuid.UUID) (*models.InsurancePolicy, error) {
	policy, err := s.policyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, utils.ErrPolicyNotFound
	}
	return policy, nil
}

// ListPoliciesForTenant supports the tenant-facing compliance view.
func (s *InsuranceService) ListPoliciesForTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.InsurancePolicy, error) {
	return s.policyRepo.ListByTenantID(ctx, tenantID)
}

func (s *InsuranceService) publishStatusChange(ctx context.Context, policyID uuid.UUID, from, to models.PolicyStatus) {
	evt := events.NewEvent(events.TypePolicyStatusChanged, policyID.String(), events.PolicyStatusChangedPayload{
		PolicyID:  policyID,
		OldStatus: from,
		NewStatus: to,
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		utils.Logger.WithError(err).Errorf("failed to publish %s event for %s", evt.Type, evt.Key)
	}
}
