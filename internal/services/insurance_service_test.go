package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dwellwise/leasing-service/internal/events"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/utils"
)

func TestNextComplianceStatus(t *testing.T) {
	today := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		status  models.PolicyStatus
		endDate time.Time
		want    models.PolicyStatus
	}{
		{"active far out", models.PolicyStatusActive, today.AddDate(0, 6, 0), models.PolicyStatusActive},
		{"active exactly 31 days left", models.PolicyStatusActive, today.AddDate(0, 0, 31), models.PolicyStatusActive},
		{"active 30 days left", models.PolicyStatusActive, today.AddDate(0, 0, 30), models.PolicyStatusExpiringSoon},
		{"active ends today", models.PolicyStatusActive, today, models.PolicyStatusExpiringSoon},
		{"active past end", models.PolicyStatusActive, today.AddDate(0, 0, -1), models.PolicyStatusExpired},
		{"expiring soon past end", models.PolicyStatusExpiringSoon, today.AddDate(0, 0, -1), models.PolicyStatusExpired},
		{"expiring soon end moved out", models.PolicyStatusExpiringSoon, today.AddDate(0, 6, 0), models.PolicyStatusActive},
		{"pending untouched", models.PolicyStatusPendingApproval, today.AddDate(0, 0, -10), models.PolicyStatusPendingApproval},
		{"rejected untouched", models.PolicyStatusRejected, today.AddDate(0, 0, -10), models.PolicyStatusRejected},
		{"expired is terminal", models.PolicyStatusExpired, today.AddDate(1, 0, 0), models.PolicyStatusExpired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NextComplianceStatus(tc.status, today, tc.endDate)
			require.Equal(t, tc.want, got)
		})
	}
}

func (f *fixture) submitPolicy(t *testing.T, endDate time.Time) *models.InsurancePolicy {
	t.Helper()
	p, err := f.insurance.SubmitPolicy(context.Background(), SubmitPolicyInput{
		TenantID:     uuid.New(),
		UnitID:       uuid.New(),
		PropertyID:   uuid.New(),
		Provider:     "Acme Mutual",
		PolicyNumber: "AM-0042",
		StartDate:    endDate.AddDate(-1, 0, 0),
		EndDate:      endDate,
	})
	require.NoError(t, err)
	require.Equal(t, models.PolicyStatusPendingApproval, p.Status)
	return p
}

func TestApproveAndRejectPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	end := time.Now().UTC().AddDate(1, 0, 0)

	p1 := f.submitPolicy(t, end)
	approved, err := f.insurance.ApprovePolicy(ctx, p1.ID)
	require.NoError(t, err)
	require.Equal(t, models.PolicyStatusActive, approved.Status)

	p2 := f.submitPolicy(t, end)
	rejected, err := f.insurance.RejectPolicy(ctx, p2.ID, "coverage below minimum")
	require.NoError(t, err)
	require.Equal(t, models.PolicyStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)

	// review is a one-shot decision
	_, err = f.insurance.ApprovePolicy(ctx, p1.ID)
	require.ErrorIs(t, err, utils.ErrWrongStatus)
	_, err = f.insurance.ApprovePolicy(ctx, p2.ID)
	require.ErrorIs(t, err, utils.ErrWrongStatus)

	require.Len(t, f.publisher.EventsOfType(events.TypePolicyStatusChanged), 2)
}

func TestRejectPolicyRequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.submitPolicy(t, time.Now().UTC().AddDate(1, 0, 0))

	_, err := f.insurance.RejectPolicy(ctx, p.ID, "   ")
	require.ErrorIs(t, err, utils.ErrMissingReason)

	got, err := f.insurance.GetPolicy(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, models.PolicyStatusPendingApproval, got.Status)
}

func TestSubmitPolicyRejectsInvertedDates(t *testing.T) {
	f := newFixture(t)
	end := time.Now().UTC()
	_, err := f.insurance.SubmitPolicy(context.Background(), SubmitPolicyInput{
		TenantID:     uuid.New(),
		UnitID:       uuid.New(),
		PropertyID:   uuid.New(),
		Provider:     "Acme Mutual",
		PolicyNumber: "AM-0042",
		StartDate:    end.AddDate(0, 1, 0),
		EndDate:      end,
	})
	require.ErrorIs(t, err, utils.ErrInvalidDateRange)
}

func TestRecomputeAllTransitionsAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	expiring := f.submitPolicy(t, today.AddDate(0, 0, 10))
	expired := f.submitPolicy(t, today.AddDate(0, 0, -1))
	healthy := f.submitPolicy(t, today.AddDate(1, 0, 0))
	pending := f.submitPolicy(t, today.AddDate(0, 0, 5))

	for _, p := range []*models.InsurancePolicy{expiring, expired, healthy} {
		_, err := f.insurance.ApprovePolicy(ctx, p.ID)
		require.NoError(t, err)
	}
	reviewEvents := len(f.publisher.EventsOfType(events.TypePolicyStatusChanged))

	require.NoError(t, f.insurance.RecomputeAll(ctx, today))

	assertStatus := func(id uuid.UUID, want models.PolicyStatus) {
		t.Helper()
		got, err := f.insurance.GetPolicy(ctx, id)
		require.NoError(t, err)
		require.Equal(t, want, got.Status)
	}
	assertStatus(expiring.ID, models.PolicyStatusExpiringSoon)
	assertStatus(expired.ID, models.PolicyStatusExpired)
	assertStatus(healthy.ID, models.PolicyStatusActive)
	assertStatus(pending.ID, models.PolicyStatusPendingApproval)

	sweepEvents := len(f.publisher.EventsOfType(events.TypePolicyStatusChanged)) - reviewEvents
	require.Equal(t, 2, sweepEvents)

	// same day again: no further transitions, no further events
	require.NoError(t, f.insurance.RecomputeAll(ctx, today))
	require.Equal(t, sweepEvents+reviewEvents, len(f.publisher.EventsOfType(events.TypePolicyStatusChanged)))
}

func TestRecomputeAllStopsOnCancelledContext(t *testing.T) {
	f := newFixture(t)
	today := time.Now().UTC()
	p := f.submitPolicy(t, today.AddDate(0, 0, -1))
	_, err := f.insurance.ApprovePolicy(context.Background(), p.ID)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = f.insurance.RecomputeAll(ctx, today)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPolicyStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	active := f.submitPolicy(t, today.AddDate(1, 0, 0))
	expiring := f.submitPolicy(t, today.AddDate(0, 0, 7))
	expired := f.submitPolicy(t, today.AddDate(0, 0, -3))
	f.submitPolicy(t, today.AddDate(0, 6, 0)) // stays pending

	for _, p := range []*models.InsurancePolicy{active, expiring, expired} {
		_, err := f.insurance.ApprovePolicy(ctx, p.ID)
		require.NoError(t, err)
	}
	require.NoError(t, f.insurance.RecomputeAll(ctx, today))

	stats, err := f.insurance.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, &PolicyStats{Active: 1, Expiring: 1, Expired: 1, Pending: 1}, stats)
}
