package utils

import (
	"errors"
	"strings"

	"github.com/dwellwise/leasing-service/internal/models"
)

/*
   Sentinel errors for leasing-engine domain logic.
   Callers can do: if errors.Is(err, ErrXYZ) { ... }
*/
var (
	ErrPropertyNotFound = errors.New("property_not_found")
	ErrUnitNotFound     = errors.New("unit_not_found")
	ErrBedroomNotFound  = errors.New("bedroom_not_found")
	ErrTenantNotFound   = errors.New("tenant_not_found")
	ErrLeaseNotFound    = errors.New("lease_not_found")
	ErrPolicyNotFound   = errors.New("policy_not_found")

	ErrPropertyInactive   = errors.New("property_inactive")
	ErrTargetNotLeasable  = errors.New("target_not_leasable")
	ErrTargetAlreadyBound = errors.New("target_already_bound")
	ErrInvalidTenant      = errors.New("invalid_tenant")
	ErrInvalidDateRange   = errors.New("invalid_date_range")
	ErrNegativeMoney      = errors.New("negative_money")
	ErrResidentChain      = errors.New("resident_chain_forbidden")

	ErrWrongStatus   = errors.New("wrong_status")
	ErrMissingReason = errors.New("missing_reason")

	ErrOracleUnavailable = errors.New("oracle_unavailable")

	// For concurrency conflicts
	ErrRowVersionConflict = errors.New("row_version_conflict")
)

// Mode-switch blocker reasons. A timed-out oracle is reported as a
// blocker, never as "allowed".
const (
	BlockerActiveLeaseExists = "active_lease_exists"
	BlockerPendingInvoice    = "pending_invoice_exists"
	BlockerOpenMaintenance   = "open_maintenance_ticket"
	BlockerOracleUnavailable = "oracle_unavailable"
	BlockerUnitInBedroomMode = "unit_in_bedroom_mode"
)

/*
   ModeSwitchBlockedError is returned when a rental-mode switch (or a
   whole-unit lease against a BEDROOM-mode unit) is refused. It carries
   the structured blocker list so the controller can render a specific
   message per blocker.
*/
type ModeSwitchBlockedError struct {
	Blockers []string
}

func (e *ModeSwitchBlockedError) Error() string {
	return "mode_switch_blocked: " + strings.Join(e.Blockers, ",")
}

func NewModeSwitchBlockedError(blockers []string) error {
	return &ModeSwitchBlockedError{Blockers: blockers}
}

/*
   RowVersionConflictError is returned when there's a concurrency
   mismatch on a lease. It includes the "latest" lease so the controller
   can return it to the client if desired.
*/
type RowVersionConflictError struct {
	Current *models.Lease
}

func (e *RowVersionConflictError) Error() string {
	return "row_version_conflict"
}

func NewRowVersionConflictError(current *models.Lease) error {
	return &RowVersionConflictError{Current: current}
}
