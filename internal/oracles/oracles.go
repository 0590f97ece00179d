// Package oracles wraps the read-only external collaborators the
// mode-switch guard consults. All calls have a bounded timeout; a
// timeout or transport failure is surfaced as an error and treated as a
// blocker by the guard, never as "allowed".
package oracles

import (
	"context"

	"github.com/google/uuid"
)

// InvoiceLedger reports whether a unit has an unpaid invoice.
type InvoiceLedger interface {
	HasPendingInvoice(ctx context.Context, unitID uuid.UUID) (bool, error)
}

// MaintenanceTracker reports whether a unit has a ticket in a
// non-terminal state.
type MaintenanceTracker interface {
	HasOpenTicket(ctx context.Context, unitID uuid.UUID) (bool, error)
}
