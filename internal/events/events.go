package events

import (
	"context"
	"time"

	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/google/uuid"
)

// Event types consumed by the invoicing/notification collaborators.
// Delivery is at-least-once; consumers must be idempotent on the
// entity id carried in the payload.
const (
	TypeLeaseCreated        = "lease_created"
	TypeLeaseEnded          = "lease_ended"
	TypeUnitModeChanged     = "unit_mode_changed"
	TypePolicyStatusChanged = "insurance_policy_status_changed"
)

// Event is the envelope written to the broker. Key is the partition key
// (the entity id), Payload one of the structs below.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type LeaseCreatedPayload struct {
	LeaseID         uuid.UUID  `json:"lease_id"`
	UnitID          uuid.UUID  `json:"unit_id"`
	BedroomID       *uuid.UUID `json:"bedroom_id,omitempty"`
	TenantID        uuid.UUID  `json:"tenant_id"`
	MonthlyRent     float64    `json:"monthly_rent"`
	SecurityDeposit float64    `json:"security_deposit"`
}

type LeaseEndedPayload struct {
	LeaseID   uuid.UUID  `json:"lease_id"`
	UnitID    uuid.UUID  `json:"unit_id"`
	BedroomID *uuid.UUID `json:"bedroom_id,omitempty"`
}

type UnitModeChangedPayload struct {
	UnitID  uuid.UUID         `json:"unit_id"`
	OldMode models.RentalMode `json:"old_mode"`
	NewMode models.RentalMode `json:"new_mode"`
}

type PolicyStatusChangedPayload struct {
	PolicyID  uuid.UUID           `json:"policy_id"`
	OldStatus models.PolicyStatus `json:"old_status"`
	NewStatus models.PolicyStatus `json:"new_status"`
}

// Publisher sends engine events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

// NewEvent stamps the envelope.
func NewEvent(eventType, key string, payload any) Event {
	return Event{
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
