package dtos

import (
	"github.com/google/uuid"

	"github.com/dwellwise/leasing-service/internal/models"
)

type CreateTenantRequest struct {
	FullName string `json:"full_name" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,min=7"`
}

type AddResidentRequest struct {
	ParentTenantID uuid.UUID `json:"parent_tenant_id" validate:"required"`
	FullName       string    `json:"full_name" validate:"required,min=1"`
	Email          string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string    `json:"phone,omitempty" validate:"omitempty,min=7"`
}

type TenantResponse struct {
	ID             uuid.UUID                `json:"id"`
	Type           models.TenantType        `json:"type"`
	ParentTenantID *uuid.UUID               `json:"parent_tenant_id,omitempty"`
	FullName       string                   `json:"full_name"`
	Email          string                   `json:"email"`
	Phone          string                   `json:"phone,omitempty"`
	LeaseStatus    models.TenantLeaseStatus `json:"lease_status"`
}

func ToTenantResponse(t *models.Tenant, leaseStatus models.TenantLeaseStatus) TenantResponse {
	return TenantResponse{
		ID:             t.ID,
		Type:           t.Type,
		ParentTenantID: t.ParentTenantID,
		FullName:       t.FullName,
		Email:          t.Email,
		Phone:          t.Phone,
		LeaseStatus:    leaseStatus,
	}
}
