package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dwellwise/leasing-service/internal/dtos"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/services"
	"github.com/dwellwise/leasing-service/internal/utils"
)

type TenantController struct {
	tenants *services.TenantService
}

func NewTenantController(ts *services.TenantService) *TenantController {
	return &TenantController{tenants: ts}
}

var tenantValidate = validator.New()

// POST /api/v1/tenants
func (c *TenantController) CreateTenantHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := tenantValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	tenant, err := c.tenants.CreateTenant(ctx, services.CreateTenantInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		utils.Logger.WithError(err).Error("CreateTenant error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not create tenant", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToTenantResponse(tenant, models.TenantLeaseNone))
}

// POST /api/v1/tenants/residents
func (c *TenantController) AddResidentHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.AddResidentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := tenantValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	resident, err := c.tenants.AddResident(ctx, req.ParentTenantID, services.CreateTenantInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrTenantNotFound):
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Parent tenant not found", nil, nil)
		case errors.Is(err, utils.ErrResidentChain):
			utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Residents can only be attached to a primary tenant", nil, nil)
		default:
			utils.Logger.WithError(err).Error("AddResident error")
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not add resident", nil, err)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToTenantResponse(resident, models.TenantLeaseNone))
}

// GET /api/v1/tenants/{id}
func (c *TenantController) GetTenantHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	tenant, err := c.tenants.GetTenant(r.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrTenantNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Tenant not found", nil, nil)
			return
		}
		utils.Logger.WithError(err).Error("GetTenant error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not load tenant", nil, err)
		return
	}
	leaseStatus, err := c.tenants.LeaseStatus(r.Context(), id)
	if err != nil {
		utils.Logger.WithError(err).Error("GetTenant lease status error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not load tenant", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToTenantResponse(tenant, leaseStatus))
}
