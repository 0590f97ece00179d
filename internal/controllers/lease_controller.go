package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dwellwise/leasing-service/internal/dtos"
	"github.com/dwellwise/leasing-service/internal/services"
	"github.com/dwellwise/leasing-service/internal/utils"
)

type LeaseController struct {
	leases *services.LeaseService
}

func NewLeaseController(ls *services.LeaseService) *LeaseController {
	return &LeaseController{leases: ls}
}

var leaseValidate = validator.New()

// POST /api/v1/leases
func (c *LeaseController) CreateLeaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.CreateLeaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := leaseValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	lease, err := c.leases.CreateLease(ctx, services.CreateLeaseInput{
		UnitID:          req.UnitID,
		BedroomID:       req.BedroomID,
		PrimaryTenantID: req.PrimaryTenantID,
		CoTenantIDs:     req.CoTenantIDs,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
	})
	if err != nil {
		respondLeaseError(w, err, "CreateLease")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToLeaseResponse(lease))
}

// POST /api/v1/leases/draft
func (c *LeaseController) CreateDraftHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.CreateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := leaseValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	lease, err := c.leases.CreateDraft(ctx, services.CreateDraftInput{
		UnitID:    req.UnitID,
		BedroomID: req.BedroomID,
		TenantID:  req.TenantID,
	})
	if err != nil {
		respondLeaseError(w, err, "CreateDraft")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToLeaseResponse(lease))
}

// POST /api/v1/leases/{id}/activate
func (c *LeaseController) ActivateDraftHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.ActivateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	req.LeaseID = id
	if err := leaseValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	lease, err := c.leases.ActivateDraft(ctx, id, services.ActivateDraftInput{
		PrimaryTenantID: req.PrimaryTenantID,
		CoTenantIDs:     req.CoTenantIDs,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		MonthlyRent:     req.MonthlyRent,
		SecurityDeposit: req.SecurityDeposit,
	})
	if err != nil {
		respondLeaseError(w, err, "ActivateDraft")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToLeaseResponse(lease))
}

// POST /api/v1/leases/{id}/cancel
func (c *LeaseController) CancelLeaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	lease, err := c.leases.CancelLease(r.Context(), id)
	if err != nil {
		respondLeaseError(w, err, "CancelLease")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToLeaseResponse(lease))
}

// POST /api/v1/leases/{id}/end
func (c *LeaseController) EndLeaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		EndDate *time.Time `json:"end_date,omitempty"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
			return
		}
	}
	endDate := time.Now().UTC()
	if req.EndDate != nil {
		endDate = *req.EndDate
	}

	lease, err := c.leases.EndLease(r.Context(), id, endDate)
	if err != nil {
		respondLeaseError(w, err, "EndLease")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToLeaseResponse(lease))
}

// GET /api/v1/leases/{id}
func (c *LeaseController) GetLeaseHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	lease, err := c.leases.GetLease(r.Context(), id)
	if err != nil {
		respondLeaseError(w, err, "GetLease")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToLeaseResponse(lease))
}

// GET /api/v1/leases
func (c *LeaseController) ListOpenLeasesHandler(w http.ResponseWriter, r *http.Request) {
	leases, err := c.leases.ListOpenLeases(r.Context())
	if err != nil {
		respondLeaseError(w, err, "ListOpenLeases")
		return
	}
	out := make([]dtos.LeaseResponse, 0, len(leases))
	for _, l := range leases {
		out = append(out, dtos.ToLeaseResponse(l))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GET /api/v1/units/{id}/draft-lease
func (c *LeaseController) GetUnitDraftHandler(w http.ResponseWriter, r *http.Request) {
	unitID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	draft, err := c.leases.DraftLeaseFor(r.Context(), unitID)
	if err != nil {
		respondLeaseError(w, err, "DraftLeaseFor")
		return
	}
	if draft == nil {
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "No draft lease on this unit", nil)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToLeaseResponse(draft))
}

// respondLeaseError maps the lease engine's errors onto HTTP statuses.
func respondLeaseError(w http.ResponseWriter, err error, op string) {
	var (
		blocked  *utils.ModeSwitchBlockedError
		conflict *utils.RowVersionConflictError
	)
	switch {
	case errors.As(err, &blocked):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeModeSwitchBlocked, "Unit must be switched to FULL_UNIT mode first", blocked.Blockers, nil)
	case errors.As(err, &conflict):
		details := any(nil)
		if conflict.Current != nil {
			resp := dtos.ToLeaseResponse(conflict.Current)
			details = resp
		}
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "Lease was updated concurrently", details, nil)
	case errors.Is(err, utils.ErrUnitNotFound),
		errors.Is(err, utils.ErrBedroomNotFound),
		errors.Is(err, utils.ErrLeaseNotFound),
		errors.Is(err, utils.ErrPropertyNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), nil, nil)
	case errors.Is(err, utils.ErrTargetAlreadyBound):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeTargetAlreadyBound, "Target already has an open lease", nil, nil)
	case errors.Is(err, utils.ErrTargetNotLeasable):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeTargetNotLeasable, "Target cannot be leased in the unit's current mode", nil, nil)
	case errors.Is(err, utils.ErrPropertyInactive):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Property is not active", nil, nil)
	case errors.Is(err, utils.ErrInvalidTenant):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidTenant, "Tenant cannot hold this lease", nil, nil)
	case errors.Is(err, utils.ErrInvalidDateRange), errors.Is(err, utils.ErrNegativeMoney):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidDateRange, err.Error(), nil, nil)
	case errors.Is(err, utils.ErrWrongStatus):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeWrongStatus, "Lease is not in a status that allows this operation", nil, nil)
	default:
		utils.Logger.WithError(err).Errorf("%s error", op)
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Lease operation failed", nil, err)
	}
}
