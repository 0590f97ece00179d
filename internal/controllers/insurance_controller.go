package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dwellwise/leasing-service/internal/dtos"
	"github.com/dwellwise/leasing-service/internal/services"
	"github.com/dwellwise/leasing-service/internal/utils"
)

type InsuranceController struct {
	insurance *services.InsuranceService
}

func NewInsuranceController(is *services.InsuranceService) *InsuranceController {
	return &InsuranceController{insurance: is}
}

var insuranceValidate = validator.New()

// POST /api/v1/insurance/policies
func (c *InsuranceController) SubmitPolicyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.SubmitPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := insuranceValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	policy, err := c.insurance.SubmitPolicy(ctx, services.SubmitPolicyInput{
		TenantID:     req.TenantID,
		UnitID:       req.UnitID,
		PropertyID:   req.PropertyID,
		Provider:     req.Provider,
		PolicyNumber: req.PolicyNumber,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		respondInsuranceError(w, err, "SubmitPolicy")
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToPolicyResponse(policy))
}

// POST /api/v1/insurance/policies/{id}/approve
func (c *InsuranceController) ApprovePolicyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	policy, err := c.insurance.ApprovePolicy(r.Context(), id)
	if err != nil {
		respondInsuranceError(w, err, "ApprovePolicy")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToPolicyResponse(policy))
}

// POST /api/v1/insurance/policies/{id}/reject
func (c *InsuranceController) RejectPolicyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req dtos.ReviewPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}

	policy, err := c.insurance.RejectPolicy(r.Context(), id, req.Reason)
	if err != nil {
		respondInsuranceError(w, err, "RejectPolicy")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToPolicyResponse(policy))
}

// GET /api/v1/insurance/policies/{id}
func (c *InsuranceController) GetPolicyHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	policy, err := c.insurance.GetPolicy(r.Context(), id)
	if err != nil {
		respondInsuranceError(w, err, "GetPolicy")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToPolicyResponse(policy))
}

// GET /api/v1/insurance/tenants/{id}/policies
func (c *InsuranceController) ListTenantPoliciesHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	policies, err := c.insurance.ListPoliciesForTenant(r.Context(), id)
	if err != nil {
		respondInsuranceError(w, err, "ListTenantPolicies")
		return
	}
	out := make([]dtos.PolicyResponse, 0, len(policies))
	for _, p := range policies {
		out = append(out, dtos.ToPolicyResponse(p))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GET /api/v1/insurance/stats
func (c *InsuranceController) StatsHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := c.insurance.Stats(r.Context())
	if err != nil {
		respondInsuranceError(w, err, "Stats")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.PolicyStatsResponse{
		Active:   stats.Active,
		Expiring: stats.Expiring,
		Expired:  stats.Expired,
		Pending:  stats.Pending,
	})
}

func respondInsuranceError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, utils.ErrPolicyNotFound):
		utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Policy not found", nil, nil)
	case errors.Is(err, utils.ErrWrongStatus):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeWrongStatus, "Policy is not pending approval", nil, nil)
	case errors.Is(err, utils.ErrMissingReason):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeMissingReason, "Rejection requires a reason", nil, nil)
	case errors.Is(err, utils.ErrInvalidDateRange):
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidDateRange, "Policy end date must not precede its start date", nil, nil)
	case errors.Is(err, utils.ErrRowVersionConflict):
		utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "Policy was updated concurrently, retry", nil, nil)
	default:
		utils.Logger.WithError(err).Errorf("%s error", op)
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Insurance operation failed", nil, err)
	}
}
