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

type ModeSwitchController struct {
	modeSwitch *services.ModeSwitchService
}

func NewModeSwitchController(ms *services.ModeSwitchService) *ModeSwitchController {
	return &ModeSwitchController{modeSwitch: ms}
}

var modeSwitchValidate = validator.New()

// POST /api/v1/units/switch-mode
func (c *ModeSwitchController) SwitchModeHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.SwitchModeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := modeSwitchValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	unit, err := c.modeSwitch.SwitchMode(ctx, req.UnitID, req.TargetMode)
	if err != nil {
		var blocked *utils.ModeSwitchBlockedError
		switch {
		case errors.As(err, &blocked):
			utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeModeSwitchBlocked, "Mode switch refused", blocked.Blockers, nil)
		case errors.Is(err, utils.ErrUnitNotFound):
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Unit not found", nil, nil)
		case errors.Is(err, utils.ErrRowVersionConflict):
			utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeRowVersionConflict, "Unit was updated concurrently, retry", nil, nil)
		default:
			utils.Logger.WithError(err).Error("SwitchMode error")
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not switch mode", nil, err)
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.SwitchModeResponse{
		UnitID:     unit.ID,
		RentalMode: unit.RentalMode,
	})
}

// GET /api/v1/units/{id}/can-switch-mode
func (c *ModeSwitchController) CanSwitchModeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	allowed, blockers, err := c.modeSwitch.CanSwitchMode(r.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrUnitNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Unit not found", nil, nil)
			return
		}
		utils.Logger.WithError(err).Error("CanSwitchMode error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not evaluate mode switch", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.CanSwitchModeResponse{
		Allowed:  allowed,
		Blockers: blockers,
	})
}
