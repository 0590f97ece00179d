package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dwellwise/leasing-service/internal/dtos"
	"github.com/dwellwise/leasing-service/internal/models"
	"github.com/dwellwise/leasing-service/internal/services"
	"github.com/dwellwise/leasing-service/internal/utils"
)

type InventoryController struct {
	inventory *services.InventoryService
}

func NewInventoryController(inv *services.InventoryService) *InventoryController {
	return &InventoryController{inventory: inv}
}

var inventoryValidate = validator.New()

// POST /api/v1/properties
func (c *InventoryController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := inventoryValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}

	prop, err := c.inventory.CreateProperty(ctx, services.CreatePropertyInput{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		utils.Logger.WithError(err).Error("CreateProperty error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not create property", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToPropertyResponse(prop))
}

// GET /api/v1/properties
func (c *InventoryController) ListPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	props, err := c.inventory.ListProperties(r.Context())
	if err != nil {
		utils.Logger.WithError(err).Error("ListProperties error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not list properties", nil, err)
		return
	}
	out := make([]dtos.PropertyResponse, 0, len(props))
	for _, p := range props {
		out = append(out, dtos.ToPropertyResponse(p))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// POST /api/v1/units
func (c *InventoryController) CreateUnitHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dtos.CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON body", nil, err)
		return
	}
	if err := inventoryValidate.StructCtx(ctx, req); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Validation failed", err.Error(), err)
		return
	}
	if req.RentalMode == models.RentalModeBedroom && req.BedroomCount < 1 {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "BEDROOM mode requires bedroom_count >= 1", nil, nil)
		return
	}

	unit, err := c.inventory.CreateUnit(ctx, services.CreateUnitInput{
		PropertyID:   req.PropertyID,
		Identifier:   req.Identifier,
		Floor:        req.Floor,
		BedroomCount: req.BedroomCount,
		RentalMode:   req.RentalMode,
	})
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrPropertyNotFound):
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Property not found", nil, nil)
		case errors.Is(err, utils.ErrPropertyInactive):
			utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Property is not active", nil, nil)
		default:
			utils.Logger.WithError(err).Error("CreateUnit error")
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not create unit", nil, err)
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dtos.ToUnitResponse(unit, models.OccupancyVacant, nil))
}

// GET /api/v1/units/{id}
func (c *InventoryController) GetUnitHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	unit, status, bedrooms, err := c.inventory.GetUnit(r.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrUnitNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Unit not found", nil, nil)
			return
		}
		utils.Logger.WithError(err).Error("GetUnit error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not load unit", nil, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToUnitResponse(unit, status, bedrooms))
}

// GET /api/v1/units/eligible?lease_type=FULL_UNIT|BEDROOM&property_id=...
func (c *InventoryController) ListEligibleUnitsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	propertyID := uuid.Nil
	if raw := r.URL.Query().Get("property_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid property_id", nil, err)
			return
		}
		propertyID = parsed
	}

	var (
		units []*models.Unit
		err   error
	)
	switch leaseType := r.URL.Query().Get("lease_type"); leaseType {
	case "", string(models.RentalModeFullUnit):
		units, err = c.inventory.EligibleUnitsForFullUnitLease(ctx, propertyID)
	case string(models.RentalModeBedroom):
		units, err = c.inventory.EligibleUnitsForBedroomLease(ctx, propertyID)
	default:
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "lease_type must be FULL_UNIT or BEDROOM", nil, nil)
		return
	}
	if err != nil {
		utils.Logger.WithError(err).Error("ListEligibleUnits error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not list eligible units", nil, err)
		return
	}

	out := make([]dtos.UnitResponse, 0, len(units))
	for _, u := range units {
		status, sErr := c.inventory.UnitStatus(ctx, u.ID)
		if sErr != nil {
			utils.Logger.WithError(sErr).Error("ListEligibleUnits status error")
			utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not list eligible units", nil, sErr)
			return
		}
		out = append(out, dtos.ToUnitResponse(u, status, nil))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

// GET /api/v1/units/{id}/bedrooms/eligible
func (c *InventoryController) ListEligibleBedroomsHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	bedrooms, err := c.inventory.EligibleBedrooms(r.Context(), id)
	if err != nil {
		if errors.Is(err, utils.ErrUnitNotFound) {
			utils.RespondErrorWithCode(w, http.StatusNotFound, utils.ErrCodeNotFound, "Unit not found", nil, nil)
			return
		}
		utils.Logger.WithError(err).Error("ListEligibleBedrooms error")
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Could not list bedrooms", nil, err)
		return
	}
	out := make([]dtos.BedroomResponse, 0, len(bedrooms))
	for _, b := range bedrooms {
		out = append(out, dtos.ToBedroomResponse(b))
	}
	utils.RespondWithJSON(w, http.StatusOK, out)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid "+name+" in path", nil, err)
		return uuid.Nil, false
	}
	return id, true
}
