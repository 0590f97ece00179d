package controllers

import (
	"context"
	"net/http"

	"github.com/dwellwise/leasing-service/internal/app"
	"github.com/dwellwise/leasing-service/internal/utils"
)

type HealthController struct {
	app *app.App
}

func NewHealthController(app *app.App) *HealthController {
	return &HealthController{app}
}

type healthCheckResponse struct {
	Status string `json:"status"`
}

// HealthCheckHandler => GET /health
func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if c.app.DB != nil {
		if err := c.app.DB.Ping(context.Background()); err != nil {
			utils.Logger.WithError(err).Error("leasing-service DB unreachable")
			utils.RespondErrorWithCode(w, http.StatusServiceUnavailable, utils.ErrCodeInternal, "Database unreachable", nil, err)
			return
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, healthCheckResponse{Status: "OK"})
}
