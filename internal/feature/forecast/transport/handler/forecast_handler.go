// Package handler provides the HTTP handlers for the forecast feature.
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"agripivot_backend/internal/api"
	"agripivot_backend/internal/feature/forecast/domain/entity"
)

// ForecastUsecase is the orchestration interface this handler depends on.
// Following Go convention, the interface is defined by the consumer (handler).
type ForecastUsecase interface {
	Predict(ctx context.Context, commodity string) ([]entity.SeriesPoint, error)
}

// ForecastHandler serves the combined history+forecast series.
type ForecastHandler struct {
	uc ForecastUsecase
}

func NewForecastHandler(uc ForecastUsecase) *ForecastHandler {
	return &ForecastHandler{uc: uc}
}

// PredictHandler returns the price outlook for a commodity.
//
// Endpoint:
// GET /api/predict/:commodity
//
// Degraded mode (model absent or failed) still answers 200; callers detect it
// through the confidence field. Only a store failure yields a 500.
func (h *ForecastHandler) PredictHandler(c *gin.Context) {
	commodity := c.Param("commodity")

	points, err := h.uc.Predict(c.Request.Context(), commodity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]api.SeriesPointResponse, 0, len(points))
	for _, p := range points {
		resp := api.SeriesPointResponse{
			Date:  p.Date,
			Price: p.Price,
			Type:  string(p.Type),
		}
		if p.Type == entity.TypeForecast {
			lower, upper := p.YhatLower, p.YhatUpper
			resp.YhatLower = &lower
			resp.YhatUpper = &upper
			resp.Confidence = p.Confidence
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, out)
}
