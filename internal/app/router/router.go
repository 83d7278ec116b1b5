package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	forecasthandler "agripivot_backend/internal/feature/forecast/transport/handler"
	platformhandler "agripivot_backend/internal/platform/http/handler"
)

// NewRouter assembles the HTTP surface. CORS is wide open: the dashboard is
// served from arbitrary origins and the API carries no credentials.
func NewRouter(forecast *forecasthandler.ForecastHandler) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"*"},
	}))

	// Liveness probe
	r.GET("/healthz", platformhandler.Health)

	api := r.Group("/api")
	{
		api.GET("/predict/:commodity", forecast.PredictHandler)
	}

	return r
}
