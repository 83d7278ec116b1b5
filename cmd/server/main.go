package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"agripivot_backend/internal/app/router"
	forecasthandler "agripivot_backend/internal/feature/forecast/transport/handler"
	forecastusecase "agripivot_backend/internal/feature/forecast/usecase"
	pricesadapters "agripivot_backend/internal/feature/prices/adapters"
	"agripivot_backend/internal/platform/cache"
	"agripivot_backend/internal/platform/db"
	platformredis "agripivot_backend/internal/platform/redis"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	// db
	db := db.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository, cached until the next morning price refresh
	priceRepo := pricesadapters.NewPriceRepository(db)
	cachedPrices := cache.NewCachingPriceRepository(rdb, cache.TimeUntilNextMandiRefresh(), priceRepo, "prices")

	// Model availability is a deployment fact, resolved once here and fixed
	// for the process lifetime. FORECAST_ENGINE=synthetic disables the fit.
	var model forecastusecase.Forecaster
	if os.Getenv("FORECAST_ENGINE") == "synthetic" {
		log.Println("[WARN] Seasonal engine disabled. Serving synthetic forecasts only.")
	} else {
		model = forecastusecase.NewSeasonalForecaster()
	}

	// Usecase
	forecastUC := forecastusecase.NewForecastUsecase(cachedPrices, model)

	// Handler
	forecastH := forecasthandler.NewForecastHandler(forecastUC)

	router := router.NewRouter(forecastH)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
