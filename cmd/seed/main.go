package main

import (
	"context"
	"log"
	"os"
	"time"

	"agripivot_backend/internal/feature/ingest/usecase"
	pricesadapters "agripivot_backend/internal/feature/prices/adapters"
	"agripivot_backend/internal/platform/db"
)

const (
	defaultPrimaryCSV = "onion_master_data.csv"
	defaultSampleCSV  = "sample_onion_data.csv"
)

func main() {
	primary := os.Getenv("ONION_MASTER_CSV")
	if primary == "" {
		primary = defaultPrimaryCSV
	}

	path, ok := usecase.PickDataFile(primary, defaultSampleCSV)
	if !ok {
		log.Println("no data source: neither", primary, "nor", defaultSampleCSV, "exists")
		return
	}

	db := db.OpenDB()
	priceRepo := pricesadapters.NewPriceRepository(db)
	uc := usecase.NewSeedUsecase(priceRepo)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := uc.SeedFromCSV(ctx, path)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("seed ok: inserted=%d skipped_missing=%d skipped_bad_price=%d",
		report.Inserted, report.SkippedMissing, report.SkippedBadPrice)
}
