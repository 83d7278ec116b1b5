// Package db opens the gorm connection backing the price store.
package db

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pricesadapters "agripivot_backend/internal/feature/prices/adapters"
)

// OpenDB connects to the configured database and ensures the schema exists.
// With DATABASE_DSN set it speaks postgres; otherwise it uses the local
// sqlite file at AGRI_DB_PATH (default agri.db), which is also what the
// offline seeder writes.
func OpenDB() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		deadline := time.Now().Add(60 * time.Second)
		for {
			db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				log.Fatalf("DB connect failed after 60s: %v", err)
			}
			log.Printf("DB connect failed, retrying...: %v", err)
			time.Sleep(3 * time.Second)
		}
	} else {
		path := SQLitePath()
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open sqlite at %s: %v", path, err)
		}
	}

	// Idempotent schema creation: historical_prices plus its date index.
	if err := db.AutoMigrate(&pricesadapters.PriceModel{}); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	return db
}

// SQLitePath resolves the sqlite database location. The seeder and the server
// must agree on it, which is why it is not buried inside OpenDB.
func SQLitePath() string {
	if path := os.Getenv("AGRI_DB_PATH"); path != "" {
		return path
	}
	return "agri.db"
}
