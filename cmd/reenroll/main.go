package main

import (
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/services"
)

// Batch job that opens current-year inspection cycles for vehicles whose
// previous cycle passed. Intended to run from cron.
func main() {
	dateFlag := flag.String("date", "", "run as-of this date (YYYY-MM-DD) instead of now")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	db, err := models.InitDB(models.DatabaseConfig{DSN: cfg.Database.DSN})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	now := time.Now()
	if *dateFlag != "" {
		now, err = time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("Invalid -date value %q: %v", *dateFlag, err)
		}
	}

	created, err := services.NewReenrollService(db, cfg.Inspection).Run(now)
	if err != nil {
		log.Fatalf("Re-enrollment run failed: %v", err)
	}
	log.Printf("Re-enrollment run for %d complete: %d cycle(s) created", now.Year(), created)
}
