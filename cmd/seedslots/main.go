package main

import (
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"
	"vehicle-inspection-server/internal/services"
)

const (
	firstSlotHour = 8
	lastSlotHour  = 14
)

// Batch tool that pre-populates hourly availability slots for upcoming
// business days. Existing and overlapping slots are left untouched.
func main() {
	days := flag.Int("days", 5, "number of business days to seed")
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

	slots := services.NewSlotService(db, cfg.Inspection)

	created := 0
	day := time.Now().AddDate(0, 0, 1)
	for seeded := 0; seeded < *days; day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}
		for hour := firstSlotHour; hour <= lastSlotHour; hour++ {
			start := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
			if _, err := slots.Create(start); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					continue
				}
				log.Fatalf("Error creating slot at %s: %v", start.Format(time.RFC3339), err)
			}
			created++
		}
		seeded++
	}
	log.Printf("Slot seeding complete: %d slot(s) created", created)
}
