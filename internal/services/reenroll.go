package services

import (
	"time"
	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/models"

	"gorm.io/gorm"
)

// yearEndCatchAllMonth is the first month of the year-end window in which
// every last-year PASSED cycle is re-enrolled regardless of age.
const yearEndCatchAllMonth = time.November

// ReenrollService opens next-year cycles for vehicles whose previous cycle
// resolved as PASSED. It runs out-of-band, invoked periodically by an
// external scheduler.
type ReenrollService struct {
	db  *gorm.DB
	cfg config.InspectionConfig
}

// NewReenrollService creates a new ReenrollService.
func NewReenrollService(db *gorm.DB, cfg config.InspectionConfig) *ReenrollService {
	return &ReenrollService{db: db, cfg: cfg}
}

// Run scans last year's PASSED cycles and creates PENDING cycles for the
// current year where none exists. In November and December every last-year
// PASSED cycle qualifies; in earlier months only cycles resolved at least
// the configured cutoff ago do. The run is idempotent and its inserts are
// one transaction. Returns the number of cycles created.
func (s *ReenrollService) Run(now time.Time) (int, error) {
	currentYear := now.Year()
	lastYear := currentYear - 1

	query := s.db.Model(&models.AnnualInspection{}).
		Where("year = ? AND status = ?", lastYear, models.AnnualPassed)
	if now.Month() < yearEndCatchAllMonth {
		cutoff := now.AddDate(0, 0, -s.cfg.ReenrollCutoffDays)
		query = query.Where("updated_at <= ?", cutoff)
	}

	var passed []models.AnnualInspection
	if err := query.Find(&passed).Error; err != nil {
		return 0, err
	}
	if len(passed) == 0 {
		return 0, nil
	}

	vehicleIDs := make([]string, 0, len(passed))
	for _, inspection := range passed {
		vehicleIDs = append(vehicleIDs, inspection.VehicleID)
	}

	var existingIDs []string
	err := s.db.Model(&models.AnnualInspection{}).
		Where("year = ? AND vehicle_id IN ?", currentYear, vehicleIDs).
		Pluck("vehicle_id", &existingIDs).Error
	if err != nil {
		return 0, err
	}
	existing := make(map[string]struct{}, len(existingIDs))
	for _, id := range existingIDs {
		existing[id] = struct{}{}
	}

	created := 0
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, inspection := range passed {
			if _, ok := existing[inspection.VehicleID]; ok {
				continue
			}
			next := models.AnnualInspection{
				VehicleID:    inspection.VehicleID,
				Year:         currentYear,
				Status:       models.AnnualPending,
				AttemptCount: 0,
			}
			if err := tx.Create(&next).Error; err != nil {
				// A live appointment request created this vehicle's cycle
				// between our read and the insert; that is benign.
				if isUniqueViolation(err) {
					continue
				}
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}
