package services

import (
	"errors"
	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"gorm.io/gorm"
)

// ResultService is the read model over finalized inspection results.
// Results are written only by the completion engine and immutable here.
type ResultService struct {
	db  *gorm.DB
	cfg config.InspectionConfig
}

// NewResultService creates a new ResultService.
func NewResultService(db *gorm.DB, cfg config.InspectionConfig) *ResultService {
	return &ResultService{db: db, cfg: cfg}
}

// ResultListFilter carries the optional list filters.
type ResultListFilter struct {
	Year       *int
	VehicleID  string
	PassedOnly *bool
	Page       int
	PageSize   int
}

// List returns results visible to the caller. Clients see only results for
// their own vehicles.
func (s *ResultService) List(filter ResultListFilter, caller *models.User) ([]models.InspectionResult, int64, error) {
	query := s.db.Model(&models.InspectionResult{}).
		Joins("JOIN annual_inspections ON annual_inspections.id = inspection_results.annual_inspection_id")

	if caller.Role == models.RoleClient {
		query = query.
			Joins("JOIN vehicles ON vehicles.id = annual_inspections.vehicle_id").
			Where("vehicles.owner_id = ?", caller.ID)
	}
	if filter.Year != nil {
		query = query.Where("annual_inspections.year = ?", *filter.Year)
	}
	if filter.VehicleID != "" {
		query = query.Where("annual_inspections.vehicle_id = ?", filter.VehicleID)
	}
	if filter.PassedOnly != nil {
		if *filter.PassedOnly {
			query = query.Where("inspection_results.total_score >= ?", s.cfg.PassingScore)
		} else {
			query = query.Where("inspection_results.total_score < ?", s.cfg.PassingScore)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var results []models.InspectionResult
	err := query.Order("inspection_results.created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&results).Error
	if err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Get returns one result with its item checks in ordinal order, enforcing
// client ownership.
func (s *ResultService) Get(resultID string, caller *models.User) (*models.InspectionResult, error) {
	var result models.InspectionResult
	err := s.db.
		Preload("ItemChecks", func(db *gorm.DB) *gorm.DB {
			return db.Joins("JOIN check_item_templates ON check_item_templates.id = item_checks.check_item_template_id").
				Order("check_item_templates.ordinal asc")
		}).
		Preload("ItemChecks.Template").
		First(&result, "id = ?", resultID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("inspection result")
		}
		return nil, err
	}

	if caller.Role == models.RoleClient {
		var annual models.AnnualInspection
		if err := s.db.Preload("Vehicle").First(&annual, "id = ?", result.AnnualInspectionID).Error; err != nil {
			return nil, err
		}
		if annual.Vehicle.OwnerID != caller.ID {
			return nil, domain.Forbidden("you cannot view this result")
		}
	}
	return &result, nil
}
