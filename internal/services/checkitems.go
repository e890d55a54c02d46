package services

import (
	"errors"
	"strings"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"gorm.io/gorm"
)

// CheckItemService manages the fixed catalog of inspected categories. The
// completion engine depends on the catalog holding exactly eight templates.
type CheckItemService struct {
	db *gorm.DB
}

// NewCheckItemService creates a new CheckItemService.
func NewCheckItemService(db *gorm.DB) *CheckItemService {
	return &CheckItemService{db: db}
}

// List returns all templates ordered by ordinal.
func (s *CheckItemService) List() ([]models.CheckItemTemplate, error) {
	var templates []models.CheckItemTemplate
	if err := s.db.Order("ordinal asc").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Get returns one template by ID.
func (s *CheckItemService) Get(templateID string) (*models.CheckItemTemplate, error) {
	var template models.CheckItemTemplate
	if err := s.db.First(&template, "id = ?", templateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("check item template")
		}
		return nil, err
	}
	return &template, nil
}

// Create adds a template. Codes are stored uppercased; code and ordinal must
// be unique.
func (s *CheckItemService) Create(code, description string, ordinal int) (*models.CheckItemTemplate, error) {
	code = strings.ToUpper(code)

	var count int64
	if err := s.db.Model(&models.CheckItemTemplate{}).
		Where("code = ?", code).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.Conflict("a template with this code already exists")
	}
	if err := s.db.Model(&models.CheckItemTemplate{}).
		Where("ordinal = ?", ordinal).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, domain.Conflict("a template with this ordinal already exists")
	}

	template := models.CheckItemTemplate{
		Code:        code,
		Description: description,
		Ordinal:     ordinal,
	}
	if err := s.db.Create(&template).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("a template with this code or ordinal already exists")
		}
		return nil, err
	}
	return &template, nil
}

// Update changes the description of a template. Codes and ordinals are fixed
// once created; scoring history references them.
func (s *CheckItemService) Update(templateID, description string) (*models.CheckItemTemplate, error) {
	template, err := s.Get(templateID)
	if err != nil {
		return nil, err
	}
	template.Description = description
	if err := s.db.Save(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}
