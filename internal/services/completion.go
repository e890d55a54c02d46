package services

import (
	"errors"
	"fmt"
	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"gorm.io/gorm"
)

// Per-item observations generated by the engine. Caller-supplied free text
// is only accepted for the overall result.
const (
	itemObservationOK        = "checked, no issues"
	itemObservationAttention = "requires attention"
	itemObservationThreshold = 5
)

// CompletionService finalizes a confirmed appointment with scored results
// and resolves the owning annual-inspection cycle to PASSED or FAILED.
type CompletionService struct {
	db  *gorm.DB
	cfg config.InspectionConfig
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(db *gorm.DB, cfg config.InspectionConfig) *CompletionService {
	return &CompletionService{db: db, cfg: cfg}
}

// CompleteInput carries the scored outcome of a finished inspection visit.
// TotalScore is the inspector's authoritative figure and is validated on its
// own range; it is not cross-checked against the item-score sum.
type CompleteInput struct {
	TotalScore       int
	ItemScores       []int
	OwnerObservation string
}

// Complete records the inspection result for the appointment. The caller
// must be the assigned inspector and the appointment must be CONFIRMED. All
// writes happen in one transaction: the result, its item checks, the cycle
// resolution and the appointment status either all persist or none do.
func (s *CompletionService) Complete(appointmentID string, input CompleteInput, caller *models.User) (*models.Appointment, error) {
	var inspector models.Inspector
	if err := s.db.First(&inspector, "user_id = ?", caller.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("inspector")
		}
		return nil, err
	}

	var appointment models.Appointment
	if err := s.db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("appointment")
		}
		return nil, err
	}

	if appointment.InspectorID == nil || *appointment.InspectorID != inspector.ID {
		return nil, domain.Forbidden("this appointment is not assigned to you")
	}
	if appointment.Status != models.StatusConfirmed {
		return nil, domain.Conflict("only confirmed appointments may be completed")
	}

	var templates []models.CheckItemTemplate
	if err := s.db.Order("ordinal asc").Find(&templates).Error; err != nil {
		return nil, err
	}
	// Deployment invariant, not a per-request condition.
	if len(templates) != models.CheckItemCount {
		return nil, domain.Internal("check item catalog is not configured correctly")
	}

	if err := s.validateScores(input); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := models.InspectionResult{
			AnnualInspectionID: appointment.AnnualInspectionID,
			AppointmentID:      appointment.ID,
			TotalScore:         input.TotalScore,
			OwnerObservation:   input.OwnerObservation,
		}
		if err := tx.Create(&result).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.Conflict("this appointment already has a result")
			}
			return err
		}

		checks := make([]models.ItemCheck, 0, len(templates))
		for i, template := range templates {
			observation := itemObservationOK
			if input.ItemScores[i] < itemObservationThreshold {
				observation = itemObservationAttention
			}
			checks = append(checks, models.ItemCheck{
				InspectionResultID:  result.ID,
				CheckItemTemplateID: template.ID,
				Score:               input.ItemScores[i],
				Observation:         observation,
			})
		}
		if err := tx.Create(&checks).Error; err != nil {
			return err
		}

		var annual models.AnnualInspection
		if err := tx.First(&annual, "id = ?", appointment.AnnualInspectionID).Error; err != nil {
			return err
		}
		next := models.AnnualFailed
		if input.TotalScore >= s.cfg.PassingScore {
			next = models.AnnualPassed
		}
		if !annual.Status.CanTransitionTo(next) {
			return domain.Conflict(fmt.Sprintf("cycle in status %s cannot be resolved", annual.Status))
		}
		annual.Status = next
		annual.CurrentResultID = &result.ID
		annual.AttemptCount++
		if err := tx.Save(&annual).Error; err != nil {
			return err
		}

		appointment.Status = models.StatusCompleted
		return tx.Save(&appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *CompletionService) validateScores(input CompleteInput) error {
	if len(input.ItemScores) != models.CheckItemCount {
		return domain.Invalid(fmt.Sprintf("exactly %d item scores are required", models.CheckItemCount))
	}
	sum := 0
	for _, score := range input.ItemScores {
		if score < 0 || score > 10 {
			return domain.Invalid("item scores must be between 0 and 10")
		}
		sum += score
	}
	if sum > 80 {
		return domain.Invalid("item scores may not sum to more than 80")
	}
	if input.TotalScore < 0 || input.TotalScore > 80 {
		return domain.Invalid("total score must be between 0 and 80")
	}
	return nil
}
