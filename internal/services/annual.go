package services

import (
	"errors"
	"time"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"gorm.io/gorm"
)

// AnnualService owns the per-vehicle, per-year inspection cycle records.
type AnnualService struct {
	db *gorm.DB
}

// NewAnnualService creates a new AnnualService.
func NewAnnualService(db *gorm.DB) *AnnualService {
	return &AnnualService{db: db}
}

// WithTx returns a copy of the service bound to the given transaction.
func (s *AnnualService) WithTx(tx *gorm.DB) *AnnualService {
	return &AnnualService{db: tx}
}

// AnnualCreateInput carries the fields for creating a cycle directly.
type AnnualCreateInput struct {
	VehicleID string
	Year      int
}

// AnnualListFilter carries the optional list filters.
type AnnualListFilter struct {
	Status    *models.AnnualStatus
	Year      *int
	VehicleID string
	Page      int
	PageSize  int
}

// AppointmentStats summarizes the appointments of one cycle for display.
type AppointmentStats struct {
	TotalAppointments   int64      `json:"totalAppointments"`
	LastAppointmentDate *time.Time `json:"lastAppointmentDate"`
}

// Create opens a new cycle for (vehicle, year). Inspectors may not create
// cycles; clients only for their own vehicles. A duplicate (vehicle, year)
// is a conflict.
func (s *AnnualService) Create(input AnnualCreateInput, caller *models.User) (*models.AnnualInspection, error) {
	if caller.Role == models.RoleInspector {
		return nil, domain.Forbidden("inspectors cannot create annual inspections")
	}

	vehicle, err := s.getVehicle(input.VehicleID)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleClient && vehicle.OwnerID != caller.ID {
		return nil, domain.Forbidden("you cannot create inspections for this vehicle")
	}

	var existing models.AnnualInspection
	err = s.db.First(&existing, "vehicle_id = ? AND year = ?", input.VehicleID, input.Year).Error
	if err == nil {
		return nil, domain.Conflict("an annual inspection already exists for this vehicle and year")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	inspection := models.AnnualInspection{
		VehicleID:    input.VehicleID,
		Year:         input.Year,
		Status:       models.AnnualPending,
		AttemptCount: 0,
	}
	if err := s.db.Create(&inspection).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflict("an annual inspection already exists for this vehicle and year")
		}
		return nil, err
	}
	return &inspection, nil
}

// ResolveOrCreate returns the cycle for (vehicle, year), creating it as
// PENDING when absent. When explicitID is supplied, the referenced cycle is
// used after a cross-reference check against the vehicle. An existing PASSED
// cycle rejects creation callers with a conflict. A duplicate insert lost to
// a concurrent creator is treated as "already exists" and re-read.
func (s *AnnualService) ResolveOrCreate(vehicleID string, year int, explicitID *string) (*models.AnnualInspection, error) {
	if explicitID != nil && *explicitID != "" {
		annual, err := s.getByID(*explicitID)
		if err != nil {
			return nil, err
		}
		if annual.VehicleID != vehicleID {
			return nil, domain.Invalid("the annual inspection does not belong to the specified vehicle")
		}
		return annual, nil
	}

	var annual models.AnnualInspection
	err := s.db.First(&annual, "vehicle_id = ? AND year = ?", vehicleID, year).Error
	if err == nil {
		if annual.Status == models.AnnualPassed {
			return nil, domain.Conflict("this year's inspection is already approved")
		}
		return &annual, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := models.AnnualInspection{
		VehicleID:    vehicleID,
		Year:         year,
		Status:       models.AnnualPending,
		AttemptCount: 0,
	}
	if err := s.db.Create(&created).Error; err != nil {
		if isUniqueViolation(err) {
			// Lost the race: some other request created the cycle first.
			var winner models.AnnualInspection
			if rerr := s.db.First(&winner, "vehicle_id = ? AND year = ?", vehicleID, year).Error; rerr != nil {
				return nil, rerr
			}
			if winner.Status == models.AnnualPassed {
				return nil, domain.Conflict("this year's inspection is already approved")
			}
			return &winner, nil
		}
		return nil, err
	}
	return &created, nil
}

// List returns cycles visible to the caller, with pagination and filters.
// Clients see only cycles of their own vehicles.
func (s *AnnualService) List(filter AnnualListFilter, caller *models.User) ([]models.AnnualInspection, int64, error) {
	query := s.db.Model(&models.AnnualInspection{}).
		Joins("JOIN vehicles ON vehicles.id = annual_inspections.vehicle_id")

	if caller.Role == models.RoleClient {
		query = query.Where("vehicles.owner_id = ?", caller.ID)
	}
	if filter.Status != nil {
		query = query.Where("annual_inspections.status = ?", *filter.Status)
	}
	if filter.Year != nil {
		query = query.Where("annual_inspections.year = ?", *filter.Year)
	}
	if filter.VehicleID != "" {
		query = query.Where("annual_inspections.vehicle_id = ?", filter.VehicleID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var inspections []models.AnnualInspection
	err := query.Order("annual_inspections.created_at desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&inspections).Error
	if err != nil {
		return nil, 0, err
	}
	return inspections, total, nil
}

// Get returns one cycle, enforcing client ownership.
func (s *AnnualService) Get(inspectionID string, caller *models.User) (*models.AnnualInspection, error) {
	annual, err := s.getByID(inspectionID)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleClient {
		vehicle, err := s.getVehicle(annual.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.OwnerID != caller.ID {
			return nil, domain.Forbidden("you cannot view this inspection")
		}
	}
	return annual, nil
}

// UpdateStatus directly overwrites the cycle status. This is the
// administrative correction path and deliberately bypasses the transition
// table; the route restricts it to admins.
func (s *AnnualService) UpdateStatus(inspectionID string, status models.AnnualStatus) (*models.AnnualInspection, error) {
	annual, err := s.getByID(inspectionID)
	if err != nil {
		return nil, err
	}
	annual.Status = status
	if err := s.db.Save(annual).Error; err != nil {
		return nil, err
	}
	return annual, nil
}

// Delete removes a cycle and cascades to its appointments and results.
// Admin-only; enforced by the route.
func (s *AnnualService) Delete(inspectionID string) error {
	annual, err := s.getByID(inspectionID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var resultIDs []string
		if err := tx.Model(&models.InspectionResult{}).
			Where("annual_inspection_id = ?", annual.ID).
			Pluck("id", &resultIDs).Error; err != nil {
			return err
		}
		if len(resultIDs) > 0 {
			if err := tx.Where("inspection_result_id IN ?", resultIDs).
				Delete(&models.ItemCheck{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("annual_inspection_id = ?", annual.ID).
			Delete(&models.InspectionResult{}).Error; err != nil {
			return err
		}
		if err := tx.Where("annual_inspection_id = ?", annual.ID).
			Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Delete(annual).Error
	})
}

// Stats returns the appointment count and most recent appointment time for
// one cycle.
func (s *AnnualService) Stats(inspectionID string) (*AppointmentStats, error) {
	if _, err := s.getByID(inspectionID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Appointment{}).
		Where("annual_inspection_id = ?", inspectionID).
		Count(&count).Error; err != nil {
		return nil, err
	}

	stats := &AppointmentStats{TotalAppointments: count}
	if count > 0 {
		var last models.Appointment
		err := s.db.Where("annual_inspection_id = ?", inspectionID).
			Order("date_time desc").First(&last).Error
		if err != nil {
			return nil, err
		}
		stats.LastAppointmentDate = &last.DateTime
	}
	return stats, nil
}

func (s *AnnualService) getByID(id string) (*models.AnnualInspection, error) {
	var annual models.AnnualInspection
	if err := s.db.First(&annual, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("annual inspection")
		}
		return nil, err
	}
	return &annual, nil
}

func (s *AnnualService) getVehicle(id string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := s.db.First(&vehicle, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("vehicle")
		}
		return nil, err
	}
	return &vehicle, nil
}
