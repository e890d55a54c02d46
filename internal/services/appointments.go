package services

import (
	"errors"
	"fmt"
	"time"
	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentService creates, reschedules and cancels inspection
// appointments, reserving availability slots and attaching the owning
// annual-inspection cycle.
type AppointmentService struct {
	db     *gorm.DB
	cfg    config.InspectionConfig
	slots  *SlotService
	annual *AnnualService
}

// NewAppointmentService creates a new AppointmentService.
func NewAppointmentService(db *gorm.DB, cfg config.InspectionConfig) *AppointmentService {
	return &AppointmentService{
		db:     db,
		cfg:    cfg,
		slots:  NewSlotService(db, cfg),
		annual: NewAnnualService(db),
	}
}

// AppointmentCreateInput carries the fields for booking an appointment.
// Either SlotID or DateTime must be set; slot-less booking by bare date-time
// is a first-class back-office flow.
type AppointmentCreateInput struct {
	VehicleID          string
	AnnualInspectionID *string
	SlotID             *string
	DateTime           *time.Time
	InspectorID        *string
}

// AppointmentUpdateInput carries the optional fields of an update. Clients
// may only change the date-time; inspector reassignment and direct status
// changes are back-office operations.
type AppointmentUpdateInput struct {
	DateTime    *time.Time
	InspectorID *string
	Status      *models.AppointmentStatus
}

// AppointmentListFilter carries the optional list filters.
type AppointmentListFilter struct {
	Status      *models.AppointmentStatus
	VehicleID   string
	InspectorID string
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// Create books a new appointment as CONFIRMED.
func (s *AppointmentService) Create(input AppointmentCreateInput, caller *models.User) (*models.Appointment, error) {
	if caller.Role == models.RoleInspector {
		return nil, domain.Forbidden("inspectors cannot create appointments")
	}

	vehicle, err := s.annual.getVehicle(input.VehicleID)
	if err != nil {
		return nil, err
	}
	if caller.Role == models.RoleClient && vehicle.OwnerID != caller.ID {
		return nil, domain.Forbidden("you cannot create appointments for this vehicle")
	}

	var inspectorID *string
	if input.InspectorID != nil && *input.InspectorID != "" {
		id, err := s.validateInspectorAssignment(*input.InspectorID, caller)
		if err != nil {
			return nil, err
		}
		inspectorID = &id
	}

	if input.SlotID == nil && input.DateTime == nil {
		return nil, domain.Invalid("either a slot or a date-time must be provided")
	}
	if input.DateTime != nil && !input.DateTime.After(time.Now()) {
		return nil, domain.Invalid("the appointment date must be in the future")
	}

	channel := models.ChannelAdminPanel
	if caller.Role == models.RoleClient {
		channel = models.ChannelClientPortal
	}

	var appointment *models.Appointment
	err = s.db.Transaction(func(tx *gorm.DB) error {
		annual, err := s.annual.WithTx(tx).ResolveOrCreate(vehicle.ID, time.Now().Year(), input.AnnualInspectionID)
		if err != nil {
			return err
		}

		var slotID *string
		var dateTime time.Time
		if input.SlotID != nil && *input.SlotID != "" {
			slot, err := s.slots.WithTx(tx).Book(*input.SlotID)
			if err != nil {
				return err
			}
			slotID = &slot.ID
			dateTime = slot.StartTime
		} else {
			dateTime = *input.DateTime
		}

		appointment = &models.Appointment{
			AnnualInspectionID: annual.ID,
			VehicleID:          vehicle.ID,
			InspectorID:        inspectorID,
			CreatedByUserID:    caller.ID,
			CreatedChannel:     channel,
			SlotID:             slotID,
			DateTime:           dateTime,
			Status:             models.StatusConfirmed,
			ConfirmationToken:  newConfirmationToken(),
		}
		return tx.Create(appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// List returns appointments visible to the caller: clients see their own
// vehicles', inspectors their assignments, admins everything.
func (s *AppointmentService) List(filter AppointmentListFilter, caller *models.User) ([]models.Appointment, int64, error) {
	query := s.db.Model(&models.Appointment{}).
		Joins("JOIN vehicles ON vehicles.id = appointments.vehicle_id")

	switch caller.Role {
	case models.RoleClient:
		query = query.Where("vehicles.owner_id = ?", caller.ID)
	case models.RoleInspector:
		inspector, err := s.getInspectorProfile(caller)
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("appointments.inspector_id = ?", inspector.ID)
	}

	if filter.Status != nil {
		query = query.Where("appointments.status = ?", *filter.Status)
	}
	if filter.VehicleID != "" {
		query = query.Where("appointments.vehicle_id = ?", filter.VehicleID)
	}
	if filter.InspectorID != "" && caller.Role == models.RoleAdmin {
		query = query.Where("appointments.inspector_id = ?", filter.InspectorID)
	}
	if filter.From != nil {
		query = query.Where("appointments.date_time >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("appointments.date_time <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	var appointments []models.Appointment
	err := query.Order("appointments.date_time desc").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, err
	}
	return appointments, total, nil
}

// Get returns one appointment, enforcing role-scoped visibility.
func (s *AppointmentService) Get(appointmentID string, caller *models.User) (*models.Appointment, error) {
	appointment, err := s.getByID(appointmentID)
	if err != nil {
		return nil, err
	}

	switch caller.Role {
	case models.RoleClient:
		vehicle, err := s.annual.getVehicle(appointment.VehicleID)
		if err != nil {
			return nil, err
		}
		if vehicle.OwnerID != caller.ID {
			return nil, domain.Forbidden("you cannot view this appointment")
		}
	case models.RoleInspector:
		inspector, err := s.getInspectorProfile(caller)
		if err != nil {
			return nil, err
		}
		if appointment.InspectorID == nil || *appointment.InspectorID != inspector.ID {
			return nil, domain.Forbidden("you cannot view this appointment")
		}
	}
	return appointment, nil
}

// Update reschedules an appointment, reassigns its inspector or directly
// overrides its status, depending on the caller role.
func (s *AppointmentService) Update(appointmentID string, input AppointmentUpdateInput, caller *models.User) (*models.Appointment, error) {
	if caller.Role == models.RoleInspector {
		return nil, domain.Forbidden("inspectors cannot modify appointments")
	}

	appointment, err := s.getByID(appointmentID)
	if err != nil {
		return nil, err
	}

	if caller.Role == models.RoleClient {
		if err := s.validateClientUpdate(appointment, input, caller); err != nil {
			return nil, err
		}
	}

	if input.DateTime != nil && !input.DateTime.After(time.Now()) {
		return nil, domain.Invalid("the appointment date must be in the future")
	}

	var inspectorID *string
	if input.InspectorID != nil && *input.InspectorID != "" {
		id, err := s.validateInspectorAssignment(*input.InspectorID, caller)
		if err != nil {
			return nil, err
		}
		inspectorID = &id
	}
	if input.Status != nil && caller.Role != models.RoleAdmin {
		return nil, domain.Forbidden("only administrators can change the status")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		slots := s.slots.WithTx(tx)

		if input.DateTime != nil {
			// Release the currently held slot, then claim a slot matching
			// the new time if one exists.
			if appointment.SlotID != nil {
				if err := slots.Free(*appointment.SlotID); err != nil {
					return err
				}
				appointment.SlotID = nil
			}
			slot, err := slots.FindByStart(*input.DateTime)
			if err != nil {
				return err
			}
			if slot != nil {
				booked, err := slots.Book(slot.ID)
				if err != nil {
					return err
				}
				appointment.SlotID = &booked.ID
			}
			appointment.DateTime = *input.DateTime
		}

		if inspectorID != nil {
			appointment.InspectorID = inspectorID
		}
		if input.Status != nil {
			// Administrative direct status set; bypasses the transition table.
			appointment.Status = *input.Status
		}
		return tx.Save(appointment).Error
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel sets the appointment CANCELLED and frees its slot. Cancelling an
// already-cancelled appointment is a conflict.
func (s *AppointmentService) Cancel(appointmentID string, caller *models.User) error {
	if caller.Role == models.RoleInspector {
		return domain.Forbidden("inspectors cannot cancel appointments")
	}

	appointment, err := s.getByID(appointmentID)
	if err != nil {
		return err
	}

	if caller.Role == models.RoleClient {
		vehicle, err := s.annual.getVehicle(appointment.VehicleID)
		if err != nil {
			return err
		}
		if vehicle.OwnerID != caller.ID {
			return domain.Forbidden("you cannot cancel this appointment")
		}
		if appointment.Status == models.StatusCompleted {
			return domain.Conflict("a completed appointment cannot be cancelled")
		}
	}

	if appointment.Status == models.StatusCancelled {
		return domain.Conflict("the appointment is already cancelled")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if appointment.SlotID != nil {
			if err := s.slots.WithTx(tx).Free(*appointment.SlotID); err != nil {
				return err
			}
		}
		appointment.Status = models.StatusCancelled
		return tx.Save(appointment).Error
	})
}

// AvailableSlots lists future unbooked slots, capped to the configured
// maximum.
func (s *AppointmentService) AvailableSlots(from, to *time.Time) ([]models.AvailabilitySlot, error) {
	slots, err := s.slots.List(from, to, false)
	if err != nil {
		return nil, err
	}
	if len(slots) > s.cfg.MaxSlotResults {
		slots = slots[:s.cfg.MaxSlotResults]
	}
	return slots, nil
}

func (s *AppointmentService) validateClientUpdate(appointment *models.Appointment, input AppointmentUpdateInput, caller *models.User) error {
	vehicle, err := s.annual.getVehicle(appointment.VehicleID)
	if err != nil {
		return err
	}
	if vehicle.OwnerID != caller.ID {
		return domain.Forbidden("you cannot modify this appointment")
	}
	if appointment.Status == models.StatusCompleted || appointment.Status == models.StatusCancelled {
		return domain.Conflict("a completed or cancelled appointment cannot be modified")
	}
	if input.InspectorID != nil || input.Status != nil {
		return domain.Forbidden("you may only change the appointment date")
	}
	return nil
}

func (s *AppointmentService) validateInspectorAssignment(inspectorID string, caller *models.User) (string, error) {
	if caller.Role != models.RoleAdmin {
		return "", domain.Forbidden("only administrators can assign inspectors")
	}
	var inspector models.Inspector
	err := s.db.First(&inspector, "id = ? AND active = ?", inspectorID, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.NotFound("inspector not found or inactive")
		}
		return "", err
	}
	return inspector.ID, nil
}

func (s *AppointmentService) getInspectorProfile(user *models.User) (*models.Inspector, error) {
	var inspector models.Inspector
	if err := s.db.First(&inspector, "user_id = ?", user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("inspector")
		}
		return nil, err
	}
	return &inspector, nil
}

func (s *AppointmentService) getByID(id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := s.db.First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("appointment")
		}
		return nil, err
	}
	return &appointment, nil
}

func newConfirmationToken() string {
	return fmt.Sprintf("CONF-%s", uuid.New().String()[:8])
}
