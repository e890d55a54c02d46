package services

import (
	"errors"
	"time"
	"vehicle-inspection-server/internal/config"
	"vehicle-inspection-server/internal/domain"
	"vehicle-inspection-server/internal/models"

	"gorm.io/gorm"
)

// SlotService owns the pool of bookable time intervals.
type SlotService struct {
	db  *gorm.DB
	cfg config.InspectionConfig
}

// NewSlotService creates a new SlotService.
func NewSlotService(db *gorm.DB, cfg config.InspectionConfig) *SlotService {
	return &SlotService{db: db, cfg: cfg}
}

// WithTx returns a copy of the service bound to the given transaction.
func (s *SlotService) WithTx(tx *gorm.DB) *SlotService {
	return &SlotService{db: tx, cfg: s.cfg}
}

// Create persists a new unbooked slot starting at start. The end time is
// derived from the configured slot duration. Creation fails with a conflict
// when the interval overlaps any existing slot.
func (s *SlotService) Create(start time.Time) (*models.AvailabilitySlot, error) {
	end := start.Add(s.cfg.SlotDuration)

	// Half-open interval overlap: new.start < existing.end AND new.end > existing.start
	var overlapping int64
	err := s.db.Model(&models.AvailabilitySlot{}).
		Where("start_time < ? AND end_time > ?", end, start).
		Count(&overlapping).Error
	if err != nil {
		return nil, err
	}
	if overlapping > 0 {
		return nil, domain.Conflict("a slot overlapping this interval already exists")
	}

	slot := models.AvailabilitySlot{
		StartTime: start,
		EndTime:   end,
		IsBooked:  false,
	}
	if err := s.db.Create(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// List returns slots ordered by start time. Booked slots are excluded unless
// includeBooked is set; past slots are excluded unless a from bound is given.
func (s *SlotService) List(from, to *time.Time, includeBooked bool) ([]models.AvailabilitySlot, error) {
	query := s.db.Model(&models.AvailabilitySlot{})

	if !includeBooked {
		query = query.Where("is_booked = ?", false)
	}
	if from != nil {
		query = query.Where("start_time >= ?", *from)
	} else {
		query = query.Where("start_time > ?", time.Now())
	}
	if to != nil {
		query = query.Where("end_time <= ?", *to)
	}

	var slots []models.AvailabilitySlot
	if err := query.Order("start_time asc").Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// Get returns a slot by ID.
func (s *SlotService) Get(slotID string) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	if err := s.db.First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("slot")
		}
		return nil, err
	}
	return &slot, nil
}

// Book atomically claims the slot. The update is guarded by the current
// booked flag so two concurrent bookers cannot both win; the loser gets a
// conflict.
func (s *SlotService) Book(slotID string) (*models.AvailabilitySlot, error) {
	res := s.db.Model(&models.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Update("is_booked", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish missing from already booked.
		if _, err := s.Get(slotID); err != nil {
			return nil, err
		}
		return nil, domain.Conflict("this slot is already booked")
	}
	return s.Get(slotID)
}

// Free clears the booked flag on the slot, if set.
func (s *SlotService) Free(slotID string) error {
	res := s.db.Model(&models.AvailabilitySlot{}).
		Where("id = ? AND is_booked = ?", slotID, true).
		Update("is_booked", false)
	return res.Error
}

// Delete removes an unbooked slot. Booked slots cannot be deleted.
func (s *SlotService) Delete(slotID string) error {
	slot, err := s.Get(slotID)
	if err != nil {
		return err
	}
	if slot.IsBooked {
		return domain.Conflict("cannot delete a booked slot")
	}
	return s.db.Delete(slot).Error
}

// FindByStart returns the slot whose start time equals start, or nil when no
// such slot exists. Used by reschedule flows that receive a bare date-time.
func (s *SlotService) FindByStart(start time.Time) (*models.AvailabilitySlot, error) {
	var slot models.AvailabilitySlot
	err := s.db.First(&slot, "start_time = ?", start).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}
