package models

import (
	"time"
)

// AvailabilitySlot represents a fixed-duration bookable time interval.
// Slots are created administratively ahead of demand and claimed by
// appointments; a slot belongs to no vehicle until it is booked.
type AvailabilitySlot struct {
	BaseModel
	StartTime time.Time `gorm:"not null;index" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`
	IsBooked  bool      `gorm:"default:false" json:"isBooked"`
}

// Overlaps reports whether the slot intersects the half-open interval
// [start, end).
func (s *AvailabilitySlot) Overlaps(start, end time.Time) bool {
	return start.Before(s.EndTime) && end.After(s.StartTime)
}
