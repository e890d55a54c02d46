package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "PENDING"
	StatusConfirmed AppointmentStatus = "CONFIRMED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// CreatedChannel records which surface created the appointment
type CreatedChannel string

const (
	ChannelClientPortal CreatedChannel = "CLIENT_PORTAL"
	ChannelAdminPanel   CreatedChannel = "ADMIN_PANEL"
)

// appointmentTransitions is the closed transition table for the normal
// appointment lifecycle. The administrative direct status update is the only
// operation allowed to bypass it.
var appointmentTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range appointmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether the appointment still occupies its time slot.
func (s AppointmentStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// Appointment represents one scheduled inspection visit
type Appointment struct {
	BaseModel
	AnnualInspectionID string            `gorm:"size:36;index;not null" json:"annualInspectionId"`
	VehicleID          string            `gorm:"size:36;index;not null" json:"vehicleId"`
	InspectorID        *string           `gorm:"size:36;index" json:"inspectorId,omitempty"`
	CreatedByUserID    string            `gorm:"size:36;not null" json:"createdByUserId"`
	CreatedChannel     CreatedChannel    `gorm:"size:20;not null" json:"createdChannel"`
	SlotID             *string           `gorm:"size:36;index" json:"slotId,omitempty"`
	DateTime           time.Time         `gorm:"not null" json:"dateTime"`
	Status             AppointmentStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	ConfirmationToken  string            `gorm:"size:64" json:"confirmationToken,omitempty"`

	// Relations
	AnnualInspection AnnualInspection  `gorm:"foreignKey:AnnualInspectionID" json:"-"`
	Vehicle          Vehicle           `gorm:"foreignKey:VehicleID" json:"-"`
	Inspector        *Inspector        `gorm:"foreignKey:InspectorID" json:"-"`
	CreatedByUser    User              `gorm:"foreignKey:CreatedByUserID" json:"-"`
	Slot             *AvailabilitySlot `gorm:"foreignKey:SlotID" json:"-"`
	Result           *InspectionResult `gorm:"foreignKey:AppointmentID" json:"-"`
}
