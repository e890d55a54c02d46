package models

// AnnualStatus represents the status of a yearly inspection cycle
type AnnualStatus string

const (
	AnnualPending    AnnualStatus = "PENDING"
	AnnualInProgress AnnualStatus = "IN_PROGRESS" // reserved, never set by the completion flow
	AnnualPassed     AnnualStatus = "PASSED"
	AnnualFailed     AnnualStatus = "FAILED"
)

// annualTransitions is the closed transition table driven by appointment
// completion. PASSED is terminal; a new year means a new record. The
// administrative status override is the only path around this table.
var annualTransitions = map[AnnualStatus][]AnnualStatus{
	AnnualPending:    {AnnualPassed, AnnualFailed},
	AnnualInProgress: {AnnualPassed, AnnualFailed},
	AnnualFailed:     {AnnualPassed, AnnualFailed}, // retry attempts
}

// CanTransitionTo reports whether a completion may move the cycle to next.
func (s AnnualStatus) CanTransitionTo(next AnnualStatus) bool {
	for _, allowed := range annualTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AnnualInspection represents one vehicle's inspection cycle for one calendar year
type AnnualInspection struct {
	BaseModel
	VehicleID       string       `gorm:"size:36;not null;uniqueIndex:uq_annual_vehicle_year" json:"vehicleId"`
	Year            int          `gorm:"not null;uniqueIndex:uq_annual_vehicle_year" json:"year"`
	Status          AnnualStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	AttemptCount    int          `gorm:"default:0" json:"attemptCount"`
	CurrentResultID *string      `gorm:"size:36" json:"currentResultId,omitempty"`

	// Relations
	Vehicle      Vehicle            `gorm:"foreignKey:VehicleID" json:"-"`
	Appointments []Appointment      `gorm:"foreignKey:AnnualInspectionID" json:"-"`
	Results      []InspectionResult `gorm:"foreignKey:AnnualInspectionID" json:"-"`
}
