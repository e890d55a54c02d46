package models

// InspectionResult represents the outcome of one completed appointment
type InspectionResult struct {
	BaseModel
	AnnualInspectionID string `gorm:"size:36;index;not null" json:"annualInspectionId"`
	AppointmentID      string `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	TotalScore         int    `gorm:"not null" json:"totalScore"`
	OwnerObservation   string `gorm:"type:text" json:"ownerObservation,omitempty"`

	// Relations
	AnnualInspection AnnualInspection `gorm:"foreignKey:AnnualInspectionID" json:"-"`
	Appointment      Appointment      `gorm:"foreignKey:AppointmentID" json:"-"`
	ItemChecks       []ItemCheck      `gorm:"foreignKey:InspectionResultID" json:"itemChecks,omitempty"`
}

// ItemCheck represents the recorded score for one template within one result
type ItemCheck struct {
	BaseModel
	InspectionResultID  string `gorm:"size:36;not null;uniqueIndex:uq_item_per_result" json:"inspectionResultId"`
	CheckItemTemplateID string `gorm:"size:36;not null;uniqueIndex:uq_item_per_result" json:"checkItemTemplateId"`
	Score               int    `gorm:"not null" json:"score"`
	Observation         string `gorm:"size:500" json:"observation,omitempty"`

	// Relations
	InspectionResult InspectionResult  `gorm:"foreignKey:InspectionResultID" json:"-"`
	Template         CheckItemTemplate `gorm:"foreignKey:CheckItemTemplateID" json:"template,omitempty"`
}
