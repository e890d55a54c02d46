package models

// Vehicle represents a registered vehicle subject to yearly inspection
type Vehicle struct {
	BaseModel
	PlateNumber string `gorm:"uniqueIndex;size:20;not null" json:"plateNumber"`
	Make        string `gorm:"size:60" json:"make"`
	Model       string `gorm:"size:60" json:"model"`
	Year        int    `json:"year"`
	OwnerID     string `gorm:"size:36;index;not null" json:"ownerId"`
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	// Relations
	Owner             User               `gorm:"foreignKey:OwnerID" json:"-"`
	AnnualInspections []AnnualInspection `gorm:"foreignKey:VehicleID" json:"-"`
	Appointments      []Appointment      `gorm:"foreignKey:VehicleID" json:"-"`
}
