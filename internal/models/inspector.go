package models

// Inspector represents the inspector profile of a user with the inspector role
type Inspector struct {
	BaseModel
	UserID     string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	EmployeeID string `gorm:"uniqueIndex;size:50;not null" json:"employeeId"`
	Active     bool   `gorm:"default:true" json:"active"`

	// Relations
	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:InspectorID" json:"-"`
}
