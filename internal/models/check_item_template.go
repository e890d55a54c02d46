package models

import (
	"gorm.io/gorm"
)

// CheckItemCount is the number of scored categories on every inspection.
const CheckItemCount = 8

// CheckItemTemplate represents one of the fixed inspected categories
type CheckItemTemplate struct {
	BaseModel
	Code        string `gorm:"uniqueIndex;size:30;not null" json:"code"`
	Description string `gorm:"size:255;not null" json:"description"`
	Ordinal     int    `gorm:"uniqueIndex;not null" json:"ordinal"`

	// Relations
	ItemChecks []ItemCheck `gorm:"foreignKey:CheckItemTemplateID" json:"-"`
}

// DefaultCheckItemTemplates returns the stock 8-category catalog.
func DefaultCheckItemTemplates() []CheckItemTemplate {
	return []CheckItemTemplate{
		{Code: "BRAKES", Description: "Braking system", Ordinal: 1},
		{Code: "LIGHTS", Description: "Lights and signals", Ordinal: 2},
		{Code: "TIRES", Description: "Tires and wheels", Ordinal: 3},
		{Code: "ENGINE", Description: "Engine condition", Ordinal: 4},
		{Code: "STEERING", Description: "Steering system", Ordinal: 5},
		{Code: "SUSPENSION", Description: "Suspension", Ordinal: 6},
		{Code: "EMISSIONS", Description: "Exhaust emissions", Ordinal: 7},
		{Code: "SAFETY", Description: "Safety equipment", Ordinal: 8},
	}
}

// SeedCheckItemTemplates inserts the default catalog when the table is empty.
func SeedCheckItemTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&CheckItemTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	templates := DefaultCheckItemTemplates()
	return db.Create(&templates).Error
}
