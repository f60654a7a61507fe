package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PetStatusAvailable = "available"
	PetStatusPending   = "pending"
	PetStatusAdopted   = "adopted"
)

type Pet struct {
	gorm.Model
	ShelterID  uint           `gorm:"column:shelter_id;not null;index"`
	Name       string         `gorm:"column:name;not null"`
	Species    string         `gorm:"column:species;not null"`
	Breed      string         `gorm:"column:breed"`
	AgeMonths  int            `gorm:"column:age_months"`
	Status     string         `gorm:"column:status;not null;default:available;index"`
	Attributes datatypes.JSON `gorm:"column:attributes"` // vaccinations, temperament, photo keys

	Shelter Shelter `gorm:"foreignKey:ShelterID"`
}
