package model

import "gorm.io/gorm"

// Shelter exists if and only if its owning user has role "shelter".
// Created in the same transaction as the user row.
type Shelter struct {
	gorm.Model
	UserID        uint   `gorm:"column:user_id;unique;not null"`
	ShelterName   string `gorm:"column:shelter_name;not null"`
	LicenseNumber string `gorm:"column:license_number;not null"`
	Capacity      int    `gorm:"column:capacity;not null"`
}
