package model

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user can carry. Admin accounts are never self-registered,
// they come from the database seed.
const (
	RoleAdopter = "adopter"
	RoleShelter = "shelter"
	RoleAdmin   = "admin"
)

type User struct {
	gorm.Model
	Username  string `gorm:"column:username;unique;not null"`
	Email     string `gorm:"column:email;unique;not null"`
	Password  string `gorm:"column:password;not null"`
	Role      string `gorm:"column:role;not null;default:adopter"`
	FirstName string `gorm:"column:first_name;not null"`
	LastName  string `gorm:"column:last_name;not null"`
	Phone     string `gorm:"column:phone;not null"`
	Street    string `gorm:"column:street"`
	City      string `gorm:"column:city;not null"`
	District  string `gorm:"column:district;not null"`
	Province  string `gorm:"column:province;not null"`
	IsActive  bool   `gorm:"column:is_active;not null;default:true"`
	LastLogin time.Time

	RememberTokenHash    string     `gorm:"column:remember_token_hash;default:null;index:idx_users_remember_token_hash,where:remember_token_hash IS NOT NULL"`
	RememberTokenExpires *time.Time `gorm:"column:remember_token_expires_at;default:null"`

	Shelter *Shelter `gorm:"constraint:OnDelete:CASCADE"`
}

// FullName is the display name shown in the page shell
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
