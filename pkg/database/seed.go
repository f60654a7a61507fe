package database

import (
	"github.com/pawhaven/platform/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminSeed defines the bootstrap admin account. Registration never creates
// admins; this is the operational path for provisioning one.
type AdminSeed struct {
	Username string
	Email    string
	Password string
}

// SeedAdmin creates the admin user if it does not exist yet.
// An empty email or password disables seeding.
func SeedAdmin(db *gorm.DB, seed AdminSeed) error {
	if seed.Email == "" || seed.Password == "" {
		return nil
	}

	var existing model.User
	result := db.Where("email = ?", seed.Email).First(&existing)
	if result.Error == nil {
		return nil
	}
	if result.Error != gorm.ErrRecordNotFound {
		return result.Error
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Username:  seed.Username,
		Email:     seed.Email,
		Password:  string(hashedPassword),
		Role:      model.RoleAdmin,
		FirstName: "Platform",
		LastName:  "Admin",
		Phone:     "",
		City:      "-",
		District:  "-",
		Province:  "-",
		IsActive:  true,
	}

	return db.Create(&admin).Error
}
