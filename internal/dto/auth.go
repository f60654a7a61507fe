package dto

// RegisterRequest is the registration form. Field order matters: validation
// errors are collected and surfaced in this order. Validation itself runs in
// the service so that fields can be trimmed first and every rule checked
// before any database access.
type RegisterRequest struct {
	UserType        string `form:"user_type" validate:"required,oneof=adopter shelter"`
	Username        string `form:"username" validate:"required,min=3,username"`
	FirstName       string `form:"first_name" validate:"required"`
	LastName        string `form:"last_name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	Phone           string `form:"phone" validate:"required,phone_local"`
	Street          string `form:"address"`
	City            string `form:"city" validate:"required"`
	District        string `form:"district" validate:"required"`
	Province        string `form:"province" validate:"required"`
	ShelterName     string `form:"shelter_name" validate:"required_if=UserType shelter"`
	ShelterLicense  string `form:"shelter_license" validate:"required_if=UserType shelter"`
	ShelterCapacity int    `form:"shelter_capacity" validate:"required_if=UserType shelter,omitempty,gt=0"`
}

// LoginRequest is the login form. Presence and syntax are checked by hand in
// the service because the failure precedence (password, then email, then
// email format) is fixed.
type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
	Remember string `form:"remember_me"`
}

// RememberRequested reports whether the remember-me checkbox was ticked
func (r *LoginRequest) RememberRequested() bool {
	return r.Remember == "on" || r.Remember == "true" || r.Remember == "1"
}

type NewsletterRequest struct {
	Email string `form:"email" binding:"required,email"`
}
