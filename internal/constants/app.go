package constants

// Flash keys consumed by the shared page shell. Each one is read-once:
// displayed on the next render, then cleared.
const (
	FlashSuccess = "success_message"
	FlashError   = "error_message"
	FlashWarning = "warning_message"
	FlashInfo    = "info_message"
)

// Destination paths for the role router and navigation
const (
	PathHome             = "/"
	PathAbout            = "/about"
	PathContact          = "/contact"
	PathLogin            = "/auth/login"
	PathRegister         = "/auth/register"
	PathLogout           = "/auth/logout"
	PathAdminDashboard   = "/admin/dashboard"
	PathShelterDashboard = "/shelter/dashboard"
	PathAdopterDashboard = "/adopter/dashboard"
)

// Cookie carrying the long-lived remember-me token
const RememberCookieName = "remember_token"

// Gin context keys set by the session middleware
const (
	CtxSession = "session"
)
