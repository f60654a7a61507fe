package service

import (
	"github.com/pawhaven/platform/internal/constants"
	"github.com/pawhaven/platform/internal/model"
)

// DashboardPath maps an authenticated role to its landing page. Total:
// unknown or absent roles land on the home page.
func DashboardPath(role string) string {
	switch role {
	case model.RoleAdmin:
		return constants.PathAdminDashboard
	case model.RoleShelter:
		return constants.PathShelterDashboard
	case model.RoleAdopter:
		return constants.PathAdopterDashboard
	default:
		return constants.PathHome
	}
}
