package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/middleware"
	"github.com/pawhaven/platform/internal/model"
)

func (r *Router) pageRoutes(engine *gin.Engine) {
	engine.GET("/", r.pageHandler.Home)
	engine.GET("/about", r.pageHandler.About)
	engine.GET("/contact", r.pageHandler.Contact)
	engine.POST("/newsletter", r.pageHandler.Newsletter)
}

func (r *Router) dashboardRoutes(engine *gin.Engine) {
	admin := engine.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.GET("/dashboard", r.pageHandler.AdminDashboard)
	}

	shelter := engine.Group("/shelter")
	shelter.Use(middleware.RequireRole(model.RoleShelter))
	{
		shelter.GET("/dashboard", r.pageHandler.ShelterDashboard)
	}

	adopter := engine.Group("/adopter")
	adopter.Use(middleware.RequireRole(model.RoleAdopter))
	{
		adopter.GET("/dashboard", r.pageHandler.AdopterDashboard)
	}
}
