package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/middleware"
)

func (r *Router) authRoutes(engine *gin.Engine) {
	auth := engine.Group("/auth")
	{
		// The forms are only reachable logged out; a logged-in caller is
		// bounced to their dashboard
		guest := auth.Group("")
		guest.Use(middleware.RedirectIfAuthenticated())
		{
			guest.GET("/login", r.authHandler.ShowLogin)
			guest.POST("/login", r.authHandler.Login)
			guest.GET("/register", r.authHandler.ShowRegister)
			guest.POST("/register", r.authHandler.Register)
		}

		auth.GET("/logout", r.authHandler.Logout)
		auth.POST("/logout", r.authHandler.Logout)
	}
}
