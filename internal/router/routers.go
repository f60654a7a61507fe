package router

import (
	"github.com/Masterminds/sprig/v3"
	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/config"
	"github.com/pawhaven/platform/internal/handler"
	"github.com/pawhaven/platform/internal/middleware"
	"github.com/pawhaven/platform/internal/service"
	"github.com/pawhaven/platform/pkg/session"
)

type Router struct {
	authHandler   *handler.AuthHandler
	pageHandler   *handler.PageHandler
	healthHandler *handler.HealthHandler

	authService  *service.AuthService
	sessionStore *session.Store
	config       *config.Config
}

func NewRouter(
	auth *handler.AuthHandler,
	pages *handler.PageHandler,
	health *handler.HealthHandler,
	authService *service.AuthService,
	sessionStore *session.Store,
	cfg *config.Config,
) *Router {
	return &Router{
		authHandler:   auth,
		pageHandler:   pages,
		healthHandler: health,
		authService:   authService,
		sessionStore:  sessionStore,
		config:        cfg,
	}
}

func (r *Router) SetupRoutes() *gin.Engine {
	if r.config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.SetFuncMap(sprig.FuncMap())
	router.LoadHTMLGlob("web/templates/*.html")
	router.Static("/static", "web/static")

	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RequestContextMiddleware("web"))
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.SessionMiddleware(r.sessionStore))
	router.Use(middleware.RememberMeMiddleware(r.authService, r.config.Session.Secure))
	router.Use(middleware.RecoveryMiddleware())

	router.GET("/health", r.healthHandler.BasicHealth)
	router.GET("/health/full", r.healthHandler.HealthCheck)

	r.pageRoutes(router)
	r.authRoutes(router)
	r.dashboardRoutes(router)

	return router
}
