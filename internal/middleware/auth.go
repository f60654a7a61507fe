package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/constants"
	"github.com/pawhaven/platform/internal/service"
	"github.com/pawhaven/platform/pkg/logger"
)

// RequireAuth redirects anonymous callers to the login page
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromGin(c)
		if sess == nil || !sess.Authenticated() {
			if sess != nil {
				sess.SetFlash(constants.FlashWarning, "Please log in to continue")
				if err := sess.Save(c.Request.Context(), c.Writer); err != nil {
					logger.WarnWithContext(c.Request.Context(), "Failed to save session").Err(err).Log()
				}
			}
			c.Redirect(http.StatusFound, constants.PathLogin)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole guards a role-specific area. An authenticated caller with a
// different role is sent to their own dashboard, not to an error page.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromGin(c)
		if sess == nil || !sess.Authenticated() {
			if sess != nil {
				sess.SetFlash(constants.FlashWarning, "Please log in to continue")
				if err := sess.Save(c.Request.Context(), c.Writer); err != nil {
					logger.WarnWithContext(c.Request.Context(), "Failed to save session").Err(err).Log()
				}
			}
			c.Redirect(http.StatusFound, constants.PathLogin)
			c.Abort()
			return
		}

		if sess.Data.Role != role {
			logger.WarnWithContext(c.Request.Context(), "Role mismatch on guarded area").
				String("required_role", role).
				String("session_role", sess.Data.Role).
				Int("user_id", int(sess.Data.UserID)).
				Log()
			c.Redirect(http.StatusFound, service.DashboardPath(sess.Data.Role))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RedirectIfAuthenticated keeps logged-in users off the login and
// registration pages by sending them to their dashboard
func RedirectIfAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromGin(c)
		if sess != nil && sess.Authenticated() {
			c.Redirect(http.StatusFound, service.DashboardPath(sess.Data.Role))
			c.Abort()
			return
		}
		c.Next()
	}
}
