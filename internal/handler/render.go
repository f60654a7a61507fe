package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/dto"
	"github.com/pawhaven/platform/internal/middleware"
	"github.com/pawhaven/platform/internal/service"
	"github.com/pawhaven/platform/pkg/logger"
)

// buildPageData assembles the payload every template render receives: the
// caller's session view, the navbar counts and any pending flash messages.
// Popping the flashes mutates the session, so it is saved back when any were
// consumed.
func buildPageData(c *gin.Context, pages *service.PageService, title string) dto.PageData {
	data := dto.PageData{
		Title:  title,
		Counts: pages.NavCounts(c.Request.Context()),
	}

	sess := middleware.SessionFromGin(c)
	if sess == nil {
		return data
	}

	if sess.Authenticated() {
		data.Session = dto.SessionView{
			Authenticated: true,
			Username:      sess.Data.Username,
			DisplayName:   sess.Data.FirstName + " " + sess.Data.LastName,
			Role:          sess.Data.Role,
			DashboardPath: service.DashboardPath(sess.Data.Role),
		}
	}

	if flashes := sess.PopAllFlashes(); len(flashes) > 0 {
		data.Flash = flashes
		if sess.ID != "" {
			if err := sess.Save(c.Request.Context(), c.Writer); err != nil {
				logger.WarnWithContext(c.Request.Context(), "Failed to save session after flash drain").
					Err(err).
					Log()
			}
		}
	}

	return data
}
