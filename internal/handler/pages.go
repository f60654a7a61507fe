package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/constants"
	"github.com/pawhaven/platform/internal/dto"
	apperrors "github.com/pawhaven/platform/internal/errors"
	"github.com/pawhaven/platform/internal/middleware"
	"github.com/pawhaven/platform/internal/service"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
)

const featuredPetLimit = 6

type PageHandler struct {
	pages *service.PageService
}

func NewPageHandler(pages *service.PageService) *PageHandler {
	return &PageHandler{pages: pages}
}

// Home renders the landing page with the featured pet strip
func (h *PageHandler) Home(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Home")

	data := buildPageData(c, h.pages, "Find Your New Best Friend")

	pets, err := h.pages.FeaturedPets(ctx, featuredPetLimit)
	if err != nil {
		// The page renders without the strip
		logger.WarnWithContext(ctx, "Featured pets unavailable").Err(err).Log()
	} else {
		data.Pets = pets
	}

	c.HTML(http.StatusOK, "home.html", data)
}

func (h *PageHandler) About(c *gin.Context) {
	c.HTML(http.StatusOK, "about.html", buildPageData(c, h.pages, "About Us"))
}

func (h *PageHandler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", buildPageData(c, h.pages, "Contact Us"))
}

// Newsletter handles the footer signup form and redirects back to where the
// form was submitted from
func (h *PageHandler) Newsletter(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Newsletter")

	sess := middleware.SessionFromGin(c)
	flash := func(key, message string) {
		if sess == nil {
			return
		}
		sess.SetFlash(key, message)
		if err := sess.Save(ctx, c.Writer); err != nil {
			logger.WarnWithContext(ctx, "Failed to save session").Err(err).Log()
		}
	}

	var req dto.NewsletterRequest
	if err := c.ShouldBind(&req); err != nil {
		flash(constants.FlashError, apperrors.ErrEmailInvalid.Message)
		c.Redirect(http.StatusFound, newsletterReturnPath(c))
		return
	}

	if err := h.pages.SubscribeNewsletter(ctx, req.Email); err != nil {
		flash(constants.FlashError, apperrors.GetErrorMessage(err))
		c.Redirect(http.StatusFound, newsletterReturnPath(c))
		return
	}

	flash(constants.FlashSuccess, "Thanks for subscribing!")
	c.Redirect(http.StatusFound, newsletterReturnPath(c))
}

// AdminDashboard renders the admin landing page. Role enforcement happens in
// the route group middleware.
func (h *PageHandler) AdminDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", buildPageData(c, h.pages, "Admin Dashboard"))
}

func (h *PageHandler) ShelterDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", buildPageData(c, h.pages, "Shelter Dashboard"))
}

func (h *PageHandler) AdopterDashboard(c *gin.Context) {
	c.HTML(http.StatusOK, "dashboard.html", buildPageData(c, h.pages, "My Dashboard"))
}

func newsletterReturnPath(c *gin.Context) string {
	if referer := c.Request.Referer(); referer != "" {
		return referer
	}
	return constants.PathHome
}
