package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/constants"
	"github.com/pawhaven/platform/internal/dto"
	apperrors "github.com/pawhaven/platform/internal/errors"
	"github.com/pawhaven/platform/internal/middleware"
	"github.com/pawhaven/platform/internal/service"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
)

type AuthHandler struct {
	auth          *service.AuthService
	pages         *service.PageService
	secureCookies bool
}

func NewAuthHandler(auth *service.AuthService, pages *service.PageService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		pages:         pages,
		secureCookies: secureCookies,
	}
}

// ShowLogin renders the login form. Authenticated callers never reach this:
// the route is wrapped in RedirectIfAuthenticated.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	data := buildPageData(c, h.pages, "Login")
	c.HTML(http.StatusOK, "login.html", data)
}

// Login verifies the submitted credentials and establishes a session. The
// session id is always reissued on login.
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Unreadable login form").Err(err).Log()
		h.renderLogin(c, req.Email, apperrors.ErrLoginFailed.Message)
		return
	}

	user, err := h.auth.Login(ctx, &req)
	if err != nil {
		h.renderLogin(c, req.Email, apperrors.GetErrorMessage(err))
		return
	}

	sess := middleware.SessionFromGin(c)
	if sess == nil {
		logger.ErrorWithContext(ctx, "Session middleware missing on login route").Log()
		h.renderLogin(c, req.Email, apperrors.ErrLoginFailed.Message)
		return
	}

	// Drop the pre-login id; the anonymous entry ages out with its TTL
	sess.ID = ""
	sess.Data = h.auth.SessionSnapshot(user)
	sess.SetFlash(constants.FlashSuccess, "Welcome back, "+user.FirstName+"!")
	if err := sess.Save(ctx, c.Writer); err != nil {
		logger.ErrorWithContext(ctx, "Failed to establish session").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
		h.renderLogin(c, req.Email, apperrors.ErrLoginFailed.Message)
		return
	}

	if req.RememberRequested() {
		token, expiresAt, err := h.auth.IssueRememberToken(ctx, user.ID)
		if err != nil {
			// Login still succeeds without the long-lived cookie
			logger.WarnWithContext(ctx, "Failed to issue remember token").
				Int("user_id", int(user.ID)).
				Err(err).
				Log()
		} else {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     constants.RememberCookieName,
				Value:    token,
				Path:     "/",
				Expires:  expiresAt,
				HttpOnly: true,
				Secure:   h.secureCookies,
				SameSite: http.SameSiteLaxMode,
			})
		}
	}

	c.Redirect(http.StatusFound, service.DashboardPath(user.Role))
}

// ShowRegister renders the registration form
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	data := buildPageData(c, h.pages, "Create an Account")
	c.HTML(http.StatusOK, "register.html", data)
}

// Register creates a new account. Validation failures re-render the form
// with every collected message and the submitted values echoed back, minus
// the passwords.
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		logger.WarnWithContext(ctx, "Unreadable registration form").Err(err).Log()
		h.renderRegister(c, &req, []string{"Please check the form and try again"})
		return
	}

	formErrors, err := h.auth.Register(ctx, &req)
	if err != nil {
		h.renderRegister(c, &req, []string{apperrors.GetErrorMessage(err)})
		return
	}
	if len(formErrors) > 0 {
		h.renderRegister(c, &req, formErrors.Messages())
		return
	}

	if sess := middleware.SessionFromGin(c); sess != nil {
		sess.SetFlash(constants.FlashSuccess, "Registration successful! Please log in.")
		if err := sess.Save(ctx, c.Writer); err != nil {
			logger.WarnWithContext(ctx, "Failed to save session").Err(err).Log()
		}
	}

	c.Redirect(http.StatusFound, constants.PathLogin)
}

// Logout tears down the session, invalidates any remember-me token and sends
// the caller to the login page
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	sess := middleware.SessionFromGin(c)
	if sess == nil {
		c.Redirect(http.StatusFound, constants.PathHome)
		return
	}

	userID := sess.Data.UserID
	role := sess.Data.Role

	if userID != 0 {
		if err := h.auth.ClearRememberToken(ctx, userID); err != nil {
			logger.WarnWithContext(ctx, "Failed to clear remember token").
				Int("user_id", int(userID)).
				Err(err).
				Log()
		}
	}

	if err := sess.Destroy(ctx, c.Writer); err != nil {
		logger.WarnWithContext(ctx, "Failed to destroy session").
			Int("user_id", int(userID)).
			Err(err).
			Log()
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.RememberCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	// A fresh session carries the goodbye flash
	sess.SetFlash(constants.FlashSuccess, "You have been logged out successfully")
	if err := sess.Save(ctx, c.Writer); err != nil {
		logger.WarnWithContext(ctx, "Failed to save post-logout session").Err(err).Log()
	}

	logger.InfoWithContext(ctx, "User logged out").
		Int("user_id", int(userID)).
		String("role", role).
		Log()

	c.Redirect(http.StatusFound, constants.PathHome)
}

func (h *AuthHandler) renderLogin(c *gin.Context, email string, message string) {
	data := buildPageData(c, h.pages, "Login")
	data.Errors = []string{message}
	data.Form = map[string]string{"email": email}
	c.HTML(http.StatusOK, "login.html", data)
}

func (h *AuthHandler) renderRegister(c *gin.Context, req *dto.RegisterRequest, messages []string) {
	data := buildPageData(c, h.pages, "Create an Account")
	data.Errors = messages
	data.Form = echoRegisterForm(req)
	c.HTML(http.StatusOK, "register.html", data)
}

// echoRegisterForm maps the submission back to template field names. The
// password fields are never echoed.
func echoRegisterForm(req *dto.RegisterRequest) map[string]string {
	form := map[string]string{
		"user_type":       req.UserType,
		"username":        req.Username,
		"first_name":      req.FirstName,
		"last_name":       req.LastName,
		"email":           req.Email,
		"phone":           req.Phone,
		"address":         req.Street,
		"city":            req.City,
		"district":        req.District,
		"province":        req.Province,
		"shelter_name":    req.ShelterName,
		"shelter_license": req.ShelterLicense,
	}
	if req.ShelterCapacity != 0 {
		form["shelter_capacity"] = strconv.Itoa(req.ShelterCapacity)
	}
	return form
}
