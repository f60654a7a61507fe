package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/constants"
	"github.com/pawhaven/platform/internal/service"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
	"github.com/pawhaven/platform/pkg/session"
)

// SessionMiddleware loads the caller's session (or a fresh anonymous one)
// and makes it available to every handler. When the session carries a user,
// the user id also lands in the request context for logging.
func SessionMiddleware(store *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := store.Load(c.Request.Context(), c.Request)
		c.Set(constants.CtxSession, sess)

		if sess.Authenticated() {
			ctx := ctxutil.WithUserID(c.Request.Context(), sess.Data.UserID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// SessionFromGin returns the session placed by SessionMiddleware, or nil when
// the middleware did not run
func SessionFromGin(c *gin.Context) *session.Session {
	val, exists := c.Get(constants.CtxSession)
	if !exists {
		return nil
	}
	sess, ok := val.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

// RememberMeMiddleware re-establishes a session from the remember-me cookie
// when no session exists. The token is rotated on every successful use. A
// token that fails to redeem is dropped so the browser stops presenting it.
func RememberMeMiddleware(auth *service.AuthService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromGin(c)
		if sess == nil || sess.Authenticated() {
			c.Next()
			return
		}

		cookie, err := c.Request.Cookie(constants.RememberCookieName)
		if err != nil || cookie.Value == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		user, newToken, expiresAt, err := auth.RedeemRememberToken(ctx, cookie.Value)
		if err != nil {
			clearRememberCookie(c, secureCookies)
			c.Next()
			return
		}

		sess.Data = auth.SessionSnapshot(user)
		if err := sess.Save(ctx, c.Writer); err != nil {
			logger.WarnWithContext(ctx, "Failed to save session from remember token").
				Int("user_id", int(user.ID)).
				Err(err).
				Log()
			c.Next()
			return
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     constants.RememberCookieName,
			Value:    newToken,
			Path:     "/",
			Expires:  expiresAt,
			HttpOnly: true,
			Secure:   secureCookies,
			SameSite: http.SameSiteLaxMode,
		})

		c.Request = c.Request.WithContext(ctxutil.WithUserID(ctx, user.ID))
		c.Next()
	}
}

func clearRememberCookie(c *gin.Context, secure bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     constants.RememberCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
