package middleware

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pawhaven/platform/internal/constants"
	ctxutil "github.com/pawhaven/platform/pkg/context"
	"github.com/pawhaven/platform/pkg/logger"
	"go.uber.org/zap"
)

// RequestContextMiddleware seeds each request context with a request id,
// client metadata and the start time, so every downstream log line carries
// them
func RequestContextMiddleware(module string) gin.HandlerFunc {
	return func(c *gin.Context) {
		function := c.Request.URL.Path
		ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, module, function)
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		logger.InfoWithContext(ctx, "Request completed").
			String("method", c.Request.Method).
			String("path", c.Request.URL.Path).
			Int("status_code", c.Writer.Status()).
			Int("response_size", c.Writer.Size()).
			Duration(ctxutil.GetDuration(ctx)).
			Log()
	}
}

// LoggingMiddleware routes gin's access log through zap
func LoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithConfig(gin.LoggerConfig{
		Formatter: func(param gin.LogFormatterParams) string {
			logger.LogRequest(
				param.Method,
				param.Path,
				param.StatusCode,
				param.Latency.Milliseconds(),
				param.ClientIP,
				param.Request.UserAgent(),
			)

			if param.ErrorMessage != "" {
				logger.GetLogger().Error("Request error",
					zap.String("error", param.ErrorMessage),
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.String("client_ip", param.ClientIP),
					zap.Int("status_code", param.StatusCode),
				)
			}

			if param.Latency > time.Second*2 {
				logger.GetLogger().Warn("Slow request detected",
					zap.String("method", param.Method),
					zap.String("path", param.Path),
					zap.Duration("latency", param.Latency),
					zap.String("client_ip", param.ClientIP),
				)
			}

			return ""
		},
		Output: io.Discard,
	})
}

// RecoveryMiddleware recovers from panics, logs them and redirects the
// browser to the home page with a generic error flash
func RecoveryMiddleware() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.LogPanic(recovered)

		if sess := SessionFromGin(c); sess != nil {
			sess.SetFlash(constants.FlashError, "Something went wrong, please try again later")
			if err := sess.Save(c.Request.Context(), c.Writer); err != nil {
				logger.GetLogger().Warn("Failed to save session after panic", zap.Error(err))
			}
		}
		c.Redirect(302, constants.PathHome)
		c.Abort()
	})
}

// SecurityHeadersMiddleware sets the standard browser hardening headers on
// every response
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	}
}
