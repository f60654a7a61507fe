package ctxutil

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the typed key for request-scoped values
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserIDKey    ContextKey = "user_id"
	ClientIPKey  ContextKey = "client_ip"
	UserAgentKey ContextKey = "user_agent"
	StartTimeKey ContextKey = "start_time"
	ModuleKey    ContextKey = "module"
	FunctionKey  ContextKey = "function"
)

// NewContextWithRequest enriches a context with request metadata plus the
// current module/function, for structured logging downstream
func NewContextWithRequest(ctx context.Context, r *http.Request, module, function string) context.Context {
	if GetRequestID(ctx) == "" {
		ctx = context.WithValue(ctx, RequestIDKey, uuid.NewString())
	}
	if r != nil {
		ctx = context.WithValue(ctx, ClientIPKey, clientIP(r))
		ctx = context.WithValue(ctx, UserAgentKey, r.UserAgent())
	}
	ctx = context.WithValue(ctx, StartTimeKey, time.Now())
	ctx = context.WithValue(ctx, ModuleKey, module)
	ctx = context.WithValue(ctx, FunctionKey, function)
	return ctx
}

// WithUserID adds user ID to context
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetRequestID(ctx context.Context) string {
	if val, ok := ctx.Value(RequestIDKey).(string); ok {
		return val
	}
	return ""
}

func GetClientIP(ctx context.Context) string {
	if val, ok := ctx.Value(ClientIPKey).(string); ok {
		return val
	}
	return ""
}

func GetUserAgent(ctx context.Context) string {
	if val, ok := ctx.Value(UserAgentKey).(string); ok {
		return val
	}
	return ""
}

func GetUserID(ctx context.Context) (uint, bool) {
	if val, ok := ctx.Value(UserIDKey).(uint); ok {
		return val, true
	}
	return 0, false
}

func GetModule(ctx context.Context) string {
	if val, ok := ctx.Value(ModuleKey).(string); ok {
		return val
	}
	return ""
}

func GetFunction(ctx context.Context) string {
	if val, ok := ctx.Value(FunctionKey).(string); ok {
		return val
	}
	return ""
}

func GetStartTime(ctx context.Context) time.Time {
	if val, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return val
	}
	return time.Time{}
}

// GetDuration calculates duration from start time
func GetDuration(ctx context.Context) time.Duration {
	startTime := GetStartTime(ctx)
	if !startTime.IsZero() {
		return time.Since(startTime)
	}
	return 0
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
