package logger

import (
	"context"
	"time"

	ctxutil "github.com/pawhaven/platform/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogBuilder accumulates fields for a single log line. Fields carried by the
// context (request id, client ip, module, function, user id) are attached
// automatically when the builder is created.
type LogBuilder struct {
	ctx     context.Context
	level   zapcore.Level
	message string
	fields  []zap.Field
}

func newBuilder(ctx context.Context, level zapcore.Level, message string) *LogBuilder {
	lb := &LogBuilder{
		ctx:     ctx,
		level:   level,
		message: message,
		fields:  make([]zap.Field, 0, 12),
	}
	lb.extractContextFields()
	return lb
}

func (lb *LogBuilder) extractContextFields() {
	if lb.ctx == nil {
		return
	}
	if requestID := ctxutil.GetRequestID(lb.ctx); requestID != "" {
		lb.fields = append(lb.fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(lb.ctx); clientIP != "" {
		lb.fields = append(lb.fields, zap.String("client_ip", clientIP))
	}
	if userID, ok := ctxutil.GetUserID(lb.ctx); ok {
		lb.fields = append(lb.fields, zap.Uint("user_id", userID))
	}
	if module := ctxutil.GetModule(lb.ctx); module != "" {
		lb.fields = append(lb.fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(lb.ctx); function != "" {
		lb.fields = append(lb.fields, zap.String("function", function))
	}
}

func (lb *LogBuilder) String(key, value string) *LogBuilder {
	lb.fields = append(lb.fields, zap.String(key, value))
	return lb
}

func (lb *LogBuilder) Int(key string, value int) *LogBuilder {
	lb.fields = append(lb.fields, zap.Int(key, value))
	return lb
}

func (lb *LogBuilder) Int64(key string, value int64) *LogBuilder {
	lb.fields = append(lb.fields, zap.Int64(key, value))
	return lb
}

func (lb *LogBuilder) Bool(key string, value bool) *LogBuilder {
	lb.fields = append(lb.fields, zap.Bool(key, value))
	return lb
}

func (lb *LogBuilder) Duration(value time.Duration) *LogBuilder {
	lb.fields = append(lb.fields, zap.Duration("duration", value))
	return lb
}

func (lb *LogBuilder) Err(err error) *LogBuilder {
	if err != nil {
		lb.fields = append(lb.fields, zap.Error(err))
	}
	return lb
}

func (lb *LogBuilder) Any(key string, value interface{}) *LogBuilder {
	lb.fields = append(lb.fields, zap.Any(key, value))
	return lb
}

// Log writes the accumulated line
func (lb *LogBuilder) Log() {
	switch lb.level {
	case zapcore.DebugLevel:
		GetLogger().Debug(lb.message, lb.fields...)
	case zapcore.InfoLevel:
		GetLogger().Info(lb.message, lb.fields...)
	case zapcore.WarnLevel:
		GetLogger().Warn(lb.message, lb.fields...)
	case zapcore.ErrorLevel:
		GetLogger().Error(lb.message, lb.fields...)
	}
}

func DebugWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.DebugLevel, message)
}

func InfoWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.InfoLevel, message)
}

func WarnWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.WarnLevel, message)
}

func ErrorWithContext(ctx context.Context, message string) *LogBuilder {
	return newBuilder(ctx, zapcore.ErrorLevel, message)
}
