package logger

import (
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Leveled JSON logger shared by the board service.
// Debug/Info/Warn/Error/Fatal variants plus structured request and security
// events, all written as one JSON object per line on stdout.

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	base  = newLogger(zapcore.Lock(os.Stdout))
)

func newLogger(w zapcore.WriteSyncer) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.MessageKey = "message"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(enc), w, level))
}

func current() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	case "fatal":
		level.SetLevel(zapcore.FatalLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// L exposes the underlying zap logger for callers that want typed fields.
func L() *zap.Logger { return current() }

// Sync flushes buffered entries; call before exit.
func Sync() { _ = current().Sync() }

func Debugf(format string, v ...interface{}) { current().Sugar().Debugf(format, v...) }
func Infof(format string, v ...interface{})  { current().Sugar().Infof(format, v...) }
func Warnf(format string, v ...interface{})  { current().Sugar().Warnf(format, v...) }
func Errorf(format string, v ...interface{}) { current().Sugar().Errorf(format, v...) }

// Fatalf logs and exits the process with status 1.
func Fatalf(format string, v ...interface{}) { current().Sugar().Fatalf(format, v...) }

func Debug(v string) { current().Debug(v) }
func Info(v string)  { current().Info(v) }
func Warn(v string)  { current().Warn(v) }
func Error(v string) { current().Error(v) }

// RequestFields is one access-log record.
type RequestFields struct {
	RequestID string
	Method    string
	Path      string
	Status    int
	Duration  time.Duration
	RemoteIP  string
	UserAgent string
}

// Request writes an access-log event. 5xx responses are logged at error level.
func Request(f RequestFields) {
	fields := []zap.Field{
		zap.String("request_id", f.RequestID),
		zap.String("method", f.Method),
		zap.String("path", f.Path),
		zap.Int("status", f.Status),
		zap.Int64("duration_ms", f.Duration.Milliseconds()),
		zap.String("remote_ip", f.RemoteIP),
		zap.String("user_agent", f.UserAgent),
	}
	if f.Status >= 500 {
		current().Error("request", fields...)
		return
	}
	current().Info("request", fields...)
}

// Security events; kept apart from request logging so alerting can key on "event".
const (
	EventRateLimitExceeded = "rate_limit_exceeded"
	EventCSRFOrForbidden   = "csrf_or_forbidden"
)

// Security writes a security-relevant event (rate limiting, CSRF, forbidden access).
func Security(event, path, identity string) {
	current().Warn("security",
		zap.String("event", event),
		zap.String("path", path),
		zap.String("ip", identity),
	)
}

// LevelString returns the current level as text.
func LevelString() string {
	return level.Level().String()
}
